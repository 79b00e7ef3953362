package validator

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	FailedField string `json:"failed_field"`
	Tag         string `json:"tag"`
	Value       string `json:"value"`
}

var validate = validator.New()

func init() {
	// decimal.Decimal is validated as a float so the builtin gte/gt tags apply
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

func ValidateStruct(data interface{}) []*ErrorResponse {
	var errors []*ErrorResponse
	err := validate.Struct(data)
	if err != nil {
		validationErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return []*ErrorResponse{{FailedField: "", Tag: "invalid", Value: err.Error()}}
		}
		for _, err := range validationErrs {
			var element ErrorResponse
			element.FailedField = err.StructNamespace()
			element.Tag = err.Tag()
			element.Value = err.Param()
			errors = append(errors, &element)
		}
	}
	return errors
}

// Summary joins validation errors into one line, e.g. "Customer.Email: email".
func Summary(errs []*ErrorResponse) string {
	parts := make([]string, 0, len(errs))
	for _, err := range errs {
		if err.Value != "" {
			parts = append(parts, fmt.Sprintf("%s: %s=%s", err.FailedField, err.Tag, err.Value))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", err.FailedField, err.Tag))
	}
	return strings.Join(parts, "; ")
}
