package http

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/Rafa-lopez12/examen-arqui/internal/usecase"
	"github.com/Rafa-lopez12/examen-arqui/pkg/e"
	"github.com/Rafa-lopez12/examen-arqui/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
	"github.com/shopspring/decimal"
)

const maxJSONBody = 1 << 20

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func NewErrorResponse(code int, message string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
	}
}

var statusBySentinel = []struct {
	err    error
	status int
}{
	{e.ErrStatusBadRequest, http.StatusBadRequest},
	{e.ErrExpectedMultipart, http.StatusBadRequest},
	{e.ErrMissingFields, http.StatusBadRequest},
	{e.ErrInvalidPrice, http.StatusBadRequest},
	{e.ErrPricePrecision, http.StatusBadRequest},
	{e.ErrInvalidQuantity, http.StatusBadRequest},
	{e.ErrInvalidID, http.StatusBadRequest},
	{e.ErrNoImages, http.StatusBadRequest},
	{e.ErrInvalidSubcategory, http.StatusBadRequest},
	{e.ErrInvalidStatus, http.StatusBadRequest},
	{e.ErrInvalidPaymentMethod, http.StatusBadRequest},
	{e.ErrInvalidOutcome, http.StatusBadRequest},
	{e.ErrFileTooLarge, http.StatusRequestEntityTooLarge},
	{e.ErrUnsupportedMediaType, http.StatusUnsupportedMediaType},

	{e.ErrCategoryNotFound, http.StatusNotFound},
	{e.ErrProductNotFound, http.StatusNotFound},
	{e.ErrCustomerNotFound, http.StatusNotFound},
	{e.ErrOrderNotFound, http.StatusNotFound},
	{e.ErrPaymentNotFound, http.StatusNotFound},
	{e.ErrSessionNotFound, http.StatusNotFound},

	{e.ErrCategoryExists, http.StatusConflict},
	{e.ErrDuplicateNationalID, http.StatusConflict},
	{e.ErrCustomerHasOrders, http.StatusConflict},
	{e.ErrOrderNotPending, http.StatusConflict},
	{e.ErrCheckoutClosed, http.StatusConflict},
	{e.ErrOrderExists, http.StatusConflict},

	{e.ErrEmptyOrder, http.StatusUnprocessableEntity},
	{e.ErrCustomerRequired, http.StatusUnprocessableEntity},
	{e.ErrInsufficientStock, http.StatusUnprocessableEntity},
	{e.ErrPaymentMethodRequired, http.StatusUnprocessableEntity},
	{e.ErrCardPaymentRequired, http.StatusUnprocessableEntity},
	{e.ErrPaymentIntentNotActive, http.StatusUnprocessableEntity},
}

// ToHTTPResponse maps err to a status code and a client safe message.
// Validation and provider errors keep their detail, everything unknown is a 500.
func ToHTTPResponse(err error) (int, string) {
	switch {
	case errors.Is(err, e.ErrValidation):
		return http.StatusBadRequest, validationMessage(err)
	case errors.Is(err, e.ErrPaymentProvider):
		msg := err.Error()
		if i := strings.Index(msg, e.ErrPaymentProvider.Error()); i >= 0 {
			msg = msg[i:]
		}
		return http.StatusBadGateway, msg
	}

	for _, m := range statusBySentinel {
		if errors.Is(err, m.err) {
			return m.status, m.err.Error()
		}
	}

	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) {
		return http.StatusRequestEntityTooLarge, e.ErrFileTooLarge.Error()
	}

	return http.StatusInternalServerError, e.ErrInternalServerError.Error()
}

// validationMessage drops the operation prefixes of a wrapped validation error.
func validationMessage(err error) string {
	msg := err.Error()
	if i := strings.LastIndex(msg, "UseCase."); i >= 0 {
		if j := strings.Index(msg[i:], ": "); j >= 0 {
			msg = msg[i+j+2:]
		}
	}
	return msg
}

func WriteError(w http.ResponseWriter, err error) {
	code, msg := ToHTTPResponse(err)
	WriteSuccess(w, code, NewErrorResponse(code, msg))
}

func WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// fail logs err at warn for client errors and at error for server errors, then writes it.
func fail(log logger.Logger, w http.ResponseWriter, r *http.Request, err error) {
	code, _ := ToHTTPResponse(err)
	if code >= http.StatusInternalServerError {
		log.Errorf(err, "%d %s %s", code, r.Method, r.URL.Path)
	} else {
		log.Warnf("%d %s %s: %v", code, r.Method, r.URL.Path, err)
	}
	WriteError(w, err)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			return err
		}
		return e.Wrap(err.Error(), e.ErrStatusBadRequest)
	}
	return nil
}

// pathID reads a positive int64 URL parameter.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id < 1 {
		return 0, e.Wrap(name, e.ErrInvalidID)
	}
	return id, nil
}

func queryID(r *http.Request, name string) (int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, e.Wrap(name, e.ErrInvalidID)
	}
	return id, nil
}

// parsePrice accepts "599.99" or "600": non-negative, at most 2 decimals.
func parsePrice(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, e.Wrap("price is empty", e.ErrMissingFields)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, e.ErrInvalidPrice
	}
	if d.IsNegative() {
		return decimal.Zero, e.ErrInvalidPrice
	}

	maxPrice := decimal.NewFromInt(1_000_000_000)
	if d.GreaterThan(maxPrice) {
		return decimal.Zero, e.ErrInvalidPrice
	}
	if !d.Equal(d.Truncate(2)) {
		return decimal.Zero, e.ErrPricePrecision
	}

	return d, nil
}

// parseOptionalAmount is parsePrice that treats "" as zero.
func parseOptionalAmount(s string) (decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return decimal.Zero, nil
	}
	return parsePrice(s)
}

func ensureMultipartForm(r *http.Request, maxMemory int64) error {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return e.Wrap(whereami.WhereAmI(), e.ErrExpectedMultipart)
	}
	return r.ParseMultipartForm(maxMemory)
}

func parseImage(files []*multipart.FileHeader, maxFileSize int64) (*usecase.ProductImage, error) {
	if len(files) == 0 {
		return nil, e.ErrNoImages
	}

	fh := files[0]
	data, mimeType, err := readFile(fh, maxFileSize)
	if err != nil {
		return nil, err
	}
	return usecase.NewProductImage(data, mimeType, int64(len(data)), fh.Filename), nil
}

func readFile(fh *multipart.FileHeader, maxSize int64) ([]byte, string, error) {
	if fh.Size > maxSize {
		return nil, "", e.Wrap(fh.Filename, e.ErrFileTooLarge)
	}

	src, err := fh.Open()
	if err != nil {
		return nil, "", e.Wrap(whereami.WhereAmI(), err)
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxSize+1))
	if err != nil {
		return nil, "", e.Wrap(whereami.WhereAmI(), err)
	}
	if int64(len(data)) > maxSize {
		return nil, "", e.Wrap(fh.Filename, e.ErrFileTooLarge)
	}
	if len(data) == 0 {
		return nil, "", e.Wrap(fh.Filename, e.ErrNoImages)
	}

	mimeType := http.DetectContentType(data[:min(len(data), 512)])
	return data, mimeType, nil
}
