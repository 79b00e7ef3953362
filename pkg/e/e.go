package e

import "fmt"

var (
	// Transactions
	ErrTransactionNotFound = fmt.Errorf("transaction not found")

	// Config
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect environment variable")

	// 400 Bad Request
	ErrStatusBadRequest     = fmt.Errorf("bad request")
	ErrValidation           = fmt.Errorf("validation failed")
	ErrMissingFields        = fmt.Errorf("missing required fields")
	ErrInvalidPrice         = fmt.Errorf("invalid price")
	ErrPricePrecision       = fmt.Errorf("price must have at most 2 decimal places")
	ErrInvalidQuantity      = fmt.Errorf("quantity must be at least 1")
	ErrInvalidID            = fmt.Errorf("invalid identifier")
	ErrExpectedMultipart    = fmt.Errorf("expected multipart/form-data")
	ErrNoImages             = fmt.Errorf("no image provided")
	ErrFileTooLarge         = fmt.Errorf("file too large")
	ErrUnsupportedMediaType = fmt.Errorf("unsupported media type")
	ErrInvalidSubcategory   = fmt.Errorf("invalid category and subcategory combination")
	ErrInvalidStatus        = fmt.Errorf("invalid status")
	ErrInvalidPaymentMethod = fmt.Errorf("invalid payment method")
	ErrInvalidOutcome       = fmt.Errorf("invalid payment outcome")

	// 404 Not Found
	ErrCategoryNotFound = fmt.Errorf("category not found")
	ErrProductNotFound  = fmt.Errorf("product not found")
	ErrCustomerNotFound = fmt.Errorf("customer not found")
	ErrOrderNotFound    = fmt.Errorf("order not found")
	ErrPaymentNotFound  = fmt.Errorf("payment not found")
	ErrSessionNotFound  = fmt.Errorf("checkout session not found")

	// 409 Conflict
	ErrCategoryExists      = fmt.Errorf("category with this name and subcategory already exists")
	ErrDuplicateNationalID = fmt.Errorf("customer with this national id already exists")
	ErrCustomerHasOrders   = fmt.Errorf("customer has registered orders")
	ErrOrderNotPending     = fmt.Errorf("order is not pending")
	ErrCheckoutClosed      = fmt.Errorf("checkout session is already confirmed")
	ErrOrderExists         = fmt.Errorf("an order already exists for this sale")

	// 422 business rules
	ErrEmptyOrder             = fmt.Errorf("order has no line items")
	ErrCustomerRequired       = fmt.Errorf("customer is required")
	ErrInsufficientStock      = fmt.Errorf("insufficient stock")
	ErrPaymentMethodRequired  = fmt.Errorf("payment method is required")
	ErrCardPaymentRequired    = fmt.Errorf("order is not paid by card")
	ErrPaymentIntentNotActive = fmt.Errorf("no payment intent is awaiting a result")

	// 502 payment provider
	ErrPaymentProvider = fmt.Errorf("payment provider error")

	// 500
	ErrInternalServerError = fmt.Errorf("internal server error")
)

// Wrap prefixes err with msg, keeping it matchable with errors.Is.
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
