package http

import (
	"time"

	"github.com/Rafa-lopez12/examen-arqui/internal/domain"
	"github.com/Rafa-lopez12/examen-arqui/internal/usecase"
)

// Money is rendered as a string with two decimals ("1500.50").

type CategoryResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Subcategory string `json:"subcategory"`
	Description string `json:"description"`
	Active      bool   `json:"active"`
}

type CategoryRequest struct {
	Name        string `json:"name"`
	Subcategory string `json:"subcategory"`
	Description string `json:"description"`
	Active      *bool  `json:"active,omitempty"`
}

type DeleteCategoryResponse struct {
	SoftDeleted   bool  `json:"soft_deleted"`
	ProductsInUse int64 `json:"products_in_use"`
}

type ProductResponse struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	Price        string     `json:"price"`
	CategoryID   int64      `json:"category_id"`
	CategoryName string     `json:"category_name"`
	Subcategory  string     `json:"subcategory"`
	Stock        int        `json:"stock"`
	ImageKey     string     `json:"image_key,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

type ProductRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	CategoryID  int64  `json:"category_id"`
	Subcategory string `json:"subcategory"`
	Stock       int    `json:"stock"`
}

type CustomerResponse struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Surname          string    `json:"surname"`
	FullName         string    `json:"full_name"`
	Phone            string    `json:"phone"`
	Email            string    `json:"email"`
	Address          string    `json:"address"`
	NationalID       string    `json:"national_id"`
	RegistrationDate time.Time `json:"registration_date"`
	Active           bool      `json:"active"`
}

type CustomerRequest struct {
	Name       string `json:"name"`
	Surname    string `json:"surname"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	Address    string `json:"address"`
	NationalID string `json:"national_id"`
}

type OrderLineResponse struct {
	ProductID    int64  `json:"product_id"`
	ProductName  string `json:"product_name"`
	CategoryName string `json:"category_name"`
	Quantity     int    `json:"quantity"`
	UnitPrice    string `json:"unit_price"`
	Subtotal     string `json:"subtotal"`
}

type OrderResponse struct {
	ID            int64               `json:"id"`
	CustomerID    int64               `json:"customer_id"`
	CustomerName  string              `json:"customer_name"`
	CreatedAt     time.Time           `json:"created_at"`
	Total         string              `json:"total"`
	Discount      string              `json:"discount"`
	Taxes         string              `json:"taxes"`
	PaymentMethod string              `json:"payment_method"`
	Status        string              `json:"status"`
	Notes         string              `json:"notes"`
	Lines         []OrderLineResponse `json:"lines,omitempty"`
}

type OrderStatsResponse struct {
	CompletedCount  int64  `json:"completed_count"`
	PendingCount    int64  `json:"pending_count"`
	CompletedAmount string `json:"completed_amount"`
	AverageTicket   string `json:"average_ticket"`
}

type StatusRequest struct {
	Status string `json:"status"`
}

type PaymentResponse struct {
	ID        int64     `json:"id"`
	OrderID   int64     `json:"order_id"`
	Amount    string    `json:"amount"`
	Method    string    `json:"method"`
	PaidAt    time.Time `json:"paid_at"`
	Reference string    `json:"reference"`
	Status    string    `json:"status"`
}

type OrderPaymentsResponse struct {
	Payments   []PaymentResponse `json:"payments"`
	TotalPaid  string            `json:"total_paid"`
	OrderTotal string            `json:"order_total"`
	FullyPaid  bool              `json:"fully_paid"`
}

type UpdatePaymentRequest struct {
	Status    string `json:"status"`
	Reference string `json:"reference"`
}

type PaymentMethodResponse struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type PaymentIntentResponse struct {
	OrderID         int64  `json:"order_id"`
	PaymentIntentID string `json:"payment_intent_id"`
	ClientSecret    string `json:"client_secret"`
	AmountMinor     int64  `json:"amount_minor"`
	Currency        string `json:"currency"`
	Description     string `json:"description"`
}

// OutcomeRequest is the terminal result reported by the hosted payment form.
// Kind is completed, canceled or failed.
type OutcomeRequest struct {
	Kind      string `json:"kind"`
	Reference string `json:"reference"`
	Reason    string `json:"reason"`
}

type OutcomeResponse struct {
	Kind      string `json:"kind"`
	Reference string `json:"reference,omitempty"`
	Message   string `json:"message,omitempty"`
}

type PaymentResultResponse struct {
	Order        OrderResponse    `json:"order"`
	Payment      *PaymentResponse `json:"payment,omitempty"`
	ErrorMessage string           `json:"error_message,omitempty"`
}

type CartLineResponse struct {
	ProductID      int64  `json:"product_id"`
	ProductName    string `json:"product_name"`
	CategoryName   string `json:"category_name"`
	Subcategory    string `json:"subcategory"`
	Quantity       int    `json:"quantity"`
	UnitPrice      string `json:"unit_price"`
	Subtotal       string `json:"subtotal"`
	AvailableStock int    `json:"available_stock"`
}

type CheckoutResponse struct {
	ID            string             `json:"id"`
	State         string             `json:"state"`
	CustomerID    int64              `json:"customer_id,omitempty"`
	CustomerName  string             `json:"customer_name,omitempty"`
	Lines         []CartLineResponse `json:"lines"`
	Subtotal      string             `json:"subtotal"`
	Discount      string             `json:"discount"`
	Total         string             `json:"total"`
	Notes         string             `json:"notes,omitempty"`
	PaymentMethod string             `json:"payment_method,omitempty"`
	OrderID       int64              `json:"order_id,omitempty"`
	ClientSecret  string             `json:"client_secret,omitempty"`
	PaymentError  string             `json:"payment_error,omitempty"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

type ConfirmResponse struct {
	Session CheckoutResponse       `json:"session"`
	Order   OrderResponse          `json:"order"`
	Payment *PaymentIntentResponse `json:"payment,omitempty"`
}

type SelectCustomerRequest struct {
	CustomerID int64 `json:"customer_id"`
}

type AddItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type AdjustmentsRequest struct {
	Discount string `json:"discount"`
	Notes    string `json:"notes"`
}

type PaymentMethodRequest struct {
	Method string `json:"method"`
}

// MAPPERS

func toCategoryResponse(c *domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Subcategory: c.Subcategory,
		Description: c.Description,
		Active:      c.Active,
	}
}

func toCategoryResponses(cs []domain.Category) []CategoryResponse {
	res := make([]CategoryResponse, 0, len(cs))
	for i := range cs {
		res = append(res, toCategoryResponse(&cs[i]))
	}
	return res
}

func toProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price.StringFixed(2),
		CategoryID:   p.CategoryID,
		CategoryName: p.CategoryName,
		Subcategory:  p.Subcategory,
		Stock:        p.Stock,
		ImageKey:     p.ImageKey,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func toProductResponses(ps []domain.Product) []ProductResponse {
	res := make([]ProductResponse, 0, len(ps))
	for i := range ps {
		res = append(res, toProductResponse(&ps[i]))
	}
	return res
}

func toCustomerResponse(c *domain.Customer) CustomerResponse {
	return CustomerResponse{
		ID:               c.ID,
		Name:             c.Name,
		Surname:          c.Surname,
		FullName:         c.FullName(),
		Phone:            c.Phone,
		Email:            c.Email,
		Address:          c.Address,
		NationalID:       c.NationalID,
		RegistrationDate: c.RegistrationDate,
		Active:           c.Active,
	}
}

func toCustomerResponses(cs []domain.Customer) []CustomerResponse {
	res := make([]CustomerResponse, 0, len(cs))
	for i := range cs {
		res = append(res, toCustomerResponse(&cs[i]))
	}
	return res
}

func toOrderResponse(o *domain.Order) OrderResponse {
	lines := make([]OrderLineResponse, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, OrderLineResponse{
			ProductID:    l.ProductID,
			ProductName:  l.ProductName,
			CategoryName: l.CategoryName,
			Quantity:     l.Quantity,
			UnitPrice:    l.UnitPrice.StringFixed(2),
			Subtotal:     l.Subtotal.StringFixed(2),
		})
	}
	return OrderResponse{
		ID:            o.ID,
		CustomerID:    o.CustomerID,
		CustomerName:  o.CustomerName,
		CreatedAt:     o.CreatedAt,
		Total:         o.Total.StringFixed(2),
		Discount:      o.Discount.StringFixed(2),
		Taxes:         o.Taxes.StringFixed(2),
		PaymentMethod: string(o.PaymentMethod),
		Status:        string(o.Status),
		Notes:         o.Notes,
		Lines:         lines,
	}
}

func toOrderResponses(os []domain.Order) []OrderResponse {
	res := make([]OrderResponse, 0, len(os))
	for i := range os {
		res = append(res, toOrderResponse(&os[i]))
	}
	return res
}

func toPaymentResponse(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		ID:        p.ID,
		OrderID:   p.OrderID,
		Amount:    p.Amount.StringFixed(2),
		Method:    string(p.Method),
		PaidAt:    p.PaidAt,
		Reference: p.Reference,
		Status:    string(p.Status),
	}
}

func toPaymentIntentResponse(p *usecase.StartPaymentRes) *PaymentIntentResponse {
	if p == nil {
		return nil
	}
	return &PaymentIntentResponse{
		OrderID:         p.OrderID,
		PaymentIntentID: p.PaymentIntentID,
		ClientSecret:    p.ClientSecret,
		AmountMinor:     p.AmountMinor,
		Currency:        p.Currency,
		Description:     p.Description,
	}
}

func toPaymentResultResponse(r *usecase.PaymentResult) PaymentResultResponse {
	res := PaymentResultResponse{ErrorMessage: r.ErrorMessage}
	if r.Order != nil {
		res.Order = toOrderResponse(r.Order)
	}
	if r.Payment != nil {
		p := toPaymentResponse(r.Payment)
		res.Payment = &p
	}
	return res
}

func toOutcomeResponse(o domain.PaymentOutcome) OutcomeResponse {
	return OutcomeResponse{
		Kind:      string(o.Kind),
		Reference: o.Reference,
		Message:   o.ErrorMessage(),
	}
}

func toCheckoutResponse(s *domain.CheckoutSnapshot) CheckoutResponse {
	lines := make([]CartLineResponse, 0, len(s.Lines))
	for _, l := range s.Lines {
		lines = append(lines, CartLineResponse{
			ProductID:      l.ProductID,
			ProductName:    l.ProductName,
			CategoryName:   l.CategoryName,
			Subcategory:    l.Subcategory,
			Quantity:       l.Quantity,
			UnitPrice:      l.UnitPrice.StringFixed(2),
			Subtotal:       l.Subtotal().StringFixed(2),
			AvailableStock: l.AvailableStock,
		})
	}
	return CheckoutResponse{
		ID:            s.ID,
		State:         string(s.State),
		CustomerID:    s.CustomerID,
		CustomerName:  s.CustomerName,
		Lines:         lines,
		Subtotal:      s.Subtotal.StringFixed(2),
		Discount:      s.Discount.StringFixed(2),
		Total:         s.Total.StringFixed(2),
		Notes:         s.Notes,
		PaymentMethod: string(s.PaymentMethod),
		OrderID:       s.OrderID,
		ClientSecret:  s.ClientSecret,
		PaymentError:  s.PaymentError,
		UpdatedAt:     s.UpdatedAt,
	}
}

// toOutcome turns the wire form into the tagged outcome. Unknown kinds stay
// invalid so the use case rejects them.
func (o OutcomeRequest) toOutcome() domain.PaymentOutcome {
	switch domain.OutcomeKind(o.Kind) {
	case domain.OutcomeCompleted:
		return domain.Completed(o.Reference)
	case domain.OutcomeCanceled:
		return domain.Canceled()
	case domain.OutcomeFailed:
		return domain.Failed(o.Reason)
	default:
		return domain.PaymentOutcome{Kind: domain.OutcomeKind(o.Kind)}
	}
}
