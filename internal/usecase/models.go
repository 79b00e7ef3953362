package usecase

import (
	"time"

	"github.com/Rafa-lopez12/examen-arqui/internal/domain"
	"github.com/shopspring/decimal"
)

// CATALOG

type CreateCategoryReq struct {
	Name        string `validate:"required,max=100"`
	Subcategory string `validate:"required,max=100"`
	Description string `validate:"max=500"`
}

type UpdateCategoryReq struct {
	ID          int64  `validate:"required,gt=0"`
	Name        string `validate:"required,max=100"`
	Subcategory string `validate:"required,max=100"`
	Description string `validate:"max=500"`
	Active      bool
}

// DeleteCategoryRes tells whether the category was only deactivated because products use it.
type DeleteCategoryRes struct {
	SoftDeleted   bool
	ProductsInUse int64
}

type ProductReq struct {
	Name        string          `validate:"required,max=200"`
	Description string          `validate:"max=2000"`
	Price       decimal.Decimal `validate:"gte=0"`
	CategoryID  int64           `validate:"required,gt=0"`
	Subcategory string          `validate:"max=100"`
	Stock       int             `validate:"gte=0"`
}

// ProductFilter narrows ListProducts. Zero values mean no filter.
type ProductFilter struct {
	CategoryID  int64
	Subcategory string
}

// ProductImage is an uploaded picture read from multipart/form-data.
type ProductImage struct {
	Data     []byte
	MimeType string
	Size     int64
	Name     string // original file name, for logs
}

type GetProductsReq struct {
	IDs []int64
}

type GetProductsRes struct {
	Products         []domain.Product
	NotFoundProducts []int64
}

// CUSTOMERS

type CustomerReq struct {
	Name       string `validate:"required,max=100"`
	Surname    string `validate:"required,max=100"`
	Phone      string `validate:"max=30"`
	Email      string `validate:"omitempty,email,max=200"`
	Address    string `validate:"max=500"`
	NationalID string `validate:"required,max=30"`
}

// CHECKOUT

type AdjustmentsReq struct {
	Discount decimal.Decimal
	Notes    string `validate:"max=1000"`
}

type ConfirmRes struct {
	Session domain.CheckoutSnapshot
	Order   *domain.Order
	// Payment is set for card orders whose payment intent was created.
	Payment *StartPaymentRes
}

// PAYMENTS

type StartPaymentRes struct {
	OrderID         int64
	PaymentIntentID string
	ClientSecret    string
	AmountMinor     int64
	Currency        string
	Description     string
}

// PaymentResult is what the recorder did with an outcome.
type PaymentResult struct {
	Order        *domain.Order
	Payment      *domain.Payment // nil unless the outcome was a success
	ErrorMessage string
}

type OrderPaymentsRes struct {
	Payments   []domain.Payment
	TotalPaid  decimal.Decimal
	OrderTotal decimal.Decimal
	FullyPaid  bool
}

type UpdatePaymentReq struct {
	Status    domain.PaymentStatus `validate:"required,oneof=pending completed"`
	Reference string               `validate:"max=255"`
}

// INFRASTRUCTURE

type CreatePaymentIntentReq struct {
	AmountMinor    int64
	Currency       string
	Description    string
	IdempotencyKey string
}

type PaymentIntent struct {
	ID           string
	ClientSecret string
}

type WriteRawMessageReq struct {
	OrderID   int64
	EventType string
	Payload   []byte
}

// OUTBOX

type OutboxStatus string

const (
	Pending    OutboxStatus = "pending"
	Processing OutboxStatus = "processing"
	Processed  OutboxStatus = "processed"
)

const (
	EventOrderCreated    = "order.created"
	EventOrderCompleted  = "order.completed"
	EventOrderCancelled  = "order.cancelled"
	EventPaymentRecorded = "payment.recorded"
)

type OutboxEvent struct {
	ID          int64
	EventID     string
	EventType   string
	OrderID     int64
	Payload     []byte
	Status      OutboxStatus
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// OrderEventPayload is the JSON body published for order and payment events.
type OrderEventPayload struct {
	EventID       string    `json:"event_id"`
	EventType     string    `json:"event_type"`
	OrderID       int64     `json:"order_id"`
	CustomerID    int64     `json:"customer_id"`
	Status        string    `json:"status"`
	PaymentMethod string    `json:"payment_method"`
	Total         string    `json:"total"`
	Reference     string    `json:"reference,omitempty"`
	Lines         int       `json:"lines,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// MAPPERS

func NewGetProductsRes(products []domain.Product, notFound []int64) *GetProductsRes {
	return &GetProductsRes{
		Products:         products,
		NotFoundProducts: notFound,
	}
}

func NewGetProductsReq(ids []int64) *GetProductsReq {
	return &GetProductsReq{IDs: ids}
}

func NewProductImage(data []byte, mimeType string, size int64, name string) *ProductImage {
	return &ProductImage{
		Data:     data,
		MimeType: mimeType,
		Size:     size,
		Name:     name,
	}
}

func NewWriteRawMessageReq(orderID int64, eventType string, payload []byte) *WriteRawMessageReq {
	return &WriteRawMessageReq{
		OrderID:   orderID,
		EventType: eventType,
		Payload:   payload,
	}
}
