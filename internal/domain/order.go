package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderCompleted, OrderCancelled:
		return true
	default:
		return false
	}
}

// PaymentMethod is a code of the payment_methods lookup table.
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentCash || m == PaymentCard
}

// InitialStatus is the status an order is persisted with.
// Cash sales are settled at the counter, card sales wait for the gateway.
func (m PaymentMethod) InitialStatus() OrderStatus {
	if m == PaymentCash {
		return OrderCompleted
	}
	return OrderPending
}

type PaymentMethodInfo struct {
	Code        PaymentMethod
	Description string
}

// Order is a sale header with its line items.
type Order struct {
	ID            int64
	CustomerID    int64
	CustomerName  string // joined on read
	CreatedAt     time.Time
	Total         decimal.Decimal
	Discount      decimal.Decimal
	Taxes         decimal.Decimal
	PaymentMethod PaymentMethod
	Status        OrderStatus
	Notes         string
	// CheckoutKey names the checkout sale the order was built from. At most
	// one order exists per key.
	CheckoutKey string
	Lines       []OrderLine
}

// OrderLine is immutable once written.
type OrderLine struct {
	ID           int64
	OrderID      int64
	ProductID    int64
	ProductName  string
	CategoryName string
	Quantity     int
	UnitPrice    decimal.Decimal
	Subtotal     decimal.Decimal
}

func NewOrderLine(productID int64, quantity int, unitPrice decimal.Decimal) OrderLine {
	return OrderLine{
		ProductID: productID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		Subtotal:  unitPrice.Mul(decimal.NewFromInt(int64(quantity))),
	}
}

// OrderStats summarises sales.
type OrderStats struct {
	CompletedCount  int64
	PendingCount    int64
	CompletedAmount decimal.Decimal
	AverageTicket   decimal.Decimal
}
