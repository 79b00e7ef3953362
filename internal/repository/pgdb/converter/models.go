package converter

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategoryModel is a row of categories.
type CategoryModel struct {
	ID          int64      `db:"id"`
	Name        string     `db:"name"`
	Subcategory string     `db:"subcategory"`
	Description string     `db:"description"`
	Active      bool       `db:"active"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   *time.Time `db:"updated_at"`
}

// ProductModel is a row of products joined with its category name.
type ProductModel struct {
	ID           int64           `db:"id"`
	Name         string          `db:"name"`
	Description  string          `db:"description"`
	Price        decimal.Decimal `db:"price"`
	CategoryID   int64           `db:"category_id"`
	CategoryName string          `db:"category_name"`
	Subcategory  string          `db:"subcategory"`
	Stock        int             `db:"stock"`
	ImageKey     string          `db:"image_key"`
	CreatedAt    time.Time       `db:"created_at"`
	UpdatedAt    *time.Time      `db:"updated_at"`
}

type CustomerModel struct {
	ID               int64     `db:"id"`
	Name             string    `db:"name"`
	Surname          string    `db:"surname"`
	Phone            string    `db:"phone"`
	Email            string    `db:"email"`
	Address          string    `db:"address"`
	NationalID       string    `db:"national_id"`
	RegistrationDate time.Time `db:"registration_date"`
	Active           bool      `db:"active"`
}

// OrderModel is a row of orders joined with the customer's name.
type OrderModel struct {
	ID            int64           `db:"id"`
	CustomerID    int64           `db:"customer_id"`
	CustomerName  string          `db:"customer_name"`
	CreatedAt     time.Time       `db:"created_at"`
	Total         decimal.Decimal `db:"total"`
	Discount      decimal.Decimal `db:"discount"`
	Taxes         decimal.Decimal `db:"taxes"`
	PaymentMethod string          `db:"payment_method"`
	Status        string          `db:"status"`
	Notes         string          `db:"notes"`
	CheckoutKey   string          `db:"checkout_key"`
}

// OrderItemModel is a row of order_items joined with product and category names.
type OrderItemModel struct {
	ID           int64           `db:"id"`
	OrderID      int64           `db:"order_id"`
	ProductID    int64           `db:"product_id"`
	ProductName  string          `db:"product_name"`
	CategoryName string          `db:"category_name"`
	Quantity     int             `db:"quantity"`
	UnitPrice    decimal.Decimal `db:"unit_price"`
	Subtotal     decimal.Decimal `db:"subtotal"`
}

type PaymentModel struct {
	ID            int64           `db:"id"`
	OrderID       int64           `db:"order_id"`
	Amount        decimal.Decimal `db:"amount"`
	PaymentMethod string          `db:"payment_method"`
	PaidAt        time.Time       `db:"paid_at"`
	Reference     string          `db:"reference"`
	Status        string          `db:"status"`
}

// OutboxEventModel is a row of outbox_events.
type OutboxEventModel struct {
	ID          int64      `db:"id"`
	EventID     string     `db:"event_id"`
	EventType   string     `db:"event_type"`
	OrderID     int64      `db:"order_id"`
	Payload     []byte     `db:"payload"`
	Status      string     `db:"status"`
	CreatedAt   time.Time  `db:"created_at"`
	ProcessedAt *time.Time `db:"processed_at"`
}
