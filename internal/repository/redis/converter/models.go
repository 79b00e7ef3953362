package converter

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductRedisModel is the cached JSON form of a product.
type ProductRedisModel struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	CategoryID   int64           `json:"category_id"`
	CategoryName string          `json:"category_name"`
	Subcategory  string          `json:"subcategory"`
	Stock        int             `json:"stock"`
	ImageKey     string          `json:"image_key,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    *time.Time      `json:"updated_at,omitempty"`
}

type CartLineRedisModel struct {
	ProductID      int64           `json:"product_id"`
	ProductName    string          `json:"product_name"`
	CategoryName   string          `json:"category_name"`
	Subcategory    string          `json:"subcategory"`
	Quantity       int             `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	AvailableStock int             `json:"available_stock"`
}

// SessionRedisModel is the stored JSON form of a checkout session.
type SessionRedisModel struct {
	ID            string               `json:"id"`
	Sale          int                  `json:"sale"`
	Lines         []CartLineRedisModel `json:"lines"`
	CustomerID    int64                `json:"customer_id"`
	CustomerName  string               `json:"customer_name"`
	Discount      decimal.Decimal      `json:"discount"`
	Notes         string               `json:"notes"`
	PaymentMethod string               `json:"payment_method"`
	OrderID       int64                `json:"order_id"`
	ClientSecret  string               `json:"client_secret,omitempty"`
	PaymentError  string               `json:"payment_error,omitempty"`
	Paid          bool                 `json:"paid"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}
