package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a sellable unit. Products are never hard deleted.
type Product struct {
	ID           int64
	Name         string
	Description  string
	Price        decimal.Decimal
	CategoryID   int64
	CategoryName string // joined on read
	Subcategory  string
	Stock        int
	ImageKey     string
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}

func NewProduct(name, description string, price decimal.Decimal, categoryID int64, subcategory string, stock int) *Product {
	return &Product{
		Name:        name,
		Description: description,
		Price:       price,
		CategoryID:  categoryID,
		Subcategory: subcategory,
		Stock:       stock,
	}
}

func (p *Product) InStock(quantity int) bool {
	return quantity >= 1 && p.Stock >= quantity
}
