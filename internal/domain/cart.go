package domain

import "github.com/shopspring/decimal"

// CartLine is a product entry of a cart with the display fields copied at add time.
type CartLine struct {
	ProductID      int64
	ProductName    string
	CategoryName   string
	Subcategory    string
	Quantity       int
	UnitPrice      decimal.Decimal
	AvailableStock int
}

func (l CartLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart accumulates line items of an order that is not persisted yet.
// Lines keep insertion order and hold at most one entry per product.
type Cart struct {
	Lines      []CartLine
	CustomerID int64
	Discount   decimal.Decimal
	Notes      string
}

// Add merges quantity units of p into the cart. It reports false and leaves
// the cart untouched when quantity < 1 or the merged quantity exceeds p.Stock.
func (c *Cart) Add(p *Product, quantity int) bool {
	if p == nil || quantity < 1 {
		return false
	}

	idx := c.indexOf(p.ID)
	current := 0
	if idx >= 0 {
		current = c.Lines[idx].Quantity
	}
	if !p.InStock(current + quantity) {
		return false
	}

	if idx >= 0 {
		c.Lines[idx].Quantity += quantity
		c.Lines[idx].AvailableStock = p.Stock
		return true
	}

	c.Lines = append(c.Lines, CartLine{
		ProductID:      p.ID,
		ProductName:    p.Name,
		CategoryName:   p.CategoryName,
		Subcategory:    p.Subcategory,
		Quantity:       quantity,
		UnitPrice:      p.Price,
		AvailableStock: p.Stock,
	})
	return true
}

// Remove drops the line of productID. Missing products are ignored.
func (c *Cart) Remove(productID int64) {
	idx := c.indexOf(productID)
	if idx < 0 {
		return
	}
	c.Lines = append(c.Lines[:idx], c.Lines[idx+1:]...)
	if len(c.Lines) == 0 {
		c.Lines = nil
	}
}

func (c *Cart) Quantity(productID int64) int {
	if idx := c.indexOf(productID); idx >= 0 {
		return c.Lines[idx].Quantity
	}
	return 0
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

func (c *Cart) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range c.Lines {
		sum = sum.Add(l.Subtotal())
	}
	return sum
}

// Total is Subtotal minus Discount. A discount larger than the subtotal yields a negative total.
func (c *Cart) Total() decimal.Decimal {
	return c.Subtotal().Sub(c.Discount)
}

// Clear empties the cart and drops the customer, discount and notes.
func (c *Cart) Clear() {
	*c = Cart{}
}

// OrderLines converts the cart lines into order lines.
func (c *Cart) OrderLines() []OrderLine {
	lines := make([]OrderLine, 0, len(c.Lines))
	for _, l := range c.Lines {
		line := NewOrderLine(l.ProductID, l.Quantity, l.UnitPrice)
		line.ProductName = l.ProductName
		line.CategoryName = l.CategoryName
		lines = append(lines, line)
	}
	return lines
}

func (c Cart) clone() Cart {
	cp := c
	if c.Lines != nil {
		cp.Lines = make([]CartLine, len(c.Lines))
		copy(cp.Lines, c.Lines)
	}
	return cp
}

func (c *Cart) indexOf(productID int64) int {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}
