package converter

import (
	"github.com/Rafa-lopez12/examen-arqui/internal/domain"
	"github.com/Rafa-lopez12/examen-arqui/internal/usecase"
)

// CategoryConverter maps categories between domain and the PostgreSQL row.
type CategoryConverter interface {
	ToModel(entity *domain.Category) *CategoryModel
	ToEntity(model *CategoryModel) *domain.Category
}

type ProductConverter interface {
	ToModel(entity *domain.Product) *ProductModel
	ToEntity(model *ProductModel) *domain.Product
}

type CustomerConverter interface {
	ToModel(entity *domain.Customer) *CustomerModel
	ToEntity(model *CustomerModel) *domain.Customer
}

// OrderConverter maps order headers and their items.
type OrderConverter interface {
	ToModel(entity *domain.Order) *OrderModel
	ToEntity(model *OrderModel) *domain.Order
	ItemToModel(entity *domain.OrderLine) *OrderItemModel
	ItemToEntity(model *OrderItemModel) *domain.OrderLine
}

type PaymentConverter interface {
	ToModel(entity *domain.Payment) *PaymentModel
	ToEntity(model *PaymentModel) *domain.Payment
}

type OutboxEventConverter interface {
	ToModel(entity *usecase.OutboxEvent) *OutboxEventModel
	ToEntity(model *OutboxEventModel) *usecase.OutboxEvent
	ToArrEntity(models []*OutboxEventModel) []*usecase.OutboxEvent
}

type CategoryConverterImpl struct{}

func NewCategoryConverterImpl() *CategoryConverterImpl { return &CategoryConverterImpl{} }

func (CategoryConverterImpl) ToModel(c *domain.Category) *CategoryModel {
	if c == nil {
		return nil
	}
	return &CategoryModel{
		ID:          c.ID,
		Name:        c.Name,
		Subcategory: c.Subcategory,
		Description: c.Description,
		Active:      c.Active,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func (CategoryConverterImpl) ToEntity(m *CategoryModel) *domain.Category {
	if m == nil {
		return nil
	}
	return &domain.Category{
		ID:          m.ID,
		Name:        m.Name,
		Subcategory: m.Subcategory,
		Description: m.Description,
		Active:      m.Active,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

type ProductConverterImpl struct{}

func NewProductConverterImpl() *ProductConverterImpl { return &ProductConverterImpl{} }

func (ProductConverterImpl) ToModel(p *domain.Product) *ProductModel {
	if p == nil {
		return nil
	}
	return &ProductModel{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price,
		CategoryID:   p.CategoryID,
		CategoryName: p.CategoryName,
		Subcategory:  p.Subcategory,
		Stock:        p.Stock,
		ImageKey:     p.ImageKey,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func (ProductConverterImpl) ToEntity(m *ProductModel) *domain.Product {
	if m == nil {
		return nil
	}
	return &domain.Product{
		ID:           m.ID,
		Name:         m.Name,
		Description:  m.Description,
		Price:        m.Price,
		CategoryID:   m.CategoryID,
		CategoryName: m.CategoryName,
		Subcategory:  m.Subcategory,
		Stock:        m.Stock,
		ImageKey:     m.ImageKey,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

type CustomerConverterImpl struct{}

func NewCustomerConverterImpl() *CustomerConverterImpl { return &CustomerConverterImpl{} }

func (CustomerConverterImpl) ToModel(c *domain.Customer) *CustomerModel {
	if c == nil {
		return nil
	}
	return &CustomerModel{
		ID:               c.ID,
		Name:             c.Name,
		Surname:          c.Surname,
		Phone:            c.Phone,
		Email:            c.Email,
		Address:          c.Address,
		NationalID:       c.NationalID,
		RegistrationDate: c.RegistrationDate,
		Active:           c.Active,
	}
}

func (CustomerConverterImpl) ToEntity(m *CustomerModel) *domain.Customer {
	if m == nil {
		return nil
	}
	return &domain.Customer{
		ID:               m.ID,
		Name:             m.Name,
		Surname:          m.Surname,
		Phone:            m.Phone,
		Email:            m.Email,
		Address:          m.Address,
		NationalID:       m.NationalID,
		RegistrationDate: m.RegistrationDate,
		Active:           m.Active,
	}
}

type OrderConverterImpl struct{}

func NewOrderConverterImpl() *OrderConverterImpl { return &OrderConverterImpl{} }

func (OrderConverterImpl) ToModel(o *domain.Order) *OrderModel {
	if o == nil {
		return nil
	}
	return &OrderModel{
		ID:            o.ID,
		CustomerID:    o.CustomerID,
		CustomerName:  o.CustomerName,
		CreatedAt:     o.CreatedAt,
		Total:         o.Total,
		Discount:      o.Discount,
		Taxes:         o.Taxes,
		PaymentMethod: string(o.PaymentMethod),
		Status:        string(o.Status),
		Notes:         o.Notes,
		CheckoutKey:   o.CheckoutKey,
	}
}

// ToEntity leaves Lines empty; items are loaded separately.
func (OrderConverterImpl) ToEntity(m *OrderModel) *domain.Order {
	if m == nil {
		return nil
	}
	return &domain.Order{
		ID:            m.ID,
		CustomerID:    m.CustomerID,
		CustomerName:  m.CustomerName,
		CreatedAt:     m.CreatedAt,
		Total:         m.Total,
		Discount:      m.Discount,
		Taxes:         m.Taxes,
		PaymentMethod: domain.PaymentMethod(m.PaymentMethod),
		Status:        domain.OrderStatus(m.Status),
		Notes:         m.Notes,
		CheckoutKey:   m.CheckoutKey,
	}
}

func (OrderConverterImpl) ItemToModel(l *domain.OrderLine) *OrderItemModel {
	if l == nil {
		return nil
	}
	return &OrderItemModel{
		ID:           l.ID,
		OrderID:      l.OrderID,
		ProductID:    l.ProductID,
		ProductName:  l.ProductName,
		CategoryName: l.CategoryName,
		Quantity:     l.Quantity,
		UnitPrice:    l.UnitPrice,
		Subtotal:     l.Subtotal,
	}
}

func (OrderConverterImpl) ItemToEntity(m *OrderItemModel) *domain.OrderLine {
	if m == nil {
		return nil
	}
	return &domain.OrderLine{
		ID:           m.ID,
		OrderID:      m.OrderID,
		ProductID:    m.ProductID,
		ProductName:  m.ProductName,
		CategoryName: m.CategoryName,
		Quantity:     m.Quantity,
		UnitPrice:    m.UnitPrice,
		Subtotal:     m.Subtotal,
	}
}

type PaymentConverterImpl struct{}

func NewPaymentConverterImpl() *PaymentConverterImpl { return &PaymentConverterImpl{} }

func (PaymentConverterImpl) ToModel(p *domain.Payment) *PaymentModel {
	if p == nil {
		return nil
	}
	return &PaymentModel{
		ID:            p.ID,
		OrderID:       p.OrderID,
		Amount:        p.Amount,
		PaymentMethod: string(p.Method),
		PaidAt:        p.PaidAt,
		Reference:     p.Reference,
		Status:        string(p.Status),
	}
}

func (PaymentConverterImpl) ToEntity(m *PaymentModel) *domain.Payment {
	if m == nil {
		return nil
	}
	return &domain.Payment{
		ID:        m.ID,
		OrderID:   m.OrderID,
		Amount:    m.Amount,
		Method:    domain.PaymentMethod(m.PaymentMethod),
		PaidAt:    m.PaidAt,
		Reference: m.Reference,
		Status:    domain.PaymentStatus(m.Status),
	}
}

type OutboxEventConverterImpl struct{}

func NewOutboxEventConverterImpl() *OutboxEventConverterImpl { return &OutboxEventConverterImpl{} }

func (OutboxEventConverterImpl) ToModel(ev *usecase.OutboxEvent) *OutboxEventModel {
	if ev == nil {
		return nil
	}
	return &OutboxEventModel{
		ID:          ev.ID,
		EventID:     ev.EventID,
		EventType:   ev.EventType,
		OrderID:     ev.OrderID,
		Payload:     ev.Payload,
		Status:      string(ev.Status),
		CreatedAt:   ev.CreatedAt,
		ProcessedAt: ev.ProcessedAt,
	}
}

func (OutboxEventConverterImpl) ToEntity(m *OutboxEventModel) *usecase.OutboxEvent {
	if m == nil {
		return nil
	}
	return &usecase.OutboxEvent{
		ID:          m.ID,
		EventID:     m.EventID,
		EventType:   m.EventType,
		OrderID:     m.OrderID,
		Payload:     m.Payload,
		Status:      usecase.OutboxStatus(m.Status),
		CreatedAt:   m.CreatedAt,
		ProcessedAt: m.ProcessedAt,
	}
}

func (c OutboxEventConverterImpl) ToArrEntity(models []*OutboxEventModel) []*usecase.OutboxEvent {
	out := make([]*usecase.OutboxEvent, 0, len(models))
	for _, m := range models {
		out = append(out, c.ToEntity(m))
	}
	return out
}
