package converter

import "github.com/Rafa-lopez12/examen-arqui/internal/domain"

type ProductConverter interface {
	ToRedisModel(entity *domain.Product) *ProductRedisModel
	ToEntity(model *ProductRedisModel) *domain.Product
	ToArrRedisModel(entities []domain.Product) []ProductRedisModel
}

type SessionConverter interface {
	ToRedisModel(entity *domain.CheckoutSession) *SessionRedisModel
	ToEntity(model *SessionRedisModel) *domain.CheckoutSession
}

type ProductConverterImpl struct{}

func NewProductConverterImpl() *ProductConverterImpl {
	return &ProductConverterImpl{}
}

func (c *ProductConverterImpl) ToRedisModel(entity *domain.Product) *ProductRedisModel {
	if entity == nil {
		return nil
	}
	return &ProductRedisModel{
		ID:           entity.ID,
		Name:         entity.Name,
		Description:  entity.Description,
		Price:        entity.Price,
		CategoryID:   entity.CategoryID,
		CategoryName: entity.CategoryName,
		Subcategory:  entity.Subcategory,
		Stock:        entity.Stock,
		ImageKey:     entity.ImageKey,
		CreatedAt:    entity.CreatedAt,
		UpdatedAt:    entity.UpdatedAt,
	}
}

func (c *ProductConverterImpl) ToEntity(model *ProductRedisModel) *domain.Product {
	if model == nil {
		return nil
	}
	return &domain.Product{
		ID:           model.ID,
		Name:         model.Name,
		Description:  model.Description,
		Price:        model.Price,
		CategoryID:   model.CategoryID,
		CategoryName: model.CategoryName,
		Subcategory:  model.Subcategory,
		Stock:        model.Stock,
		ImageKey:     model.ImageKey,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
}

func (c *ProductConverterImpl) ToArrRedisModel(entities []domain.Product) []ProductRedisModel {
	res := make([]ProductRedisModel, 0, len(entities))
	for i := range entities {
		res = append(res, *c.ToRedisModel(&entities[i]))
	}
	return res
}

type SessionConverterImpl struct{}

func NewSessionConverterImpl() *SessionConverterImpl {
	return &SessionConverterImpl{}
}

func (c *SessionConverterImpl) ToRedisModel(entity *domain.CheckoutSession) *SessionRedisModel {
	if entity == nil {
		return nil
	}
	lines := make([]CartLineRedisModel, 0, len(entity.Cart.Lines))
	for _, l := range entity.Cart.Lines {
		lines = append(lines, CartLineRedisModel{
			ProductID:      l.ProductID,
			ProductName:    l.ProductName,
			CategoryName:   l.CategoryName,
			Subcategory:    l.Subcategory,
			Quantity:       l.Quantity,
			UnitPrice:      l.UnitPrice,
			AvailableStock: l.AvailableStock,
		})
	}
	return &SessionRedisModel{
		ID:            entity.ID,
		Sale:          entity.Sale,
		Lines:         lines,
		CustomerID:    entity.Cart.CustomerID,
		CustomerName:  entity.CustomerName,
		Discount:      entity.Cart.Discount,
		Notes:         entity.Cart.Notes,
		PaymentMethod: string(entity.PaymentMethod),
		OrderID:       entity.OrderID,
		ClientSecret:  entity.ClientSecret,
		PaymentError:  entity.PaymentError,
		Paid:          entity.Paid,
		CreatedAt:     entity.CreatedAt,
		UpdatedAt:     entity.UpdatedAt,
	}
}

func (c *SessionConverterImpl) ToEntity(model *SessionRedisModel) *domain.CheckoutSession {
	if model == nil {
		return nil
	}
	var lines []domain.CartLine
	for _, l := range model.Lines {
		lines = append(lines, domain.CartLine{
			ProductID:      l.ProductID,
			ProductName:    l.ProductName,
			CategoryName:   l.CategoryName,
			Subcategory:    l.Subcategory,
			Quantity:       l.Quantity,
			UnitPrice:      l.UnitPrice,
			AvailableStock: l.AvailableStock,
		})
	}
	return &domain.CheckoutSession{
		ID:   model.ID,
		Sale: model.Sale,
		Cart: domain.Cart{
			Lines:      lines,
			CustomerID: model.CustomerID,
			Discount:   model.Discount,
			Notes:      model.Notes,
		},
		CustomerName:  model.CustomerName,
		PaymentMethod: domain.PaymentMethod(model.PaymentMethod),
		OrderID:       model.OrderID,
		ClientSecret:  model.ClientSecret,
		PaymentError:  model.PaymentError,
		Paid:          model.Paid,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}
