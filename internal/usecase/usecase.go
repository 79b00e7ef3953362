package usecase

import (
	"context"
	"time"

	"github.com/Rafa-lopez12/examen-arqui/internal/domain"
)

type CatalogUC interface {
	CreateCategory(ctx context.Context, req *CreateCategoryReq) (*domain.Category, error)
	UpdateCategory(ctx context.Context, req *UpdateCategoryReq) (*domain.Category, error)
	GetCategory(ctx context.Context, id int64) (*domain.Category, error)
	ListCategories(ctx context.Context, name string) ([]domain.Category, error)
	DeleteCategory(ctx context.Context, id int64) (*DeleteCategoryRes, error)

	CreateProduct(ctx context.Context, req *ProductReq) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id int64, req *ProductReq) (*domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	GetProducts(ctx context.Context, req *GetProductsReq) (*GetProductsRes, error)
	ListProducts(ctx context.Context, filter ProductFilter) ([]domain.Product, error)
	SearchProducts(ctx context.Context, query string) ([]domain.Product, error)
	UploadProductImage(ctx context.Context, productID int64, image ProductImage) (*domain.Product, error)
}

type CustomerUC interface {
	CreateCustomer(ctx context.Context, req *CustomerReq) (*domain.Customer, error)
	UpdateCustomer(ctx context.Context, id int64, req *CustomerReq) (*domain.Customer, error)
	GetCustomer(ctx context.Context, id int64) (*domain.Customer, error)
	ListCustomers(ctx context.Context) ([]domain.Customer, error)
	SearchCustomers(ctx context.Context, query string) ([]domain.Customer, error)
	DeleteCustomer(ctx context.Context, id int64) error
}

type OrderUC interface {
	Confirm(ctx context.Context, order *domain.Order, lines []domain.OrderLine) (*domain.Order, error)
	GetOrder(ctx context.Context, id int64) (*domain.Order, error)
	ListOrders(ctx context.Context) ([]domain.Order, error)
	ListCustomerOrders(ctx context.Context, customerID int64) ([]domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, status domain.OrderStatus) (*domain.Order, error)
	Stats(ctx context.Context) (*domain.OrderStats, error)
}

type PaymentUC interface {
	StartPayment(ctx context.Context, orderID int64) (*StartPaymentRes, error)
	OnPaymentResult(ctx context.Context, orderID int64, outcome domain.PaymentOutcome) (*PaymentResult, error)
	AwaitOutcome(ctx context.Context, orderID int64, timeout time.Duration) (domain.PaymentOutcome, error)
	GetPayment(ctx context.Context, id int64) (*domain.Payment, error)
	ListOrderPayments(ctx context.Context, orderID int64) (*OrderPaymentsRes, error)
	UpdatePayment(ctx context.Context, id int64, req *UpdatePaymentReq) (*domain.Payment, error)
	PaymentMethods(ctx context.Context) ([]domain.PaymentMethodInfo, error)
}

type CheckoutUC interface {
	Open(ctx context.Context) (*domain.CheckoutSnapshot, error)
	Get(ctx context.Context, id string) (*domain.CheckoutSnapshot, error)
	SelectCustomer(ctx context.Context, id string, customerID int64) (*domain.CheckoutSnapshot, error)
	AddItem(ctx context.Context, id string, productID int64, quantity int) (*domain.CheckoutSnapshot, error)
	RemoveItem(ctx context.Context, id string, productID int64) (*domain.CheckoutSnapshot, error)
	SetAdjustments(ctx context.Context, id string, req *AdjustmentsReq) (*domain.CheckoutSnapshot, error)
	ChoosePaymentMethod(ctx context.Context, id string, method domain.PaymentMethod) (*domain.CheckoutSnapshot, error)
	Confirm(ctx context.Context, id string) (*ConfirmRes, error)
	ApplyPaymentResult(ctx context.Context, id string, outcome domain.PaymentOutcome) (*domain.CheckoutSnapshot, error)
	Clear(ctx context.Context, id string) (*domain.CheckoutSnapshot, error)
	Close(ctx context.Context, id string) error
}
