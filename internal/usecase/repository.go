package usecase

import (
	"context"
	"time"

	"github.com/Rafa-lopez12/examen-arqui/internal/domain"
	"github.com/shopspring/decimal"
)

type CategoryRepository interface {
	// Create returns e.ErrCategoryExists when the (name, subcategory) pair is taken.
	Create(ctx context.Context, category *domain.Category) (*domain.Category, error)
	Update(ctx context.Context, category *domain.Category) (*domain.Category, error)
	GetByID(ctx context.Context, id int64) (*domain.Category, error)
	ListActive(ctx context.Context) ([]domain.Category, error)
	ListByName(ctx context.Context, name string) ([]domain.Category, error)
	CountProducts(ctx context.Context, id int64) (int64, error)
	Deactivate(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}

type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Update(ctx context.Context, product *domain.Product) (*domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	GetByIDs(ctx context.Context, ids []int64) ([]domain.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, error)
	Search(ctx context.Context, query string, limit int) ([]domain.Product, error)
	SetImageKey(ctx context.Context, id int64, key string) error
	// DecrementStock returns e.ErrInsufficientStock when stock < quantity.
	DecrementStock(ctx context.Context, id int64, quantity int) error
}

type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) (*domain.Customer, error)
	Update(ctx context.Context, customer *domain.Customer) (*domain.Customer, error)
	GetByID(ctx context.Context, id int64) (*domain.Customer, error)
	// ListActive returns active customers ordered by surname, name. limit <= 0 means no limit.
	ListActive(ctx context.Context, limit int) ([]domain.Customer, error)
	Search(ctx context.Context, query string) ([]domain.Customer, error)
	// NationalIDTaken reports whether an active customer other than excludeID uses nationalID.
	NationalIDTaken(ctx context.Context, nationalID string, excludeID int64) (bool, error)
	Deactivate(ctx context.Context, id int64) error
}

type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	CreateLines(ctx context.Context, orderID int64, lines []domain.OrderLine) ([]domain.OrderLine, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	// GetByCheckoutKey returns the order header only, without lines.
	GetByCheckoutKey(ctx context.Context, key string) (*domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]domain.Order, error)
	CountByCustomer(ctx context.Context, customerID int64) (int64, error)
	UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) error
	// CompletePending moves a pending order to completed and reports whether it did.
	CompletePending(ctx context.Context, id int64) (bool, error)
	Stats(ctx context.Context) (*domain.OrderStats, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) (*domain.Payment, error)
	GetByID(ctx context.Context, id int64) (*domain.Payment, error)
	ListByOrder(ctx context.Context, orderID int64) ([]domain.Payment, error)
	UpdateStatus(ctx context.Context, id int64, status domain.PaymentStatus, reference string) (*domain.Payment, error)
	// TotalPaid sums completed payments of the order.
	TotalPaid(ctx context.Context, orderID int64) (decimal.Decimal, error)
}

type PaymentMethodRepository interface {
	List(ctx context.Context) ([]domain.PaymentMethodInfo, error)
}

type OutboxRepository interface {
	Create(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error)
	GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkAsProcessed(ctx context.Context, id int64) error
	ReleaseToPending(ctx context.Context, id int64) error
	// ReleaseStale returns events claimed longer than olderThan ago to pending.
	ReleaseStale(ctx context.Context, olderThan time.Duration) (int64, error)
}

type CacheRepository interface {
	GetProducts(ctx context.Context, ids []int64) (map[int64]domain.Product, error)
	SetProducts(ctx context.Context, products []domain.Product) error
	DeleteProducts(ctx context.Context, ids []int64) error
}

type SessionRepository interface {
	Save(ctx context.Context, session *domain.CheckoutSession) error
	// Get returns e.ErrSessionNotFound for unknown or expired sessions.
	Get(ctx context.Context, id string) (*domain.CheckoutSession, error)
	Delete(ctx context.Context, id string) error
}

type ImageRepository interface {
	Upload(ctx context.Context, image *domain.Image) (string, error)
	Delete(ctx context.Context, key string) error
}
