package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/Rafa-lopez12/examen-arqui/internal/domain"
	"github.com/Rafa-lopez12/examen-arqui/pkg/e"
	"github.com/Rafa-lopez12/examen-arqui/pkg/logger"
)

// OrderUseCase persists confirmed sales and serves order history.
type OrderUseCase struct {
	orderRepo   OrderRepository
	productRepo ProductRepository
	outboxRepo  OutboxRepository
	cacheRepo   CacheRepository
	txManager   TxManager
	logger      logger.Logger
}

func NewOrderUC(
	orderRepo OrderRepository,
	productRepo ProductRepository,
	outboxRepo OutboxRepository,
	cacheRepo CacheRepository,
	txManager TxManager,
	logger logger.Logger,
) *OrderUseCase {
	return &OrderUseCase{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		outboxRepo:  outboxRepo,
		cacheRepo:   cacheRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

// Confirm validates order and lines against live stock and then stores the
// header, the lines and the stock decrement as one unit of work.
// Cash orders are stored completed, card orders pending.
// An order carrying a CheckoutKey that was already confirmed is returned as is.
func (o *OrderUseCase) Confirm(ctx context.Context, order *domain.Order, lines []domain.OrderLine) (*domain.Order, error) {
	const op = "OrderUseCase.Confirm"

	if len(lines) == 0 {
		return nil, e.Wrap(op, e.ErrEmptyOrder)
	}
	if order == nil || order.CustomerID == 0 {
		return nil, e.Wrap(op, e.ErrCustomerRequired)
	}
	if !order.PaymentMethod.Valid() {
		return nil, e.Wrap(op, e.ErrInvalidPaymentMethod)
	}

	needed, err := quantitiesByProduct(lines)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	productIDs := sortedKeys(needed)

	if existing, err := o.confirmed(ctx, order.CheckoutKey); err != nil || existing != nil {
		if err != nil {
			return nil, e.Wrap(op, err)
		}
		return existing, nil
	}

	if err := o.checkStock(ctx, productIDs, needed); err != nil {
		return nil, e.Wrap(op, err)
	}

	order.Status = order.PaymentMethod.InitialStatus()
	order.CreatedAt = time.Now().UTC()

	var created *domain.Order
	err = o.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		created, err = o.orderRepo.Create(ctx, order)
		if err != nil {
			return err
		}

		created.Lines, err = o.orderRepo.CreateLines(ctx, created.ID, lines)
		if err != nil {
			return err
		}

		// Fixed lock order keeps concurrent checkouts from deadlocking.
		for _, id := range productIDs {
			if err := o.productRepo.DecrementStock(ctx, id, needed[id]); err != nil {
				return e.Wrap(fmt.Sprintf("product %d", id), err)
			}
		}

		eventTypes := []string{EventOrderCreated}
		if created.Status == domain.OrderCompleted {
			eventTypes = append(eventTypes, EventOrderCompleted)
		}
		return o.publish(ctx, created, "", eventTypes...)
	})
	if errors.Is(err, e.ErrOrderExists) {
		// Lost a race with a concurrent confirm of the same sale.
		existing, lookupErr := o.confirmed(ctx, order.CheckoutKey)
		if lookupErr == nil && existing != nil {
			return existing, nil
		}
	}
	if err != nil {
		o.logger.Errorf(err, "order for customer %d rolled back", order.CustomerID)
		return nil, e.Wrap(op, err)
	}

	if err := o.cacheRepo.DeleteProducts(ctx, productIDs); err != nil {
		o.logger.Warnf("failed to delete products from cache: %v", e.Wrap(op, err))
	}

	o.logger.Infof("order %d confirmed: customer=%d method=%s status=%s total=%s",
		created.ID, created.CustomerID, created.PaymentMethod, created.Status, created.Total.StringFixed(2))
	return created, nil
}

func (o *OrderUseCase) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	const op = "OrderUseCase.GetOrder"

	order, err := o.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	return order, nil
}

func (o *OrderUseCase) ListOrders(ctx context.Context) ([]domain.Order, error) {
	const op = "OrderUseCase.ListOrders"

	orders, err := o.orderRepo.List(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	return orders, nil
}

func (o *OrderUseCase) ListCustomerOrders(ctx context.Context, customerID int64) ([]domain.Order, error) {
	const op = "OrderUseCase.ListCustomerOrders"

	orders, err := o.orderRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	return orders, nil
}

// UpdateOrderStatus sets the status of an order. Stock is not restored on cancellation.
func (o *OrderUseCase) UpdateOrderStatus(ctx context.Context, id int64, status domain.OrderStatus) (*domain.Order, error) {
	const op = "OrderUseCase.UpdateOrderStatus"

	if !status.Valid() {
		return nil, e.Wrap(op, e.ErrInvalidStatus)
	}

	var updated *domain.Order
	err := o.txManager.Do(ctx, func(ctx context.Context) error {
		order, err := o.orderRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if order.Status == status {
			updated = order
			return nil
		}

		if err := o.orderRepo.UpdateStatus(ctx, id, status); err != nil {
			return err
		}
		order.Status = status
		updated = order

		switch status {
		case domain.OrderCompleted:
			return o.publish(ctx, order, "", EventOrderCompleted)
		case domain.OrderCancelled:
			return o.publish(ctx, order, "", EventOrderCancelled)
		default:
			return nil
		}
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return updated, nil
}

func (o *OrderUseCase) Stats(ctx context.Context) (*domain.OrderStats, error) {
	const op = "OrderUseCase.Stats"

	stats, err := o.orderRepo.Stats(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	return stats, nil
}

// confirmed returns the order already stored for key, or nil when there is none.
func (o *OrderUseCase) confirmed(ctx context.Context, key string) (*domain.Order, error) {
	if key == "" {
		return nil, nil
	}

	header, err := o.orderRepo.GetByCheckoutKey(ctx, key)
	if errors.Is(err, e.ErrOrderNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	o.logger.Infof("checkout %s already confirmed as order %d", key, header.ID)
	return o.orderRepo.GetByID(ctx, header.ID)
}

// checkStock compares requested quantities with the persisted stock.
func (o *OrderUseCase) checkStock(ctx context.Context, ids []int64, needed map[int64]int) error {
	products, err := o.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return err
	}

	stock := make(map[int64]int, len(products))
	for _, p := range products {
		stock[p.ID] = p.Stock
	}

	for _, id := range ids {
		available, ok := stock[id]
		if !ok {
			return e.Wrap(fmt.Sprintf("product %d", id), e.ErrProductNotFound)
		}
		if available < needed[id] {
			return e.Wrap(fmt.Sprintf("product %d: requested %d, available %d", id, needed[id], available), e.ErrInsufficientStock)
		}
	}

	return nil
}

func (o *OrderUseCase) publish(ctx context.Context, order *domain.Order, reference string, eventTypes ...string) error {
	for _, eventType := range eventTypes {
		event, err := newOrderEvent(eventType, order, reference)
		if err != nil {
			return err
		}
		if _, err := o.outboxRepo.Create(ctx, event); err != nil {
			return err
		}
	}
	return nil
}

func quantitiesByProduct(lines []domain.OrderLine) (map[int64]int, error) {
	needed := make(map[int64]int, len(lines))
	for _, l := range lines {
		if l.Quantity < 1 {
			return nil, e.Wrap(fmt.Sprintf("product %d", l.ProductID), e.ErrInvalidQuantity)
		}
		needed[l.ProductID] += l.Quantity
	}
	return needed, nil
}

func sortedKeys(m map[int64]int) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
