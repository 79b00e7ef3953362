package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/Rafa-lopez12/examen-arqui/internal/domain"
	"github.com/Rafa-lopez12/examen-arqui/pkg/e"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrder(customerID int64, method domain.PaymentMethod, total string) *domain.Order {
	return &domain.Order{
		CustomerID:    customerID,
		Total:         decimal.RequireFromString(total),
		PaymentMethod: method,
	}
}

func TestOrderConfirm_EmptyOrderRejected(t *testing.T) {
	f := newFixture()
	customer := f.db.addCustomer("Ana", "Perez", "100")

	_, err := f.order.Confirm(context.Background(), newOrder(customer.ID, domain.PaymentCash, "0"), nil)

	require.ErrorIs(t, err, e.ErrEmptyOrder)
	assert.Zero(t, f.db.orderCount())
	assert.Empty(t, f.db.outboxTypes())
}

func TestOrderConfirm_CustomerRequired(t *testing.T) {
	f := newFixture()
	cat := f.db.addCategory("Split", "Residential")
	p := f.db.addProduct("Inverter 12000", "100.00", cat.ID, 5)

	lines := []domain.OrderLine{domain.NewOrderLine(p.ID, 1, p.Price)}
	_, err := f.order.Confirm(context.Background(), newOrder(0, domain.PaymentCash, "100"), lines)

	require.ErrorIs(t, err, e.ErrCustomerRequired)
	assert.Equal(t, 5, f.db.stock(p.ID))
}

func TestOrderConfirm_CashOrderIsCompletedAndDecrementsStock(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	customer := f.db.addCustomer("Ana", "Perez", "100")
	cat := f.db.addCategory("Split", "Residential")
	p := f.db.addProduct("Inverter 12000", "1500.00", cat.ID, 5)
	require.NoError(t, f.cache.SetProducts(ctx, []domain.Product{p}))

	lines := []domain.OrderLine{domain.NewOrderLine(p.ID, 2, p.Price)}
	created, err := f.order.Confirm(ctx, newOrder(customer.ID, domain.PaymentCash, "3000.00"), lines)
	require.NoError(t, err)

	assert.Equal(t, domain.OrderCompleted, created.Status)
	assert.Len(t, created.Lines, 1)
	assert.Equal(t, created.ID, created.Lines[0].OrderID)
	assert.Equal(t, 3, f.db.stock(p.ID))
	assert.False(t, f.cache.has(p.ID))
	assert.Equal(t, []string{EventOrderCreated, EventOrderCompleted}, f.db.outboxTypes())
}

func TestOrderConfirm_CardOrderStaysPending(t *testing.T) {
	f := newFixture()
	customer := f.db.addCustomer("Ana", "Perez", "100")
	cat := f.db.addCategory("Window", "Compact")
	p := f.db.addProduct("Window 9000", "200.00", cat.ID, 1)

	lines := []domain.OrderLine{domain.NewOrderLine(p.ID, 1, p.Price)}
	created, err := f.order.Confirm(context.Background(), newOrder(customer.ID, domain.PaymentCard, "200.00"), lines)
	require.NoError(t, err)

	assert.Equal(t, domain.OrderPending, created.Status)
	assert.Equal(t, 0, f.db.stock(p.ID))
	assert.Equal(t, []string{EventOrderCreated}, f.db.outboxTypes())
}

func TestOrderConfirm_InsufficientStockWritesNothing(t *testing.T) {
	f := newFixture()
	customer := f.db.addCustomer("Ana", "Perez", "100")
	cat := f.db.addCategory("Split", "Residential")
	a := f.db.addProduct("A", "10.00", cat.ID, 5)
	b := f.db.addProduct("B", "10.00", cat.ID, 1)

	lines := []domain.OrderLine{
		domain.NewOrderLine(a.ID, 2, a.Price),
		domain.NewOrderLine(b.ID, 2, b.Price),
	}
	_, err := f.order.Confirm(context.Background(), newOrder(customer.ID, domain.PaymentCash, "40.00"), lines)

	require.ErrorIs(t, err, e.ErrInsufficientStock)
	assert.Equal(t, 5, f.db.stock(a.ID))
	assert.Equal(t, 1, f.db.stock(b.ID))
	assert.Zero(t, f.db.orderCount())
}

func TestOrderConfirm_DuplicateLinesAreSummedForStock(t *testing.T) {
	f := newFixture()
	customer := f.db.addCustomer("Ana", "Perez", "100")
	cat := f.db.addCategory("Split", "Residential")
	p := f.db.addProduct("A", "10.00", cat.ID, 3)

	lines := []domain.OrderLine{
		domain.NewOrderLine(p.ID, 2, p.Price),
		domain.NewOrderLine(p.ID, 2, p.Price),
	}
	_, err := f.order.Confirm(context.Background(), newOrder(customer.ID, domain.PaymentCash, "40.00"), lines)

	require.ErrorIs(t, err, e.ErrInsufficientStock)
	assert.Equal(t, 3, f.db.stock(p.ID))
}

func TestOrderConfirm_FailureInsideUnitOfWorkRollsBack(t *testing.T) {
	f := newFixture()
	customer := f.db.addCustomer("Ana", "Perez", "100")
	cat := f.db.addCategory("Split", "Residential")
	p := f.db.addProduct("A", "10.00", cat.ID, 3)
	f.db.failOutbox = errors.New("outbox down")

	lines := []domain.OrderLine{domain.NewOrderLine(p.ID, 1, p.Price)}
	_, err := f.order.Confirm(context.Background(), newOrder(customer.ID, domain.PaymentCash, "10.00"), lines)

	require.Error(t, err)
	assert.Zero(t, f.db.orderCount())
	assert.Equal(t, 3, f.db.stock(p.ID))
}

func TestOrderConfirm_UnknownProduct(t *testing.T) {
	f := newFixture()
	customer := f.db.addCustomer("Ana", "Perez", "100")

	lines := []domain.OrderLine{domain.NewOrderLine(999, 1, decimal.NewFromInt(1))}
	_, err := f.order.Confirm(context.Background(), newOrder(customer.ID, domain.PaymentCash, "1"), lines)

	require.ErrorIs(t, err, e.ErrProductNotFound)
}

func TestUpdateOrderStatus(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	customer := f.db.addCustomer("Ana", "Perez", "100")
	cat := f.db.addCategory("Split", "Residential")
	p := f.db.addProduct("A", "10.00", cat.ID, 3)

	lines := []domain.OrderLine{domain.NewOrderLine(p.ID, 1, p.Price)}
	created, err := f.order.Confirm(ctx, newOrder(customer.ID, domain.PaymentCard, "10.00"), lines)
	require.NoError(t, err)

	_, err = f.order.UpdateOrderStatus(ctx, created.ID, "shipped")
	require.ErrorIs(t, err, e.ErrInvalidStatus)

	updated, err := f.order.UpdateOrderStatus(ctx, created.ID, domain.OrderCancelled)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderCancelled, updated.Status)
	assert.Contains(t, f.db.outboxTypes(), EventOrderCancelled)

	// stock is not restored
	assert.Equal(t, 2, f.db.stock(p.ID))
}

func TestOrderStats(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	customer := f.db.addCustomer("Ana", "Perez", "100")
	cat := f.db.addCategory("Split", "Residential")
	p := f.db.addProduct("A", "10.00", cat.ID, 10)

	for _, total := range []string{"10.00", "30.00"} {
		lines := []domain.OrderLine{domain.NewOrderLine(p.ID, 1, p.Price)}
		_, err := f.order.Confirm(ctx, newOrder(customer.ID, domain.PaymentCash, total), lines)
		require.NoError(t, err)
	}
	lines := []domain.OrderLine{domain.NewOrderLine(p.ID, 1, p.Price)}
	_, err := f.order.Confirm(ctx, newOrder(customer.ID, domain.PaymentCard, "10.00"), lines)
	require.NoError(t, err)

	stats, err := f.order.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.CompletedCount)
	assert.EqualValues(t, 1, stats.PendingCount)
	assert.True(t, stats.CompletedAmount.Equal(decimal.RequireFromString("40")))
	assert.True(t, stats.AverageTicket.Equal(decimal.RequireFromString("20")))
}

func TestOrderConfirm_SameCheckoutKeyReturnsExistingOrder(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	customer := f.db.addCustomer("Ana", "Perez", "100")
	cat := f.db.addCategory("Split", "Residential")
	p := f.db.addProduct("A", "10.00", cat.ID, 5)

	lines := []domain.OrderLine{domain.NewOrderLine(p.ID, 2, p.Price)}
	order := newOrder(customer.ID, domain.PaymentCash, "20.00")
	order.CheckoutKey = "session-1/0"

	first, err := f.order.Confirm(ctx, order, lines)
	require.NoError(t, err)

	again := newOrder(customer.ID, domain.PaymentCash, "20.00")
	again.CheckoutKey = "session-1/0"
	second, err := f.order.Confirm(ctx, again, lines)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, second.Lines, 1)
	assert.Equal(t, 1, f.db.orderCount())
	assert.Equal(t, 3, f.db.stock(p.ID))
	assert.Equal(t, []string{EventOrderCreated, EventOrderCompleted}, f.db.outboxTypes())
}
