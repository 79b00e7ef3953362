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

type checkoutSeed struct {
	customer domain.Customer
	product  domain.Product
}

func seedCheckout(f *fixture, price string, stock int) checkoutSeed {
	cat := f.db.addCategory("Split", "Residential")
	return checkoutSeed{
		customer: f.db.addCustomer("Ana", "Perez", "100"),
		product:  f.db.addProduct("Inverter 12000", price, cat.ID, stock),
	}
}

func TestCheckout_CashSale(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	seed := seedCheckout(f, "1500.00", 5)

	s, err := f.checkout.Open(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.StateNoCustomer, s.State)

	s, err = f.checkout.SelectCustomer(ctx, s.ID, seed.customer.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana Perez", s.CustomerName)

	s, err = f.checkout.AddItem(ctx, s.ID, seed.product.ID, 2)
	require.NoError(t, err)
	assert.True(t, s.Total.Equal(decimal.RequireFromString("3000")))

	s, err = f.checkout.ChoosePaymentMethod(ctx, s.ID, domain.PaymentCash)
	require.NoError(t, err)
	assert.Equal(t, domain.StatePaymentMethodChosen, s.State)

	res, err := f.checkout.Confirm(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StateCashCompleted, res.Session.State)
	assert.Equal(t, domain.OrderCompleted, res.Order.Status)
	assert.Nil(t, res.Payment)
	assert.Equal(t, 3, f.db.stock(seed.product.ID))
	assert.Empty(t, f.gateway.requests)

	_, err = f.checkout.AddItem(ctx, s.ID, seed.product.ID, 1)
	require.ErrorIs(t, err, e.ErrCheckoutClosed)

	s, err = f.checkout.Clear(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StateNoCustomer, s.State)
	assert.Empty(t, s.Lines)
}

func TestCheckout_CardSale(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	seed := seedCheckout(f, "200.00", 1)

	s, err := f.checkout.Open(ctx)
	require.NoError(t, err)
	_, err = f.checkout.SelectCustomer(ctx, s.ID, seed.customer.ID)
	require.NoError(t, err)
	_, err = f.checkout.AddItem(ctx, s.ID, seed.product.ID, 1)
	require.NoError(t, err)
	_, err = f.checkout.ChoosePaymentMethod(ctx, s.ID, domain.PaymentCard)
	require.NoError(t, err)

	res, err := f.checkout.Confirm(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StateCardPendingPayment, res.Session.State)
	assert.Equal(t, domain.OrderPending, res.Order.Status)
	require.NotNil(t, res.Payment)
	assert.Equal(t, "pi_123_secret_abc", res.Session.ClientSecret)

	canceled, err := f.checkout.ApplyPaymentResult(ctx, s.ID, domain.Canceled())
	require.NoError(t, err)
	assert.Equal(t, domain.StateCardPendingPayment, canceled.State)
	assert.Equal(t, domain.PaymentCanceledMessage, canceled.PaymentError)

	// the reference falls back to the payment intent id of the client secret
	paid, err := f.checkout.ApplyPaymentResult(ctx, s.ID, domain.Completed(""))
	require.NoError(t, err)
	assert.Equal(t, domain.StateCardPaid, paid.State)
	assert.Empty(t, paid.PaymentError)

	payments, err := f.payment.ListOrderPayments(ctx, res.Order.ID)
	require.NoError(t, err)
	require.Len(t, payments.Payments, 1)
	assert.Equal(t, "pi_123", payments.Payments[0].Reference)

	order, err := f.order.GetOrder(ctx, res.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderCompleted, order.Status)
}

func TestCheckout_GatewayFailureKeepsPendingOrder(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	seed := seedCheckout(f, "200.00", 1)
	f.gateway.err = e.Wrap("provider unavailable", e.ErrPaymentProvider)

	s, err := f.checkout.Open(ctx)
	require.NoError(t, err)
	_, err = f.checkout.SelectCustomer(ctx, s.ID, seed.customer.ID)
	require.NoError(t, err)
	_, err = f.checkout.AddItem(ctx, s.ID, seed.product.ID, 1)
	require.NoError(t, err)
	_, err = f.checkout.ChoosePaymentMethod(ctx, s.ID, domain.PaymentCard)
	require.NoError(t, err)

	res, err := f.checkout.Confirm(ctx, s.ID)
	require.NoError(t, err)
	assert.Nil(t, res.Payment)
	assert.NotEmpty(t, res.Session.PaymentError)
	assert.Equal(t, domain.OrderPending, res.Order.Status)
	assert.Equal(t, 1, f.db.orderCount())

	_, err = f.checkout.ApplyPaymentResult(ctx, s.ID, domain.Completed(""))
	require.ErrorIs(t, err, e.ErrPaymentIntentNotActive)
}

func TestCheckout_AddItemBeyondStock(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	seed := seedCheckout(f, "10.00", 2)

	s, err := f.checkout.Open(ctx)
	require.NoError(t, err)

	_, err = f.checkout.AddItem(ctx, s.ID, seed.product.ID, 2)
	require.NoError(t, err)

	_, err = f.checkout.AddItem(ctx, s.ID, seed.product.ID, 1)
	require.ErrorIs(t, err, e.ErrInsufficientStock)

	_, err = f.checkout.AddItem(ctx, s.ID, seed.product.ID, 0)
	require.ErrorIs(t, err, e.ErrInvalidQuantity)

	got, err := f.checkout.Get(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, got.Lines, 1)
	assert.Equal(t, 2, got.Lines[0].Quantity)
}

func TestCheckout_ConfirmRequiresPaymentMethod(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	seed := seedCheckout(f, "10.00", 2)

	s, err := f.checkout.Open(ctx)
	require.NoError(t, err)
	_, err = f.checkout.Confirm(ctx, s.ID)
	require.ErrorIs(t, err, e.ErrCustomerRequired)

	_, err = f.checkout.SelectCustomer(ctx, s.ID, seed.customer.ID)
	require.NoError(t, err)
	_, err = f.checkout.Confirm(ctx, s.ID)
	require.ErrorIs(t, err, e.ErrEmptyOrder)

	_, err = f.checkout.AddItem(ctx, s.ID, seed.product.ID, 1)
	require.NoError(t, err)
	_, err = f.checkout.Confirm(ctx, s.ID)
	require.ErrorIs(t, err, e.ErrPaymentMethodRequired)

	assert.Zero(t, f.db.orderCount())
}

func TestCheckout_UnknownSession(t *testing.T) {
	f := newFixture()

	_, err := f.checkout.Get(context.Background(), "missing")
	require.ErrorIs(t, err, e.ErrSessionNotFound)

	s, err := f.checkout.Open(context.Background())
	require.NoError(t, err)
	require.NoError(t, f.checkout.Close(context.Background(), s.ID))

	_, err = f.checkout.Get(context.Background(), s.ID)
	require.ErrorIs(t, err, e.ErrSessionNotFound)
}

func TestCheckout_ConfirmRetryAfterFailedSaveReusesOrder(t *testing.T) {
	for _, method := range []domain.PaymentMethod{domain.PaymentCash, domain.PaymentCard} {
		t.Run(string(method), func(t *testing.T) {
			f := newFixture()
			ctx := context.Background()
			seed := seedCheckout(f, "100.00", 5)

			s, err := f.checkout.Open(ctx)
			require.NoError(t, err)
			_, err = f.checkout.SelectCustomer(ctx, s.ID, seed.customer.ID)
			require.NoError(t, err)
			_, err = f.checkout.AddItem(ctx, s.ID, seed.product.ID, 2)
			require.NoError(t, err)
			_, err = f.checkout.ChoosePaymentMethod(ctx, s.ID, method)
			require.NoError(t, err)

			f.sessions.failConfirmedSave = errors.New("redis unavailable")
			_, err = f.checkout.Confirm(ctx, s.ID)
			require.Error(t, err)
			require.Equal(t, 1, f.db.orderCount())

			res, err := f.checkout.Confirm(ctx, s.ID)
			require.NoError(t, err)

			assert.Equal(t, 1, f.db.orderCount())
			assert.Equal(t, 3, f.db.stock(seed.product.ID))
			assert.Equal(t, res.Order.ID, res.Session.OrderID)
			assert.Len(t, res.Order.Lines, 1)
		})
	}
}

func TestCheckout_ClearStartsNewSale(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	seed := seedCheckout(f, "100.00", 5)

	sell := func(id string) *ConfirmRes {
		_, err := f.checkout.SelectCustomer(ctx, id, seed.customer.ID)
		require.NoError(t, err)
		_, err = f.checkout.AddItem(ctx, id, seed.product.ID, 1)
		require.NoError(t, err)
		_, err = f.checkout.ChoosePaymentMethod(ctx, id, domain.PaymentCash)
		require.NoError(t, err)
		res, err := f.checkout.Confirm(ctx, id)
		require.NoError(t, err)
		return res
	}

	s, err := f.checkout.Open(ctx)
	require.NoError(t, err)

	first := sell(s.ID)
	_, err = f.checkout.Clear(ctx, s.ID)
	require.NoError(t, err)
	second := sell(s.ID)

	assert.NotEqual(t, first.Order.ID, second.Order.ID)
	assert.Equal(t, 2, f.db.orderCount())
	assert.Equal(t, 3, f.db.stock(seed.product.ID))
}

func TestCheckout_MultiProductSale(t *testing.T) {
	tests := []struct {
		name   string
		method domain.PaymentMethod
		status domain.OrderStatus
	}{
		{name: "cash", method: domain.PaymentCash, status: domain.OrderCompleted},
		{name: "card", method: domain.PaymentCard, status: domain.OrderPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			ctx := context.Background()
			cat := f.db.addCategory("Split", "Residential")
			customer := f.db.addCustomer("Ana", "Perez", "100")
			a := f.db.addProduct("Inverter 12000", "1500.00", cat.ID, 5)
			b := f.db.addProduct("Inverter 18000", "2100.00", cat.ID, 2)

			s, err := f.checkout.Open(ctx)
			require.NoError(t, err)
			_, err = f.checkout.SelectCustomer(ctx, s.ID, customer.ID)
			require.NoError(t, err)
			_, err = f.checkout.AddItem(ctx, s.ID, a.ID, 3)
			require.NoError(t, err)
			snap, err := f.checkout.AddItem(ctx, s.ID, b.ID, 2)
			require.NoError(t, err)
			assert.True(t, snap.Total.Equal(decimal.RequireFromString("8700")))
			_, err = f.checkout.ChoosePaymentMethod(ctx, s.ID, tt.method)
			require.NoError(t, err)

			res, err := f.checkout.Confirm(ctx, s.ID)
			require.NoError(t, err)

			assert.Equal(t, tt.status, res.Order.Status)
			assert.Equal(t, 2, f.db.stock(a.ID))
			assert.Equal(t, 0, f.db.stock(b.ID))

			order, err := f.order.GetOrder(ctx, res.Order.ID)
			require.NoError(t, err)
			require.Len(t, order.Lines, 2)
			quantities := map[int64]int{}
			for _, l := range order.Lines {
				quantities[l.ProductID] = l.Quantity
			}
			assert.Equal(t, map[int64]int{a.ID: 3, b.ID: 2}, quantities)
		})
	}
}
