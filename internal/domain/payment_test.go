package domain_test

import (
	"context"
	"testing"
	"time"

	"github.com/Rafa-lopez12/examen-arqui/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmountToMinorUnits(t *testing.T) {
	tests := []struct {
		amount string
		want   int64
	}{
		{"0", 0},
		{"12.34", 1234},
		{"12.349", 1234},
		{"1999.99", 199999},
		{"0.009", 0},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.AmountToMinorUnits(decimal.RequireFromString(tt.amount)))
		})
	}
}

func TestMinorUnitsToAmount(t *testing.T) {
	assert.Equal(t, "12.34", domain.MinorUnitsToAmount(1234).StringFixed(2))
	assert.Equal(t, "0.05", domain.MinorUnitsToAmount(5).StringFixed(2))
}

func TestPaymentOutcome_ErrorMessage(t *testing.T) {
	assert.Empty(t, domain.Completed("pi_1").ErrorMessage())
	assert.Equal(t, domain.PaymentCanceledMessage, domain.Canceled().ErrorMessage())
	assert.Equal(t, "card declined", domain.Failed("card declined").ErrorMessage())
	assert.Equal(t, domain.DefaultPaymentFailureMessage, domain.Failed("  ").ErrorMessage())
	assert.False(t, domain.PaymentOutcome{Kind: "bogus"}.Valid())
}

func TestPaymentIntentIDFromSecret(t *testing.T) {
	assert.Equal(t, "pi_123", domain.PaymentIntentIDFromSecret("pi_123_secret_abc"))
	assert.Equal(t, "pi_123", domain.PaymentIntentIDFromSecret("pi_123"))
}

func TestPaymentDescription(t *testing.T) {
	assert.Equal(t, "Order #7 - Ana Rojas", domain.PaymentDescription(7, "Ana Rojas"))
	assert.Equal(t, "Order #7", domain.PaymentDescription(7, ""))
}

func TestPaymentFuture_FirstResolveWins(t *testing.T) {
	f := domain.NewPaymentFuture()

	go func() {
		f.Resolve(domain.Completed("pi_1"))
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	got, err := f.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Completed("pi_1"), got)
	assert.False(t, f.Resolve(domain.Canceled()))

	again, err := f.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestPaymentFuture_WaitHonoursContext(t *testing.T) {
	f := domain.NewPaymentFuture()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
