package redis

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/Rafa-lopez12/examen-arqui/internal/cfg"
	"github.com/Rafa-lopez12/examen-arqui/internal/domain"
	"github.com/Rafa-lopez12/examen-arqui/internal/repository/redis/converter"
	"github.com/Rafa-lopez12/examen-arqui/pkg/clients"
	"github.com/Rafa-lopez12/examen-arqui/pkg/e"
	"github.com/Rafa-lopez12/examen-arqui/pkg/logger"
	"github.com/alicebob/miniredis/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*miniredis.Miniredis, *clients.RedisClient, *cfg.RedisCfg) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := &cfg.RedisCfg{Addr: mr.Addr(), ProductTTL: time.Minute, SessionTTL: time.Hour}
	client := clients.NewRedisClient(c)
	t.Cleanup(func() { _ = client.Close() })
	return mr, client, c
}

func quietLogger() logger.Logger {
	return logger.NewWithHandler(slog.NewTextHandler(io.Discard, nil))
}

func TestCacheRepo_SetGetDelete(t *testing.T) {
	mr, client, c := setup(t)
	repo := NewCacheRepo(client, converter.NewProductConverterImpl(), c, quietLogger())
	ctx := context.Background()

	products := []domain.Product{
		{ID: 1, Name: "Split 12000 BTU", Price: decimal.RequireFromString("1500.50"), CategoryName: "Split", Stock: 4},
		{ID: 2, Name: "Window 9000 BTU", Price: decimal.RequireFromString("899.99"), CategoryName: "Window", Stock: 2},
	}
	require.NoError(t, repo.SetProducts(ctx, products))
	assert.Equal(t, time.Minute, mr.TTL("product:1"))

	got, err := repo.GetProducts(ctx, []int64{1, 2, 3})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got[1].Price.Equal(decimal.RequireFromString("1500.50")))
	assert.Equal(t, "Window", got[2].CategoryName)

	require.NoError(t, repo.DeleteProducts(ctx, []int64{1}))
	got, err = repo.GetProducts(ctx, []int64{1, 2})
	require.NoError(t, err)
	assert.NotContains(t, got, int64(1))
	assert.Contains(t, got, int64(2))
}

func TestCacheRepo_DropsMismatchedAndCorrupt(t *testing.T) {
	mr, client, c := setup(t)
	repo := NewCacheRepo(client, converter.NewProductConverterImpl(), c, quietLogger())

	require.NoError(t, mr.Set("product:5", `{"id":6,"name":"wrong"}`))
	require.NoError(t, mr.Set("product:7", `not json`))

	got, err := repo.GetProducts(context.Background(), []int64{5, 7})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.False(t, mr.Exists("product:5"))
}

func TestCacheRepo_MGetFailure(t *testing.T) {
	mr, client, c := setup(t)
	repo := NewCacheRepo(client, converter.NewProductConverterImpl(), c, quietLogger())
	mr.Close()

	_, err := repo.GetProducts(context.Background(), []int64{1})
	assert.Error(t, err)
}

func TestSessionRepo_RoundTrip(t *testing.T) {
	mr, client, c := setup(t)
	repo := NewSessionRepo(client, converter.NewSessionConverterImpl(), c)
	ctx := context.Background()

	s := domain.NewCheckoutSession("abc")
	require.NoError(t, s.SelectCustomer(&domain.Customer{ID: 3, Name: "Ana", Surname: "Rojas"}))
	require.NoError(t, s.AddItem(&domain.Product{ID: 9, Name: "Split", Price: decimal.RequireFromString("10.25"), Stock: 5}, 2))
	require.NoError(t, s.SetAdjustments(decimal.RequireFromString("1.00"), "install friday"))
	require.NoError(t, s.ChoosePaymentMethod(domain.PaymentCard))
	s.Sale = 2

	require.NoError(t, repo.Save(ctx, s))
	assert.Equal(t, time.Hour, mr.TTL("checkout:abc"))

	got, err := repo.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, domain.StatePaymentMethodChosen, got.State())
	assert.Equal(t, "Ana Rojas", got.CustomerName)
	require.Len(t, got.Cart.Lines, 1)
	assert.Equal(t, 2, got.Cart.Lines[0].Quantity)
	assert.True(t, got.Cart.Total().Equal(s.Cart.Total()))
	assert.Equal(t, "abc/2", got.SaleKey())

	require.NoError(t, repo.Delete(ctx, "abc"))
	_, err = repo.Get(ctx, "abc")
	assert.ErrorIs(t, err, e.ErrSessionNotFound)
	require.NoError(t, repo.Delete(ctx, "abc"))
}

func TestSessionRepo_Expires(t *testing.T) {
	mr, client, c := setup(t)
	repo := NewSessionRepo(client, converter.NewSessionConverterImpl(), c)

	require.NoError(t, repo.Save(context.Background(), domain.NewCheckoutSession("old")))
	mr.FastForward(2 * time.Hour)

	_, err := repo.Get(context.Background(), "old")
	assert.ErrorIs(t, err, e.ErrSessionNotFound)
}
