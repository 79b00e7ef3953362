package usecase

import (
	"context"
	"testing"

	"github.com/Rafa-lopez12/examen-arqui/internal/domain"
	"github.com/Rafa-lopez12/examen-arqui/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCustomer_DuplicateNationalID(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	ana, err := f.customer.CreateCustomer(ctx, &CustomerReq{Name: " Ana ", Surname: "Perez", NationalID: "123"})
	require.NoError(t, err)
	assert.Equal(t, "Ana", ana.Name)
	assert.True(t, ana.Active)

	_, err = f.customer.CreateCustomer(ctx, &CustomerReq{Name: "Luis", Surname: "Rojas", NationalID: "123"})
	require.ErrorIs(t, err, e.ErrDuplicateNationalID)

	// updating a customer keeps its own national id
	updated, err := f.customer.UpdateCustomer(ctx, ana.ID, &CustomerReq{Name: "Ana", Surname: "Perez Soto", NationalID: "123"})
	require.NoError(t, err)
	assert.Equal(t, "Perez Soto", updated.Surname)
}

func TestCreateCustomer_Validation(t *testing.T) {
	f := newFixture()

	_, err := f.customer.CreateCustomer(context.Background(), &CustomerReq{Name: "Ana", Surname: "Perez", NationalID: "1", Email: "nope"})
	require.ErrorIs(t, err, e.ErrValidation)

	_, err = f.customer.CreateCustomer(context.Background(), &CustomerReq{Name: "Ana", Surname: "Perez"})
	require.ErrorIs(t, err, e.ErrValidation)
}

func TestDeleteCustomer(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	buyer := f.db.addCustomer("Ana", "Perez", "1")
	idle := f.db.addCustomer("Luis", "Rojas", "2")
	cat := f.db.addCategory("Split", "Residential")
	p := f.db.addProduct("A", "10.00", cat.ID, 1)

	lines := []domain.OrderLine{domain.NewOrderLine(p.ID, 1, p.Price)}
	_, err := f.order.Confirm(ctx, newOrder(buyer.ID, domain.PaymentCash, "10.00"), lines)
	require.NoError(t, err)

	require.ErrorIs(t, f.customer.DeleteCustomer(ctx, buyer.ID), e.ErrCustomerHasOrders)
	require.NoError(t, f.customer.DeleteCustomer(ctx, idle.ID))

	active, err := f.customer.ListCustomers(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, buyer.ID, active[0].ID)

	// the national id of a deactivated customer can be reused
	_, err = f.customer.CreateCustomer(ctx, &CustomerReq{Name: "Luisa", Surname: "Rojas", NationalID: "2"})
	require.NoError(t, err)
}

func TestSearchCustomers(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.db.addCustomer("Ana", "Perez", "1")
	f.db.addCustomer("Luis", "Rojas", "2")

	found, err := f.customer.SearchCustomers(ctx, "ana pe")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Ana", found[0].Name)

	short, err := f.customer.SearchCustomers(ctx, "a")
	require.NoError(t, err)
	assert.Len(t, short, 2)
}
