package usecase

import (
	"context"
	"strings"

	"github.com/Rafa-lopez12/examen-arqui/internal/domain"
	"github.com/Rafa-lopez12/examen-arqui/pkg/e"
	"github.com/Rafa-lopez12/examen-arqui/pkg/logger"
)

const (
	customerSearchMinLen  = 2
	customerDefaultResult = 10
)

type CustomerUseCase struct {
	customerRepo CustomerRepository
	orderRepo    OrderRepository
	logger       logger.Logger
}

func NewCustomerUC(customerRepo CustomerRepository, orderRepo OrderRepository, logger logger.Logger) *CustomerUseCase {
	return &CustomerUseCase{
		customerRepo: customerRepo,
		orderRepo:    orderRepo,
		logger:       logger,
	}
}

// CreateCustomer registers a customer. The national id must not belong to another active customer.
func (c *CustomerUseCase) CreateCustomer(ctx context.Context, req *CustomerReq) (*domain.Customer, error) {
	const op = "CustomerUseCase.CreateCustomer"

	customer := domain.NewCustomer(req.Name, req.Surname, req.Phone, req.Email, req.Address, req.NationalID)
	if err := c.check(ctx, customer, 0); err != nil {
		return nil, e.Wrap(op, err)
	}

	created, err := c.customerRepo.Create(ctx, customer)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	c.logger.Infof("customer registered: id=%d", created.ID)
	return created, nil
}

func (c *CustomerUseCase) UpdateCustomer(ctx context.Context, id int64, req *CustomerReq) (*domain.Customer, error) {
	const op = "CustomerUseCase.UpdateCustomer"

	existing, err := c.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	customer := domain.NewCustomer(req.Name, req.Surname, req.Phone, req.Email, req.Address, req.NationalID)
	customer.ID = existing.ID
	customer.RegistrationDate = existing.RegistrationDate
	customer.Active = existing.Active

	if err := c.check(ctx, customer, id); err != nil {
		return nil, e.Wrap(op, err)
	}

	updated, err := c.customerRepo.Update(ctx, customer)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return updated, nil
}

func (c *CustomerUseCase) GetCustomer(ctx context.Context, id int64) (*domain.Customer, error) {
	const op = "CustomerUseCase.GetCustomer"

	customer, err := c.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	return customer, nil
}

func (c *CustomerUseCase) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	const op = "CustomerUseCase.ListCustomers"

	customers, err := c.customerRepo.ListActive(ctx, 0)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	return customers, nil
}

// SearchCustomers matches name, surname or "name surname". Queries shorter
// than two characters return the first customers instead.
func (c *CustomerUseCase) SearchCustomers(ctx context.Context, query string) ([]domain.Customer, error) {
	const op = "CustomerUseCase.SearchCustomers"

	query = strings.TrimSpace(query)

	var (
		customers []domain.Customer
		err       error
	)
	if len([]rune(query)) < customerSearchMinLen {
		customers, err = c.customerRepo.ListActive(ctx, customerDefaultResult)
	} else {
		customers, err = c.customerRepo.Search(ctx, query)
	}
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return customers, nil
}

// DeleteCustomer soft deletes a customer without orders.
func (c *CustomerUseCase) DeleteCustomer(ctx context.Context, id int64) error {
	const op = "CustomerUseCase.DeleteCustomer"

	if _, err := c.customerRepo.GetByID(ctx, id); err != nil {
		return e.Wrap(op, err)
	}

	orders, err := c.orderRepo.CountByCustomer(ctx, id)
	if err != nil {
		return e.Wrap(op, err)
	}
	if orders > 0 {
		return e.Wrap(op, e.ErrCustomerHasOrders)
	}

	if err := c.customerRepo.Deactivate(ctx, id); err != nil {
		return e.Wrap(op, err)
	}

	c.logger.Infof("customer %d deactivated", id)
	return nil
}

func (c *CustomerUseCase) check(ctx context.Context, customer *domain.Customer, excludeID int64) error {
	req := CustomerReq{
		Name:       customer.Name,
		Surname:    customer.Surname,
		Phone:      customer.Phone,
		Email:      customer.Email,
		Address:    customer.Address,
		NationalID: customer.NationalID,
	}
	if err := validateReq(&req); err != nil {
		return err
	}

	taken, err := c.customerRepo.NationalIDTaken(ctx, customer.NationalID, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return e.ErrDuplicateNationalID
	}

	return nil
}
