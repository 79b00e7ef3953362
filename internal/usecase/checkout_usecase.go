package usecase

import (
	"context"
	"strings"

	"github.com/Rafa-lopez12/examen-arqui/internal/domain"
	"github.com/Rafa-lopez12/examen-arqui/pkg/e"
	"github.com/Rafa-lopez12/examen-arqui/pkg/logger"
	"github.com/google/uuid"
)

// CheckoutUseCase drives a point-of-sale session from customer selection to a
// recorded payment. Every call loads the session, applies one transition and
// stores it back.
type CheckoutUseCase struct {
	sessionRepo  SessionRepository
	customerRepo CustomerRepository
	productRepo  ProductRepository
	orderUC      OrderUC
	paymentUC    PaymentUC
	logger       logger.Logger
}

func NewCheckoutUC(
	sessionRepo SessionRepository,
	customerRepo CustomerRepository,
	productRepo ProductRepository,
	orderUC OrderUC,
	paymentUC PaymentUC,
	logger logger.Logger,
) *CheckoutUseCase {
	return &CheckoutUseCase{
		sessionRepo:  sessionRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		orderUC:      orderUC,
		paymentUC:    paymentUC,
		logger:       logger,
	}
}

func (c *CheckoutUseCase) Open(ctx context.Context) (*domain.CheckoutSnapshot, error) {
	const op = "CheckoutUseCase.Open"

	session := domain.NewCheckoutSession(uuid.NewString())
	if err := c.sessionRepo.Save(ctx, session); err != nil {
		return nil, e.Wrap(op, err)
	}

	c.logger.Debugf("checkout session %s opened", session.ID)
	return snapshot(session), nil
}

func (c *CheckoutUseCase) Get(ctx context.Context, id string) (*domain.CheckoutSnapshot, error) {
	const op = "CheckoutUseCase.Get"

	session, err := c.sessionRepo.Get(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	return snapshot(session), nil
}

func (c *CheckoutUseCase) SelectCustomer(ctx context.Context, id string, customerID int64) (*domain.CheckoutSnapshot, error) {
	const op = "CheckoutUseCase.SelectCustomer"

	res, err := c.update(ctx, id, func(s *domain.CheckoutSession) error {
		customer, err := c.customerRepo.GetByID(ctx, customerID)
		if err != nil {
			return err
		}
		if !customer.Active {
			return e.ErrCustomerNotFound
		}
		return s.SelectCustomer(customer)
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	return res, nil
}

// AddItem adds quantity units of a product, merging with an existing line.
// Stock is checked against the current product row.
func (c *CheckoutUseCase) AddItem(ctx context.Context, id string, productID int64, quantity int) (*domain.CheckoutSnapshot, error) {
	const op = "CheckoutUseCase.AddItem"

	res, err := c.update(ctx, id, func(s *domain.CheckoutSession) error {
		if quantity < 1 {
			return e.ErrInvalidQuantity
		}
		product, err := c.productRepo.GetByID(ctx, productID)
		if err != nil {
			return err
		}
		return s.AddItem(product, quantity)
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	return res, nil
}

func (c *CheckoutUseCase) RemoveItem(ctx context.Context, id string, productID int64) (*domain.CheckoutSnapshot, error) {
	const op = "CheckoutUseCase.RemoveItem"

	res, err := c.update(ctx, id, func(s *domain.CheckoutSession) error {
		return s.RemoveItem(productID)
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	return res, nil
}

func (c *CheckoutUseCase) SetAdjustments(ctx context.Context, id string, req *AdjustmentsReq) (*domain.CheckoutSnapshot, error) {
	const op = "CheckoutUseCase.SetAdjustments"

	if err := validateReq(req); err != nil {
		return nil, e.Wrap(op, err)
	}

	res, err := c.update(ctx, id, func(s *domain.CheckoutSession) error {
		return s.SetAdjustments(req.Discount, strings.TrimSpace(req.Notes))
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	return res, nil
}

func (c *CheckoutUseCase) ChoosePaymentMethod(ctx context.Context, id string, method domain.PaymentMethod) (*domain.CheckoutSnapshot, error) {
	const op = "CheckoutUseCase.ChoosePaymentMethod"

	res, err := c.update(ctx, id, func(s *domain.CheckoutSession) error {
		return s.ChoosePaymentMethod(method)
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	return res, nil
}

// Confirm persists the order. Cash orders are completed at once. Card orders
// stay pending and get a payment intent; when the gateway fails the order is
// kept and the error is stored on the session so the payment can be retried.
func (c *CheckoutUseCase) Confirm(ctx context.Context, id string) (*ConfirmRes, error) {
	const op = "CheckoutUseCase.Confirm"

	session, err := c.sessionRepo.Get(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	order, lines, err := session.BuildOrder()
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	created, err := c.orderUC.Confirm(ctx, order, lines)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	session.MarkConfirmed(created.ID)

	res := &ConfirmRes{Order: created}
	if created.PaymentMethod == domain.PaymentCard {
		payment, err := c.paymentUC.StartPayment(ctx, created.ID)
		if err != nil {
			c.logger.Warnf("order %d confirmed without payment intent: %v", created.ID, err)
			session.SetPaymentIntent("", err)
		} else {
			session.SetPaymentIntent(payment.ClientSecret, nil)
			res.Payment = payment
		}
	}

	if err := c.sessionRepo.Save(ctx, session); err != nil {
		return nil, e.Wrap(op, err)
	}

	res.Session = session.Snapshot()
	return res, nil
}

// ApplyPaymentResult forwards the outcome of the hosted payment form to the
// recorder. A completed outcome without a reference uses the payment intent
// id taken from the session's client secret.
func (c *CheckoutUseCase) ApplyPaymentResult(ctx context.Context, id string, outcome domain.PaymentOutcome) (*domain.CheckoutSnapshot, error) {
	const op = "CheckoutUseCase.ApplyPaymentResult"

	session, err := c.sessionRepo.Get(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	if !session.Confirmed() {
		return nil, e.Wrap(op, e.ErrPaymentIntentNotActive)
	}
	if session.PaymentMethod != domain.PaymentCard {
		return nil, e.Wrap(op, e.ErrCardPaymentRequired)
	}
	if session.Paid {
		return snapshot(session), nil
	}

	if outcome.Success() && strings.TrimSpace(outcome.Reference) == "" {
		if session.ClientSecret == "" {
			return nil, e.Wrap(op, e.ErrPaymentIntentNotActive)
		}
		outcome.Reference = domain.PaymentIntentIDFromSecret(session.ClientSecret)
	}

	if _, err := c.paymentUC.OnPaymentResult(ctx, session.OrderID, outcome); err != nil {
		session.PaymentError = err.Error()
		if saveErr := c.sessionRepo.Save(ctx, session); saveErr != nil {
			c.logger.Errorf(saveErr, "failed to save checkout session %s", session.ID)
		}
		return nil, e.Wrap(op, err)
	}

	session.ApplyOutcome(outcome)
	if err := c.sessionRepo.Save(ctx, session); err != nil {
		return nil, e.Wrap(op, err)
	}
	return snapshot(session), nil
}

// Clear starts a new sale in the same session.
func (c *CheckoutUseCase) Clear(ctx context.Context, id string) (*domain.CheckoutSnapshot, error) {
	const op = "CheckoutUseCase.Clear"

	res, err := c.update(ctx, id, func(s *domain.CheckoutSession) error {
		s.Reset()
		return nil
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	return res, nil
}

func (c *CheckoutUseCase) Close(ctx context.Context, id string) error {
	const op = "CheckoutUseCase.Close"

	if err := c.sessionRepo.Delete(ctx, id); err != nil {
		return e.Wrap(op, err)
	}
	return nil
}

// update loads the session, applies fn and saves the result. Nothing is
// saved when fn fails.
func (c *CheckoutUseCase) update(ctx context.Context, id string, fn func(s *domain.CheckoutSession) error) (*domain.CheckoutSnapshot, error) {
	session, err := c.sessionRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(session); err != nil {
		return nil, err
	}
	if err := c.sessionRepo.Save(ctx, session); err != nil {
		return nil, err
	}
	return snapshot(session), nil
}

func snapshot(s *domain.CheckoutSession) *domain.CheckoutSnapshot {
	snap := s.Snapshot()
	return &snap
}
