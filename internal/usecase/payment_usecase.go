package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Rafa-lopez12/examen-arqui/internal/domain"
	"github.com/Rafa-lopez12/examen-arqui/pkg/e"
	"github.com/Rafa-lopez12/examen-arqui/pkg/logger"
)

// PaymentUseCase hands card orders to the payment gateway and records the outcome.
type PaymentUseCase struct {
	orderRepo   OrderRepository
	paymentRepo PaymentRepository
	methodRepo  PaymentMethodRepository
	outboxRepo  OutboxRepository
	gateway     PaymentGateway
	txManager   TxManager
	currency    string
	logger      logger.Logger

	mu      sync.Mutex
	waiters map[int64]*paymentWaiter
}

// paymentWaiter is shared by every AwaitOutcome call of one order.
type paymentWaiter struct {
	future *domain.PaymentFuture
	refs   int
}

func NewPaymentUC(
	orderRepo OrderRepository,
	paymentRepo PaymentRepository,
	methodRepo PaymentMethodRepository,
	outboxRepo OutboxRepository,
	gateway PaymentGateway,
	txManager TxManager,
	currency string,
	logger logger.Logger,
) *PaymentUseCase {
	return &PaymentUseCase{
		orderRepo:   orderRepo,
		paymentRepo: paymentRepo,
		methodRepo:  methodRepo,
		outboxRepo:  outboxRepo,
		gateway:     gateway,
		txManager:   txManager,
		currency:    currency,
		logger:      logger,
		waiters:     make(map[int64]*paymentWaiter),
	}
}

// StartPayment creates a payment intent for a pending card order and returns
// the client secret for the hosted payment form. Calling it again for the same
// order is safe: the idempotency key is derived from the order id.
func (p *PaymentUseCase) StartPayment(ctx context.Context, orderID int64) (*StartPaymentRes, error) {
	const op = "PaymentUseCase.StartPayment"

	order, err := p.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	if order.PaymentMethod != domain.PaymentCard {
		return nil, e.Wrap(op, e.ErrCardPaymentRequired)
	}
	if order.Status != domain.OrderPending {
		return nil, e.Wrap(op, e.ErrOrderNotPending)
	}

	amount := domain.AmountToMinorUnits(order.Total)
	if amount < 1 {
		return nil, e.Wrap(op, e.Wrap(fmt.Sprintf("order total %s", order.Total.StringFixed(2)), e.ErrValidation))
	}

	description := domain.PaymentDescription(order.ID, order.CustomerName)
	intent, err := p.gateway.CreatePaymentIntent(ctx, &CreatePaymentIntentReq{
		AmountMinor:    amount,
		Currency:       p.currency,
		Description:    description,
		IdempotencyKey: fmt.Sprintf("order-%d-%d", order.ID, amount),
	})
	if err != nil {
		p.logger.Errorf(err, "payment intent for order %d failed", order.ID)
		return nil, e.Wrap(op, err)
	}

	intentID := intent.ID
	if intentID == "" {
		intentID = domain.PaymentIntentIDFromSecret(intent.ClientSecret)
	}

	p.logger.Infof("payment intent %s created for order %d", intentID, order.ID)

	return &StartPaymentRes{
		OrderID:         order.ID,
		PaymentIntentID: intentID,
		ClientSecret:    intent.ClientSecret,
		AmountMinor:     amount,
		Currency:        p.currency,
		Description:     description,
	}, nil
}

// OnPaymentResult records the terminal outcome of the hosted payment form.
//
// Completed marks the order completed and inserts the completed payment in one
// unit of work, so neither can exist without the other. An order that was
// already completed without a completed payment gets the payment recorded.
// Canceled and Failed leave the order pending and only report the error message.
func (p *PaymentUseCase) OnPaymentResult(ctx context.Context, orderID int64, outcome domain.PaymentOutcome) (*PaymentResult, error) {
	const op = "PaymentUseCase.OnPaymentResult"

	if !outcome.Valid() {
		return nil, e.Wrap(op, e.ErrInvalidOutcome)
	}

	order, err := p.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if !outcome.Success() {
		msg := outcome.ErrorMessage()
		p.logger.Warnf("payment for order %d not completed: %s", orderID, msg)
		p.resolve(orderID, outcome)
		return &PaymentResult{Order: order, ErrorMessage: msg}, nil
	}

	reference := strings.TrimSpace(outcome.Reference)
	if reference == "" {
		return nil, e.Wrap(op, e.Wrap("missing transaction reference", e.ErrInvalidOutcome))
	}

	var payment *domain.Payment
	err = p.txManager.Do(ctx, func(ctx context.Context) error {
		changed, err := p.orderRepo.CompletePending(ctx, orderID)
		if err != nil {
			return err
		}
		if !changed {
			unpaid, err := p.completedWithoutPayment(ctx, orderID)
			if err != nil {
				return err
			}
			if !unpaid {
				return e.ErrOrderNotPending
			}
			p.logger.Warnf("order %d was completed without a payment, recording %s", orderID, reference)
		}
		completedNow := changed
		order.Status = domain.OrderCompleted

		payment, err = p.paymentRepo.Create(ctx, domain.NewCompletedPayment(order.ID, order.Total, order.PaymentMethod, reference))
		if err != nil {
			return err
		}

		eventTypes := []string{EventPaymentRecorded}
		if completedNow {
			eventTypes = []string{EventOrderCompleted, EventPaymentRecorded}
		}
		for _, eventType := range eventTypes {
			event, err := newOrderEvent(eventType, order, reference)
			if err != nil {
				return err
			}
			if _, err := p.outboxRepo.Create(ctx, event); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, e.ErrOrderNotPending) {
			if existing := p.findPayment(ctx, orderID, reference); existing != nil {
				order.Status = domain.OrderCompleted
				return &PaymentResult{Order: order, Payment: existing}, nil
			}
		}
		p.logger.Errorf(err, "failed to record payment %s for order %d", reference, orderID)
		return nil, e.Wrap(op, err)
	}

	p.resolve(orderID, outcome)
	p.logger.Infof("payment %d recorded for order %d, reference %s", payment.ID, orderID, reference)
	return &PaymentResult{Order: order, Payment: payment}, nil
}

// AwaitOutcome blocks until an outcome for orderID is recorded or timeout elapses.
// A completed order returns its payment reference at once and a cancelled one
// fails at once with ErrOrderNotPending.
func (p *PaymentUseCase) AwaitOutcome(ctx context.Context, orderID int64, timeout time.Duration) (domain.PaymentOutcome, error) {
	const op = "PaymentUseCase.AwaitOutcome"

	// register before reading the order so a concurrent resolve is not missed
	future, release := p.acquire(orderID)
	defer release()

	order, err := p.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return domain.PaymentOutcome{}, e.Wrap(op, err)
	}
	switch order.Status {
	case domain.OrderCompleted:
		return domain.Completed(p.completedReference(ctx, orderID)), nil
	case domain.OrderCancelled:
		return domain.PaymentOutcome{}, e.Wrap(op, e.ErrOrderNotPending)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	outcome, err := future.Wait(ctx)
	if err != nil {
		return domain.PaymentOutcome{}, e.Wrap(op, err)
	}
	return outcome, nil
}

func (p *PaymentUseCase) GetPayment(ctx context.Context, id int64) (*domain.Payment, error) {
	const op = "PaymentUseCase.GetPayment"

	payment, err := p.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	return payment, nil
}

// ListOrderPayments returns the payments of an order with the paid total.
func (p *PaymentUseCase) ListOrderPayments(ctx context.Context, orderID int64) (*OrderPaymentsRes, error) {
	const op = "PaymentUseCase.ListOrderPayments"

	order, err := p.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	payments, err := p.paymentRepo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	paid, err := p.paymentRepo.TotalPaid(ctx, orderID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return &OrderPaymentsRes{
		Payments:   payments,
		TotalPaid:  paid,
		OrderTotal: order.Total,
		FullyPaid:  paid.GreaterThanOrEqual(order.Total),
	}, nil
}

func (p *PaymentUseCase) UpdatePayment(ctx context.Context, id int64, req *UpdatePaymentReq) (*domain.Payment, error) {
	const op = "PaymentUseCase.UpdatePayment"

	if err := validateReq(req); err != nil {
		return nil, e.Wrap(op, err)
	}

	payment, err := p.paymentRepo.UpdateStatus(ctx, id, req.Status, strings.TrimSpace(req.Reference))
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	return payment, nil
}

func (p *PaymentUseCase) PaymentMethods(ctx context.Context) ([]domain.PaymentMethodInfo, error) {
	const op = "PaymentUseCase.PaymentMethods"

	methods, err := p.methodRepo.List(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	return methods, nil
}

func (p *PaymentUseCase) findPayment(ctx context.Context, orderID int64, reference string) *domain.Payment {
	payments, err := p.paymentRepo.ListByOrder(ctx, orderID)
	if err != nil {
		p.logger.Warnf("failed to list payments of order %d: %v", orderID, err)
		return nil
	}
	for i := range payments {
		if payments[i].Reference == reference && payments[i].Status == domain.PaymentCompleted {
			return &payments[i]
		}
	}
	return nil
}

func (p *PaymentUseCase) completedReference(ctx context.Context, orderID int64) string {
	payments, err := p.paymentRepo.ListByOrder(ctx, orderID)
	if err != nil {
		return ""
	}
	for _, payment := range payments {
		if payment.Status == domain.PaymentCompleted {
			return payment.Reference
		}
	}
	return ""
}

// completedWithoutPayment reports whether the card order orderID is completed
// but has no completed payment, which happens when the status was set by hand.
func (p *PaymentUseCase) completedWithoutPayment(ctx context.Context, orderID int64) (bool, error) {
	order, err := p.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return false, err
	}
	if order.Status != domain.OrderCompleted || order.PaymentMethod != domain.PaymentCard {
		return false, nil
	}

	paid, err := p.paymentRepo.TotalPaid(ctx, orderID)
	if err != nil {
		return false, err
	}
	return paid.IsZero(), nil
}

// acquire returns the future of orderID, creating it when needed. The
// returned release drops the reference and forgets the future once nobody
// waits on it.
func (p *PaymentUseCase) acquire(orderID int64) (*domain.PaymentFuture, func()) {
	p.mu.Lock()
	defer p.mu.Unlock()

	w, ok := p.waiters[orderID]
	if !ok {
		w = &paymentWaiter{future: domain.NewPaymentFuture()}
		p.waiters[orderID] = w
	}
	w.refs++

	var once sync.Once
	return w.future, func() {
		once.Do(func() {
			p.mu.Lock()
			defer p.mu.Unlock()
			w.refs--
			if w.refs == 0 && p.waiters[orderID] == w {
				delete(p.waiters, orderID)
			}
		})
	}
}

// resolve completes and forgets the future of orderID.
func (p *PaymentUseCase) resolve(orderID int64, outcome domain.PaymentOutcome) {
	p.mu.Lock()
	w, ok := p.waiters[orderID]
	delete(p.waiters, orderID)
	p.mu.Unlock()

	if ok {
		w.future.Resolve(outcome)
	}
}
