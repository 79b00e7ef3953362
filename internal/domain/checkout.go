package domain

import (
	"fmt"
	"time"

	"github.com/Rafa-lopez12/examen-arqui/pkg/e"
	"github.com/shopspring/decimal"
)

type CheckoutState string

const (
	StateNoCustomer          CheckoutState = "no_customer"
	StateCustomerSelected    CheckoutState = "customer_selected"
	StateItemsInCart         CheckoutState = "items_in_cart"
	StatePaymentMethodChosen CheckoutState = "payment_method_chosen"
	StateCashCompleted       CheckoutState = "cash_completed"
	StateCardPendingPayment  CheckoutState = "card_pending_payment"
	StateCardPaid            CheckoutState = "card_paid"
)

// CheckoutSession is the order under construction at one point of sale.
// It replaces process-wide "current cart/customer" state: callers load it,
// apply one transition and store it back.
type CheckoutSession struct {
	ID            string
	Sale          int // bumped by Reset
	Cart          Cart
	CustomerName  string
	PaymentMethod PaymentMethod
	OrderID       int64
	ClientSecret  string
	PaymentError  string
	Paid          bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func NewCheckoutSession(id string) *CheckoutSession {
	now := time.Now().UTC()
	return &CheckoutSession{ID: id, CreatedAt: now, UpdatedAt: now}
}

func (s *CheckoutSession) State() CheckoutState {
	switch {
	case s.OrderID != 0 && s.PaymentMethod == PaymentCash:
		return StateCashCompleted
	case s.OrderID != 0 && s.Paid:
		return StateCardPaid
	case s.OrderID != 0:
		return StateCardPendingPayment
	case s.Cart.CustomerID == 0:
		return StateNoCustomer
	case s.Cart.IsEmpty():
		return StateCustomerSelected
	case !s.PaymentMethod.Valid():
		return StateItemsInCart
	default:
		return StatePaymentMethodChosen
	}
}

// Confirmed reports whether the order was persisted; the cart is frozen from then on.
func (s *CheckoutSession) Confirmed() bool {
	return s.OrderID != 0
}

func (s *CheckoutSession) SelectCustomer(c *Customer) error {
	if s.Confirmed() {
		return e.ErrCheckoutClosed
	}
	if c == nil || c.ID == 0 {
		return e.ErrCustomerRequired
	}
	s.Cart.CustomerID = c.ID
	s.CustomerName = c.FullName()
	s.touch()
	return nil
}

func (s *CheckoutSession) AddItem(p *Product, quantity int) error {
	if s.Confirmed() {
		return e.ErrCheckoutClosed
	}
	if quantity < 1 {
		return e.ErrInvalidQuantity
	}
	if !s.Cart.Add(p, quantity) {
		return e.ErrInsufficientStock
	}
	s.touch()
	return nil
}

func (s *CheckoutSession) RemoveItem(productID int64) error {
	if s.Confirmed() {
		return e.ErrCheckoutClosed
	}
	s.Cart.Remove(productID)
	s.touch()
	return nil
}

// SetAdjustments stores the discount and notes. The discount is not checked against the subtotal.
func (s *CheckoutSession) SetAdjustments(discount decimal.Decimal, notes string) error {
	if s.Confirmed() {
		return e.ErrCheckoutClosed
	}
	s.Cart.Discount = discount
	s.Cart.Notes = notes
	s.touch()
	return nil
}

// ChoosePaymentMethod requires a customer and a non-empty cart.
func (s *CheckoutSession) ChoosePaymentMethod(m PaymentMethod) error {
	if s.Confirmed() {
		return e.ErrCheckoutClosed
	}
	if !m.Valid() {
		return e.ErrInvalidPaymentMethod
	}
	if s.Cart.CustomerID == 0 {
		return e.ErrCustomerRequired
	}
	if s.Cart.IsEmpty() {
		return e.ErrEmptyOrder
	}
	s.PaymentMethod = m
	s.touch()
	return nil
}

// BuildOrder turns the session into an order header and its lines.
func (s *CheckoutSession) BuildOrder() (*Order, []OrderLine, error) {
	if s.Confirmed() {
		return nil, nil, e.ErrCheckoutClosed
	}
	if s.Cart.CustomerID == 0 {
		return nil, nil, e.ErrCustomerRequired
	}
	if s.Cart.IsEmpty() {
		return nil, nil, e.ErrEmptyOrder
	}
	if !s.PaymentMethod.Valid() {
		return nil, nil, e.ErrPaymentMethodRequired
	}

	order := &Order{
		CustomerID:    s.Cart.CustomerID,
		CustomerName:  s.CustomerName,
		Total:         s.Cart.Total(),
		Discount:      s.Cart.Discount,
		Taxes:         decimal.Zero,
		PaymentMethod: s.PaymentMethod,
		Status:        s.PaymentMethod.InitialStatus(),
		Notes:         s.Cart.Notes,
		CheckoutKey:   s.SaleKey(),
	}
	return order, s.Cart.OrderLines(), nil
}

// SaleKey identifies the current sale of the session.
func (s *CheckoutSession) SaleKey() string {
	return fmt.Sprintf("%s/%d", s.ID, s.Sale)
}

// MarkConfirmed records the persisted order.
func (s *CheckoutSession) MarkConfirmed(orderID int64) {
	s.OrderID = orderID
	s.PaymentError = ""
	s.touch()
}

// SetPaymentIntent stores the client secret of the hosted payment form.
// An empty secret with a non-nil err records a failed hand-off.
func (s *CheckoutSession) SetPaymentIntent(clientSecret string, err error) {
	s.ClientSecret = clientSecret
	if err != nil {
		s.PaymentError = err.Error()
	} else {
		s.PaymentError = ""
	}
	s.touch()
}

// ApplyOutcome updates the session after the recorder handled o.
func (s *CheckoutSession) ApplyOutcome(o PaymentOutcome) {
	if o.Success() {
		s.Paid = true
		s.PaymentError = ""
	} else {
		s.PaymentError = o.ErrorMessage()
	}
	s.touch()
}

// Reset starts a new sale in the same session.
func (s *CheckoutSession) Reset() {
	s.Sale++
	s.Cart.Clear()
	s.CustomerName = ""
	s.PaymentMethod = ""
	s.OrderID = 0
	s.ClientSecret = ""
	s.PaymentError = ""
	s.Paid = false
	s.touch()
}

// CheckoutSnapshot is a read-only copy of a session with derived values.
type CheckoutSnapshot struct {
	ID            string
	State         CheckoutState
	CustomerID    int64
	CustomerName  string
	Lines         []CartLine
	Subtotal      decimal.Decimal
	Discount      decimal.Decimal
	Total         decimal.Decimal
	Notes         string
	PaymentMethod PaymentMethod
	OrderID       int64
	ClientSecret  string
	PaymentError  string
	UpdatedAt     time.Time
}

func (s *CheckoutSession) Snapshot() CheckoutSnapshot {
	cart := s.Cart.clone()
	return CheckoutSnapshot{
		ID:            s.ID,
		State:         s.State(),
		CustomerID:    cart.CustomerID,
		CustomerName:  s.CustomerName,
		Lines:         cart.Lines,
		Subtotal:      cart.Subtotal(),
		Discount:      cart.Discount,
		Total:         cart.Total(),
		Notes:         cart.Notes,
		PaymentMethod: s.PaymentMethod,
		OrderID:       s.OrderID,
		ClientSecret:  s.ClientSecret,
		PaymentError:  s.PaymentError,
		UpdatedAt:     s.UpdatedAt,
	}
}

func (s *CheckoutSession) touch() {
	s.UpdatedAt = time.Now().UTC()
}
