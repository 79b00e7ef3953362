package domain

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

const (
	DefaultPaymentFailureMessage = "payment canceled or failed"
	PaymentCanceledMessage       = "payment canceled by the user"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
)

func (s PaymentStatus) Valid() bool {
	return s == PaymentPending || s == PaymentCompleted
}

type Payment struct {
	ID        int64
	OrderID   int64
	Amount    decimal.Decimal
	Method    PaymentMethod
	PaidAt    time.Time
	Reference string
	Status    PaymentStatus
}

func NewCompletedPayment(orderID int64, amount decimal.Decimal, method PaymentMethod, reference string) *Payment {
	return &Payment{
		OrderID:   orderID,
		Amount:    amount,
		Method:    method,
		PaidAt:    time.Now().UTC(),
		Reference: reference,
		Status:    PaymentCompleted,
	}
}

type OutcomeKind string

const (
	OutcomeCompleted OutcomeKind = "completed"
	OutcomeCanceled  OutcomeKind = "canceled"
	OutcomeFailed    OutcomeKind = "failed"
)

// PaymentOutcome is the terminal result of the hosted payment form.
type PaymentOutcome struct {
	Kind      OutcomeKind
	Reference string // Completed only
	Reason    string // Failed only
}

func Completed(reference string) PaymentOutcome {
	return PaymentOutcome{Kind: OutcomeCompleted, Reference: reference}
}

func Canceled() PaymentOutcome {
	return PaymentOutcome{Kind: OutcomeCanceled}
}

func Failed(reason string) PaymentOutcome {
	return PaymentOutcome{Kind: OutcomeFailed, Reason: reason}
}

func (o PaymentOutcome) Success() bool {
	return o.Kind == OutcomeCompleted
}

func (o PaymentOutcome) Valid() bool {
	switch o.Kind {
	case OutcomeCompleted, OutcomeCanceled, OutcomeFailed:
		return true
	default:
		return false
	}
}

// ErrorMessage is the text shown to the operator for an unsuccessful outcome.
func (o PaymentOutcome) ErrorMessage() string {
	switch o.Kind {
	case OutcomeCompleted:
		return ""
	case OutcomeCanceled:
		return PaymentCanceledMessage
	default:
		if msg := strings.TrimSpace(o.Reason); msg != "" {
			return msg
		}
		return DefaultPaymentFailureMessage
	}
}

// PaymentFuture carries exactly one PaymentOutcome from the party that
// learns it to any number of waiters.
type PaymentFuture struct {
	once    sync.Once
	done    chan struct{}
	outcome PaymentOutcome
}

func NewPaymentFuture() *PaymentFuture {
	return &PaymentFuture{done: make(chan struct{})}
}

// Resolve stores o. Only the first call wins; it reports whether this call did.
func (f *PaymentFuture) Resolve(o PaymentOutcome) bool {
	resolved := false
	f.once.Do(func() {
		f.outcome = o
		close(f.done)
		resolved = true
	})
	return resolved
}

func (f *PaymentFuture) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the outcome is known or ctx ends.
func (f *PaymentFuture) Wait(ctx context.Context) (PaymentOutcome, error) {
	select {
	case <-f.done:
		return f.outcome, nil
	case <-ctx.Done():
		return PaymentOutcome{}, ctx.Err()
	}
}

var hundred = decimal.NewFromInt(100)

// AmountToMinorUnits converts an amount to cents, truncating extra digits.
func AmountToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Truncate(0).IntPart()
}

func MinorUnitsToAmount(units int64) decimal.Decimal {
	return decimal.New(units, -2)
}

// PaymentIntentIDFromSecret extracts "pi_123" from "pi_123_secret_abc".
func PaymentIntentIDFromSecret(clientSecret string) string {
	id, _, _ := strings.Cut(clientSecret, "_secret_")
	return id
}

func PaymentDescription(orderID int64, customerName string) string {
	if customerName == "" {
		return fmt.Sprintf("Order #%d", orderID)
	}
	return fmt.Sprintf("Order #%d - %s", orderID, customerName)
}
