package usecase

import (
	"encoding/json"
	"time"

	"github.com/Rafa-lopez12/examen-arqui/internal/domain"
	"github.com/google/uuid"
)

// newOrderEvent builds an outbox row describing order. reference is the
// payment reference for payment events and empty otherwise.
func newOrderEvent(eventType string, order *domain.Order, reference string) (*OutboxEvent, error) {
	now := time.Now().UTC()
	eventID := uuid.NewString()

	payload, err := json.Marshal(OrderEventPayload{
		EventID:       eventID,
		EventType:     eventType,
		OrderID:       order.ID,
		CustomerID:    order.CustomerID,
		Status:        string(order.Status),
		PaymentMethod: string(order.PaymentMethod),
		Total:         order.Total.StringFixed(2),
		Reference:     reference,
		Lines:         len(order.Lines),
		OccurredAt:    now,
	})
	if err != nil {
		return nil, err
	}

	return &OutboxEvent{
		EventID:   eventID,
		EventType: eventType,
		OrderID:   order.ID,
		Payload:   payload,
		Status:    Pending,
		CreatedAt: now,
	}, nil
}
