package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Rafa-lopez12/examen-arqui/internal/domain"
	"github.com/Rafa-lopez12/examen-arqui/internal/usecase"
	"github.com/Rafa-lopez12/examen-arqui/pkg/e"
	"github.com/Rafa-lopez12/examen-arqui/pkg/logger"
)

const (
	defaultOutcomeWait = 30 * time.Second
	maxOutcomeWait     = 60 * time.Second
)

type OrderHandler struct {
	orderUsecase   usecase.OrderUC
	paymentUsecase usecase.PaymentUC
	logger         logger.Logger
}

func NewOrderHandler(orderUsecase usecase.OrderUC, paymentUsecase usecase.PaymentUC, logger logger.Logger) *OrderHandler {
	return &OrderHandler{orderUsecase: orderUsecase, paymentUsecase: paymentUsecase, logger: logger}
}

func (h *OrderHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orderUsecase.ListOrders(r.Context())
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}
	WriteSuccess(w, http.StatusOK, toOrderResponses(orders))
}

func (h *OrderHandler) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.orderUsecase.Stats(r.Context())
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}
	WriteSuccess(w, http.StatusOK, OrderStatsResponse{
		CompletedCount:  stats.CompletedCount,
		PendingCount:    stats.PendingCount,
		CompletedAmount: stats.CompletedAmount.StringFixed(2),
		AverageTicket:   stats.AverageTicket.StringFixed(2),
	})
}

func (h *OrderHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}

	order, err := h.orderUsecase.GetOrder(r.Context(), id)
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}
	WriteSuccess(w, http.StatusOK, toOrderResponse(order))
}

func (h *OrderHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}

	var req StatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		fail(h.logger, w, r, err)
		return
	}

	order, err := h.orderUsecase.UpdateOrderStatus(r.Context(), id, domain.OrderStatus(req.Status))
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}
	WriteSuccess(w, http.StatusOK, toOrderResponse(order))
}

// startPayment
//
//	@Summary		Create a payment intent for a pending card order
//	@Description	Used for the first attempt and for retries after a canceled or failed payment.
//	@Tags			payments
//	@Produce		json
//	@Param			id	path		int	true	"Order id"
//	@Success		201	{object}	PaymentIntentResponse
//	@Failure		409	{object}	ErrorResponse	"Order is not pending"
//	@Failure		502	{object}	ErrorResponse	"Payment provider error"
//	@Router			/orders/{id}/payment-intent [post]
func (h *OrderHandler) startPayment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}

	res, err := h.paymentUsecase.StartPayment(r.Context(), id)
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}
	WriteSuccess(w, http.StatusCreated, toPaymentIntentResponse(res))
}

// paymentResult
//
//	@Summary	Report the outcome of the hosted payment form
//	@Tags		payments
//	@Accept		json
//	@Produce	json
//	@Param		id		path		int				true	"Order id"
//	@Param		outcome	body		OutcomeRequest	true	"completed, canceled or failed"
//	@Success	200		{object}	PaymentResultResponse
//	@Failure	400		{object}	ErrorResponse
//	@Router		/orders/{id}/payment-result [post]
func (h *OrderHandler) paymentResult(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}

	var req OutcomeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		fail(h.logger, w, r, err)
		return
	}

	res, err := h.paymentUsecase.OnPaymentResult(r.Context(), id, req.toOutcome())
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}
	WriteSuccess(w, http.StatusOK, toPaymentResultResponse(res))
}

// paymentOutcome
//
//	@Summary		Wait for the payment outcome of an order
//	@Description	Long poll. Answers 202 with kind "pending" when nothing arrived within wait.
//	@Tags			payments
//	@Produce		json
//	@Param			id		path		int		true	"Order id"
//	@Param			wait	query		string	false	"Go duration, at most 60s"
//	@Success		200		{object}	OutcomeResponse
//	@Success		202		{object}	OutcomeResponse
//	@Router			/orders/{id}/payment-outcome [get]
func (h *OrderHandler) paymentOutcome(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}

	wait := defaultOutcomeWait
	if raw := r.URL.Query().Get("wait"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			fail(h.logger, w, r, e.Wrap("wait", e.ErrStatusBadRequest))
			return
		}
		wait = min(d, maxOutcomeWait)
	}

	outcome, err := h.paymentUsecase.AwaitOutcome(r.Context(), id, wait)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && r.Context().Err() == nil {
			WriteSuccess(w, http.StatusAccepted, OutcomeResponse{Kind: "pending"})
			return
		}
		fail(h.logger, w, r, err)
		return
	}
	WriteSuccess(w, http.StatusOK, toOutcomeResponse(outcome))
}

func (h *OrderHandler) listPayments(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}

	res, err := h.paymentUsecase.ListOrderPayments(r.Context(), id)
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}

	payments := make([]PaymentResponse, 0, len(res.Payments))
	for i := range res.Payments {
		payments = append(payments, toPaymentResponse(&res.Payments[i]))
	}
	WriteSuccess(w, http.StatusOK, OrderPaymentsResponse{
		Payments:   payments,
		TotalPaid:  res.TotalPaid.StringFixed(2),
		OrderTotal: res.OrderTotal.StringFixed(2),
		FullyPaid:  res.FullyPaid,
	})
}

func (h *OrderHandler) getPayment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}

	payment, err := h.paymentUsecase.GetPayment(r.Context(), id)
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}
	WriteSuccess(w, http.StatusOK, toPaymentResponse(payment))
}

func (h *OrderHandler) updatePayment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}

	var req UpdatePaymentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		fail(h.logger, w, r, err)
		return
	}

	payment, err := h.paymentUsecase.UpdatePayment(r.Context(), id, &usecase.UpdatePaymentReq{
		Status:    domain.PaymentStatus(req.Status),
		Reference: req.Reference,
	})
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}
	WriteSuccess(w, http.StatusOK, toPaymentResponse(payment))
}

func (h *OrderHandler) paymentMethods(w http.ResponseWriter, r *http.Request) {
	methods, err := h.paymentUsecase.PaymentMethods(r.Context())
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}

	res := make([]PaymentMethodResponse, 0, len(methods))
	for _, m := range methods {
		res = append(res, PaymentMethodResponse{Code: string(m.Code), Description: m.Description})
	}
	WriteSuccess(w, http.StatusOK, res)
}
