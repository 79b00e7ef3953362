package http

import (
	"net/http"

	"github.com/Rafa-lopez12/examen-arqui/internal/domain"
	"github.com/Rafa-lopez12/examen-arqui/internal/usecase"
	"github.com/Rafa-lopez12/examen-arqui/pkg/logger"
	"github.com/go-chi/chi/v5"
)

// CheckoutHandler exposes the checkout session of one point of sale.
// Every route except POST /checkouts addresses a session by id.
type CheckoutHandler struct {
	checkoutUsecase usecase.CheckoutUC
	logger          logger.Logger
}

func NewCheckoutHandler(checkoutUsecase usecase.CheckoutUC, logger logger.Logger) *CheckoutHandler {
	return &CheckoutHandler{checkoutUsecase: checkoutUsecase, logger: logger}
}

// open
//
//	@Summary	Open a checkout session
//	@Tags		checkouts
//	@Produce	json
//	@Success	201	{object}	CheckoutResponse
//	@Router		/checkouts [post]
func (h *CheckoutHandler) open(w http.ResponseWriter, r *http.Request) {
	snap, err := h.checkoutUsecase.Open(r.Context())
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}
	WriteSuccess(w, http.StatusCreated, toCheckoutResponse(snap))
}

func (h *CheckoutHandler) get(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r)(h.checkoutUsecase.Get(r.Context(), sessionID(r)))
}

func (h *CheckoutHandler) close(w http.ResponseWriter, r *http.Request) {
	if err := h.checkoutUsecase.Close(r.Context(), sessionID(r)); err != nil {
		fail(h.logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CheckoutHandler) clear(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r)(h.checkoutUsecase.Clear(r.Context(), sessionID(r)))
}

func (h *CheckoutHandler) selectCustomer(w http.ResponseWriter, r *http.Request) {
	var req SelectCustomerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		fail(h.logger, w, r, err)
		return
	}
	h.respond(w, r)(h.checkoutUsecase.SelectCustomer(r.Context(), sessionID(r), req.CustomerID))
}

// addItem
//
//	@Summary		Add units of a product to the cart
//	@Description	The merged quantity may not exceed the product stock.
//	@Tags			checkouts
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string			true	"Session id"
//	@Param			item	body		AddItemRequest	true	"Product and quantity"
//	@Success		200		{object}	CheckoutResponse
//	@Failure		422		{object}	ErrorResponse	"Insufficient stock"
//	@Router			/checkouts/{id}/items [post]
func (h *CheckoutHandler) addItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		fail(h.logger, w, r, err)
		return
	}
	h.respond(w, r)(h.checkoutUsecase.AddItem(r.Context(), sessionID(r), req.ProductID, req.Quantity))
}

func (h *CheckoutHandler) removeItem(w http.ResponseWriter, r *http.Request) {
	productID, err := pathID(r, "productID")
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}
	h.respond(w, r)(h.checkoutUsecase.RemoveItem(r.Context(), sessionID(r), productID))
}

func (h *CheckoutHandler) setAdjustments(w http.ResponseWriter, r *http.Request) {
	var req AdjustmentsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		fail(h.logger, w, r, err)
		return
	}

	discount, err := parseOptionalAmount(req.Discount)
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}

	h.respond(w, r)(h.checkoutUsecase.SetAdjustments(r.Context(), sessionID(r), &usecase.AdjustmentsReq{
		Discount: discount,
		Notes:    req.Notes,
	}))
}

func (h *CheckoutHandler) choosePaymentMethod(w http.ResponseWriter, r *http.Request) {
	var req PaymentMethodRequest
	if err := decodeJSON(w, r, &req); err != nil {
		fail(h.logger, w, r, err)
		return
	}
	h.respond(w, r)(h.checkoutUsecase.ChoosePaymentMethod(r.Context(), sessionID(r), domain.PaymentMethod(req.Method)))
}

// confirm
//
//	@Summary		Persist the order of the session
//	@Description	Cash orders complete at once. Card orders stay pending and carry the client secret of the hosted payment form.
//	@Tags			checkouts
//	@Produce		json
//	@Param			id	path		string	true	"Session id"
//	@Success		201	{object}	ConfirmResponse
//	@Failure		422	{object}	ErrorResponse
//	@Router			/checkouts/{id}/confirm [post]
func (h *CheckoutHandler) confirm(w http.ResponseWriter, r *http.Request) {
	res, err := h.checkoutUsecase.Confirm(r.Context(), sessionID(r))
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}

	h.logger.Infof("checkout %s confirmed order %d (%s)", res.Session.ID, res.Order.ID, res.Order.PaymentMethod)
	WriteSuccess(w, http.StatusCreated, ConfirmResponse{
		Session: toCheckoutResponse(&res.Session),
		Order:   toOrderResponse(res.Order),
		Payment: toPaymentIntentResponse(res.Payment),
	})
}

func (h *CheckoutHandler) paymentResult(w http.ResponseWriter, r *http.Request) {
	var req OutcomeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		fail(h.logger, w, r, err)
		return
	}
	h.respond(w, r)(h.checkoutUsecase.ApplyPaymentResult(r.Context(), sessionID(r), req.toOutcome()))
}

// respond writes the snapshot of a successful transition or the error.
func (h *CheckoutHandler) respond(w http.ResponseWriter, r *http.Request) func(*domain.CheckoutSnapshot, error) {
	return func(snap *domain.CheckoutSnapshot, err error) {
		if err != nil {
			fail(h.logger, w, r, err)
			return
		}
		WriteSuccess(w, http.StatusOK, toCheckoutResponse(snap))
	}
}

func sessionID(r *http.Request) string {
	return chi.URLParam(r, "id")
}

