package http

import (
	"net/http"

	"github.com/Rafa-lopez12/examen-arqui/internal/usecase"
	"github.com/Rafa-lopez12/examen-arqui/pkg/logger"
)

type CustomerHandler struct {
	customerUsecase usecase.CustomerUC
	orderUsecase    usecase.OrderUC
	logger          logger.Logger
}

func NewCustomerHandler(customerUsecase usecase.CustomerUC, orderUsecase usecase.OrderUC, logger logger.Logger) *CustomerHandler {
	return &CustomerHandler{customerUsecase: customerUsecase, orderUsecase: orderUsecase, logger: logger}
}

// listCustomers
//
//	@Summary		List or search active customers
//	@Description	q matches name, surname or "name surname". Queries shorter than 2 characters return the first 10 customers.
//	@Tags			customers
//	@Produce		json
//	@Param			q	query	string	false	"Search text"
//	@Success		200	{array}	CustomerResponse
//	@Router			/customers [get]
func (h *CustomerHandler) listCustomers(w http.ResponseWriter, r *http.Request) {
	var res []CustomerResponse
	if q, ok := r.URL.Query()["q"]; ok {
		customers, err := h.customerUsecase.SearchCustomers(r.Context(), q[0])
		if err != nil {
			fail(h.logger, w, r, err)
			return
		}
		res = toCustomerResponses(customers)
	} else {
		customers, err := h.customerUsecase.ListCustomers(r.Context())
		if err != nil {
			fail(h.logger, w, r, err)
			return
		}
		res = toCustomerResponses(customers)
	}

	WriteSuccess(w, http.StatusOK, res)
}

// createCustomer
//
//	@Summary	Register a customer
//	@Tags		customers
//	@Accept		json
//	@Produce	json
//	@Param		customer	body		CustomerRequest	true	"Customer"
//	@Success	201			{object}	CustomerResponse
//	@Failure	400			{object}	ErrorResponse
//	@Failure	409			{object}	ErrorResponse	"National id taken"
//	@Router		/customers [post]
func (h *CustomerHandler) createCustomer(w http.ResponseWriter, r *http.Request) {
	var req CustomerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		fail(h.logger, w, r, err)
		return
	}

	customer, err := h.customerUsecase.CreateCustomer(r.Context(), toCustomerReq(&req))
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}

	h.logger.Infof("customer %d registered", customer.ID)
	WriteSuccess(w, http.StatusCreated, toCustomerResponse(customer))
}

func (h *CustomerHandler) getCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}

	customer, err := h.customerUsecase.GetCustomer(r.Context(), id)
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}
	WriteSuccess(w, http.StatusOK, toCustomerResponse(customer))
}

func (h *CustomerHandler) updateCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}

	var req CustomerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		fail(h.logger, w, r, err)
		return
	}

	customer, err := h.customerUsecase.UpdateCustomer(r.Context(), id, toCustomerReq(&req))
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}
	WriteSuccess(w, http.StatusOK, toCustomerResponse(customer))
}

// deleteCustomer
//
//	@Summary	Deactivate a customer
//	@Tags		customers
//	@Param		id	path	int	true	"Customer id"
//	@Success	204
//	@Failure	409	{object}	ErrorResponse	"Customer has orders"
//	@Router		/customers/{id} [delete]
func (h *CustomerHandler) deleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}

	if err := h.customerUsecase.DeleteCustomer(r.Context(), id); err != nil {
		fail(h.logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CustomerHandler) listCustomerOrders(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}

	orders, err := h.orderUsecase.ListCustomerOrders(r.Context(), id)
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}
	WriteSuccess(w, http.StatusOK, toOrderResponses(orders))
}

func toCustomerReq(req *CustomerRequest) *usecase.CustomerReq {
	return &usecase.CustomerReq{
		Name:       req.Name,
		Surname:    req.Surname,
		Phone:      req.Phone,
		Email:      req.Email,
		Address:    req.Address,
		NationalID: req.NationalID,
	}
}
