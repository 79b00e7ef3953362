package http

import (
	"net/http"

	_ "github.com/Rafa-lopez12/examen-arqui/docs" // registers the swagger document
	"github.com/Rafa-lopez12/examen-arqui/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

// Handlers groups everything mounted under /api/v1.
type Handlers struct {
	Catalog  *CatalogHandler
	Customer *CustomerHandler
	Checkout *CheckoutHandler
	Order    *OrderHandler
}

func (r *Router) Init(h Handlers, swaggerURL string) {
	r.router.Use(middleware.RequestID)
	r.router.Use(middleware.Recoverer)

	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(swaggerURL),
	))
	r.router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		WriteSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.router.Route("/api/v1", func(v1 chi.Router) {
		registerCategoryRoutes(v1, h.Catalog)
		registerProductRoutes(v1, h.Catalog)
		registerCustomerRoutes(v1, h.Customer)
		registerCheckoutRoutes(v1, h.Checkout)
		registerOrderRoutes(v1, h.Order)
	})
}

func registerCategoryRoutes(router chi.Router, h *CatalogHandler) {
	router.Route("/categories", func(c chi.Router) {
		c.Get("/", h.listCategories)
		c.Post("/", h.createCategory)
		c.Get("/{id}", h.getCategory)
		c.Put("/{id}", h.updateCategory)
		c.Delete("/{id}", h.deleteCategory)
	})
}

func registerProductRoutes(router chi.Router, h *CatalogHandler) {
	router.Route("/products", func(pr chi.Router) {
		pr.Get("/", h.listProducts)
		pr.Post("/", h.createProduct)
		pr.Get("/{id}", h.getProduct)
		pr.Put("/{id}", h.updateProduct)
		pr.Post("/{id}/image", h.uploadProductImage)
	})
}

func registerCustomerRoutes(router chi.Router, h *CustomerHandler) {
	router.Route("/customers", func(c chi.Router) {
		c.Get("/", h.listCustomers)
		c.Post("/", h.createCustomer)
		c.Get("/{id}", h.getCustomer)
		c.Put("/{id}", h.updateCustomer)
		c.Delete("/{id}", h.deleteCustomer)
		c.Get("/{id}/orders", h.listCustomerOrders)
	})
}

func registerCheckoutRoutes(router chi.Router, h *CheckoutHandler) {
	router.Route("/checkouts", func(c chi.Router) {
		c.Post("/", h.open)
		c.Get("/{id}", h.get)
		c.Delete("/{id}", h.close)
		c.Post("/{id}/clear", h.clear)
		c.Put("/{id}/customer", h.selectCustomer)
		c.Post("/{id}/items", h.addItem)
		c.Delete("/{id}/items/{productID}", h.removeItem)
		c.Put("/{id}/adjustments", h.setAdjustments)
		c.Put("/{id}/payment-method", h.choosePaymentMethod)
		c.Post("/{id}/confirm", h.confirm)
		c.Post("/{id}/payment-result", h.paymentResult)
	})
}

func registerOrderRoutes(router chi.Router, h *OrderHandler) {
	router.Route("/orders", func(o chi.Router) {
		o.Get("/", h.listOrders)
		o.Get("/stats", h.stats)
		o.Get("/{id}", h.getOrder)
		o.Put("/{id}/status", h.updateStatus)
		o.Post("/{id}/payment-intent", h.startPayment)
		o.Post("/{id}/payment-result", h.paymentResult)
		o.Get("/{id}/payment-outcome", h.paymentOutcome)
		o.Get("/{id}/payments", h.listPayments)
	})

	router.Get("/payments/{id}", h.getPayment)
	router.Put("/payments/{id}", h.updatePayment)
	router.Get("/payment-methods", h.paymentMethods)
}
