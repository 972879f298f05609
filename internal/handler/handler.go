// Package handler exposes the register core over HTTP. It is a thin
// translation layer: JSON in, session operation, JSON out — all pricing and
// lifecycle rules live in the register package.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/openretail/pos-register/internal/domain/catalog"
	"github.com/openretail/pos-register/internal/domain/customer"
	"github.com/openretail/pos-register/internal/domain/register"
)

// defaultRegisterID is used when a request carries no X-Register-ID header,
// so a single-terminal deployment works with zero client configuration.
const defaultRegisterID = "register-1"

// Handler serves the register API.
type Handler struct {
	catalog   catalog.Repository
	customers customer.Repository
	history   register.HistoryRepository
	sessions  *SessionManager
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(
	cat catalog.Repository,
	customers customer.Repository,
	history register.HistoryRepository,
	sessions *SessionManager,
) *Handler {
	return &Handler{
		catalog:   cat,
		customers: customers,
		history:   history,
		sessions:  sessions,
	}
}

// Routes mounts all register API endpoints on a fresh chi router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/cart", func(r chi.Router) {
		r.Get("/", h.getCart)
		r.Post("/items", h.addItem)
		r.Put("/items/{productID}", h.updateQuantity)
		r.Put("/items/{productID}/discount", h.updateDiscount)
		r.Delete("/items/{productID}", h.removeItem)
		r.Put("/customer", h.setCustomer)
		r.Put("/discount", h.setGlobalDiscount)
		r.Put("/payment", h.setPaymentMethod)
		r.Put("/tender", h.setTenderAmount)
		r.Put("/reference", h.setReference)
		r.Post("/clear", h.clearCart)
		r.Post("/hold", h.holdSale)
		r.Get("/held", h.listHeld)
		r.Post("/held/{saleID}/resume", h.resumeSale)
		r.Post("/complete", h.completeSale)
	})

	r.Get("/products", h.listProducts)
	r.Get("/customers", h.listCustomers)
	r.Get("/sales", h.listSales)

	return r
}

// registerID identifies the terminal a request belongs to.
func registerID(r *http.Request) string {
	if id := r.Header.Get("X-Register-ID"); id != "" {
		return id
	}
	return defaultRegisterID
}

// withSession runs fn on the request's register session, serialized per
// terminal.
func (h *Handler) withSession(r *http.Request, fn func(*register.Session) error) error {
	return h.sessions.With(registerID(r), CashierFromContext(r.Context()), fn)
}
