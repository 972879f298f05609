package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/openretail/pos-register/internal/domain/catalog"
	"github.com/openretail/pos-register/internal/domain/register"
)

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	var cart register.Cart
	_ = h.withSession(r, func(s *register.Session) error {
		cart = s.Cart()
		return nil
	})
	respondJSON(w, r, http.StatusOK, toCartView(cart))
}

// addItem resolves a product by ID or by scan query, then adds it to the
// cart. The resolved product snapshot carries the stock bound the engine
// enforces.
func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID string `json:"productId"`
		Query     string `json:"query"`
		Quantity  int    `json:"quantity"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	p, err := h.resolveProduct(r, req.ProductID, req.Query)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	var cart register.Cart
	err = h.withSession(r, func(s *register.Session) error {
		if err := s.AddItem(r.Context(), *p, req.Quantity); err != nil {
			return err
		}
		cart = s.Cart()
		return nil
	})
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, toCartView(cart))
}

func (h *Handler) resolveProduct(r *http.Request, productID, query string) (*catalog.Product, error) {
	if productID != "" {
		return h.catalog.GetByID(r.Context(), productID)
	}
	matches, err := h.catalog.Search(r.Context(), query)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, catalog.ErrNotFound
	}
	return &matches[0], nil
}

func (h *Handler) updateQuantity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Quantity int `json:"quantity"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	productID := chi.URLParam(r, "productID")

	h.mutateCart(w, r, func(s *register.Session) error {
		return s.UpdateQuantity(r.Context(), productID, req.Quantity)
	})
}

func (h *Handler) updateDiscount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Percent float64 `json:"percent"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	productID := chi.URLParam(r, "productID")

	h.mutateCart(w, r, func(s *register.Session) error {
		return s.UpdateDiscount(productID, decimal.NewFromFloat(req.Percent))
	})
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")
	h.mutateCart(w, r, func(s *register.Session) error {
		s.RemoveItem(productID)
		return nil
	})
}

func (h *Handler) setCustomer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CustomerID string `json:"customerId"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	h.mutateCart(w, r, func(s *register.Session) error {
		s.SetCustomer(r.Context(), req.CustomerID)
		return nil
	})
}

func (h *Handler) setGlobalDiscount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Percent float64 `json:"percent"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	h.mutateCart(w, r, func(s *register.Session) error {
		return s.SetGlobalDiscount(decimal.NewFromFloat(req.Percent))
	})
}

func (h *Handler) setPaymentMethod(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Method string `json:"method"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	method, err := register.ParseMethod(req.Method)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	h.mutateCart(w, r, func(s *register.Session) error {
		s.SetPaymentMethod(method)
		return nil
	})
}

func (h *Handler) setTenderAmount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Channel string  `json:"channel"`
		Amount  float64 `json:"amount"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	channel, err := register.ParseChannel(req.Channel)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	h.mutateCart(w, r, func(s *register.Session) error {
		return s.SetTenderAmount(channel, decimal.NewFromFloat(req.Amount))
	})
}

func (h *Handler) setReference(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Reference string `json:"reference"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	h.mutateCart(w, r, func(s *register.Session) error {
		s.SetReference(req.Reference)
		return nil
	})
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	h.mutateCart(w, r, func(s *register.Session) error {
		s.Clear()
		return nil
	})
}

// mutateCart applies op to the request's session and responds with the
// resulting cart, or with the mapped domain error when op rejects.
func (h *Handler) mutateCart(w http.ResponseWriter, r *http.Request, op func(*register.Session) error) {
	var cart register.Cart
	err := h.withSession(r, func(s *register.Session) error {
		if err := op(s); err != nil {
			return err
		}
		cart = s.Cart()
		return nil
	})
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, toCartView(cart))
}

func (h *Handler) holdSale(w http.ResponseWriter, r *http.Request) {
	var sale *register.Sale
	err := h.withSession(r, func(s *register.Session) error {
		held, err := s.Hold(r.Context())
		if err != nil {
			return err
		}
		sale = held
		return nil
	})
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, toSaleView(*sale))
}

func (h *Handler) listHeld(w http.ResponseWriter, r *http.Request) {
	var held []register.Sale
	_ = h.withSession(r, func(s *register.Session) error {
		held = s.Held()
		return nil
	})

	views := make([]saleView, len(held))
	for i, s := range held {
		views[i] = toSaleView(s)
	}
	respondJSON(w, r, http.StatusOK, views)
}

func (h *Handler) resumeSale(w http.ResponseWriter, r *http.Request) {
	saleID := chi.URLParam(r, "saleID")
	h.mutateCart(w, r, func(s *register.Session) error {
		return s.Resume(r.Context(), saleID)
	})
}

func (h *Handler) completeSale(w http.ResponseWriter, r *http.Request) {
	var sale *register.Sale
	err := h.withSession(r, func(s *register.Session) error {
		done, err := s.Complete(r.Context())
		if err != nil {
			return err
		}
		sale = done
		return nil
	})
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, toSaleView(*sale))
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	var (
		products []catalog.Product
		err      error
	)
	if q := r.URL.Query().Get("q"); q != "" {
		products, err = h.catalog.Search(r.Context(), q)
	} else {
		products, err = h.catalog.List(r.Context())
	}
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	views := make([]productView, len(products))
	for i, p := range products {
		views[i] = toProductView(p)
	}
	respondJSON(w, r, http.StatusOK, views)
}

func (h *Handler) listCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.customers.List(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	views := make([]customerView, len(customers))
	for i, c := range customers {
		views[i] = toCustomerView(c)
	}
	respondJSON(w, r, http.StatusOK, views)
}

func (h *Handler) listSales(w http.ResponseWriter, r *http.Request) {
	sales, err := h.history.List(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	views := make([]saleView, len(sales))
	for i, s := range sales {
		views[i] = toSaleView(s)
	}
	respondJSON(w, r, http.StatusOK, views)
}
