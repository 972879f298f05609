package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/openretail/pos-register/internal/domain/catalog"
	"github.com/openretail/pos-register/internal/domain/register"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zctx.From(r.Context()).Error("encode response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, r *http.Request, status int, message string) {
	respondJSON(w, r, status, errorBody{Code: status, Message: message})
}

// respondDomainError maps register and catalog errors to HTTP statuses.
// Every rejection the core can produce is locally recoverable, so all of
// these leave the session editable.
func respondDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		stockErr *register.StockError
		rangeErr *register.InvalidRangeError
		payErr   *register.InsufficientPaymentError
		nfErr    *register.SaleNotFoundError
	)
	switch {
	case errors.As(err, &stockErr),
		errors.As(err, &payErr):
		respondError(w, r, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &rangeErr),
		errors.Is(err, register.ErrInvalidQuantity),
		errors.Is(err, register.ErrNegativeTender),
		errors.Is(err, register.ErrEmptyCart):
		respondError(w, r, http.StatusBadRequest, err.Error())
	case errors.As(err, &nfErr),
		errors.Is(err, register.ErrLineNotFound),
		errors.Is(err, catalog.ErrNotFound):
		respondError(w, r, http.StatusNotFound, err.Error())
	default:
		zctx.From(r.Context()).Error("register operation failed", zap.Error(err))
		respondError(w, r, http.StatusInternalServerError, "internal error")
	}
}
