package handler

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"

	"github.com/openretail/pos-register/internal/domain/auth"
)

type terminalKeyCtx struct{}

// CashierFromContext returns the cashier bound to the authenticated terminal
// key, or an empty string for unauthenticated requests.
func CashierFromContext(ctx context.Context) string {
	if k, ok := ctx.Value(terminalKeyCtx{}).(*auth.TerminalKey); ok {
		return k.Cashier
	}
	return ""
}

// TerminalAuth returns a middleware that authenticates requests via the
// X-Terminal-Key header. The key is HMAC-SHA256 hashed with the configured
// pepper, looked up in the repository, and compared in constant time.
func TerminalAuth(keys auth.Repository, pepper []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get("X-Terminal-Key")
			if key == "" {
				respondError(w, r, http.StatusUnauthorized, "missing terminal key")
				return
			}

			mac := hmac.New(sha256.New, pepper)
			mac.Write([]byte(key))
			hash := mac.Sum(nil)

			info, err := keys.FindByHash(r.Context(), hex.EncodeToString(hash))
			if err != nil {
				respondError(w, r, http.StatusUnauthorized, "unauthorized")
				return
			}

			// Constant-time compare guards against a repository returning a
			// stale or wrong row.
			stored, err := hex.DecodeString(info.KeyHash)
			if err != nil || subtle.ConstantTimeCompare(hash, stored) != 1 {
				respondError(w, r, http.StatusUnauthorized, "unauthorized")
				return
			}

			ctx := context.WithValue(r.Context(), terminalKeyCtx{}, info)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
