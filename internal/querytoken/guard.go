// Package querytoken implements a static shared-secret check attached to a
// group of routes or a whole application.
package querytoken

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/dmitrijs2005/apiapp/internal/common"
)

// DefaultToken is the value the demo applications expect.
const DefaultToken = "portalgun"

// ParamName is the query parameter (and fallback header) carrying the token.
const ParamName = "token"

// Check returns common.ErrInvalidQueryToken unless r presents expected.
// The query parameter wins over the header when both are present.
func Check(r *http.Request, expected string) error {
	presented := r.URL.Query().Get(ParamName)
	if presented == "" {
		presented = r.Header.Get(ParamName)
	}
	if presented == "" || expected == "" {
		return common.ErrInvalidQueryToken
	}
	if subtle.ConstantTimeCompare([]byte(presented), []byte(expected)) != 1 {
		return common.ErrInvalidQueryToken
	}
	return nil
}

// Guard rejects requests that fail Check with 400 {"detail":"Invalid query token"}.
func Guard(expected string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := Check(r, expected); err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusBadRequest)
				_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Invalid query token"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
