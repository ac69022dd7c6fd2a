package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/apiapp/internal/common"
)

// errorBody is the JSON shape of every failed response.
type errorBody struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

func writeErrorMessage(w http.ResponseWriter, status int, detail string) {
	_ = writeJSON(w, status, errorBody{Detail: detail})
}

// statusFor maps an error to the response status and the message shown to
// the client. Unknown errors become a bare 500; the caller logs the cause.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrInvalidCredentials):
		return http.StatusBadRequest, "Incorrect email or password"
	case errors.Is(err, common.ErrInvalidQueryToken):
		return http.StatusBadRequest, "Invalid query token"
	case errors.Is(err, common.ErrDuplicateEmail):
		return http.StatusBadRequest, "Email already registered"
	case errors.Is(err, common.ErrNotAuthenticated):
		return http.StatusForbidden, "Not authenticated"
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrTokenExpired):
		return http.StatusForbidden, "Could not validate credentials"
	case errors.Is(err, common.ErrNotSuperuser):
		return http.StatusForbidden, "The user doesn't have enough privileges"
	case errors.Is(err, common.ErrNotFound), errors.Is(err, common.ErrUnknownOwner):
		return http.StatusNotFound, "User not found"
	case errors.Is(err, common.ErrValidation):
		return http.StatusUnprocessableEntity, err.Error()
	default:
		return http.StatusInternalServerError, "Internal Server Error"
	}
}
