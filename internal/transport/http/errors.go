package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"accountd/internal/domain"
	impl "accountd/internal/service/impl"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeAuthError maps the expected error kinds onto 4xx responses and keeps
// everything else a 5xx. No error from the service layer escapes unmapped.
func writeAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrDuplicateEmail),
		errors.Is(err, domain.ErrDuplicateUsername),
		errors.Is(err, domain.ErrAlreadyVerified):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrAccountNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrAccountNotVerified):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrTokenInvalid),
		errors.Is(err, domain.ErrTokenExpired):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrCodeExpired):
		writeError(w, http.StatusGone, err.Error())
	case errors.Is(err, domain.ErrInvalidCode),
		errors.Is(err, impl.ErrEmptyCredential),
		errors.Is(err, impl.ErrEmptyEmail),
		errors.Is(err, impl.ErrEmptyPassword),
		errors.Is(err, impl.ErrPasswordLength):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrStorageUnavailable):
		writeError(w, http.StatusServiceUnavailable, domain.ErrStorageUnavailable.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
