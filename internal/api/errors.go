package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5"

	"eventbooking/internal/fault"
)

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func WriteError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(ErrorEnvelope{
		Error: APIError{Code: code, Message: message},
	})
}

// WriteFault maps a workflow error to its HTTP shape. Fault kinds carry their
// wire code; pgx.ErrNoRows means a referenced row is missing.
func WriteFault(w http.ResponseWriter, err error) {
	var fe *fault.Error
	if errors.As(err, &fe) {
		WriteError(w, statusFor(fe.Kind), string(fe.Kind), fe.Message)
		return
	}
	if errors.Is(err, pgx.ErrNoRows) {
		WriteError(w, http.StatusNotFound, string(fault.KindNotFound), "resource not found")
		return
	}
	WriteError(w, http.StatusInternalServerError, string(fault.KindInternal), "internal error")
}

func statusFor(k fault.Kind) int {
	switch k {
	case fault.KindNotFound:
		return http.StatusNotFound
	case fault.KindValidation:
		return http.StatusBadRequest
	case fault.KindConflict, fault.KindInvalidTransition:
		return http.StatusConflict
	case fault.KindPreconditionFailed:
		return http.StatusPreconditionFailed
	default:
		return http.StatusInternalServerError
	}
}

// WriteJSON is the success counterpart of WriteFault.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
