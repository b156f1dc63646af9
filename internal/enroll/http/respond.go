package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/campuskit/enroll/internal/enroll/domain"
	"github.com/campuskit/enroll/internal/enroll/service"
	"github.com/campuskit/enroll/internal/enroll/store"
	"github.com/campuskit/enroll/pkg/httpx"
	"github.com/campuskit/enroll/pkg/slogx"
)

// messageResponse is the uniform error envelope.
type messageResponse struct {
	Message string `json:"message"`
}

func writeMessage(w http.ResponseWriter, code int, msg string) {
	httpx.WriteJSON(w, code, messageResponse{Message: msg})
}

type errorDetailKey struct{}

// withErrorDetails lets 500 bodies carry the underlying error text. Enabled
// only in dev; production clients get the generic message and the detail
// stays in the log.
func withErrorDetails(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		ctx := context.WithValue(req.Context(), errorDetailKey{}, true)
		next.ServeHTTP(w, req.WithContext(ctx))
	})
}

// writeServiceError maps service sentinels onto HTTP statuses. Anything not
// recognized is a 500 with a generic body; the real error only goes to the
// log.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *domain.ValidationError

	switch {
	case errors.As(err, &ve):
		writeMessage(w, http.StatusBadRequest, ve.Message)
	case errors.Is(err, domain.ErrValidation):
		writeMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrWeakPassword):
		writeMessage(w, http.StatusBadRequest, "password must be at least 6 characters")
	case errors.Is(err, service.ErrUnknownRole):
		writeMessage(w, http.StatusBadRequest, "unknown role")
	case errors.Is(err, service.ErrInvalidCredentials):
		writeMessage(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, service.ErrInvalidRenewal):
		writeMessage(w, http.StatusUnauthorized, "invalid renewal token")
	case errors.Is(err, service.ErrBootstrapUnauthorized):
		writeMessage(w, http.StatusUnauthorized, "invalid bootstrap token")
	case errors.Is(err, service.ErrStudentNotFound):
		writeMessage(w, http.StatusNotFound, "student not found")
	case errors.Is(err, store.ErrNotFound):
		writeMessage(w, http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrEmailTaken):
		writeMessage(w, http.StatusConflict, "email already registered")
	case errors.Is(err, service.ErrStudentIDTaken):
		writeMessage(w, http.StatusConflict, "student ID already exists")
	case errors.Is(err, service.ErrStudentEmail):
		writeMessage(w, http.StatusConflict, "student email already exists")
	case errors.Is(err, service.ErrBootstrapAlready):
		writeMessage(w, http.StatusConflict, "system already bootstrapped")
	default:
		slogx.FromContext(r.Context()).Error("request failed", "err", err)
		msg := "internal server error"
		if detail, _ := r.Context().Value(errorDetailKey{}).(bool); detail {
			msg = err.Error()
		}
		writeMessage(w, http.StatusInternalServerError, msg)
	}
}
