package http

import (
	"encoding/json"
	"net/http"

	"github.com/campuskit/enroll/internal/enroll/service"
	"github.com/campuskit/enroll/pkg/httpx"
)

// BootstrapHandler creates the first admin identity. The shared secret
// travels in a header so it never lands in access logs alongside the body.
type BootstrapHandler struct {
	BootstrapService *service.BootstrapService
}

type bootstrapRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *BootstrapHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get("X-Bootstrap-Token")

	var req bootstrapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	summary, err := h.BootstrapService.Bootstrap(r.Context(), token, req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, summary)
}
