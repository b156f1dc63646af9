package http

import (
	"encoding/json"
	"net/http"

	"github.com/campuskit/enroll/internal/enroll/domain"
	"github.com/campuskit/enroll/internal/enroll/service"
	"github.com/campuskit/enroll/pkg/httpx"
)

// IdentitiesHandler serves administrative identity operations. Role changes
// are the explicit elevation path; registration never takes a role.
type IdentitiesHandler struct {
	AuthService *service.AuthService
}

type roleChangeRequest struct {
	Role string `json:"role"`
}

func (h *IdentitiesHandler) HandleSetRole(w http.ResponseWriter, r *http.Request) {
	var req roleChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	summary, err := h.AuthService.SetRole(r.Context(), r.PathValue("id"), domain.Role(req.Role))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, summary)
}
