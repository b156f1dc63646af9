package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/campuskit/enroll/internal/enroll/domain"
	"github.com/campuskit/enroll/internal/enroll/service"
	"github.com/campuskit/enroll/pkg/httpx"
)

// StudentsHandler serves the student record CRUD, listing, self-profile, and
// dashboard stats.
type StudentsHandler struct {
	StudentService *service.StudentService
}

// parseListQuery reads the listing parameters. Malformed numbers are treated
// as absent rather than rejected; Normalize clamps the rest.
func parseListQuery(r *http.Request) domain.StudentQuery {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	return domain.StudentQuery{
		Search:  q.Get("search"),
		Status:  domain.StudentStatus(q.Get("status")),
		SortKey: q.Get("sortBy"),
		Page:    page,
		Limit:   limit,
	}
}

func (h *StudentsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	page, err := h.StudentService.List(r.Context(), parseListQuery(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, page)
}

func (h *StudentsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	student, err := h.StudentService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, student)
}

// HandleProfile resolves the caller's own student record by login email.
func (h *StudentsHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	email := httpx.EmailFromCtx(r.Context())
	if email == "" {
		writeMessage(w, http.StatusUnauthorized, "missing access token")
		return
	}

	student, err := h.StudentService.ProfileByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, service.ErrStudentNotFound) {
			writeMessage(w, http.StatusNotFound, "profile not found")
			return
		}
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, student)
}

func (h *StudentsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.StudentService.Stats(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, stats)
}

func (h *StudentsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var student domain.Student
	if err := json.NewDecoder(r.Body).Decode(&student); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.StudentService.Create(r.Context(), student)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, created)
}

func (h *StudentsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var student domain.Student
	if err := json.NewDecoder(r.Body).Decode(&student); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.StudentService.Update(r.Context(), r.PathValue("id"), student)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, updated)
}

func (h *StudentsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.StudentService.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "student deleted")
}
