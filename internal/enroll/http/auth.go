package http

import (
	"encoding/json"
	"net/http"

	"github.com/campuskit/enroll/internal/enroll/domain"
	"github.com/campuskit/enroll/internal/enroll/service"
	"github.com/campuskit/enroll/pkg/httpx"
)

// AuthHandler serves registration, login, token renewal, logout, and the
// authenticated self view.
type AuthHandler struct {
	AuthService  *service.AuthService
	TokenService *service.TokenService

	// SecureCookies should be true whenever the service sits behind TLS.
	SecureCookies bool
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// authResponse is the body register and login return. The renewal token is
// deliberately absent; it only travels in the cookie.
type authResponse struct {
	ID          string      `json:"id"`
	Email       string      `json:"email"`
	Role        domain.Role `json:"role"`
	AccessToken string      `json:"accessToken"`
	ExpiresIn   int64       `json:"expiresIn"`
}

func (h *AuthHandler) respondWithPair(w http.ResponseWriter, code int, summary domain.IdentitySummary, pair *domain.TokenPair) {
	setRenewalCookie(w, pair.RenewalToken, pair.RenewalExpiresAt, h.SecureCookies)
	httpx.NoCache(w)
	httpx.WriteJSON(w, code, authResponse{
		ID:          summary.ID,
		Email:       summary.Email,
		Role:        summary.Role,
		AccessToken: pair.AccessToken,
		ExpiresIn:   int64(pair.AccessExpiresIn.Seconds()),
	})
}

func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	summary, pair, err := h.AuthService.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	h.respondWithPair(w, http.StatusCreated, summary, pair)
}

func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	summary, pair, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	h.respondWithPair(w, http.StatusOK, summary, pair)
}

// HandleRefresh rotates the renewal token from the cookie and returns a new
// access token. No bearer token is required; an expired access token is the
// whole point of calling this.
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(renewalCookieName)
	if err != nil || cookie.Value == "" {
		writeMessage(w, http.StatusUnauthorized, "missing renewal token")
		return
	}

	pair, identity, err := h.TokenService.Renew(r.Context(), cookie.Value)
	if err != nil {
		clearRenewalCookie(w, h.SecureCookies)
		writeServiceError(w, r, err)
		return
	}
	h.respondWithPair(w, http.StatusOK, identity.Summary(), pair)
}

func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(renewalCookieName); err == nil && cookie.Value != "" {
		if err := h.TokenService.Revoke(r.Context(), cookie.Value); err != nil {
			writeServiceError(w, r, err)
			return
		}
	}
	clearRenewalCookie(w, h.SecureCookies)
	writeMessage(w, http.StatusOK, "logged out")
}

type passwordChangeRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// HandlePassword rotates the caller's password. All renewal tokens die with
// the old password, so the cookie is cleared too; the client keeps its
// current access token until it expires.
func (h *AuthHandler) HandlePassword(w http.ResponseWriter, r *http.Request) {
	identityID := httpx.UserIDFromCtx(r.Context())
	if identityID == "" {
		writeMessage(w, http.StatusUnauthorized, "missing access token")
		return
	}

	var req passwordChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.AuthService.ChangePassword(r.Context(), identityID, req.CurrentPassword, req.NewPassword); err != nil {
		writeServiceError(w, r, err)
		return
	}
	clearRenewalCookie(w, h.SecureCookies)
	writeMessage(w, http.StatusOK, "password changed")
}

func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	identityID := httpx.UserIDFromCtx(r.Context())
	if identityID == "" {
		writeMessage(w, http.StatusUnauthorized, "missing access token")
		return
	}

	summary, err := h.AuthService.Me(r.Context(), identityID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, summary)
}
