package http

import (
	"net/http"
	"time"
)

// renewalCookieName carries the renewal token. The cookie is httpOnly and
// SameSite=Strict so script can never read it and cross-site requests never
// send it.
const renewalCookieName = "enroll_renewal"

// renewalCookiePath scopes the cookie to the auth endpoints so it is not
// attached to every API call.
const renewalCookiePath = "/v1/auth"

func setRenewalCookie(w http.ResponseWriter, token string, expires time.Time, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     renewalCookieName,
		Value:    token,
		Path:     renewalCookiePath,
		Expires:  expires,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func clearRenewalCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     renewalCookieName,
		Value:    "",
		Path:     renewalCookiePath,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}
