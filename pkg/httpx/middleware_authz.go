package httpx

import "net/http"

// RequireRole denies the request with 403 unless the authenticated caller's
// role is one of the listed roles. This is deliberately distinct from the
// 401 that AuthnMiddleware produces: here we know who the caller is, they
// just may not do this.
func RequireRole(allowed ...string) Middleware {
	want := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		want[role] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			have := RoleFromCtx(r.Context())
			if _, ok := want[have]; ok {
				next.ServeHTTP(w, r)
				return
			}

			WriteJSON(w, http.StatusForbidden, map[string]string{
				"message": "forbidden: insufficient role",
			})
		})
	}
}
