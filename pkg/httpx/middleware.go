// Package httpx carries the HTTP plumbing shared by all handlers: JSON
// responses, middleware chaining, bearer-token authentication, role checks,
// and rate limiting.
package httpx

import "net/http"

type Middleware func(http.Handler) http.Handler

// Chain wraps h with the given middlewares. The first middleware listed is
// the outermost, so Chain(h, authn, authz) authenticates before authorizing.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
