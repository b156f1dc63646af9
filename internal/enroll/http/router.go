package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/cors"

	"github.com/campuskit/enroll/internal/enroll/service"
	"github.com/campuskit/enroll/internal/enroll/store"
	"github.com/campuskit/enroll/pkg/httpx"
	"github.com/campuskit/enroll/pkg/jwtx"
	"github.com/campuskit/enroll/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     *jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store store.Store

	AuthService      *service.AuthService
	TokenService     *service.TokenService
	StudentService   *service.StudentService
	BootstrapService *service.BootstrapService

	// SecureCookies should be true whenever the service sits behind TLS.
	SecureCookies bool

	// DevErrors exposes underlying error text in 500 bodies. Never enable
	// in production.
	DevErrors bool
}

func NewRouter(
	verifier *jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
	corsOrigins []string,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}
	if len(corsOrigins) > 0 {
		r.middlewares = append(r.middlewares, cors.Handler(cors.Options{
			AllowedOrigins:   corsOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Bootstrap-Token"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	return r
}

func (r *Router) ApplyRoutes() {
	if r.DevErrors {
		r.middlewares = append(r.middlewares, withErrorDetails)
	}

	r.registerAuth()
	r.registerStudents()
	r.registerIdentities()
	r.registerBootstrap()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{
		AuthService:   r.AuthService,
		TokenService:  r.TokenService,
		SecureCookies: r.SecureCookies,
	}

	// Credential endpoints get the strict profile to slow bruteforce.
	r.Mux.Handle("POST /v1/auth/register",
		httpx.Chain(http.HandlerFunc(h.HandleRegister),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// Renewal relies on the cookie, not a bearer token.
	r.Mux.Handle("POST /v1/auth/refresh",
		httpx.Chain(http.HandlerFunc(h.HandleRefresh),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("POST /v1/auth/logout",
		httpx.Chain(http.HandlerFunc(h.HandleLogout),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	r.Mux.Handle("GET /v1/auth/me",
		httpx.Chain(http.HandlerFunc(h.HandleMe),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)

	r.Mux.Handle("PUT /v1/auth/password",
		httpx.Chain(http.HandlerFunc(h.HandlePassword),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerStudents() {
	h := &StudentsHandler{StudentService: r.StudentService}

	authedRead := func(next http.HandlerFunc) http.Handler {
		return httpx.Chain(next,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.LenientLimit),
		)
	}
	adminWrite := func(next http.HandlerFunc) http.Handler {
		return httpx.Chain(next,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireRole("admin"),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		)
	}

	// Reads are open to any authenticated identity; mutations are admin-only.
	r.Mux.Handle("GET /v1/students", authedRead(h.HandleList))
	r.Mux.Handle("GET /v1/students/profile", authedRead(h.HandleProfile))
	r.Mux.Handle("GET /v1/students/stats/overview", authedRead(h.HandleStats))
	r.Mux.Handle("GET /v1/students/{id}", authedRead(h.HandleGet))

	r.Mux.Handle("POST /v1/students", adminWrite(h.HandleCreate))
	r.Mux.Handle("PUT /v1/students/{id}", adminWrite(h.HandleUpdate))
	r.Mux.Handle("DELETE /v1/students/{id}", adminWrite(h.HandleDelete))
}

func (r *Router) registerIdentities() {
	h := &IdentitiesHandler{AuthService: r.AuthService}

	r.Mux.Handle("PUT /v1/identities/{id}/role",
		httpx.Chain(http.HandlerFunc(h.HandleSetRole),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireRole("admin"),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerBootstrap() {
	h := &BootstrapHandler{BootstrapService: r.BootstrapService}

	// One-time setup endpoint, strict limit by IP.
	r.Mux.Handle("POST /v1/bootstrap",
		httpx.Chain(h,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store, r.verifier))
}
