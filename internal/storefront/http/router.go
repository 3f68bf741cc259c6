package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/merchantry/storefront/internal/storefront/domain"
	"github.com/merchantry/storefront/internal/storefront/service"
	"github.com/merchantry/storefront/internal/storefront/store"
	"github.com/merchantry/storefront/pkg/httpx"
	"github.com/merchantry/storefront/pkg/slogx"
)

// Router holds the shared dependencies for HTTP handlers and wires routes
// to their middleware chains. Throttle limiters are injected rather than
// process-global so each test can run against a fresh instance.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store         store.Store
	authenticator *service.Authenticator

	AuthService    *service.AuthService
	UserService    *service.UserService
	ProductService *service.ProductService

	// LoginLimiter throttles credential endpoints; APILimiter covers the
	// rest. Both key on client IP and run before any credential check.
	LoginLimiter *httpx.RateLimiter
	APILimiter   *httpx.RateLimiter
}

func NewRouter(
	buildVersion string,
	st store.Store,
	authn *service.Authenticator,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:           http.NewServeMux(),
		buildVersion:  buildVersion,
		startTime:     time.Now(),
		logger:        logger,
		store:         st,
		authenticator: authn,
		LoginLimiter:  httpx.NewRateLimiter(httpx.AuthLimit),
		APILimiter:    httpx.NewRateLimiter(httpx.APILimit),
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerUsers()
	r.registerProducts()
	r.registerSystem()
}

// ServeHTTP implements http.Handler and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{AuthService: r.AuthService}

	// Login-class endpoints get the strict limiter: it runs before any
	// credential check so it also throttles enumeration attempts.
	r.Mux.Handle("POST /v1/auth/register",
		httpx.Chain(http.HandlerFunc(h.HandleRegister),
			r.LoginLimiter.ByIP(),
		),
	)
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			r.LoginLimiter.ByIP(),
		),
	)
	r.Mux.Handle("POST /v1/auth/forgot-password",
		httpx.Chain(http.HandlerFunc(h.HandleForgotPassword),
			r.LoginLimiter.ByIP(),
		),
	)
	r.Mux.Handle("POST /v1/auth/reset-password",
		httpx.Chain(http.HandlerFunc(h.HandleResetPassword),
			r.LoginLimiter.ByIP(),
		),
	)

	r.Mux.Handle("POST /v1/auth/refresh",
		httpx.Chain(http.HandlerFunc(h.HandleRefresh),
			r.APILimiter.ByIP(),
		),
	)
	r.Mux.Handle("POST /v1/auth/verify-email",
		httpx.Chain(http.HandlerFunc(h.HandleVerifyEmail),
			r.APILimiter.ByIP(),
		),
	)

	// Authenticated credential management. RequireAuth must come first in
	// each chain; the handlers read the resolved identity off the context.
	r.Mux.Handle("POST /v1/auth/change-password",
		httpx.Chain(http.HandlerFunc(h.HandleChangePassword),
			r.APILimiter.ByIP(),
			RequireAuth(r.authenticator),
		),
	)
	r.Mux.Handle("POST /v1/auth/resend-verification",
		httpx.Chain(http.HandlerFunc(h.HandleResendVerification),
			r.APILimiter.ByIP(),
			RequireAuth(r.authenticator),
		),
	)
	r.Mux.Handle("GET /v1/me",
		httpx.Chain(http.HandlerFunc(h.HandleMe),
			r.APILimiter.ByIP(),
			RequireAuth(r.authenticator),
		),
	)
}

func (r *Router) registerUsers() {
	h := &UsersHandler{UserService: r.UserService}

	r.Mux.Handle("GET /v1/users",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			r.APILimiter.ByIP(),
			RequireAuth(r.authenticator),
			RequireRole(domain.RoleAdmin),
		),
	)
	r.Mux.Handle("POST /v1/users/{id}/deactivate",
		httpx.Chain(http.HandlerFunc(h.HandleDeactivate),
			r.APILimiter.ByIP(),
			RequireAuth(r.authenticator),
			RequireRole(domain.RoleAdmin),
		),
	)
}

func (r *Router) registerProducts() {
	h := &ProductsHandler{ProductService: r.ProductService}

	// Public reads, personalized when a valid token is presented.
	r.Mux.Handle("GET /v1/products",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			r.APILimiter.ByIP(),
			OptionalAuth(r.authenticator),
		),
	)
	r.Mux.Handle("GET /v1/products/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			r.APILimiter.ByIP(),
			OptionalAuth(r.authenticator),
		),
	)

	// Catalog writes are admin-only.
	r.Mux.Handle("POST /v1/products",
		httpx.Chain(http.HandlerFunc(h.HandleCreate),
			r.APILimiter.ByIP(),
			RequireAuth(r.authenticator),
			RequireRole(domain.RoleAdmin),
		),
	)
	r.Mux.Handle("PUT /v1/products/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleUpdate),
			r.APILimiter.ByIP(),
			RequireAuth(r.authenticator),
			RequireRole(domain.RoleAdmin),
		),
	)
	r.Mux.Handle("DELETE /v1/products/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleDelete),
			r.APILimiter.ByIP(),
			RequireAuth(r.authenticator),
			RequireRole(domain.RoleAdmin),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			r.APILimiter.ByIP(),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			r.APILimiter.ByIP(),
		),
	)
}
