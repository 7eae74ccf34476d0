package routes

import (
	"context"
	"net/http"
	"time"

	"empresspc/auth"
	"empresspc/handlers"
	"empresspc/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/unrolled/secure"
	"go.uber.org/zap"
)

type Handlers struct {
	Users      *handlers.UserHandler
	Quotations *handlers.QuotationHandler
	Parties    *handlers.PartyHandler
	Components *handlers.ComponentHandler
	Initial    *handlers.InitialHandler
	PDF        *handlers.PDFHandler
}

type Options struct {
	Auth       handlers.Authenticator
	Enforcer   *auth.Enforcer
	Log        *zap.Logger
	Metrics    *metrics.Metrics
	Gatherer   prometheus.Gatherer
	CORSOrigin string
	Production bool
	// LoginRate is the number of login attempts allowed per IP per minute.
	LoginRate int
	// Ping reports whether the store is reachable. Nil means always healthy.
	Ping func(ctx context.Context) error
}

// CORS middleware
func withCORS(origin string) func(http.Handler) http.Handler {
	if origin == "" {
		origin = "*"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Expose-Headers", "X-PDF-URL")

			// Handle preflight request
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func SetupRoutes(h Handlers, opts Options) http.Handler {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	loginRate := opts.LoginRate
	if loginRate <= 0 {
		loginRate = 10
	}

	secureMiddleware := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
		SSLProxyHeaders:    map[string]string{"X-Forwarded-Proto": "https"},
		IsDevelopment:      !opts.Production,
	})

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(handlers.RecoverWrapper(log))
	r.Use(handlers.RequestLogger(log, opts.Metrics))
	r.Use(secureMiddleware.Handler)
	r.Use(withCORS(opts.CORSOrigin))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if opts.Ping != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := opts.Ping(ctx); err != nil {
				log.Warn("health check failed", zap.Error(err))
				http.Error(w, "unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	authn := handlers.Authenticate(opts.Auth, log)
	can := func(object, action string) func(http.Handler) http.Handler {
		return handlers.Require(opts.Enforcer, object, action, log)
	}

	// User routes
	r.Route("/auth", func(r chi.Router) {
		r.With(httprate.Limit(loginRate, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP))).
			Post("/login", h.Users.Login)

		r.Group(func(r chi.Router) {
			r.Use(authn)
			r.With(can(auth.ObjectProfile, auth.ActionRead)).Get("/me", h.Users.Me)
			r.With(can(auth.ObjectProfile, auth.ActionRead)).Post("/change-password", h.Users.ChangePassword)
			r.Post("/logout", h.Users.Logout)

			r.With(can(auth.ObjectUser, auth.ActionWrite)).Post("/register", h.Users.Register)
			r.With(can(auth.ObjectUser, auth.ActionRead)).Get("/users", h.Users.ListUsers)
			r.With(can(auth.ObjectUser, auth.ActionWrite)).Put("/users/{id}", h.Users.UpdateUser)
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(authn)

		r.Route("/quotations", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(can(auth.ObjectQuotation, auth.ActionRead))
				r.Get("/", h.Quotations.List)
				r.Get("/stats/summary", h.Quotations.Summary)
				r.Get("/revisions/{id}", h.Quotations.Revisions)
				r.Get("/{id}", h.Quotations.Get)
				r.Get("/{id}/pdf", h.PDF.QuotationPDF)
			})
			r.Group(func(r chi.Router) {
				r.Use(can(auth.ObjectQuotation, auth.ActionWrite))
				r.Post("/", h.Quotations.Create)
				r.Put("/{id}", h.Quotations.Update)
				r.Delete("/{id}", h.Quotations.Delete)
				r.Post("/{id}/revise", h.Quotations.Revise)
				r.Patch("/{id}/status", h.Quotations.UpdateStatus)
			})
		})

		r.Route("/parties", func(r chi.Router) {
			r.With(can(auth.ObjectParty, auth.ActionRead)).Get("/", h.Parties.List)
			r.With(can(auth.ObjectParty, auth.ActionRead)).Get("/{id}", h.Parties.Get)
			r.Group(func(r chi.Router) {
				r.Use(can(auth.ObjectParty, auth.ActionWrite))
				r.Post("/", h.Parties.Create)
				r.Put("/{id}", h.Parties.Update)
				r.Delete("/{id}", h.Parties.Delete)
			})
		})

		r.Route("/components", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(can(auth.ObjectComponent, auth.ActionRead))
				r.Get("/", h.Components.List)
				r.Get("/categories", h.Components.Categories)
				r.Get("/{id}", h.Components.Get)
			})
			r.Group(func(r chi.Router) {
				r.Use(can(auth.ObjectComponent, auth.ActionWrite))
				r.Post("/", h.Components.Create)
				r.Post("/bulk-import", h.Components.BulkImport)
				r.Put("/{id}", h.Components.Update)
				r.Delete("/{id}", h.Components.Delete)
			})
		})

		// Initial setup routes
		r.With(can(auth.ObjectProfile, auth.ActionRead)).Get("/initial", h.Initial.GetInitial)
		r.With(can(auth.ObjectProfile, auth.ActionWrite)).Post("/initial", h.Initial.SaveInitial)
	})

	return r
}
