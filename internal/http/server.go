// Package http serves the dashboard: login flow, the sheet index and the
// per-sheet report pages, rendered server-side from embedded templates.
package http

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"remape/internal/auth"
	"remape/internal/core"
	"remape/internal/log"
	"remape/internal/services"
	appweb "remape/web"
)

type Server struct {
	http.Server

	templates *template.Template
	auth      *auth.Service
	reports   *services.ReportService
	tokenTTL  time.Duration
	logger    *log.Logger

	loginLimiter *rateLimiter
}

type kindKey struct{}

// NewServer wires routes, middleware and templates into a ready-to-run
// server.
func NewServer(addr string, authSvc *auth.Service, reports *services.ReportService, tokenTTL time.Duration, logger *log.Logger) *Server {
	s := &Server{
		auth:     authSvc,
		reports:  reports,
		tokenTTL: tokenTTL,
		logger:   logger,
		// 10 attempts per minute per IP on the login form.
		loginLimiter: newRateLimiter(10, time.Minute),
	}

	funcs := template.FuncMap{
		"brl": core.FormatBRL,
	}
	s.templates = template.Must(
		template.New("").Funcs(funcs).ParseFS(appweb.TemplatesFS, "templates/*.html"))

	r := chi.NewRouter()
	r.Use(requestLogger(logger), securityHeaders)

	r.Get("/healthz", handleHealth)
	r.Get("/readyz", handleReady)

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		r.Get("/static/*", func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600")
			static.ServeHTTP(w, req)
		})
	} else {
		logger.Error("Failed to mount embedded static FS", "error", err)
	}

	r.Get("/login", s.handleLoginPage)
	r.With(s.loginLimiter.middleware).Post("/login", s.handleLoginSubmit)
	r.Get("/logout", s.handleLogout)

	session := auth.SessionMiddleware(authSvc)
	r.With(session).Get("/", s.handleIndex)
	// requireKind runs before the session check so an unknown sheet name
	// is a 404 regardless of authentication state.
	r.With(s.requireKind, session).Get("/sheet/{kind}", s.handleSheet)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// requireKind resolves the {kind} path segment against the fixed sheet
// set and stores the result in the context. Unknown names are 404.
func (s *Server) requireKind(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		kind, ok := core.ParseKind(chi.URLParam(r, "kind"))
		if !ok {
			http.NotFound(w, r)
			return
		}
		ctx := context.WithValue(r.Context(), kindKey{}, kind)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func kindFromContext(ctx context.Context) core.Kind {
	kind, _ := ctx.Value(kindKey{}).(core.Kind)
	return kind
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
