package http

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"fintrack/internal/auth"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/middleware/ratelimit"
	"fintrack/internal/middleware/security"
	"fintrack/internal/middleware/trace"
	"fintrack/internal/services"
	appweb "fintrack/web"
)

const loginPath = "/login"

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators the server routes to.
type Deps struct {
	Ledger *services.LedgerService
	Goals  *services.GoalService
	Auth   *services.AuthService
	Issuer *auth.Issuer
	Store  Pinger
	Logger *log.Logger

	CookieSecure       bool
	RateLimitPerMinute int

	// Now defaults to time.Now; tests pin it.
	Now func() time.Time
}

type Server struct {
	http.Server

	ledger *services.LedgerService
	goals  *services.GoalService
	auth   *services.AuthService
	issuer *auth.Issuer
	store  Pinger
	logger *log.Logger

	pages        map[string]*template.Template
	cookieSecure bool
	now          func() time.Time

	rateLimiter      *ratelimit.Limiter
	securityDetector *security.Detector
	traceMiddleware  *trace.Middleware
	appMetrics       *appMetrics

	shutdownOnce sync.Once
}

// NewServer parses the embedded templates and wires routes and middleware.
func NewServer(addr string, deps Deps) (*Server, error) {
	if deps.Logger == nil {
		deps.Logger = log.New(log.DefaultConfig())
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	pages, err := parsePages(appweb.TemplatesFS)
	if err != nil {
		return nil, err
	}

	s := &Server{
		ledger:       deps.Ledger,
		goals:        deps.Goals,
		auth:         deps.Auth,
		issuer:       deps.Issuer,
		store:        deps.Store,
		logger:       deps.Logger.WithComponent(log.ComponentHTTP),
		pages:        pages,
		cookieSecure: deps.CookieSecure,
		now:          deps.Now,
		rateLimiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: deps.RateLimitPerMinute,
		}),
		securityDetector: security.NewDetector(deps.Logger),
		appMetrics:       newAppMetrics(deps.Now()),
	}
	s.traceMiddleware = trace.NewMiddleware(deps.Logger, s.securityDetector.ExtractClientIP)

	mux := http.NewServeMux()
	s.routes(mux)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.middleware(mux),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s, nil
}

func (s *Server) routes(mux *http.ServeMux) {
	public := s.issuer.Optional
	private := func(h http.HandlerFunc) http.Handler {
		return security.NoStore(s.issuer.Require(loginPath, h))
	}

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		s.logger.Warn("Failed to mount embedded static FS", log.FieldError, err)
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	mux.Handle("GET /{$}", public(http.HandlerFunc(s.handleWelcome)))
	mux.Handle("GET /signup", public(http.HandlerFunc(s.handleSignupForm)))
	mux.Handle("POST /signup", public(http.HandlerFunc(s.handleSignup)))
	mux.Handle("GET /login", public(http.HandlerFunc(s.handleLoginForm)))
	mux.Handle("POST /login", public(http.HandlerFunc(s.handleLogin)))
	mux.Handle("POST /logout", private(s.handleLogout))

	mux.Handle("GET /home", private(s.handleHome))
	mux.Handle("GET /entries/new", private(s.handleNewEntryForm))
	mux.Handle("POST /entries/new", private(s.handleCreateEntry))
	mux.Handle("GET /entries/recent", private(s.handleRecentEntries))
	mux.Handle("GET /entries", private(s.handleListEntries))
	mux.Handle("GET /entries/export.xlsx", private(s.handleExportWorkbook))
	mux.Handle("GET /entries/statement.pdf", private(s.handleExportStatement))

	mux.Handle("GET /ideas", private(s.handleListIdeas))
	mux.Handle("POST /ideas", private(s.handleCreateIdea))
	mux.Handle("GET /ideas/{id}/edit", private(s.handleEditIdeaForm))
	mux.Handle("POST /ideas/{id}/edit", private(s.handleUpdateIdea))
	mux.Handle("POST /ideas/{id}/done", private(s.handleMarkIdeaDone))
	mux.Handle("GET /ideas/{id}/delete", private(s.handleDeleteIdeaConfirm))
	mux.Handle("POST /ideas/{id}/delete", private(s.handleDeleteIdea))

	mux.Handle("/", public(http.HandlerFunc(s.handleNotFound)))
}

// middleware wraps the mux, outermost first: tracing, probe blocking,
// security headers, rate limiting and the request logger.
func (s *Server) middleware(h http.Handler) http.Handler {
	h = log.Middleware(s.logger, trace.RequestIDFromRequest)(h)
	h = s.rateLimiter.Middleware(s.securityDetector.ExtractClientIP, s.handleRateLimited)(h)
	h = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(h)
	h = s.securityDetector.Middleware(h)
	return s.traceMiddleware.Middleware(h)
}

// Shutdown stops the rate limiter and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func (s *Server) today() core.Date {
	now := s.now()
	return core.NewDate(now.Year(), int(now.Month()), now.Day())
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	log.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
		log.FieldClientIP, s.securityDetector.ExtractClientIP(r),
		log.FieldPath, r.URL.Path)
	if isHTMX(r) {
		ErrorResponse(http.StatusTooManyRequests, "Too many requests, try again in a minute").Write(w)
		return
	}
	s.renderError(w, r, http.StatusTooManyRequests, "Too many requests, try again in a minute.")
}

func parsePages(fsys fs.FS) (map[string]*template.Template, error) {
	base, err := template.New("layout.html").Funcs(templateFuncs()).ParseFS(fsys, "templates/layout.html", "templates/partials.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	names, err := fs.Glob(fsys, "templates/page_*.html")
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	pages := make(map[string]*template.Template, len(names))
	for _, name := range names {
		t, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layout: %w", err)
		}
		if _, err := t.ParseFS(fsys, name); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		pages[name[len("templates/"):]] = t
	}
	return pages, nil
}
