package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Clark-Hu/bookreviews/internal/config"
	domainerrors "github.com/Clark-Hu/bookreviews/internal/errors"
	"github.com/Clark-Hu/bookreviews/internal/ratelimit"
	"github.com/Clark-Hu/bookreviews/internal/service"
)

const limiterIdleTTL = 10 * time.Minute

// HealthChecker reports whether the backing store is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Services bundles the use cases exposed over HTTP.
type Services struct {
	Books    *service.Books
	Reviews  *service.Reviews
	Accounts *service.Accounts
}

// Server wires HTTP routing, middleware, and handlers.
type Server struct {
	cfg         config.Config
	health      HealthChecker
	books       *service.Books
	reviews     *service.Reviews
	accounts    *service.Accounts
	authLimiter *ratelimit.KeyedRateLimiter
	logger      *slog.Logger
	router      chi.Router
	httpSrv     *http.Server
}

// New constructs the HTTP server with base middleware and routes.
func New(cfg config.Config, health HealthChecker, svc Services, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		cfg:         cfg,
		health:      health,
		books:       svc.Books,
		reviews:     svc.Reviews,
		accounts:    svc.Accounts,
		authLimiter: ratelimit.PerMinute(max(cfg.AuthRatePerMinute, 1), max(cfg.AuthRateBurst, 1)),
		logger:      logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.realIP)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))
	s.router = r
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.respondError(w, r, domainerrors.NotFound("Not found."))
	})
	s.router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		s.respondJSON(w, http.StatusMethodNotAllowed, errorResponse{
			Code:   "METHOD_NOT_ALLOWED",
			Detail: "Method " + r.Method + " not allowed.",
		})
	})

	s.router.Get("/healthz", s.handleHealthz)
	s.router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(s.rateLimit)
			r.Post("/register", s.handleRegister)
			r.Post("/login", s.handleLogin)
		})
		r.Route("/books", func(r chi.Router) {
			r.Use(s.authenticate)
			r.Get("/", s.handleListBooks)
			r.Post("/reviews/create", s.handleCreateReview)
			r.Route("/{bookID}", func(r chi.Router) {
				r.Get("/", s.handleGetBook)
				r.Get("/reviews", s.handleListReviews)
			})
		})
	})
}

// Handler exposes the configured router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start boots the HTTP server and blocks until ctx is cancelled or the
// listener fails.
func (s *Server) Start(ctx context.Context) error {
	s.httpSrv = &http.Server{
		Addr:         ":" + s.cfg.Port,
		Handler:      s.router,
		ReadTimeout:  time.Duration(s.cfg.ReadTimeoutSecs) * time.Second,
		WriteTimeout: time.Duration(s.cfg.WriteTimeoutSecs) * time.Second,
		IdleTimeout:  time.Duration(s.cfg.IdleTimeoutSecs) * time.Second,
	}

	go s.sweepLimiter(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http: listening", slog.String("addr", s.httpSrv.Addr))
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.httpSrv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) sweepLimiter(ctx context.Context) {
	ticker := time.NewTicker(limiterIdleTTL)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.authLimiter.Sweep(limiterIdleTTL); n > 0 {
				s.logger.Debug("http: evicted idle rate limiters", slog.Int("count", n))
			}
		}
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if s.health == nil {
		s.respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	if err := s.health.HealthCheck(ctx); err != nil {
		s.logger.WarnContext(ctx, "http: health check failed", slog.Any("error", err))
		s.respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
