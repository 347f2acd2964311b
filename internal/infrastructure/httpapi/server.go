// Package httpapi serves the task engine over JSON HTTP for the web
// front end.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/felixgeelhaar/nihulit/pkg/application"
	"github.com/felixgeelhaar/nihulit/pkg/domain/access"
	"github.com/felixgeelhaar/nihulit/pkg/domain/calendar"
)

// Services are the application services the API exposes.
type Services struct {
	Task    *application.TaskService
	Stats   *application.StatsService
	Finance *application.FinanceService
	Session *application.SessionService
	Clock   calendar.Clock
	// Health reports backend reachability for /healthz. Optional.
	Health func(context.Context) error
	// Events enables GET /api/v1/events. Optional.
	Events *EventStream
}

// Server routes API requests to the services.
type Server struct {
	svc    Services
	logger *slog.Logger
	// AllowAnonymous lets requests without a bearer token run as the
	// system user.
	AllowAnonymous bool
}

func NewServer(svc Services, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{svc: svc, logger: logger}
}

func (s *Server) today() time.Time {
	if s.svc.Clock == nil {
		return calendar.SystemClock{}.Today()
	}
	return s.svc.Clock.Today()
}

// Router builds the chi route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/sessions", s.login)

		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)
			r.Delete("/sessions", s.logout)
			r.Get("/me", s.me)

			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", s.listTasks)
				r.Post("/", s.createTask)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", s.getTask)
					r.Patch("/", s.updateTask)
					r.Delete("/", s.deleteTask)
				})
			})
			r.Route("/sync", func(r chi.Router) {
				r.Get("/pending", s.pendingSync)
				r.Post("/retry", s.retrySync)
			})
			r.Get("/stats", s.stats)
			r.Get("/timeline", s.timeline)
			r.Get("/finance", s.financeSummary)
			r.Get("/projects/{id}/finance", s.projectFinance)
			if s.svc.Events != nil {
				r.Get("/events", s.streamEvents)
			}
		})
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http api listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http api: %w", err)
		}
		return nil
	}
}

const bearerPrefix = "Bearer "

// authenticate resolves the bearer token to a user and attaches it to the
// request context.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			if s.AllowAnonymous {
				next.ServeHTTP(w, r)
				return
			}
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		if !strings.HasPrefix(header, bearerPrefix) {
			writeError(w, http.StatusUnauthorized, "malformed authorization header")
			return
		}
		u, err := s.svc.Session.Current(r.Context(), strings.TrimPrefix(header, bearerPrefix))
		if err != nil {
			s.fail(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(access.WithUser(r.Context(), u)))
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
