// Package server exposes the dashboard over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/launch-dashboard/internal/chart"
	"github.com/sells-group/launch-dashboard/internal/dashboard"
	"github.com/sells-group/launch-dashboard/internal/dataset"
	"github.com/sells-group/launch-dashboard/internal/model"
	"github.com/sells-group/launch-dashboard/internal/monitoring"
	"github.com/sells-group/launch-dashboard/internal/view"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// Options tune the HTTP surface.
type Options struct {
	Sites          []model.Site
	Slider         dashboard.Slider
	RenderRate     float64
	RenderBurst    int
	AllowedOrigins []string
}

// Server serves the dashboard page, chart descriptions, PNG renders and sessions.
type Server struct {
	table    *dataset.Table
	builder  *dashboard.Builder
	sessions *dashboard.Sessions
	renderer chart.Renderer
	limiter  *rate.Limiter
	metrics  *monitoring.Collector
	opts     Options
}

// New wires a server over the loaded table. metrics may be nil.
func New(
	table *dataset.Table,
	builder *dashboard.Builder,
	sessions *dashboard.Sessions,
	renderer chart.Renderer,
	metrics *monitoring.Collector,
	opts Options,
) *Server {
	limit := rate.Inf
	if opts.RenderRate > 0 {
		limit = rate.Limit(opts.RenderRate)
	}
	burst := opts.RenderBurst
	if burst <= 0 {
		burst = 1
	}

	return &Server{
		table:    table,
		builder:  builder,
		sessions: sessions,
		renderer: renderer,
		limiter:  rate.NewLimiter(limit, burst),
		metrics:  metrics,
		opts:     opts,
	}
}

// DefaultControls are the controls of a new session: every site, full slider.
func (s *Server) DefaultControls() dashboard.Controls {
	return dashboard.Controls{Site: model.AllSites, Range: s.opts.Slider.Range()}
}

// Routes builds the chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/", handler(s.getIndex))
	r.Get("/health", handler(s.getHealth))

	r.Route("/api", func(r chi.Router) {
		r.Get("/dataset", handler(s.getDataset))
		r.Get("/charts/{view}", handler(s.getChart))

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", handler(s.postSession))
			r.Get("/{id}", handler(s.getSession))
			r.Patch("/{id}/controls", handler(s.patchControls))
			r.Delete("/{id}", handler(s.deleteSession))
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(s.renderLimit)
		r.Get("/charts/proportion.png", handler(s.pngHandler(view.Proportion)))
		r.Get("/charts/correlation.png", handler(s.pngHandler(view.Correlation)))
	})

	return r
}

// Run serves the dashboard on port until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Routes(),
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	// Graceful shutdown
	go func() {
		<-ctx.Done()
		zap.L().Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			zap.L().Error("server shutdown", zap.Error(err))
		}
	}()

	zap.L().Info("starting server", zap.Int("port", port))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return eris.Wrap(err, "server listen")
	}
	return nil
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.metrics.ObserveRequest(route, r.Method, status)

		zap.L().Debug("http request",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func (s *Server) renderLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			writeError(w, http.StatusTooManyRequests, "render rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}
