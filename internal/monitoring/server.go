package monitoring

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

const readHeaderTimeout = 5 * time.Second

// Server serves /metrics on its own listener.
type Server struct {
	addr      string
	collector *Collector
}

// NewServer creates a metrics server listening on the given port.
func NewServer(port int, collector *Collector) *Server {
	return &Server{addr: fmt.Sprintf(":%d", port), collector: collector}
}

// Run serves metrics until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", s.collector.Handler())

	srv := &http.Server{
		Addr:              s.addr,
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		<-ctx.Done()
		if err := srv.Shutdown(context.WithoutCancel(ctx)); err != nil {
			zap.L().Error("metrics server shutdown", zap.Error(err))
		}
	}()

	zap.L().Info("starting metrics server", zap.String("addr", s.addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return eris.Wrap(err, "monitoring: metrics listen")
	}

	zap.L().Info("metrics server stopped")
	return nil
}
