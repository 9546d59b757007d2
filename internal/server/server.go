package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/fakhrymubarak/weather-landmark-proxy/internal/config"
)

// ShutdownTimeout bounds the drain of in-flight requests.
const ShutdownTimeout = 5 * time.Second

// NewHTTPServer builds an http.Server with timeouts taken from config.
func NewHTTPServer(addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: config.GetServerTimeout("read_header_timeout", 15*time.Second),
		ReadTimeout:       config.GetServerTimeout("read_timeout", 15*time.Second),
		WriteTimeout:      config.GetServerTimeout("write_timeout", 15*time.Second),
		IdleTimeout:       config.GetServerTimeout("idle_timeout", 60*time.Second),
	}
}

// Serve runs srv on ln until ctx is cancelled, then drains for up to ShutdownTimeout.
func Serve(ctx context.Context, srv *http.Server, ln net.Listener, logger *zap.SugaredLogger) error {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infow("Weather proxy listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorw("Graceful shutdown failed", "error", err)
		return err
	}
	return <-errCh
}

// ListenAndServe listens on srv.Addr and calls Serve.
func ListenAndServe(ctx context.Context, srv *http.Server, logger *zap.SugaredLogger) error {
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return err
	}
	return Serve(ctx, srv, ln, logger)
}
