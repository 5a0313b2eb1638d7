// Package server exposes the document service over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tengjizhang/scrub/internal/docs"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	echo   *echo.Echo
	docs   *docs.Service
	logger *slog.Logger
}

func New(svc *docs.Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{echo: e, docs: svc, logger: logger}

	// Recovery sits inside the logger so panics are logged as 500s.
	e.Use(requestLogger(logger))
	e.Use(recovery(logger))
	e.HTTPErrorHandler = s.errorHandler

	s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Run listens on addr and serves until ctx is canceled.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is canceled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.echo.Listener = ln
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.echo.Start("")
	}()
	s.logger.Info("http server listening", "addr", ln.Addr().String())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.echo.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		s.logger.Info("http server stopped")
		return nil
	}
}

func (s *Server) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var appErr *AppError
	var echoErr *echo.HTTPError
	switch {
	case errors.As(err, &echoErr):
		appErr = &AppError{Code: echoErr.Code, Type: typeForStatus(echoErr.Code), Message: http.StatusText(echoErr.Code)}
		if msg, ok := echoErr.Message.(string); ok && msg != "" {
			appErr.Message = msg
		}
	default:
		appErr = fromDomain(err)
	}

	if appErr.Internal != nil || appErr.Code >= 500 {
		s.logger.Error("request failed",
			slog.String("type", appErr.Type),
			slog.Any("error", err),
			slog.String("path", c.Request().URL.Path),
		)
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(appErr.Code)
		return
	}
	_ = c.JSON(appErr.Code, appErr)
}

func typeForStatus(code int) string {
	switch code {
	case http.StatusNotFound:
		return "not_found"
	case http.StatusMethodNotAllowed:
		return "method_not_allowed"
	case http.StatusRequestEntityTooLarge:
		return "too_large"
	}
	if code >= 500 {
		return "internal_error"
	}
	return "bad_request"
}
