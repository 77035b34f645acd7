package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
)

// serveHTTP listens on the configured address until ctx is done.
func (app *application) serveHTTP(ctx context.Context) error {
	ln, err := net.Listen("tcp", fmtHTTPAddr(app.config.http.host, app.config.http.port))
	if err != nil {
		return err
	}
	return app.serve(ctx, ln)
}

// serve owns ln. Once ctx is done the server stops accepting and gives
// in-flight requests up to the shutdown timeout to finish.
func (app *application) serve(ctx context.Context, ln net.Listener) error {
	logger := app.serverLogger(slog.Group("server", "addr", ln.Addr().String()))

	srv := &http.Server{
		Handler:      app.routes(),
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelWarn),
		ReadTimeout:  app.config.http.readTimeout,
		WriteTimeout: app.config.http.writeTimeout,
		IdleTimeout:  app.config.http.idleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Serve(ln) }()

	logger.Info("starting server")

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server", "cause", context.Cause(ctx).Error())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.config.http.shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}
	if err := <-serveErr; !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	logger.Info("stopped server")

	return nil
}

func (app *application) serverLogger(args ...any) *slog.Logger {
	args = append(args, "module", "server")
	return app.logger.With(args...)
}

func fmtHTTPAddr(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}
