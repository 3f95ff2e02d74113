package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/portfolio-chat/backend/internal/app"
	"github.com/portfolio-chat/backend/internal/config"
	"github.com/portfolio-chat/backend/internal/handler"
	"github.com/portfolio-chat/backend/internal/handler/health"
	"github.com/portfolio-chat/backend/internal/logging"
	"github.com/portfolio-chat/backend/internal/telemetry"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		logrus.Debugf("no .env file loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load configuration: %v", err)
	}
	logging.Setup(cfg.LogLevel, cfg.Production())

	shutdownTracing, err := telemetry.Setup(ctx, telemetry.Config{
		ServiceName:    cfg.Telemetry.ServiceName,
		ServiceVersion: health.Version,
		Environment:    string(cfg.Env),
		Endpoint:       cfg.Telemetry.Endpoint,
	})
	if err != nil {
		logrus.Fatalf("failed to set up tracing: %v", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logrus.WithError(err).Warn("tracer shutdown failed")
		}
	}()

	chatSvc, err := app.NewChatService(ctx, cfg)
	if err != nil {
		logrus.Fatalf("failed to start chat service: %v", err)
	}
	defer chatSvc.Shutdown()

	router := handler.NewRouter(chatSvc, handler.Options{
		Title:        app.Title,
		ErrorDetails: cfg.Development(),
	})

	if err := startServer(ctx, cfg.Server, router); err != nil {
		logrus.Errorf("server error: %v", err)
	}
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) error {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logrus.Infof("portfolio chat backend listening on %s", addr)
	return runServer(ctx, srv)
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logrus.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
