package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GregMSThompson/energyhub-backend/internal/bootstrap"
	"github.com/GregMSThompson/energyhub-backend/internal/config"
	"github.com/GregMSThompson/energyhub-backend/internal/handlers"
	"github.com/GregMSThompson/energyhub-backend/internal/middleware"
	"github.com/GregMSThompson/energyhub-backend/internal/response"
	"github.com/GregMSThompson/energyhub-backend/internal/router"
	"github.com/GregMSThompson/energyhub-backend/internal/services"
)

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// bootstrap
	cfg := config.New()
	bs, err := bootstrap.Run(cfg)
	exitOnError("bootstrap failed", err, bs.Log)
	defer bs.Close()

	// stores
	lstore, err := bootstrap.NewLoanStore(ctx, cfg, bs)
	exitOnError("loan store failed to open", err, bs.Log)

	// services
	lserv := services.NewLoanService(lstore)

	// response handler
	rh := response.New(bs.Log)

	// dependancies
	deps := new(handlers.Deps)
	deps.Log = bs.Log
	deps.ResponseHandler = rh
	deps.LoanSvc = lserv

	// router
	opts := router.Options{MetricsEnabled: cfg.MetricsEnabled}
	if cfg.AuthEnabled {
		opts.Auth = middleware.NewMiddleware(bs.Firebase).FirebaseAuth
	}
	r := router.NewRouter(deps, opts)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		bs.Log.Info("server listening", "addr", srv.Addr, "backend", string(cfg.LoanBackend))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err = <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			exitOnError("server start failed", err, bs.Log)
		}
	case <-ctx.Done():
		bs.Log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			bs.Log.Error("graceful shutdown failed", "error", err)
		}
	}
}
