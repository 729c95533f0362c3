package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eduexercise/internal/app"
	"eduexercise/internal/app/logging"
	"eduexercise/internal/app/observability"
	"eduexercise/internal/bank"
	"eduexercise/internal/db"

	"go.uber.org/zap"
)

func main() {
	cfg := app.LoadConfig()
	log := logging.New(logging.Options{
		Level:       cfg.LogLevel,
		File:        cfg.LogFile,
		Development: cfg.IsDevelopment(),
	})
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbConn, err := db.OpenWithConfig(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN, db.PoolConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.DBConnMaxLifeMins) * time.Minute,
	})
	if err != nil {
		log.Error("database error", zap.Error(err))
		os.Exit(1)
	}
	defer dbConn.Close()

	obs := observability.NewCollector(dbConn, log)
	svc, err := app.NewBankService(ctx, cfg, dbConn, obs, log)
	if err != nil {
		log.Error("service setup failed", zap.Error(err))
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           app.NewRouter(cfg, bank.NewHandler(svc, cfg.MaxUploadMB), obs),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("eduexercise web listening", zap.String("addr", cfg.HTTPAddr), zap.String("db_driver", cfg.DBDriver))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server stopped", zap.Error(err))
		os.Exit(1)
	}
}
