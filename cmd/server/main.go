package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"betteredible/internal/config"
	"betteredible/internal/infra"
	"betteredible/internal/repository"
	"betteredible/internal/router"
	"betteredible/internal/worker"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger — dev: pretty console, prod: JSON to stderr
	if !cfg.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	locker := infra.NewRecordLocker(rdb, time.Duration(cfg.RecordLockTTLSeconds)*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dispatcher := startWorkers(ctx, cfg, db, rdb)
	r := router.New(cfg, db, rdb, locker, dispatcher)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Msgf("better-edible backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	waitForShutdown(srv)
}

// startWorkers wires the async job handlers and launches the pool. Done at
// the composition root so the pool sees all infrastructure deps.
func startWorkers(ctx context.Context, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *worker.Dispatcher {
	dispatcher := worker.NewDispatcher(rdb)
	orderRepo := repository.NewOrderRepository(db)
	mailer := infra.NewMailer(cfg)

	handlers := map[string]worker.Handler{
		worker.QueueOrderSheet: worker.NewOrderSheetWorker(orderRepo, dispatcher, rdb, cfg.PDFStoragePath, cfg.ProductionEmail),
		worker.QueueEmail:      worker.NewEmailWorker(mailer),
	}
	worker.StartWorkerPool(ctx, rdb, cfg.WorkerPoolSize, handlers)
	return dispatcher
}

// waitForShutdown blocks until SIGINT/SIGTERM, then drains in-flight
// requests for up to 15 seconds.
func waitForShutdown(srv *http.Server) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
