package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dellasoft/internal/config"
	"dellasoft/internal/infra"
	"dellasoft/internal/repository"
	"dellasoft/internal/router"
	"dellasoft/internal/service"
	"dellasoft/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger: dev pretty, prod JSON
	if !cfg.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL, !cfg.IsProduction())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	if err := os.MkdirAll(cfg.PDFStoragePath, 0o755); err != nil {
		log.Fatal().Err(err).Str("path", cfg.PDFStoragePath).Msg("failed to create PDF storage dir")
	}

	clock := service.SystemClock{Location: cfg.Location()}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Worker handlers are wired here, the composition root, so the pool has
	// access to every infrastructure dependency.
	smtpCB := infra.NewCircuitBreaker(infra.SMTPBreakerConfig())
	mailer := infra.NewMailer(cfg, smtpCB)
	dispatcher := worker.NewDispatcher(rdb)

	invoiceWorker := worker.NewInvoiceWorker(worker.InvoiceWorkerConfig{
		Orders:       repository.NewOrderRepository(db),
		Transactions: repository.NewTransactionRepository(db),
		Invoices:     repository.NewInvoiceRepository(db),
		Locker:       infra.NewLocker(rdb, 30*time.Second),
		Emails:       dispatcher,
		DLQ:          rdb,
		StoragePath:  cfg.PDFStoragePath,
		Business:     cfg.BusinessName,
		Now:          clock.Now,
	})
	worker.StartWorkerPool(ctx, rdb, cfg.WorkerPoolSize, worker.Handlers{
		worker.JobInvoice: invoiceWorker,
		worker.JobEmail:   worker.NewEmailWorker(mailer),
	})
	worker.StartRetryCron(ctx, invoiceWorker)

	r := router.New(cfg, db, rdb, clock, smtpCB)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Str("tz", cfg.Timezone).Msgf("DellaSoft backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
