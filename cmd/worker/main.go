package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/leelesemann/medreg-intelligence/internal/bootstrap"
	"github.com/leelesemann/medreg-intelligence/internal/config"
	"github.com/leelesemann/medreg-intelligence/internal/observability/logging"
	"github.com/leelesemann/medreg-intelligence/internal/observability/metrics"
)

// processTimeout bounds one document end to end. Large regulations run a few
// hundred embedding calls, so this is deliberately generous.
const processTimeout = 15 * time.Minute

func main() {
	cfg := config.Load()
	log := logging.NewJSONLogger("worker", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, log)
	if err != nil {
		log.Error("bootstrap failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	workerMetrics := metrics.NewWorkerMetrics("worker")
	metricsServer := &http.Server{
		Addr:    ":" + cfg.WorkerMetricsPort,
		Handler: workerMetrics.Handler(),
	}
	go func() {
		log.Info("worker metrics listening", "port", cfg.WorkerMetricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("metrics server failed", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	log.Info("worker subscribed", "subject", cfg.NATSSubject)
	err = app.Queue.SubscribeDocumentIngested(ctx, func(handlerCtx context.Context, documentID string) error {
		processCtx, cancel := context.WithTimeout(handlerCtx, processTimeout)
		defer cancel()

		start := time.Now()
		workerMetrics.StartDocument()

		if doc, getErr := app.Repo.GetByID(processCtx, documentID); getErr == nil {
			workerMetrics.ObserveQueueLag("worker", start.Sub(doc.CreatedAt))
		}

		processErr := app.ProcessUC.ProcessByID(processCtx, documentID)
		workerMetrics.FinishDocument("worker", time.Since(start), processErr)

		if processErr != nil {
			log.Error("document processing failed", "document_id", documentID, "error", processErr)
			return processErr
		}

		if doc, getErr := app.Repo.GetByID(processCtx, documentID); getErr == nil {
			workerMetrics.ObserveDocumentShape("worker", doc.Parser, doc.PageCount, doc.ChunkCount)
			log.Info("document processed",
				"document_id", documentID,
				"parser", doc.Parser,
				"pages", doc.PageCount,
				"chunks", doc.ChunkCount,
				"duration_ms", time.Since(start).Milliseconds(),
			)
		}
		return nil
	})
	if err != nil {
		log.Error("worker subscribe failed", "error", err)
		os.Exit(1)
	}
}
