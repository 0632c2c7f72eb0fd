package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/chainguard-dev/clog"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mrvivektikoo/pr-doc-agent/internal/analyzer"
	"github.com/mrvivektikoo/pr-doc-agent/internal/config"
	"github.com/mrvivektikoo/pr-doc-agent/internal/github"
	"github.com/mrvivektikoo/pr-doc-agent/internal/pubsub"
	"github.com/mrvivektikoo/pr-doc-agent/internal/server"
	"github.com/mrvivektikoo/pr-doc-agent/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := clog.FromContext(ctx)

	cfg, err := config.Load(ctx)
	if err != nil {
		clog.FatalContextf(ctx, "processing config: %v", err)
	}
	log.Info("starting",
		"http_addr", cfg.HTTPAddr,
		"queue_size", cfg.QueueSize,
		"history_limit", cfg.HistoryLimit,
		"model", cfg.Model,
		"persistent_history", cfg.DatabaseURL != "")

	var st store.Store
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			clog.FatalContextf(ctx, "connect to database: %v", err)
		}
		defer pool.Close()
		st = store.NewPostgres(pool)
		log.Info("database connected")
	} else {
		st = store.NewMemory(cfg.HistoryLimit)
	}

	gh := github.NewClient(ctx, cfg.GitHubToken)
	an := analyzer.NewClaude(cfg.AnthropicAPIKey, cfg.Model, cfg.MaxTokens)

	// Bounded channel for backpressure; a full queue turns webhooks away
	// instead of growing without limit.
	jobs := make(chan pubsub.PRJob, cfg.QueueSize)
	prod := pubsub.NewProducer(st, jobs)
	cons := pubsub.NewConsumer(st, gh, an, jobs, cfg.DocPath)

	// Single consumer keeps FIFO processing order. Its context is detached
	// from the signal context so queued jobs drain during shutdown.
	workerCtx, workerStop := context.WithCancel(context.Background())
	defer workerStop()
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		cons.Run(workerCtx)
	}()
	log.Info("consumer worker started")

	srv := server.NewServer(cfg.HTTPAddr, st, prod, cons, cfg.HistoryLimit)
	go func() {
		log.Info("http server listening", "addr", cfg.HTTPAddr)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server", "err", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	// Stop intake first, then drain the queue.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http server shutdown", "err", err)
	} else {
		log.Info("http server stopped")
	}
	close(jobs)
	wg.Wait()
	log.Info("consumer worker stopped")
}
