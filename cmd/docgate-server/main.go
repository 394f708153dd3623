package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	_ "modernc.org/sqlite"

	"github.com/docgate/docgate/internal/config"
	"github.com/docgate/docgate/internal/db"
	"github.com/docgate/docgate/internal/docgate/service"
	"github.com/docgate/docgate/internal/docgate/store"
	"github.com/docgate/docgate/internal/docgate/store/memory"
	sqlitestore "github.com/docgate/docgate/internal/docgate/store/sqlite"
	"github.com/docgate/docgate/internal/httpapi"
	"github.com/docgate/docgate/internal/telemetry"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := log.New(os.Stdout, "docgate-server ", log.LstdFlags|log.LUTC)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fetchDelay := time.Duration(cfg.FetchDelayMs) * time.Millisecond

	// Stores.  dev keeps everything in memory; prod puts the document table
	// and audit trail in sqlite.  The document store itself is only handed
	// to the proxy as a factory — it is constructed on first use.
	var (
		auditStore store.AuditStore
		newStore   service.StoreFactory
	)

	if cfg.Env == "prod" {
		conn, err := db.Open(ctx, db.Config{Path: cfg.DBPath, Env: cfg.Env})
		if err != nil {
			logger.Fatalf("db open: %v", err)
		}
		defer conn.Close()

		if err := db.SeedDev(ctx, conn, db.SeedDevOptions{Documents: memory.SeedDocuments()}); err != nil {
			logger.Fatalf("db seed: %v", err)
		}

		writer := db.NewWorker(conn)
		defer writer.Close()

		auditStore = sqlitestore.NewAuditStore(conn, writer)
		newStore = func(context.Context) (store.DocumentStore, error) {
			return sqlitestore.NewDocumentStore(conn, writer, fetchDelay), nil
		}
	} else {
		auditStore = memory.NewAuditStore()
		newStore = func(context.Context) (store.DocumentStore, error) {
			return memory.NewDocumentStore(memory.SeedDocuments(), fetchDelay), nil
		}
	}

	// Metrics.
	var (
		collector      *telemetry.Collector
		metricsHandler http.Handler
	)
	if cfg.MetricsEnabled {
		registry := prometheus.NewRegistry()
		collector = telemetry.NewCollector(registry)
		metricsHandler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	}

	proxy := service.NewDocumentProxy(newStore, service.AccessPolicy{AllowAll: cfg.AllowAll}, auditStore, collector)

	pruner := service.NewAuditPruner(auditStore, service.PrunerConfig{
		RetentionDays: cfg.AuditRetentionDays,
		IntervalHours: cfg.PruneIntervalHours,
	}, logger)
	pruner.Start(ctx)
	defer pruner.Stop()

	srv := httpapi.NewServer(httpapi.Dependencies{
		Logger:  logger,
		Addr:    cfg.HTTPAddr,
		Proxy:   proxy,
		Metrics: metricsHandler,
	})

	go func() {
		logger.Printf("listening on %s (env=%s)", cfg.HTTPAddr, cfg.Env)
		if err := srv.Start(); err != nil {
			logger.Printf("server error: %v", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
