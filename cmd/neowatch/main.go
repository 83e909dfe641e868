// Command neowatch fetches upcoming near-Earth close approaches from the JPL
// CAD API, derives human-scaled and hazard fields, and writes
// close_approaches.csv plus watchlist.csv (and optionally a PNG plot).
//
// Usage:
//
//	neowatch [--days 30] [--dist 4.0] [--out .] [--plot approaches.png]
//
// Exit codes: 0 on success (including an empty window), 1 on fetch/export
// failure, 2 on invalid arguments.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/tanya221998/NASA-CEOS/internal/adapter/cad"
	httpadapter "github.com/tanya221998/NASA-CEOS/internal/adapter/http"
	kafkaadapter "github.com/tanya221998/NASA-CEOS/internal/adapter/kafka"
	"github.com/tanya221998/NASA-CEOS/internal/adapter/sbdb"
	"github.com/tanya221998/NASA-CEOS/internal/config"
	"github.com/tanya221998/NASA-CEOS/internal/domain"
	"github.com/tanya221998/NASA-CEOS/internal/export"
	"github.com/tanya221998/NASA-CEOS/internal/observability"
	"github.com/tanya221998/NASA-CEOS/internal/pipeline"
)

func main() {
	// Optional .env for local development; absence is not an error.
	_ = godotenv.Load()

	days := flag.Int("days", 30, "look-ahead window in days")
	dist := flag.Float64("dist", 4.0, "watchlist distance threshold in lunar distances")
	outDir := flag.String("out", ".", "directory for the CSV output files")
	plotPath := flag.String("plot", "", "path for an optional PNG plot (empty disables)")
	flag.Parse()

	// Argument validation happens before configuration and any network
	// activity; bad flags must never produce artifacts or traffic.
	if *days <= 0 {
		fmt.Fprintf(os.Stderr, "invalid --days %d: must be a positive integer\n", *days)
		os.Exit(2)
	}
	if *dist <= 0 {
		fmt.Fprintf(os.Stderr, "invalid --dist %g: must be a positive number\n", *dist)
		os.Exit(2)
	}
	if *outDir == "" {
		fmt.Fprintln(os.Stderr, "invalid --out: must not be empty")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	fetcher := cad.NewClient(cfg.CADURL, cfg.HTTPTimeout, logger)

	// MOID enrichment is feature-flagged via SBDB_ENABLED.
	var moid domain.MOIDProvider
	if cfg.SBDBEnabled {
		client := sbdb.NewClient(cfg.SBDBURL, cfg.HTTPTimeout, cfg.SBDBThrottle, metrics, logger)
		moid = sbdb.NewCachedProvider(client, cfg.SBDBCacheSize, metrics)
		logger.Info("sbdb enrichment enabled", "throttle", cfg.SBDBThrottle, "cache_size", cfg.SBDBCacheSize)
	} else {
		logger.Info("sbdb enrichment disabled")
	}

	deps := pipeline.Deps{
		Fetcher:  fetcher,
		MOID:     moid,
		Exporter: export.NewCSVExporter(*outDir, logger),
		Logger:   logger,
		Metrics:  metrics,
	}

	if *plotPath != "" {
		deps.Plotter = export.NewPlotRenderer(*plotPath, logger)
	}

	var kafkaWriter *kafkaadapter.Writer
	if cfg.KafkaWatchlistTopic != "" {
		kafkaWriter = kafkaadapter.NewWriter(cfg.KafkaBrokers, cfg.KafkaWatchlistTopic, logger)
		deps.Publisher = kafkaWriter
	}

	job := pipeline.New(deps, *days, *dist)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Debug endpoints live only for the duration of the run.
	var srv *httpadapter.Server
	if cfg.MetricsAddr != "" {
		srv = httpadapter.NewServer(cfg.MetricsAddr, job, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("debug server error", "error", err)
			}
		}()
	}

	runErr := job.Run(ctx)

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("debug server shutdown error", "error", err)
		}
		cancel()
	}
	if kafkaWriter != nil {
		if err := kafkaWriter.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	if runErr != nil {
		logger.Error("run failed", "error", runErr)
		os.Exit(1)
	}
}
