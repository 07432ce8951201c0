package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"forex-backtest-lab/internal/enrichment"
	"forex-backtest-lab/internal/ingestion"
	"forex-backtest-lab/internal/observability"
	"forex-backtest-lab/internal/storage"
	chstore "forex-backtest-lab/internal/storage/clickhouse"
	"forex-backtest-lab/internal/storage/memory"
	"forex-backtest-lab/internal/storage/migrations"
	"forex-backtest-lab/internal/study"
)

func main() {
	// Parse flags
	csvPath := flag.String("csv", "", "Raw tick CSV file (required)")
	symbol := flag.String("symbol", "", "Symbol to ingest under (required)")
	groupCount := flag.Int("groups", 10, "Number of testing/validation groups")
	maxGap := flag.Int64("max-gap-seconds", 60, "Maximum inter-tick gap before the window segments")
	highWater := flag.Int("high-water", enrichment.DefaultHighWaterMark, "Window high-water mark")
	lowWater := flag.Int("low-water", enrichment.DefaultLowWaterMark, "Window low-water mark")
	workers := flag.Int("workers", 0, "Parallel study workers (0 = GOMAXPROCS)")

	// Storage
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse connection string")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage (dry runs)")

	// Observability
	metricsAddr := flag.String("metrics-addr", "", "Address for the Prometheus /metrics endpoint (optional)")

	flag.Parse()

	// Setup logger
	logger := log.New(os.Stderr, "[ingest] ", log.LstdFlags)

	// Validate required flags
	if *csvPath == "" {
		logger.Fatal("--csv is required")
	}
	if *symbol == "" {
		logger.Fatal("--symbol is required")
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, shutting down...", sig)
		cancel()
	}()

	metrics := observability.NewMetrics("")
	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", observability.Handler())
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				logger.Printf("WARN: metrics endpoint: %v", err)
			}
		}()
	}

	// Create store
	var tickStore storage.EnrichedTickStore = memory.NewEnrichedTickStore()
	if !*useMemory {
		if *clickhouseDSN == "" {
			logger.Fatal("--clickhouse-dsn is required when not using --use-memory")
		}
		conn, err := migrations.RunClickhouseMigrations(ctx, *clickhouseDSN)
		if err != nil {
			logger.Fatalf("migrate clickhouse: %v", err)
		}
		defer conn.Close()

		tickStore = chstore.NewEnrichedTickStore(conn)
	}

	// Read and group raw ticks
	ticks, err := ingestion.ReadTicksCSV(*csvPath)
	if err != nil {
		logger.Fatalf("read ticks: %v", err)
	}
	if len(ticks) == 0 {
		logger.Fatalf("no ticks in %s", *csvPath)
	}
	ingestion.AssignGroups(ticks, *groupCount)
	logger.Printf("read %d ticks from %s", len(ticks), *csvPath)

	// Enrich and persist
	enricher := enrichment.NewEnricher(enrichment.Options{
		Studies:       defaultStudies(),
		Buffer:        enrichment.NewBuffer(tickStore, *symbol, logger, metrics),
		MaxGapSeconds: *maxGap,
		HighWaterMark: *highWater,
		LowWaterMark:  *lowWater,
		Workers:       *workers,
		Metrics:       metrics,
	})

	for i, tick := range ticks {
		if err := ctx.Err(); err != nil {
			logger.Fatalf("ingestion canceled after %d ticks", i)
		}
		if err := enricher.Process(ctx, tick); err != nil {
			logger.Fatalf("enrich tick %d: %v", i, err)
		}
	}
	enricher.Flush(ctx)

	logger.Printf("ingested %d enriched ticks for %s", len(ticks), *symbol)
}

// defaultStudies is the study set the bundled strategies consume. Field
// names here are the columns strategy configurations reference.
func defaultStudies() []study.Study {
	return []study.Study{
		study.NewSMA(13, "sma13"),
		study.NewEMA(50, "ema50"),
		study.NewEMA(100, "ema100"),
		study.NewEMA(200, "ema200"),
		study.NewRSI(14, "rsi"),
		study.NewStochastic(14, 3, "stochasticK", "stochasticD"),
		study.NewRegressionChannel(100, 2, 1.95, "prChannel", "prChannelUpper", "prChannelLower"),
	}
}
