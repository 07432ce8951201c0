package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"

	"forex-backtest-lab/internal/configspace"
	"forex-backtest-lab/internal/matrix"
	"forex-backtest-lab/internal/observability"
	"forex-backtest-lab/internal/optimizer"
	"forex-backtest-lab/internal/reporting"
	chstore "forex-backtest-lab/internal/storage/clickhouse"
	"forex-backtest-lab/internal/storage/migrations"
	pgstore "forex-backtest-lab/internal/storage/postgres"
	"forex-backtest-lab/internal/strategy"
)

func main() {
	// Parse flags
	symbol := flag.String("symbol", "", "Symbol to optimize (required)")
	strategyType := flag.String("strategy", "", "Strategy: TREND, REVERSAL (required)")
	axesPath := flag.String("axes", "", "YAML option specification file (required)")
	group := flag.Int("group", 0, "Testing group identifier stamped on results")

	// Simulation parameters
	investment := flag.Float64("investment", 1000, "Stake per position")
	profitability := flag.Float64("profitability", 0.76, "Payout fraction on a winning position")
	workers := flag.Int("workers", 0, "Parallel simulation workers (0 = GOMAXPROCS)")

	// Storage
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse connection string (required)")
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string for result persistence (optional)")

	// Output
	outputCSV := flag.Bool("csv", false, "Print results as CSV to stdout")
	outputMarkdown := flag.Bool("markdown", false, "Print results as Markdown to stdout")

	// Observability
	metricsAddr := flag.String("metrics-addr", "", "Address for the Prometheus /metrics endpoint (optional)")

	flag.Parse()

	// Setup logger
	logger := log.New(os.Stderr, "[optimize] ", log.LstdFlags)

	// Validate required flags
	if *symbol == "" {
		logger.Fatal("--symbol is required")
	}
	if *strategyType == "" {
		logger.Fatal("--strategy is required")
	}
	if *axesPath == "" {
		logger.Fatal("--axes is required")
	}
	if *clickhouseDSN == "" {
		logger.Fatal("--clickhouse-dsn is required")
	}

	// Normalize strategy type
	typ := strategy.Type(strings.ToUpper(*strategyType))
	if typ != strategy.TypeTrend && typ != strategy.TypeReversal {
		logger.Fatalf("Invalid strategy: %s. Must be TREND or REVERSAL", *strategyType)
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

	// Connect to the enriched tick series
	conn, err := chstore.NewConn(ctx, *clickhouseDSN)
	if err != nil {
		logger.Fatalf("connect to clickhouse: %v", err)
	}
	defer conn.Close()
	tickStore := chstore.NewEnrichedTickStore(conn)

	// Load the matrix and freeze the column index
	logger.Printf("loading data for %s...", *symbol)
	m, err := matrix.NewLoader(tickStore, metrics).Load(ctx, *symbol)
	if err != nil {
		logger.Fatalf("load data: %v", err)
	}
	logger.Printf("loaded %d rows x %d columns", m.Rows(), m.Columns().Width())

	// Expand the configuration space
	axes, err := configspace.LoadAxesFile(*axesPath)
	if err != nil {
		logger.Fatalf("load option spec: %v", err)
	}
	configurations, err := configspace.NewBuilder(m.Columns()).Build(axes)
	if err != nil {
		logger.Fatalf("build configurations: %v", err)
	}
	metrics.ConfigurationsBuilt.Set(float64(len(configurations)))
	logger.Printf("%d configurations built", len(configurations))

	// Run the backtest scheduler
	runID := uuid.NewString()
	scheduler := optimizer.NewScheduler(optimizer.Options{
		RunID:         runID,
		Investment:    *investment,
		Profitability: *profitability,
		Workers:       *workers,
		Logger:        logger,
		Metrics:       metrics,
	})
	results, err := scheduler.Run(ctx, m, typ, *symbol, *group, configurations)
	if err != nil {
		logger.Fatalf("optimize: %v", err)
	}
	logger.Printf("run %s complete: %d results", runID, len(results))

	// Persist results
	if *postgresDSN != "" {
		pool, err := pgstore.NewPool(ctx, *postgresDSN)
		if err != nil {
			logger.Fatalf("connect to postgres: %v", err)
		}
		defer pool.Close()

		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			logger.Fatalf("migrate postgres: %v", err)
		}
		if err := pgstore.NewOptimizationResultStore(pool).InsertBulk(ctx, results); err != nil {
			logger.Fatalf("persist results: %v", err)
		}
		logger.Printf("persisted %d results under run %s", len(results), runID)
	}

	// Render
	report := reporting.NewReport(runID, results)
	switch {
	case *outputMarkdown:
		fmt.Print(reporting.RenderMarkdown(report))
	case *outputCSV:
		fmt.Print(reporting.RenderCSV(report))
	}
}
