package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"forex-backtest-lab/internal/reporting"
	pgstore "forex-backtest-lab/internal/storage/postgres"
)

func main() {
	// Parse flags
	runID := flag.String("run-id", "", "Optimization run ID (required)")
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string (required)")
	format := flag.String("format", "markdown", "Output format: markdown, csv")

	flag.Parse()

	// Setup logger
	logger := log.New(os.Stderr, "[report] ", log.LstdFlags)

	// Validate required flags
	if *runID == "" {
		logger.Fatal("--run-id is required")
	}
	if *postgresDSN == "" {
		logger.Fatal("--postgres-dsn is required")
	}
	if *format != "markdown" && *format != "csv" {
		logger.Fatalf("Invalid format: %s. Must be markdown or csv", *format)
	}

	ctx := context.Background()

	pool, err := pgstore.NewPool(ctx, *postgresDSN)
	if err != nil {
		logger.Fatalf("connect to postgres: %v", err)
	}
	defer pool.Close()

	results, err := pgstore.NewOptimizationResultStore(pool).GetByRunID(ctx, *runID)
	if err != nil {
		logger.Fatalf("load results: %v", err)
	}
	if len(results) == 0 {
		logger.Fatalf("no results for run %s", *runID)
	}

	report := reporting.NewReport(*runID, results)
	if *format == "csv" {
		fmt.Print(reporting.RenderCSV(report))
		return
	}
	fmt.Print(reporting.RenderMarkdown(report))
}
