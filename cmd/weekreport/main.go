package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/EeliErkkila/Viikko6/internal/config"
	"github.com/EeliErkkila/Viikko6/internal/services"
	"github.com/EeliErkkila/Viikko6/pkg/logging"
)

const (
	// The tool reads exactly this export and takes no arguments.
	// The week number in the title matches the fixed input file.
	inputFile  = "viikko42.csv"
	reportWeek = 42

	serviceVersion = "1.0.0"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logLevel := logging.InfoLevel
	switch cfg.Logging.Level {
	case "debug":
		logLevel = logging.DebugLevel
	case "warn":
		logLevel = logging.WarnLevel
	case "error":
		logLevel = logging.ErrorLevel
	}

	logger := logging.NewStructuredLogger(cfg.App.Name, serviceVersion, logLevel)

	ctx := logging.WithRunID(context.Background(), uuid.New().String())

	logger.Info(ctx, "[REPORT_START] Building weekly electricity report", logging.Fields{
		"version":     serviceVersion,
		"environment": cfg.App.Environment,
		"input_file":  inputFile,
		"week":        reportWeek,
	})

	// Initialize services
	loader := services.NewLoaderService(logger)
	aggregator := services.NewAggregationService(logger)
	reporter := services.NewReportService(reportWeek, logger)

	// Load measurements
	measurements, err := loader.LoadFile(ctx, inputFile)
	if err != nil {
		logger.Fatal(ctx, "[REPORT_ERROR] Failed to load meter export", logging.Fields{
			"input_file": inputFile,
		}, err)
	}

	// Sum per-day totals and print the report
	totals := aggregator.DailyTotals(ctx, measurements)

	if err := reporter.WriteReport(ctx, os.Stdout, totals); err != nil {
		logger.Fatal(ctx, "[REPORT_ERROR] Failed to write report", logging.Fields{
			"input_file": inputFile,
		}, err)
	}

	logger.Info(ctx, "[REPORT_COMPLETE] Weekly report written", logging.Fields{
		"input_file":        inputFile,
		"measurement_count": len(measurements),
		"day_count":         len(totals),
	})
}
