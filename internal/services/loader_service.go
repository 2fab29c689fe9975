package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/EeliErkkila/Viikko6/internal/models"
	"github.com/EeliErkkila/Viikko6/pkg/logging"
)

// LoaderService reads semicolon separated meter exports into measurements
type LoaderService struct {
	logger *logging.StructuredLogger
}

// NewLoaderService creates a new loader service
func NewLoaderService(logger *logging.StructuredLogger) *LoaderService {
	return &LoaderService{
		logger: logger,
	}
}

// LoadFile opens the export at path and loads every measurement row from it
func (s *LoaderService) LoadFile(ctx context.Context, path string) ([]models.Measurement, error) {
	s.logger.Info(ctx, "[LOAD_FILE] Opening meter export", logging.Fields{
		"file_path": path,
		"stage":     "OPEN",
	})

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open meter export: %w", err)
	}
	defer file.Close()

	measurements, err := s.Load(ctx, file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return measurements, nil
}

// Load reads a meter export from r. Every data row becomes one
// measurement, in input order. The first malformed row aborts the
// whole load. A wholly empty export yields no measurements.
func (s *LoaderService) Load(ctx context.Context, r io.Reader) ([]models.Measurement, error) {
	startTime := time.Now()

	s.logger.Info(ctx, "[LOAD_START] Reading meter export", logging.Fields{
		"stage": "READ",
	})

	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		s.logger.Warn(ctx, "[LOAD_EMPTY] Meter export contains no rows", logging.Fields{
			"stage": "READ",
		})
		return []models.Measurement{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}

	indexes, err := columnIndexes(header)
	if err != nil {
		s.logger.Error(ctx, "[LOAD_HEADER_ERROR] Meter export header is incomplete", logging.Fields{
			"stage": "HEADER",
		}, err)
		return nil, err
	}

	measurements := make([]models.Measurement, 0)
	row := 1

	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			var csvErr *csv.ParseError
			if errors.As(err, &csvErr) {
				err = &models.ParseError{
					Message: fmt.Sprintf("malformed row: %v", csvErr.Err),
				}
			}
			s.logger.Error(ctx, "[LOAD_ROW_ERROR] Failed to read meter export row", logging.Fields{
				"row":   row,
				"stage": "ROW_PROCESSING",
			}, err)
			return nil, fmt.Errorf("row %d: %w", row, err)
		}

		record := models.RawMeterRecord{
			Timestamp: fields[indexes[models.ColumnTime]],
		}
		for phase := 1; phase <= models.PhaseCount; phase++ {
			record.ConsumptionWh[phase-1] = fields[indexes[models.ConsumptionColumn(phase)]]
			record.ProductionWh[phase-1] = fields[indexes[models.ProductionColumn(phase)]]
		}

		measurement, err := record.ToMeasurement()
		if err != nil {
			s.logger.Error(ctx, "[LOAD_ROW_ERROR] Failed to parse meter export row", logging.Fields{
				"row":   row,
				"stage": "ROW_PROCESSING",
			}, err)
			return nil, fmt.Errorf("row %d: %w", row, err)
		}

		measurements = append(measurements, measurement)
	}

	s.logger.Info(ctx, "[LOAD_COMPLETE] Meter export read", logging.Fields{
		"row_count":        len(measurements),
		"duration_seconds": time.Since(startTime).Seconds(),
		"stage":            "COMPLETE",
	})

	return measurements, nil
}

// columnIndexes maps header names to field positions and verifies that
// every required column is present
func columnIndexes(header []string) (map[string]int, error) {
	indexes := make(map[string]int, len(header))
	for i, name := range header {
		indexes[strings.TrimSpace(name)] = i
	}

	for _, name := range models.RequiredColumns() {
		if _, ok := indexes[name]; !ok {
			return nil, &models.ParseError{
				Field:   name,
				Message: "missing required column",
			}
		}
	}

	return indexes, nil
}
