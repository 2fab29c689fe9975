package services

import (
	"context"
	"time"

	"github.com/EeliErkkila/Viikko6/internal/models"
	"github.com/EeliErkkila/Viikko6/pkg/logging"
)

// AggregationService folds measurements into per-day energy totals
type AggregationService struct {
	logger *logging.StructuredLogger
}

// NewAggregationService creates a new aggregation service
func NewAggregationService(logger *logging.StructuredLogger) *AggregationService {
	return &AggregationService{
		logger: logger,
	}
}

// whAccumulator carries running per-phase sums for one day. Values
// stay in watt hours until the whole day is summed.
type whAccumulator struct {
	consumption models.PhaseValues
	production  models.PhaseValues
}

// DailyTotals groups measurements by calendar day and sums every phase
// column. Sums accumulate in watt hours and convert to kilowatt hours
// once per day after summation. No measurements yield no totals.
func (s *AggregationService) DailyTotals(ctx context.Context, measurements []models.Measurement) map[time.Time]models.DayTotals {
	startTime := time.Now()

	s.logger.Info(ctx, "[AGGREGATE_START] Summing daily totals", logging.Fields{
		"measurement_count": len(measurements),
		"stage":             "AGGREGATION",
	})

	sums := make(map[time.Time]whAccumulator)
	for _, m := range measurements {
		acc := sums[m.Day]
		acc.consumption = acc.consumption.Add(m.ConsumptionWh)
		acc.production = acc.production.Add(m.ProductionWh)
		sums[m.Day] = acc
	}

	totals := make(map[time.Time]models.DayTotals, len(sums))
	for day, acc := range sums {
		totals[day] = models.DayTotals{
			ConsumptionKWh: acc.consumption.DividedBy(models.WhPerKWh),
			ProductionKWh:  acc.production.DividedBy(models.WhPerKWh),
		}
	}

	s.logger.Info(ctx, "[AGGREGATE_COMPLETE] Daily totals summed", logging.Fields{
		"measurement_count": len(measurements),
		"day_count":         len(totals),
		"duration_seconds":  time.Since(startTime).Seconds(),
		"stage":             "COMPLETE",
	})

	return totals
}
