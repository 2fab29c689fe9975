package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// PhaseCount is the number of measurement channels on a three phase meter
const PhaseCount = 3

// WhPerKWh is the watt-hour to kilowatt-hour conversion factor
const WhPerKWh = 1000.0

// ColumnTime is the header name of the timestamp column
const ColumnTime = "Aika"

// ConsumptionColumn returns the header name of the consumption column
// for the given phase (1-based)
func ConsumptionColumn(phase int) string {
	return fmt.Sprintf("Kulutus vaihe %d Wh", phase)
}

// ProductionColumn returns the header name of the production column
// for the given phase (1-based)
func ProductionColumn(phase int) string {
	return fmt.Sprintf("Tuotanto vaihe %d Wh", phase)
}

// RequiredColumns lists every column the input header must name
func RequiredColumns() []string {
	cols := []string{ColumnTime}
	for phase := 1; phase <= PhaseCount; phase++ {
		cols = append(cols, ConsumptionColumn(phase))
	}
	for phase := 1; phase <= PhaseCount; phase++ {
		cols = append(cols, ProductionColumn(phase))
	}
	return cols
}

// PhaseValues holds one energy value per measurement phase
type PhaseValues [PhaseCount]float64

// Add returns the phase-wise sum of p and other
func (p PhaseValues) Add(other PhaseValues) PhaseValues {
	for i := range p {
		p[i] += other[i]
	}
	return p
}

// DividedBy returns p with every phase divided by divisor
func (p PhaseValues) DividedBy(divisor float64) PhaseValues {
	for i := range p {
		p[i] /= divisor
	}
	return p
}

// Measurement represents a single timestamped meter reading row
// Energy values are watt-hours as read; Day is the reading's calendar
// date at UTC midnight
type Measurement struct {
	Day           time.Time
	ConsumptionWh PhaseValues
	ProductionWh  PhaseValues
}

// DayTotals represents one day's summed consumption and production
// per phase, converted to kilowatt-hours
type DayTotals struct {
	ConsumptionKWh PhaseValues
	ProductionKWh  PhaseValues
}

// RawMeterRecord represents a single row from the meter export
// Used during loading
type RawMeterRecord struct {
	Timestamp     string
	ConsumptionWh [PhaseCount]string
	ProductionWh  [PhaseCount]string
}

// timestampLayouts are the ISO-8601 shapes meter exports produce,
// tried in order
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ToMeasurement converts a RawMeterRecord to a Measurement
// The timestamp is truncated to its own wall-clock calendar date and
// each energy field is parsed as floating-point watt-hours
func (r *RawMeterRecord) ToMeasurement() (Measurement, error) {
	ts, err := parseTimestamp(r.Timestamp)
	if err != nil {
		return Measurement{}, err
	}

	m := Measurement{Day: DayOf(ts)}

	for i, raw := range r.ConsumptionWh {
		v, err := parseEnergy(ConsumptionColumn(i+1), raw)
		if err != nil {
			return Measurement{}, err
		}
		m.ConsumptionWh[i] = v
	}

	for i, raw := range r.ProductionWh {
		v, err := parseEnergy(ProductionColumn(i+1), raw)
		if err != nil {
			return Measurement{}, err
		}
		m.ProductionWh[i] = v
	}

	return m, nil
}

// DayOf returns t's wall-clock calendar date as a canonical UTC
// midnight, usable as a map key
func DayOf(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func parseTimestamp(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, &ParseError{
			Field:   ColumnTime,
			Value:   value,
			Message: "timestamp is empty",
		}
	}

	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, trimmed); err == nil {
			return ts, nil
		}
	}

	return time.Time{}, &ParseError{
		Field:   ColumnTime,
		Value:   value,
		Message: "timestamp is not an ISO-8601 date-time",
	}
}

func parseEnergy(field, value string) (float64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, &ParseError{
			Field:   field,
			Value:   value,
			Message: "energy value is empty",
		}
	}

	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, &ParseError{
			Field:   field,
			Value:   value,
			Message: "energy value is not numeric",
		}
	}

	return v, nil
}

// ParseError represents a missing or malformed field in the input data
// It is fatal: the run aborts on the first one
type ParseError struct {
	Field   string
	Value   string
	Message string
}

func (e *ParseError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
