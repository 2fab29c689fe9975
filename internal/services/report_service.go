package services

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/EeliErkkila/Viikko6/internal/models"
	"github.com/EeliErkkila/Viikko6/pkg/logging"
)

// dividerWidth is the width of the dash rule under the table header
const dividerWidth = 80

// finnishWeekdays holds weekday names indexed from Monday
var finnishWeekdays = [7]string{
	"maanantai",
	"tiistai",
	"keskiviikko",
	"torstai",
	"perjantai",
	"lauantai",
	"sunnuntai",
}

// ReportService renders per-day energy totals as a fixed-width table
type ReportService struct {
	week   int
	logger *logging.StructuredLogger
}

// NewReportService creates a report service for the given week number
func NewReportService(week int, logger *logging.StructuredLogger) *ReportService {
	return &ReportService{
		week:   week,
		logger: logger,
	}
}

// WriteReport renders the weekly report to w. Days print in ascending
// date order regardless of map iteration order.
func (s *ReportService) WriteReport(ctx context.Context, w io.Writer, totals map[time.Time]models.DayTotals) error {
	s.logger.Info(ctx, "[REPORT_RENDER] Rendering weekly report", logging.Fields{
		"week":      s.week,
		"day_count": len(totals),
		"stage":     "RENDER",
	})

	if _, err := io.WriteString(w, s.render(totals)); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	return nil
}

// render builds the complete report text
func (s *ReportService) render(totals map[time.Time]models.DayTotals) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Viikon %d sähkönkulutus ja tuotanto\n\n", s.week)
	fmt.Fprintf(&b, "%-12s %-12s %26s %26s\n", "Päivä", "Pvm", "Kulutus [kWh]", "Tuotanto [kWh]")
	fmt.Fprintf(&b, "%-12s %-12s%8s%8s%8s %8s%8s%8s\n", "", "(pv.kk.vvvv)", "v1", "v2", "v3", "v1", "v2", "v3")
	fmt.Fprintln(&b, strings.Repeat("-", dividerWidth))

	for _, day := range sortedDays(totals) {
		t := totals[day]
		fmt.Fprintf(&b, "%-12s %-12s%8s%8s%8s%8s%8s%8s\n",
			WeekdayName(day),
			FormatDate(day),
			FormatKWh(t.ConsumptionKWh[0]),
			FormatKWh(t.ConsumptionKWh[1]),
			FormatKWh(t.ConsumptionKWh[2]),
			FormatKWh(t.ProductionKWh[0]),
			FormatKWh(t.ProductionKWh[1]),
			FormatKWh(t.ProductionKWh[2]))
	}

	return b.String()
}

// sortedDays returns the map keys in ascending date order
func sortedDays(totals map[time.Time]models.DayTotals) []time.Time {
	days := make([]time.Time, 0, len(totals))
	for day := range totals {
		days = append(days, day)
	}

	sort.Slice(days, func(i, j int) bool {
		return days[i].Before(days[j])
	})

	return days
}

// WeekdayName returns the Finnish weekday name for the given date
func WeekdayName(day time.Time) string {
	// time.Weekday counts from Sunday, the report counts from Monday
	return finnishWeekdays[(int(day.Weekday())+6)%7]
}

// FormatDate renders a date as pv.kk.vvvv without zero padding
func FormatDate(day time.Time) string {
	return fmt.Sprintf("%d.%d.%d", day.Day(), int(day.Month()), day.Year())
}

// FormatKWh renders a kilowatt hour value with two decimals and a
// comma as the decimal separator
func FormatKWh(value float64) string {
	return strings.Replace(fmt.Sprintf("%.2f", value), ".", ",", 1)
}
