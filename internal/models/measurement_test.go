package models

import (
	"errors"
	"testing"
	"time"
)

// TestRawMeterRecord_ToMeasurement tests the row conversion logic
func TestRawMeterRecord_ToMeasurement(t *testing.T) {
	tests := []struct {
		name        string
		record      RawMeterRecord
		wantErr     bool
		wantField   string
		checkValues func(*testing.T, Measurement)
	}{
		{
			name: "valid record with all values",
			record: RawMeterRecord{
				Timestamp:     "2024-10-14T06:00:00",
				ConsumptionWh: [PhaseCount]string{"500", "120.5", "0"},
				ProductionWh:  [PhaseCount]string{"0", "33.3", "1500"},
			},
			wantErr: false,
			checkValues: func(t *testing.T, m Measurement) {
				expectedDay := time.Date(2024, 10, 14, 0, 0, 0, 0, time.UTC)
				if !m.Day.Equal(expectedDay) {
					t.Errorf("Day = %v, want %v", m.Day, expectedDay)
				}

				if m.ConsumptionWh != (PhaseValues{500, 120.5, 0}) {
					t.Errorf("ConsumptionWh = %v, want %v", m.ConsumptionWh, PhaseValues{500, 120.5, 0})
				}

				if m.ProductionWh != (PhaseValues{0, 33.3, 1500}) {
					t.Errorf("ProductionWh = %v, want %v", m.ProductionWh, PhaseValues{0, 33.3, 1500})
				}
			},
		},
		{
			name: "timestamp keeps its own calendar date across offsets",
			record: RawMeterRecord{
				Timestamp:     "2024-10-15T01:30:00+03:00",
				ConsumptionWh: [PhaseCount]string{"1", "2", "3"},
				ProductionWh:  [PhaseCount]string{"0", "0", "0"},
			},
			wantErr: false,
			checkValues: func(t *testing.T, m Measurement) {
				// 01:30 local is 22:30 UTC the previous day; the wall
				// clock date wins.
				expectedDay := time.Date(2024, 10, 15, 0, 0, 0, 0, time.UTC)
				if !m.Day.Equal(expectedDay) {
					t.Errorf("Day = %v, want %v", m.Day, expectedDay)
				}
			},
		},
		{
			name: "timestamp with space separator",
			record: RawMeterRecord{
				Timestamp:     "2024-10-18 12:00:00",
				ConsumptionWh: [PhaseCount]string{"10", "20", "30"},
				ProductionWh:  [PhaseCount]string{"1", "2", "3"},
			},
			wantErr: false,
			checkValues: func(t *testing.T, m Measurement) {
				expectedDay := time.Date(2024, 10, 18, 0, 0, 0, 0, time.UTC)
				if !m.Day.Equal(expectedDay) {
					t.Errorf("Day = %v, want %v", m.Day, expectedDay)
				}
			},
		},
		{
			name: "minute precision timestamp",
			record: RawMeterRecord{
				Timestamp:     "2024-10-15T08:30",
				ConsumptionWh: [PhaseCount]string{"1", "1", "1"},
				ProductionWh:  [PhaseCount]string{"1", "1", "1"},
			},
			wantErr: false,
			checkValues: func(t *testing.T, m Measurement) {
				expectedDay := time.Date(2024, 10, 15, 0, 0, 0, 0, time.UTC)
				if !m.Day.Equal(expectedDay) {
					t.Errorf("Day = %v, want %v", m.Day, expectedDay)
				}
			},
		},
		{
			name: "bare date timestamp",
			record: RawMeterRecord{
				Timestamp:     "2024-10-16",
				ConsumptionWh: [PhaseCount]string{"1", "1", "1"},
				ProductionWh:  [PhaseCount]string{"1", "1", "1"},
			},
			wantErr: false,
			checkValues: func(t *testing.T, m Measurement) {
				expectedDay := time.Date(2024, 10, 16, 0, 0, 0, 0, time.UTC)
				if !m.Day.Equal(expectedDay) {
					t.Errorf("Day = %v, want %v", m.Day, expectedDay)
				}
			},
		},
		{
			name: "negative energy value is accepted",
			record: RawMeterRecord{
				Timestamp:     "2024-10-14T06:00:00",
				ConsumptionWh: [PhaseCount]string{"-12.5", "0", "0"},
				ProductionWh:  [PhaseCount]string{"0", "0", "0"},
			},
			wantErr: false,
			checkValues: func(t *testing.T, m Measurement) {
				if m.ConsumptionWh[0] != -12.5 {
					t.Errorf("ConsumptionWh[0] = %v, want %v", m.ConsumptionWh[0], -12.5)
				}
			},
		},
		{
			name: "malformed timestamp",
			record: RawMeterRecord{
				Timestamp:     "14.10.2024 06:00",
				ConsumptionWh: [PhaseCount]string{"1", "1", "1"},
				ProductionWh:  [PhaseCount]string{"1", "1", "1"},
			},
			wantErr:   true,
			wantField: "Aika",
		},
		{
			name: "empty timestamp",
			record: RawMeterRecord{
				Timestamp:     "",
				ConsumptionWh: [PhaseCount]string{"1", "1", "1"},
				ProductionWh:  [PhaseCount]string{"1", "1", "1"},
			},
			wantErr:   true,
			wantField: "Aika",
		},
		{
			name: "non-numeric consumption value",
			record: RawMeterRecord{
				Timestamp:     "2024-10-14T06:00:00",
				ConsumptionWh: [PhaseCount]string{"500", "abc", "0"},
				ProductionWh:  [PhaseCount]string{"0", "0", "0"},
			},
			wantErr:   true,
			wantField: "Kulutus vaihe 2 Wh",
		},
		{
			name: "decimal comma energy value is rejected",
			record: RawMeterRecord{
				Timestamp:     "2024-10-14T06:00:00",
				ConsumptionWh: [PhaseCount]string{"1,5", "0", "0"},
				ProductionWh:  [PhaseCount]string{"0", "0", "0"},
			},
			wantErr:   true,
			wantField: "Kulutus vaihe 1 Wh",
		},
		{
			name: "empty production value",
			record: RawMeterRecord{
				Timestamp:     "2024-10-14T06:00:00",
				ConsumptionWh: [PhaseCount]string{"500", "0", "0"},
				ProductionWh:  [PhaseCount]string{"0", "0", ""},
			},
			wantErr:   true,
			wantField: "Tuotanto vaihe 3 Wh",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := tt.record.ToMeasurement()

			if (err != nil) != tt.wantErr {
				t.Errorf("ToMeasurement() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if tt.wantErr {
				var parseErr *ParseError
				if !errors.As(err, &parseErr) {
					t.Fatalf("error %v is not a *ParseError", err)
				}
				if parseErr.Field != tt.wantField {
					t.Errorf("ParseError.Field = %q, want %q", parseErr.Field, tt.wantField)
				}
				return
			}

			if tt.checkValues != nil {
				tt.checkValues(t, m)
			}
		})
	}
}

// TestDayOf tests calendar date truncation
func TestDayOf(t *testing.T) {
	helsinki := time.FixedZone("EEST", 3*60*60)
	in := time.Date(2024, 10, 14, 23, 59, 59, 0, helsinki)

	got := DayOf(in)
	want := time.Date(2024, 10, 14, 0, 0, 0, 0, time.UTC)

	if !got.Equal(want) {
		t.Errorf("DayOf() = %v, want %v", got, want)
	}
}

// TestPhaseValues_Add tests phase-wise addition
func TestPhaseValues_Add(t *testing.T) {
	a := PhaseValues{1, 2, 3}
	b := PhaseValues{10, 20, 30}

	got := a.Add(b)
	want := PhaseValues{11, 22, 33}

	if got != want {
		t.Errorf("Add() = %v, want %v", got, want)
	}

	// Value semantics: the receiver must be untouched.
	if a != (PhaseValues{1, 2, 3}) {
		t.Errorf("receiver mutated: %v", a)
	}
}

// TestPhaseValues_DividedBy tests phase-wise division
func TestPhaseValues_DividedBy(t *testing.T) {
	v := PhaseValues{500, 1500, 0}

	got := v.DividedBy(WhPerKWh)
	want := PhaseValues{0.5, 1.5, 0}

	if got != want {
		t.Errorf("DividedBy() = %v, want %v", got, want)
	}
}

// TestRequiredColumns tests the input header contract
func TestRequiredColumns(t *testing.T) {
	got := RequiredColumns()
	want := []string{
		"Aika",
		"Kulutus vaihe 1 Wh",
		"Kulutus vaihe 2 Wh",
		"Kulutus vaihe 3 Wh",
		"Tuotanto vaihe 1 Wh",
		"Tuotanto vaihe 2 Wh",
		"Tuotanto vaihe 3 Wh",
	}

	if len(got) != len(want) {
		t.Fatalf("RequiredColumns() returned %d columns, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("RequiredColumns()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

// TestParseError tests error formatting
func TestParseError(t *testing.T) {
	err := &ParseError{
		Field:   "Aika",
		Value:   "garbage",
		Message: "timestamp is not an ISO-8601 date-time",
	}

	if err.Error() != "Aika: timestamp is not an ISO-8601 date-time" {
		t.Errorf("Error() = %q", err.Error())
	}

	bare := &ParseError{Message: "row is malformed"}
	if bare.Error() != "row is malformed" {
		t.Errorf("Error() = %q", bare.Error())
	}
}
