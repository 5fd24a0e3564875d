package contracts

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestCoverageReport_Rate(t *testing.T) {
	tests := []struct {
		name     string
		coverage map[string]float64
		want     float64
	}{
		{"empty", nil, 0},
		{"single column", map[string]float64{"roce": 0.8}, 0.8},
		{"averages columns", map[string]float64{"roce": 1.0, "pe": 0.5, "marketCap": 0.0}, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := CoverageReport{Coverage: tt.coverage}
			got := report.Rate()
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("Rate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCoverageReport_Worst(t *testing.T) {
	report := CoverageReport{Coverage: map[string]float64{
		"currentPrice": 1.0,
		"roce":         0.4,
		"peg":          0.4,
		"marketCap":    0.9,
	}}

	column, rate := report.Worst()
	if column != "peg" {
		t.Errorf("Worst() column = %q, want peg (alphabetical tie-break)", column)
	}
	if rate != 0.4 {
		t.Errorf("Worst() rate = %v, want 0.4", rate)
	}
}

func TestCoverageReport_WorstEmpty(t *testing.T) {
	var report CoverageReport

	column, rate := report.Worst()
	if column != "" || rate != 0 {
		t.Errorf("Worst() = (%q, %v), want empty", column, rate)
	}
}

func TestCoverageReport_JSONFieldNames(t *testing.T) {
	report := CoverageReport{
		LoadedAt:  time.Date(2026, time.August, 21, 18, 0, 0, 0, time.UTC),
		TotalRows: 120,
		Loaded:    118,
		Skipped:   1,
		Coverage:  map[string]float64{"roce": 0.95},
	}

	data, err := json.Marshal(report)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	for _, field := range []string{`"loadedAt"`, `"totalRows"`, `"loaded"`, `"skipped"`, `"coverage"`} {
		if !strings.Contains(string(data), field) {
			t.Errorf("marshalled report missing %s: %s", field, data)
		}
	}
}
