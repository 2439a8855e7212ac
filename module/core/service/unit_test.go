package service

import (
	"math"
	"testing"

	"github.com/nandanugg/walkarea/module/core/domain"
)

func TestToMeters(t *testing.T) {
	tests := []struct {
		unit domain.DistanceUnit
		in   float64
		want float64
	}{
		{domain.Meters, 250, 250},
		{domain.Yards, 100, 91.4},
		{domain.Kilometers, 1.5, 1500},
		{domain.Miles, 1, 1760 * 0.914},
	}

	for _, tt := range tests {
		t.Run(string(tt.unit), func(t *testing.T) {
			if got := ToMeters(tt.in, tt.unit); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ToMeters(%v, %s) = %v, want %v", tt.in, tt.unit, got, tt.want)
			}
		})
	}
}

func TestUnitRoundTrip(t *testing.T) {
	values := []float64{0, 1, 2.5, 99.99, 1234.567, 1e6}
	for _, u := range domain.AllUnits {
		for _, v := range values {
			got := FromMeters(ToMeters(v, u), u)
			if math.Abs(got-v) > 1e-9*math.Max(1, v) {
				t.Errorf("%s: round trip of %v gave %v", u, v, got)
			}
		}
	}
}

func TestUnitRoundTrip_AbsoluteTolerance(t *testing.T) {
	values := []float64{0, 0.001, 0.5, 1, 3.3, 42, 99.99, 500, 999.999, 1000}
	for _, u := range domain.AllUnits {
		for _, v := range values {
			if got := FromMeters(ToMeters(v, u), u); math.Abs(got-v) > 1e-9 {
				t.Errorf("%s: round trip of %v gave %v", u, v, got)
			}
		}
	}
}

func TestUnitLabels(t *testing.T) {
	for _, u := range domain.AllUnits {
		if UnitDisplayName(u) == "" {
			t.Errorf("%s: empty display name", u)
		}
		if UnitSymbol(u) == "" {
			t.Errorf("%s: empty symbol", u)
		}
	}
}

func TestFormatDistance(t *testing.T) {
	if got := FormatDistance(1500, domain.Kilometers); got != "1.50 km" {
		t.Errorf("expected 1.50 km, got %s", got)
	}
	if got := FormatDistance(91.4, domain.Yards); got != "100.00 yd" {
		t.Errorf("expected 100.00 yd, got %s", got)
	}
}

func TestParseDistanceUnit(t *testing.T) {
	tests := []struct {
		in      string
		want    domain.DistanceUnit
		wantErr bool
	}{
		{"meters", domain.Meters, false},
		{"KM", domain.Kilometers, false},
		{" mi ", domain.Miles, false},
		{"yd", domain.Yards, false},
		{"furlongs", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := domain.ParseDistanceUnit(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDistanceUnit(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseDistanceUnit(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}
