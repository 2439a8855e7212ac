package service

import (
	"fmt"

	"github.com/nandanugg/walkarea/module/core/domain"
)

const (
	metersPerYard = 0.914
	yardsPerMile  = 1760
)

// metersPer must stay total over domain.AllUnits.
var metersPer = map[domain.DistanceUnit]float64{
	domain.Meters:     1,
	domain.Yards:      metersPerYard,
	domain.Kilometers: 1000,
	domain.Miles:      yardsPerMile * metersPerYard,
}

var unitNames = map[domain.DistanceUnit]string{
	domain.Meters:     "meters",
	domain.Yards:      "yards",
	domain.Kilometers: "kilometers",
	domain.Miles:      "miles",
}

func ToMeters(value float64, unit domain.DistanceUnit) float64 {
	return value * metersPer[unit]
}

func FromMeters(value float64, unit domain.DistanceUnit) float64 {
	return value / metersPer[unit]
}

func UnitDisplayName(unit domain.DistanceUnit) string {
	return unitNames[unit]
}

func UnitSymbol(unit domain.DistanceUnit) string {
	return unit.Symbol()
}

// FormatDistance renders a metre distance in unit for the distance label, e.g. "1.25 km".
func FormatDistance(meters float64, unit domain.DistanceUnit) string {
	return fmt.Sprintf("%.2f %s", FromMeters(meters, unit), UnitSymbol(unit))
}
