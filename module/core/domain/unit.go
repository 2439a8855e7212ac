package domain

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownUnit = errors.New("unknown distance unit")

type DistanceUnit string

const (
	Meters     DistanceUnit = "meters"
	Yards      DistanceUnit = "yards"
	Kilometers DistanceUnit = "kilometers"
	Miles      DistanceUnit = "miles"
)

// AllUnits is the order units are offered to the user.
var AllUnits = []DistanceUnit{Kilometers, Meters, Miles, Yards}

var unitSymbols = map[DistanceUnit]string{
	Meters:     "m",
	Yards:      "yd",
	Kilometers: "km",
	Miles:      "mi",
}

// ParseDistanceUnit accepts either a unit name or its symbol, case-insensitively.
func ParseDistanceUnit(s string) (DistanceUnit, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, u := range AllUnits {
		if s == string(u) || s == unitSymbols[u] {
			return u, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownUnit, s)
}

func (u DistanceUnit) Valid() bool {
	_, ok := unitSymbols[u]
	return ok
}

func (u DistanceUnit) Symbol() string {
	return unitSymbols[u]
}
