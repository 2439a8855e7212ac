package domain

import "errors"

var (
	ErrInvalidRadius             = errors.New("radius must be greater than zero")
	ErrDistanceComputationFailed = errors.New("distance computation failed")
	ErrInvalidCoordinate         = errors.New("invalid coordinate")
)

type GeoPoint struct {
	Lat float64 `json:"latitude"`
	Lon float64 `json:"longitude"`
}

type GeofenceStatus string

const (
	StatusUnset   GeofenceStatus = "unset"
	StatusInside  GeofenceStatus = "inside"
	StatusOutside GeofenceStatus = "outside"
)

type GeofenceEventType string

const (
	EventHomeEstablished GeofenceEventType = "home_established"
	EventInside          GeofenceEventType = "inside"
	EventOutside         GeofenceEventType = "outside"
)

// GeofenceEvent is the result of feeding one position sample to a monitor.
// Distance is zero for EventHomeEstablished. ShouldNotify is only ever set on
// EventOutside, for the first sample of an excursion.
type GeofenceEvent struct {
	Kind         GeofenceEventType `json:"kind"`
	Position     GeoPoint          `json:"position"`
	Distance     float64           `json:"distance"`
	ShouldNotify bool              `json:"should_notify"`
}

func (e GeofenceEvent) Status() GeofenceStatus {
	if e.Kind == EventOutside {
		return StatusOutside
	}
	return StatusInside
}
