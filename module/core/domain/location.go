package domain

import "time"

type Location struct {
	Lat       float64   `json:"latitude"`
	Lon       float64   `json:"longitude"`
	Accuracy  float64   `json:"accuracy"`
	Timestamp time.Time `json:"timestamp"`
}

func (l Location) Point() GeoPoint {
	return GeoPoint{Lat: l.Lat, Lon: l.Lon}
}

// Sample is one observed location of a walking session, as written to the sample log.
type Sample struct {
	SessionID string         `json:"session_id"`
	Location  Location       `json:"location"`
	Distance  float64        `json:"distance"`
	Status    GeofenceStatus `json:"status"`
}

type HistoryQuery struct {
	SessionID string
	Start     time.Time
	End       time.Time
}
