package domain

import (
	"errors"
	"time"
)

var (
	ErrNoSession      = errors.New("no walking session")
	ErrTrackingPaused = errors.New("tracking is paused")
)

// Session is a single walking session. Radius is in meters; Distance and Unit
// keep what the user entered.
type Session struct {
	ID        string       `json:"id"`
	Radius    float64      `json:"radius"`
	Distance  float64      `json:"distance"`
	Unit      DistanceUnit `json:"unit"`
	StartedAt time.Time    `json:"started_at"`
	Tracking  bool         `json:"tracking"`
}

type SessionStatus struct {
	Session      *Session       `json:"session"`
	Status       GeofenceStatus `json:"status"`
	Home         *GeoPoint      `json:"home,omitempty"`
	LastDistance float64        `json:"last_distance"`
	Label        string         `json:"label"`
	RegionSpan   float64        `json:"region_span"`
}

// SessionEvent is what the presentation layer receives for every observed sample.
type SessionEvent struct {
	SessionID string        `json:"session_id"`
	Event     GeofenceEvent `json:"event"`
	Label     string        `json:"label"`
	Timestamp int64         `json:"timestamp"`
}

var (
	ErrHomeNotEstablished = errors.New("home location not established yet")
	ErrNoSamples          = errors.New("no samples recorded")
)
