package service

import (
	"fmt"
	"math"

	"github.com/nandanugg/walkarea/module/core/domain"
)

// GeofenceMonitor tracks one walking area: a circle of fixed radius centered on
// the first position it observes. It is not safe for concurrent use.
type GeofenceMonitor struct {
	radius            float64
	home              *domain.GeoPoint
	status            domain.GeofenceStatus
	notificationArmed bool
}

func NewGeofenceMonitor(radius float64) (*GeofenceMonitor, error) {
	if !(radius > 0) {
		return nil, fmt.Errorf("%w: got %v", domain.ErrInvalidRadius, radius)
	}
	return &GeofenceMonitor{radius: radius, status: domain.StatusUnset}, nil
}

func (m *GeofenceMonitor) Radius() float64 { return m.radius }

func (m *GeofenceMonitor) Status() domain.GeofenceStatus { return m.status }

func (m *GeofenceMonitor) NotificationArmed() bool { return m.notificationArmed }

// Home returns the anchor point, or nil before the first observation.
func (m *GeofenceMonitor) Home() *domain.GeoPoint {
	if m.home == nil {
		return nil
	}
	h := *m.home
	return &h
}

// Reset forgets the home anchor. The radius is kept.
func (m *GeofenceMonitor) Reset() {
	m.home = nil
	m.status = domain.StatusUnset
	m.notificationArmed = false
}

// Observe classifies position against the walking area. The first position
// after construction or Reset becomes home. If distance fails, the monitor is
// left untouched and the error wraps domain.ErrDistanceComputationFailed.
func (m *GeofenceMonitor) Observe(position domain.GeoPoint, distance DistanceFunc) (domain.GeofenceEvent, error) {
	if m.home == nil {
		home := position
		m.home = &home
		m.status = domain.StatusInside
		return domain.GeofenceEvent{Kind: domain.EventHomeEstablished, Position: position}, nil
	}

	if distance == nil {
		return domain.GeofenceEvent{}, fmt.Errorf("%w: no distance function", domain.ErrDistanceComputationFailed)
	}
	d, err := distance(*m.home, position)
	if err != nil {
		return domain.GeofenceEvent{}, fmt.Errorf("%w: %w", domain.ErrDistanceComputationFailed, err)
	}
	if math.IsNaN(d) || d < 0 {
		return domain.GeofenceEvent{}, fmt.Errorf("%w: bad distance %v", domain.ErrDistanceComputationFailed, d)
	}

	if d < m.radius {
		m.status = domain.StatusInside
		m.notificationArmed = false
		return domain.GeofenceEvent{Kind: domain.EventInside, Position: position, Distance: d}, nil
	}

	m.status = domain.StatusOutside
	notify := !m.notificationArmed
	m.notificationArmed = true
	return domain.GeofenceEvent{
		Kind:         domain.EventOutside,
		Position:     position,
		Distance:     d,
		ShouldNotify: notify,
	}, nil
}
