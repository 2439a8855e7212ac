package service

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"

	"github.com/nandanugg/walkarea/module/core/domain"
	"github.com/nandanugg/walkarea/module/core/internal/repository/database"
	"github.com/nandanugg/walkarea/module/core/internal/repository/publisher"
)

type notificationSink interface {
	Notify(ctx context.Context, sessionID string, ev domain.GeofenceEvent, at time.Time) error
	Clear(ctx context.Context, sessionID string, ev domain.GeofenceEvent, at time.Time) error
	Reset(ctx context.Context, at time.Time) error
}

// SessionService owns the single walking session and serializes every sample
// that reaches its GeofenceMonitor.
type SessionService struct {
	mu       sync.Mutex
	repo     database.SampleRepository
	sink     notificationSink
	events   publisher.EventPublisher
	distance DistanceFunc
	now      func() time.Time
	newID    func() string

	session *domain.Session
	monitor *GeofenceMonitor
	last    *domain.GeofenceEvent
}

// NewSessionService wires a session owner. events may be nil.
func NewSessionService(repo database.SampleRepository, sink notificationSink, events publisher.EventPublisher, distance DistanceFunc) *SessionService {
	return &SessionService{
		repo:     repo,
		sink:     sink,
		events:   events,
		distance: distance,
		now:      time.Now,
		newID:    func() string { return uuid.NewString() },
	}
}

// Start begins a new walking session, replacing any current one.
func (s *SessionService) Start(ctx context.Context, distance float64, unit domain.DistanceUnit) (*domain.Session, error) {
	if !unit.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownUnit, unit)
	}
	if math.IsNaN(distance) || math.IsInf(distance, 0) {
		return nil, fmt.Errorf("%w: got %v", domain.ErrInvalidRadius, distance)
	}

	monitor, err := NewGeofenceMonitor(ToMeters(distance, unit))
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.session = &domain.Session{
		ID:        s.newID(),
		Radius:    monitor.Radius(),
		Distance:  distance,
		Unit:      unit,
		StartedAt: s.now(),
		Tracking:  true,
	}
	s.monitor = monitor
	s.last = nil
	s.withdrawAlerts(ctx)

	zap.L().Info("walking session started",
		zap.String("session_id", s.session.ID),
		zap.Float64("radius_m", s.session.Radius),
		zap.String("unit", string(unit)),
	)
	return s.copySession(), nil
}

// Restart drops the home anchor so the next sample establishes a new one.
func (s *SessionService) Restart(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return domain.ErrNoSession
	}
	s.monitor.Reset()
	s.last = nil
	s.session.Tracking = true
	s.withdrawAlerts(ctx)

	zap.L().Info("walking session restarted", zap.String("session_id", s.session.ID))
	return nil
}

func (s *SessionService) SetTracking(_ context.Context, tracking bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return domain.ErrNoSession
	}
	s.session.Tracking = tracking
	zap.L().Info("walking session tracking changed",
		zap.String("session_id", s.session.ID),
		zap.Bool("tracking", tracking),
	)
	return nil
}

func (s *SessionService) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return domain.ErrNoSession
	}
	zap.L().Info("walking session ended", zap.String("session_id", s.session.ID))
	s.session = nil
	s.monitor = nil
	s.last = nil
	s.withdrawAlerts(ctx)
	return nil
}

// Observe feeds one position sample to the monitor and dispatches the result.
// A failed distance computation leaves the session untouched and the sample is
// dropped. Sample log and presentation failures are logged, not returned.
func (s *SessionService) Observe(ctx context.Context, loc domain.Location) (domain.GeofenceEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return domain.GeofenceEvent{}, domain.ErrNoSession
	}
	if !s.session.Tracking {
		return domain.GeofenceEvent{}, domain.ErrTrackingPaused
	}

	ev, err := s.monitor.Observe(loc.Point(), s.distance)
	if err != nil {
		zap.L().Warn("skipping location sample",
			zap.String("session_id", s.session.ID),
			zap.Float64("lat", loc.Lat),
			zap.Float64("lon", loc.Lon),
			zap.Error(err),
		)
		return domain.GeofenceEvent{}, err
	}
	s.last = &ev

	at := loc.Timestamp
	if at.IsZero() {
		at = s.now()
		loc.Timestamp = at
	}

	sample := &domain.Sample{
		SessionID: s.session.ID,
		Location:  loc,
		Distance:  ev.Distance,
		Status:    ev.Status(),
	}
	if err := s.repo.Insert(ctx, sample); err != nil {
		zap.L().Error("save walk sample", zap.String("session_id", s.session.ID), zap.Error(err))
	}

	var dispatchErr error
	switch {
	case ev.Kind == domain.EventOutside:
		// every outside sample is offered to the sink so an undelivered alert
		// is retried; the sink drops alerts it already delivered
		dispatchErr = s.sink.Notify(ctx, s.session.ID, ev, at)
	case ev.Kind == domain.EventInside:
		dispatchErr = s.sink.Clear(ctx, s.session.ID, ev, at)
	}

	if s.events != nil {
		out := &domain.SessionEvent{
			SessionID: s.session.ID,
			Event:     ev,
			Label:     FormatDistance(ev.Distance, s.session.Unit),
			Timestamp: at.Unix(),
		}
		if err := s.events.PublishEvent(ctx, out); err != nil {
			zap.L().Warn("publish session event", zap.String("session_id", s.session.ID), zap.Error(err))
		}
	}

	if dispatchErr != nil {
		return ev, fmt.Errorf("dispatch notification: %w", dispatchErr)
	}
	return ev, nil
}

func (s *SessionService) Status() (*domain.SessionStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return nil, domain.ErrNoSession
	}

	st := &domain.SessionStatus{
		Session:    s.copySession(),
		Status:     s.monitor.Status(),
		Home:       s.monitor.Home(),
		RegionSpan: RegionSpan(s.session.Radius),
	}
	if s.last != nil {
		st.LastDistance = s.last.Distance
		st.Label = FormatDistance(s.last.Distance, s.session.Unit)
	}
	return st, nil
}

// Overlay returns the walking-area circle and the home marker for map display.
func (s *SessionService) Overlay(segments int) (*geom.Polygon, *geom.Point, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return nil, nil, domain.ErrNoSession
	}
	home := s.monitor.Home()
	if home == nil {
		return nil, nil, domain.ErrHomeNotEstablished
	}

	circle, err := CircleOverlay(*home, s.session.Radius, segments)
	if err != nil {
		return nil, nil, err
	}
	return circle, HomeMarker(*home), nil
}

func (s *SessionService) History(ctx context.Context, start, end time.Time) ([]domain.Sample, error) {
	id, err := s.currentID()
	if err != nil {
		return nil, err
	}
	return s.repo.GetHistory(ctx, &domain.HistoryQuery{SessionID: id, Start: start, End: end})
}

func (s *SessionService) LastSample(ctx context.Context) (*domain.Sample, error) {
	id, err := s.currentID()
	if err != nil {
		return nil, err
	}
	return s.repo.GetLatest(ctx, id)
}

// Sessions lists every session ID present in the sample log.
func (s *SessionService) Sessions(ctx context.Context) ([]string, error) {
	return s.repo.GetAllSessions(ctx)
}

func (s *SessionService) currentID() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return "", domain.ErrNoSession
	}
	return s.session.ID, nil
}

func (s *SessionService) withdrawAlerts(ctx context.Context) {
	if err := s.sink.Reset(ctx, s.now()); err != nil {
		zap.L().Warn("withdraw walk alerts", zap.Error(err))
	}
}

func (s *SessionService) copySession() *domain.Session {
	cp := *s.session
	return &cp
}
