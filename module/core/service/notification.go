package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nandanugg/walkarea/module/core/domain"
	"github.com/nandanugg/walkarea/module/core/internal/repository/publisher"
)

const (
	NotificationIdentifier = "too_far"

	exitTitle   = "STOP"
	exitBody    = "You're leaving your walking area."
	returnTitle = "Welcome back"
	returnBody  = "You're back inside your walking area."
)

// NotificationCenter delivers walk alerts through a set of publishers and
// remembers which alert identifiers are pending or delivered, so a single
// excursion never produces two exit alerts.
type NotificationCenter struct {
	mu         sync.Mutex
	publishers []publisher.AlertPublisher
	delivered  map[string]*domain.WalkAlert
}

func NewNotificationCenter(pubs ...publisher.AlertPublisher) *NotificationCenter {
	return &NotificationCenter{
		publishers: pubs,
		delivered:  make(map[string]*domain.WalkAlert),
	}
}

// Notify sends an exit alert unless one is already pending or delivered.
func (n *NotificationCenter) Notify(ctx context.Context, sessionID string, ev domain.GeofenceEvent, at time.Time) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.delivered[NotificationIdentifier] != nil {
		return nil
	}

	alert := &domain.WalkAlert{
		SessionID:  sessionID,
		Event:      domain.WalkAreaExit,
		Identifier: NotificationIdentifier,
		Title:      exitTitle,
		Body:       exitBody,
		Location:   ev.Position,
		Distance:   ev.Distance,
		Timestamp:  at.Unix(),
	}
	sent, err := n.publish(ctx, alert)
	if sent > 0 {
		n.delivered[NotificationIdentifier] = alert
	}
	return err
}

// Clear withdraws a pending exit alert, telling the publishers the walker is back.
// It is a no-op when nothing is pending.
func (n *NotificationCenter) Clear(ctx context.Context, sessionID string, ev domain.GeofenceEvent, at time.Time) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.delivered[NotificationIdentifier] == nil {
		return nil
	}
	delete(n.delivered, NotificationIdentifier)

	alert := &domain.WalkAlert{
		SessionID:  sessionID,
		Event:      domain.WalkAreaReturn,
		Identifier: NotificationIdentifier,
		Title:      returnTitle,
		Body:       returnBody,
		Location:   ev.Position,
		Distance:   ev.Distance,
		Timestamp:  at.Unix(),
	}
	_, err := n.publish(ctx, alert)
	return err
}

// Reset withdraws every delivered alert and forgets it. State is dropped even
// when a withdrawal cannot be published.
func (n *NotificationCenter) Reset(ctx context.Context, at time.Time) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	var errs []error
	for id, exit := range n.delivered {
		alert := &domain.WalkAlert{
			SessionID:  exit.SessionID,
			Event:      domain.WalkAreaWithdrawn,
			Identifier: id,
			Location:   exit.Location,
			Distance:   exit.Distance,
			Timestamp:  at.Unix(),
		}
		if _, err := n.publish(ctx, alert); err != nil {
			errs = append(errs, err)
		}
	}
	n.delivered = make(map[string]*domain.WalkAlert)
	return errors.Join(errs...)
}

func (n *NotificationCenter) Pending(identifier string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.delivered[identifier] != nil
}

func (n *NotificationCenter) publish(ctx context.Context, alert *domain.WalkAlert) (int, error) {
	var (
		sent int
		errs []error
	)
	for _, p := range n.publishers {
		if err := p.PublishAlert(ctx, alert); err != nil {
			zap.L().Warn("publish walk alert",
				zap.String("session_id", alert.SessionID),
				zap.String("event", string(alert.Event)),
				zap.Error(err),
			)
			errs = append(errs, err)
			continue
		}
		sent++
	}
	return sent, errors.Join(errs...)
}
