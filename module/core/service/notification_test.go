package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nandanugg/walkarea/module/core/domain"
)

type mockAlertPublisher struct {
	publishAlertFn func(ctx context.Context, alert *domain.WalkAlert) error
	calls          []*domain.WalkAlert
}

func (m *mockAlertPublisher) PublishAlert(ctx context.Context, alert *domain.WalkAlert) error {
	m.calls = append(m.calls, alert)
	if m.publishAlertFn != nil {
		return m.publishAlertFn(ctx, alert)
	}
	return nil
}

var outsideEvent = domain.GeofenceEvent{
	Kind:         domain.EventOutside,
	Position:     domain.GeoPoint{Lat: 40.42, Lon: -3.70},
	Distance:     130,
	ShouldNotify: true,
}

func TestNotify_DeliversOnce(t *testing.T) {
	pub := &mockAlertPublisher{}
	nc := NewNotificationCenter(pub)
	at := time.Unix(1715003456, 0)

	if err := nc.Notify(context.Background(), "s-1", outsideEvent, at); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := nc.Notify(context.Background(), "s-1", outsideEvent, at); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(pub.calls) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(pub.calls))
	}
	alert := pub.calls[0]
	if alert.Event != domain.WalkAreaExit {
		t.Errorf("expected walk_area_exit, got %s", alert.Event)
	}
	if alert.Identifier != NotificationIdentifier {
		t.Errorf("expected %s, got %s", NotificationIdentifier, alert.Identifier)
	}
	if alert.Timestamp != 1715003456 {
		t.Errorf("expected 1715003456, got %d", alert.Timestamp)
	}
	if !nc.Pending(NotificationIdentifier) {
		t.Error("expected alert to be pending")
	}
}

func TestClear_OnlyWhenPending(t *testing.T) {
	pub := &mockAlertPublisher{}
	nc := NewNotificationCenter(pub)
	inside := domain.GeofenceEvent{Kind: domain.EventInside, Distance: 10}

	if err := nc.Clear(context.Background(), "s-1", inside, time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pub.calls) != 0 {
		t.Fatalf("expected no alerts, got %d", len(pub.calls))
	}

	_ = nc.Notify(context.Background(), "s-1", outsideEvent, time.Now())
	if err := nc.Clear(context.Background(), "s-1", inside, time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pub.calls) != 2 {
		t.Fatalf("expected 2 alerts, got %d", len(pub.calls))
	}
	if pub.calls[1].Event != domain.WalkAreaReturn {
		t.Errorf("expected walk_area_return, got %s", pub.calls[1].Event)
	}
	if nc.Pending(NotificationIdentifier) {
		t.Error("expected nothing pending after clear")
	}

	// next excursion alerts again
	_ = nc.Notify(context.Background(), "s-1", outsideEvent, time.Now())
	if len(pub.calls) != 3 {
		t.Fatalf("expected 3 alerts, got %d", len(pub.calls))
	}
}

func TestReset_WithdrawsDeliveredAlert(t *testing.T) {
	pub := &mockAlertPublisher{}
	nc := NewNotificationCenter(pub)

	_ = nc.Notify(context.Background(), "s-1", outsideEvent, time.Now())
	if err := nc.Reset(context.Background(), time.Unix(1715003999, 0)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if nc.Pending(NotificationIdentifier) {
		t.Error("expected nothing pending after reset")
	}
	if len(pub.calls) != 2 {
		t.Fatalf("expected exit and withdrawal alerts, got %d", len(pub.calls))
	}
	withdrawn := pub.calls[1]
	if withdrawn.Event != domain.WalkAreaWithdrawn {
		t.Errorf("expected walk_area_withdrawn, got %s", withdrawn.Event)
	}
	if withdrawn.SessionID != "s-1" || withdrawn.Identifier != NotificationIdentifier {
		t.Errorf("expected withdrawal of s-1/%s, got %s/%s", NotificationIdentifier, withdrawn.SessionID, withdrawn.Identifier)
	}
	if withdrawn.Timestamp != 1715003999 {
		t.Errorf("expected 1715003999, got %d", withdrawn.Timestamp)
	}

	// nothing left to withdraw
	if err := nc.Reset(context.Background(), time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pub.calls) != 2 {
		t.Errorf("second reset should not publish, got %d alerts", len(pub.calls))
	}
}

func TestReset_ForgetsEvenWhenWithdrawalFails(t *testing.T) {
	fail := false
	pub := &mockAlertPublisher{
		publishAlertFn: func(_ context.Context, _ *domain.WalkAlert) error {
			if fail {
				return errors.New("rabbitmq down")
			}
			return nil
		},
	}
	nc := NewNotificationCenter(pub)

	_ = nc.Notify(context.Background(), "s-1", outsideEvent, time.Now())
	fail = true
	if err := nc.Reset(context.Background(), time.Now()); err == nil {
		t.Fatal("expected error")
	}
	if nc.Pending(NotificationIdentifier) {
		t.Error("expected nothing pending after reset")
	}
}

func TestNotify_PartialFailure(t *testing.T) {
	ok := &mockAlertPublisher{}
	broken := &mockAlertPublisher{
		publishAlertFn: func(_ context.Context, _ *domain.WalkAlert) error {
			return errors.New("rabbitmq down")
		},
	}
	nc := NewNotificationCenter(broken, ok)

	err := nc.Notify(context.Background(), "s-1", outsideEvent, time.Now())
	if err == nil {
		t.Fatal("expected error")
	}
	if !nc.Pending(NotificationIdentifier) {
		t.Error("alert delivered by one publisher should count as delivered")
	}
}

func TestNotify_AllFail(t *testing.T) {
	broken := &mockAlertPublisher{
		publishAlertFn: func(_ context.Context, _ *domain.WalkAlert) error {
			return errors.New("rabbitmq down")
		},
	}
	nc := NewNotificationCenter(broken)

	if err := nc.Notify(context.Background(), "s-1", outsideEvent, time.Now()); err == nil {
		t.Fatal("expected error")
	}
	if nc.Pending(NotificationIdentifier) {
		t.Error("undelivered alert must not be pending")
	}
}

func TestNotify_RetriesUntilDelivered(t *testing.T) {
	attempts := 0
	pub := &mockAlertPublisher{
		publishAlertFn: func(_ context.Context, _ *domain.WalkAlert) error {
			attempts++
			if attempts == 1 {
				return errors.New("rabbitmq down")
			}
			return nil
		},
	}
	nc := NewNotificationCenter(pub)

	retry := outsideEvent
	retry.ShouldNotify = false

	if err := nc.Notify(context.Background(), "s-1", outsideEvent, time.Now()); err == nil {
		t.Fatal("expected error")
	}
	if err := nc.Notify(context.Background(), "s-1", retry, time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !nc.Pending(NotificationIdentifier) {
		t.Error("expected alert delivered on retry")
	}
	if attempts != 2 {
		t.Errorf("expected 2 attempts, got %d", attempts)
	}
}
