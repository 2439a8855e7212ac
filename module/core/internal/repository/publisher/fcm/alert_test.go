package fcm

import (
	"context"
	"errors"
	"testing"

	"firebase.google.com/go/v4/messaging"

	"github.com/nandanugg/walkarea/module/core/domain"
)

type fakeSender struct {
	sent []*messaging.Message
	err  error
}

func (f *fakeSender) Send(_ context.Context, m *messaging.Message) (string, error) {
	f.sent = append(f.sent, m)
	if f.err != nil {
		return "", f.err
	}
	return "projects/walkarea/messages/1", nil
}

func TestPublishAlert_Exit(t *testing.T) {
	s := &fakeSender{}
	pub := &AlertPublisher{client: s, token: "device-token"}

	err := pub.PublishAlert(context.Background(), &domain.WalkAlert{
		Event:      domain.WalkAreaExit,
		Identifier: "too_far",
		Title:      "STOP",
		Body:       "You're leaving your walking area.",
		Distance:   101.5,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.sent) != 1 {
		t.Fatalf("expected 1 message, got %d", len(s.sent))
	}
	m := s.sent[0]
	if m.Token != "device-token" {
		t.Errorf("expected device-token, got %s", m.Token)
	}
	if m.Notification == nil || m.Notification.Title != "STOP" {
		t.Errorf("expected visible STOP notification, got %+v", m.Notification)
	}
	if m.APNS.Payload.Aps.Sound != alertSound {
		t.Errorf("expected sound %s, got %v", alertSound, m.APNS.Payload.Aps.Sound)
	}
	if m.Data["distance"] != "101.50" {
		t.Errorf("expected 101.50, got %s", m.Data["distance"])
	}
}

func TestPublishAlert_ReturnIsSilent(t *testing.T) {
	s := &fakeSender{}
	pub := &AlertPublisher{client: s, token: "device-token"}

	if err := pub.PublishAlert(context.Background(), &domain.WalkAlert{Event: domain.WalkAreaReturn, Identifier: "too_far"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.sent[0].Notification != nil {
		t.Error("return alert should not carry a visible notification")
	}
}

func TestPublishAlert_SendError(t *testing.T) {
	pub := &AlertPublisher{client: &fakeSender{err: errors.New("unavailable")}}
	if err := pub.PublishAlert(context.Background(), &domain.WalkAlert{Event: domain.WalkAreaExit}); err == nil {
		t.Fatal("expected error")
	}
}
