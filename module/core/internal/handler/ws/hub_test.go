package ws

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/nandanugg/walkarea/module/core/domain"
)

func TestHub_BroadcastsEvents(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := NewHub()
	r := gin.New()
	hub.Register(r)

	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer func() { _ = conn.Close() }()

	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	ev := &domain.SessionEvent{
		SessionID: "s-1",
		Event:     domain.GeofenceEvent{Kind: domain.EventOutside, Distance: 120, ShouldNotify: true},
		Label:     "120.00 m",
		Timestamp: 1715003456,
	}
	if err := hub.PublishEvent(context.Background(), ev); err != nil {
		t.Fatalf("publish: %v", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var got domain.SessionEvent
	if err := json.Unmarshal(msg, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Event.Kind != domain.EventOutside || got.Label != "120.00 m" {
		t.Errorf("unexpected event: %+v", got)
	}
}

func TestHub_PublishWithoutClients(t *testing.T) {
	hub := NewHub()
	if err := hub.PublishEvent(context.Background(), &domain.SessionEvent{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
