package subscriber

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/nandanugg/walkarea/module/core/domain"
)

const DefaultTopic = "walkarea/location"

type sessionService interface {
	Observe(ctx context.Context, loc domain.Location) (domain.GeofenceEvent, error)
}

type locationMessage struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Accuracy  float64 `json:"accuracy"`
	Timestamp int64   `json:"timestamp"`
}

// LocationSubscriber is the position source: every valid MQTT message is one
// sample for the walking session, handled in delivery order.
type LocationSubscriber struct {
	client     mqtt.Client
	topic      string
	sessionSvc sessionService
}

func NewLocationSubscriber(client mqtt.Client, topic string, sessionSvc sessionService) *LocationSubscriber {
	if topic == "" {
		topic = DefaultTopic
	}
	return &LocationSubscriber{
		client:     client,
		topic:      topic,
		sessionSvc: sessionSvc,
	}
}

func (s *LocationSubscriber) Start() error {
	token := s.client.Subscribe(s.topic, 1, s.handleMessage)
	token.Wait()
	return token.Error()
}

func (s *LocationSubscriber) handleMessage(_ mqtt.Client, msg mqtt.Message) {
	var raw locationMessage
	if err := json.Unmarshal(msg.Payload(), &raw); err != nil {
		zap.L().Warn("invalid location message", zap.Error(err))
		return
	}

	if err := validateLocationMessage(&raw); err != nil {
		zap.L().Warn("location validation error", zap.Error(err))
		return
	}

	loc := domain.Location{
		Lat:       raw.Latitude,
		Lon:       raw.Longitude,
		Accuracy:  raw.Accuracy,
		Timestamp: time.Unix(raw.Timestamp, 0),
	}

	ev, err := s.sessionSvc.Observe(context.Background(), loc)
	switch {
	case errors.Is(err, domain.ErrNoSession), errors.Is(err, domain.ErrTrackingPaused):
		zap.L().Debug("location ignored", zap.Error(err))
	case err != nil:
		zap.L().Error("observe location", zap.Error(err))
	default:
		zap.L().Debug("location observed",
			zap.String("kind", string(ev.Kind)),
			zap.Float64("distance", ev.Distance),
			zap.Bool("notify", ev.ShouldNotify),
		)
	}
}

func validateLocationMessage(msg *locationMessage) error {
	if msg.Latitude < -90 || msg.Latitude > 90 {
		return fmt.Errorf("latitude: must be between -90 and 90")
	}
	if msg.Longitude < -180 || msg.Longitude > 180 {
		return fmt.Errorf("longitude: must be between -180 and 180")
	}
	if msg.Accuracy < 0 {
		return fmt.Errorf("accuracy: must not be negative")
	}
	if msg.Timestamp <= 0 {
		return fmt.Errorf("timestamp: must be positive")
	}
	return nil
}
