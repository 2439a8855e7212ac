package fcm

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strconv"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/nandanugg/walkarea/module/core/domain"
	"github.com/nandanugg/walkarea/module/core/internal/repository/publisher"
)

var _ publisher.AlertPublisher = (*AlertPublisher)(nil)

const alertSound = "News_Flash_Loop.m4a"

type sender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// AlertPublisher pushes walk alerts to a single device through Firebase Cloud Messaging.
type AlertPublisher struct {
	client sender
	token  string
}

// NewAlertPublisher builds a publisher from a service-account file path, or
// from base64-encoded JSON when credentials does not look like a path.
func NewAlertPublisher(ctx context.Context, credentials, deviceToken string) (*AlertPublisher, error) {
	opt := option.WithCredentialsFile(credentials)
	if raw, err := base64.StdEncoding.DecodeString(credentials); err == nil && json.Valid(raw) {
		opt = option.WithCredentialsJSON(raw)
	}

	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, eris.Wrap(err, "initialize firebase app")
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "firebase messaging client")
	}

	return &AlertPublisher{client: client, token: deviceToken}, nil
}

func (p *AlertPublisher) PublishAlert(ctx context.Context, alert *domain.WalkAlert) error {
	msg := &messaging.Message{
		Token: p.token,
		Data: map[string]string{
			"type":       string(alert.Event),
			"session_id": alert.SessionID,
			"identifier": alert.Identifier,
			"distance":   strconv.FormatFloat(alert.Distance, 'f', 2, 64),
		},
		Android: &messaging.AndroidConfig{
			Priority:    "high",
			CollapseKey: alert.Identifier,
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{"apns-collapse-id": alert.Identifier},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{ContentAvailable: true},
			},
		},
	}

	// Only exits are shown to the user; return and withdrawal alerts are silent data messages.
	if alert.Event == domain.WalkAreaExit {
		msg.Notification = &messaging.Notification{
			Title: alert.Title,
			Body:  alert.Body,
		}
		msg.APNS.Payload.Aps.Sound = alertSound
	}

	id, err := p.client.Send(ctx, msg)
	if err != nil {
		return eris.Wrap(err, "send fcm message")
	}

	zap.L().Info("fcm alert sent",
		zap.String("message_id", id),
		zap.String("event", string(alert.Event)),
	)
	return nil
}
