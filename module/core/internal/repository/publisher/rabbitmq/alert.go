package rabbitmq

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rotisserie/eris"

	"github.com/nandanugg/walkarea/module/core/domain"
	"github.com/nandanugg/walkarea/module/core/internal/repository/publisher"
)

var _ publisher.AlertPublisher = (*AlertPublisher)(nil)

const (
	ExchangeName = "walkarea.events"
	QueueName    = "walk_alerts"
)

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type AlertPublisher struct {
	ch channel
}

func NewAlertPublisher(conn *amqp.Connection) (*AlertPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, eris.Wrap(err, "rabbitmq channel")
	}

	if err := ch.ExchangeDeclare(ExchangeName, "fanout", true, false, false, false, nil); err != nil {
		return nil, eris.Wrap(err, "declare exchange")
	}

	if _, err := ch.QueueDeclare(QueueName, true, false, false, false, nil); err != nil {
		return nil, eris.Wrap(err, "declare queue")
	}

	if err := ch.QueueBind(QueueName, "", ExchangeName, false, nil); err != nil {
		return nil, eris.Wrap(err, "bind queue")
	}

	return &AlertPublisher{ch: ch}, nil
}

type alertMessage struct {
	SessionID  string               `json:"session_id"`
	Event      domain.WalkAlertType `json:"event"`
	Identifier string               `json:"identifier"`
	Title      string               `json:"title"`
	Body       string               `json:"body"`
	Location   alertLocation        `json:"location"`
	Distance   float64              `json:"distance"`
	Timestamp  int64                `json:"timestamp"`
}

type alertLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (p *AlertPublisher) PublishAlert(ctx context.Context, alert *domain.WalkAlert) error {
	msg := alertMessage{
		SessionID:  alert.SessionID,
		Event:      alert.Event,
		Identifier: alert.Identifier,
		Title:      alert.Title,
		Body:       alert.Body,
		Location: alertLocation{
			Latitude:  alert.Location.Lat,
			Longitude: alert.Location.Lon,
		},
		Distance:  alert.Distance,
		Timestamp: alert.Timestamp,
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return eris.Wrap(err, "marshal alert")
	}

	return p.ch.PublishWithContext(ctx, ExchangeName, "", false, false, amqp.Publishing{
		ContentType: "application/json",
		MessageId:   alert.Identifier,
		Type:        string(alert.Event),
		Body:        body,
	})
}
