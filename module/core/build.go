package core

import (
	"context"
	"database/sql"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gin-gonic/gin"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rotisserie/eris"

	handler "github.com/nandanugg/walkarea/module/core/internal/handler/http"
	"github.com/nandanugg/walkarea/module/core/internal/handler/subscriber"
	"github.com/nandanugg/walkarea/module/core/internal/handler/ws"
	"github.com/nandanugg/walkarea/module/core/internal/repository/database/sqlstore"
	"github.com/nandanugg/walkarea/module/core/internal/repository/publisher"
	"github.com/nandanugg/walkarea/module/core/internal/repository/publisher/fcm"
	"github.com/nandanugg/walkarea/module/core/internal/repository/publisher/rabbitmq"
	"github.com/nandanugg/walkarea/module/core/service"
)

// Exchange and queue that walk alerts are published to.
const (
	AlertExchange = rabbitmq.ExchangeName
	AlertQueue    = rabbitmq.QueueName
)

type Options struct {
	MQTTTopic        string
	DistanceModel    string
	FCMCredentials   string
	FCMDeviceToken   string
	MigrateOnStartup bool
}

type Module struct {
	SessionSvc    *service.SessionService
	Notifications *service.NotificationCenter
	hub           *ws.Hub
	handler       *handler.SessionHandler
	subscriber    *subscriber.LocationSubscriber
}

func Build(ctx context.Context, db *sql.DB, amqpConn *amqp.Connection, mqttClient mqtt.Client, opts Options) (*Module, error) {
	if opts.MigrateOnStartup {
		if err := sqlstore.Migrate(ctx, db); err != nil {
			return nil, eris.Wrap(err, "sample log schema")
		}
	}
	sampleRepo := sqlstore.NewSampleRepo(db)

	distance, err := service.DistanceModel(opts.DistanceModel)
	if err != nil {
		return nil, eris.Wrap(err, "distance model")
	}

	alertPub, err := rabbitmq.NewAlertPublisher(amqpConn)
	if err != nil {
		return nil, eris.Wrap(err, "alert publisher")
	}
	publishers := []publisher.AlertPublisher{alertPub}

	if opts.FCMCredentials != "" && opts.FCMDeviceToken != "" {
		pushPub, err := fcm.NewAlertPublisher(ctx, opts.FCMCredentials, opts.FCMDeviceToken)
		if err != nil {
			return nil, eris.Wrap(err, "fcm publisher")
		}
		publishers = append(publishers, pushPub)
	}

	notifications := service.NewNotificationCenter(publishers...)
	hub := ws.NewHub()
	sessionSvc := service.NewSessionService(sampleRepo, notifications, hub, distance)

	h := handler.NewSessionHandler(sessionSvc)
	sub := subscriber.NewLocationSubscriber(mqttClient, opts.MQTTTopic, sessionSvc)

	return &Module{
		SessionSvc:    sessionSvc,
		Notifications: notifications,
		hub:           hub,
		handler:       h,
		subscriber:    sub,
	}, nil
}

func (m *Module) RegisterRoutes(r *gin.RouterGroup) {
	m.handler.Register(r)
	m.hub.Register(r)
}

func (m *Module) StartSubscribers() error {
	return m.subscriber.Start()
}

func (m *Module) Close() {
	m.hub.Close()
}
