package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nandanugg/walkarea/config"
	"github.com/nandanugg/walkarea/module/core"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := config.InitLogger(cfg.Log); err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zap.L().Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := config.NewDatabase(cfg)
	if err != nil {
		zap.L().Fatal("database", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	amqpConn, err := config.NewRabbitMQ(cfg)
	if err != nil {
		zap.L().Fatal("rabbitmq", zap.Error(err))
	}
	defer func() { _ = amqpConn.Close() }()

	mqttClient, err := config.NewMQTT(cfg)
	if err != nil {
		zap.L().Fatal("mqtt", zap.Error(err))
	}
	defer mqttClient.Disconnect(250)

	coreModule, err := core.Build(ctx, db, amqpConn, mqttClient, core.Options{
		MQTTTopic:        cfg.MQTT.Topic,
		DistanceModel:    cfg.Walk.DistanceModel,
		FCMCredentials:   cfg.FCM.CredentialsFile,
		FCMDeviceToken:   cfg.FCM.DeviceToken,
		MigrateOnStartup: cfg.Store.Migrate,
	})
	if err != nil {
		zap.L().Fatal("core module", zap.Error(err))
	}
	defer coreModule.Close()

	if err := coreModule.StartSubscribers(); err != nil {
		zap.L().Fatal("start subscribers", zap.Error(err))
	}

	r := gin.Default()

	health := config.NewHealthChecker(db, amqpConn, mqttClient)
	health.Register(r)

	coreModule.RegisterRoutes(&r.RouterGroup)

	go func() {
		zap.L().Info("listening", zap.String("port", cfg.HTTPPort))
		if err := r.Run(":" + cfg.HTTPPort); err != nil {
			zap.L().Error("server", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	zap.L().Info("shutting down")
}
