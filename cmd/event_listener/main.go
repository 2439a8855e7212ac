package main

import (
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/nandanugg/walkarea/config"
	"github.com/nandanugg/walkarea/module/core"
)

type walkAlert struct {
	SessionID string  `json:"session_id"`
	Event     string  `json:"event"`
	Title     string  `json:"title"`
	Body      string  `json:"body"`
	Distance  float64 `json:"distance"`
	Timestamp int64   `json:"timestamp"`
}

func handleAlert(logger *zap.Logger, body []byte) {
	var alert walkAlert
	if err := json.Unmarshal(body, &alert); err != nil {
		logger.Warn("invalid alert payload", zap.Error(err))
		return
	}
	logger.Info("walk alert",
		zap.String("event", alert.Event),
		zap.String("session_id", alert.SessionID),
		zap.String("title", alert.Title),
		zap.String("body", alert.Body),
		zap.Float64("distance", alert.Distance),
		zap.Int64("timestamp", alert.Timestamp),
	)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := config.InitLogger(cfg.Log); err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zap.L().Sync() }()

	conn, err := config.NewRabbitMQ(cfg)
	if err != nil {
		zap.L().Fatal("rabbitmq", zap.Error(err))
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		zap.L().Fatal("rabbitmq channel", zap.Error(err))
	}
	defer func() { _ = ch.Close() }()

	if err := ch.ExchangeDeclare(core.AlertExchange, "fanout", true, false, false, false, nil); err != nil {
		zap.L().Fatal("declare exchange", zap.Error(err))
	}

	if _, err := ch.QueueDeclare(core.AlertQueue, true, false, false, false, nil); err != nil {
		zap.L().Fatal("declare queue", zap.Error(err))
	}

	if err := ch.QueueBind(core.AlertQueue, "", core.AlertExchange, false, nil); err != nil {
		zap.L().Fatal("bind queue", zap.Error(err))
	}

	msgs, err := ch.Consume(core.AlertQueue, "", true, false, false, false, nil)
	if err != nil {
		zap.L().Fatal("consume", zap.Error(err))
	}

	zap.L().Info("waiting for walk alerts", zap.String("queue", core.AlertQueue))

	go func() {
		for msg := range msgs {
			handleAlert(zap.L(), msg.Body)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	zap.L().Info("shutting down")
}
