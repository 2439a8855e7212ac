package main

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/nandanugg/walkarea/config"
)

type locationMessage struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Accuracy  float64 `json:"accuracy"`
	Timestamp int64   `json:"timestamp"`
}

const (
	homeLat = -6.2088
	homeLon = 106.8456

	// roughly one meter in degrees of latitude
	meterDeg = 1.0 / 111320
)

// walker wanders around home and every so often strays far enough to
// leave any reasonably sized walking area.
type walker struct {
	lat, lon float64
}

func (w *walker) step() {
	heading := rand.Float64() * 2 * math.Pi
	stride := 5 + rand.Float64()*20
	if rand.Float64() < 0.1 {
		stride *= 20
	}
	w.lat += math.Cos(heading) * stride * meterDeg
	w.lon += math.Sin(heading) * stride * meterDeg / math.Cos(w.lat*math.Pi/180)

	// drift back toward home
	w.lat += (homeLat - w.lat) * 0.2
	w.lon += (homeLon - w.lon) * 0.2
}

// walkerConfig derives the walker's connection settings from the server's.
// Client IDs must be unique per broker.
func walkerConfig(cfg *config.Config) *config.Config {
	out := *cfg
	out.MQTT.ClientID = cfg.MQTT.ClientID + "-walker"
	return &out
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <interval_seconds>\n", os.Args[0])
		os.Exit(1)
	}

	intervalSec, err := strconv.Atoi(os.Args[1])
	if err != nil || intervalSec <= 0 {
		fmt.Fprintf(os.Stderr, "error: interval must be a positive integer\n")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := config.InitLogger(cfg.Log); err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zap.L().Sync() }()

	client, err := config.NewMQTT(walkerConfig(cfg))
	if err != nil {
		zap.L().Fatal("mqtt", zap.Error(err))
	}
	defer client.Disconnect(250)

	zap.L().Info("publishing simulated walk",
		zap.String("broker", cfg.MQTT.Broker),
		zap.String("topic", cfg.MQTT.Topic),
		zap.Int("interval_seconds", intervalSec),
	)

	w := &walker{lat: homeLat, lon: homeLon}

	ticker := time.NewTicker(time.Duration(intervalSec) * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		w.step()

		msg := locationMessage{
			Latitude:  w.lat,
			Longitude: w.lon,
			Accuracy:  3 + rand.Float64()*12,
			Timestamp: time.Now().Unix(),
		}

		payload, _ := json.Marshal(msg)

		token := client.Publish(cfg.MQTT.Topic, 1, false, payload)
		if token.Wait() && token.Error() != nil {
			zap.L().Warn("publish location", zap.Error(token.Error()))
			continue
		}

		zap.L().Info("published location",
			zap.Float64("lat", msg.Latitude),
			zap.Float64("lon", msg.Longitude),
			zap.Float64("accuracy", msg.Accuracy),
		)
	}
}
