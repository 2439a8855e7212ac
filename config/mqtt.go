package config

import (
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rotisserie/eris"
)

func NewMQTT(cfg *Config) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTT.Broker).
		SetClientID(cfg.MQTT.ClientID).
		SetAutoReconnect(true).
		SetOrderMatters(true)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, eris.Wrap(token.Error(), "mqtt connect")
	}
	return client, nil
}
