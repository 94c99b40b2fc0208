package progress

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"
)

const publishTimeout = 5 * time.Second

// MQTTReporter publishes every event as JSON to a topic, for dashboards that
// watch long renders.
type MQTTReporter struct {
	client mqtt.Client
	topic  string
}

// MQTTOptions mirror the config file's mqtt section.
type MQTTOptions struct {
	URL      string
	ClientID string
	Username string
	Password string
	Topic    string
}

func NewMQTTReporter(opts MQTTOptions) (*MQTTReporter, error) {
	options := mqtt.NewClientOptions().
		AddBroker(opts.URL).
		SetClientID(opts.ClientID).
		SetUsername(opts.Username).
		SetPassword(opts.Password).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(5 * time.Second).
		SetConnectTimeout(publishTimeout)
	client := mqtt.NewClient(options)

	token := client.Connect()
	if !token.WaitTimeout(publishTimeout) {
		return nil, fmt.Errorf("mqtt connect %s: timeout", opts.URL)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect %s: %w", opts.URL, err)
	}
	return newMQTTReporter(client, opts.Topic), nil
}

func newMQTTReporter(client mqtt.Client, topic string) *MQTTReporter {
	return &MQTTReporter{client: client, topic: topic}
}

// Report publishes with QoS 1. A failed publish is logged and otherwise
// ignored; progress is not worth failing a render for.
func (r *MQTTReporter) Report(e Event) {
	payload, err := json.Marshal(e)
	if err != nil {
		log.Warnf("[!] mqtt: %v", err)
		return
	}
	token := r.client.Publish(r.topic, 1, false, payload)
	if token.WaitTimeout(publishTimeout) && token.Error() != nil {
		log.Warnf("[!] mqtt publish: %v", token.Error())
	}
}

func (r *MQTTReporter) Close() error {
	r.client.Disconnect(250)
	return nil
}
