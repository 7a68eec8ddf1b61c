package notify

import (
	"context"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const mqttTimeout = 10 * time.Second

type mqttPublisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

type mqttDisconnecter interface {
	Disconnect(quiesce uint)
}

// MQTTNotifier publishes notices as retained JSON messages on a topic.
type MQTTNotifier struct {
	client mqttPublisher
	topic  string
	qos    byte
}

// NewMQTTNotifier connects to broker and returns a notifier publishing on topic.
func NewMQTTNotifier(broker, topic, clientID string) (*MQTTNotifier, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectTimeout(mqttTimeout)
	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(mqttTimeout) {
		return nil, fmt.Errorf("mqtt connect to %s timed out", broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect to %s: %w", broker, err)
	}
	return &MQTTNotifier{client: client, topic: topic, qos: 1}, nil
}

// Notify publishes n and waits for the broker to acknowledge it.
func (m *MQTTNotifier) Notify(ctx context.Context, n Notice) error {
	data, err := encode(n)
	if err != nil {
		return err
	}
	token := m.client.Publish(m.topic, m.qos, true, data)
	select {
	case <-token.Done():
	case <-ctx.Done():
		return ctx.Err()
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt publish to %s: %w", m.topic, err)
	}
	return nil
}

// Close disconnects the underlying client.
func (m *MQTTNotifier) Close() error {
	if d, ok := m.client.(mqttDisconnecter); ok {
		d.Disconnect(250)
	}
	return nil
}
