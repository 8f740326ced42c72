package live

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"

	"github.com/ANIKETSHETTY47/smart-energy-dashboard/internal/domain"
)

const disconnectQuiesce = 250 // ms

// Sink takes pushed realtime snapshots. It reports whether the snapshot was newer than the
// one it holds.
type Sink interface {
	ApplyRealtime(snap domain.RealtimeSnapshot) bool
}

// Connect opens an MQTT connection to broker.
func Connect(broker, clientID string) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectTimeout(10 * time.Second)
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect %s: %w", broker, token.Error())
	}
	return client, nil
}

// Subscriber feeds realtime snapshots published on an MQTT topic into a Sink.
type Subscriber struct {
	client mqtt.Client
	topic  string
	sink   Sink
	log    zerolog.Logger
}

func NewSubscriber(client mqtt.Client, topic string, sink Sink, logger zerolog.Logger) *Subscriber {
	return &Subscriber{
		client: client,
		topic:  topic,
		sink:   sink,
		log:    logger.With().Str("component", "subscriber").Str("topic", topic).Logger(),
	}
}

func (s *Subscriber) Start() error {
	if token := s.client.Subscribe(s.topic, 0, s.Handle); token.Wait() && token.Error() != nil {
		return fmt.Errorf("subscribe %s: %w", s.topic, token.Error())
	}
	s.log.Info().Msg("realtime feed subscribed")
	return nil
}

func (s *Subscriber) Stop() {
	if token := s.client.Unsubscribe(s.topic); token.Wait() && token.Error() != nil {
		s.log.Warn().Err(token.Error()).Msg("unsubscribe failed")
	}
	s.client.Disconnect(disconnectQuiesce)
}

// Handle decodes one message. Malformed payloads are logged and dropped.
func (s *Subscriber) Handle(_ mqtt.Client, msg mqtt.Message) {
	var snap domain.RealtimeSnapshot
	if err := json.Unmarshal(msg.Payload(), &snap); err != nil {
		s.log.Error().Err(err).Msg("decode realtime snapshot")
		return
	}
	if err := domain.Validate(snap); err != nil {
		s.log.Error().Err(err).Msg("invalid realtime snapshot")
		return
	}
	if !s.sink.ApplyRealtime(snap) {
		s.log.Debug().Time("timestamp", snap.Timestamp).Msg("older snapshot ignored")
	}
}
