package main

import (
	"encoding/json"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/smart-energy-dashboard/internal/config"
	"github.com/ANIKETSHETTY47/smart-energy-dashboard/internal/domain"
	"github.com/ANIKETSHETTY47/smart-energy-dashboard/internal/live"
)

const price = 0.15

func main() {
	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	if config.MQTTBroker() == "" {
		log.Fatal().Msg("MQTT_BROKER is not set")
	}
	client, err := live.Connect(config.MQTTBroker(), "simulator-"+uuid.NewString())
	if err != nil {
		log.Fatal().Err(err).Msg("mqtt connect")
	}
	defer client.Disconnect(250)

	topic := config.MQTTRealtimeTopic()
	for i := 0; i < 100; i++ {
		kwh := 1 + rand.Float64()*2
		snap := domain.RealtimeSnapshot{
			TotalConsumption: kwh,
			CostEstimate:     kwh * price,
			Timestamp:        time.Now().UTC(),
		}
		payload, _ := json.Marshal(snap)
		token := client.Publish(topic, 0, false, payload)
		token.Wait()
		if err := token.Error(); err != nil {
			log.Warn().Err(err).Msg("publish failed")
		}
		time.Sleep(500 * time.Millisecond)
	}
	log.Info().Msg("simulation done")
}
