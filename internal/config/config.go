package config

import (
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

func Load() error {
	// Backend API
	viper.SetDefault("API_URL", "http://localhost:8080/api")
	viper.SetDefault("HTTP_TIMEOUT", "0s") // 0 keeps the http.Client default

	// Listeners
	viper.SetDefault("DASHBOARD_ADDR", ":3000")
	viper.SetDefault("STUB_API_ADDR", ":8080")

	// View state
	viper.SetDefault("NOTICE_TTL", "3s")
	viper.SetDefault("REALTIME_POLL_INTERVAL", "10s")

	// Realtime feed (empty broker disables it)
	viper.SetDefault("MQTT_BROKER", "")
	viper.SetDefault("MQTT_REALTIME_TOPIC", "energy/realtime")

	// Export (empty bucket writes to EXPORT_DIR)
	viper.SetDefault("AWS_REGION", "us-east-1")
	viper.SetDefault("AWS_S3_BUCKET", "")
	viper.SetDefault("EXPORT_DIR", "exports")

	viper.SetDefault("LOG_LEVEL", "info")

	viper.AutomaticEnv()
	return nil
}

func APIURL() string                      { return strings.TrimRight(viper.GetString("API_URL"), "/") }
func HTTPTimeout() time.Duration          { return viper.GetDuration("HTTP_TIMEOUT") }
func DashboardAddr() string               { return viper.GetString("DASHBOARD_ADDR") }
func StubAPIAddr() string                 { return viper.GetString("STUB_API_ADDR") }
func NoticeTTL() time.Duration            { return viper.GetDuration("NOTICE_TTL") }
func RealtimePollInterval() time.Duration { return viper.GetDuration("REALTIME_POLL_INTERVAL") }
func MQTTBroker() string                  { return viper.GetString("MQTT_BROKER") }
func MQTTRealtimeTopic() string           { return viper.GetString("MQTT_REALTIME_TOPIC") }
func AWSRegion() string                   { return viper.GetString("AWS_REGION") }
func S3Bucket() string                    { return viper.GetString("AWS_S3_BUCKET") }
func ExportDir() string                   { return viper.GetString("EXPORT_DIR") }

// LogLevel falls back to info when LOG_LEVEL does not parse.
func LogLevel() zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(viper.GetString("LOG_LEVEL")))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
