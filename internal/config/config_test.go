package config

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	require.NoError(t, Load())

	assert.Equal(t, "http://localhost:8080/api", APIURL())
	assert.Equal(t, time.Duration(0), HTTPTimeout())
	assert.Equal(t, ":3000", DashboardAddr())
	assert.Equal(t, ":8080", StubAPIAddr())
	assert.Equal(t, 3*time.Second, NoticeTTL())
	assert.Equal(t, 10*time.Second, RealtimePollInterval())
	assert.Empty(t, MQTTBroker())
	assert.Equal(t, "energy/realtime", MQTTRealtimeTopic())
	assert.Equal(t, "us-east-1", AWSRegion())
	assert.Empty(t, S3Bucket())
	assert.Equal(t, "exports", ExportDir())
	assert.Equal(t, zerolog.InfoLevel, LogLevel())
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("API_URL", "https://energy.example.com/api/")
	t.Setenv("NOTICE_TTL", "1500ms")
	t.Setenv("LOG_LEVEL", "DEBUG")
	require.NoError(t, Load())

	assert.Equal(t, "https://energy.example.com/api", APIURL())
	assert.Equal(t, 1500*time.Millisecond, NoticeTTL())
	assert.Equal(t, zerolog.DebugLevel, LogLevel())

	t.Setenv("LOG_LEVEL", "chatty")
	assert.Equal(t, zerolog.InfoLevel, LogLevel())
}
