package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("REMOTE_TIMEOUT_SECONDS", "")

	cfg := Load()

	assert.Equal(t, StoreDriverPostgres, cfg.StoreDriver)
	assert.Equal(t, 15*time.Second, cfg.RemoteTimeout)
	assert.Nil(t, cfg.AllowedOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Memory")
	t.Setenv("REMOTE_TIMEOUT_SECONDS", "3")
	t.Setenv("EVALUATION_RATE_LIMIT", "nope")
	t.Setenv("ALLOWED_ORIGINS", "https://a.test, ,https://b.test")

	cfg := Load()

	assert.Equal(t, StoreDriverMemory, cfg.StoreDriver)
	assert.Equal(t, 3*time.Second, cfg.RemoteTimeout)
	assert.Equal(t, 30, cfg.EvaluationRateLimit)
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, cfg.AllowedOrigins)
}

func TestRemoteBaseURL(t *testing.T) {
	cfg := &Config{RemoteStoreURL: "https://api.test/database/", RemoteProjectID: "p1", RemoteAuthURL: "https://api.test/auth"}
	assert.Equal(t, "https://api.test/database/p1", cfg.RemoteBaseURL())
	assert.Equal(t, "https://api.test/auth/p1", cfg.RemoteAuthBaseURL())
}
