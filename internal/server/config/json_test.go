package config

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJsonConfig_UnmarshalDurations(t *testing.T) {
	raw := []byte(`{
		"endpoint_addr_http": ":9090",
		"database_dsn": "postgres://u:p@h:5432/db",
		"redis_addr": "redis:6379",
		"secret_key": "k",
		"access_token_validity_duration": "45m"
	}`)

	c := &JsonConfig{}
	require.NoError(t, json.Unmarshal(raw, c))

	assert.Equal(t, ":9090", c.EndpointAddrHTTP)
	assert.Equal(t, "postgres://u:p@h:5432/db", c.DatabaseDSN)
	assert.Equal(t, "redis:6379", c.RedisAddr)
	assert.Equal(t, "k", c.SecretKey)
	assert.Equal(t, 45*time.Minute, c.AccessTokenValidityDuration.Duration)
}

func TestJsonConfig_UnmarshalInvalidDuration(t *testing.T) {
	raw := []byte(`{"access_token_validity_duration": "banana"}`)
	c := &JsonConfig{}
	require.Error(t, json.Unmarshal(raw, c))
}
