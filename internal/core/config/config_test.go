package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsAndEnvOverrides(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("SUPABASE_URL", "https://proj.supabase.co")
	t.Setenv("SUPABASE_SERVICE_ROLE_KEY", "svc-key")
	t.Setenv("PORT", "9001")

	c := Load("")
	require.NotNil(t, c)

	assert.Equal(t, "dashboard-bff", c.App.Name)
	assert.Equal(t, 9001, c.App.HTTP.Port)
	assert.Equal(t, "https://proj.supabase.co", c.Supabase.URL)
	assert.Equal(t, "svc-key", c.Supabase.ServiceKey)
	assert.Equal(t, "logos", c.Supabase.LogoBucket)
	assert.Equal(t, "avatars", c.Supabase.AvatarBucket)
	assert.Equal(t, 30*time.Second, c.Supabase.Timeout())

	assert.Empty(t, c.Warnings())
}

func TestMissingCredentialsWarnButDoNotFail(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("SUPABASE_URL", "")
	t.Setenv("SUPABASE_SERVICE_ROLE_KEY", "")
	t.Setenv("PORT", "")

	c := Load("")
	require.NotNil(t, c, "startup must survive missing upstream credentials")
	assert.Len(t, c.Warnings(), 2)
}
