package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"AstroChart/internal/domain/astro"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	c, err := Load(writeConfig(t, "environment: test\n"))
	require.NoError(t, err)

	assert.Equal(t, "test", c.Environment)
	assert.Equal(t, 8080, c.Server.Port)
	assert.Equal(t, 10*time.Second, c.Server.ReadTimeout)
	assert.Equal(t, 8.0, c.Chart.TimezoneOffsetHours)
	assert.Equal(t, 3.0, c.Chart.Orb)
	assert.Equal(t, "placidus", c.Chart.HouseSystem)
	assert.Equal(t, "zh-TW", c.Chart.Locale)
	assert.Equal(t, "traditional", c.Chart.RulerScheme)
	assert.True(t, c.Ephemeris.DownloadOnStart)
	assert.True(t, c.Cache.Enabled)
	assert.False(t, c.Archive.Enabled)

	bodies, err := c.Chart.BodyList()
	require.NoError(t, err)
	assert.Equal(t, astro.ExtendedBodies(), bodies)
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	c, err := Load(writeConfig(t, `
server:
  port: 9090
chart:
  timezone_offset_hours: -5
  orb: 6
  bodies: [Sun, Moon, Rahu]
  house_system: whole_sign
  locale: en
  ruler_scheme: modern
cache:
  enabled: false
`))
	require.NoError(t, err)

	assert.Equal(t, 9090, c.Server.Port)
	assert.Equal(t, -5.0, c.Chart.TimezoneOffsetHours)
	assert.Equal(t, 6.0, c.Chart.Orb)
	assert.False(t, c.Cache.Enabled)

	bodies, err := c.Chart.BodyList()
	require.NoError(t, err)
	assert.Equal(t, []astro.Body{astro.Sun, astro.Moon, astro.Rahu}, bodies)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"unknown body", "chart:\n  bodies: [Sun, Ceres]\n", "chart.bodies"},
		{"duplicate body", "chart:\n  bodies: [Sun, Sun]\n", "duplicate"},
		{"house system", "chart:\n  house_system: koch\n", "chart.house_system"},
		{"locale", "chart:\n  locale: fr\n", "chart.locale"},
		{"ruler scheme", "chart:\n  ruler_scheme: esoteric\n", "chart.ruler_scheme"},
		{"orb", "chart:\n  orb: 0\n", "chart.orb"},
		{"offset", "chart:\n  timezone_offset_hours: 20\n", "timezone_offset_hours"},
		{"events without brokers", "events:\n  enabled: true\n", "events.brokers"},
		{"port", "server:\n  port: 70000\n", "server.port"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("ASTRO_PORT", "7070")
	t.Setenv("ASTRO_EPHEMERIS_DIR", "/srv/ephe")
	t.Setenv("ASTRO_TZ_OFFSET_HOURS", "0")
	t.Setenv("ASTRO_LOCALE", "en")
	t.Setenv("ASTRO_KAFKA_BROKERS", "k1:9092,k2:9092")

	c, err := LoadWithEnv(writeConfig(t, "server:\n  port: 9090\nchart:\n  timezone_offset_hours: 8\n"))
	require.NoError(t, err)

	assert.Equal(t, 7070, c.Server.Port)
	assert.Equal(t, "/srv/ephe", c.Ephemeris.DataDir)
	assert.Equal(t, 0.0, c.Chart.TimezoneOffsetHours)
	assert.Equal(t, "en", c.Chart.Locale)
	assert.True(t, c.Events.Enabled)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, c.Events.Brokers)
	assert.Equal(t, "placidus", c.Chart.HouseSystem, "unset variables keep file values")
}
