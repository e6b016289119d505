package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://localhost:4000/api", c.APIBaseURL)
	assert.Equal(t, 15*time.Second, c.RequestTimeout)
	assert.Equal(t, 400*time.Millisecond, c.SearchDebounce)
	assert.Equal(t, 12, c.PageSize)
	assert.NotEmpty(t, c.SessionFile)
	assert.NotEmpty(t, c.DownloadDir)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, "http://localhost:4000/api", cfg.APIBaseURL)
	assert.Equal(t, 400*time.Millisecond, cfg.SearchDebounce)
}

func TestParseEnv_Overrides(t *testing.T) {
	t.Setenv("MEMORYLANE_API_URL", "https://api.example.com/api")
	t.Setenv("MEMORYLANE_DEBOUNCE", "250ms")
	t.Setenv("MEMORYLANE_PAGE_SIZE", "24")
	t.Setenv("MEMORYLANE_DEBUG", "true")

	var c Config
	c.LoadDefaults()
	parseEnv(&c)

	assert.Equal(t, "https://api.example.com/api", c.APIBaseURL)
	assert.Equal(t, 250*time.Millisecond, c.SearchDebounce)
	assert.Equal(t, 24, c.PageSize)
	assert.True(t, c.Debug)
}

func TestParseEnv_IgnoresMalformedValues(t *testing.T) {
	t.Setenv("MEMORYLANE_DEBOUNCE", "whenever")
	t.Setenv("MEMORYLANE_PAGE_SIZE", "-3")

	var c Config
	c.LoadDefaults()
	parseEnv(&c)

	assert.Equal(t, 400*time.Millisecond, c.SearchDebounce)
	assert.Equal(t, 12, c.PageSize)
}
