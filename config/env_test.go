package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetDuration(t *testing.T) {
	t.Setenv("CACHE_A", "90s")
	t.Setenv("CACHE_B", "30")
	t.Setenv("CACHE_C", "soon")

	assert.Equal(t, 90*time.Second, getDuration("CACHE_A", time.Minute))
	assert.Equal(t, 30*time.Second, getDuration("CACHE_B", time.Minute))
	assert.Equal(t, time.Minute, getDuration("CACHE_C", time.Minute))
	assert.Equal(t, time.Minute, getDuration("CACHE_UNSET", time.Minute))
}

func TestLoadConfigReportsMissingStore(t *testing.T) {
	t.Setenv("STORE_ID", "")
	t.Setenv("LOCAL_STORE", "Memory")

	cfg := LoadConfig()
	assert.Equal(t, LocalStoreMemory, cfg.LocalStore)
	assert.Contains(t, cfg.Missing(), "STORE_ID")

	t.Setenv("STORE_ID", "7")
	assert.Empty(t, LoadConfig().Missing())
}
