// internal/config/config_test.go
package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/nthenge/sokoreach/internal/errors"
	"github.com/nthenge/sokoreach/internal/ratelimit"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data/recipients.csv", cfg.CSVPath)
	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, 30*time.Second, cfg.GatewayTimeout)
	assert.False(t, cfg.DryRun)
	assert.True(t, cfg.EnableDelays)

	rl := cfg.RateLimit()
	assert.Equal(t, 50, rl.MaxPerDay)
	assert.Equal(t, 15, rl.MaxPerHour)
	assert.Equal(t, 20*time.Second, rl.MinMessageDelay)
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("MAX_PER_DAY", "5")
	t.Setenv("MIN_MESSAGE_DELAY", "1s")
	t.Setenv("MAX_MESSAGE_DELAY", "2s")
	t.Setenv("DRY_RUN", "true")
	t.Setenv("STATUS_ADDR", ":8090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.DryRun)
	assert.Equal(t, ":8090", cfg.StatusAddr)

	rl := cfg.RateLimit()
	assert.Equal(t, 5, rl.MaxPerDay)
	assert.Equal(t, time.Second, rl.MinMessageDelay)
	assert.Equal(t, 2*time.Second, rl.MaxMessageDelay)
}

func TestTestModeSwapsProfile(t *testing.T) {
	t.Setenv("TEST_MODE", "true")
	t.Setenv("MAX_PER_DAY", "7") // ignored in test mode

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ratelimit.TestConfig(), cfg.RateLimit())
}

func TestValidateRequiresGatewayForLiveRuns(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	cfg.DryRun = false
	cfg.GatewayURL = ""
	assert.ErrorContains(t, cfg.Validate(), "GATEWAY_URL")

	cfg.DryRun = true
	assert.NoError(t, cfg.Validate())

	cfg.DryRun = false
	cfg.GatewayURL = "https://gateway.example.com/messages"
	assert.NoError(t, cfg.Validate())
}

func TestValidateRequiresSomeSource(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	cfg.DryRun = true
	cfg.UseDB = false
	cfg.CSVPath = ""
	assert.ErrorIs(t, cfg.Validate(), appErrors.ErrNoSource)
}

func TestValidateRejectsFreshWithResume(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	cfg.DryRun = true
	cfg.Fresh = true
	cfg.Resume = true
	assert.ErrorContains(t, cfg.Validate(), "FRESH_START")

	cfg.Resume = false
	assert.NoError(t, cfg.Validate())
}

func TestValidateRequiresDSNForDBSource(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	cfg.DryRun = true
	cfg.UseDB = true
	cfg.LeadsDSN = ""
	assert.ErrorContains(t, cfg.Validate(), "LEADS_DSN")
}

func TestValidateRejectsBadDelayRange(t *testing.T) {
	t.Setenv("MIN_MESSAGE_DELAY", "10s")
	t.Setenv("MAX_MESSAGE_DELAY", "1s")
	t.Setenv("DRY_RUN", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Error(t, cfg.Validate())
}
