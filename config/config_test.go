package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/foresight/sampling"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 360, cfg.Sim.HorizonMonths)
	assert.Equal(t, 10_000, cfg.Sim.NSims)
	assert.Equal(t, 12, cfg.Sim.RebalanceEveryMonths)
	assert.Equal(t, 1_000_000.0, cfg.Sim.StartingBalance)
	assert.Equal(t, sampling.ModeSingleYear, cfg.Sampler.Mode)
	assert.Equal(t, int64(42), cfg.Sampler.Seed)
	assert.Equal(t, "info", cfg.LogLevel)

	assert.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("FORESIGHT_HORIZON_MONTHS", "120")
	t.Setenv("FORESIGHT_SIMS", "500")
	t.Setenv("FORESIGHT_REBALANCE_MONTHS", "3")
	t.Setenv("FORESIGHT_STARTING_BALANCE", "250000.50")
	t.Setenv("FORESIGHT_SAMPLER_MODE", "block_years")
	t.Setenv("FORESIGHT_BLOCK_YEARS", "3")
	t.Setenv("FORESIGHT_SEED", "7")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_PRETTY", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 120, cfg.Sim.HorizonMonths)
	assert.Equal(t, 500, cfg.Sim.NSims)
	assert.Equal(t, 3, cfg.Sim.RebalanceEveryMonths)
	assert.Equal(t, 250000.50, cfg.Sim.StartingBalance)
	assert.Equal(t, sampling.ModeBlockYears, cfg.Sampler.Mode)
	assert.Equal(t, 3, cfg.Sampler.BlockYears)
	assert.Equal(t, int64(7), cfg.Sampler.Seed)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.LogPretty)
}

func TestLoad_MalformedValueFallsBack(t *testing.T) {
	t.Setenv("FORESIGHT_SIMS", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 10_000, cfg.Sim.NSims)
}

func TestLoad_InvalidModeRejected(t *testing.T) {
	t.Setenv("FORESIGHT_SAMPLER_MODE", "shuffle")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown sampling mode")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"zero horizon", func(c *Config) { c.Sim.HorizonMonths = 0 }, "horizon"},
		{"negative sims", func(c *Config) { c.Sim.NSims = -1 }, "simulations"},
		{"zero rebalance", func(c *Config) { c.Sim.RebalanceEveryMonths = 0 }, "rebalance"},
		{"block mode without length", func(c *Config) {
			c.Sampler.Mode = sampling.ModeBlockYears
			c.Sampler.BlockYears = 0
		}, "block length"},
		{"unknown mode", func(c *Config) { c.Sampler.Mode = "bogus" }, "unknown sampling mode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
