// Package config provides environment-driven defaults for projection runs.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/aristath/foresight/sampling"
)

// SimConfig parameterizes one simulation run.
type SimConfig struct {
	HorizonMonths        int
	NSims                int
	RebalanceEveryMonths int
	StartingBalance      float64
	Workers              int // 0 = one worker per CPU
}

// Config holds the full runtime configuration.
type Config struct {
	Sim       SimConfig
	Sampler   sampling.Config
	LogLevel  string
	LogPretty bool
}

// Default returns the built-in defaults: a 30-year horizon, 10k paths,
// annual rebalancing, single-year bootstrap.
func Default() *Config {
	return &Config{
		Sim: SimConfig{
			HorizonMonths:        360,
			NSims:                10_000,
			RebalanceEveryMonths: 12,
			StartingBalance:      1_000_000,
		},
		Sampler: sampling.Config{
			Mode:       sampling.ModeSingleYear,
			BlockYears: 5,
			Seed:       42,
		},
		LogLevel: "info",
	}
}

// Load reads configuration from environment variables (and a .env file if
// present), falling back to the defaults.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	cfg.Sim.HorizonMonths = getEnvAsInt("FORESIGHT_HORIZON_MONTHS", cfg.Sim.HorizonMonths)
	cfg.Sim.NSims = getEnvAsInt("FORESIGHT_SIMS", cfg.Sim.NSims)
	cfg.Sim.RebalanceEveryMonths = getEnvAsInt("FORESIGHT_REBALANCE_MONTHS", cfg.Sim.RebalanceEveryMonths)
	cfg.Sim.StartingBalance = getEnvAsFloat("FORESIGHT_STARTING_BALANCE", cfg.Sim.StartingBalance)
	cfg.Sim.Workers = getEnvAsInt("FORESIGHT_WORKERS", cfg.Sim.Workers)
	cfg.Sampler.Mode = sampling.Mode(getEnv("FORESIGHT_SAMPLER_MODE", string(cfg.Sampler.Mode)))
	cfg.Sampler.BlockYears = getEnvAsInt("FORESIGHT_BLOCK_YEARS", cfg.Sampler.BlockYears)
	cfg.Sampler.Seed = int64(getEnvAsInt("FORESIGHT_SEED", int(cfg.Sampler.Seed)))
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogPretty = getEnvAsBool("LOG_PRETTY", cfg.LogPretty)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration before any simulation work starts.
func (c *Config) Validate() error {
	if c.Sim.HorizonMonths <= 0 {
		return fmt.Errorf("config: horizon must be positive, got %d", c.Sim.HorizonMonths)
	}
	if c.Sim.NSims <= 0 {
		return fmt.Errorf("config: number of simulations must be positive, got %d", c.Sim.NSims)
	}
	if c.Sim.RebalanceEveryMonths <= 0 {
		return fmt.Errorf("config: rebalance interval must be positive, got %d", c.Sim.RebalanceEveryMonths)
	}
	switch c.Sampler.Mode {
	case sampling.ModeSingleMonth, sampling.ModeSingleYear:
	case sampling.ModeBlockYears:
		if c.Sampler.BlockYears < 1 {
			return fmt.Errorf("config: block_years requires a block length >= 1, got %d", c.Sampler.BlockYears)
		}
	default:
		return fmt.Errorf("config: unknown sampling mode %q", c.Sampler.Mode)
	}
	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
