// internal/config/config.go
package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	appErrors "github.com/nthenge/sokoreach/internal/errors"
	"github.com/nthenge/sokoreach/internal/ratelimit"
)

// Config is the full runtime configuration, read from the environment
// (plus .env in development). Command flags override individual fields
// after Load.
type Config struct {
	CSVPath  string `env:"CSV_PATH" envDefault:"data/recipients.csv"`
	UseDB    bool   `env:"USE_DB" envDefault:"false"`
	LeadsDSN string `env:"LEADS_DSN"`

	DryRun   bool `env:"DRY_RUN" envDefault:"false"`
	Resume   bool `env:"RESUME" envDefault:"false"`
	Fresh    bool `env:"FRESH_START" envDefault:"false"`
	TestMode bool `env:"TEST_MODE" envDefault:"false"`

	DataDir     string `env:"DATA_DIR" envDefault:"data"`
	ReportDir   string `env:"REPORT_DIR" envDefault:"data/reports"`
	HistoryPath string `env:"HISTORY_PATH" envDefault:"data/history.db"`

	StatusAddr string `env:"STATUS_ADDR"`
	AMQPURL    string `env:"AMQP_URL"`

	GatewayURL     string        `env:"GATEWAY_URL"`
	GatewayToken   string        `env:"GATEWAY_TOKEN"`
	GatewayTimeout time.Duration `env:"GATEWAY_TIMEOUT" envDefault:"30s"`

	// RandomSeed fixes template choice and delay draws for rehearsals.
	// Zero means seed from the clock.
	RandomSeed int64 `env:"RANDOM_SEED" envDefault:"0"`

	MinMessageDelay   time.Duration `env:"MIN_MESSAGE_DELAY" envDefault:"20s"`
	MaxMessageDelay   time.Duration `env:"MAX_MESSAGE_DELAY" envDefault:"90s"`
	BatchSizeMin      int           `env:"BATCH_SIZE_MIN" envDefault:"10"`
	BatchSizeMax      int           `env:"BATCH_SIZE_MAX" envDefault:"20"`
	MinBatchDelay     time.Duration `env:"MIN_BATCH_DELAY" envDefault:"5m"`
	MaxBatchDelay     time.Duration `env:"MAX_BATCH_DELAY" envDefault:"15m"`
	MaxPerDay         int           `env:"MAX_PER_DAY" envDefault:"50"`
	MaxPerHour        int           `env:"MAX_PER_HOUR" envDefault:"15"`
	EnableDelays      bool          `env:"ENABLE_DELAYS" envDefault:"true"`
	EnableDailyLimit  bool          `env:"ENABLE_DAILY_LIMIT" envDefault:"true"`
	EnableHourlyLimit bool          `env:"ENABLE_HOURLY_LIMIT" envDefault:"true"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, relying on OS environment variables")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// Validate checks everything a live run needs. Called by the run
// command; validate and preview work with whatever is configured.
func (c *Config) Validate() error {
	if err := c.RateLimit().Validate(); err != nil {
		return err
	}
	if c.Fresh && c.Resume {
		return fmt.Errorf("RESUME and FRESH_START cannot both be set")
	}
	if !c.UseDB && c.CSVPath == "" {
		return appErrors.ErrNoSource
	}
	if c.UseDB && c.LeadsDSN == "" {
		return fmt.Errorf("LEADS_DSN is required when loading recipients from the database")
	}
	if !c.DryRun && c.GatewayURL == "" {
		return fmt.Errorf("GATEWAY_URL is required for live sends (or use --dry-run)")
	}
	return nil
}

// RateLimit derives the sending policy configuration. Test mode
// replaces the whole profile with the fast one.
func (c *Config) RateLimit() ratelimit.Config {
	if c.TestMode {
		return ratelimit.TestConfig()
	}
	return ratelimit.Config{
		MinMessageDelay:   c.MinMessageDelay,
		MaxMessageDelay:   c.MaxMessageDelay,
		BatchSizeMin:      c.BatchSizeMin,
		BatchSizeMax:      c.BatchSizeMax,
		MinBatchDelay:     c.MinBatchDelay,
		MaxBatchDelay:     c.MaxBatchDelay,
		MaxPerDay:         c.MaxPerDay,
		MaxPerHour:        c.MaxPerHour,
		EnableDelays:      c.EnableDelays,
		EnableDailyLimit:  c.EnableDailyLimit,
		EnableHourlyLimit: c.EnableHourlyLimit,
	}
}
