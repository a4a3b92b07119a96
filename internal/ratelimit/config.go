// internal/ratelimit/config.go
package ratelimit

import (
	"fmt"
	"time"
)

// Config holds every tunable of the sending policy. Delays and limits
// can be toggled independently so a dry run can exercise the full
// pipeline without waiting out real pauses.
type Config struct {
	MinMessageDelay time.Duration
	MaxMessageDelay time.Duration

	// After every BatchSizeMin..BatchSizeMax messages the policy
	// imposes a longer batch rest of MinBatchDelay..MaxBatchDelay.
	BatchSizeMin  int
	BatchSizeMax  int
	MinBatchDelay time.Duration
	MaxBatchDelay time.Duration

	MaxPerDay  int
	MaxPerHour int

	EnableDelays      bool
	EnableDailyLimit  bool
	EnableHourlyLimit bool
}

// DefaultConfig is the conservative production profile.
func DefaultConfig() Config {
	return Config{
		MinMessageDelay:   20 * time.Second,
		MaxMessageDelay:   90 * time.Second,
		BatchSizeMin:      10,
		BatchSizeMax:      20,
		MinBatchDelay:     5 * time.Minute,
		MaxBatchDelay:     15 * time.Minute,
		MaxPerDay:         50,
		MaxPerHour:        15,
		EnableDelays:      true,
		EnableDailyLimit:  true,
		EnableHourlyLimit: true,
	}
}

// TestConfig is a fast profile for trial runs: short delays, small
// batches and limits high enough to never block.
func TestConfig() Config {
	return Config{
		MinMessageDelay:   1 * time.Second,
		MaxMessageDelay:   3 * time.Second,
		BatchSizeMin:      3,
		BatchSizeMax:      5,
		MinBatchDelay:     5 * time.Second,
		MaxBatchDelay:     10 * time.Second,
		MaxPerDay:         1000,
		MaxPerHour:        100,
		EnableDelays:      true,
		EnableDailyLimit:  false,
		EnableHourlyLimit: false,
	}
}

func (c Config) Validate() error {
	if c.MinMessageDelay < 0 || c.MaxMessageDelay < c.MinMessageDelay {
		return fmt.Errorf("message delay range %s..%s is invalid", c.MinMessageDelay, c.MaxMessageDelay)
	}
	if c.BatchSizeMin < 1 || c.BatchSizeMax < c.BatchSizeMin {
		return fmt.Errorf("batch size range %d..%d is invalid", c.BatchSizeMin, c.BatchSizeMax)
	}
	if c.MinBatchDelay < 0 || c.MaxBatchDelay < c.MinBatchDelay {
		return fmt.Errorf("batch delay range %s..%s is invalid", c.MinBatchDelay, c.MaxBatchDelay)
	}
	if c.EnableDailyLimit && c.MaxPerDay < 1 {
		return fmt.Errorf("daily limit must be positive, got %d", c.MaxPerDay)
	}
	if c.EnableHourlyLimit && c.MaxPerHour < 1 {
		return fmt.Errorf("hourly limit must be positive, got %d", c.MaxPerHour)
	}
	return nil
}
