// internal/ratelimit/policy.go
package ratelimit

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/nthenge/sokoreach/internal/model"
)

const (
	dateLayout = "2006-01-02"
	hourLayout = "2006-01-02 15:00"
)

// BlockReason says which cap stopped a send.
type BlockReason int

const (
	BlockNone BlockReason = iota
	BlockDailyLimit
	BlockHourlyLimit
)

func (r BlockReason) String() string {
	switch r {
	case BlockDailyLimit:
		return "daily limit reached"
	case BlockHourlyLimit:
		return "hourly limit reached"
	default:
		return ""
	}
}

// Policy enforces per-day and per-hour sending caps and hands out
// randomised pauses between messages. It never sleeps itself; callers
// ask for the next delay and decide how to wait. The clock and the
// random source are injected so behaviour is reproducible under test.
//
// Counter buckets roll over lazily: a policy left idle over midnight
// resets its daily counter the next time it is consulted, not before.
type Policy struct {
	cfg   Config
	state model.SendingState
	now   func() time.Time
	rng   *rand.Rand
}

// NewPolicy builds a policy with empty counters. A nil clock falls
// back to time.Now and a nil rng to a time-seeded source.
func NewPolicy(cfg Config, now func() time.Time, rng *rand.Rand) *Policy {
	if now == nil {
		now = time.Now
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	p := &Policy{
		cfg:   cfg,
		state: model.NewSendingState(),
		now:   now,
		rng:   rng,
	}
	p.state.NextBatchDelayAt = p.drawBatchThreshold()
	return p
}

// CanSend reports whether another message may go out right now. It
// first rolls stale counter buckets over to the current day and hour.
func (p *Policy) CanSend() (bool, BlockReason) {
	p.rollover(p.now())
	if p.cfg.EnableDailyLimit && p.state.SentToday >= p.cfg.MaxPerDay {
		return false, BlockDailyLimit
	}
	if p.cfg.EnableHourlyLimit && p.state.SentThisHour >= p.cfg.MaxPerHour {
		return false, BlockHourlyLimit
	}
	return true, BlockNone
}

// Describe renders a block reason with the configured cap, e.g.
// "daily limit reached (50 messages)".
func (p *Policy) Describe(r BlockReason) string {
	switch r {
	case BlockDailyLimit:
		return fmt.Sprintf("daily limit reached (%d messages)", p.cfg.MaxPerDay)
	case BlockHourlyLimit:
		return fmt.Sprintf("hourly limit reached (%d messages)", p.cfg.MaxPerHour)
	default:
		return ""
	}
}

// RecordSent counts one confirmed delivery against the current
// buckets. Call it only after the transport reported success, so a
// failed attempt never burns quota.
func (p *Policy) RecordSent() {
	now := p.now()
	p.rollover(now)
	p.state.TotalSent++
	p.state.SentToday++
	p.state.SentThisHour++
	p.state.MessagesSinceBatchDelay++
	p.state.LastMessageTime = &now
	p.state.HourlyCounts[now.Format(hourLayout)] = p.state.SentThisHour
	p.state.DailyCounts[now.Format(dateLayout)] = p.state.SentToday
}

// IsBatchDelayNext reports whether the next NextDelay call will start
// a batch rest instead of a regular inter-message pause.
func (p *Policy) IsBatchDelayNext() bool {
	return p.state.MessagesSinceBatchDelay >= p.state.NextBatchDelayAt
}

// NextDelay returns how long to pause before the next send. Crossing
// the batch threshold resets the batch counter and draws a fresh
// threshold even when delays are disabled, so a dry run walks the same
// batch boundaries a live run would.
func (p *Policy) NextDelay() time.Duration {
	if p.IsBatchDelayNext() {
		return p.batchDelay()
	}
	if !p.cfg.EnableDelays {
		return 0
	}
	return p.uniform(p.cfg.MinMessageDelay, p.cfg.MaxMessageDelay)
}

// Remaining returns how many sends are left in the current day and
// hour buckets. Disabled limits report -1.
func (p *Policy) Remaining() (day, hour int) {
	p.rollover(p.now())
	day, hour = -1, -1
	if p.cfg.EnableDailyLimit {
		if day = p.cfg.MaxPerDay - p.state.SentToday; day < 0 {
			day = 0
		}
	}
	if p.cfg.EnableHourlyLimit {
		if hour = p.cfg.MaxPerHour - p.state.SentThisHour; hour < 0 {
			hour = 0
		}
	}
	return day, hour
}

// Snapshot returns a deep copy of the ledger for persistence.
func (p *Policy) Snapshot() model.SendingState {
	return p.state.Clone()
}

// Restore replaces the ledger with a previously saved one. Bucket
// staleness is not checked here; the next CanSend rolls old buckets
// over against the current clock. A missing batch threshold is drawn
// fresh so restored state from older files stays usable.
func (p *Policy) Restore(s model.SendingState) {
	p.state = s.Clone()
	if p.state.HourlyCounts == nil {
		p.state.HourlyCounts = make(map[string]int)
	}
	if p.state.DailyCounts == nil {
		p.state.DailyCounts = make(map[string]int)
	}
	if p.state.NextBatchDelayAt <= 0 {
		p.state.NextBatchDelayAt = p.drawBatchThreshold()
	}
}

func (p *Policy) rollover(now time.Time) {
	today := now.Format(dateLayout)
	if p.state.CurrentDate != today {
		if p.state.CurrentDate != "" {
			log.Printf("📅 New day detected (%s), resetting daily counter", today)
		}
		p.state.CurrentDate = today
		p.state.SentToday = 0
	}
	if p.state.CurrentHour != now.Hour() {
		p.state.CurrentHour = now.Hour()
		p.state.SentThisHour = 0
	}
}

func (p *Policy) batchDelay() time.Duration {
	now := p.now()
	p.state.LastBatchDelayTime = &now
	p.state.MessagesSinceBatchDelay = 0
	p.state.NextBatchDelayAt = p.drawBatchThreshold()
	if !p.cfg.EnableDelays {
		return 0
	}
	d := p.uniform(p.cfg.MinBatchDelay, p.cfg.MaxBatchDelay)
	log.Printf("🛑 Batch threshold reached, resting for %s", d.Round(time.Second))
	return d
}

func (p *Policy) drawBatchThreshold() int {
	if p.cfg.BatchSizeMax <= p.cfg.BatchSizeMin {
		return p.cfg.BatchSizeMin
	}
	return p.cfg.BatchSizeMin + p.rng.Intn(p.cfg.BatchSizeMax-p.cfg.BatchSizeMin+1)
}

func (p *Policy) uniform(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + time.Duration(p.rng.Int63n(int64(max-min)+1))
}
