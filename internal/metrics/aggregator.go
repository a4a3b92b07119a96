// internal/metrics/aggregator.go
package metrics

import (
	"sort"
	"strings"
	"time"

	"github.com/nthenge/sokoreach/internal/model"
)

const topErrorLimit = 5

// Aggregator accumulates per-attempt analytics for a single run. It is
// owned by the campaign loop and is not safe for concurrent use.
type Aggregator struct {
	total       int
	sent        int
	failed      int
	skipped     int
	creation    int
	enhancement int

	durations   []float64
	categories  map[string]int
	errorCounts map[string]int

	rateLimitHits int
	batchDelays   int
}

func NewAggregator(totalRecipients int) *Aggregator {
	return &Aggregator{
		total:       totalRecipients,
		categories:  make(map[string]int),
		errorCounts: make(map[string]int),
	}
}

// Record folds one attempt into the running totals. Message type
// counts only cover confirmed sends, and timings only successful
// attempts with a measured duration.
func (a *Aggregator) Record(r model.AttemptResult) {
	switch r.Outcome {
	case model.OutcomeSuccess:
		a.sent++
		switch r.MessageType {
		case model.MessageCreation:
			a.creation++
		case model.MessageEnhancement:
			a.enhancement++
		}
		if r.Duration > 0 {
			a.durations = append(a.durations, r.Duration.Seconds())
		}
	case model.OutcomeFailed:
		a.failed++
		a.categories[Categorize(r.Error)]++
		if r.Error != "" {
			a.errorCounts[r.Error]++
		}
	case model.OutcomeSkipped:
		a.skipped++
	}
}

func (a *Aggregator) RecordRateLimitHit() {
	a.rateLimitHits++
}

func (a *Aggregator) RecordBatchDelay() {
	a.batchDelays++
}

// Finalize produces the summary for a run bounded by start and end.
func (a *Aggregator) Finalize(start, end time.Time) model.CampaignMetrics {
	m := model.CampaignMetrics{
		TotalRecipients:      a.total,
		Sent:                 a.sent,
		Failed:               a.failed,
		Skipped:              a.skipped,
		CreationMessages:     a.creation,
		EnhancementMessages:  a.enhancement,
		RateLimitHits:        a.rateLimitHits,
		BatchDelaysTriggered: a.batchDelays,
		TotalDurationSeconds: end.Sub(start).Seconds(),
	}

	if attempted := a.sent + a.failed; attempted > 0 {
		m.SuccessRate = float64(a.sent) / float64(attempted) * 100
	}

	if len(a.durations) > 0 {
		min, max, sum := a.durations[0], a.durations[0], 0.0
		for _, d := range a.durations {
			if d < min {
				min = d
			}
			if d > max {
				max = d
			}
			sum += d
		}
		m.MinSendSeconds = min
		m.MaxSendSeconds = max
		m.AvgSendSeconds = sum / float64(len(a.durations))
	}

	if len(a.categories) > 0 {
		m.ErrorCategories = make(map[string]int, len(a.categories))
		for k, v := range a.categories {
			m.ErrorCategories[k] = v
		}
	}
	m.TopErrors = a.topErrors(topErrorLimit)
	return m
}

func (a *Aggregator) topErrors(n int) []model.ErrorCount {
	if len(a.errorCounts) == 0 {
		return nil
	}
	out := make([]model.ErrorCount, 0, len(a.errorCounts))
	for msg, count := range a.errorCounts {
		out = append(out, model.ErrorCount{Error: msg, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Error < out[j].Error
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// Categorize maps an error message onto a coarse failure bucket. The
// match order matters: "connection timeout to phone gateway" is a
// network problem, not a phone problem.
func Categorize(errMsg string) string {
	s := strings.ToLower(errMsg)
	switch {
	case strings.Contains(s, "network") || strings.Contains(s, "connection"):
		return "network"
	case strings.Contains(s, "timeout"):
		return "timeout"
	case strings.Contains(s, "not found"):
		return "not_found"
	case strings.Contains(s, "rate limit"):
		return "rate_limit"
	case strings.Contains(s, "phone") || strings.Contains(s, "number"):
		return "invalid_phone"
	default:
		return "other"
	}
}
