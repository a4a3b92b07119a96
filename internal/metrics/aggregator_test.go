// internal/metrics/aggregator_test.go
package metrics

import (
	"testing"
	"time"

	"github.com/nthenge/sokoreach/internal/model"
)

func success(msgType model.MessageType, d time.Duration) model.AttemptResult {
	return model.AttemptResult{Outcome: model.OutcomeSuccess, MessageType: msgType, Duration: d}
}

func failure(errMsg string) model.AttemptResult {
	return model.AttemptResult{Outcome: model.OutcomeFailed, MessageType: model.MessageCreation, Error: errMsg}
}

func TestFinalizeCountsOutcomes(t *testing.T) {
	a := NewAggregator(5)
	a.Record(success(model.MessageCreation, 2*time.Second))
	a.Record(success(model.MessageEnhancement, 4*time.Second))
	a.Record(failure("connection refused"))
	a.Record(model.AttemptResult{Outcome: model.OutcomeSkipped, MessageType: model.MessageUnknown})

	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	m := a.Finalize(start, start.Add(90*time.Second))

	if m.Sent != 2 || m.Failed != 1 || m.Skipped != 1 {
		t.Fatalf("unexpected counts: sent=%d failed=%d skipped=%d", m.Sent, m.Failed, m.Skipped)
	}
	if m.CreationMessages != 1 || m.EnhancementMessages != 1 {
		t.Errorf("type counts wrong: creation=%d enhancement=%d", m.CreationMessages, m.EnhancementMessages)
	}
	if m.TotalRecipients != 5 {
		t.Errorf("expected total 5, got %d", m.TotalRecipients)
	}
	if m.TotalDurationSeconds != 90 {
		t.Errorf("expected 90s total, got %v", m.TotalDurationSeconds)
	}
}

func TestSuccessRateIgnoresSkips(t *testing.T) {
	a := NewAggregator(4)
	a.Record(success(model.MessageCreation, time.Second))
	a.Record(success(model.MessageCreation, time.Second))
	a.Record(failure("boom"))
	a.Record(model.AttemptResult{Outcome: model.OutcomeSkipped})

	m := a.Finalize(time.Now(), time.Now())
	want := 2.0 / 3.0 * 100
	if diff := m.SuccessRate - want; diff > 0.001 || diff < -0.001 {
		t.Errorf("expected success rate %.2f, got %.2f", want, m.SuccessRate)
	}
}

func TestSuccessRateZeroWhenNothingAttempted(t *testing.T) {
	a := NewAggregator(3)
	a.Record(model.AttemptResult{Outcome: model.OutcomeSkipped})

	m := a.Finalize(time.Now(), time.Now())
	if m.SuccessRate != 0 {
		t.Errorf("expected 0 success rate with no attempts, got %v", m.SuccessRate)
	}
}

func TestSendTimings(t *testing.T) {
	a := NewAggregator(3)
	a.Record(success(model.MessageCreation, 1*time.Second))
	a.Record(success(model.MessageCreation, 3*time.Second))
	a.Record(success(model.MessageCreation, 0)) // unmeasured, excluded

	m := a.Finalize(time.Now(), time.Now())
	if m.MinSendSeconds != 1 || m.MaxSendSeconds != 3 || m.AvgSendSeconds != 2 {
		t.Errorf("timings wrong: min=%v max=%v avg=%v", m.MinSendSeconds, m.MaxSendSeconds, m.AvgSendSeconds)
	}
}

func TestCategorize(t *testing.T) {
	cases := map[string]string{
		"connection reset by peer":        "network",
		"Network unreachable":             "network",
		"request timeout":                 "timeout",
		"recipient not found":             "not_found",
		"gateway rate limit (status 429)": "rate_limit",
		"invalid phone format":            "invalid_phone",
		"wrong number":                    "invalid_phone",
		"something odd":                   "other",
		"connection timeout":              "network", // network wins over timeout
	}
	for in, want := range cases {
		if got := Categorize(in); got != want {
			t.Errorf("Categorize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTopErrorsSortedAndCapped(t *testing.T) {
	a := NewAggregator(10)
	for i := 0; i < 3; i++ {
		a.Record(failure("gateway returned 500"))
	}
	a.Record(failure("connection refused"))
	a.Record(failure("connection refused"))
	for _, msg := range []string{"e1", "e2", "e3", "e4"} {
		a.Record(failure(msg))
	}

	m := a.Finalize(time.Now(), time.Now())
	if len(m.TopErrors) != topErrorLimit {
		t.Fatalf("expected %d top errors, got %d", topErrorLimit, len(m.TopErrors))
	}
	if m.TopErrors[0].Error != "gateway returned 500" || m.TopErrors[0].Count != 3 {
		t.Errorf("unexpected top error: %+v", m.TopErrors[0])
	}
	if m.TopErrors[1].Error != "connection refused" || m.TopErrors[1].Count != 2 {
		t.Errorf("unexpected second error: %+v", m.TopErrors[1])
	}
}

func TestRateLimitAndBatchCounters(t *testing.T) {
	a := NewAggregator(2)
	a.RecordRateLimitHit()
	a.RecordBatchDelay()
	a.RecordBatchDelay()

	m := a.Finalize(time.Now(), time.Now())
	if m.RateLimitHits != 1 {
		t.Errorf("expected 1 rate limit hit, got %d", m.RateLimitHits)
	}
	if m.BatchDelaysTriggered != 2 {
		t.Errorf("expected 2 batch delays, got %d", m.BatchDelaysTriggered)
	}
}
