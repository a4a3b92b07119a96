// internal/campaign/runner.go
package campaign

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/nthenge/sokoreach/internal/compose"
	appErrors "github.com/nthenge/sokoreach/internal/errors"
	"github.com/nthenge/sokoreach/internal/metrics"
	"github.com/nthenge/sokoreach/internal/model"
	"github.com/nthenge/sokoreach/internal/queue"
	"github.com/nthenge/sokoreach/internal/ratelimit"
	"github.com/nthenge/sokoreach/internal/sender"
	"github.com/nthenge/sokoreach/internal/store"
)

const defaultSaveEvery = 5

// AttemptArchive records attempts in the cross-run delivery archive.
type AttemptArchive interface {
	Append(result model.AttemptResult) error
}

// StatusSink receives live snapshots for status reporting.
type StatusSink interface {
	PublishProgress(progress model.CampaignProgress)
	PublishState(state model.SendingState)
}

// Runner executes one campaign over a recipient list: strictly
// sequential, rate limited and resumable. Policy, Composer, Sender and
// Metrics are required; Store, Archive, Events and Status may be nil.
//
// Quota is only consumed for confirmed sends, and the policy is
// consulted before every attempt. Once a cap blocks, every recipient
// that has not been processed yet is recorded as skipped and the run
// ends; skipped recipients do not advance the resume position, so the
// next run retries them.
type Runner struct {
	Policy   *ratelimit.Policy
	Composer *compose.Composer
	Sender   sender.MessageSender
	Metrics  *metrics.Aggregator
	Store    store.ProgressStore
	Archive  AttemptArchive
	Events   queue.Publisher
	Status   StatusSink

	// SaveEvery is the persistence cadence in processed recipients.
	// Zero means the default of 5.
	SaveEvery int

	// Now is replaceable for tests; nil means time.Now.
	Now func() time.Time
}

// Run walks the recipient list starting after progress.
// LastProcessedIndex. The progress value is mutated in place and
// flushed to the store on exit regardless of how the run ends, so an
// interrupted campaign can always be resumed.
//
// A failed recipient never stops the run. Cancellation via ctx stops
// it at the next attempt boundary or mid-delay.
func (r *Runner) Run(ctx context.Context, recipients []model.Recipient, progress *model.CampaignProgress) (model.CampaignOutcome, error) {
	if len(recipients) == 0 {
		return model.CampaignCompleted, appErrors.ErrNoRecipients
	}
	if progress == nil {
		progress = model.NewCampaignProgress(len(recipients))
	}
	progress.TotalRecipients = len(recipients)
	if progress.StartTime == nil {
		now := r.now()
		progress.StartTime = &now
	}
	if progress.LastProcessedIndex >= 0 {
		log.Printf("📥 Resuming campaign, %d of %d already processed", progress.LastProcessedIndex+1, len(recipients))
	}

	total := len(recipients)
	outcome := model.CampaignCompleted

loop:
	for i, recipient := range recipients {
		if i <= progress.LastProcessedIndex {
			continue
		}

		select {
		case <-ctx.Done():
			log.Println("🛑 Cancellation requested, stopping campaign")
			outcome = model.CampaignAborted
			break loop
		default:
		}

		if ok, reason := r.Policy.CanSend(); !ok {
			r.skipRemaining(progress, recipients[i:], reason)
			break loop
		}

		result := r.attempt(ctx, i, total, recipient)
		progress.Results = append(progress.Results, result)
		switch result.Outcome {
		case model.OutcomeSuccess:
			progress.Sent++
		case model.OutcomeFailed:
			progress.Failed++
		}
		progress.Processed++
		progress.LastProcessedIndex = i
		r.Metrics.Record(result)
		r.observe(result)
		r.pushStatus(progress)

		if progress.Processed%r.saveEvery() == 0 {
			r.persist(progress)
		}

		// Pause only after a confirmed send, and not after the last
		// recipient.
		if i == total-1 || result.Outcome != model.OutcomeSuccess {
			continue
		}
		if r.Policy.IsBatchDelayNext() {
			r.Metrics.RecordBatchDelay()
		}
		if !r.pause(ctx, r.Policy.NextDelay()) {
			outcome = model.CampaignAborted
			break loop
		}
	}

	if ctx.Err() != nil {
		outcome = model.CampaignAborted
	}
	now := r.now()
	progress.EndTime = &now
	r.persist(progress)
	r.pushStatus(progress)
	return outcome, nil
}

// attempt composes and sends to one recipient. A panic anywhere inside
// is converted into a failed result so a single bad recipient cannot
// take the campaign down.
func (r *Runner) attempt(ctx context.Context, i, total int, recipient model.Recipient) (result model.AttemptResult) {
	result = model.AttemptResult{
		Phone:       recipient.Phone,
		Name:        recipient.Name,
		MessageType: r.Composer.MessageType(recipient),
		Timestamp:   r.now(),
	}
	defer func() {
		if v := recover(); v != nil {
			log.Printf("⚠️ Recovered from panic while processing %s: %v", recipient.Name, v)
			result.Outcome = model.OutcomeFailed
			result.Error = fmt.Sprintf("internal error: %v", v)
		}
	}()

	log.Printf("📨 [%d/%d] Processing: %s", i+1, total, recipient.Name)

	message := r.Composer.Compose(recipient)
	result.Preview = compose.Preview(message)

	start := r.now()
	err := r.Sender.Send(ctx, recipient.Phone, message)
	result.Duration = r.now().Sub(start)
	if err != nil {
		log.Printf("❌ Failed to send to %s: %v", recipient.Phone, err)
		result.Outcome = model.OutcomeFailed
		result.Error = err.Error()
		return result
	}

	r.Policy.RecordSent()
	result.Outcome = model.OutcomeSuccess
	log.Printf("✅ Message sent to %s (%s)", recipient.Name, recipient.Phone)
	return result
}

func (r *Runner) skipRemaining(progress *model.CampaignProgress, remaining []model.Recipient, reason ratelimit.BlockReason) {
	detail := r.Policy.Describe(reason)
	log.Printf("🛑 Rate limit reached: %s, skipping %d remaining recipients", detail, len(remaining))
	r.Metrics.RecordRateLimitHit()

	now := r.now()
	for _, recipient := range remaining {
		result := model.AttemptResult{
			Phone:       recipient.Phone,
			Name:        recipient.Name,
			MessageType: r.Composer.MessageType(recipient),
			Outcome:     model.OutcomeSkipped,
			Error:       detail,
			Timestamp:   now,
		}
		progress.Results = append(progress.Results, result)
		progress.Skipped++
		r.Metrics.Record(result)
		r.observe(result)
	}
	r.pushStatus(progress)
}

func (r *Runner) observe(result model.AttemptResult) {
	if r.Archive != nil {
		if err := r.Archive.Append(result); err != nil {
			log.Println("⚠️ Could not archive attempt:", err)
		}
	}
	if r.Events != nil {
		if err := r.Events.PublishAttempt(result); err != nil {
			log.Println("⚠️ Could not publish event:", err)
		}
	}
}

func (r *Runner) pushStatus(progress *model.CampaignProgress) {
	if r.Status == nil {
		return
	}
	r.Status.PublishProgress(progress.Clone())
	r.Status.PublishState(r.Policy.Snapshot())
}

func (r *Runner) persist(progress *model.CampaignProgress) {
	if r.Store == nil {
		return
	}
	state := r.Policy.Snapshot()
	if err := r.Store.Save(progress, &state); err != nil {
		log.Println("⚠️ Failed to save progress:", err)
	}
}

// pause waits out a delay, returning false when the context is
// cancelled first.
func (r *Runner) pause(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	log.Printf("⏳ Waiting %s before next message", d.Round(time.Second))
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		log.Println("🛑 Cancellation requested during delay, stopping campaign")
		return false
	case <-t.C:
		return true
	}
}

func (r *Runner) saveEvery() int {
	if r.SaveEvery > 0 {
		return r.SaveEvery
	}
	return defaultSaveEvery
}

func (r *Runner) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}
