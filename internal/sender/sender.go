// internal/sender/sender.go
package sender

import (
	"context"
	"log"
	"time"
)

// MessageSender delivers one message to one phone number. A nil error
// means the transport accepted the message; the campaign loop counts
// quota only on that signal.
type MessageSender interface {
	Send(ctx context.Context, phone, text string) error
}

// DryRunSender exercises the whole pipeline without touching a real
// transport. An optional artificial latency makes timing metrics
// non-trivial in rehearsals.
type DryRunSender struct {
	Latency time.Duration
}

var _ MessageSender = (*DryRunSender)(nil)

func (s *DryRunSender) Send(ctx context.Context, phone, text string) error {
	if s.Latency > 0 {
		t := time.NewTimer(s.Latency)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
	log.Printf("✅ DRY RUN - message to %s not actually sent", phone)
	return nil
}
