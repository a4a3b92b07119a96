// internal/model/attempt.go
package model

import "time"

type MessageType string

const (
	MessageCreation    MessageType = "creation"
	MessageEnhancement MessageType = "enhancement"
	MessageUnknown     MessageType = "unknown"
)

type AttemptOutcome string

const (
	OutcomeSuccess AttemptOutcome = "success"
	OutcomeFailed  AttemptOutcome = "failed"
	OutcomeSkipped AttemptOutcome = "skipped"
)

// AttemptResult records a single delivery attempt. Duration is only
// meaningful for attempts that reached the transport.
type AttemptResult struct {
	Phone       string         `json:"phone"`
	Name        string         `json:"business_name"`
	MessageType MessageType    `json:"message_type"`
	Outcome     AttemptOutcome `json:"status"`
	Error       string         `json:"error,omitempty"`
	Timestamp   time.Time      `json:"timestamp"`
	Preview     string         `json:"message_preview,omitempty"`
	Duration    time.Duration  `json:"-"`
}
