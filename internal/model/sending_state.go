// internal/model/sending_state.go
package model

import "time"

// SendingState is the persisted rate-limit ledger. CurrentDate and
// CurrentHour name the buckets the counters belong to; stale buckets
// are rolled over lazily the next time the policy is consulted.
// HourlyCounts and DailyCounts keep a per-bucket history keyed by
// "2006-01-02 15:00" and "2006-01-02".
type SendingState struct {
	TotalSent               int            `json:"total_sent"`
	SentToday               int            `json:"sent_today"`
	SentThisHour            int            `json:"sent_this_hour"`
	LastMessageTime         *time.Time     `json:"last_message_time"`
	LastBatchDelayTime      *time.Time     `json:"last_batch_delay_time"`
	MessagesSinceBatchDelay int            `json:"messages_since_batch_delay"`
	NextBatchDelayAt        int            `json:"next_batch_delay_at"`
	CurrentDate             string         `json:"current_date"`
	CurrentHour             int            `json:"current_hour"`
	HourlyCounts            map[string]int `json:"hourly_counts"`
	DailyCounts             map[string]int `json:"daily_counts"`
}

// NewSendingState returns an empty ledger. CurrentHour starts at -1 so
// the first rollover always initialises the hour bucket.
func NewSendingState() SendingState {
	return SendingState{
		CurrentHour:  -1,
		HourlyCounts: make(map[string]int),
		DailyCounts:  make(map[string]int),
	}
}

func (s SendingState) Clone() SendingState {
	out := s
	out.HourlyCounts = make(map[string]int, len(s.HourlyCounts))
	for k, v := range s.HourlyCounts {
		out.HourlyCounts[k] = v
	}
	out.DailyCounts = make(map[string]int, len(s.DailyCounts))
	for k, v := range s.DailyCounts {
		out.DailyCounts[k] = v
	}
	return out
}
