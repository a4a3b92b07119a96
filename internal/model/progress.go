// internal/model/progress.go
package model

import "time"

type CampaignOutcome string

const (
	CampaignCompleted CampaignOutcome = "completed"
	CampaignAborted   CampaignOutcome = "aborted"
)

// CampaignProgress tracks how far a run has advanced through the
// recipient list. LastProcessedIndex is -1 until the first recipient
// has been fully processed, so a resumed run restarts at index 0.
// Results accumulate in memory for reporting and are not part of the
// persisted progress file.
type CampaignProgress struct {
	LastProcessedIndex int             `json:"last_processed_index"`
	TotalRecipients    int             `json:"total_recipients"`
	Processed          int             `json:"processed"`
	Sent               int             `json:"sent"`
	Failed             int             `json:"failed"`
	Skipped            int             `json:"skipped"`
	StartTime          *time.Time      `json:"start_time"`
	EndTime            *time.Time      `json:"end_time,omitempty"`
	Results            []AttemptResult `json:"-"`
}

func NewCampaignProgress(total int) *CampaignProgress {
	return &CampaignProgress{
		LastProcessedIndex: -1,
		TotalRecipients:    total,
	}
}

func (p CampaignProgress) Clone() CampaignProgress {
	out := p
	out.Results = make([]AttemptResult, len(p.Results))
	copy(out.Results, p.Results)
	return out
}
