// internal/model/metrics.go
package model

type ErrorCount struct {
	Error string `json:"error"`
	Count int    `json:"count"`
}

// CampaignMetrics is the analytics summary for one run. SuccessRate is
// a percentage over attempts that reached the transport, so skipped
// recipients never drag it down. Send timings are in seconds and cover
// successful sends only.
type CampaignMetrics struct {
	TotalRecipients      int            `json:"total_recipients"`
	Sent                 int            `json:"messages_sent"`
	Failed               int            `json:"messages_failed"`
	Skipped              int            `json:"messages_skipped"`
	CreationMessages     int            `json:"creation_messages"`
	EnhancementMessages  int            `json:"enhancement_messages"`
	SuccessRate          float64        `json:"success_rate"`
	MinSendSeconds       float64        `json:"min_send_seconds"`
	MaxSendSeconds       float64        `json:"max_send_seconds"`
	AvgSendSeconds       float64        `json:"average_send_seconds"`
	TotalDurationSeconds float64        `json:"total_duration_seconds"`
	RateLimitHits        int            `json:"rate_limit_hits"`
	BatchDelaysTriggered int            `json:"batch_delays_triggered"`
	ErrorCategories      map[string]int `json:"error_categories,omitempty"`
	TopErrors            []ErrorCount   `json:"top_errors,omitempty"`
}
