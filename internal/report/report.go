// internal/report/report.go
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/nthenge/sokoreach/internal/model"
	"github.com/nthenge/sokoreach/internal/ratelimit"
)

type CampaignInfo struct {
	Source    string     `json:"source"`
	DryRun    bool       `json:"dry_run"`
	StartTime *time.Time `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
}

type Summary struct {
	TotalRecipients int `json:"total_recipients"`
	Processed       int `json:"processed"`
	Sent            int `json:"sent"`
	Failed          int `json:"failed"`
	Skipped         int `json:"skipped"`
}

type RateLimitSummary struct {
	TotalSent    int `json:"total_sent"`
	SentToday    int `json:"sent_today"`
	SentThisHour int `json:"sent_this_hour"`
	DailyLimit   int `json:"daily_limit"`
	HourlyLimit  int `json:"hourly_limit"`
}

// Report is the full post-run document: configuration, totals, the
// rate-limit ledger and one row per recipient.
type Report struct {
	CampaignInfo CampaignInfo          `json:"campaign_info"`
	Summary      Summary               `json:"summary"`
	RateLimiting RateLimitSummary      `json:"rate_limiting"`
	Results      []model.AttemptResult `json:"results"`
}

// Build assembles a report from the run artifacts.
func Build(source string, dryRun bool, progress *model.CampaignProgress, state model.SendingState, cfg ratelimit.Config) Report {
	return Report{
		CampaignInfo: CampaignInfo{
			Source:    source,
			DryRun:    dryRun,
			StartTime: progress.StartTime,
			EndTime:   progress.EndTime,
		},
		Summary: Summary{
			TotalRecipients: progress.TotalRecipients,
			Processed:       progress.Processed,
			Sent:            progress.Sent,
			Failed:          progress.Failed,
			Skipped:         progress.Skipped,
		},
		RateLimiting: RateLimitSummary{
			TotalSent:    state.TotalSent,
			SentToday:    state.SentToday,
			SentThisHour: state.SentThisHour,
			DailyLimit:   cfg.MaxPerDay,
			HourlyLimit:  cfg.MaxPerHour,
		},
		Results: progress.Results,
	}
}

// Exporter writes run artifacts into a report directory, one
// timestamped file per format.
type Exporter struct {
	Dir string

	// Now is replaceable for tests; nil means time.Now.
	Now func() time.Time
}

// WriteJSON writes the full campaign report.
func (e *Exporter) WriteJSON(rep Report) (string, error) {
	return e.writeJSONFile(fmt.Sprintf("campaign_%s.json", e.timestamp()), rep)
}

// WriteMetricsJSON writes the analytics summary.
func (e *Exporter) WriteMetricsJSON(m model.CampaignMetrics) (string, error) {
	return e.writeJSONFile(fmt.Sprintf("analytics_%s.json", e.timestamp()), m)
}

// WriteResultsCSV writes one row per recipient for spreadsheet work.
func (e *Exporter) WriteResultsCSV(results []model.AttemptResult) (string, error) {
	path, f, err := e.createFile(fmt.Sprintf("campaign_results_%s.csv", e.timestamp()))
	if err != nil {
		return "", err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{
		"Timestamp", "Business Name", "Phone", "Message Type",
		"Status", "Error Message", "Message Preview", "Duration (seconds)",
	}
	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("write results header: %w", err)
	}
	for _, r := range results {
		row := []string{
			r.Timestamp.Format(time.RFC3339),
			r.Name,
			r.Phone,
			string(r.MessageType),
			string(r.Outcome),
			r.Error,
			r.Preview,
			fmt.Sprintf("%.2f", r.Duration.Seconds()),
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("write result row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush results csv: %w", err)
	}
	return path, nil
}

// WriteSummaryCSV writes the metric/value overview sheet.
func (e *Exporter) WriteSummaryCSV(rep Report) (string, error) {
	path, f, err := e.createFile(fmt.Sprintf("campaign_summary_%s.csv", e.timestamp()))
	if err != nil {
		return "", err
	}
	defer f.Close()

	dryRun := "No"
	if rep.CampaignInfo.DryRun {
		dryRun = "Yes"
	}
	rows := [][]string{
		{"Metric", "Value"},
		{"Campaign Details", ""},
		{"Source", rep.CampaignInfo.Source},
		{"Dry Run", dryRun},
		{"Start Time", formatTime(rep.CampaignInfo.StartTime)},
		{"End Time", formatTime(rep.CampaignInfo.EndTime)},
		{"", ""},
		{"Results Summary", ""},
		{"Total Recipients", strconv.Itoa(rep.Summary.TotalRecipients)},
		{"Processed", strconv.Itoa(rep.Summary.Processed)},
		{"Sent Successfully", strconv.Itoa(rep.Summary.Sent)},
		{"Failed", strconv.Itoa(rep.Summary.Failed)},
		{"Skipped", strconv.Itoa(rep.Summary.Skipped)},
		{"", ""},
		{"Rate Limiting", ""},
		{"Total Sent", strconv.Itoa(rep.RateLimiting.TotalSent)},
		{"Sent Today", strconv.Itoa(rep.RateLimiting.SentToday)},
		{"Sent This Hour", strconv.Itoa(rep.RateLimiting.SentThisHour)},
		{"Daily Limit", strconv.Itoa(rep.RateLimiting.DailyLimit)},
		{"Hourly Limit", strconv.Itoa(rep.RateLimiting.HourlyLimit)},
	}

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return "", fmt.Errorf("write summary csv: %w", err)
	}
	return path, nil
}

func (e *Exporter) writeJSONFile(name string, v any) (string, error) {
	path, f, err := e.createFile(name)
	if err != nil {
		return "", err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("encode %s: %w", name, err)
	}
	return path, nil
}

func (e *Exporter) createFile(name string) (string, *os.File, error) {
	if err := os.MkdirAll(e.Dir, 0o755); err != nil {
		return "", nil, fmt.Errorf("create report dir: %w", err)
	}
	path := filepath.Join(e.Dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", nil, fmt.Errorf("create %s: %w", name, err)
	}
	return path, f, nil
}

func (e *Exporter) timestamp() string {
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	return now().Format("20060102_150405")
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
