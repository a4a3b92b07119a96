// internal/ingest/csv.go
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	appErrors "github.com/nthenge/sokoreach/internal/errors"
	"github.com/nthenge/sokoreach/internal/model"
)

// Summary describes the outcome of an import. Errors hold the rows
// that were dropped; rows kept with a cleared field (e.g. a malformed
// website) are logged but still count as valid.
type Summary struct {
	TotalRows   int
	ValidRows   int
	InvalidRows int
	Errors      []*appErrors.InvalidRecipientError
}

func (s Summary) SuccessRate() float64 {
	if s.TotalRows == 0 {
		return 0
	}
	return float64(s.ValidRows) / float64(s.TotalRows) * 100
}

// LoadCSV reads recipients from a CSV file. Columns are matched by
// header name, case-insensitively and with spaces treated as
// underscores, so both "Business Name" and "business_name" work.
// Rows with a missing name or unusable phone are skipped and recorded
// in the summary; a malformed website URL only clears that field.
func LoadCSV(path string) ([]model.Recipient, *Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open recipient file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[normalizeHeader(h)] = i
	}
	for _, required := range []string{"business_name", "phone"} {
		if _, ok := cols[required]; !ok {
			return nil, nil, fmt.Errorf("missing required column %q", required)
		}
	}

	var (
		recipients []model.Recipient
		summary    Summary
	)
	for line := 2; ; line++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read row %d: %w", line, err)
		}
		summary.TotalRows++

		name := SanitizeName(field(row, cols, "business_name"))
		if name == "" {
			summary.InvalidRows++
			summary.Errors = append(summary.Errors, appErrors.NewInvalidRecipient(line, "business_name", "missing"))
			continue
		}

		phone, err := NormalizePhone(field(row, cols, "phone"))
		if err != nil {
			summary.InvalidRows++
			summary.Errors = append(summary.Errors, appErrors.NewInvalidRecipient(line, "phone", err.Error()))
			continue
		}

		website := strings.TrimSpace(field(row, cols, "website"))
		if website != "" && !ValidURL(website) {
			log.Printf("⚠️ Row %d: ignoring invalid website %q for %s", line, website, name)
			website = ""
		}

		recipients = append(recipients, model.Recipient{
			Phone:       phone,
			Name:        name,
			Description: strings.TrimSpace(field(row, cols, "description")),
			Website:     website,
			MapsLink:    strings.TrimSpace(field(row, cols, "google_maps_link")),
		})
		summary.ValidRows++
	}

	return recipients, &summary, nil
}

func normalizeHeader(h string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(h)), " ", "_")
}

func field(row []string, cols map[string]int, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}
