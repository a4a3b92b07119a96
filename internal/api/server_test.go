// internal/api/server_test.go
package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nthenge/sokoreach/internal/model"
)

type fakeHistory struct {
	recent []model.AttemptResult
	counts map[string]int
}

func (f *fakeHistory) Recent(limit int) ([]model.AttemptResult, error) {
	if limit < len(f.recent) {
		return f.recent[:limit], nil
	}
	return f.recent, nil
}

func (f *fakeHistory) Counts() (map[string]int, error) {
	return f.counts, nil
}

func testServer() (*StatusServer, *Holder) {
	h := NewHolder()
	s := &StatusServer{Holder: h, DailyLimit: 50, HourlyLimit: 15}
	return s, h
}

func get(t *testing.T, s *StatusServer, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	s, _ := testServer()
	rec := get(t, s, "/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("unexpected body: %v", body)
	}
}

func TestProgressBeforeAndAfterPublish(t *testing.T) {
	s, h := testServer()

	rec := get(t, s, "/progress")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 before any publish, got %d", rec.Code)
	}

	progress := model.NewCampaignProgress(10)
	progress.Processed = 4
	progress.Sent = 3
	progress.Failed = 1
	h.PublishProgress(*progress)

	rec = get(t, s, "/progress")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var got model.CampaignProgress
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if got.Processed != 4 || got.Sent != 3 || got.TotalRecipients != 10 {
		t.Errorf("unexpected progress: %+v", got)
	}
}

func TestRateLimitView(t *testing.T) {
	s, h := testServer()

	state := model.NewSendingState()
	state.SentToday = 7
	state.SentThisHour = 3
	state.MessagesSinceBatchDelay = 4
	state.NextBatchDelayAt = 12
	h.PublishState(state)

	rec := get(t, s, "/ratelimit")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var got map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if got["daily_limit"].(float64) != 50 {
		t.Errorf("daily_limit wrong: %v", got["daily_limit"])
	}
	if got["sent_today"].(float64) != 7 {
		t.Errorf("sent_today wrong: %v", got["sent_today"])
	}
	if got["messages_until_batch_delay"].(float64) != 8 {
		t.Errorf("messages_until_batch_delay wrong: %v", got["messages_until_batch_delay"])
	}
}

func TestHistoryEndpoint(t *testing.T) {
	s, _ := testServer()
	s.History = &fakeHistory{
		recent: []model.AttemptResult{
			{Phone: "+12025551001", Name: "Coffee Paradise", Outcome: model.OutcomeSuccess, Timestamp: time.Now()},
			{Phone: "+12025551002", Name: "Book Haven", Outcome: model.OutcomeFailed, Timestamp: time.Now()},
		},
		counts: map[string]int{"success": 1, "failed": 1},
	}

	rec := get(t, s, "/history?limit=1")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var got struct {
		Recent []model.AttemptResult `json:"recent"`
		Counts map[string]int        `json:"counts"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(got.Recent) != 1 {
		t.Errorf("limit not honoured, got %d entries", len(got.Recent))
	}
	if got.Counts["failed"] != 1 {
		t.Errorf("counts wrong: %v", got.Counts)
	}
}

func TestHistoryDisabled(t *testing.T) {
	s, _ := testServer()
	rec := get(t, s, "/history")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 when history is off, got %d", rec.Code)
	}
}

func TestHistoryRejectsBadLimit(t *testing.T) {
	s, _ := testServer()
	s.History = &fakeHistory{}
	rec := get(t, s, "/history?limit=zero")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for a bad limit, got %d", rec.Code)
	}
}
