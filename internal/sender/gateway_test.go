// internal/sender/gateway_test.go
package sender

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestGatewaySenderPostsMessage(t *testing.T) {
	var gotAuth, gotContentType string
	var gotPayload gatewayPayload

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		if err := json.NewDecoder(r.Body).Decode(&gotPayload); err != nil {
			t.Errorf("bad payload: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	s := NewGatewaySender(srv.URL, "secret-token", 5*time.Second)
	err := s.Send(context.Background(), "+12025551001", "Hi Coffee Paradise")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotAuth != "Bearer secret-token" {
		t.Errorf("auth header = %q", gotAuth)
	}
	if gotContentType != "application/json" {
		t.Errorf("content type = %q", gotContentType)
	}
	if gotPayload.To != "+12025551001" || gotPayload.Body != "Hi Coffee Paradise" {
		t.Errorf("payload = %+v", gotPayload)
	}
}

func TestGatewaySenderReportsServerErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := NewGatewaySender(srv.URL, "", time.Second)
	err := s.Send(context.Background(), "+12025551001", "hello")
	if err == nil {
		t.Fatal("expected an error for a 500 response")
	}
	if !strings.Contains(err.Error(), "500") || !strings.Contains(err.Error(), "upstream exploded") {
		t.Errorf("error should carry status and detail: %v", err)
	}
}

func TestGatewaySenderMapsTooManyRequests(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	s := NewGatewaySender(srv.URL, "", time.Second)
	err := s.Send(context.Background(), "+12025551001", "hello")
	if err == nil || !strings.Contains(err.Error(), "rate limit") {
		t.Errorf("429 should map to a rate limit error, got %v", err)
	}
}

func TestDryRunSenderAlwaysSucceeds(t *testing.T) {
	s := &DryRunSender{}
	if err := s.Send(context.Background(), "+12025551001", "hello"); err != nil {
		t.Fatalf("dry run should never fail: %v", err)
	}
}

func TestDryRunSenderHonoursCancellation(t *testing.T) {
	s := &DryRunSender{Latency: time.Minute}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.Send(ctx, "+12025551001", "hello"); err == nil {
		t.Fatal("expected context error")
	}
}
