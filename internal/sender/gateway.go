// internal/sender/gateway.go
package sender

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// GatewaySender posts messages to an HTTP messaging gateway. The
// endpoint is expected to accept {"to": ..., "body": ...} and answer
// with a 2xx status.
type GatewaySender struct {
	Endpoint string
	Token    string
	Client   *http.Client
}

var _ MessageSender = (*GatewaySender)(nil)

func NewGatewaySender(endpoint, token string, timeout time.Duration) *GatewaySender {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &GatewaySender{
		Endpoint: endpoint,
		Token:    token,
		Client:   &http.Client{Timeout: timeout},
	}
}

type gatewayPayload struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

func (s *GatewaySender) Send(ctx context.Context, phone, text string) error {
	body, err := json.Marshal(gatewayPayload{To: phone, Body: text})
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return fmt.Errorf("gateway request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("gateway rate limit (status 429)")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		msg := strings.TrimSpace(string(detail))
		if msg == "" {
			return fmt.Errorf("gateway returned status %d", resp.StatusCode)
		}
		return fmt.Errorf("gateway returned status %d: %s", resp.StatusCode, msg)
	}
	return nil
}
