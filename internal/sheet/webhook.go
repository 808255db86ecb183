package sheet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Action is a webhook mutation verb.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// WriteRequest is the webhook payload. Index is the 0-based data row the
// mutation targets; nil for create. The webhook owns mapping it to an
// underlying sheet row, and a write is not visible here until the next poll
// tick picks it up.
type WriteRequest struct {
	Action Action         `json:"action"`
	Sheet  string         `json:"sheet"`
	Index  *int           `json:"index"`
	Item   map[string]any `json:"item"`
}

type writeResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Writer posts mutations to the sheet's write webhook.
type Writer struct {
	url  string
	http *http.Client
}

// NewWriter builds a Writer for the given webhook URL.
func NewWriter(webhookURL string) *Writer {
	return &Writer{
		url:  webhookURL,
		http: &http.Client{Timeout: 15 * time.Second},
	}
}

// Write posts one mutation and surfaces the webhook's own error string when
// it reports failure.
func (w *Writer) Write(ctx context.Context, req WriteRequest) error {
	if w == nil || w.url == "" {
		return fmt.Errorf("no webhook configured")
	}

	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode write request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := w.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	var decoded writeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if !decoded.Success {
		if decoded.Error != "" {
			return fmt.Errorf("webhook rejected write: %s", decoded.Error)
		}
		return fmt.Errorf("webhook rejected write")
	}
	return nil
}
