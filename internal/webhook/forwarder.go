package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"log/slog"
)

// DefaultTimeout bounds a single delivery attempt.
const DefaultTimeout = 10 * time.Second

// maxErrorBody caps how much of a rejected response is kept.
const maxErrorBody = 512

// DeliveryError reports a message the destination did not accept.
// StatusCode is zero when no response was received. Body holds the start
// of a rejected response for the log; it is never shown to the caller.
type DeliveryError struct {
	StatusCode int
	Reason     string
	Body       string
	Err        error
}

func (e *DeliveryError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("webhook returned %d: %s", e.StatusCode, e.Reason)
	}
	return fmt.Sprintf("webhook connection failed: %v", e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

type payload struct {
	Content string `json:"content"`
}

// Forwarder posts chat messages to a webhook URL, once per call.
type Forwarder struct {
	Client  *http.Client
	Timeout time.Duration
	Logger  *slog.Logger
}

func NewForwarder(timeout time.Duration, logger *slog.Logger) *Forwarder {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Forwarder{
		Client:  &http.Client{},
		Timeout: timeout,
		Logger:  logger,
	}
}

// Deliver sends content to url as {"content": content}. Any 2xx status is
// success; everything else comes back as a *DeliveryError.
func (f *Forwarder) Deliver(ctx context.Context, url, content string) error {
	body, err := json.Marshal(payload{Content: content})
	if err != nil {
		return &DeliveryError{Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, f.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return &DeliveryError{Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.Client.Do(req)
	if err != nil {
		return &DeliveryError{Err: err}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			f.Logger.Warn("close webhook response", "err", err)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		f.Logger.Debug("webhook rejected message", "status", resp.StatusCode)
		return &DeliveryError{
			StatusCode: resp.StatusCode,
			Reason:     reason(resp),
			Body:       strings.TrimSpace(string(b)),
		}
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
	f.Logger.Debug("webhook accepted message", "status", resp.StatusCode, "length", len(content))
	return nil
}

func reason(resp *http.Response) string {
	if text := strings.TrimSpace(strings.TrimPrefix(resp.Status, fmt.Sprint(resp.StatusCode))); text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode)
}
