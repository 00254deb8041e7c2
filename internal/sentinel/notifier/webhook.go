package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/autopeer-io/sentinel/internal/pkg/otel"
	"github.com/autopeer-io/sentinel/internal/sentinel/core"
	"github.com/autopeer-io/sentinel/internal/sentinel/core/model"
)

const defaultWebhookTimeout = 10 * time.Second

var _ core.AlertSink = (*Webhook)(nil)

// WebhookOption configures a Webhook.
type WebhookOption func(*Webhook)

// WithHeaders sets custom HTTP headers sent with every POST.
func WithHeaders(h map[string]string) WebhookOption {
	return func(w *Webhook) { w.headers = h }
}

// WithTimeout sets the HTTP client timeout. Default: 10s.
func WithTimeout(d time.Duration) WebhookOption {
	return func(w *Webhook) {
		if d > 0 {
			w.client.Timeout = d
		}
	}
}

// WithHTTPClient replaces the HTTP client. Its timeout is kept as is.
func WithHTTPClient(c *http.Client) WebhookOption {
	return func(w *Webhook) { w.client = c }
}

// Webhook POSTs each alert as a single JSON object. There is exactly one
// attempt per alert; the response status only decides success or failure.
type Webhook struct {
	client  *http.Client
	url     string
	headers map[string]string
}

// NewWebhook creates a webhook sink targeting url.
func NewWebhook(url string, opts ...WebhookOption) *Webhook {
	w := &Webhook{
		client: &http.Client{
			Timeout:   defaultWebhookTimeout,
			Transport: otel.WrapTransport(nil),
		},
		url: url,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *Webhook) Send(ctx context.Context, event *model.AlertEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("webhook: marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("webhook: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Alert-ID", uuid.NewString())
	for k, v := range w.headers {
		req.Header.Set(k, v)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: webhook: %w", ErrDispatchFailed, err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: webhook: HTTP %d", ErrDispatchFailed, resp.StatusCode)
	}
	return nil
}
