package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

const maxWebhookBody = 4 << 20

var (
	ErrWebhookURLRequired = errors.New("webhook url is required")
	ErrResponseTooLarge   = errors.New("webhook response too large")
)

// WebhookRequest describes one call to a tenant's automation webhook.
type WebhookRequest struct {
	URL     string
	Method  string
	Payload any
	// Timeout bounds the whole call including the body read. Zero uses the client default.
	Timeout time.Duration
}

// WebhookResponse is returned for every HTTP status; callers decide what counts as success.
type WebhookResponse struct {
	StatusCode int
	Status     string
	Header     http.Header
	Body       []byte
	Duration   time.Duration
}

func (r *WebhookResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// StatusText is the reason phrase without the numeric prefix.
func (r *WebhookResponse) StatusText() string {
	text := strings.TrimSpace(strings.TrimPrefix(r.Status, fmt.Sprint(r.StatusCode)))
	if text == "" {
		text = http.StatusText(r.StatusCode)
	}
	return text
}

type WebhookClient struct {
	httpClient *http.Client
	timeout    time.Duration
}

func NewWebhookClient(timeout time.Duration) *WebhookClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &WebhookClient{
		httpClient: &http.Client{},
		timeout:    timeout,
	}
}

func (c *WebhookClient) SetHTTPClient(hc *http.Client) {
	if hc != nil {
		c.httpClient = hc
	}
}

func (c *WebhookClient) Do(ctx context.Context, in WebhookRequest) (*WebhookResponse, error) {
	target := strings.TrimSpace(in.URL)
	if target == "" {
		return nil, ErrWebhookURLRequired
	}

	timeout := in.Timeout
	if timeout <= 0 {
		timeout = c.timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	method := strings.ToUpper(strings.TrimSpace(in.Method))
	if method == "" {
		method = http.MethodPost
	}

	var body io.Reader
	if method != http.MethodGet && in.Payload != nil {
		b, err := json.Marshal(in.Payload)
		if err != nil {
			return nil, fmt.Errorf("webhook: encode payload: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("webhook: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("webhook: %s %s: %w", method, target, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxWebhookBody+1))
	if err != nil {
		return nil, fmt.Errorf("webhook: read body: %w", err)
	}
	if len(raw) > maxWebhookBody {
		return nil, fmt.Errorf("webhook: %s %s: %w (limit %d bytes)", method, target, ErrResponseTooLarge, maxWebhookBody)
	}

	return &WebhookResponse{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Header:     resp.Header,
		Body:       raw,
		Duration:   time.Since(start),
	}, nil
}

// IsTimeout reports whether err came from a deadline or client timeout.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
