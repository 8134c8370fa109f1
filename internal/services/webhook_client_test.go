package services

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhookClientPostsJSON(t *testing.T) {
	var gotMethod, gotType string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotType = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &gotBody)
		w.Write([]byte(`{"reply_count":3}`))
	}))
	defer srv.Close()

	c := NewWebhookClient(time.Second)
	resp, err := c.Do(context.Background(), WebhookRequest{
		URL:     srv.URL,
		Payload: map[string]string{"action": "refresh_dashboard", "client_key": "acme"},
	})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "application/json", gotType)
	assert.Equal(t, "refresh_dashboard", gotBody["action"])
	assert.True(t, resp.OK())
	assert.JSONEq(t, `{"reply_count":3}`, string(resp.Body))
}

func TestWebhookClientGetSendsNoBody(t *testing.T) {
	var length int64 = -1
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		length = r.ContentLength
	}))
	defer srv.Close()

	_, err := NewWebhookClient(time.Second).Do(context.Background(), WebhookRequest{
		URL:     srv.URL,
		Method:  "get",
		Payload: map[string]string{"ignored": "yes"},
	})
	require.NoError(t, err)
	assert.Zero(t, length)
}

func TestWebhookClientReturnsNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	resp, err := NewWebhookClient(time.Second).Do(context.Background(), WebhookRequest{URL: srv.URL})
	require.NoError(t, err)
	assert.False(t, resp.OK())
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, "Bad Gateway", resp.StatusText())
}

func TestWebhookClientTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := NewWebhookClient(time.Second).Do(context.Background(), WebhookRequest{
		URL:     srv.URL,
		Timeout: 50 * time.Millisecond,
	})
	require.Error(t, err)
	assert.True(t, IsTimeout(err))
}

func TestWebhookClientConnectionRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	_, err = NewWebhookClient(time.Second).Do(context.Background(), WebhookRequest{URL: "http://" + addr})
	require.Error(t, err)
	assert.False(t, IsTimeout(err))
}

func TestWebhookClientRequiresURL(t *testing.T) {
	_, err := NewWebhookClient(0).Do(context.Background(), WebhookRequest{URL: "  "})
	assert.ErrorIs(t, err, ErrWebhookURLRequired)
}

func TestWebhookClientRejectsOversizedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"pad":"`+strings.Repeat("x", maxWebhookBody)+`"}`)
	}))
	defer srv.Close()

	_, err := NewWebhookClient(5*time.Second).Do(context.Background(), WebhookRequest{URL: srv.URL, Method: http.MethodGet})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrResponseTooLarge)
	assert.False(t, IsTimeout(err))
}

func TestWebhookClientAcceptsBodyAtLimit(t *testing.T) {
	body := strings.Repeat(" ", maxWebhookBody-2) + "{}"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, body)
	}))
	defer srv.Close()

	resp, err := NewWebhookClient(5*time.Second).Do(context.Background(), WebhookRequest{URL: srv.URL, Method: http.MethodGet})
	require.NoError(t, err)
	assert.Len(t, resp.Body, maxWebhookBody)
}
