package openai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/randalmurphal/prospectkit/provider"
)

const testKey = "sk-test-0123456789abcdefghijklmnopqrstuvwxyz"

func completionJSON(content string, prompt, completion int) string {
	body, _ := json.Marshal(map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": "stop",
		}},
		"usage": map[string]any{
			"prompt_tokens":     prompt,
			"completion_tokens": completion,
			"total_tokens":      prompt + completion,
		},
	})
	return string(body)
}

func newTestClient(t *testing.T, url string, retries int) *Client {
	t.Helper()
	cfg := provider.DefaultConfig().WithCredential(testKey)
	cfg.BaseURL = url
	cfg.MaxRetries = retries
	cfg.Timeout = 5 * time.Second

	c, err := New(cfg, WithLogger(zaptest.NewLogger(t)), WithBackoff(time.Millisecond, 5*time.Millisecond))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func testRequest() provider.Request {
	return provider.Request{
		Model: "gpt-4o-mini",
		Messages: []provider.Message{
			provider.NewTextMessage(provider.RoleSystem, "You are an expert."),
			provider.NewTextMessage(provider.RoleUser, "List partners."),
		},
		MaxTokens: 1500,
	}
}

func TestClient_Complete_Success(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer "+testKey, r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, completionJSON("| Name | Tier |", 400, 500))
	}))
	defer srv.Close()

	resp, err := newTestClient(t, srv.URL, 3).Complete(context.Background(), testRequest())
	require.NoError(t, err)

	assert.Equal(t, "| Name | Tier |", resp.Content)
	assert.Equal(t, 900, resp.Usage.Total())
	assert.Equal(t, 400, resp.Usage.InputTokens)
	assert.Equal(t, 1, resp.Attempts)
	assert.Equal(t, "gpt-4o-mini", resp.Model)

	msgs, ok := got["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
	assert.Equal(t, "user", msgs[1].(map[string]any)["role"])
}

func TestClient_Complete_StatusClassification(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		header    map[string]string
		want      error
		wantCalls int32
		wantAfter time.Duration
	}{
		{"unauthorized", http.StatusUnauthorized, nil, provider.ErrAuthentication, 1, 0},
		{"forbidden", http.StatusForbidden, nil, provider.ErrAuthentication, 1, 0},
		{"rate limited", http.StatusTooManyRequests, map[string]string{"Retry-After": "0"}, provider.ErrRateLimited, 3, 0},
		{"bad request", http.StatusBadRequest, nil, provider.ErrInvalidRequest, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				for k, v := range tt.header {
					w.Header().Set(k, v)
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, `{"error":{"message":"nope","type":"x"}}`)
			}))
			defer srv.Close()

			_, err := newTestClient(t, srv.URL, 2).Complete(context.Background(), testRequest())
			require.Error(t, err)

			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, tt.wantCalls, calls.Load())

			var perr *provider.Error
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, tt.status, perr.StatusCode)
			assert.Equal(t, tt.wantAfter, perr.RetryAfter)
		})
	}
}

func TestClient_Complete_ServerErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"error":{"message":"boom"}}`)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL, 3).Complete(context.Background(), testRequest())
	require.Error(t, err)

	assert.Equal(t, int32(1), calls.Load())
	assert.False(t, errors.Is(err, provider.ErrRateLimited))
	assert.False(t, errors.Is(err, provider.ErrUnavailable))
	var perr *provider.Error
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, http.StatusInternalServerError, perr.StatusCode)
}

func TestClient_Complete_RateLimitRetryAfter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "7")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL, 0).Complete(context.Background(), testRequest())

	wait, ok := provider.RetryAfter(err)
	require.True(t, ok)
	assert.Equal(t, 7*time.Second, wait)
	assert.True(t, provider.IsRetryable(err))
}

func TestClient_Complete_RateLimitThenSuccess(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, completionJSON("ok", 10, 20))
	}))
	defer srv.Close()

	resp, err := newTestClient(t, srv.URL, 3).Complete(context.Background(), testRequest())
	require.NoError(t, err)

	assert.Equal(t, "ok", resp.Content)
	assert.Equal(t, 2, resp.Attempts)
}

func TestClient_Complete_ConnectionRefused(t *testing.T) {
	// Grab a free port and close it so connections are refused.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	url := "http://" + ln.Addr().String()
	require.NoError(t, ln.Close())

	_, err = newTestClient(t, url, 2).Complete(context.Background(), testRequest())

	require.Error(t, err)
	assert.ErrorIs(t, err, provider.ErrUnavailable)
	assert.True(t, provider.IsRetryable(err))
}

func TestClient_Complete_ConnectionErrorsRetriedUpToBudget(t *testing.T) {
	var calls atomic.Int32
	failing := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		calls.Add(1)
		return nil, &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
	})

	cfg := provider.DefaultConfig().WithCredential(testKey)
	cfg.BaseURL = "http://openai.invalid"
	cfg.MaxRetries = 3
	c, err := New(cfg, WithBaseTransport(failing), WithBackoff(time.Millisecond, time.Millisecond))
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), testRequest())

	assert.ErrorIs(t, err, provider.ErrUnavailable)
	assert.Equal(t, int32(4), calls.Load(), "one attempt plus three retries")
}

func TestClient_Complete_PostSendFailuresNotRetried(t *testing.T) {
	tests := map[string]error{
		"unexpected eof": io.ErrUnexpectedEOF,
		"eof":            io.EOF,
		"reset on read":  &net.OpError{Op: "read", Net: "tcp", Err: errors.New("connection reset by peer")},
	}

	for name, failure := range tests {
		t.Run(name, func(t *testing.T) {
			var calls atomic.Int32
			sentThenLost := roundTripFunc(func(r *http.Request) (*http.Response, error) {
				calls.Add(1)
				if r.Body != nil {
					_, _ = io.Copy(io.Discard, r.Body)
				}
				return nil, failure
			})

			cfg := provider.DefaultConfig().WithCredential(testKey)
			cfg.BaseURL = "http://openai.invalid"
			cfg.MaxRetries = 3
			c, err := New(cfg, WithBaseTransport(sentThenLost), WithBackoff(time.Millisecond, time.Millisecond))
			require.NoError(t, err)

			_, err = c.Complete(context.Background(), testRequest())

			require.Error(t, err)
			assert.Equal(t, int32(1), calls.Load(), "a request that may have reached the server is sent once")
		})
	}
}

func TestClient_Complete_LookupFailureRetried(t *testing.T) {
	var calls atomic.Int32
	failing := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		calls.Add(1)
		return nil, &net.DNSError{Err: "no such host", Name: "openai.invalid", IsNotFound: true}
	})

	cfg := provider.DefaultConfig().WithCredential(testKey)
	cfg.BaseURL = "http://openai.invalid"
	cfg.MaxRetries = 2
	c, err := New(cfg, WithBaseTransport(failing), WithBackoff(time.Millisecond, time.Millisecond))
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), testRequest())

	assert.ErrorIs(t, err, provider.ErrUnavailable)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_Complete_RateLimitedAfterRetryBudget(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL, 2).Complete(context.Background(), testRequest())

	require.ErrorIs(t, err, provider.ErrRateLimited)
	assert.Equal(t, int32(3), calls.Load(), "one attempt plus two retries")
}

func TestClient_Complete_CredentialChecked(t *testing.T) {
	tests := []struct {
		key  string
		want error
	}{
		{"", provider.ErrCredentialsNotFound},
		{"sk-your-key-here-xxxxxxxxxxxxxxxxxxxxxxxx", provider.ErrCredentialsInvalid},
		{"sk-short", provider.ErrCredentialsInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
			}))
			defer srv.Close()

			cfg := provider.DefaultConfig().WithCredential(tt.key)
			cfg.BaseURL = srv.URL
			c, err := New(cfg)
			require.NoError(t, err)

			_, err = c.Complete(context.Background(), testRequest())
			assert.ErrorIs(t, err, tt.want)
			assert.Zero(t, calls.Load())
		})
	}
}

func TestClient_Complete_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	cfg := provider.DefaultConfig().WithCredential(testKey)
	cfg.BaseURL = srv.URL
	cfg.Timeout = 50 * time.Millisecond
	c, err := New(cfg)
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), testRequest())
	assert.ErrorIs(t, err, provider.ErrTimeout)
}

func TestRegistered(t *testing.T) {
	assert.True(t, provider.IsRegistered(ProviderName))

	cfg := provider.DefaultConfig().WithCredential(testKey)
	c, err := provider.FromConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, ProviderName, c.Provider())
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }
