package openai

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
)

// Backoff defaults for transport retries.
const (
	DefaultInitialInterval = 500 * time.Millisecond
	DefaultMaxInterval     = 8 * time.Second
	maxRetryAfter          = 30 * time.Second
)

// callTrace records what the transport saw for one logical call. It travels
// in the request context so a shared client stays safe for concurrent use.
type callTrace struct {
	mu         sync.Mutex
	attempts   int
	status     int
	retryAfter time.Duration
	netErr     error
}

type traceKey struct{}

func withTrace(ctx context.Context) (context.Context, *callTrace) {
	tr := &callTrace{}
	return context.WithValue(ctx, traceKey{}, tr), tr
}

func traceFrom(ctx context.Context) *callTrace {
	tr, _ := ctx.Value(traceKey{}).(*callTrace)
	return tr
}

func (tr *callTrace) record(resp *http.Response, err error) {
	if tr == nil {
		return
	}
	tr.mu.Lock()
	defer tr.mu.Unlock()

	tr.attempts++
	tr.status = 0
	tr.retryAfter = 0
	tr.netErr = err
	if resp != nil {
		tr.status = resp.StatusCode
		tr.retryAfter = parseRetryAfter(resp.Header.Get("Retry-After"), time.Now())
	}
}

func (tr *callTrace) snapshot() (attempts, status int, retryAfter time.Duration, netErr error) {
	if tr == nil {
		return 0, 0, 0, nil
	}
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return tr.attempts, tr.status, tr.retryAfter, tr.netErr
}

// retryTransport retries connection errors and 429 responses.
type retryTransport struct {
	base            http.RoundTripper
	maxRetries      int
	initialInterval time.Duration
	maxInterval     time.Duration
	logger          *zap.Logger
}

func (t *retryTransport) newBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = t.initialInterval
	b.MaxInterval = t.maxInterval
	b.Reset()
	return b
}

// RoundTrip implements http.RoundTripper.
func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	tr := traceFrom(ctx)
	b := t.newBackOff()

	for attempt := 0; ; attempt++ {
		r := req
		if attempt > 0 {
			var err error
			if r, err = rewind(req); err != nil {
				return nil, err
			}
		}

		resp, err := t.base.RoundTrip(r)
		tr.record(resp, err)

		retry, hint := t.retryable(ctx, resp, err)
		if !retry || attempt >= t.maxRetries {
			return resp, err
		}
		if req.Body != nil && req.GetBody == nil {
			// Body already consumed and cannot be replayed.
			return resp, err
		}

		delay := b.NextBackOff()
		if delay == backoff.Stop {
			return resp, err
		}
		if hint > delay {
			delay = min(hint, maxRetryAfter)
		}

		fields := []zap.Field{
			zap.Int("attempt", attempt+1),
			zap.Duration("delay", delay),
		}
		if resp != nil {
			fields = append(fields, zap.Int("status", resp.StatusCode))
			drain(resp)
		} else {
			fields = append(fields, zap.Error(err))
		}
		t.logger.Warn("retrying openai request", fields...)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

// retryable decides whether an attempt should be repeated and returns any
// server-suggested wait.
func (t *retryTransport) retryable(ctx context.Context, resp *http.Response, err error) (bool, time.Duration) {
	if ctx.Err() != nil {
		return false, 0
	}
	if err != nil {
		return neverSent(err), 0
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return true, parseRetryAfter(resp.Header.Get("Retry-After"), time.Now())
	}
	return false, 0
}

// neverSent reports whether err proves the request did not reach the server.
// Failures after the request was written, such as EOF or a reset while
// reading the response, may already have produced a billed completion and
// are final.
func neverSent(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return true
	}
	var certErr *tls.CertificateVerificationError
	if errors.As(err, &certErr) {
		return true
	}
	var recErr tls.RecordHeaderError
	return errors.As(err, &recErr)
}

func rewind(req *http.Request) (*http.Request, error) {
	r := req.Clone(req.Context())
	if req.Body == nil || req.GetBody == nil {
		return r, nil
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, fmt.Errorf("rewind request body: %w", err)
	}
	r.Body = body
	return r, nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	_ = resp.Body.Close()
}

// parseRetryAfter reads a Retry-After header given in seconds or as an HTTP date.
func parseRetryAfter(v string, now time.Time) time.Duration {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil {
		if secs < 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(v); err == nil {
		if d := at.Sub(now); d > 0 {
			return d.Round(time.Second)
		}
	}
	return 0
}
