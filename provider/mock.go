package provider

import (
	"context"
	"sync"
	"time"
)

// MockClient is a test double for Client.
// It supports fixed responses, a fixed error, and custom handlers.
type MockClient struct {
	mu           sync.Mutex
	content      string
	usage        TokenUsage
	err          error
	completeFunc func(ctx context.Context, req Request) (*Response, error)

	// Calls tracks all requests for assertions.
	Calls []Request
}

// NewMockClient creates a mock that returns content with the given total token count.
func NewMockClient(content string, totalTokens int) *MockClient {
	return &MockClient{
		content: content,
		usage:   TokenUsage{TotalTokens: totalTokens},
	}
}

// WithUsage overrides the reported token usage.
func (m *MockClient) WithUsage(usage TokenUsage) *MockClient {
	m.usage = usage
	return m
}

// WithError configures the mock to always return an error.
func (m *MockClient) WithError(err error) *MockClient {
	m.err = err
	return m
}

// WithCompleteFunc sets a custom handler for Complete calls.
// This takes precedence over the fixed response and error.
func (m *MockClient) WithCompleteFunc(fn func(ctx context.Context, req Request) (*Response, error)) *MockClient {
	m.completeFunc = fn
	return m
}

// Complete implements Client.
func (m *MockClient) Complete(ctx context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, req)
	fn := m.completeFunc
	m.mu.Unlock()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if fn != nil {
		return fn(ctx, req)
	}
	if m.err != nil {
		return nil, m.err
	}

	return &Response{
		Content:      m.content,
		Usage:        m.usage,
		Model:        req.Model,
		FinishReason: "stop",
		Duration:     10 * time.Millisecond,
		Attempts:     1,
	}, nil
}

// Provider implements Client.
func (m *MockClient) Provider() string {
	return "mock"
}

// Close implements Client.
func (m *MockClient) Close() error {
	return nil
}

// CallCount returns the number of Complete calls.
func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// LastCall returns the most recent request, or nil if none.
func (m *MockClient) LastCall() *Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Calls) == 0 {
		return nil
	}
	req := m.Calls[len(m.Calls)-1]
	return &req
}
