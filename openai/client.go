package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/tmc/langchaingo/llms"
	lcopenai "github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"

	"github.com/randalmurphal/prospectkit/provider"
)

// ProviderName is the registry name of this provider.
const ProviderName = "openai"

// errNoChoices is returned when the provider answers without any completion.
var errNoChoices = errors.New("response contained no choices")

// Client implements provider.Client for OpenAI.
// The underlying langchaingo model is built on first use and shared by all
// calls; Client is safe for concurrent use.
type Client struct {
	cfg        provider.Config
	logger     *zap.Logger
	httpClient *http.Client

	mu  sync.Mutex
	llm llms.Model
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the client logger, overriding provider.Config.Logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithBaseTransport sets the transport wrapped by the retrying transport.
func WithBaseTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.httpClient.Transport.(*retryTransport).base = rt
	}
}

// WithBackoff sets the retry backoff bounds.
func WithBackoff(initial, max time.Duration) Option {
	return func(c *Client) {
		t := c.httpClient.Transport.(*retryTransport)
		t.initialInterval = initial
		t.maxInterval = max
	}
}

// New creates an OpenAI client. The credential is not checked here so that
// a misconfigured key surfaces per request as a configuration failure.
func New(cfg provider.Config, opts ...Option) (*Client, error) {
	if cfg.Provider == "" {
		cfg.Provider = ProviderName
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		cfg:    cfg,
		logger: cfg.GetLogger(),
		httpClient: &http.Client{
			Transport: &retryTransport{
				base:            http.DefaultTransport,
				maxRetries:      cfg.MaxRetries,
				initialInterval: DefaultInitialInterval,
				maxInterval:     DefaultMaxInterval,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.httpClient.Transport.(*retryTransport).logger = c.logger
	return c, nil
}

// Provider implements provider.Client.
func (c *Client) Provider() string { return ProviderName }

// Close implements provider.Client.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

func (c *Client) model() (llms.Model, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.llm != nil {
		return c.llm, nil
	}

	opts := []lcopenai.Option{
		lcopenai.WithToken(c.cfg.Credential),
		lcopenai.WithModel(c.cfg.Model),
		lcopenai.WithHTTPClient(c.httpClient),
	}
	if c.cfg.BaseURL != "" {
		opts = append(opts, lcopenai.WithBaseURL(c.cfg.BaseURL))
	}
	if org := c.cfg.GetStringOption("organization", ""); org != "" {
		opts = append(opts, lcopenai.WithOrganization(org))
	}

	llm, err := lcopenai.New(opts...)
	if err != nil {
		return nil, err
	}
	c.llm = llm
	return llm, nil
}

// Complete implements provider.Client. It performs one logical request;
// transport-level retries happen below it.
func (c *Client) Complete(ctx context.Context, req provider.Request) (*provider.Response, error) {
	if err := provider.CheckCredential(c.cfg.Credential); err != nil {
		return nil, err
	}

	llm, err := c.model()
	if err != nil {
		return nil, provider.NewError(ProviderName, "init", err, false)
	}

	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}
	ctx, tr := withTrace(ctx)

	modelID := req.Model
	if modelID == "" {
		modelID = c.cfg.Model
	}
	callOpts := []llms.CallOption{llms.WithModel(modelID)}
	if req.MaxTokens > 0 {
		callOpts = append(callOpts, llms.WithMaxTokens(req.MaxTokens))
	}

	start := time.Now()
	resp, err := llm.GenerateContent(ctx, toMessageContent(req.Messages), callOpts...)
	attempts, _, _, _ := tr.snapshot()
	if err != nil {
		return nil, classify(ctx, tr, err)
	}
	if len(resp.Choices) == 0 {
		return nil, provider.NewError(ProviderName, "complete", errNoChoices, false)
	}

	choice := resp.Choices[0]
	out := &provider.Response{
		Content:      choice.Content,
		Usage:        usageFrom(choice.GenerationInfo),
		Model:        modelID,
		FinishReason: choice.StopReason,
		Duration:     time.Since(start),
		Attempts:     attempts,
	}

	c.logger.Debug("openai completion",
		zap.String("model", modelID),
		zap.Int("total_tokens", out.Usage.Total()),
		zap.Int("attempts", attempts),
		zap.Duration("duration", out.Duration))

	return out, nil
}

func toMessageContent(msgs []provider.Message) []llms.MessageContent {
	out := make([]llms.MessageContent, 0, len(msgs))
	for _, m := range msgs {
		var role llms.ChatMessageType
		switch m.Role {
		case provider.RoleSystem:
			role = llms.ChatMessageTypeSystem
		case provider.RoleAssistant:
			role = llms.ChatMessageTypeAI
		default:
			role = llms.ChatMessageTypeHuman
		}
		out = append(out, llms.TextParts(role, m.Content))
	}
	return out
}

func usageFrom(info map[string]any) provider.TokenUsage {
	return provider.TokenUsage{
		InputTokens:  intValue(info["PromptTokens"]),
		OutputTokens: intValue(info["CompletionTokens"]),
		TotalTokens:  intValue(info["TotalTokens"]),
	}
}

func intValue(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int32:
		return int(n)
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}

// classify maps a failed call to a provider sentinel. The HTTP status seen
// by the transport wins; message matching is the last resort.
func classify(ctx context.Context, tr *callTrace, err error) error {
	attempts, status, retryAfter, netErr := tr.snapshot()

	wrap := func(sentinel error, retryable bool) error {
		e := provider.NewError(ProviderName, "complete", fmt.Errorf("%w: %v", sentinel, err), retryable)
		return e.WithStatus(status, retryAfter)
	}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return wrap(provider.ErrAuthentication, false)
	case status == http.StatusTooManyRequests:
		return wrap(provider.ErrRateLimited, true)
	case status >= 400 && status < 500:
		return wrap(provider.ErrInvalidRequest, false)
	case status >= 500:
		return provider.NewError(ProviderName, "complete", err, true).WithStatus(status, 0)
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return wrap(provider.ErrTimeout, true)
	}
	if errors.Is(err, context.Canceled) {
		return provider.NewError(ProviderName, "complete", err, false)
	}
	if netErr != nil && attempts > 0 {
		return wrap(provider.ErrUnavailable, true)
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "401") || strings.Contains(msg, "api key"):
		return wrap(provider.ErrAuthentication, false)
	case strings.Contains(msg, "429") || strings.Contains(msg, "rate limit"):
		return wrap(provider.ErrRateLimited, true)
	case strings.Contains(msg, "connection refused") || strings.Contains(msg, "no such host"):
		return wrap(provider.ErrUnavailable, true)
	}
	return provider.NewError(ProviderName, "complete", err, false)
}
