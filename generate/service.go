package generate

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/randalmurphal/prospectkit/compose"
	"github.com/randalmurphal/prospectkit/model"
	"github.com/randalmurphal/prospectkit/provider"
	"github.com/randalmurphal/prospectkit/template"
	"github.com/randalmurphal/prospectkit/tokens"
)

const (
	tracerName = "github.com/randalmurphal/prospectkit/generate"

	// logDescRunes bounds how much of the description goes into logs.
	logDescRunes = 60
)

// TemplateSource supplies the prompt template and framework summary.
// *template.Store implements it.
type TemplateSource interface {
	Load() template.Loaded
}

// Service runs generations against a provider client. It holds no per-call
// state and is safe for concurrent use.
type Service struct {
	cfg      Config
	client   provider.Client
	store    TemplateSource
	composer *compose.Composer
	costs    *model.CostModel
	counter  tokens.Counter
	logger   *zap.Logger
	observer Observer
	tracer   trace.Tracer
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithStore sets the template source. The default reads template.DefaultPath.
func WithStore(src TemplateSource) Option {
	return func(s *Service) { s.store = src }
}

// WithComposer replaces the default Qatar composer.
func WithComposer(c *compose.Composer) Option {
	return func(s *Service) { s.composer = c }
}

// WithCostModel replaces the default cost model.
func WithCostModel(m *model.CostModel) Option {
	return func(s *Service) { s.costs = m }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithObserver adds an observer. Multiple observers are called in order.
func WithObserver(o Observer) Option {
	return func(s *Service) {
		if s.observer == nil {
			s.observer = o
			return
		}
		s.observer = append(multiObserver{s.observer}, o)
	}
}

// WithTracer sets the tracer. The default comes from the global provider.
func WithTracer(t trace.Tracer) Option {
	return func(s *Service) { s.tracer = t }
}

// WithClock sets the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New creates a Service. A nil client is accepted and reported as a
// configuration failure on every request.
func New(cfg Config, client provider.Client, opts ...Option) *Service {
	s := &Service{
		cfg:     cfg.withDefaults(),
		client:  client,
		counter: tokens.NewEstimatingCounter(),
		logger:  zap.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		s.store = template.NewStore(template.DefaultPath, template.WithLogger(s.logger))
	}
	if s.composer == nil {
		s.composer = compose.New(compose.WithSystemPrompt(s.cfg.SystemPrompt))
	}
	if s.costs == nil {
		s.costs = model.NewCostModel(model.WithLogger(s.logger))
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer(tracerName)
	}
	return s
}

// Config returns the effective configuration.
func (s *Service) Config() Config { return s.cfg }

// Generate runs one generation. The returned error is non-nil only when ctx
// is done before a result exists; in every other case the Result describes
// success or failure.
func (s *Service) Generate(ctx context.Context, req Request) (res *Result, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := s.now()
	ctx, span := s.tracer.Start(ctx, "generate", trace.WithAttributes(
		attribute.String("model", s.cfg.Model),
	))
	defer span.End()

	res = &Result{RequestID: uuid.NewString()}
	logger := s.logger.With(
		zap.String("request_id", res.RequestID),
		zap.String("business", truncate(req.BusinessDesc, logDescRunes)),
		zap.String("model", s.cfg.Model),
	)

	state := StateIdle
	defer func() {
		if r := recover(); r != nil {
			logger.Error("generation panicked",
				zap.Stringer("state", state),
				zap.String("panic", redact(fmt.Sprint(r), s.cfg.Credential)),
				zap.Stack("stack"))
			res.Success = nil
			res.Failure = &Failure{
				Kind:    KindUnknown,
				Message: redact(fmt.Sprintf("Unexpected error: %v", r), s.cfg.Credential),
			}
			err = nil
		}
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return
		}
		s.finish(span, res, start, logger)
	}()

	err = s.run(ctx, req, res, logger, &state)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// run drives the state machine, filling res. It returns an error only when
// the caller's context ended.
func (s *Service) run(ctx context.Context, req Request, res *Result, logger *zap.Logger, state *State) error {
	*state = StateValidating
	if f := s.validate(req); f != nil {
		*state = StateRejected
		logger.Warn("generation rejected", zap.Stringer("kind", f.Kind))
		res.Failure = f
		return nil
	}

	*state = StateComposing
	comp, loaded := s.compose(req)
	if loaded.Fallback {
		logger.Debug("composed with fallback template", zap.Error(loaded.Reason))
	}
	logger.Debug("prompt composed",
		zap.Int("prompt_chars", len(comp.Prompt)),
		zap.Int("estimated_tokens", s.counter.Count(comp.System)+s.counter.Count(comp.Prompt)),
		zap.Bool("regional_focus", comp.RegionalFocus))

	*state = StateDispatching
	dctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	resp, err := s.client.Complete(dctx, provider.Request{
		Model: s.cfg.Model,
		Messages: []provider.Message{
			provider.NewTextMessage(provider.RoleSystem, comp.System),
			provider.NewTextMessage(provider.RoleUser, comp.Prompt),
		},
		MaxTokens: s.cfg.MaxTokens,
	})
	if err != nil {
		if cerr := ctx.Err(); cerr != nil {
			logger.Info("generation cancelled", zap.Error(cerr))
			return cerr
		}
		*state = StateFailed
		kind, msg := Classify(err)
		logger.Error("generation failed",
			zap.Stringer("kind", kind),
			zap.String("error", redact(err.Error(), s.cfg.Credential)))
		res.Failure = &Failure{Kind: kind, Message: redact(msg, s.cfg.Credential)}
		return nil
	}
	if resp == nil {
		*state = StateFailed
		res.Failure = &Failure{Kind: KindProviderError, Message: "Provider error: empty response"}
		logger.Error("generation failed", zap.String("error", "nil response"))
		return nil
	}

	*state = StateSucceeded
	modelID := resp.Model
	if modelID == "" {
		modelID = s.cfg.Model
	}
	used := resp.Usage.Total()
	if used < 0 {
		used = 0
	}
	cost := s.costs.Price(modelID, used)

	res.Success = &Success{
		Content:          resp.Content,
		TokensUsed:       used,
		Cost:             cost,
		Model:            modelID,
		RegionalFocus:    comp.RegionalFocus,
		DefaultPriceUsed: cost.DefaultPriceUsed,
	}

	fields := []zap.Field{zap.Int("tokens", used), zap.Int("attempts", resp.Attempts)}
	for _, a := range cost.Amounts {
		fields = append(fields, zap.Float64("cost_"+strings.ToLower(string(a.Currency)), a.Value))
	}
	logger.Info("generation succeeded", fields...)
	return nil
}

func (s *Service) validate(req Request) *Failure {
	if strings.TrimSpace(req.BusinessDesc) == "" {
		return &Failure{Kind: KindInvalidInput, Message: msgEmptyDescription}
	}
	if s.cfg.SpecsPolicy == SpecsRequired && strings.TrimSpace(req.Specs) == "" {
		return &Failure{Kind: KindInvalidInput, Message: msgEmptySpecs}
	}
	if s.client == nil {
		return &Failure{Kind: KindConfiguration, Message: msgNoClient}
	}
	if err := provider.CheckCredential(s.cfg.Credential); err != nil {
		kind, msg := Classify(err)
		return &Failure{Kind: kind, Message: msg}
	}
	return nil
}

func (s *Service) compose(req Request) (compose.Composition, template.Loaded) {
	loaded := s.store.Load()
	comp := s.composer.Compose(loaded.Template, req.BusinessDesc, req.Specs, loaded.Summary, req.Regional)
	return comp, loaded
}

func (s *Service) finish(span trace.Span, res *Result, start time.Time, logger *zap.Logger) {
	end := s.now()
	res.GeneratedAt = end.UTC()

	if res.Success != nil {
		span.SetAttributes(
			attribute.String("outcome", "success"),
			attribute.Int("tokens", res.Success.TokensUsed),
			attribute.Bool("regional_focus", res.Success.RegionalFocus),
		)
		span.SetStatus(codes.Ok, "")
	} else if res.Failure != nil {
		span.SetAttributes(attribute.String("outcome", res.Failure.Kind.String()))
		span.SetStatus(codes.Error, res.Failure.Kind.String())
	}

	if s.observer != nil {
		s.observe(res, end.Sub(start), logger)
	}
}

// observe shields the result from a failing observer.
func (s *Service) observe(res *Result, elapsed time.Duration, logger *zap.Logger) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("generation observer panicked",
				zap.String("panic", redact(fmt.Sprint(r), s.cfg.Credential)),
				zap.Stack("stack"))
		}
	}()
	s.observer.ObserveGeneration(res, elapsed)
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n]) + "..."
}
