// Package server exposes the generation pipeline over HTTP with gin.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/randalmurphal/prospectkit/domaincheck"
	"github.com/randalmurphal/prospectkit/generate"
	"github.com/randalmurphal/prospectkit/metrics"
	"github.com/randalmurphal/prospectkit/session"
)

// SessionHeader carries the caller's session id for duplicate suppression.
const SessionHeader = "X-Session-ID"

const shutdownTimeout = 10 * time.Second

// Service is the part of *generate.Service the server uses.
type Service interface {
	Generate(ctx context.Context, req generate.Request) (*generate.Result, error)
	Preview(req generate.Request) (*generate.Preview, error)
}

// Server is the HTTP surface.
type Server struct {
	svc      Service
	sessions *session.Registry
	market   domaincheck.Market
	logger   *zap.Logger

	collector *metrics.Collector
	gatherer  prometheus.Gatherer

	origins     []string
	rateLimit   float64
	burst       int
	serviceName string

	readTimeout  time.Duration
	writeTimeout time.Duration

	engine *gin.Engine
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithMetrics records request and generation metrics on c and serves g at
// /metrics.
func WithMetrics(c *metrics.Collector, g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.collector = c
		s.gatherer = g
	}
}

// WithSessions sets the session registry.
func WithSessions(r *session.Registry) Option {
	return func(s *Server) { s.sessions = r }
}

// WithMarket sets the market used by the pre-check endpoint.
func WithMarket(m domaincheck.Market) Option {
	return func(s *Server) { s.market = m }
}

// WithCORS allows the given origins. An empty list disables CORS handling.
func WithCORS(origins []string) Option {
	return func(s *Server) { s.origins = origins }
}

// WithRateLimit limits generation requests per client to perSecond with the
// given burst. A non-positive rate disables limiting.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(s *Server) {
		s.rateLimit = perSecond
		s.burst = burst
	}
}

// WithTracing instruments requests with OpenTelemetry under serviceName.
func WithTracing(serviceName string) Option {
	return func(s *Server) { s.serviceName = serviceName }
}

// WithTimeouts sets the HTTP read and write timeouts used by Run.
func WithTimeouts(read, write time.Duration) Option {
	return func(s *Server) {
		s.readTimeout = read
		s.writeTimeout = write
	}
}

// New creates a server for svc.
func New(svc Service, opts ...Option) *Server {
	s := &Server{
		svc:    svc,
		market: domaincheck.Qatar,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.sessions == nil {
		s.sessions = session.NewRegistry(session.DefaultIdleTimeout)
	}
	s.engine = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(recovery(s.logger), requestID())
	if s.serviceName != "" {
		r.Use(otelgin.Middleware(s.serviceName))
	}
	if len(s.origins) > 0 {
		r.Use(corsMiddleware(s.origins))
	}
	if s.collector != nil {
		r.Use(observe(s.collector))
	}

	r.GET("/healthz", s.health)
	if s.gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	}

	v1 := r.Group("/v1")
	v1.POST("/generations", rateLimit(s.rateLimit, s.burst), s.generate)
	v1.POST("/previews", s.preview)
	v1.POST("/checks", s.check)
	v1.GET("/sessions/:id", s.sessionStats)
	v1.DELETE("/sessions/:id", s.dropSession)
	return r
}

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.engine,
		ReadTimeout:  s.readTimeout,
		WriteTimeout: s.writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("http server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
