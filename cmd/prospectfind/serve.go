package main

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/randalmurphal/prospectkit/configcheck"
	"github.com/randalmurphal/prospectkit/generate"
	"github.com/randalmurphal/prospectkit/internal/server"
	"github.com/randalmurphal/prospectkit/internal/telemetry"
	"github.com/randalmurphal/prospectkit/metrics"
	"github.com/randalmurphal/prospectkit/session"
)

func (a *app) newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the generation API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				addr = a.settings.Server.Addr
			}
			return a.serve(cmd.Context(), addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from settings)")
	return cmd
}

func (a *app) serve(ctx context.Context, addr string) error {
	s := a.settings
	if s.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	shutdown, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName: s.Tracing.ServiceName,
		Endpoint:    s.Tracing.Endpoint,
		SampleRate:  s.Tracing.SampleRate,
		Enabled:     s.Tracing.Enabled,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			a.logger.Warn("tracer shutdown failed", zap.Error(err))
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.New(reg)

	svc, closeClient, err := a.newService(generate.WithObserver(collector))
	if err != nil {
		return err
	}
	defer closeClient()

	opts := []server.Option{
		server.WithLogger(a.logger),
		server.WithMetrics(collector, reg),
		server.WithSessions(session.NewRegistry(s.Server.SessionIdle)),
		server.WithCORS(s.Server.AllowedOrigins),
		server.WithRateLimit(s.Server.RateLimit, s.Server.Burst),
		server.WithTimeouts(s.Server.ReadTimeout, s.Server.WriteTimeout),
	}
	if s.Tracing.Enabled {
		opts = append(opts, server.WithTracing(s.Tracing.ServiceName))
	}
	srv := server.New(svc, opts...)

	validator, err := configcheck.New(configcheck.WithLogger(a.logger))
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(gctx, addr)
	})
	g.Go(func() error {
		// The template store rereads the file per request; this only reports
		// edits that would make it fall back.
		err := validator.Watch(gctx, s.Prompts.Path, func(r *configcheck.Report, err error) {
			switch {
			case err != nil:
				a.logger.Warn("prompt configuration unusable, generations use the fallback template",
					zap.String("path", s.Prompts.Path), zap.Error(err))
			case !r.Valid() || len(r.Warnings) > 0:
				a.logger.Warn("prompt configuration has problems",
					zap.String("path", s.Prompts.Path),
					zap.Strings("errors", r.Errors),
					zap.Strings("warnings", r.Warnings))
			default:
				a.logger.Info("prompt configuration valid",
					zap.String("path", s.Prompts.Path),
					zap.Int("tiers", r.Tiers),
					zap.Int("outreach_principles", r.Principles))
			}
		})
		if err != nil {
			a.logger.Warn("prompt configuration watch disabled", zap.Error(err))
		}
		return nil
	})
	return g.Wait()
}
