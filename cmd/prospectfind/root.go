package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/randalmurphal/prospectkit/generate"
	"github.com/randalmurphal/prospectkit/internal/config"
	"github.com/randalmurphal/prospectkit/internal/logging"
	"github.com/randalmurphal/prospectkit/model"
	"github.com/randalmurphal/prospectkit/provider"
	"github.com/randalmurphal/prospectkit/template"
)

// app carries state shared by the subcommands.
type app struct {
	out    io.Writer
	errOut io.Writer

	configFile string
	envFile    string
	logLevel   string

	settings *config.Settings
	logger   *zap.Logger
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut, logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "prospectfind",
		Short: "Generate ranked customer and partner lists for a business",
		Long: `prospectfind composes a prompt from a business description, market
specifications and an outreach framework, sends it to the configured LLM
provider, and reports the resulting prospect table with token usage and cost.

Settings are read from prospectfind.yaml, then the environment
(PROSPECTFIND_* and OPENAI_API_KEY / OPENAI_MODEL / OPENAI_BASE_URL).
A .env file is loaded first.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) { _ = a.logger.Sync() },
	}
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "settings file (default: prospectfind.yaml in . or config/)")
	pf.StringVar(&a.envFile, "env-file", ".env", "environment file loaded before settings")
	pf.StringVar(&a.logLevel, "log-level", "", "log level override: debug, info, warn, error")

	root.AddCommand(
		a.newGenerateCmd(),
		a.newValidateCmd(),
		a.newSchemaCmd(),
		a.newCheckCmd(),
		a.newServeCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	s, err := config.Load(config.LoadOptions{ConfigFile: a.configFile, EnvFile: a.envFile})
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		s.Log.Level = a.logLevel
	}

	logger, err := logging.New(s.Log.Level, s.Log.Format, s.Log.File)
	if err != nil {
		return err
	}
	a.settings = s
	a.logger = logger.With(zap.String("command", cmd.Name()))
	return nil
}

// newService builds the generation service from the settings. The returned
// function closes the provider client.
func (a *app) newService(opts ...generate.Option) (*generate.Service, func(), error) {
	client, err := provider.FromConfig(a.settings.ProviderConfig(a.logger))
	if err != nil {
		return nil, nil, fmt.Errorf("create provider client: %w", err)
	}
	cfg, err := a.settings.GenerateConfig()
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}

	base := []generate.Option{
		generate.WithLogger(a.logger),
		generate.WithStore(template.NewStore(a.settings.Prompts.Path, template.WithLogger(a.logger))),
		generate.WithCostModel(model.NewCostModel(model.WithLogger(a.logger))),
	}
	svc := generate.New(cfg, client, append(base, opts...)...)
	return svc, func() { _ = client.Close() }, nil
}
