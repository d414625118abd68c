package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/prospectkit/configcheck"
)

var errInvalidConfig = errors.New("configuration is invalid")

func (a *app) newValidateCmd() *cobra.Command {
	var (
		watch  bool
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "validate [path]",
		Short: "Validate the prompt configuration file",
		Long: `Validate checks the prompt configuration against its schema and reports
the number of tiers, outreach principles and the template length. Problems
that would make generation fall back to the built-in template are listed
as warnings. With --watch the file is checked again after every change.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.settings.Prompts.Path
			if len(args) == 1 {
				path = args[0]
			}

			v, err := configcheck.New(configcheck.WithLogger(a.logger))
			if err != nil {
				return err
			}

			report := func(r *configcheck.Report, err error) {
				if asJSON && err == nil {
					_ = writeJSON(a.out, r)
					return
				}
				printReport(a.out, path, r, err)
			}

			if watch {
				fmt.Fprintf(a.out, "Watching %s (Ctrl-C to stop)\n", path)
				return v.Watch(cmd.Context(), path, report)
			}

			r, err := v.Validate(path)
			report(r, err)
			if err != nil {
				return err
			}
			if !r.Valid() {
				return errInvalidConfig
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "re-validate whenever the file changes")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}

func (a *app) newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of the prompt configuration",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			raw, err := configcheck.Schema()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(a.out, string(raw))
			return err
		},
	}
}

func printReport(w io.Writer, path string, r *configcheck.Report, err error) {
	if err != nil {
		fmt.Fprintf(w, "FAIL %s: %v\n", path, err)
		return
	}

	status := "OK"
	if !r.Valid() {
		status = "FAIL"
	}
	fmt.Fprintf(w, "%s %s (%s)\n", status, path, r.Format)
	for _, e := range r.Errors {
		fmt.Fprintf(w, "  error: %s\n", e)
	}
	for _, warn := range r.Warnings {
		fmt.Fprintf(w, "  warning: %s\n", warn)
	}
	fmt.Fprintf(w, "  Found %d tiers\n", r.Tiers)
	fmt.Fprintf(w, "  Found %d outreach principles\n", r.Principles)
	fmt.Fprintf(w, "  Prompt template length: %d characters\n", r.TemplateLength)
}
