package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/randalmurphal/prospectkit/compose"
	"github.com/randalmurphal/prospectkit/domaincheck"
	"github.com/randalmurphal/prospectkit/export"
	"github.com/randalmurphal/prospectkit/generate"
	"github.com/randalmurphal/prospectkit/parser"
	"github.com/randalmurphal/prospectkit/session"
)

type generateFlags struct {
	input    session.Input
	pillars  []string
	specs    string
	outDir   string
	link     string
	noExport bool
	asJSON   bool
	dryRun   bool
	plain    bool
	precheck bool
}

func (a *app) newGenerateCmd() *cobra.Command {
	var f generateFlags

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a prospect list for a business",
		Example: `  prospectfind generate -b "B2B logistics SaaS" --tiers "Tier 1,Tier 2" --additional "mid-market"
  prospectfind generate -b "Fintech for SMEs" --align-vision --pillars economic,human
  prospectfind generate -b "Edtech platform" --dry-run`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runGenerate(cmd, f, cmd.Flags().Changed("link"))
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.input.BusinessDesc, "business", "b", "", "business description (required)")
	fl.StringSliceVar(&f.input.Tiers, "tiers", nil, "target tiers to emphasise")
	fl.StringVar(&f.input.Additional, "additional", "", "additional market-fit specifications")
	fl.BoolVar(&f.input.Align, "align-vision", false, "align with Qatar National Vision 2030")
	fl.StringSliceVar(&f.pillars, "pillars", nil, "vision pillars to focus: human, social, economic, environmental")
	fl.StringVar(&f.specs, "specs", "", "raw specifications, replacing the ones built from --tiers and --additional")
	fl.StringVarP(&f.outDir, "out", "o", "", "export directory (default from settings)")
	fl.StringVar(&f.link, "link", "", "latest-file symlink path, empty to disable (default from settings)")
	fl.BoolVar(&f.noExport, "no-export", false, "do not write a markdown file")
	fl.BoolVar(&f.asJSON, "json", false, "print the result as JSON")
	fl.BoolVar(&f.dryRun, "dry-run", false, "compose and estimate without calling the provider")
	fl.BoolVar(&f.plain, "plain", false, "print markdown without terminal rendering")
	fl.BoolVar(&f.precheck, "check", false, "run the market pre-check first")
	_ = cmd.MarkFlagRequired("business")
	return cmd
}

func (a *app) runGenerate(cmd *cobra.Command, f generateFlags, linkSet bool) error {
	f.input.Pillars = compose.ParsePillars(f.pillars)
	req := f.input.Request()
	if f.specs != "" {
		req.Specs = f.specs
	}

	if f.precheck {
		printCheck(a.out, domaincheck.Qatar, req.BusinessDesc)
	}

	svc, closeClient, err := a.newService()
	if err != nil {
		return err
	}
	defer closeClient()

	if f.dryRun {
		return a.printPreview(svc, req, f.asJSON)
	}

	res, err := svc.Generate(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("generation cancelled: %w", err)
	}

	if f.asJSON {
		if err := writeJSON(a.out, res); err != nil {
			return err
		}
	}
	if !res.OK() {
		return res.Failure
	}
	s := res.Success

	if !f.asJSON {
		fmt.Fprintln(a.out, a.render(s.Content, f.plain))
		fmt.Fprintf(a.out, "Tokens used: %d, Cost: %s\n", s.TokensUsed, export.FormatCost(s.Cost))
		if s.DefaultPriceUsed {
			fmt.Fprintf(a.out, "Model %s is not in the price table; priced as %s.\n", s.Model, s.Cost.PricedAs)
		}
	}

	if f.noExport {
		return nil
	}
	dir := a.settings.Export.Dir
	if f.outDir != "" {
		dir = f.outDir
	}
	link := a.settings.Export.Link
	if linkSet {
		link = f.link
	}
	written, err := export.New(dir, export.WithLink(link), export.WithLogger(a.logger)).Write(req.BusinessDesc, res)
	if err != nil {
		return err
	}

	out := a.out
	if f.asJSON {
		out = a.errOut
	}
	fmt.Fprintf(out, "Saved: %s (%d prospects)\n", written.Path, written.Prospects)
	if written.Link != "" {
		fmt.Fprintf(out, "Symlink: %s -> %s\n", written.Link, written.Path)
	}
	if !written.Structured {
		fmt.Fprintf(out, "Warning: the content has fewer than %d table lines and may not be a complete list.\n", parser.MinTableLines)
	}
	return nil
}

func (a *app) printPreview(svc *generate.Service, req generate.Request, asJSON bool) error {
	p, err := svc.Preview(req)
	if err != nil {
		return err
	}
	if asJSON {
		return writeJSON(a.out, p)
	}

	fmt.Fprintln(a.out, "System:")
	fmt.Fprintln(a.out, p.Composition.System)
	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, "Prompt:")
	fmt.Fprintln(a.out, p.Composition.Prompt)
	fmt.Fprintln(a.out)
	if p.Fallback {
		fmt.Fprintln(a.out, "Using the built-in fallback template.")
	}
	fmt.Fprintf(a.out, "Regional focus: %t\n", p.Composition.RegionalFocus)
	fmt.Fprintf(a.out, "Estimated tokens: %d input + up to %d completion (context window %d)\n",
		p.Estimate.Input(), p.Estimate.MaxCompletion, p.Estimate.ContextWindow)
	fmt.Fprintf(a.out, "Estimated maximum cost: %s\n", export.FormatCost(p.EstimatedCost))
	if !p.Estimate.Fits() {
		fmt.Fprintln(a.out, "Warning: the request may exceed the model's context window.")
	}
	return nil
}

// render formats markdown for the terminal, falling back to the raw text.
func (a *app) render(md string, plain bool) string {
	if plain {
		return md
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		a.logger.Debug("markdown renderer unavailable", zap.Error(err))
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		a.logger.Debug("markdown render failed", zap.Error(err))
		return md
	}
	return strings.TrimRight(out, "\n")
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
