package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/prospectkit/domaincheck"
)

func (a *app) newCheckCmd() *cobra.Command {
	var (
		desc   string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check a business description against the Qatar market",
		RunE: func(*cobra.Command, []string) error {
			if asJSON {
				return writeJSON(a.out, struct {
					domaincheck.Report
					Checklist []string `json:"checklist"`
				}{domaincheck.Qatar.Check(desc), domaincheck.Qatar.ComplianceChecklist(desc)})
			}
			printCheck(a.out, domaincheck.Qatar, desc)
			return nil
		},
	}
	cmd.Flags().StringVarP(&desc, "business", "b", "", "business description (required)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	_ = cmd.MarkFlagRequired("business")
	return cmd
}

func printCheck(w io.Writer, m domaincheck.Market, desc string) {
	r := m.Check(desc)

	if r.Suitable {
		fmt.Fprintf(w, "Market fit: suitable for %s\n", r.Market)
	} else {
		fmt.Fprintf(w, "Market fit: NOT suitable for %s\n", r.Market)
	}
	if len(r.SectorAlignment) > 0 {
		fmt.Fprintf(w, "Priority sectors: %s\n", strings.Join(r.SectorAlignment, ", "))
	}
	for _, issue := range r.Issues {
		fmt.Fprintf(w, "Issue: %s\n", issue)
	}
	for _, rec := range r.Recommendations {
		fmt.Fprintf(w, "Recommendation: %s\n", rec)
	}

	fmt.Fprintln(w, "\nCompliance checklist:")
	for _, item := range m.ComplianceChecklist(desc) {
		fmt.Fprintf(w, "  [ ] %s\n", item)
	}
	fmt.Fprintln(w)
}
