// Package template loads the prompt template and outreach framework that
// contextualize a generation request.
//
// The configuration document is YAML (or TOML, by file extension):
//
//	framework:
//	  outreach_principles:
//	    - Lead with the partner's strategic goals
//	  tiers:
//	    - name: Tier 1
//	      description: Strategic corporate venture arms
//	prompt_template: |
//	  Business: {business_desc}
//	  Specs: {specs}
//	  {framework_summary}
//
// The legacy shape with tiers and outreach_principles at the top level is
// also accepted.
//
// # Fallback
//
// Store.Load never fails. A missing file, a parse error, or a template
// without all of {business_desc}, {specs} and {framework_summary} is replaced
// by the built-in fallback template. Sections are decoded independently, so a
// valid framework is still summarized when the template beside it is broken.
//
//	store := template.NewStore("config/prompts.yaml", template.WithLogger(logger))
//	loaded := store.Load()
//	if loaded.Fallback {
//	    // loaded.Reason says why
//	}
package template
