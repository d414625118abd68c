package template

import "strings"

// Tier is a named category of prospective partner.
type Tier struct {
	Name        string `yaml:"name" toml:"name" json:"name" jsonschema:"required"`
	Description string `yaml:"description" toml:"description" json:"description,omitempty"`
}

// Framework is the outreach framework that gives the provider context
// beyond the business description.
type Framework struct {
	OutreachPrinciples []string `yaml:"outreach_principles" toml:"outreach_principles" json:"outreach_principles"`
	Tiers              []Tier   `yaml:"tiers" toml:"tiers" json:"tiers"`
}

// Summary is the rendered text form of a Framework.
type Summary string

// Summary renders the framework. Principles come first as a bulleted block,
// then tiers as "name: description". Absent sections render as nothing.
func (f Framework) Summary() Summary {
	var b strings.Builder

	if len(f.OutreachPrinciples) > 0 {
		b.WriteString("Outreach Principles:\n")
		for i, p := range f.OutreachPrinciples {
			if i > 0 {
				b.WriteByte('\n')
			}
			b.WriteString("- ")
			b.WriteString(p)
		}
		b.WriteString("\n\n")
	}

	if len(f.Tiers) > 0 {
		b.WriteString("Target Tiers:\n")
		for i, t := range f.Tiers {
			if i > 0 {
				b.WriteByte('\n')
			}
			b.WriteString("- ")
			b.WriteString(t.Name)
			b.WriteString(": ")
			b.WriteString(t.Description)
		}
	}

	return Summary(b.String())
}

// IsEmpty reports whether the framework has neither principles nor tiers.
func (f Framework) IsEmpty() bool {
	return len(f.OutreachPrinciples) == 0 && len(f.Tiers) == 0
}
