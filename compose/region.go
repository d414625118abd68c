package compose

import "strings"

// Region describes the market a prompt can be focused on.
type Region struct {
	// Name labels the region in logs and exports.
	Name string

	// Keywords trigger the regional block when found in a business
	// description, compared case-insensitively.
	Keywords []string

	// Context is always part of the regional block.
	Context string

	// Alignment is added to the block when alignment is requested.
	Alignment string
}

// Qatar is the default region.
var Qatar = Region{
	Name:     "Qatar",
	Keywords: []string{"qatar", "doha"},
	Context: `- **Market Specifics**: Doha-based or active in Qatar market
- **Business Culture**: Relationship-focused, hierarchical, formal initial contact preferred
- **Key Sectors**: Energy, Finance, Real Estate, Tourism, Technology, Logistics
- **Language**: English for international business, Arabic for local relationships
- **Regulatory**: Consider QFC, QFZA, or Ministry of Commerce requirements
- **Timing**: Business week is Sunday-Thursday, consider Ramadan timing
`,
	Alignment: `- **Qatar National Vision 2030 Alignment Required**
- Focus on entities contributing to Qatar's economic diversification
- Prioritize companies involved in Qatar's knowledge economy development
- Consider organizations participating in Qatar Foundation, QSTP, or Msheireb initiatives
- Include references to sustainability and environmental development where applicable

`,
}

// Mentions reports whether text contains any of the region's keywords.
func (r Region) Mentions(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range r.Keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" && strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// block renders the regional context appended to a prompt.
func (r Region) block(align bool, pillars []Pillar) string {
	var b strings.Builder
	b.WriteString("\n\n**")
	b.WriteString(r.Name)
	b.WriteString(" Market Context:**\n")
	if align {
		b.WriteString(r.Alignment)
	}
	b.WriteString(r.Context)

	if len(pillars) > 0 {
		b.WriteString("- **Focus Pillars**:\n")
		for _, p := range pillars {
			b.WriteString("  - ")
			b.WriteString(p.String())
			b.WriteString(": ")
			b.WriteString(p.Explanation())
			b.WriteByte('\n')
		}
	}
	return b.String()
}
