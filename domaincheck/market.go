package domaincheck

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Rule adds a checklist item when any of its keywords appears.
type Rule struct {
	Keywords []string
	Item     string
}

// Market holds the keyword lists for one market. Keywords are matched as
// lowercase substrings.
type Market struct {
	Name       string
	Priority   []string
	Restricted []string
	Cautions   []string
	Local      []string
	Checklist  []string
	Rules      []Rule
}

// Qatar is the built-in market definition.
var Qatar = Market{
	Name: "Qatar",
	Priority: []string{
		"energy", "finance", "real estate", "tourism", "healthcare",
		"education", "technology", "logistics", "sports", "construction",
	},
	Restricted: []string{"alcohol", "gambling", "pork", "adult entertainment"},
	Cautions:   []string{"blockchain", "crypto", "dating", "social media"},
	Local:      []string{"qatar", "doha", "gulf", "middle east", "arabic"},
	Checklist: []string{
		"Business aligns with Qatar National Vision 2030 pillars",
		"No involvement in restricted sectors (alcohol, gambling, etc.)",
		"Respects Islamic business principles",
		"Considers Qatar's legal framework (QFC, QFZA if applicable)",
		"Plans for local partnership/representation",
		"Arabic language support available",
		"Understands Qatar's weekend (Friday-Saturday)",
		"Considers local sponsorship requirements (if applicable)",
		"Aligns with Qatar's digital transformation initiatives",
		"Considers sustainability and environmental regulations",
	},
	Rules: []Rule{
		{Keywords: []string{"fintech", "banking"}, Item: "Complies with Qatar Central Bank regulations"},
		{Keywords: []string{"health", "medical"}, Item: "Complies with Ministry of Public Health standards"},
	},
}

// Report is the outcome of a market check.
type Report struct {
	Market          string   `json:"market"`
	Suitable        bool     `json:"is_suitable"`
	SectorAlignment []string `json:"sector_alignment"`
	Issues          []string `json:"potential_issues"`
	Recommendations []string `json:"recommendations"`
}

// Check evaluates businessDesc against the market.
func (m Market) Check(businessDesc string) Report {
	desc := strings.ToLower(businessDesc)
	r := Report{
		Market:          m.Name,
		Suitable:        true,
		SectorAlignment: []string{},
		Issues:          []string{},
		Recommendations: []string{},
	}

	for _, s := range m.Priority {
		if strings.Contains(desc, s) {
			r.SectorAlignment = append(r.SectorAlignment, capitalize(s))
		}
	}

	for _, s := range m.Restricted {
		if strings.Contains(desc, s) {
			r.Suitable = false
			r.Issues = append(r.Issues, "Business involves "+s+", which is restricted in "+m.Name)
		}
	}

	var cautions []string
	for _, k := range m.Cautions {
		if strings.Contains(desc, k) {
			cautions = append(cautions, k)
		}
	}
	if len(cautions) > 0 {
		r.Recommendations = append(r.Recommendations,
			"Exercise caution with: "+strings.Join(cautions, ", ")+". Ensure compliance with "+m.Name+"'s cultural norms.")
	}

	if !containsAny(desc, m.Local) {
		r.Recommendations = append(r.Recommendations,
			"Consider adding "+m.Name+"-specific value proposition for better local relevance")
	}
	return r
}

// ComplianceChecklist returns the base checklist plus items for every rule
// whose keywords appear in businessDesc.
func (m Market) ComplianceChecklist(businessDesc string) []string {
	desc := strings.ToLower(businessDesc)
	items := append([]string(nil), m.Checklist...)
	for _, rule := range m.Rules {
		if containsAny(desc, rule.Keywords) {
			items = append(items, rule.Item)
		}
	}
	return items
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// capitalize upper-cases the first letter and lower-cases the rest.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
