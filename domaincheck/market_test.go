package domaincheck

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestQatar_Check(t *testing.T) {
	tests := []struct {
		name            string
		desc            string
		suitable        bool
		sectors         []string
		issues          int
		recommendations []string
	}{
		{
			name:            "aligned local logistics",
			desc:            "Logistics technology platform for Doha freight forwarders",
			suitable:        true,
			sectors:         []string{"Technology", "Logistics"},
			recommendations: []string{},
		},
		{
			name:     "no local hook",
			desc:     "B2B logistics SaaS",
			suitable: true,
			sectors:  []string{"Logistics"},
			recommendations: []string{
				"Consider adding Qatar-specific value proposition for better local relevance",
			},
		},
		{
			name:            "restricted",
			desc:            "Online gambling and alcohol delivery in Qatar",
			suitable:        false,
			sectors:         []string{},
			issues:          2,
			recommendations: []string{},
		},
		{
			name:     "cultural caution",
			desc:     "Crypto dating app for the Gulf",
			suitable: true,
			sectors:  []string{},
			recommendations: []string{
				"Exercise caution with: crypto, dating. Ensure compliance with Qatar's cultural norms.",
			},
		},
		{
			name:            "multi word sector",
			desc:            "REAL ESTATE listings in Arabic",
			suitable:        true,
			sectors:         []string{"Real estate"},
			recommendations: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Qatar.Check(tt.desc)
			assert.Equal(t, "Qatar", r.Market)
			assert.Equal(t, tt.suitable, r.Suitable)
			assert.Equal(t, tt.sectors, r.SectorAlignment)
			assert.Len(t, r.Issues, tt.issues)
			assert.Equal(t, tt.recommendations, r.Recommendations)
		})
	}
}

func TestQatar_Check_IssueText(t *testing.T) {
	r := Qatar.Check("pork processing")
	assert.Equal(t, []string{"Business involves pork, which is restricted in Qatar"}, r.Issues)
}

func TestQatar_ComplianceChecklist(t *testing.T) {
	base := Qatar.ComplianceChecklist("generic SaaS")
	assert.Len(t, base, 10)

	fintech := Qatar.ComplianceChecklist("Fintech for digital banking")
	assert.Len(t, fintech, 11)
	assert.Equal(t, "Complies with Qatar Central Bank regulations", fintech[10])

	both := Qatar.ComplianceChecklist("medical payments fintech")
	assert.Len(t, both, 12)
	assert.Contains(t, both, "Complies with Ministry of Public Health standards")

	// The built-in list is not mutated by appends.
	assert.Len(t, Qatar.Checklist, 10)
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Real estate", capitalize("real estate"))
	assert.Equal(t, "Energy", capitalize("ENERGY"))
	assert.Equal(t, "", capitalize(""))
}

func TestMarket_Check_CustomMarket(t *testing.T) {
	uae := Market{
		Name:       "UAE",
		Priority:   []string{"aviation", "retail"},
		Restricted: []string{"gambling"},
		Cautions:   []string{"vaping"},
		Local:      []string{"dubai", "abu dhabi"},
	}

	got := uae.Check("Aviation retail and vaping kiosks with gambling machines")
	want := Report{
		Market:          "UAE",
		Suitable:        false,
		SectorAlignment: []string{"Aviation", "Retail"},
		Issues:          []string{"Business involves gambling, which is restricted in UAE"},
		Recommendations: []string{
			"Exercise caution with: vaping. Ensure compliance with UAE's cultural norms.",
			"Consider adding UAE-specific value proposition for better local relevance",
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Check() mismatch (-want +got):\n%s", diff)
	}
}
