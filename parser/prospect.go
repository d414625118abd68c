package parser

import (
	"strings"
	"unicode"
)

// Prospect is one row of a generated prospect table.
type Prospect struct {
	Name            string            `json:"name"`
	Tier            string            `json:"tier,omitempty"`
	TierLevel       int               `json:"tier_level,omitempty"`
	Fit             string            `json:"fit,omitempty"`
	OutreachSubject string            `json:"outreach_subject,omitempty"`
	MessageHook     string            `json:"message_hook,omitempty"`
	Extra           map[string]string `json:"extra,omitempty"`
}

type column int

const (
	colOther column = iota
	colName
	colTier
	colFit
	colSubject
	colHook
)

func normalizeHeader(h string) string {
	h = strings.ToLower(cleanCell(h))
	return strings.Join(strings.FieldsFunc(h, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}), " ")
}

func classifyHeader(h string) column {
	switch {
	case strings.Contains(h, "subject"):
		return colSubject
	case strings.Contains(h, "hook"), strings.Contains(h, "opening"), strings.Contains(h, "message"):
		return colHook
	case strings.Contains(h, "tier"):
		return colTier
	case strings.Contains(h, "fit"), strings.Contains(h, "reason"), strings.Contains(h, "why"):
		return colFit
	case h == "name", strings.Contains(h, "name"), strings.Contains(h, "entity"),
		strings.Contains(h, "company"), strings.Contains(h, "organization"):
		return colName
	default:
		return colOther
	}
}

func prospectsFrom(tables []Table) []Prospect {
	for _, t := range tables {
		cols := make([]column, len(t.Headers))
		hasName := false
		for i, h := range t.Headers {
			cols[i] = classifyHeader(normalizeHeader(h))
			hasName = hasName || cols[i] == colName
		}
		if !hasName {
			continue
		}

		out := make([]Prospect, 0, len(t.Rows))
		for _, row := range t.Rows {
			if pr, ok := prospectFromRow(t.Headers, cols, row); ok {
				out = append(out, pr)
			}
		}
		return out
	}
	return nil
}

func prospectFromRow(headers []string, cols []column, row []string) (Prospect, bool) {
	var pr Prospect
	for i, cell := range row {
		if i >= len(cols) {
			break
		}
		switch cols[i] {
		case colName:
			if pr.Name == "" {
				pr.Name = cell
			}
		case colTier:
			pr.Tier = cell
			pr.TierLevel = tierLevel(cell)
		case colFit:
			pr.Fit = cell
		case colSubject:
			pr.OutreachSubject = cell
		case colHook:
			pr.MessageHook = cell
		default:
			if cell == "" {
				continue
			}
			if pr.Extra == nil {
				pr.Extra = make(map[string]string)
			}
			pr.Extra[cleanCell(headers[i])] = cell
		}
	}
	return pr, pr.Name != ""
}

// tierLevel reads the first digit from a tier cell such as "1 (Strategic)"
// or "Tier 2". Zero means no tier was recognized.
func tierLevel(cell string) int {
	for _, r := range cell {
		if r >= '1' && r <= '9' {
			return int(r - '0')
		}
	}
	return 0
}
