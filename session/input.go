package session

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"

	"github.com/randalmurphal/prospectkit/compose"
	"github.com/randalmurphal/prospectkit/generate"
)

// Input is what a caller submits before it is turned into a request.
type Input struct {
	BusinessDesc string           `json:"business_desc"`
	Tiers        []string         `json:"tiers,omitempty"`
	Additional   string           `json:"additional,omitempty"`
	Align        bool             `json:"align"`
	Pillars      []compose.Pillar `json:"pillars,omitempty"`
}

// Signature identifies an Input for duplicate detection.
type Signature string

// Signature hashes the normalized input. Whitespace runs collapse, tier and
// pillar order does not matter.
func (in Input) Signature() Signature {
	tiers := make([]string, 0, len(in.Tiers))
	for _, t := range in.Tiers {
		if t = normalize(t); t != "" {
			tiers = append(tiers, t)
		}
	}
	sort.Strings(tiers)

	pillars := make([]string, 0, len(in.Pillars))
	for _, p := range in.Pillars {
		pillars = append(pillars, p.String())
	}
	sort.Strings(pillars)

	h := sha256.New()
	for _, part := range []string{
		normalize(in.BusinessDesc),
		strings.Join(tiers, ","),
		normalize(in.Additional),
		strconv.FormatBool(in.Align),
		strings.Join(pillars, ","),
	} {
		h.Write([]byte(part))
		h.Write([]byte{0x1f})
	}
	return Signature(hex.EncodeToString(h.Sum(nil)))
}

// Request builds the generation request for the input.
func (in Input) Request() generate.Request {
	req := generate.Request{
		BusinessDesc: strings.TrimSpace(in.BusinessDesc),
		Specs:        BuildSpecs(in.Tiers, in.Align, in.Additional),
	}
	if in.Align || len(in.Pillars) > 0 {
		req.Regional = &compose.RegionalOptions{Align: in.Align, Pillars: in.Pillars}
	}
	return req
}

// BuildSpecs renders the specifications line sent with a request, e.g.
// "Selected tiers: a, b. Qatar alignment: true. Additional: extra".
func BuildSpecs(tiers []string, align bool, additional string) string {
	var b strings.Builder
	b.WriteString("Selected tiers: ")
	b.WriteString(strings.Join(tiers, ", "))
	b.WriteString(". Qatar alignment: ")
	b.WriteString(strconv.FormatBool(align))
	b.WriteString(". Additional: ")
	b.WriteString(strings.TrimSpace(additional))
	return b.String()
}

func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
