package compose

import "strings"

// Pillar is a Qatar National Vision 2030 development pillar.
type Pillar int

// Recognized pillars. PillarUnrecognized stands in for any other input.
const (
	PillarUnrecognized Pillar = iota
	PillarHuman
	PillarSocial
	PillarEconomic
	PillarEnvironmental
)

var pillarNames = map[Pillar]string{
	PillarHuman:         "human",
	PillarSocial:        "social",
	PillarEconomic:      "economic",
	PillarEnvironmental: "environmental",
}

// String returns the lowercase pillar name.
func (p Pillar) String() string {
	if name, ok := pillarNames[p]; ok {
		return name
	}
	return "unrecognized"
}

// Explanation returns the fixed sentence describing the pillar.
// Unrecognized pillars explain nothing.
func (p Pillar) Explanation() string {
	switch p {
	case PillarHuman:
		return "Education, health care and workforce skills for Qatari citizens"
	case PillarSocial:
		return "Family cohesion, social welfare and preservation of cultural identity"
	case PillarEconomic:
		return "Economic diversification and growth of the knowledge-based private sector"
	case PillarEnvironmental:
		return "Sustainable development balancing growth with environmental protection"
	default:
		return ""
	}
}

// ParsePillar maps free text such as "Human", "economic development" or
// "environment" to a Pillar.
func ParsePillar(s string) Pillar {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case s == "":
		return PillarUnrecognized
	case strings.HasPrefix(s, "human"):
		return PillarHuman
	case strings.HasPrefix(s, "social"):
		return PillarSocial
	case strings.HasPrefix(s, "econom"):
		return PillarEconomic
	case strings.HasPrefix(s, "environment"):
		return PillarEnvironmental
	default:
		return PillarUnrecognized
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p Pillar) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Unknown names decode
// to PillarUnrecognized rather than failing.
func (p *Pillar) UnmarshalText(text []byte) error {
	*p = ParsePillar(string(text))
	return nil
}

// ParsePillars maps each entry with ParsePillar.
func ParsePillars(names []string) []Pillar {
	if len(names) == 0 {
		return nil
	}
	out := make([]Pillar, len(names))
	for i, n := range names {
		out[i] = ParsePillar(n)
	}
	return out
}
