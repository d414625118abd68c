package parser

import (
	"regexp"
	"strings"
)

// MinTableLines is the number of non-separator table lines (header plus four
// rows) expected from a usable prospect list.
const MinTableLines = 5

// Response contains the structure extracted from generated content.
type Response struct {
	// Raw is the original text.
	Raw string

	// Tables holds every markdown table, in order of appearance.
	Tables []Table

	// Prospects is read from the first table that has a name column.
	Prospects []Prospect

	// Sections maps markdown header titles to their content.
	Sections map[string]string
}

// Table is a markdown table.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Column returns the index of the first header accepted by match, or -1.
func (t Table) Column(match func(header string) bool) int {
	for i, h := range t.Headers {
		if match(normalizeHeader(h)) {
			return i
		}
	}
	return -1
}

// Parser extracts tables and sections from markdown.
type Parser struct {
	sectionRegex   *regexp.Regexp
	separatorRegex *regexp.Regexp
}

// NewParser creates a parser with compiled patterns.
func NewParser() *Parser {
	return &Parser{
		sectionRegex:   regexp.MustCompile(`(?m)^(#{1,6})\s+(.+)$`),
		separatorRegex: regexp.MustCompile(`^\|?\s*:?-{3,}:?\s*(\|\s*:?-{3,}:?\s*)*\|?$`),
	}
}

// Parse extracts all structure from content.
func (p *Parser) Parse(content string) *Response {
	tables := p.Tables(content)
	return &Response{
		Raw:       content,
		Tables:    tables,
		Prospects: prospectsFrom(tables),
		Sections:  p.extractSections(content),
	}
}

// Tables returns every table in content. A table is a header line followed
// by a separator line and any number of rows.
func (p *Parser) Tables(content string) []Table {
	lines := strings.Split(content, "\n")
	var tables []Table

	for i := 0; i+1 < len(lines); i++ {
		header := strings.TrimSpace(lines[i])
		if !isTableLine(header) || !p.separatorRegex.MatchString(strings.TrimSpace(lines[i+1])) {
			continue
		}

		t := Table{Headers: splitRow(header)}
		j := i + 2
		for ; j < len(lines); j++ {
			line := strings.TrimSpace(lines[j])
			if !isTableLine(line) {
				break
			}
			if p.separatorRegex.MatchString(line) {
				continue
			}
			t.Rows = append(t.Rows, padRow(splitRow(line), len(t.Headers)))
		}
		tables = append(tables, t)
		i = j - 1
	}
	return tables
}

// Prospects returns the prospects found in content.
func (p *Parser) Prospects(content string) []Prospect {
	return prospectsFrom(p.Tables(content))
}

// ExtractSection returns the content under the header with the given title,
// matched exactly first and then case-insensitively.
func (p *Parser) ExtractSection(content, title string) string {
	sections := p.extractSections(content)
	if s, ok := sections[title]; ok {
		return s
	}
	for t, s := range sections {
		if strings.EqualFold(t, title) {
			return s
		}
	}
	return ""
}

func (p *Parser) extractSections(text string) map[string]string {
	sections := make(map[string]string)
	matches := p.sectionRegex.FindAllStringSubmatchIndex(text, -1)

	for i, m := range matches {
		title := strings.TrimSpace(text[m[4]:m[5]])
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		sections[title] = strings.TrimSpace(text[m[1]:end])
	}
	return sections
}

// TableLineCount counts lines that contain a pipe and are not separators.
func TableLineCount(content string) int {
	n := 0
	for _, line := range strings.Split(strings.TrimSpace(content), "\n") {
		if strings.Contains(line, "|") && !strings.Contains(line, "---") {
			n++
		}
	}
	return n
}

// HasTableStructure reports whether content looks like a complete prospect
// table: at least MinTableLines table lines.
func HasTableStructure(content string) bool {
	return strings.TrimSpace(content) != "" && TableLineCount(content) >= MinTableLines
}

// Parse is a convenience function using a new parser.
func Parse(content string) *Response {
	return NewParser().Parse(content)
}

func isTableLine(line string) bool {
	return strings.HasPrefix(line, "|") || strings.Count(line, "|") >= 2
}

// escapedPipe stands in for "\|" while a row is split.
const escapedPipe = "\x00"

func splitRow(line string) []string {
	line = strings.ReplaceAll(line, `\|`, escapedPipe)
	line = strings.TrimPrefix(line, "|")
	line = strings.TrimSuffix(line, "|")

	parts := strings.Split(line, "|")
	cells := make([]string, len(parts))
	for i, c := range parts {
		c = strings.ReplaceAll(c, escapedPipe, "|")
		cells[i] = cleanCell(c)
	}
	return cells
}

func padRow(row []string, width int) []string {
	for len(row) < width {
		row = append(row, "")
	}
	return row
}

func cleanCell(c string) string {
	c = strings.TrimSpace(c)
	for _, mark := range []string{"**", "__"} {
		if strings.HasPrefix(c, mark) && strings.HasSuffix(c, mark) && len(c) >= 2*len(mark) {
			c = strings.TrimSpace(c[len(mark) : len(c)-len(mark)])
		}
	}
	return c
}
