// Package parser extracts structure from generated prospect lists.
//
// Provider output is markdown: usually a table with one row per prospect,
// sometimes framed by headed sections. The parser recovers the tables, maps
// recognizable columns onto Prospect records, and splits the text into
// sections.
//
//	p := parser.NewParser()
//	resp := p.Parse(content)
//	for _, pr := range resp.Prospects {
//	    fmt.Println(pr.TierLevel, pr.Name)
//	}
//
// HasTableStructure is the cheap sanity check used before exporting: it only
// counts table lines and does not parse them.
package parser
