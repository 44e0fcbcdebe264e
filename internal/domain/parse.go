package domain

import (
	"regexp"
	"strings"
)

var lineBreakRe = regexp.MustCompile(`\r?\n`)

// ParseResult is the outcome of parsing one resource.
type ParseResult struct {
	Entrances []Entrance
	// Skipped counts data rows dropped by normalization.
	Skipped int
}

// Lines splits text into lines and drops blank ones. A leading UTF-8 byte
// order mark is removed.
func Lines(text string) []string {
	text = strings.TrimPrefix(text, "\ufeff")
	var out []string
	for _, line := range lineBreakRe.Split(text, -1) {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}

// ParseText parses the full body of a resource. Header-driven text with fewer
// than two non-blank lines yields no records and no error; positional text yields
// no records only when it has no non-blank lines at all.
func ParseText(resource, text string, layout Layout, source string) (ParseResult, error) {
	lines := Lines(text)

	cols := PositionalColumns
	if layout == LayoutHeader {
		if len(lines) < 2 {
			return ParseResult{Entrances: []Entrance{}}, nil
		}
		var err error
		cols, err = ResolveColumns(resource, SplitLine(lines[0]))
		if err != nil {
			return ParseResult{}, err
		}
		lines = lines[1:]
	}

	res := ParseResult{Entrances: make([]Entrance, 0, len(lines))}
	for _, line := range lines {
		e, ok := NormalizeRow(SplitLine(line), cols, source)
		if !ok {
			res.Skipped++
			continue
		}
		res.Entrances = append(res.Entrances, e)
	}
	return res, nil
}
