package search

import (
	"strings"

	"github.com/couchcryptid/entrance-finder/internal/domain"
)

// Source is one entrance file listed in the catalog.
type Source struct {
	File   string
	Bounds domain.BoundingBox
}

// Label is the upper-cased file stem, e.g. "parismetro.txt" -> "PARISMETRO".
func (s Source) Label() string {
	return strings.ToUpper(strings.TrimSuffix(s.File, ".txt"))
}

var catalogColumns = []string{"file", "latMin", "latMax", "lonMin", "lonMax"}

// ParseCatalog parses catalog text. The header must name every catalog column;
// other columns, including a leading index, are ignored. Rows naming a non-.txt
// file or carrying unparseable bounds are skipped.
func ParseCatalog(resource, text string) ([]Source, error) {
	lines := domain.Lines(text)
	if len(lines) < 2 {
		return []Source{}, nil
	}

	pos, err := domain.Lookup(resource, domain.HeaderIndex(domain.SplitLine(lines[0])), catalogColumns...)
	if err != nil {
		return nil, err
	}

	out := make([]Source, 0, len(lines)-1)
	for _, line := range lines[1:] {
		row := domain.SplitLine(line)
		if src, ok := parseSource(row, pos); ok {
			out = append(out, src)
		}
	}
	return out, nil
}

func parseSource(row []string, pos []int) (Source, bool) {
	var vals [5]string
	for i, p := range pos {
		if p >= len(row) {
			return Source{}, false
		}
		vals[i] = row[p]
	}
	if !strings.HasSuffix(vals[0], ".txt") {
		return Source{}, false
	}

	var bounds [4]float64
	for i := range bounds {
		v, ok := domain.ParseCoord(vals[i+1])
		if !ok {
			return Source{}, false
		}
		bounds[i] = v
	}
	return Source{
		File: vals[0],
		Bounds: domain.BoundingBox{
			LatMin: bounds[0],
			LatMax: bounds[1],
			LonMin: bounds[2],
			LonMax: bounds[3],
		},
	}, true
}

// selectSources returns the sources overlapping box, or all of them when none do.
func selectSources(all []Source, box domain.BoundingBox) []Source {
	var out []Source
	for _, s := range all {
		if s.Bounds.Overlaps(box) {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return all
	}
	return out
}
