package domain

import (
	"fmt"
	"strings"
)

// Layout selects how rows of a resource map to entrance columns.
type Layout int

const (
	// LayoutPositional is "index, stationName, uniqueId, lat, lon" with no header.
	LayoutPositional Layout = iota
	// LayoutHeader names its columns on the first line.
	LayoutHeader
)

func (l Layout) String() string {
	switch l {
	case LayoutPositional:
		return "positional"
	case LayoutHeader:
		return "header"
	default:
		return fmt.Sprintf("layout(%d)", int(l))
	}
}

// ParseLayout maps "positional" or "header" to a Layout.
func ParseLayout(s string) (Layout, error) {
	switch s {
	case "positional":
		return LayoutPositional, nil
	case "header":
		return LayoutHeader, nil
	default:
		return 0, fmt.Errorf("unknown layout %q", s)
	}
}

// Required header column names.
const (
	ColumnStationName = "stationName"
	ColumnLat         = "lat"
	ColumnLon         = "lon"
)

// Columns holds resolved field indices for one resource.
type Columns struct {
	StationName int
	Lat         int
	Lon         int
}

// PositionalColumns are the fixed indices of the positional layout.
var PositionalColumns = Columns{StationName: 1, Lat: 3, Lon: 4}

// SchemaError reports a header missing one or more required columns.
type SchemaError struct {
	Resource string
	Missing  []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("invalid header in %s: missing column(s) %s", e.Resource, strings.Join(e.Missing, ", "))
}

// HeaderIndex maps each column name in a header row to its position.
// For repeated names the first occurrence wins.
func HeaderIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		if _, ok := idx[name]; !ok {
			idx[name] = i
		}
	}
	return idx
}

// Lookup resolves names against a header index, returning a SchemaError listing
// every name that is absent.
func Lookup(resource string, idx map[string]int, names ...string) ([]int, error) {
	out := make([]int, len(names))
	var missing []string
	for i, name := range names {
		pos, ok := idx[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		out[i] = pos
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Resource: resource, Missing: missing}
	}
	return out, nil
}

// ResolveColumns locates stationName, lat and lon in a tokenized header row.
func ResolveColumns(resource string, header []string) (Columns, error) {
	pos, err := Lookup(resource, HeaderIndex(header), ColumnStationName, ColumnLat, ColumnLon)
	if err != nil {
		return Columns{}, err
	}
	return Columns{StationName: pos[0], Lat: pos[1], Lon: pos[2]}, nil
}
