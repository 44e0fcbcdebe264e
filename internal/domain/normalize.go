package domain

import (
	"math"
	"strconv"
	"strings"
)

const coordScale = 1e6

// RoundCoord rounds a decimal degree value half away from zero to 6 places.
func RoundCoord(v float64) float64 {
	return math.Round(v*coordScale) / coordScale
}

// ParseCoord parses a coordinate field. ok is false for empty, malformed,
// NaN or infinite values.
func ParseCoord(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// field returns row[i], or "" when i is out of range.
func field(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// NormalizeRow turns tokenized fields into an Entrance. It returns false when the
// row must be skipped: empty station name or an invalid coordinate.
func NormalizeRow(row []string, cols Columns, source string) (Entrance, bool) {
	name := field(row, cols.StationName)
	if name == "" {
		return Entrance{}, false
	}
	lat, ok := ParseCoord(field(row, cols.Lat))
	if !ok {
		return Entrance{}, false
	}
	lon, ok := ParseCoord(field(row, cols.Lon))
	if !ok {
		return Entrance{}, false
	}
	return Entrance{
		StationName: name,
		Source:      source,
		Lat:         RoundCoord(lat),
		Lon:         RoundCoord(lon),
	}, true
}
