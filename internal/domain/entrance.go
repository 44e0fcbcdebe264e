package domain

// Entrance is one labelled station entrance point.
type Entrance struct {
	StationName string  `json:"stationName"`
	Source      string  `json:"source"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
}

// Dedupe returns records with exact duplicates removed, keeping the first
// occurrence of each and preserving order.
func Dedupe(records []Entrance) []Entrance {
	seen := make(map[Entrance]struct{}, len(records))
	out := make([]Entrance, 0, len(records))
	for _, r := range records {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}
