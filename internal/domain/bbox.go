package domain

import "math"

// BoundingBox is an inclusive lat/lon rectangle. Infinite bounds are open.
type BoundingBox struct {
	LatMin float64 `json:"lat_min" yaml:"lat_min" validate:"ltefield=LatMax"`
	LatMax float64 `json:"lat_max" yaml:"lat_max"`
	LonMin float64 `json:"lon_min" yaml:"lon_min" validate:"ltefield=LonMax"`
	LonMax float64 `json:"lon_max" yaml:"lon_max"`
}

// Unbounded returns a box that contains every point.
func Unbounded() BoundingBox {
	return BoundingBox{
		LatMin: math.Inf(-1),
		LatMax: math.Inf(1),
		LonMin: math.Inf(-1),
		LonMax: math.Inf(1),
	}
}

// IsUnbounded reports whether no bound is finite.
func (b BoundingBox) IsUnbounded() bool {
	return b == Unbounded()
}

// Contains reports whether the point lies inside the box, edges included.
func (b BoundingBox) Contains(lat, lon float64) bool {
	return lat >= b.LatMin && lat <= b.LatMax && lon >= b.LonMin && lon <= b.LonMax
}

// Overlaps reports whether the two boxes share any point.
func (b BoundingBox) Overlaps(o BoundingBox) bool {
	return b.LatMax >= o.LatMin && b.LatMin <= o.LatMax && b.LonMax >= o.LonMin && b.LonMin <= o.LonMax
}

// WithDefaults replaces each open (infinite) bound of b with the matching bound of def.
func (b BoundingBox) WithDefaults(def BoundingBox) BoundingBox {
	if math.IsInf(b.LatMin, 0) {
		b.LatMin = def.LatMin
	}
	if math.IsInf(b.LatMax, 0) {
		b.LatMax = def.LatMax
	}
	if math.IsInf(b.LonMin, 0) {
		b.LonMin = def.LonMin
	}
	if math.IsInf(b.LonMax, 0) {
		b.LonMax = def.LonMax
	}
	return b
}

// Filter returns the entrances inside the box, in order.
func (b BoundingBox) Filter(records []Entrance) []Entrance {
	out := make([]Entrance, 0, len(records))
	for _, r := range records {
		if b.Contains(r.Lat, r.Lon) {
			out = append(out, r)
		}
	}
	return out
}
