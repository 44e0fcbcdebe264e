package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

var ctaBox = BoundingBox{LatMin: 41.721558, LatMax: 42.073623, LonMin: -87.904004, LonMax: -87.605799}

func TestBoundingBox_Contains(t *testing.T) {
	assert.True(t, ctaBox.Contains(41.8787, -87.6402))
	assert.True(t, ctaBox.Contains(41.721558, -87.605799), "edges are inclusive")
	assert.False(t, ctaBox.Contains(40.7128, -74.0060))
	assert.True(t, Unbounded().Contains(-89.9, 179.9))
}

func TestBoundingBox_Overlaps(t *testing.T) {
	loop := BoundingBox{LatMin: 41.87, LatMax: 41.89, LonMin: -87.64, LonMax: -87.62}
	nyc := BoundingBox{LatMin: 40.5, LatMax: 40.9, LonMin: -74.3, LonMax: -73.7}

	assert.True(t, ctaBox.Overlaps(loop))
	assert.True(t, loop.Overlaps(ctaBox))
	assert.False(t, ctaBox.Overlaps(nyc))
	assert.True(t, Unbounded().Overlaps(nyc))
}

func TestBoundingBox_WithDefaults(t *testing.T) {
	b := Unbounded()
	b.LatMin = 41.8

	got := b.WithDefaults(ctaBox)
	assert.Equal(t, 41.8, got.LatMin)
	assert.Equal(t, ctaBox.LatMax, got.LatMax)
	assert.Equal(t, ctaBox.LonMin, got.LonMin)
	assert.Equal(t, ctaBox.LonMax, got.LonMax)
	assert.False(t, math.IsInf(got.LonMax, 0))
}

func TestBoundingBox_Filter(t *testing.T) {
	in := []Entrance{
		{StationName: "Union Station", Lat: 41.8787, Lon: -87.6402},
		{StationName: "Times Sq", Lat: 40.7559, Lon: -73.9871},
		{StationName: "Clark/Lake", Lat: 41.885737, Lon: -87.630886},
	}
	got := ctaBox.Filter(in)
	assert.Len(t, got, 2)
	assert.Equal(t, "Clark/Lake", got[1].StationName)
	assert.True(t, Unbounded().IsUnbounded())
	assert.False(t, ctaBox.IsUnbounded())
}
