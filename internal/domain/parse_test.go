package domain

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testResource = "cta.txt"

func TestLines(t *testing.T) {
	got := Lines("a\r\n\n  \r\nb\nc\n")
	assert.Equal(t, []string{"a", "b", "c"}, got)
	assert.Empty(t, Lines(""))
}

func TestLines_StripsByteOrderMark(t *testing.T) {
	assert.Equal(t, []string{"stationName,lat,lon"}, Lines("\ufeffstationName,lat,lon\n"))
}

func TestParseText_HeaderWithByteOrderMark(t *testing.T) {
	text := "\ufeffstationName,uniqueId,lat,lon\nEmbarcadero,1,37.7929,-122.3971\n"
	res, err := ParseText("bart.txt", text, LayoutHeader, "BART")
	require.NoError(t, err)

	want := []Entrance{{StationName: "Embarcadero", Source: "BART", Lat: 37.7929, Lon: -122.3971}}
	if diff := cmp.Diff(want, res.Entrances); diff != "" {
		t.Errorf("entrances mismatch (-want +got):\n%s", diff)
	}
}

func TestParseText_Positional(t *testing.T) {
	res, err := ParseText(testResource, "0,Union Station,UID1,41.8787,-87.6402", LayoutPositional, "CTA")
	require.NoError(t, err)

	want := []Entrance{{StationName: "Union Station", Source: "CTA", Lat: 41.8787, Lon: -87.6402}}
	if diff := cmp.Diff(want, res.Entrances); diff != "" {
		t.Errorf("entrances mismatch (-want +got):\n%s", diff)
	}
	assert.Zero(t, res.Skipped)
}

func TestParseText_PositionalDropsHeaderLikeRow(t *testing.T) {
	text := ",stationName,uniqueId,lat,lon\n" +
		`1,"Adams/Wabash, Purple Line",ABC123,41.879,-87.627` + "\n" +
		"2,Clark/Lake,ABC124,41.885737,-87.630886\n"
	res, err := ParseText(testResource, text, LayoutPositional, "CTA")
	require.NoError(t, err)

	require.Len(t, res.Entrances, 2)
	assert.Equal(t, "Adams/Wabash, Purple Line", res.Entrances[0].StationName)
	assert.Equal(t, "Clark/Lake", res.Entrances[1].StationName)
	assert.Equal(t, 1, res.Skipped)
}

func TestParseText_PositionalEmpty(t *testing.T) {
	res, err := ParseText(testResource, "\n \n", LayoutPositional, "CTA")
	require.NoError(t, err)
	assert.NotNil(t, res.Entrances)
	assert.Empty(t, res.Entrances)
}

func TestParseText_HeaderDriven(t *testing.T) {
	text := "uniqueId,lon,extra,stationName,lat\r\n" +
		"P1,2.347,x,Châtelet,48.858\r\n" +
		"\r\n" +
		"P2,2.3522219,y,Hôtel de Ville,48.8566140\r\n"
	res, err := ParseText("parismetro.txt", text, LayoutHeader, "PARIS METRO")
	require.NoError(t, err)

	want := []Entrance{
		{StationName: "Châtelet", Source: "PARIS METRO", Lat: 48.858, Lon: 2.347},
		{StationName: "Hôtel de Ville", Source: "PARIS METRO", Lat: 48.856614, Lon: 2.352222},
	}
	if diff := cmp.Diff(want, res.Entrances); diff != "" {
		t.Errorf("entrances mismatch (-want +got):\n%s", diff)
	}
}

func TestParseText_HeaderDrivenSkipsInvalidRows(t *testing.T) {
	t.Run("empty station name", func(t *testing.T) {
		res, err := ParseText(testResource, "stationName,lat,lon\n,41.0,-87.0", LayoutHeader, "CTA")
		require.NoError(t, err)
		assert.Empty(t, res.Entrances)
		assert.Equal(t, 1, res.Skipped)
	})

	t.Run("non-numeric coordinate", func(t *testing.T) {
		res, err := ParseText(testResource, "stationName,lat,lon\nMain St,abc,-87.0", LayoutHeader, "CTA")
		require.NoError(t, err)
		assert.Empty(t, res.Entrances)
	})

	t.Run("order preserved around bad rows", func(t *testing.T) {
		text := "stationName,lat,lon\nA,1,1\nB,x,1\nC,3,3\n,4,4\nD,5,5"
		res, err := ParseText(testResource, text, LayoutHeader, "CTA")
		require.NoError(t, err)
		names := make([]string, 0, len(res.Entrances))
		for _, e := range res.Entrances {
			names = append(names, e.StationName)
		}
		assert.Equal(t, []string{"A", "C", "D"}, names)
		assert.Equal(t, 2, res.Skipped)
	})
}

func TestParseText_HeaderOnlyIsEmpty(t *testing.T) {
	res, err := ParseText(testResource, "stationName,uniqueId,lat,lon\n", LayoutHeader, "CTA")
	require.NoError(t, err)
	assert.Empty(t, res.Entrances)
}

func TestParseText_MissingColumn(t *testing.T) {
	_, err := ParseText(testResource, "stationName,lat\nMain St,41.0", LayoutHeader, "CTA")
	require.Error(t, err)

	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, testResource, schemaErr.Resource)
	assert.Equal(t, []string{"lon"}, schemaErr.Missing)
	assert.Contains(t, err.Error(), "lon")
}

func TestParseText_MissingColumnsAreAllReported(t *testing.T) {
	_, err := ParseText(testResource, "name,latitude,lon\nMain St,41.0,-87.0", LayoutHeader, "CTA")

	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, []string{"stationName", "lat"}, schemaErr.Missing)
}

func TestParseText_HeaderMatchIsCaseSensitive(t *testing.T) {
	_, err := ParseText(testResource, "StationName,lat,lon\nMain St,41.0,-87.0", LayoutHeader, "CTA")
	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, []string{"stationName"}, schemaErr.Missing)
}

func TestResolveColumns_DuplicateNameUsesFirst(t *testing.T) {
	cols, err := ResolveColumns(testResource, []string{"lat", "stationName", "lat", "lon"})
	require.NoError(t, err)
	assert.Equal(t, Columns{StationName: 1, Lat: 0, Lon: 3}, cols)
}

func TestParseLayout(t *testing.T) {
	l, err := ParseLayout("header")
	require.NoError(t, err)
	assert.Equal(t, LayoutHeader, l)
	assert.Equal(t, "header", l.String())

	l, err = ParseLayout("positional")
	require.NoError(t, err)
	assert.Equal(t, LayoutPositional, l)

	_, err = ParseLayout("csv")
	assert.Error(t, err)
}

func TestDedupe(t *testing.T) {
	a := Entrance{StationName: "A", Source: "CTA", Lat: 1, Lon: 1}
	b := Entrance{StationName: "B", Source: "CTA", Lat: 2, Lon: 2}
	assert.Equal(t, []Entrance{a, b}, Dedupe([]Entrance{a, b, a, b, a}))
	assert.Empty(t, Dedupe(nil))
}
