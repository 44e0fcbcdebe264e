// Package domain models transit station entrance data read from delimited text files.
//
// # Data Source
//
// Entrance files live under a conventional "entrances" data directory, one file per
// agency (cta.txt, bart.txt, parismetro.txt, ...). They are derived from agency GTFS
// feeds and share a small column set: a station name, an agency-local unique id, and
// a WGS-84 latitude/longitude pair.
//
// # Layouts
//
// Positional:
//
//	index, stationName, uniqueId, lat, lon
//	0,Union Station,UID1,41.8787,-87.6402
//
//	No header is consulted. Station name is column 1, latitude column 3, longitude
//	column 4. A header line, if present, is dropped like any other row whose
//	coordinates do not parse.
//
// Header-driven:
//
//	stationName,uniqueId,lat,lon
//	Châtelet,1234,48.858,2.347
//
//	The first line names the columns. stationName, lat and lon are located by exact,
//	case-sensitive match; ordering and extra columns do not matter. A header that is
//	missing any of the three yields a [SchemaError].
//
// # Tokenizing
//
// Lines are split on commas. A double quote toggles a "quoted" flag and is never
// emitted; commas inside a quoted run are literal. Doubled quotes ("") are not an
// escape sequence: they toggle twice. Unbalanced quotes swallow the rest of the line.
// Every field is trimmed. See [SplitLine].
//
// # Normalization
//
// A row becomes an [Entrance] only when the station name is non-empty and both
// coordinates parse to finite numbers. Coordinates are rounded half away from zero
// to 6 decimal places (about 0.11 m). Invalid rows are dropped silently; only fetch
// failures and schema failures abort a load.
package domain
