// Package search answers station-name queries over the per-agency entrance files.
//
// A catalog resource (bounding.txt) lists every entrance file with the rectangle
// its stations fall in:
//
//	file,latMin,latMax,lonMin,lonMax
//	cta.txt,41.721558,42.073623,-87.904004,-87.605799
//
// A query first narrows the catalog to files whose rectangle overlaps the
// requested box (all files when nothing overlaps), then scores each distinct
// station name in those files against the query with a token-sort ratio and
// returns every entrance of the best-scoring names.
package search
