package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/couchcryptid/entrance-finder/internal/domain"
)

// Agency describes one entrance data source and how it is presented.
type Agency struct {
	ID     string              `yaml:"id" validate:"required,lowercase,alphanum"`
	File   string              `yaml:"file" validate:"required,endswith=.txt"`
	Label  string              `yaml:"label" validate:"required"`
	Color  string              `yaml:"color" validate:"omitempty,hexcolor"`
	Zoom   int                 `yaml:"zoom" validate:"gte=0,lte=22"`
	Layout string              `yaml:"layout" validate:"omitempty,oneof=positional header"`
	BBox   *domain.BoundingBox `yaml:"bbox,omitempty"`
}

// DataLayout returns the parsed layout, defaulting to header-driven.
func (a Agency) DataLayout() domain.Layout {
	l, err := domain.ParseLayout(a.Layout)
	if err != nil {
		return domain.LayoutHeader
	}
	return l
}

// Bounds returns the configured bounding box, or an unbounded one.
func (a Agency) Bounds() domain.BoundingBox {
	if a.BBox == nil {
		return domain.Unbounded()
	}
	return *a.BBox
}

// Agencies is an agency catalog keyed by id.
type Agencies struct {
	byID  map[string]Agency
	order []string
}

type agencyFile struct {
	Agencies []Agency `yaml:"agencies" validate:"min=1,dive"`
}

// NewAgencies validates a list of agencies and indexes them by id.
func NewAgencies(list []Agency) (*Agencies, error) {
	v := validator.New()
	a := &Agencies{byID: make(map[string]Agency, len(list))}
	for _, ag := range list {
		if err := v.Struct(ag); err != nil {
			return nil, fmt.Errorf("agency %q: %w", ag.ID, err)
		}
		if _, dup := a.byID[ag.ID]; dup {
			return nil, fmt.Errorf("duplicate agency id %q", ag.ID)
		}
		a.byID[ag.ID] = ag
		a.order = append(a.order, ag.ID)
	}
	return a, nil
}

// LoadAgencies reads a YAML agency catalog. An empty path returns the built-in catalog.
func LoadAgencies(path string) (*Agencies, error) {
	if path == "" {
		return NewAgencies(DefaultAgencies())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read agencies file: %w", err)
	}
	return ParseAgencies(data)
}

// ParseAgencies decodes and validates a YAML agency catalog.
func ParseAgencies(data []byte) (*Agencies, error) {
	var f agencyFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode agencies: %w", err)
	}
	if err := validator.New().Struct(f); err != nil {
		return nil, fmt.Errorf("validate agencies: %w", err)
	}
	return NewAgencies(f.Agencies)
}

// Lookup returns the agency with the given id.
func (a *Agencies) Lookup(id string) (Agency, bool) {
	ag, ok := a.byID[id]
	return ag, ok
}

// All returns agencies in catalog order.
func (a *Agencies) All() []Agency {
	out := make([]Agency, 0, len(a.order))
	for _, id := range a.order {
		out = append(out, a.byID[id])
	}
	return out
}

// DefaultAgencies is the built-in catalog of supported transit agencies.
func DefaultAgencies() []Agency {
	return []Agency{
		{ID: "cta", File: "cta.txt", Label: "CTA", Color: "#ea580c", Zoom: 11, Layout: "positional",
			BBox: &domain.BoundingBox{LatMin: 41.721558, LatMax: 42.073623, LonMin: -87.904004, LonMax: -87.605799}},
		{ID: "metra", File: "metra.txt", Label: "Metra", Color: "#a855f7", Zoom: 11, Layout: "header"},
		{ID: "sfmta", File: "sfmta.txt", Label: "SFMTA", Color: "#3b82f6", Zoom: 10, Layout: "header"},
		{ID: "bart", File: "bart.txt", Label: "BART", Color: "#0099d8", Zoom: 10, Layout: "header"},
		{ID: "lametro", File: "lametro.txt", Label: "LA METRO", Color: "#ef4444", Zoom: 10, Layout: "header"},
		{ID: "mbta", File: "mbta.txt", Label: "MBTA", Color: "#22c55e", Zoom: 12, Layout: "header"},
		{ID: "mta", File: "mta.txt", Label: "MTA", Color: "#0ea5e9", Zoom: 11, Layout: "header"},
		{ID: "parismetro", File: "parismetro.txt", Label: "PARIS METRO", Color: "#ec4899", Zoom: 12, Layout: "header"},
		{ID: "tfl", File: "tfl.txt", Label: "TFL", Color: "#6366f1", Zoom: 11, Layout: "header"},
		{ID: "wmata", File: "wmata.txt", Label: "WMATA", Color: "#14b8a6", Zoom: 11, Layout: "header"},
	}
}
