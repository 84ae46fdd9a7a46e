package geocode

import (
	"strconv"
	"strings"
)

// Provider resolves a normalized (lower-cased, trimmed) location string.
type Provider interface {
	Name() string
	Resolve(normalized string) (*Coordinates, bool)
}

// LiteralProvider parses "lat, lon" coordinate pairs given directly as text.
type LiteralProvider struct{}

// Name implements Provider.
func (p *LiteralProvider) Name() string { return "literal" }

// Resolve implements Provider. It accepts exactly two comma-separated decimal
// numbers within valid latitude/longitude ranges.
func (p *LiteralProvider) Resolve(normalized string) (*Coordinates, bool) {
	parts := strings.Split(normalized, ",")
	if len(parts) != 2 {
		return nil, false
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return nil, false
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return nil, false
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return nil, false
	}
	return &Coordinates{Latitude: lat, Longitude: lon}, true
}

// CityProvider resolves against a known-cities table. "city, st" matches
// exactly; a bare city name matches the first table entry with that city.
type CityProvider struct {
	Cities *CityTable
}

// Name implements Provider.
func (p *CityProvider) Name() string { return "cities" }

// Resolve implements Provider.
func (p *CityProvider) Resolve(normalized string) (*Coordinates, bool) {
	if p.Cities == nil {
		return nil, false
	}
	return p.Cities.Lookup(normalized)
}
