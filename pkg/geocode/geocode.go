// Package geocode resolves free-text locations to coordinates and computes
// great-circle distances. Resolution tries providers in order: a coordinate
// literal parser first, then a known-cities table. Unresolvable input yields
// a nil result, not an error.
package geocode

import (
	"strings"

	"go.uber.org/zap"
)

// Coordinates is a point in decimal degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Service resolves locations through an ordered provider chain and caches
// successful lookups for its lifetime. The cache is keyed by the normalized
// input string, so repeated identical queries are hits and do not grow it.
//
// A Service is not safe for concurrent use; give each session its own
// instance instead of sharing cache state.
type Service struct {
	providers []Provider
	cache     map[string]Coordinates
}

// Option configures the Service.
type Option func(*Service)

// WithProviders replaces the default provider chain.
func WithProviders(providers ...Provider) Option {
	return func(s *Service) {
		s.providers = providers
	}
}

// WithCities replaces the city table used by the default chain.
func WithCities(cities *CityTable) Option {
	return func(s *Service) {
		s.providers = []Provider{&LiteralProvider{}, &CityProvider{Cities: cities}}
	}
}

// NewService creates a Service with the default chain: coordinate literals,
// then the built-in US city table.
func NewService(opts ...Option) *Service {
	s := &Service{
		providers: []Provider{
			&LiteralProvider{},
			&CityProvider{Cities: DefaultCities()},
		},
		cache: make(map[string]Coordinates),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Geocode resolves a free-text location. Returns nil when no provider can
// resolve it.
func (s *Service) Geocode(location string) *Coordinates {
	key := normalize(location)
	if key == "" {
		return nil
	}

	if c, ok := s.cache[key]; ok {
		zap.L().Debug("geocode cache hit", zap.String("location", key))
		return &Coordinates{Latitude: c.Latitude, Longitude: c.Longitude}
	}

	for _, p := range s.providers {
		c, ok := p.Resolve(key)
		if !ok {
			continue
		}
		s.cache[key] = *c
		zap.L().Debug("geocode resolved",
			zap.String("location", key),
			zap.String("provider", p.Name()),
		)
		return c
	}

	zap.L().Debug("geocode miss", zap.String("location", key))
	return nil
}

// CacheSize returns the number of cached lookups.
func (s *Service) CacheSize() int {
	return len(s.cache)
}

// normalize lower-cases and trims a location string for cache keys and
// provider lookups.
func normalize(location string) string {
	return strings.ToLower(strings.TrimSpace(location))
}
