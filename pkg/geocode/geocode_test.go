package geocode

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeocode_CityAndState(t *testing.T) {
	svc := NewService()

	coords := svc.Geocode("Chicago, IL")
	require.NotNil(t, coords)
	assert.InDelta(t, 41.8781, coords.Latitude, 0.001)
	assert.InDelta(t, -87.6298, coords.Longitude, 0.001)
}

func TestGeocode_BareCity(t *testing.T) {
	svc := NewService()

	coords := svc.Geocode("chicago")
	require.NotNil(t, coords)
	assert.InDelta(t, 41.8781, coords.Latitude, 0.001)
}

func TestGeocode_CoordinateLiteral(t *testing.T) {
	svc := NewService()

	coords := svc.Geocode("41.8781, -87.6298")
	require.NotNil(t, coords)
	assert.InDelta(t, 41.8781, coords.Latitude, 0.0001)
	assert.InDelta(t, -87.6298, coords.Longitude, 0.0001)
}

func TestGeocode_LiteralOutOfRange(t *testing.T) {
	svc := NewService()

	assert.Nil(t, svc.Geocode("91.0, 0.0"))
	assert.Nil(t, svc.Geocode("0.0, -181.0"))
}

func TestGeocode_Unresolvable(t *testing.T) {
	svc := NewService()

	assert.Nil(t, svc.Geocode("Nowhereville, ZZ"))
	assert.Nil(t, svc.Geocode(""))
	assert.Nil(t, svc.Geocode("   "))
}

func TestGeocode_CacheHitsDoNotGrow(t *testing.T) {
	svc := NewService()

	require.NotNil(t, svc.Geocode("Denver, CO"))
	assert.Equal(t, 1, svc.CacheSize())

	// Same location in different casing is the same cache key.
	require.NotNil(t, svc.Geocode("  DENVER, co "))
	assert.Equal(t, 1, svc.CacheSize())

	require.NotNil(t, svc.Geocode("Boston, MA"))
	assert.Equal(t, 2, svc.CacheSize())
}

func TestGeocode_MissesNotCached(t *testing.T) {
	svc := NewService()

	assert.Nil(t, svc.Geocode("Nowhereville, ZZ"))
	assert.Equal(t, 0, svc.CacheSize())
}

func TestGeocode_CustomCities(t *testing.T) {
	cities := NewCityTable([]City{
		{Name: "Springfield", State: "IL", Latitude: 39.7817, Longitude: -89.6501},
	})
	svc := NewService(WithCities(cities))

	coords := svc.Geocode("Springfield, IL")
	require.NotNil(t, coords)
	assert.InDelta(t, 39.7817, coords.Latitude, 0.001)

	assert.Nil(t, svc.Geocode("Chicago, IL"))
}

func TestDistance_Identical(t *testing.T) {
	p := Coordinates{Latitude: 41.8781, Longitude: -87.6298}
	assert.Equal(t, 0.0, Distance(p, p))
}

func TestDistance_Symmetric(t *testing.T) {
	ny := Coordinates{Latitude: 40.7128, Longitude: -74.0060}
	la := Coordinates{Latitude: 34.0522, Longitude: -118.2437}

	assert.Equal(t, Distance(ny, la), Distance(la, ny))
}

func TestDistance_NewYorkToLosAngeles(t *testing.T) {
	ny := Coordinates{Latitude: 40.7128, Longitude: -74.0060}
	la := Coordinates{Latitude: 34.0522, Longitude: -118.2437}

	d := Distance(ny, la)
	assert.Greater(t, d, 2400.0)
	assert.Less(t, d, 2500.0)
}

func TestDistance_OneDecimalPlace(t *testing.T) {
	a := Coordinates{Latitude: 41.8781, Longitude: -87.6298}
	b := Coordinates{Latitude: 42.3314, Longitude: -83.0458}

	d := Distance(a, b)
	assert.Equal(t, d, math.Round(d*10)/10)
	assert.Greater(t, d, 0.0)
}

func TestLoadCities(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cities.yaml")
	content := `cities:
  - name: Springfield
    state: IL
    latitude: 39.7817
    longitude: -89.6501
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	table, err := LoadCities(path)
	require.NoError(t, err)
	assert.Equal(t, 1, table.Len())

	coords, ok := table.Lookup("springfield, il")
	require.True(t, ok)
	assert.InDelta(t, 39.7817, coords.Latitude, 0.001)
}

func TestLoadCities_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cities.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cities: []\n"), 0o644))

	_, err := LoadCities(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no cities")
}

func TestCityTable_FirstEntryWinsForBareCity(t *testing.T) {
	table := NewCityTable([]City{
		{Name: "Portland", State: "OR", Latitude: 45.5152, Longitude: -122.6784},
		{Name: "Portland", State: "ME", Latitude: 43.6591, Longitude: -70.2568},
	})

	coords, ok := table.Lookup("portland")
	require.True(t, ok)
	assert.InDelta(t, 45.5152, coords.Latitude, 0.001)

	coords, ok = table.Lookup("portland, me")
	require.True(t, ok)
	assert.InDelta(t, 43.6591, coords.Latitude, 0.001)
}
