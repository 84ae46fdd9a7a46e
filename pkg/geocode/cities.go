package geocode

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// City is one known-city entry.
type City struct {
	Name      string  `yaml:"name"`
	State     string  `yaml:"state"`
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
}

// CityTable is an immutable lookup table of city coordinates. Keys are
// normalized "city, st"; city-only lookups fall back to the first entry with
// a matching city name, in table order.
type CityTable struct {
	entries []City
	byFull  map[string]Coordinates
	byCity  map[string]Coordinates
}

// NewCityTable builds an indexed table from entries. Order matters for
// city-only matches: the first entry with a given city name wins.
func NewCityTable(entries []City) *CityTable {
	t := &CityTable{
		entries: entries,
		byFull:  make(map[string]Coordinates, len(entries)),
		byCity:  make(map[string]Coordinates, len(entries)),
	}
	for _, c := range entries {
		coords := Coordinates{Latitude: c.Latitude, Longitude: c.Longitude}
		full := strings.ToLower(c.Name) + ", " + strings.ToLower(c.State)
		t.byFull[full] = coords
		cityKey := strings.ToLower(c.Name)
		if _, ok := t.byCity[cityKey]; !ok {
			t.byCity[cityKey] = coords
		}
	}
	return t
}

// Lookup resolves a normalized location string. "city, st" is matched
// exactly; anything else is tried as a bare city name.
func (t *CityTable) Lookup(normalized string) (*Coordinates, bool) {
	if c, ok := t.byFull[normalized]; ok {
		return &Coordinates{Latitude: c.Latitude, Longitude: c.Longitude}, true
	}
	// Accept "city, st" where the table keys use full state names and vice
	// versa by also trying the portion before the first comma as a city.
	cityOnly := normalized
	if i := strings.Index(normalized, ","); i >= 0 {
		cityOnly = strings.TrimSpace(normalized[:i])
	}
	if c, ok := t.byCity[cityOnly]; ok {
		return &Coordinates{Latitude: c.Latitude, Longitude: c.Longitude}, true
	}
	return nil, false
}

// Len returns the number of entries.
func (t *CityTable) Len() int { return len(t.entries) }

// LoadCities reads a yaml file containing a `cities:` list.
func LoadCities(path string) (*CityTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "geocode: read cities file %s", path)
	}
	var doc struct {
		Cities []City `yaml:"cities"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, eris.Wrap(err, "geocode: parse cities yaml")
	}
	if len(doc.Cities) == 0 {
		return nil, eris.Errorf("geocode: %s contains no cities", path)
	}
	return NewCityTable(doc.Cities), nil
}

// DefaultCities returns the built-in table of larger US metros.
func DefaultCities() *CityTable {
	return NewCityTable([]City{
		{Name: "New York", State: "NY", Latitude: 40.7128, Longitude: -74.0060},
		{Name: "Los Angeles", State: "CA", Latitude: 34.0522, Longitude: -118.2437},
		{Name: "Chicago", State: "IL", Latitude: 41.8781, Longitude: -87.6298},
		{Name: "Houston", State: "TX", Latitude: 29.7604, Longitude: -95.3698},
		{Name: "Phoenix", State: "AZ", Latitude: 33.4484, Longitude: -112.0740},
		{Name: "Philadelphia", State: "PA", Latitude: 39.9526, Longitude: -75.1652},
		{Name: "San Antonio", State: "TX", Latitude: 29.4241, Longitude: -98.4936},
		{Name: "San Diego", State: "CA", Latitude: 32.7157, Longitude: -117.1611},
		{Name: "Dallas", State: "TX", Latitude: 32.7767, Longitude: -96.7970},
		{Name: "Austin", State: "TX", Latitude: 30.2672, Longitude: -97.7431},
		{Name: "Jacksonville", State: "FL", Latitude: 30.3322, Longitude: -81.6557},
		{Name: "San Jose", State: "CA", Latitude: 37.3382, Longitude: -121.8863},
		{Name: "Fort Worth", State: "TX", Latitude: 32.7555, Longitude: -97.3308},
		{Name: "Columbus", State: "OH", Latitude: 39.9612, Longitude: -82.9988},
		{Name: "Charlotte", State: "NC", Latitude: 35.2271, Longitude: -80.8431},
		{Name: "Indianapolis", State: "IN", Latitude: 39.7684, Longitude: -86.1581},
		{Name: "San Francisco", State: "CA", Latitude: 37.7749, Longitude: -122.4194},
		{Name: "Seattle", State: "WA", Latitude: 47.6062, Longitude: -122.3321},
		{Name: "Denver", State: "CO", Latitude: 39.7392, Longitude: -104.9903},
		{Name: "Oklahoma City", State: "OK", Latitude: 35.4676, Longitude: -97.5164},
		{Name: "Nashville", State: "TN", Latitude: 36.1627, Longitude: -86.7816},
		{Name: "El Paso", State: "TX", Latitude: 31.7619, Longitude: -106.4850},
		{Name: "Washington", State: "DC", Latitude: 38.9072, Longitude: -77.0369},
		{Name: "Las Vegas", State: "NV", Latitude: 36.1699, Longitude: -115.1398},
		{Name: "Boston", State: "MA", Latitude: 42.3601, Longitude: -71.0589},
		{Name: "Portland", State: "OR", Latitude: 45.5152, Longitude: -122.6784},
		{Name: "Detroit", State: "MI", Latitude: 42.3314, Longitude: -83.0458},
		{Name: "Memphis", State: "TN", Latitude: 35.1495, Longitude: -90.0490},
		{Name: "Louisville", State: "KY", Latitude: 38.2527, Longitude: -85.7585},
		{Name: "Baltimore", State: "MD", Latitude: 39.2904, Longitude: -76.6122},
		{Name: "Milwaukee", State: "WI", Latitude: 43.0389, Longitude: -87.9065},
		{Name: "Albuquerque", State: "NM", Latitude: 35.0844, Longitude: -106.6504},
		{Name: "Tucson", State: "AZ", Latitude: 32.2226, Longitude: -110.9747},
		{Name: "Fresno", State: "CA", Latitude: 36.7378, Longitude: -119.7871},
		{Name: "Sacramento", State: "CA", Latitude: 38.5816, Longitude: -121.4944},
		{Name: "Kansas City", State: "MO", Latitude: 39.0997, Longitude: -94.5786},
		{Name: "Mesa", State: "AZ", Latitude: 33.4152, Longitude: -111.8315},
		{Name: "Atlanta", State: "GA", Latitude: 33.7490, Longitude: -84.3880},
		{Name: "Omaha", State: "NE", Latitude: 41.2565, Longitude: -95.9345},
		{Name: "Colorado Springs", State: "CO", Latitude: 38.8339, Longitude: -104.8214},
		{Name: "Raleigh", State: "NC", Latitude: 35.7796, Longitude: -78.6382},
		{Name: "Miami", State: "FL", Latitude: 25.7617, Longitude: -80.1918},
		{Name: "Tampa", State: "FL", Latitude: 27.9506, Longitude: -82.4572},
		{Name: "Orlando", State: "FL", Latitude: 28.5383, Longitude: -81.3792},
		{Name: "Minneapolis", State: "MN", Latitude: 44.9778, Longitude: -93.2650},
		{Name: "Cleveland", State: "OH", Latitude: 41.4993, Longitude: -81.6944},
		{Name: "Pittsburgh", State: "PA", Latitude: 40.4406, Longitude: -79.9959},
		{Name: "St. Louis", State: "MO", Latitude: 38.6270, Longitude: -90.1994},
		{Name: "Cincinnati", State: "OH", Latitude: 39.1031, Longitude: -84.5120},
		{Name: "Salt Lake City", State: "UT", Latitude: 40.7608, Longitude: -111.8910},
	})
}
