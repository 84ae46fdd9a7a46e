package geocode

import "math"

// earthRadiusMiles is the mean Earth radius used by the haversine formula.
const earthRadiusMiles = 3958.8

// Distance returns the great-circle distance between two points in miles,
// rounded to one decimal place. Symmetric in its arguments; zero for
// identical coordinates.
func Distance(a, b Coordinates) float64 {
	if a == b {
		return 0
	}

	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return math.Round(earthRadiusMiles*c*10) / 10
}
