package services

import (
	"eld-trip-planner/internal/domain"
	"math"
)

const (
	earthRadiusMiles = 3959.0
	// Average road speed assumed when no routing service is configured.
	fallbackSpeedMPH = 60.0
	metersPerMile    = 1609.344
)

// HaversineMiles returns the great-circle distance between two points.
func HaversineMiles(a, b domain.Coordinates) float64 {
	lat1, lon1 := a.Lat*math.Pi/180, a.Lon*math.Pi/180
	lat2, lon2 := b.Lat*math.Pi/180, b.Lon*math.Pi/180

	dLat := lat2 - lat1
	dLon := lon2 - lon1

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * earthRadiusMiles * math.Asin(math.Min(1, math.Sqrt(h)))
}
