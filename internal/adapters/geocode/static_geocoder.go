package geocode

import (
	"context"
	"eld-trip-planner/internal/domain"
	"fmt"
	"strings"
)

// StaticGeocoder resolves locations from a fixed in-memory table.
// Lookups ignore case and extra whitespace, and "City, ST" also matches "City".
type StaticGeocoder struct {
	m map[string]domain.Coordinates
}

// Seed is one row of a location table, as stored in data/seeds/locations.json.
type Seed struct {
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// DefaultCities covers the major US freight cities used in demos and tests.
var DefaultCities = []Seed{
	{Address: "New York, NY", Lat: 40.7128, Lon: -74.0060},
	{Address: "Los Angeles, CA", Lat: 34.0522, Lon: -118.2437},
	{Address: "Chicago, IL", Lat: 41.8781, Lon: -87.6298},
	{Address: "Houston, TX", Lat: 29.7604, Lon: -95.3698},
	{Address: "Phoenix, AZ", Lat: 33.4484, Lon: -112.0740},
	{Address: "Philadelphia, PA", Lat: 39.9526, Lon: -75.1652},
	{Address: "San Antonio, TX", Lat: 29.4241, Lon: -98.4936},
	{Address: "San Diego, CA", Lat: 32.7157, Lon: -117.1611},
	{Address: "Dallas, TX", Lat: 32.7767, Lon: -96.7970},
	{Address: "San Jose, CA", Lat: 37.3382, Lon: -121.8863},
	{Address: "Indianapolis, IN", Lat: 39.7684, Lon: -86.1581},
	{Address: "Atlanta, GA", Lat: 33.7490, Lon: -84.3880},
	{Address: "Washington, DC", Lat: 38.9072, Lon: -77.0369},
	{Address: "Denver, CO", Lat: 39.7392, Lon: -104.9903},
}

func NewStaticGeocoder(seeds []Seed) *StaticGeocoder {
	m := make(map[string]domain.Coordinates, 2*len(seeds))
	for _, s := range seeds {
		c := domain.Coordinates{Lon: s.Lon, Lat: s.Lat}
		key := Normalize(s.Address)
		m[key] = c

		// Register the bare city name unless another entry already claimed it.
		if city, _, ok := strings.Cut(key, ","); ok {
			city = strings.TrimSpace(city)
			if _, taken := m[city]; !taken {
				m[city] = c
			}
		}
	}
	return &StaticGeocoder{m: m}
}

// Normalize lowercases and collapses whitespace.
func Normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func (g *StaticGeocoder) Geocode(ctx context.Context, location string) (domain.Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return domain.Coordinates{}, err
	}

	c, ok := g.m[Normalize(location)]
	if !ok {
		return domain.Coordinates{}, fmt.Errorf("static geocode %q: %w", location, domain.ErrLocationNotFound)
	}
	return c, nil
}

// Locations returns the number of distinct lookup keys.
func (g *StaticGeocoder) Locations() int { return len(g.m) }
