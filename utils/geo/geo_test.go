package geo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/greenwave-sim-oss/utils/geo"
)

func TestHaversineZero(t *testing.T) {
	p := geo.Point{Lat: 28.6304, Lng: 77.2177}
	assert.Zero(t, geo.Haversine(p, p))
}

func TestHaversineKnownDistances(t *testing.T) {
	// one degree of latitude is about 111.19 km on a 6371 km sphere
	a := geo.Point{Lat: 0, Lng: 0}
	b := geo.Point{Lat: 1, Lng: 0}
	assert.InDelta(t, 111.19, geo.HaversineKm(a, b), 0.1)

	// Connaught Place outer circle to India Gate circle, roughly 2.3 km
	cp := geo.Point{Lat: 28.6315, Lng: 77.2167}
	ig := geo.Point{Lat: 28.6129, Lng: 77.2295}
	d := geo.HaversineKm(cp, ig)
	assert.InDelta(t, 2.4, d, 0.3)
}

func TestHaversineSymmetry(t *testing.T) {
	a := geo.Point{Lat: 28.6304, Lng: 77.2177}
	b := geo.Point{Lat: 28.6289, Lng: 77.2156}
	assert.InDelta(t, geo.Haversine(a, b), geo.Haversine(b, a), 1e-9)
	assert.InDelta(t, geo.Haversine(a, b), geo.HaversineKm(a, b)*1000, 1e-9)
}
