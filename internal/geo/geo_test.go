package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceSamePoint(t *testing.T) {
	p := Coordinates{Lat: 55.611087, Lon: 37.20829}
	assert.InDelta(t, 0, Distance(p, p), 1e-9)
}

func TestDistanceKnownPair(t *testing.T) {
	// Moscow-ish points roughly 10km apart along a meridian.
	a := Coordinates{Lat: 55.0, Lon: 37.0}
	b := Coordinates{Lat: 55.09, Lon: 37.0}
	d := Distance(a, b)
	assert.True(t, math.Abs(d-10007) < 200, "expected ~10km, got %f", d)
}

func TestDistanceSymmetric(t *testing.T) {
	a := Coordinates{Lat: 55.6, Lon: 37.6}
	b := Coordinates{Lat: 55.7, Lon: 37.8}
	assert.InDelta(t, Distance(a, b), Distance(b, a), 1e-9)
}

func TestCoordinatesZero(t *testing.T) {
	assert.True(t, Coordinates{}.Zero())
	assert.False(t, Coordinates{Lat: 1}.Zero())
}
