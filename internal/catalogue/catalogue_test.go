package catalogue

import (
	"testing"

	"github.com/passbi/transit-catalogue/internal/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildScenario1(t *testing.T) *Catalogue {
	t.Helper()
	c := New()
	c.AddStop("A", geo.Coordinates{Lat: 55.6, Lon: 37.6}, map[string]int{"B": 1000})
	c.AddStop("B", geo.Coordinates{Lat: 55.6, Lon: 37.7}, map[string]int{"A": 1000})
	c.AddBus("1", []string{"A", "B"}, false)
	return c
}

func TestNonRoundtripExpansion(t *testing.T) {
	c := buildScenario1(t)
	bus, ok := c.Bus("1")
	require.True(t, ok)
	assert.Equal(t, []string{"A", "B", "A"}, bus.Stops)
	assert.False(t, bus.IsRoundtrip)
}

func TestRoundtripStoredVerbatim(t *testing.T) {
	c := New()
	c.AddStop("A", geo.Coordinates{Lat: 1, Lon: 1}, nil)
	c.AddStop("B", geo.Coordinates{Lat: 2, Lon: 2}, nil)
	c.AddBus("loop", []string{"A", "B", "A"}, true)
	bus, ok := c.Bus("loop")
	require.True(t, ok)
	assert.Equal(t, []string{"A", "B", "A"}, bus.Stops)
}

func TestBusInfoScenario3(t *testing.T) {
	c := New()
	c.AddStop("A", geo.Coordinates{Lat: 55.6, Lon: 37.6}, map[string]int{"B": 600})
	c.AddStop("B", geo.Coordinates{Lat: 55.6, Lon: 37.7}, map[string]int{"A": 600})
	c.AddBus("2", []string{"A", "B"}, false)

	info, found, err := c.BusInfo("2")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 3, info.StopsCount)
	assert.Equal(t, 2, info.UniqueStops)
	assert.Equal(t, 1200, info.RealLength)
	geoAB := geo.Distance(geo.Coordinates{Lat: 55.6, Lon: 37.6}, geo.Coordinates{Lat: 55.6, Lon: 37.7})
	assert.InDelta(t, 1200/(2*geoAB), info.Curvature, 1e-9)
}

func TestBusInfoNotFound(t *testing.T) {
	c := New()
	_, found, err := c.BusInfo("missing")
	assert.NoError(t, err)
	assert.False(t, found)
}

func TestBusInfoEmptyStopsNotFound(t *testing.T) {
	c := New()
	c.AddBus("empty", nil, false)
	_, found, err := c.BusInfo("empty")
	assert.NoError(t, err)
	assert.False(t, found)
}

func TestStopInfoVariants(t *testing.T) {
	c := buildScenario1(t)
	c.AddStop("Q", geo.Coordinates{Lat: 0, Lon: 0}, nil)

	info, lookup := c.StopInfo("A")
	assert.Equal(t, StopKnownWithBuses, lookup)
	assert.Equal(t, []string{"1"}, info.Buses)

	_, lookup = c.StopInfo("Q")
	assert.Equal(t, StopKnownNoBuses, lookup)

	_, lookup = c.StopInfo("Nowhere")
	assert.Equal(t, StopNotFound, lookup)
}

func TestDistanceAsymmetricThenSymmetric(t *testing.T) {
	c := New()
	c.AddStop("A", geo.Coordinates{Lat: 0, Lon: 0}, map[string]int{"B": 500})
	c.AddStop("B", geo.Coordinates{Lat: 0, Lon: 0}, nil)

	d, err := c.Distance("A", "B")
	require.NoError(t, err)
	assert.Equal(t, 500, d)

	// Falls back to the reverse direction.
	d, err = c.Distance("B", "A")
	require.NoError(t, err)
	assert.Equal(t, 500, d)
}

func TestDistanceMissingBothDirections(t *testing.T) {
	c := New()
	c.AddStop("A", geo.Coordinates{}, nil)
	c.AddStop("B", geo.Coordinates{}, nil)
	_, err := c.Distance("A", "B")
	assert.ErrorIs(t, err, ErrNoDistance)
}

func TestStopsUsedOrderAndBusesForRender(t *testing.T) {
	c := New()
	c.AddStop("A", geo.Coordinates{Lat: 1, Lon: 1}, map[string]int{"B": 100})
	c.AddStop("B", geo.Coordinates{Lat: 2, Lon: 2}, map[string]int{"A": 100})
	c.AddBus("z-bus", []string{"B", "A"}, true)
	c.AddBus("a-bus", []string{"A", "B"}, true)
	c.AddBus("empty", nil, false)

	assert.Equal(t, []string{"B", "A"}, c.StopsUsed())

	render := c.BusesForRender()
	require.Len(t, render, 2)
	assert.Equal(t, "a-bus", render[0].Name)
	assert.Equal(t, "z-bus", render[1].Name)
}

func TestAddStopOverwritesCoordinatesAndMergesDistances(t *testing.T) {
	c := New()
	c.AddStop("A", geo.Coordinates{Lat: 1, Lon: 1}, map[string]int{"B": 100})
	c.AddStop("A", geo.Coordinates{Lat: 5, Lon: 5}, map[string]int{"C": 200})

	coords, ok := c.Stop("A")
	require.True(t, ok)
	assert.Equal(t, geo.Coordinates{Lat: 5, Lon: 5}, coords)

	d, err := c.Distance("A", "B")
	require.NoError(t, err)
	assert.Equal(t, 100, d)

	d, err = c.Distance("A", "C")
	require.NoError(t, err)
	assert.Equal(t, 200, d)
}
