package transportrouter

import (
	"testing"

	"github.com/passbi/transit-catalogue/internal/catalogue"
	"github.com/passbi/transit-catalogue/internal/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildScenario1(t *testing.T) *Router {
	t.Helper()
	cat := catalogue.New()
	cat.AddStop("A", geo.Coordinates{Lat: 55.6, Lon: 37.6}, map[string]int{"B": 1000})
	cat.AddStop("B", geo.Coordinates{Lat: 55.6, Lon: 37.7}, map[string]int{"A": 1000})
	cat.AddBus("1", []string{"A", "B"}, false)

	r, err := Build(cat, Settings{WaitTime: 6, BusVelocityKmH: 40})
	require.NoError(t, err)
	return r
}

func TestFindRouteScenario1(t *testing.T) {
	r := buildScenario1(t)
	result, ok := r.FindRoute("A", "B")
	require.True(t, ok)
	assert.InDelta(t, 7.5, result.TotalTime, 1e-9)
	require.Len(t, result.Items, 2)
	assert.Equal(t, ItemWait, result.Items[0].Kind)
	assert.Equal(t, "A", result.Items[0].Stop)
	assert.InDelta(t, 6, result.Items[0].Time, 1e-9)
	assert.Equal(t, ItemBus, result.Items[1].Kind)
	assert.Equal(t, "1", result.Items[1].Bus)
	assert.Equal(t, 1, result.Items[1].SpanCount)
	assert.InDelta(t, 1.5, result.Items[1].Time, 1e-9)
}

func TestFindRouteSameStopIsZeroTime(t *testing.T) {
	r := buildScenario1(t)
	result, ok := r.FindRoute("A", "A")
	require.True(t, ok)
	assert.Equal(t, 0.0, result.TotalTime)
	assert.Empty(t, result.Items)
}

func TestFindRouteUnknownStopNotFound(t *testing.T) {
	r := buildScenario1(t)
	_, ok := r.FindRoute("A", "Nowhere")
	assert.False(t, ok)
}

func TestFindRouteUnreachableNotFound(t *testing.T) {
	cat := catalogue.New()
	cat.AddStop("A", geo.Coordinates{Lat: 0, Lon: 0}, map[string]int{"B": 100})
	cat.AddStop("B", geo.Coordinates{Lat: 0, Lon: 0}, nil)
	cat.AddStop("C", geo.Coordinates{Lat: 0, Lon: 0}, map[string]int{"D": 100})
	cat.AddStop("D", geo.Coordinates{Lat: 0, Lon: 0}, nil)
	cat.AddBus("1", []string{"A", "B"}, false)
	cat.AddBus("2", []string{"C", "D"}, false)

	r, err := Build(cat, Settings{WaitTime: 1, BusVelocityKmH: 30})
	require.NoError(t, err)

	_, ok := r.FindRoute("A", "C")
	assert.False(t, ok)
}

func TestBuildPropagatesMissingDistanceAsError(t *testing.T) {
	cat := catalogue.New()
	cat.AddStop("A", geo.Coordinates{Lat: 0, Lon: 0}, nil)
	cat.AddStop("B", geo.Coordinates{Lat: 0, Lon: 0}, nil)
	cat.AddBus("1", []string{"A", "B"}, false)

	_, err := Build(cat, Settings{WaitTime: 1, BusVelocityKmH: 30})
	assert.ErrorIs(t, err, catalogue.ErrNoDistance)
}
