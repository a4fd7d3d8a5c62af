package render

import (
	"strings"
	"testing"

	"github.com/passbi/transit-catalogue/internal/catalogue"
	"github.com/passbi/transit-catalogue/internal/geo"
	"github.com/passbi/transit-catalogue/internal/svgwriter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSettings() Settings {
	return Settings{
		Width: 600, Height: 400, Padding: 50,
		LineWidth: 14, StopRadius: 5,
		BusLabelFontSize: 20, StopLabelFontSize: 18,
		BusLabelOffset:  svgwriter.Point{X: 7, Y: 15},
		StopLabelOffset: svgwriter.Point{X: 7, Y: -3},
		UnderlayerColor: svgwriter.RGBA(255, 255, 255, 0.85),
		UnderlayerWidth: 3,
		Palette:         []svgwriter.Color{svgwriter.Named("green"), svgwriter.RGB(255, 160, 0)},
	}
}

func buildCatalogue() *catalogue.Catalogue {
	c := catalogue.New()
	c.AddStop("A", geo.Coordinates{Lat: 55.6, Lon: 37.6}, map[string]int{"B": 1000})
	c.AddStop("B", geo.Coordinates{Lat: 55.7, Lon: 37.7}, map[string]int{"A": 1000})
	c.AddBus("1", []string{"A", "B"}, false)
	return c
}

func TestRenderProducesPolylinePerBus(t *testing.T) {
	c := buildCatalogue()
	out := Render(c, testSettings())
	require.Equal(t, 1, strings.Count(out, "<polyline"))
}

func TestRenderNonRoundtripAddsTwoLabelsWhenTerminusesDiffer(t *testing.T) {
	c := buildCatalogue()
	out := Render(c, testSettings())
	assert.Equal(t, 4, strings.Count(out, ">1</text>"))
}

func TestRenderRoundtripAddsOneLabelSet(t *testing.T) {
	c := catalogue.New()
	c.AddStop("A", geo.Coordinates{Lat: 1, Lon: 1}, nil)
	c.AddStop("B", geo.Coordinates{Lat: 2, Lon: 2}, nil)
	c.AddBus("loop", []string{"A", "B", "A"}, true)

	out := Render(c, testSettings())
	assert.Equal(t, 2, strings.Count(out, ">loop</text>"))
}

func TestRenderEmitsOneCirclePerUsedStop(t *testing.T) {
	c := buildCatalogue()
	out := Render(c, testSettings())
	assert.Equal(t, 2, strings.Count(out, "<circle"))
}

func TestRenderEscapesStopAndBusNames(t *testing.T) {
	c := catalogue.New()
	c.AddStop("A&B", geo.Coordinates{Lat: 1, Lon: 1}, nil)
	c.AddStop("C", geo.Coordinates{Lat: 2, Lon: 2}, nil)
	c.AddBus("X", []string{"A&B", "C"}, true)

	out := Render(c, testSettings())
	assert.Contains(t, out, "A&amp;B")
}

func TestRenderFromPointsMatchesRenderGivenTheSameProjection(t *testing.T) {
	c := buildCatalogue()
	settings := testSettings()
	names, stopPoints := ProjectStops(c, settings)

	direct := Render(c, settings)
	fromPoints := RenderFromPoints(c, settings, names, stopPoints)
	assert.Equal(t, direct, fromPoints)
}

func TestRenderWithNoUsedStopsProducesEmptyLayers(t *testing.T) {
	c := catalogue.New()
	out := Render(c, testSettings())
	assert.NotContains(t, out, "<circle")
	assert.NotContains(t, out, "<polyline")
}
