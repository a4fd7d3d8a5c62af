// Package render composes the network's stops and buses into a single SVG
// map, in four fixed layers: bus lines, bus labels, stop circles, stop
// labels. Colors and geometry follow Settings; positions come from a
// projector fit to every stop used by at least one non-empty bus.
package render

import (
	"sort"

	"github.com/passbi/transit-catalogue/internal/catalogue"
	"github.com/passbi/transit-catalogue/internal/geo"
	"github.com/passbi/transit-catalogue/internal/projector"
	"github.com/passbi/transit-catalogue/internal/svgwriter"
)

// Settings controls every rendering knob: canvas geometry, stroke widths,
// label fonts/offsets, and the underlayer/palette colors.
type Settings struct {
	Width, Height float64
	Padding       float64
	LineWidth     float64
	StopRadius    float64

	BusLabelFontSize  int
	StopLabelFontSize int
	BusLabelOffset    svgwriter.Point
	StopLabelOffset   svgwriter.Point

	UnderlayerColor svgwriter.Color
	UnderlayerWidth float64

	Palette []svgwriter.Color
}

// ProjectStops computes the plane position of every stop used by at least
// one non-empty bus, sorted by name. Exposed so a snapshot codec can
// persist the same points Render would place, without re-rendering.
func ProjectStops(cat *catalogue.Catalogue, settings Settings) ([]string, map[string]svgwriter.Point) {
	stopNames := cat.StopsUsed()
	sort.Strings(stopNames)

	coords := make([]geo.Coordinates, 0, len(stopNames))
	names := make([]string, 0, len(stopNames))
	for _, name := range stopNames {
		coord, ok := cat.Stop(name)
		if !ok {
			continue
		}
		coords = append(coords, coord)
		names = append(names, name)
	}

	proj := projector.New(coords, settings.Width, settings.Height, settings.Padding)

	stopPoints := make(map[string]svgwriter.Point, len(names))
	for i, name := range names {
		p := proj.Project(coords[i])
		stopPoints[name] = svgwriter.Point{X: p.X, Y: p.Y}
	}
	return names, stopPoints
}

// Render builds the SVG document text for the given catalogue under the
// given settings. Stop points are derived from every stop that is used by
// at least one non-empty bus.
func Render(cat *catalogue.Catalogue, settings Settings) string {
	names, stopPoints := ProjectStops(cat, settings)
	return RenderFromPoints(cat, settings, names, stopPoints)
}

// RenderFromPoints builds the SVG document text using already-projected
// stop points instead of recomputing them, so that a map rendered after a
// snapshot round-trip is pixel-identical to the one rendered before
// encoding: it reuses C3's stored output rather than re-deriving it.
// names controls the stop-label/circle iteration order (ascending by
// name, per §4.3); stopPoints must contain every name in names.
func RenderFromPoints(cat *catalogue.Catalogue, settings Settings, names []string, stopPoints map[string]svgwriter.Point) string {
	doc := svgwriter.NewDocument()
	buses := cat.BusesForRender()

	renderBusLines(doc, buses, stopPoints, settings)
	renderBusLabels(doc, buses, stopPoints, settings)
	renderStopCircles(doc, names, stopPoints, settings)
	renderStopLabels(doc, names, stopPoints, settings)

	return doc.Render()
}

func renderBusLines(doc *svgwriter.Document, buses []catalogue.BusForRender, stopPoints map[string]svgwriter.Point, settings Settings) {
	for i, bus := range buses {
		color := paletteColor(settings.Palette, i)
		pts := make([]svgwriter.Point, 0, len(bus.Stops))
		for _, s := range bus.Stops {
			if p, ok := stopPoints[s]; ok {
				pts = append(pts, p)
			}
		}
		doc.AddPolyline(pts, color, settings.LineWidth)
	}
}

func renderBusLabels(doc *svgwriter.Document, buses []catalogue.BusForRender, stopPoints map[string]svgwriter.Point, settings Settings) {
	for i, bus := range buses {
		if len(bus.Stops) == 0 {
			continue
		}
		color := paletteColor(settings.Palette, i)
		addBusLabelAt(doc, bus.Name, stopPoints[bus.Stops[0]], color, settings)

		if bus.IsRoundtrip {
			continue
		}
		lastIdx := (len(bus.Stops) - 1) / 2
		if bus.Stops[0] != bus.Stops[lastIdx] {
			addBusLabelAt(doc, bus.Name, stopPoints[bus.Stops[lastIdx]], color, settings)
		}
	}
}

func addBusLabelAt(doc *svgwriter.Document, name string, pos svgwriter.Point, color svgwriter.Color, settings Settings) {
	base := svgwriter.TextStyle{
		FontFamily: "Verdana",
		FontWeight: "bold",
		FontSize:   settings.BusLabelFontSize,
		Offset:     settings.BusLabelOffset,
	}

	underlayer := base
	underlayer.Fill = settings.UnderlayerColor
	underlayer.Stroke = settings.UnderlayerColor
	underlayer.StrokeWidth = settings.UnderlayerWidth
	doc.AddText(pos, name, underlayer)

	label := base
	label.Fill = color
	doc.AddText(pos, name, label)
}

func renderStopCircles(doc *svgwriter.Document, stopNames []string, stopPoints map[string]svgwriter.Point, settings Settings) {
	for _, name := range stopNames {
		p, ok := stopPoints[name]
		if !ok {
			continue
		}
		doc.AddCircle(p, settings.StopRadius, svgwriter.Named("white"))
	}
}

func renderStopLabels(doc *svgwriter.Document, stopNames []string, stopPoints map[string]svgwriter.Point, settings Settings) {
	base := svgwriter.TextStyle{
		FontFamily: "Verdana",
		FontSize:   settings.StopLabelFontSize,
		Offset:     settings.StopLabelOffset,
	}

	for _, name := range stopNames {
		p, ok := stopPoints[name]
		if !ok {
			continue
		}

		underlayer := base
		underlayer.Fill = settings.UnderlayerColor
		underlayer.Stroke = settings.UnderlayerColor
		underlayer.StrokeWidth = settings.UnderlayerWidth
		doc.AddText(p, name, underlayer)

		label := base
		label.Fill = svgwriter.Named("black")
		doc.AddText(p, name, label)
	}
}

func paletteColor(palette []svgwriter.Color, index int) svgwriter.Color {
	if len(palette) == 0 {
		return svgwriter.None
	}
	return palette[index%len(palette)]
}
