// Package projector maps geographic coordinates onto a bounded plane for
// SVG rendering, deterministically and reproducibly across processes.
package projector

import (
	"math"

	"github.com/passbi/transit-catalogue/internal/geo"
)

const zeroThreshold = 1e-6

// Point is a position on the rendered plane.
type Point struct {
	X float64
	Y float64
}

// Projector converts geographic coordinates into plane points, fit to a
// canvas of the given width/height with the given padding.
type Projector struct {
	minLon, maxLat, zoom, padding float64
	empty                         bool
}

func isZero(v float64) bool {
	return math.Abs(v) < zeroThreshold
}

// New builds a Projector from the bounding box of points. With no points,
// the Projector returns (padding, padding) for every query.
func New(points []geo.Coordinates, width, height, padding float64) *Projector {
	if len(points) == 0 {
		return &Projector{padding: padding, empty: true}
	}

	minLon, maxLon := points[0].Lon, points[0].Lon
	minLat, maxLat := points[0].Lat, points[0].Lat
	for _, p := range points[1:] {
		minLon = math.Min(minLon, p.Lon)
		maxLon = math.Max(maxLon, p.Lon)
		minLat = math.Min(minLat, p.Lat)
		maxLat = math.Max(maxLat, p.Lat)
	}

	var widthZoom, heightZoom float64
	var haveWidthZoom, haveHeightZoom bool

	if !isZero(maxLon - minLon) {
		widthZoom = (width - 2*padding) / (maxLon - minLon)
		haveWidthZoom = true
	}
	if !isZero(maxLat - minLat) {
		heightZoom = (height - 2*padding) / (maxLat - minLat)
		haveHeightZoom = true
	}

	var zoom float64
	switch {
	case haveWidthZoom && haveHeightZoom:
		zoom = math.Min(widthZoom, heightZoom)
	case haveWidthZoom:
		zoom = widthZoom
	case haveHeightZoom:
		zoom = heightZoom
	default:
		zoom = 0
	}

	return &Projector{minLon: minLon, maxLat: maxLat, zoom: zoom, padding: padding}
}

// Project maps a single coordinate onto the plane.
func (p *Projector) Project(c geo.Coordinates) Point {
	if p.empty {
		return Point{X: p.padding, Y: p.padding}
	}
	return Point{
		X: (c.Lon-p.minLon)*p.zoom + p.padding,
		Y: (p.maxLat-c.Lat)*p.zoom + p.padding,
	}
}
