// Package svgwriter is a minimal, dependency-free SVG text composer: just
// enough of the format for polylines, circles and text labels, written the
// way the rest of the corpus hand-rolls small wire formats rather than
// reaching for a templating or XML library. No SVG-specific Go package
// appears anywhere in the example corpus, so this is built directly on
// strings/fmt.
package svgwriter

import (
	"fmt"
	"strconv"
	"strings"
)

// ColorKind tags the arm of the Color sum type that is populated.
type ColorKind int

const (
	// ColorNone renders as the literal "none".
	ColorNone ColorKind = iota
	// ColorNamed renders as a bare CSS color name/keyword.
	ColorNamed
	// ColorRGB renders as "rgb(r,g,b)".
	ColorRGB
	// ColorRGBA renders as "rgba(r,g,b,a)".
	ColorRGBA
)

// Color is the four-arm color sum type: none, a named string, RGB, or RGBA
// with float opacity.
type Color struct {
	Kind ColorKind
	Name string
	R, G, B byte
	A       float64
}

// None is the zero-value "none" color.
var None = Color{Kind: ColorNone}

// Named builds a named-color value.
func Named(name string) Color { return Color{Kind: ColorNamed, Name: name} }

// RGB builds an opaque RGB color value.
func RGB(r, g, b byte) Color { return Color{Kind: ColorRGB, R: r, G: g, B: b} }

// RGBA builds an RGB color value with opacity.
func RGBA(r, g, b byte, a float64) Color { return Color{Kind: ColorRGBA, R: r, G: g, B: b, A: a} }

func (c Color) String() string {
	switch c.Kind {
	case ColorNamed:
		return c.Name
	case ColorRGB:
		return fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B)
	case ColorRGBA:
		return fmt.Sprintf("rgba(%d,%d,%d,%s)", c.R, c.G, c.B, strconv.FormatFloat(c.A, 'g', -1, 64))
	default:
		return "none"
	}
}

// Point is a plane coordinate.
type Point struct {
	X, Y float64
}

func fmtNum(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Escape replaces the five XML special characters, each exactly once per
// occurrence, in the order &, ", ', <, >.
func Escape(s string) string {
	r := strings.NewReplacer(
		"&", "&amp;",
		`"`, "&quot;",
		"'", "&apos;",
		"<", "&lt;",
		">", "&gt;",
	)
	return r.Replace(s)
}

// Document accumulates SVG elements in the order they are added and
// renders them as a single <svg> document.
type Document struct {
	elements []string
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{}
}

// AddPolyline appends a stroked, unfilled polyline through points.
func (d *Document) AddPolyline(points []Point, stroke Color, width float64) {
	var pts strings.Builder
	for i, p := range points {
		if i > 0 {
			pts.WriteByte(' ')
		}
		pts.WriteString(fmtNum(p.X))
		pts.WriteByte(',')
		pts.WriteString(fmtNum(p.Y))
	}
	d.elements = append(d.elements, fmt.Sprintf(
		`<polyline points="%s" fill="none" stroke="%s" stroke-width="%s" stroke-linecap="round" stroke-linejoin="round"/>`,
		pts.String(), stroke, fmtNum(width)))
}

// AddCircle appends a filled circle.
func (d *Document) AddCircle(center Point, radius float64, fill Color) {
	d.elements = append(d.elements, fmt.Sprintf(
		`<circle cx="%s" cy="%s" r="%s" fill="%s"/>`,
		fmtNum(center.X), fmtNum(center.Y), fmtNum(radius), fill))
}

// TextStyle describes the font/fill/stroke of a text label.
type TextStyle struct {
	FontFamily string
	FontWeight string // empty means unset
	FontSize   int
	Offset     Point
	Fill       Color
	Stroke     Color // Kind == ColorNone means no stroke attributes emitted
	StrokeWidth float64
}

// AddText appends a text label at position, offset by style.Offset.
func (d *Document) AddText(position Point, data string, style TextStyle) {
	var b strings.Builder
	fmt.Fprintf(&b, `<text x="%s" y="%s" dx="%s" dy="%s" font-family="%s" font-size="%d"`,
		fmtNum(position.X), fmtNum(position.Y),
		fmtNum(style.Offset.X), fmtNum(style.Offset.Y),
		style.FontFamily, style.FontSize)
	if style.FontWeight != "" {
		fmt.Fprintf(&b, ` font-weight="%s"`, style.FontWeight)
	}
	fmt.Fprintf(&b, ` fill="%s"`, style.Fill)
	if style.Stroke.Kind != ColorNone || style.Stroke.Name != "" {
		fmt.Fprintf(&b, ` stroke="%s" stroke-width="%s" stroke-linecap="round" stroke-linejoin="round"`,
			style.Stroke, fmtNum(style.StrokeWidth))
	}
	fmt.Fprintf(&b, `>%s</text>`, Escape(data))
	d.elements = append(d.elements, b.String())
}

// Render produces the final SVG document text.
func (d *Document) Render() string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" ?>` + "\n")
	b.WriteString(`<svg xmlns="http://www.w3.org/2000/svg" version="1.1">` + "\n")
	for _, e := range d.elements {
		b.WriteString("  ")
		b.WriteString(e)
		b.WriteByte('\n')
	}
	b.WriteString(`</svg>`)
	return b.String()
}
