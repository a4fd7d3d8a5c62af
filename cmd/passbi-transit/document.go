package main

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/passbi/transit-catalogue/internal/handler"
	"github.com/passbi/transit-catalogue/internal/render"
	"github.com/passbi/transit-catalogue/internal/snapshot"
	"github.com/passbi/transit-catalogue/internal/svgwriter"
	"github.com/passbi/transit-catalogue/internal/transportrouter"
)

// renderFromSnapshot re-draws the map from a decoded snapshot's own stop
// points rather than re-projecting from scratch, so the SVG produced by
// process_requests/serve is pixel-identical to the one make_base encoded.
func renderFromSnapshot(decoded *snapshot.Decoded) string {
	names := make([]string, 0, len(decoded.StopPoints))
	for name := range decoded.StopPoints {
		names = append(names, name)
	}
	sort.Strings(names)
	return render.RenderFromPoints(decoded.Catalogue, decoded.RenderSettings, names, decoded.StopPoints)
}

// requestDocument is the top-level shape of a make_base/process_requests
// input document. Every section is optional when decoding; each phase
// then checks for the sections it needs and returns an error if one is
// missing.
type requestDocument struct {
	BaseRequests          []handler.BaseRequest `json:"base_requests"`
	RenderSettings        *renderSettingsJSON    `json:"render_settings"`
	RoutingSettings       *routingSettingsJSON   `json:"routing_settings"`
	SerializationSettings *serializationJSON     `json:"serialization_settings"`
	StatRequests          []handler.StatRequest  `json:"stat_requests"`
}

type serializationJSON struct {
	File string `json:"file"`
}

type routingSettingsJSON struct {
	BusWaitTime float64 `json:"bus_wait_time"`
	BusVelocity float64 `json:"bus_velocity"`
}

func (r routingSettingsJSON) toSettings() transportrouter.Settings {
	return transportrouter.Settings{WaitTime: r.BusWaitTime, BusVelocityKmH: r.BusVelocity}
}

type pointJSON struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p pointJSON) toPoint() svgwriter.Point { return svgwriter.Point{X: p.X, Y: p.Y} }

type renderSettingsJSON struct {
	Width             float64      `json:"width"`
	Height            float64      `json:"height"`
	Padding           float64      `json:"padding"`
	LineWidth         float64      `json:"line_width"`
	StopRadius        float64      `json:"stop_radius"`
	BusLabelFontSize  int          `json:"bus_label_font_size"`
	StopLabelFontSize int          `json:"stop_label_font_size"`
	BusLabelOffset    pointJSON    `json:"bus_label_offset"`
	StopLabelOffset   pointJSON    `json:"stop_label_offset"`
	UnderlayerColor   colorJSON    `json:"underlayer_color"`
	UnderlayerWidth   float64      `json:"underlayer_width"`
	ColorPalette      []colorJSON  `json:"color_palette"`
}

func (r renderSettingsJSON) toSettings() (render.Settings, error) {
	if len(r.ColorPalette) == 0 {
		return render.Settings{}, fmt.Errorf("render_settings: color_palette must be non-empty")
	}
	palette := make([]svgwriter.Color, len(r.ColorPalette))
	for i, c := range r.ColorPalette {
		palette[i] = c.toColor()
	}
	return render.Settings{
		Width:             r.Width,
		Height:            r.Height,
		Padding:           r.Padding,
		LineWidth:         r.LineWidth,
		StopRadius:        r.StopRadius,
		BusLabelFontSize:  r.BusLabelFontSize,
		StopLabelFontSize: r.StopLabelFontSize,
		BusLabelOffset:    r.BusLabelOffset.toPoint(),
		StopLabelOffset:   r.StopLabelOffset.toPoint(),
		UnderlayerColor:   r.UnderlayerColor.toColor(),
		UnderlayerWidth:   r.UnderlayerWidth,
		Palette:           palette,
	}, nil
}

// colorJSON decodes the Color sum type: a bare string (named color), or a
// 3- or 4-element array of [r,g,b] / [r,g,b,a].
type colorJSON struct {
	color svgwriter.Color
}

func (c colorJSON) toColor() svgwriter.Color { return c.color }

func (c *colorJSON) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		c.color = svgwriter.Named(name)
		return nil
	}

	var components []float64
	if err := json.Unmarshal(data, &components); err != nil {
		return fmt.Errorf("color: expected a string or [r,g,b](,a) array: %w", err)
	}
	switch len(components) {
	case 3:
		c.color = svgwriter.RGB(byte(components[0]), byte(components[1]), byte(components[2]))
	case 4:
		c.color = svgwriter.RGBA(byte(components[0]), byte(components[1]), byte(components[2]), components[3])
	default:
		return fmt.Errorf("color: array must have 3 or 4 elements, got %d", len(components))
	}
	return nil
}

func (c colorJSON) MarshalJSON() ([]byte, error) {
	switch c.color.Kind {
	case svgwriter.ColorNamed:
		return json.Marshal(c.color.Name)
	case svgwriter.ColorRGB:
		return json.Marshal([]float64{float64(c.color.R), float64(c.color.G), float64(c.color.B)})
	case svgwriter.ColorRGBA:
		return json.Marshal([]float64{float64(c.color.R), float64(c.color.G), float64(c.color.B), c.color.A})
	default:
		return json.Marshal("none")
	}
}
