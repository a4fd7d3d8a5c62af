package svgwriter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColorStringVariants(t *testing.T) {
	assert.Equal(t, "none", None.String())
	assert.Equal(t, "red", Named("red").String())
	assert.Equal(t, "rgb(255,0,10)", RGB(255, 0, 10).String())
	assert.Equal(t, "rgba(1,2,3,0.5)", RGBA(1, 2, 3, 0.5).String())
}

func TestEscapeOrderAndCoverage(t *testing.T) {
	in := `a&b"c'd<e>f`
	want := "a&amp;b&quot;c&apos;d&lt;e&gt;f"
	assert.Equal(t, want, Escape(in))
}

func TestEscapeDoesNotDoubleEscapeAmpersand(t *testing.T) {
	assert.Equal(t, "&amp;lt;", Escape("&lt;"))
}

func TestDocumentRenderIncludesElementsInOrder(t *testing.T) {
	doc := NewDocument()
	doc.AddCircle(Point{X: 1, Y: 2}, 3, Named("white"))
	doc.AddPolyline([]Point{{X: 0, Y: 0}, {X: 1, Y: 1}}, RGB(1, 2, 3), 2)
	doc.AddText(Point{X: 5, Y: 5}, "A&B", TextStyle{FontFamily: "Verdana", FontSize: 10, Fill: Named("black")})

	out := doc.Render()
	circleIdx := strings.Index(out, "<circle")
	polyIdx := strings.Index(out, "<polyline")
	textIdx := strings.Index(out, "<text")

	assert.True(t, circleIdx < polyIdx)
	assert.True(t, polyIdx < textIdx)
	assert.Contains(t, out, "A&amp;B")
	assert.True(t, strings.HasPrefix(out, `<?xml version="1.0" encoding="UTF-8" ?>`))
	assert.True(t, strings.HasSuffix(out, "</svg>"))
}

func TestAddTextOmitsStrokeWhenNone(t *testing.T) {
	doc := NewDocument()
	doc.AddText(Point{}, "x", TextStyle{FontFamily: "Verdana", FontSize: 10, Fill: Named("black")})
	assert.NotContains(t, doc.Render(), "stroke=")
}
