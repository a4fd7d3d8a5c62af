package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/passbi/transit-catalogue/internal/catalogue"
	"github.com/passbi/transit-catalogue/internal/handler"
	"github.com/passbi/transit-catalogue/internal/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRequestDocument = `{
  "base_requests": [
    {"type": "Stop", "name": "A", "latitude": 55.6, "longitude": 37.6, "road_distances": {"B": 1000}},
    {"type": "Stop", "name": "B", "latitude": 55.6, "longitude": 37.7, "road_distances": {"A": 1000}},
    {"type": "Stop", "name": "Q", "latitude": 55.8, "longitude": 37.9},
    {"type": "Bus", "name": "1", "stops": ["A", "B"], "is_roundtrip": false}
  ],
  "render_settings": {
    "width": 600, "height": 400, "padding": 50,
    "line_width": 14, "stop_radius": 5,
    "bus_label_font_size": 20, "stop_label_font_size": 18,
    "bus_label_offset": {"x": 7, "y": 15},
    "stop_label_offset": {"x": 7, "y": -3},
    "underlayer_color": [255, 255, 255, 0.85],
    "underlayer_width": 3,
    "color_palette": ["green", [255, 160, 0]]
  },
  "routing_settings": {"bus_wait_time": 6, "bus_velocity": 40},
  "serialization_settings": {"file": "%s"},
  "stat_requests": [
    {"id": 1, "type": "Bus", "name": "1"},
    {"id": 2, "type": "Stop", "name": "Q"},
    {"id": 3, "type": "Map"},
    {"id": 4, "type": "Route", "from": "A", "to": "B"},
    {"id": 5, "type": "Bus", "name": "missing"}
  ]
}`

func TestMakeBaseThenProcessRequestsRoundTrip(t *testing.T) {
	snapshotPath := filepath.Join(t.TempDir(), "snapshot.bin")
	doc := strings.ReplaceAll(testRequestDocument, "%s", snapshotPath)

	var makeBaseOut bytes.Buffer
	require.NoError(t, runMakeBase(strings.NewReader(doc), &makeBaseOut))
	assert.Empty(t, makeBaseOut.String())

	var out bytes.Buffer
	require.NoError(t, runProcessRequests(strings.NewReader(doc), &out))

	var answers []map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &answers))
	require.Len(t, answers, 5)

	assert.Equal(t, float64(1), answers[0]["request_id"])
	assert.Equal(t, float64(2000), answers[0]["route_length"])

	assert.Equal(t, float64(2), answers[1]["request_id"])
	assert.Equal(t, []interface{}{}, answers[1]["buses"])

	assert.Equal(t, float64(3), answers[2]["request_id"])
	assert.Contains(t, answers[2]["map"], "<svg")

	assert.Equal(t, float64(4), answers[3]["request_id"])
	assert.Equal(t, 7.5, answers[3]["total_time"])

	assert.Equal(t, "not found", answers[4]["error_message"])
}

func TestProcessRequestsMapIsByteIdenticalAcrossSnapshotRoundTrip(t *testing.T) {
	snapshotPath := filepath.Join(t.TempDir(), "snapshot.bin")
	doc := strings.ReplaceAll(testRequestDocument, "%s", snapshotPath)

	require.NoError(t, runMakeBase(strings.NewReader(doc), &bytes.Buffer{}))

	var out1, out2 bytes.Buffer
	require.NoError(t, runProcessRequests(strings.NewReader(doc), &out1))
	require.NoError(t, runProcessRequests(strings.NewReader(doc), &out2))
	assert.Equal(t, out1.String(), out2.String())

	reqDoc, err := decodeRequestDocument(strings.NewReader(doc))
	require.NoError(t, err)
	settings, err := reqDoc.RenderSettings.toSettings()
	require.NoError(t, err)
	cat := catalogue.New()
	handler.ApplyBaseRequests(cat, reqDoc.BaseRequests)

	var answers []map[string]interface{}
	require.NoError(t, json.Unmarshal(out1.Bytes(), &answers))
	assert.Equal(t, render.Render(cat, settings), answers[2]["map"])
}

func TestMakeBaseRejectsMissingSerializationSettings(t *testing.T) {
	doc := `{"render_settings":{"color_palette":["red"]},"routing_settings":{"bus_wait_time":0,"bus_velocity":40}}`
	err := runMakeBase(strings.NewReader(doc), &bytes.Buffer{})
	assert.Error(t, err)
}

func TestMakeBaseRejectsEmptyColorPalette(t *testing.T) {
	snapshotPath := filepath.Join(t.TempDir(), "snapshot.bin")
	doc := `{
		"render_settings": {"color_palette": []},
		"routing_settings": {"bus_wait_time": 0, "bus_velocity": 40},
		"serialization_settings": {"file": "` + snapshotPath + `"}
	}`
	err := runMakeBase(strings.NewReader(doc), &bytes.Buffer{})
	assert.Error(t, err)
}

// TestMakeBaseConsultsStoreWhenDBConfigured pins down that setting
// DB_HOST, DB_NAME or DB_USER makes runMakeBase attempt to load base_requests from
// Postgres via internal/store, rather than silently ignoring
// config.HasDB(). There's no live Postgres in this test, so the
// attempted query fails — the point is that it tries at all, and fails
// as a clean error rather than skipping the store path or panicking.
func TestMakeBaseConsultsStoreWhenDBConfigured(t *testing.T) {
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_PORT", "1")
	t.Setenv("DB_NAME", "nonexistent")

	snapshotPath := filepath.Join(t.TempDir(), "snapshot.bin")
	doc := strings.ReplaceAll(testRequestDocument, "%s", snapshotPath)

	err := runMakeBase(strings.NewReader(doc), &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store:")
}
