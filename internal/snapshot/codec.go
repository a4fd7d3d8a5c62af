package snapshot

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"sort"

	"github.com/passbi/transit-catalogue/internal/catalogue"
	"github.com/passbi/transit-catalogue/internal/geo"
	"github.com/passbi/transit-catalogue/internal/graph"
	"github.com/passbi/transit-catalogue/internal/render"
	"github.com/passbi/transit-catalogue/internal/router"
	"github.com/passbi/transit-catalogue/internal/svgwriter"
	"github.com/passbi/transit-catalogue/internal/transportrouter"
)

// Decoded is everything a reload from a snapshot needs: the rehydrated
// catalogue, the render settings and the stop points the map renderer
// would have computed, and a router answering find-route queries directly
// from the precomputed tables (lazy mode — no graph rebuild).
type Decoded struct {
	Catalogue      *catalogue.Catalogue
	RenderSettings render.Settings
	StopPoints     map[string]svgwriter.Point
	Router         *transportrouter.Router
}

// Encode builds the complete binary snapshot for cat under renderSettings
// and routerSettings. It runs the live transport router once (Dijkstra
// from every vertex) to capture the precomputed tables that Decode will
// later index into directly.
func Encode(cat *catalogue.Catalogue, renderSettings render.Settings, routerSettings transportrouter.Settings) ([]byte, error) {
	rt, err := transportrouter.Build(cat, routerSettings)
	if err != nil {
		return nil, fmt.Errorf("snapshot: building router: %w", err)
	}

	var body bytes.Buffer
	if _, err := body.Write(magic[:]); err != nil {
		return nil, err
	}
	if err := writeUint32(&body, currentVersion); err != nil {
		return nil, err
	}

	stops := cat.AllStops()
	stopID := make(map[string]uint32, len(stops))
	if err := writeUint32(&body, uint32(len(stops))); err != nil {
		return nil, err
	}
	for i, s := range stops {
		stopID[s.Name] = uint32(i)
		if err := writeUint32(&body, uint32(i)); err != nil {
			return nil, err
		}
		if err := writeString(&body, s.Name); err != nil {
			return nil, err
		}
		if err := writeFloat64(&body, s.Coordinates.Lat); err != nil {
			return nil, err
		}
		if err := writeFloat64(&body, s.Coordinates.Lon); err != nil {
			return nil, err
		}
	}

	buses := cat.AllBuses()
	busID := make(map[string]uint32, len(buses))
	if err := writeUint32(&body, uint32(len(buses))); err != nil {
		return nil, err
	}
	for i, b := range buses {
		busID[b.Name] = uint32(i)
		if err := writeUint32(&body, uint32(i)); err != nil {
			return nil, err
		}
		if err := writeString(&body, b.Name); err != nil {
			return nil, err
		}
		if err := writeBool(&body, b.IsRoundtrip); err != nil {
			return nil, err
		}
		if err := writeUint32(&body, uint32(len(b.Stops))); err != nil {
			return nil, err
		}
		for _, stopName := range b.Stops {
			if err := writeUint32(&body, stopID[stopName]); err != nil {
				return nil, err
			}
		}
	}

	distances := cat.AllDistances()
	if err := writeUint32(&body, uint32(len(distances))); err != nil {
		return nil, err
	}
	for _, d := range distances {
		if err := writeUint32(&body, stopID[d.From]); err != nil {
			return nil, err
		}
		if err := writeUint32(&body, stopID[d.To]); err != nil {
			return nil, err
		}
		if err := writeUint32(&body, uint32(d.Meters)); err != nil {
			return nil, err
		}
	}

	if err := writeRenderSettings(&body, renderSettings); err != nil {
		return nil, err
	}

	names, stopPoints := render.ProjectStops(cat, renderSettings)
	if err := writeUint32(&body, uint32(len(names))); err != nil {
		return nil, err
	}
	for _, name := range names {
		p := stopPoints[name]
		if err := writeUint32(&body, stopID[name]); err != nil {
			return nil, err
		}
		if err := writeFloat64(&body, p.X); err != nil {
			return nil, err
		}
		if err := writeFloat64(&body, p.Y); err != nil {
			return nil, err
		}
	}

	if err := writeRouterData(&body, rt, routerSettings, stopID, busID); err != nil {
		return nil, err
	}

	checksum := crc32.ChecksumIEEE(body.Bytes())
	if err := writeUint32(&body, checksum); err != nil {
		return nil, err
	}

	return body.Bytes(), nil
}

func writeRenderSettings(w io.Writer, s render.Settings) error {
	for _, v := range []float64{s.Width, s.Height, s.Padding, s.LineWidth, s.StopRadius} {
		if err := writeFloat64(w, v); err != nil {
			return err
		}
	}
	if err := writeInt32(w, int32(s.BusLabelFontSize)); err != nil {
		return err
	}
	if err := writeInt32(w, int32(s.StopLabelFontSize)); err != nil {
		return err
	}
	for _, p := range []svgwriter.Point{s.BusLabelOffset, s.StopLabelOffset} {
		if err := writeFloat64(w, p.X); err != nil {
			return err
		}
		if err := writeFloat64(w, p.Y); err != nil {
			return err
		}
	}
	if err := writeColor(w, s.UnderlayerColor); err != nil {
		return err
	}
	if err := writeFloat64(w, s.UnderlayerWidth); err != nil {
		return err
	}
	if err := writeUint32(w, uint32(len(s.Palette))); err != nil {
		return err
	}
	for _, c := range s.Palette {
		if err := writeColor(w, c); err != nil {
			return err
		}
	}
	return nil
}

func readRenderSettings(r io.Reader) (render.Settings, error) {
	var s render.Settings
	vals := make([]float64, 5)
	for i := range vals {
		v, err := readFloat64(r)
		if err != nil {
			return render.Settings{}, err
		}
		vals[i] = v
	}
	s.Width, s.Height, s.Padding, s.LineWidth, s.StopRadius = vals[0], vals[1], vals[2], vals[3], vals[4]

	busFontSize, err := readInt32(r)
	if err != nil {
		return render.Settings{}, err
	}
	stopFontSize, err := readInt32(r)
	if err != nil {
		return render.Settings{}, err
	}
	s.BusLabelFontSize = int(busFontSize)
	s.StopLabelFontSize = int(stopFontSize)

	busOffsetX, err := readFloat64(r)
	if err != nil {
		return render.Settings{}, err
	}
	busOffsetY, err := readFloat64(r)
	if err != nil {
		return render.Settings{}, err
	}
	s.BusLabelOffset = svgwriter.Point{X: busOffsetX, Y: busOffsetY}

	stopOffsetX, err := readFloat64(r)
	if err != nil {
		return render.Settings{}, err
	}
	stopOffsetY, err := readFloat64(r)
	if err != nil {
		return render.Settings{}, err
	}
	s.StopLabelOffset = svgwriter.Point{X: stopOffsetX, Y: stopOffsetY}

	underlayer, err := readColor(r)
	if err != nil {
		return render.Settings{}, err
	}
	s.UnderlayerColor = underlayer

	underlayerWidth, err := readFloat64(r)
	if err != nil {
		return render.Settings{}, err
	}
	s.UnderlayerWidth = underlayerWidth

	paletteCount, err := readUint32(r)
	if err != nil {
		return render.Settings{}, err
	}
	s.Palette = make([]svgwriter.Color, paletteCount)
	for i := range s.Palette {
		c, err := readColor(r)
		if err != nil {
			return render.Settings{}, err
		}
		s.Palette[i] = c
	}

	return s, nil
}

func writeRouterData(w io.Writer, rt *transportrouter.Router, settings transportrouter.Settings, stopID, busID map[string]uint32) error {
	if err := writeFloat64(w, settings.WaitTime); err != nil {
		return err
	}
	if err := writeFloat64(w, settings.BusVelocityKmH); err != nil {
		return err
	}

	stopToVertex := rt.StopToVertex()
	vertexToStop := make([]string, len(stopToVertex))
	for name, v := range stopToVertex {
		vertexToStop[v] = name
	}
	if err := writeUint32(w, uint32(len(vertexToStop))); err != nil {
		return err
	}
	for _, name := range vertexToStop {
		if err := writeUint32(w, stopID[name]); err != nil {
			return err
		}
	}

	edgeMeta := rt.EdgeMetaTable()
	edgeIDs := make([]graph.EdgeID, 0, len(edgeMeta))
	for id := range edgeMeta {
		edgeIDs = append(edgeIDs, id)
	}
	sort.Slice(edgeIDs, func(i, j int) bool { return edgeIDs[i] < edgeIDs[j] })

	if err := writeUint32(w, uint32(len(edgeIDs))); err != nil {
		return err
	}
	for _, id := range edgeIDs {
		m := edgeMeta[id]
		if err := writeUint32(w, uint32(id)); err != nil {
			return err
		}
		if err := writeUint32(w, stopID[m.FromStop]); err != nil {
			return err
		}
		if err := writeUint32(w, busID[m.Bus]); err != nil {
			return err
		}
		if err := writeFloat64(w, m.Weight); err != nil {
			return err
		}
		if err := writeUint32(w, uint32(m.SpanCount)); err != nil {
			return err
		}
	}

	allRoutes := rt.AllRoutes()
	type routeRecord struct {
		from, to graph.VertexID
		info     router.RouteInfo
	}
	records := make([]routeRecord, 0)
	for from, byDest := range allRoutes {
		for to, info := range byDest {
			records = append(records, routeRecord{from: from, to: to, info: info})
		}
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].from != records[j].from {
			return records[i].from < records[j].from
		}
		return records[i].to < records[j].to
	})

	if err := writeUint32(w, uint32(len(records))); err != nil {
		return err
	}
	for _, rec := range records {
		if err := writeUint32(w, uint32(rec.from)); err != nil {
			return err
		}
		if err := writeUint32(w, uint32(rec.to)); err != nil {
			return err
		}
		if err := writeFloat64(w, rec.info.Weight); err != nil {
			return err
		}
		if err := writeUint32(w, uint32(len(rec.info.EdgeIDs))); err != nil {
			return err
		}
		for _, eid := range rec.info.EdgeIDs {
			if err := writeUint32(w, uint32(eid)); err != nil {
				return err
			}
		}
	}

	return nil
}

// Decode parses a complete snapshot stream, validating magic, version and
// checksum before rehydrating the catalogue and router. Any structural
// problem — bad magic, version mismatch, truncation, or a checksum
// mismatch — is returned as an error; no partial state is ever handed
// back.
func Decode(r io.Reader) (*Decoded, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, wrapTruncation(err)
	}
	if len(raw) < 4+4+4 {
		return nil, fmt.Errorf("%w: stream too short", ErrTruncated)
	}

	body, checksumBytes := raw[:len(raw)-4], raw[len(raw)-4:]
	wantChecksum := binary.BigEndian.Uint32(checksumBytes)
	if crc32.ChecksumIEEE(body) != wantChecksum {
		return nil, ErrChecksumMismatch
	}

	br := bytes.NewReader(body)

	var gotMagic [4]byte
	if _, err := io.ReadFull(br, gotMagic[:]); err != nil {
		return nil, wrapTruncation(err)
	}
	if gotMagic != magic {
		return nil, ErrBadMagic
	}

	version, err := readUint32(br)
	if err != nil {
		return nil, err
	}
	if version != currentVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrVersionMismatch, version, currentVersion)
	}

	cat := catalogue.New()

	stopCount, err := readUint32(br)
	if err != nil {
		return nil, err
	}
	stopByID := make([]string, stopCount)
	for i := uint32(0); i < stopCount; i++ {
		id, err := readUint32(br)
		if err != nil {
			return nil, err
		}
		name, err := readString(br)
		if err != nil {
			return nil, err
		}
		lat, err := readFloat64(br)
		if err != nil {
			return nil, err
		}
		lon, err := readFloat64(br)
		if err != nil {
			return nil, err
		}
		if id >= stopCount {
			return nil, fmt.Errorf("snapshot: stop id %d out of range", id)
		}
		stopByID[id] = name
		cat.AddStop(name, geo.Coordinates{Lat: lat, Lon: lon}, nil)
	}

	busCount, err := readUint32(br)
	if err != nil {
		return nil, err
	}
	busByID := make([]string, busCount)
	busStops := make([][]string, busCount)
	busRoundtrip := make([]bool, busCount)
	for i := uint32(0); i < busCount; i++ {
		id, err := readUint32(br)
		if err != nil {
			return nil, err
		}
		name, err := readString(br)
		if err != nil {
			return nil, err
		}
		isRoundtrip, err := readBool(br)
		if err != nil {
			return nil, err
		}
		stopIDCount, err := readUint32(br)
		if err != nil {
			return nil, err
		}
		stops := make([]string, stopIDCount)
		for j := uint32(0); j < stopIDCount; j++ {
			sid, err := readUint32(br)
			if err != nil {
				return nil, err
			}
			if sid >= stopCount {
				return nil, fmt.Errorf("snapshot: bus %q references out-of-range stop id %d", name, sid)
			}
			stops[j] = stopByID[sid]
		}
		if id >= busCount {
			return nil, fmt.Errorf("snapshot: bus id %d out of range", id)
		}
		busByID[id] = name
		busStops[id] = stops
		busRoundtrip[id] = isRoundtrip
	}
	for id := uint32(0); id < busCount; id++ {
		cat.LoadBus(busByID[id], busStops[id], busRoundtrip[id])
	}

	distCount, err := readUint32(br)
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < distCount; i++ {
		fromID, err := readUint32(br)
		if err != nil {
			return nil, err
		}
		toID, err := readUint32(br)
		if err != nil {
			return nil, err
		}
		meters, err := readUint32(br)
		if err != nil {
			return nil, err
		}
		if fromID >= stopCount || toID >= stopCount {
			return nil, fmt.Errorf("snapshot: distance references out-of-range stop id")
		}
		cat.LoadDistance(stopByID[fromID], stopByID[toID], int(meters))
	}

	renderSettings, err := readRenderSettings(br)
	if err != nil {
		return nil, err
	}

	stopPointCount, err := readUint32(br)
	if err != nil {
		return nil, err
	}
	stopPoints := make(map[string]svgwriter.Point, stopPointCount)
	for i := uint32(0); i < stopPointCount; i++ {
		sid, err := readUint32(br)
		if err != nil {
			return nil, err
		}
		x, err := readFloat64(br)
		if err != nil {
			return nil, err
		}
		y, err := readFloat64(br)
		if err != nil {
			return nil, err
		}
		if sid >= stopCount {
			return nil, fmt.Errorf("snapshot: stop point references out-of-range stop id %d", sid)
		}
		stopPoints[stopByID[sid]] = svgwriter.Point{X: x, Y: y}
	}

	rt, err := readRouterData(br, stopByID, busByID)
	if err != nil {
		return nil, err
	}

	return &Decoded{
		Catalogue:      cat,
		RenderSettings: renderSettings,
		StopPoints:     stopPoints,
		Router:         rt,
	}, nil
}

func readRouterData(r io.Reader, stopByID, busByID []string) (*transportrouter.Router, error) {
	waitTime, err := readFloat64(r)
	if err != nil {
		return nil, err
	}
	busVelocity, err := readFloat64(r)
	if err != nil {
		return nil, err
	}
	settings := transportrouter.Settings{WaitTime: waitTime, BusVelocityKmH: busVelocity}

	vertexCount, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	stopToVertex := make(map[string]graph.VertexID, vertexCount)
	for v := uint32(0); v < vertexCount; v++ {
		sid, err := readUint32(r)
		if err != nil {
			return nil, err
		}
		if int(sid) >= len(stopByID) {
			return nil, fmt.Errorf("snapshot: vertex %d references out-of-range stop id %d", v, sid)
		}
		stopToVertex[stopByID[sid]] = graph.VertexID(v)
	}

	edgeCount, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	edgeMeta := make(map[graph.EdgeID]transportrouter.EdgeMeta, edgeCount)
	for i := uint32(0); i < edgeCount; i++ {
		edgeID, err := readUint32(r)
		if err != nil {
			return nil, err
		}
		fromStopID, err := readUint32(r)
		if err != nil {
			return nil, err
		}
		busIDVal, err := readUint32(r)
		if err != nil {
			return nil, err
		}
		weight, err := readFloat64(r)
		if err != nil {
			return nil, err
		}
		spanCount, err := readUint32(r)
		if err != nil {
			return nil, err
		}
		if int(fromStopID) >= len(stopByID) || int(busIDVal) >= len(busByID) {
			return nil, fmt.Errorf("snapshot: edge %d references out-of-range stop/bus id", edgeID)
		}
		edgeMeta[graph.EdgeID(edgeID)] = transportrouter.EdgeMeta{
			Bus:       busByID[busIDVal],
			SpanCount: int(spanCount),
			FromStop:  stopByID[fromStopID],
			Weight:    weight,
		}
	}

	routeCount, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	routes := make(map[graph.VertexID]map[graph.VertexID]router.RouteInfo)
	for i := uint32(0); i < routeCount; i++ {
		fromVertex, err := readUint32(r)
		if err != nil {
			return nil, err
		}
		toVertex, err := readUint32(r)
		if err != nil {
			return nil, err
		}
		weight, err := readFloat64(r)
		if err != nil {
			return nil, err
		}
		edgeIDCount, err := readUint32(r)
		if err != nil {
			return nil, err
		}
		edgeIDs := make([]graph.EdgeID, edgeIDCount)
		for j := uint32(0); j < edgeIDCount; j++ {
			eid, err := readUint32(r)
			if err != nil {
				return nil, err
			}
			edgeIDs[j] = graph.EdgeID(eid)
		}
		byDest, ok := routes[graph.VertexID(fromVertex)]
		if !ok {
			byDest = make(map[graph.VertexID]router.RouteInfo)
			routes[graph.VertexID(fromVertex)] = byDest
		}
		byDest[graph.VertexID(toVertex)] = router.RouteInfo{Weight: weight, EdgeIDs: edgeIDs}
	}

	return transportrouter.FromPrecomputed(settings, stopToVertex, edgeMeta, routes), nil
}
