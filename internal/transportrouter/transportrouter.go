// Package transportrouter builds a graph.Graph + router.Router from a
// catalogue and answers human-facing route queries by decomposing the
// cheapest path into alternating wait/ride items.
package transportrouter

import (
	"fmt"

	"github.com/passbi/transit-catalogue/internal/catalogue"
	"github.com/passbi/transit-catalogue/internal/graph"
	"github.com/passbi/transit-catalogue/internal/router"
)

// Settings are the two knobs that turn road distance into travel time.
type Settings struct {
	WaitTime       float64 // minutes added at every boarding
	BusVelocityKmH float64
}

// ItemKind tags the arm of a RouteItem.
type ItemKind int

const (
	// ItemWait is time spent waiting to board at a stop.
	ItemWait ItemKind = iota
	// ItemBus is time spent riding a bus across one or more spans.
	ItemBus
)

// RouteItem is one leg of a decomposed route: either a Wait at a stop or a
// Bus ride covering SpanCount consecutive stops.
type RouteItem struct {
	Kind      ItemKind
	Stop      string // set for ItemWait
	Bus       string // set for ItemBus
	SpanCount int    // set for ItemBus
	Time      float64
}

// RouteResult is the answer to a route query.
type RouteResult struct {
	TotalTime float64
	Items     []RouteItem
}

// EdgeMeta is the information needed to rehydrate a graph edge into a
// Wait/Bus item pair. Exported so a snapshot codec can persist and restore
// it without rebuilding the graph.
type EdgeMeta struct {
	Bus       string
	SpanCount int
	FromStop  string
	Weight    float64
}

// Router answers find-route queries in O(1) after construction.
type Router struct {
	settings     Settings
	stopToVertex map[string]graph.VertexID
	g            *graph.Graph
	rt           *router.Router
	edgeMeta     map[graph.EdgeID]EdgeMeta
}

// Build constructs the graph and precomputes all-pairs shortest routes.
// Vertex ids are assigned in catalogue.StopsUsed order. Edges run over
// every (i,j), i<j, pair of a bus's stored stop sequence, weighted by
// wait_time plus the cumulative road distance converted to minutes at
// settings.BusVelocityKmH. Returns an error if the catalogue has a
// consecutive stop pair with no recorded road distance in either
// direction — an internal inconsistency, not a query-time condition.
func Build(cat *catalogue.Catalogue, settings Settings) (*Router, error) {
	stopsUsed := cat.StopsUsed()

	stopToVertex := make(map[string]graph.VertexID, len(stopsUsed))
	for i, name := range stopsUsed {
		stopToVertex[name] = graph.VertexID(i)
	}

	g := graph.New(len(stopsUsed))
	meta := make(map[graph.EdgeID]EdgeMeta)

	metersPerMinute := settings.BusVelocityKmH * 1000 / 60

	for _, bus := range cat.BusesForRender() {
		stops := bus.Stops
		for i := 0; i < len(stops); i++ {
			cumulative := 0
			for j := i + 1; j < len(stops); j++ {
				dist, err := cat.Distance(stops[j-1], stops[j])
				if err != nil {
					return nil, fmt.Errorf("bus %q span %d-%d: %w", bus.Name, i, j, err)
				}
				cumulative += dist

				weight := settings.WaitTime + float64(cumulative)/metersPerMinute
				fromV := stopToVertex[stops[i]]
				toV := stopToVertex[stops[j]]
				edgeID := g.AddEdge(fromV, toV, weight)
				meta[edgeID] = EdgeMeta{
					Bus:       bus.Name,
					SpanCount: j - i,
					FromStop:  stops[i],
					Weight:    weight,
				}
			}
		}
	}

	return &Router{
		settings:     settings,
		stopToVertex: stopToVertex,
		g:            g,
		rt:           router.New(g),
		edgeMeta:     meta,
	}, nil
}

// FromPrecomputed reconstructs a Router directly from already-computed
// per-source route tables and edge metadata, without rebuilding the graph
// or re-running Dijkstra. This is lazy mode: the data came from a decoded
// snapshot.
func FromPrecomputed(settings Settings, stopToVertex map[string]graph.VertexID, edgeMeta map[graph.EdgeID]EdgeMeta, routes map[graph.VertexID]map[graph.VertexID]router.RouteInfo) *Router {
	return &Router{
		settings:     settings,
		stopToVertex: stopToVertex,
		rt:           router.FromPrecomputed(routes),
		edgeMeta:     edgeMeta,
	}
}

// StopToVertex exposes the stop-name-to-vertex-id assignment, for a
// snapshot codec to persist.
func (r *Router) StopToVertex() map[string]graph.VertexID { return r.stopToVertex }

// EdgeMetaTable exposes the per-edge metadata, for a snapshot codec to
// persist.
func (r *Router) EdgeMetaTable() map[graph.EdgeID]EdgeMeta { return r.edgeMeta }

// Settings exposes the wait-time/velocity configuration the router was
// built with.
func (r *Router) Settings() Settings { return r.settings }

// AllRoutes exposes the full precomputed per-source route table, for a
// snapshot codec to persist.
func (r *Router) AllRoutes() map[graph.VertexID]map[graph.VertexID]router.RouteInfo {
	return r.rt.AllRoutes()
}

// FindRoute returns the cheapest route from -> to, or ok=false if either
// stop is unused by any bus or no path connects them. from == to always
// succeeds with a zero-item, zero-time result.
func (r *Router) FindRoute(from, to string) (RouteResult, bool) {
	if from == to {
		return RouteResult{Items: []RouteItem{}}, true
	}

	fv, ok := r.stopToVertex[from]
	if !ok {
		return RouteResult{}, false
	}
	tv, ok := r.stopToVertex[to]
	if !ok {
		return RouteResult{}, false
	}

	info, ok := r.rt.Route(fv, tv)
	if !ok {
		return RouteResult{}, false
	}

	items := make([]RouteItem, 0, len(info.EdgeIDs)*2)
	var total float64
	for _, edgeID := range info.EdgeIDs {
		m := r.edgeMeta[edgeID]
		busTime := m.Weight - r.settings.WaitTime

		items = append(items, RouteItem{Kind: ItemWait, Stop: m.FromStop, Time: r.settings.WaitTime})
		items = append(items, RouteItem{Kind: ItemBus, Bus: m.Bus, SpanCount: m.SpanCount, Time: busTime})
		total += r.settings.WaitTime + busTime
	}

	return RouteResult{TotalTime: total, Items: items}, true
}
