// Package router finds cheapest paths over a graph.Graph using Dijkstra's
// algorithm with a monotone priority queue, adapted from the A* open-set
// machinery the corpus uses elsewhere but simplified to a single
// non-negative fixed edge-cost model with no heuristic.
package router

import (
	"container/heap"

	"github.com/passbi/transit-catalogue/internal/graph"
)

// RouteInfo is the outcome of a shortest-path query: the total weight and
// the ordered edges traversed to reach the destination.
type RouteInfo struct {
	Weight  float64
	EdgeIDs []graph.EdgeID
}

// Router precomputes, on construction, the cheapest route from every
// vertex to every other reachable vertex.
type Router struct {
	g      *graph.Graph
	routes map[graph.VertexID]map[graph.VertexID]RouteInfo
}

// New runs Dijkstra from every vertex of g and returns a Router ready to
// answer route queries in O(1).
func New(g *graph.Graph) *Router {
	r := &Router{
		g:      g,
		routes: make(map[graph.VertexID]map[graph.VertexID]RouteInfo, g.VertexCount()),
	}
	for v := 0; v < g.VertexCount(); v++ {
		r.routes[graph.VertexID(v)] = dijkstraFrom(g, graph.VertexID(v))
	}
	return r
}

// Route returns the cheapest route from -> to, or ok=false if to is
// unreachable from from.
func (r *Router) Route(from, to graph.VertexID) (RouteInfo, bool) {
	byDest, ok := r.routes[from]
	if !ok {
		return RouteInfo{}, false
	}
	info, ok := byDest[to]
	return info, ok
}

// FromPrecomputed builds a Router directly from an already-computed
// per-source route table, skipping graph construction and Dijkstra. Used
// to rehydrate a router from a decoded snapshot.
func FromPrecomputed(routes map[graph.VertexID]map[graph.VertexID]RouteInfo) *Router {
	return &Router{routes: routes}
}

// AllRoutes exposes the full precomputed per-source route table, for a
// snapshot codec to persist.
func (r *Router) AllRoutes() map[graph.VertexID]map[graph.VertexID]RouteInfo {
	return r.routes
}

// entry is one element of the monotone priority queue: the running weight
// to reach vertex, the edges used so far, and a monotone sequence number
// so that equal-weight entries pop in the order they were pushed.
type entry struct {
	vertex  graph.VertexID
	weight  float64
	edgeIDs []graph.EdgeID
	seq     int
	index   int
}

type priorityQueue []*entry

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	if pq[i].weight != pq[j].weight {
		return pq[i].weight < pq[j].weight
	}
	return pq[i].seq < pq[j].seq
}

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *priorityQueue) Push(x interface{}) {
	e := x.(*entry)
	e.index = len(*pq)
	*pq = append(*pq, e)
}

func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*pq = old[:n-1]
	return e
}

// dijkstraFrom computes the cheapest route from source to every reachable
// vertex in g. Ties in accumulated weight break by the order routes were
// first discovered, so results are deterministic across runs.
func dijkstraFrom(g *graph.Graph, source graph.VertexID) map[graph.VertexID]RouteInfo {
	best := make(map[graph.VertexID]float64)
	result := make(map[graph.VertexID]RouteInfo)

	pq := &priorityQueue{}
	heap.Init(pq)

	seq := 0
	push := func(v graph.VertexID, weight float64, edgeIDs []graph.EdgeID) {
		heap.Push(pq, &entry{vertex: v, weight: weight, edgeIDs: edgeIDs, seq: seq})
		seq++
	}

	best[source] = 0
	result[source] = RouteInfo{Weight: 0, EdgeIDs: []graph.EdgeID{}}
	push(source, 0, nil)

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(*entry)

		if w, ok := best[cur.vertex]; ok && cur.weight > w {
			continue
		}

		for _, edgeID := range g.IncidentEdges(cur.vertex) {
			edge := g.Edge(edgeID)
			tentative := cur.weight + edge.Weight

			if existing, ok := best[edge.To]; ok && tentative >= existing {
				continue
			}

			newEdgeIDs := make([]graph.EdgeID, len(cur.edgeIDs)+1)
			copy(newEdgeIDs, cur.edgeIDs)
			newEdgeIDs[len(cur.edgeIDs)] = edgeID

			best[edge.To] = tentative
			result[edge.To] = RouteInfo{Weight: tentative, EdgeIDs: newEdgeIDs}
			push(edge.To, tentative, newEdgeIDs)
		}
	}

	return result
}
