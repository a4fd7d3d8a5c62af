// Package graph is an immutable weighted directed multigraph: vertices and
// edges are referred to by small integer ids, never by pointer, so a graph
// can be rebuilt deterministically from a snapshot. Built once by a single
// owner and read-only afterwards.
package graph

// VertexID identifies a vertex.
type VertexID uint32

// EdgeID identifies an edge, stable for the lifetime of the graph.
type EdgeID uint32

// Edge is a directed, weighted edge between two vertices.
type Edge struct {
	ID     EdgeID
	From   VertexID
	To     VertexID
	Weight float64
}

// Graph stores vertices 0..VertexCount()-1 and the edges added via AddEdge,
// indexed by id for O(1) lookup and by source vertex for O(1) adjacency
// traversal.
type Graph struct {
	vertexCount int
	edges       []Edge
	incident    [][]EdgeID // indexed by VertexID
}

// New returns a graph with vertexCount vertices and no edges.
func New(vertexCount int) *Graph {
	return &Graph{
		vertexCount: vertexCount,
		incident:    make([][]EdgeID, vertexCount),
	}
}

// AddEdge appends a new directed edge and returns its id. Multiple edges
// between the same pair of vertices are allowed.
func (g *Graph) AddEdge(from, to VertexID, weight float64) EdgeID {
	id := EdgeID(len(g.edges))
	g.edges = append(g.edges, Edge{ID: id, From: from, To: to, Weight: weight})
	g.incident[from] = append(g.incident[from], id)
	return id
}

// VertexCount returns the number of vertices.
func (g *Graph) VertexCount() int { return g.vertexCount }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Edge returns the edge with the given id.
func (g *Graph) Edge(id EdgeID) Edge { return g.edges[id] }

// IncidentEdges returns the ids of edges leaving v, in the order they were
// added.
func (g *Graph) IncidentEdges(v VertexID) []EdgeID {
	return g.incident[v]
}
