// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package graphs builds small weighted graphs and derives their matrix
// representations and shortest paths.
package graphs

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/mat"

	"github.com/pdiddy/dataset-engine/internal/frame"
	"github.com/pdiddy/dataset-engine/internal/sparse"
)

// Graph is an undirected weighted graph with string node labels, backed
// by a gonum simple graph. Self loops are not allowed.
type Graph struct {
	g      *simple.WeightedUndirectedGraph
	ids    map[string]int64
	labels map[int64]string
	nextID int64
}

// Edge is one undirected edge with its endpoints in label order.
type Edge struct {
	From   string
	To     string
	Weight float64
}

// New returns an empty graph. Absent edges and self pairs read as
// weight 0 in the adjacency matrix.
func New() *Graph {
	return &Graph{
		g:      simple.NewWeightedUndirectedGraph(0, 0),
		ids:    make(map[string]int64),
		labels: make(map[int64]string),
	}
}

// AddNode ensures a node with the given label exists.
func (g *Graph) AddNode(label string) {
	g.nodeID(label)
}

func (g *Graph) nodeID(label string) int64 {
	if id, ok := g.ids[label]; ok {
		return id
	}
	id := g.nextID
	g.nextID++
	g.g.AddNode(simple.Node(id))
	g.ids[label] = id
	g.labels[id] = label
	return id
}

// AddEdge connects a and b with the given weight, creating the nodes as
// needed. Re-adding an existing pair replaces the weight.
func (g *Graph) AddEdge(a, b string, w float64) error {
	if a == b {
		return fmt.Errorf("self loop on %q", a)
	}
	ida, idb := g.nodeID(a), g.nodeID(b)
	g.g.SetWeightedEdge(simple.WeightedEdge{F: simple.Node(ida), T: simple.Node(idb), W: w})
	return nil
}

// Nodes returns all labels in sorted order.
func (g *Graph) Nodes() []string {
	out := make([]string, 0, len(g.ids))
	for label := range g.ids {
		out = append(out, label)
	}
	sort.Strings(out)
	return out
}

// Edges returns all edges with endpoints in label order, sorted by
// endpoint pair.
func (g *Graph) Edges() []Edge {
	var out []Edge
	it := g.g.WeightedEdges()
	for it.Next() {
		e := it.WeightedEdge()
		a, b := g.labels[e.From().ID()], g.labels[e.To().ID()]
		if a > b {
			a, b = b, a
		}
		out = append(out, Edge{From: a, To: b, Weight: e.Weight()})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		return out[i].To < out[j].To
	})
	return out
}

// Order returns the number of nodes.
func (g *Graph) Order() int { return len(g.ids) }

// Size returns the number of edges.
func (g *Graph) Size() int { return g.g.Edges().Len() }

// Density returns edges over squared nodes.
func (g *Graph) Density() float64 {
	n := g.Order()
	if n == 0 {
		return 0
	}
	return float64(g.Size()) / (float64(n) * float64(n))
}

// HasEdge reports whether a and b are connected.
func (g *Graph) HasEdge(a, b string) bool {
	ida, oka := g.ids[a]
	idb, okb := g.ids[b]
	if !oka || !okb || ida == idb {
		return false
	}
	return g.g.HasEdgeBetween(ida, idb)
}

// Degree returns the number of neighbors of the labeled node.
func (g *Graph) Degree(label string) int {
	id, ok := g.ids[label]
	if !ok {
		return 0
	}
	return g.g.From(id).Len()
}

// positions maps each label to its row in matrix representations,
// following sorted label order.
func (g *Graph) positions() ([]string, map[string]int) {
	nodes := g.Nodes()
	pos := make(map[string]int, len(nodes))
	for i, label := range nodes {
		pos[label] = i
	}
	return nodes, pos
}

// Adjacency returns the symmetric weighted adjacency matrix with rows
// and columns in sorted label order.
func (g *Graph) Adjacency() *mat.Dense {
	nodes, pos := g.positions()
	d := mat.NewDense(len(nodes), len(nodes), nil)
	for _, e := range g.Edges() {
		i, j := pos[e.From], pos[e.To]
		d.Set(i, j, e.Weight)
		d.Set(j, i, e.Weight)
	}
	return d
}

// AdjacencyCSR returns the adjacency matrix in compressed sparse row
// form.
func (g *Graph) AdjacencyCSR() *sparse.CSR {
	nodes, pos := g.positions()
	coo := sparse.NewCOO(len(nodes), len(nodes))
	for _, e := range g.Edges() {
		i, j := pos[e.From], pos[e.To]
		coo.Append(i, j, e.Weight)
		coo.Append(j, i, e.Weight)
	}
	return coo.ToCSR()
}

// Incidence returns the oriented node by edge incidence matrix. Each
// edge column carries +1 at its lower label endpoint and -1 at the
// higher one, with edges in Edges() order. It panics when the graph has
// no nodes or no edges.
func (g *Graph) Incidence() *mat.Dense {
	_, pos := g.positions()
	edges := g.Edges()
	d := mat.NewDense(g.Order(), len(edges), nil)
	for k, e := range edges {
		d.Set(pos[e.From], k, 1)
		d.Set(pos[e.To], k, -1)
	}
	return d
}

// Laplacian returns the unweighted graph Laplacian, the product of the
// oriented incidence matrix with its transpose.
func (g *Graph) Laplacian() *mat.Dense {
	d := g.Incidence()
	var l mat.Dense
	l.Mul(d, d.T())
	return &l
}

// ShortestPath returns the minimum weight path between two labels and
// its total weight, using Dijkstra's algorithm.
func (g *Graph) ShortestPath(from, to string) ([]string, float64, error) {
	idFrom, ok := g.ids[from]
	if !ok {
		return nil, 0, fmt.Errorf("unknown node %q", from)
	}
	idTo, ok := g.ids[to]
	if !ok {
		return nil, 0, fmt.Errorf("unknown node %q", to)
	}
	shortest := path.DijkstraFrom(g.g.Node(idFrom), g.g)
	nodes, weight := shortest.To(idTo)
	if math.IsInf(weight, 1) {
		return nil, 0, fmt.Errorf("no path from %q to %q", from, to)
	}
	labels := make([]string, len(nodes))
	for i, n := range nodes {
		labels[i] = g.labels[n.ID()]
	}
	return labels, weight, nil
}

// FromEdgeList builds a graph from a frame with one edge per row. When
// wCol is empty every edge has weight 1. Rows with a missing endpoint,
// a missing weight or identical endpoints are skipped; the count of
// skipped rows is returned.
func FromEdgeList(f *frame.Frame, srcCol, dstCol, wCol string) (*Graph, int, error) {
	for _, col := range []string{srcCol, dstCol} {
		if f.Column(col) == nil {
			return nil, 0, fmt.Errorf("%w: %q", frame.ErrUnknownColumn, col)
		}
	}
	if wCol != "" && f.Column(wCol) == nil {
		return nil, 0, fmt.Errorf("%w: %q", frame.ErrUnknownColumn, wCol)
	}

	g := New()
	skipped := 0
	f.Each(func(r frame.Row) {
		src := r.Render(srcCol, "")
		dst := r.Render(dstCol, "")
		if src == "" || dst == "" || src == dst {
			skipped++
			return
		}
		w := 1.0
		if wCol != "" {
			v, ok := r.Float(wCol)
			if !ok {
				skipped++
				return
			}
			w = v
		}
		g.AddEdge(src, dst, w)
	})
	return g, skipped, nil
}
