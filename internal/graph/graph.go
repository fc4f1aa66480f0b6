package graph

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"portfolio-stress-lab/internal/domain"
)

// BuildComplete builds the complete weighted graph over the named nodes
// from a distance matrix: no self-loops, each unordered pair exactly
// once (A < B).
func BuildComplete(names []string, dist *mat.SymDense) (domain.Graph, error) {
	n := len(names)
	if dist.SymmetricDim() != n {
		return domain.Graph{}, fmt.Errorf("distance matrix is %dx%d for %d nodes",
			dist.SymmetricDim(), dist.SymmetricDim(), n)
	}

	g := domain.Graph{Nodes: append([]string(nil), names...)}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			g.Edges = append(g.Edges, domain.Edge{A: i, B: j, Weight: dist.At(i, j)})
		}
	}
	return g, nil
}

// WithReference augments the graph with a synthetic benchmark node
// connected to every existing node by a precomputed reference distance.
// refDist[i] is the distance from node i to the reference.
func WithReference(g domain.Graph, name string, refDist []float64) (domain.Graph, error) {
	if len(refDist) != len(g.Nodes) {
		return domain.Graph{}, fmt.Errorf("got %d reference distances for %d nodes",
			len(refDist), len(g.Nodes))
	}

	out := domain.Graph{
		Nodes: append(append([]string(nil), g.Nodes...), name),
		Edges: append([]domain.Edge(nil), g.Edges...),
	}
	ref := len(g.Nodes)
	for i, d := range refDist {
		out.Edges = append(out.Edges, domain.Edge{A: i, B: ref, Weight: d})
	}
	return out, nil
}
