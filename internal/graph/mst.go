package graph

import (
	"errors"
	"math"

	"portfolio-stress-lab/internal/domain"
)

var (
	// ErrNoNodes is returned when MST extraction is requested on an
	// empty graph.
	ErrNoNodes = errors.New("graph has no nodes")

	// ErrDisconnected is returned when the graph does not span all
	// nodes. Cannot happen for graphs built by BuildComplete.
	ErrDisconnected = errors.New("graph is not connected")
)

// MinimumSpanningTree extracts an MST with Prim's algorithm: n-1 edges,
// connected, acyclic. Ties in edge weight are broken by lowest node
// index, so the result is deterministic — but any valid MST would be an
// acceptable layout skeleton.
func MinimumSpanningTree(g domain.Graph) (domain.Graph, error) {
	n := g.NodeCount()
	if n == 0 {
		return domain.Graph{}, ErrNoNodes
	}

	tree := domain.Graph{Nodes: append([]string(nil), g.Nodes...)}
	if n == 1 {
		return tree, nil
	}

	// Adjacency weights; keep the lighter edge on duplicates.
	weights := make([][]float64, n)
	for i := range weights {
		weights[i] = make([]float64, n)
		for j := range weights[i] {
			weights[i][j] = math.Inf(1)
		}
	}
	for _, e := range g.Edges {
		if e.Weight < weights[e.A][e.B] {
			weights[e.A][e.B] = e.Weight
			weights[e.B][e.A] = e.Weight
		}
	}

	inTree := make([]bool, n)
	best := make([]float64, n)     // cheapest edge weight into the tree
	bestFrom := make([]int, n)     // tree endpoint of that edge
	for i := range best {
		best[i] = math.Inf(1)
		bestFrom[i] = -1
	}

	inTree[0] = true
	for j := 1; j < n; j++ {
		best[j] = weights[0][j]
		bestFrom[j] = 0
	}

	for added := 1; added < n; added++ {
		next := -1
		for j := 0; j < n; j++ {
			if inTree[j] {
				continue
			}
			if next == -1 || best[j] < best[next] {
				next = j
			}
		}
		if next == -1 || math.IsInf(best[next], 1) {
			return domain.Graph{}, ErrDisconnected
		}

		a, b := bestFrom[next], next
		if a > b {
			a, b = b, a
		}
		tree.Edges = append(tree.Edges, domain.Edge{A: a, B: b, Weight: weights[a][b]})
		inTree[next] = true

		for j := 0; j < n; j++ {
			if !inTree[j] && weights[next][j] < best[j] {
				best[j] = weights[next][j]
				bestFrom[j] = next
			}
		}
	}

	return tree, nil
}
