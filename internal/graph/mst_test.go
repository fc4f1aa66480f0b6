package graph

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"portfolio-stress-lab/internal/domain"
)

func TestDistanceFromCorrelation_Metric(t *testing.T) {
	corr := mat.NewSymDense(3, nil)
	corr.SetSym(0, 0, 1)
	corr.SetSym(1, 1, 1)
	corr.SetSym(2, 2, 1)
	corr.SetSym(0, 1, 1)  // identical -> distance 0
	corr.SetSym(0, 2, -1) // opposite  -> distance 2
	corr.SetSym(1, 2, 0.5)

	d := DistanceFromCorrelation(corr)

	if v := d.At(0, 1); v != 0 {
		t.Errorf("rho=1: expected distance 0, got %v", v)
	}
	if v := d.At(0, 2); math.Abs(v-2) > 1e-9 {
		t.Errorf("rho=-1: expected distance 2, got %v", v)
	}
	if v := d.At(1, 2); math.Abs(v-1) > 1e-9 {
		t.Errorf("rho=0.5: expected distance 1, got %v", v)
	}
	if d.At(1, 2) != d.At(2, 1) {
		t.Error("distance matrix not symmetric")
	}
}

func TestDistanceFromCorrelation_ClampsFloatNoise(t *testing.T) {
	corr := mat.NewSymDense(2, nil)
	corr.SetSym(0, 1, 1+1e-12) // rho marginally above 1 from float noise

	d := DistanceFromCorrelation(corr)
	if v := d.At(0, 1); v != 0 || math.IsNaN(v) {
		t.Errorf("expected clamped 0, got %v", v)
	}
}

func TestDistanceFromValues_AbsoluteDelta(t *testing.T) {
	d := DistanceFromValues([]float64{1.0, 4.0, 2.5})

	if v := d.At(0, 1); v != 3.0 {
		t.Errorf("expected |1-4| = 3, got %v", v)
	}
	if v := d.At(1, 2); v != 1.5 {
		t.Errorf("expected |4-2.5| = 1.5, got %v", v)
	}
}

func TestBuildComplete_PairsOnceNoSelfLoops(t *testing.T) {
	d := DistanceFromValues([]float64{0, 1, 2, 3})
	g, err := BuildComplete([]string{"a", "b", "c", "d"}, d)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	// C(4,2) = 6 edges
	if len(g.Edges) != 6 {
		t.Fatalf("expected 6 edges, got %d", len(g.Edges))
	}
	seen := make(map[[2]int]bool)
	for _, e := range g.Edges {
		if e.A == e.B {
			t.Errorf("self-loop on node %d", e.A)
		}
		if e.A > e.B {
			t.Errorf("edge (%d,%d) not normalized A < B", e.A, e.B)
		}
		key := [2]int{e.A, e.B}
		if seen[key] {
			t.Errorf("duplicate edge (%d,%d)", e.A, e.B)
		}
		seen[key] = true
	}
}

func TestBuildComplete_DimensionMismatch(t *testing.T) {
	d := DistanceFromValues([]float64{0, 1})
	if _, err := BuildComplete([]string{"a", "b", "c"}, d); err == nil {
		t.Fatal("expected dimension mismatch error")
	}
}

func TestMinimumSpanningTree_EdgeCountConnectedAcyclic(t *testing.T) {
	for _, n := range []int{2, 3, 5, 8} {
		values := make([]float64, n)
		names := make([]string, n)
		for i := range values {
			values[i] = float64(i * i % 7)
			names[i] = string(rune('a' + i))
		}
		g, err := BuildComplete(names, DistanceFromValues(values))
		if err != nil {
			t.Fatalf("n=%d build: %v", n, err)
		}

		tree, err := MinimumSpanningTree(g)
		if err != nil {
			t.Fatalf("n=%d mst: %v", n, err)
		}
		if len(tree.Edges) != n-1 {
			t.Errorf("n=%d: expected %d edges, got %d", n, n-1, len(tree.Edges))
		}
		assertSpanning(t, tree)
	}
}

func TestMinimumSpanningTree_PicksMinimumWeight(t *testing.T) {
	// Triangle with weights 1, 2, 3: the MST is the {1, 2} pair.
	g := domain.Graph{
		Nodes: []string{"a", "b", "c"},
		Edges: []domain.Edge{
			{A: 0, B: 1, Weight: 1},
			{A: 1, B: 2, Weight: 2},
			{A: 0, B: 2, Weight: 3},
		},
	}

	tree, err := MinimumSpanningTree(g)
	if err != nil {
		t.Fatalf("mst: %v", err)
	}

	total := 0.0
	for _, e := range tree.Edges {
		total += e.Weight
	}
	if total != 3 {
		t.Errorf("expected total weight 3, got %v", total)
	}
}

func TestMinimumSpanningTree_SingleNodeAndEmpty(t *testing.T) {
	tree, err := MinimumSpanningTree(domain.Graph{Nodes: []string{"only"}})
	if err != nil {
		t.Fatalf("single node: %v", err)
	}
	if len(tree.Edges) != 0 {
		t.Errorf("single node: expected 0 edges, got %d", len(tree.Edges))
	}

	if _, err := MinimumSpanningTree(domain.Graph{}); !errors.Is(err, ErrNoNodes) {
		t.Fatalf("expected ErrNoNodes, got %v", err)
	}
}

func TestMinimumSpanningTree_Disconnected(t *testing.T) {
	g := domain.Graph{
		Nodes: []string{"a", "b", "c"},
		Edges: []domain.Edge{{A: 0, B: 1, Weight: 1}}, // c unreachable
	}

	if _, err := MinimumSpanningTree(g); !errors.Is(err, ErrDisconnected) {
		t.Fatalf("expected ErrDisconnected, got %v", err)
	}
}

func TestWithReference_AugmentsAllNodes(t *testing.T) {
	g, err := BuildComplete([]string{"a", "b", "c"}, DistanceFromValues([]float64{0, 1, 2}))
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	aug, err := WithReference(g, "BENCH", []float64{0.1, 0.2, 0.3})
	if err != nil {
		t.Fatalf("augment: %v", err)
	}

	if len(aug.Nodes) != 4 || aug.Nodes[3] != "BENCH" {
		t.Fatalf("expected BENCH appended, got %v", aug.Nodes)
	}
	// 3 original pairs + 3 reference edges
	if len(aug.Edges) != 6 {
		t.Fatalf("expected 6 edges, got %d", len(aug.Edges))
	}

	tree, err := MinimumSpanningTree(aug)
	if err != nil {
		t.Fatalf("mst: %v", err)
	}
	if len(tree.Edges) != 3 {
		t.Errorf("expected 3 MST edges over 4 nodes, got %d", len(tree.Edges))
	}
	assertSpanning(t, tree)
}

func TestWithReference_LengthMismatch(t *testing.T) {
	g := domain.Graph{Nodes: []string{"a", "b"}}
	if _, err := WithReference(g, "BENCH", []float64{0.1}); err == nil {
		t.Fatal("expected length mismatch error")
	}
}

// assertSpanning checks the tree reaches every node without cycles via
// union-find over its edges.
func assertSpanning(t *testing.T, tree domain.Graph) {
	t.Helper()

	parent := make([]int, tree.NodeCount())
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		if parent[x] != x {
			parent[x] = find(parent[x])
		}
		return parent[x]
	}

	for _, e := range tree.Edges {
		ra, rb := find(e.A), find(e.B)
		if ra == rb {
			t.Fatalf("cycle introduced by edge (%d,%d)", e.A, e.B)
		}
		parent[ra] = rb
	}

	root := find(0)
	for i := 1; i < tree.NodeCount(); i++ {
		if find(i) != root {
			t.Fatalf("node %d not connected to the tree", i)
		}
	}
}
