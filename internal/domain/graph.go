package domain

// Edge is an undirected weighted edge between two node indices.
type Edge struct {
	A, B   int     // node indices, A < B for deduplication
	Weight float64 // distance
}

// Graph is a weighted undirected graph over a named node set.
// Built complete (each unordered pair once, no self-loops) by the graph
// package; the MST extractor returns the same shape with n-1 edges.
type Graph struct {
	Nodes []string
	Edges []Edge
}

// NodeCount returns the number of nodes.
func (g Graph) NodeCount() int {
	return len(g.Nodes)
}
