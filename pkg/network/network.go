package network

import "sync"

// Mode tells whether a network relates one node set to itself or two
// different node sets to each other.
type Mode int

const (
	// OneMode is a co-occurrence network over a single node set.
	OneMode Mode = 1
	// TwoMode is an affiliation network: rows and columns are different sets.
	TwoMode Mode = 2
)

// String returns "one-mode" or "two-mode".
func (m Mode) String() string {
	switch m {
	case OneMode:
		return "one-mode"
	case TwoMode:
		return "two-mode"
	default:
		return "unknown"
	}
}

// Network holds the matrix view and the edge-list view of one relation.
//
// Exactly one view is supplied at construction; the other is derived the first
// time it is requested and cached. Both accessors return copies, so callers
// can never make the two views disagree.
type Network struct {
	mode Mode

	mu     sync.Mutex
	matrix *Matrix
	edges  *EdgeList
}

// FromMatrix wraps m. The matrix is copied.
func FromMatrix(m *Matrix, mode Mode) *Network {
	if m == nil {
		m = NewMatrix(nil, nil)
	}
	return &Network{mode: mode, matrix: m.Clone()}
}

// FromEdgeList wraps el. The edge list is copied.
func FromEdgeList(el *EdgeList, mode Mode) *Network {
	if el == nil {
		el = NewEdgeList()
	}
	return &Network{mode: mode, edges: el.Clone()}
}

// Mode returns the network mode.
func (n *Network) Mode() Mode { return n.mode }

// Matrix returns a copy of the matrix view, deriving it from the edge list
// on first use: rows are the edge list's source nodes and columns its target
// nodes, both in first-occurrence order. Isolated nodes become zero rows or
// columns.
func (n *Network) Matrix() *Matrix {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.matrix == nil {
		n.matrix = matrixFromEdges(n.edges)
	}
	return n.matrix.Clone()
}

// EdgeList returns a copy of the edge-list view, deriving it from the matrix
// on first use with one edge per non-zero cell in row-major order. Every row
// and column label is kept as a node, so zero rows survive a round trip.
func (n *Network) EdgeList() *EdgeList {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.edges == nil {
		n.edges = edgesFromMatrix(n.matrix)
	}
	return n.edges.Clone()
}

// Labels returns the node labels of the matrix view: rows then columns for
// two-mode networks, and the shared row labels for one-mode networks.
func (n *Network) Labels() (rows, cols []string) {
	m := n.Matrix()
	return m.RowLabels(), m.ColLabels()
}

func matrixFromEdges(el *EdgeList) *Matrix {
	m := NewMatrix(el.Sources(), el.Targets())
	for _, e := range el.edges {
		i := indexOf(m.rowLabels, e.Source)
		j := indexOf(m.colLabels, e.Target)
		m.data[i*m.cols+j] = e.Weight
	}
	return m
}

func edgesFromMatrix(m *Matrix) *EdgeList {
	el := NewEdgeListWithNodes(m.rowLabels, m.colLabels)
	m.NonZero(func(i, j int, v float64) {
		el.Add(Edge{Source: m.rowLabels[i], Target: m.colLabels[j], Weight: v})
	})
	return el
}
