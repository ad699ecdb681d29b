// Package network provides the relational values produced by an export:
// a labeled Matrix, a weighted EdgeList, and a Network that holds both views
// of the same relation.
//
// # Matrix
//
// Matrix is a dense, row-major table of float64 values with one label per row
// and one label per column. Zero-sized shapes are legal: an export over zero
// statements produces a 0×0 matrix rather than an error.
//
//	m := network.NewMatrix([]string{"X", "Y"}, []string{"A"})
//	_ = m.Increment(0, 0, 1)
//
// # EdgeList
//
// EdgeList never holds two edges for the same (source, target) pair. Adding a
// duplicate pair accumulates its weight onto the existing edge:
//
//	el := network.NewEdgeList()
//	el.Add(network.Edge{Source: "X", Target: "A", Weight: 1})
//	el.Add(network.Edge{Source: "X", Target: "A", Weight: 2})
//	el.Len() // 1, weight 3
//
// # Network
//
// Network is built from either representation. The missing view is derived on
// first access and cached, and accessors hand out copies, so the matrix and
// the edge list of one Network always describe the same relation.
package network
