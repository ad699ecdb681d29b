package network

// Edge is a weighted tie between a source label and a target label.
type Edge struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Weight float64 `json:"weight"`
}

type edgeKey struct {
	source, target string
}

// EdgeList is an ordered collection of edges with at most one edge per
// (source, target) pair. It also keeps the ordered source and target node
// sets, which may hold isolated nodes that no edge touches. The zero value is
// not usable; call NewEdgeList.
type EdgeList struct {
	edges []Edge
	index map[edgeKey]int

	sources, targets labelSet
}

// labelSet is an insertion-ordered set of node labels.
type labelSet struct {
	order []string
	seen  map[string]struct{}
}

func newLabelSet() labelSet {
	return labelSet{seen: make(map[string]struct{})}
}

func (ls *labelSet) add(label string) {
	if _, ok := ls.seen[label]; ok {
		return
	}
	ls.seen[label] = struct{}{}
	ls.order = append(ls.order, label)
}

func (ls *labelSet) list() []string {
	return append(make([]string, 0, len(ls.order)), ls.order...)
}

// NewEdgeList returns an empty edge list.
func NewEdgeList() *EdgeList {
	return &EdgeList{
		index:   make(map[edgeKey]int),
		sources: newLabelSet(),
		targets: newLabelSet(),
	}
}

// NewEdgeListWithNodes returns an empty edge list whose node sets start with
// sources and targets, in that order. Duplicate labels are dropped.
func NewEdgeListWithNodes(sources, targets []string) *EdgeList {
	el := NewEdgeList()
	for _, s := range sources {
		el.AddSource(s)
	}
	for _, t := range targets {
		el.AddTarget(t)
	}
	return el
}

// AddSource registers a source node without adding an edge.
func (el *EdgeList) AddSource(label string) { el.sources.add(label) }

// AddTarget registers a target node without adding an edge.
func (el *EdgeList) AddTarget(label string) { el.targets.add(label) }

// Add inserts e, or adds e.Weight to the existing edge with the same source
// and target. Insertion order of first occurrence is preserved for edges and
// for their end nodes.
func (el *EdgeList) Add(e Edge) {
	el.sources.add(e.Source)
	el.targets.add(e.Target)

	k := edgeKey{e.Source, e.Target}
	if i, ok := el.index[k]; ok {
		el.edges[i].Weight += e.Weight
		return
	}
	el.index[k] = len(el.edges)
	el.edges = append(el.edges, e)
}

// Len returns the number of distinct (source, target) pairs.
func (el *EdgeList) Len() int { return len(el.edges) }

// Edges returns a copy of the edges in insertion order.
func (el *EdgeList) Edges() []Edge { return append([]Edge(nil), el.edges...) }

// Weight returns the weight of the edge source→target, if present.
func (el *EdgeList) Weight(source, target string) (float64, bool) {
	i, ok := el.index[edgeKey{source, target}]
	if !ok {
		return 0, false
	}
	return el.edges[i].Weight, true
}

// Total returns the sum of all edge weights.
func (el *EdgeList) Total() float64 {
	var sum float64
	for _, e := range el.edges {
		sum += e.Weight
	}
	return sum
}

// Sources returns the source nodes in first-occurrence order, including
// nodes registered with AddSource that have no edge.
func (el *EdgeList) Sources() []string { return el.sources.list() }

// Targets returns the target nodes in first-occurrence order, including
// nodes registered with AddTarget that have no edge.
func (el *EdgeList) Targets() []string { return el.targets.list() }

// Clone returns a deep copy of el.
func (el *EdgeList) Clone() *EdgeList {
	c := NewEdgeListWithNodes(el.sources.order, el.targets.order)
	for _, e := range el.edges {
		c.Add(e)
	}
	return c
}
