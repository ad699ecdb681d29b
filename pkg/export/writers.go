package export

import (
	"bufio"
	"encoding/csv"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"

	"dna-hq/netexport/pkg/network"
)

// NetworkWriter serializes a network to an output format.
type NetworkWriter interface {
	// Write encodes n to w.
	Write(w io.Writer, n *network.Network) error
}

// WriterFor returns the NetworkWriter for format f.
func WriterFor(f Format) (NetworkWriter, error) {
	switch f {
	case FormatCSV, "":
		return &MatrixCSVWriter{}, nil
	case FormatDL:
		return &DLWriter{}, nil
	case FormatGraphML:
		return &GraphMLWriter{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrFormatNotSupported, f)
	}
}

func formatWeight(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// MatrixCSVWriter writes the matrix view as a semicolon-separated table. The
// first row holds the column labels after an empty corner cell; every other
// row starts with its row label.
type MatrixCSVWriter struct{}

// Write implements NetworkWriter.
func (cw *MatrixCSVWriter) Write(w io.Writer, n *network.Network) error {
	m := n.Matrix()
	writer := csv.NewWriter(w)
	writer.Comma = ';'

	header := append([]string{""}, m.ColLabels()...)
	if err := writer.Write(header); err != nil {
		return NewIOError("write", "", err)
	}

	rowLabels := m.RowLabels()
	for i, values := range m.ToRows() {
		record := make([]string, 0, len(values)+1)
		record = append(record, rowLabels[i])
		for _, v := range values {
			record = append(record, formatWeight(v))
		}
		if err := writer.Write(record); err != nil {
			return NewIOError("write", "", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return NewIOError("write", "", err)
	}
	return nil
}

// DLWriter writes the matrix view in the DL full matrix layout read by
// UCINET: a header line, the labels, and one line of values per row.
// One-mode networks share a single label list; two-mode networks list row and
// column labels separately.
type DLWriter struct{}

// Write implements NetworkWriter.
func (dw *DLWriter) Write(w io.Writer, n *network.Network) error {
	m := n.Matrix()
	bw := bufio.NewWriter(w)

	if n.Mode() == network.OneMode {
		fmt.Fprintf(bw, "dl n=%d format=fullmatrix\n", m.Rows())
		bw.WriteString("labels:\n")
		writeDLLabels(bw, m.RowLabels())
	} else {
		fmt.Fprintf(bw, "dl nr=%d nc=%d format=fullmatrix\n", m.Rows(), m.Cols())
		bw.WriteString("row labels:\n")
		writeDLLabels(bw, m.RowLabels())
		bw.WriteString("column labels:\n")
		writeDLLabels(bw, m.ColLabels())
	}

	bw.WriteString("data:\n")
	for _, values := range m.ToRows() {
		for j, v := range values {
			if j > 0 {
				bw.WriteByte(' ')
			}
			bw.WriteString(formatWeight(v))
		}
		bw.WriteByte('\n')
	}

	// bufio.Writer keeps the first error and reports it on Flush.
	if err := bw.Flush(); err != nil {
		return NewIOError("write", "", err)
	}
	return nil
}

func writeDLLabels(bw *bufio.Writer, labels []string) {
	for _, l := range labels {
		bw.WriteString(quote(l))
		bw.WriteByte('\n')
	}
}

// GraphMLWriter writes the edge-list view as GraphML. Every node carries its
// label and the side of the network it belongs to (1 for variable 1, 2 for
// variable 2); every edge carries its weight.
type GraphMLWriter struct{}

const graphMLNamespace = "http://graphml.graphdrawing.org/xmlns"

type graphMLDocument struct {
	XMLName xml.Name     `xml:"graphml"`
	XMLNS   string       `xml:"xmlns,attr"`
	Keys    []graphMLKey `xml:"key"`
	Graph   graphMLGraph `xml:"graph"`
}

type graphMLKey struct {
	ID       string `xml:"id,attr"`
	For      string `xml:"for,attr"`
	AttrName string `xml:"attr.name,attr"`
	AttrType string `xml:"attr.type,attr"`
}

type graphMLGraph struct {
	ID          string        `xml:"id,attr"`
	EdgeDefault string        `xml:"edgedefault,attr"`
	Nodes       []graphMLNode `xml:"node"`
	Edges       []graphMLEdge `xml:"edge"`
}

type graphMLNode struct {
	ID   string        `xml:"id,attr"`
	Data []graphMLData `xml:"data"`
}

type graphMLEdge struct {
	Source string        `xml:"source,attr"`
	Target string        `xml:"target,attr"`
	Data   []graphMLData `xml:"data"`
}

type graphMLData struct {
	Key   string `xml:"key,attr"`
	Value string `xml:",chardata"`
}

// Write implements NetworkWriter.
func (gw *GraphMLWriter) Write(w io.Writer, n *network.Network) error {
	rows, cols := n.Labels()
	edges := n.EdgeList().Edges()

	doc := graphMLDocument{
		XMLNS: graphMLNamespace,
		Keys: []graphMLKey{
			{ID: "label", For: "node", AttrName: "label", AttrType: "string"},
			{ID: "side", For: "node", AttrName: "side", AttrType: "int"},
			{ID: "weight", For: "edge", AttrName: "weight", AttrType: "double"},
		},
		Graph: graphMLGraph{ID: "G", EdgeDefault: "undirected"},
	}

	sourceIDs := make(map[string]string, len(rows))
	targetIDs := sourceIDs
	addNodes := func(labels []string, side int, prefix string, ids map[string]string) {
		for i, l := range labels {
			id := fmt.Sprintf("%s%d", prefix, i)
			ids[l] = id
			doc.Graph.Nodes = append(doc.Graph.Nodes, graphMLNode{
				ID: id,
				Data: []graphMLData{
					{Key: "label", Value: l},
					{Key: "side", Value: strconv.Itoa(side)},
				},
			})
		}
	}

	oneMode := n.Mode() == network.OneMode
	if oneMode {
		addNodes(rows, 1, "n", sourceIDs)
		if !symmetric(edges) {
			doc.Graph.EdgeDefault = "directed"
		}
	} else {
		targetIDs = make(map[string]string, len(cols))
		addNodes(rows, 1, "a", sourceIDs)
		addNodes(cols, 2, "b", targetIDs)
	}

	for _, e := range edges {
		src, tgt := sourceIDs[e.Source], targetIDs[e.Target]
		// An undirected one-mode graph lists each pair once.
		if oneMode && doc.Graph.EdgeDefault == "undirected" && src > tgt {
			continue
		}
		doc.Graph.Edges = append(doc.Graph.Edges, graphMLEdge{
			Source: src,
			Target: tgt,
			Data:   []graphMLData{{Key: "weight", Value: formatWeight(e.Weight)}},
		})
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return NewIOError("write", "", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return NewIOError("write", "", err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return NewIOError("write", "", err)
	}
	return nil
}

// symmetric reports whether every edge a→b has a matching b→a of equal
// weight.
func symmetric(edges []network.Edge) bool {
	weights := make(map[[2]string]float64, len(edges))
	for _, e := range edges {
		weights[[2]string{e.Source, e.Target}] = e.Weight
	}
	for _, e := range edges {
		if w, ok := weights[[2]string{e.Target, e.Source}]; !ok || w != e.Weight {
			return false
		}
	}
	return true
}
