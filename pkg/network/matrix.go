package network

import (
	"fmt"
	"strings"
)

// Matrix is a labeled, dense, row-major table of float64 values.
//
// The cell (i, j) lives at data[i*cols+j]. Row i is labeled rowLabels[i] and
// column j is labeled colLabels[j]; both label slices always match the shape.
type Matrix struct {
	rows, cols int
	data       []float64
	rowLabels  []string
	colLabels  []string
}

// NewMatrix returns a zero matrix shaped by the given labels. Empty label
// slices yield a matrix with zero rows and/or columns.
func NewMatrix(rowLabels, colLabels []string) *Matrix {
	return &Matrix{
		rows:      len(rowLabels),
		cols:      len(colLabels),
		data:      make([]float64, len(rowLabels)*len(colLabels)),
		rowLabels: append([]string(nil), rowLabels...),
		colLabels: append([]string(nil), colLabels...),
	}
}

// NewMatrixFromRows copies a two-dimensional slice into a new Matrix.
// It returns ErrRagged if the rows differ in length and ErrLabelCount if the
// labels do not match the shape.
func NewMatrixFromRows(values [][]float64, rowLabels, colLabels []string) (*Matrix, error) {
	if len(values) != len(rowLabels) {
		return nil, opErrorf("NewMatrixFromRows", ErrLabelCount)
	}
	cols := len(colLabels)
	for _, row := range values {
		if len(row) != len(values[0]) {
			return nil, opErrorf("NewMatrixFromRows", ErrRagged)
		}
		if len(row) != cols {
			return nil, opErrorf("NewMatrixFromRows", ErrLabelCount)
		}
	}

	m := NewMatrix(rowLabels, colLabels)
	for i, row := range values {
		copy(m.data[i*cols:(i+1)*cols], row)
	}

	return m, nil
}

// Rows returns the row count.
func (m *Matrix) Rows() int { return m.rows }

// Cols returns the column count.
func (m *Matrix) Cols() int { return m.cols }

// Shape returns the row and column counts.
func (m *Matrix) Shape() (rows, cols int) { return m.rows, m.cols }

// RowLabels returns a copy of the row labels.
func (m *Matrix) RowLabels() []string { return append([]string(nil), m.rowLabels...) }

// ColLabels returns a copy of the column labels.
func (m *Matrix) ColLabels() []string { return append([]string(nil), m.colLabels...) }

// RowIndex returns the index of the first row carrying label, or -1.
func (m *Matrix) RowIndex(label string) int { return indexOf(m.rowLabels, label) }

// ColIndex returns the index of the first column carrying label, or -1.
func (m *Matrix) ColIndex(label string) int { return indexOf(m.colLabels, label) }

func indexOf(labels []string, label string) int {
	for i, l := range labels {
		if l == label {
			return i
		}
	}
	return -1
}

// offset bounds-checks (row, col) and returns the flat index.
func (m *Matrix) offset(row, col int) (int, error) {
	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		return 0, ErrOutOfRange
	}
	return row*m.cols + col, nil
}

// At returns the value stored at (row, col).
func (m *Matrix) At(row, col int) (float64, error) {
	off, err := m.offset(row, col)
	if err != nil {
		return 0, fmt.Errorf("Matrix.At(%d,%d): %w", row, col, err)
	}
	return m.data[off], nil
}

// Set stores v at (row, col).
func (m *Matrix) Set(row, col int, v float64) error {
	off, err := m.offset(row, col)
	if err != nil {
		return fmt.Errorf("Matrix.Set(%d,%d): %w", row, col, err)
	}
	m.data[off] = v
	return nil
}

// Increment adds delta to the value at (row, col).
func (m *Matrix) Increment(row, col int, delta float64) error {
	off, err := m.offset(row, col)
	if err != nil {
		return fmt.Errorf("Matrix.Increment(%d,%d): %w", row, col, err)
	}
	m.data[off] += delta
	return nil
}

// Total returns the sum of all cells.
func (m *Matrix) Total() float64 {
	var sum float64
	for _, v := range m.data {
		sum += v
	}
	return sum
}

// NonZero calls fn for every non-zero cell in row-major order.
func (m *Matrix) NonZero(fn func(row, col int, v float64)) {
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			if v := m.data[i*m.cols+j]; v != 0 {
				fn(i, j, v)
			}
		}
	}
}

// ZeroDiagonal sets every (i, i) cell to zero. The matrix must be square.
func (m *Matrix) ZeroDiagonal() error {
	if m.rows != m.cols {
		return opErrorf("ZeroDiagonal", ErrNonSquare)
	}
	for i := 0; i < m.rows; i++ {
		m.data[i*m.cols+i] = 0
	}
	return nil
}

// Clone returns a deep copy of m.
func (m *Matrix) Clone() *Matrix {
	c := NewMatrix(m.rowLabels, m.colLabels)
	copy(c.data, m.data)
	return c
}

// ToRows returns the cells as a freshly allocated two-dimensional slice.
func (m *Matrix) ToRows() [][]float64 {
	out := make([][]float64, m.rows)
	for i := range out {
		out[i] = append([]float64(nil), m.data[i*m.cols:(i+1)*m.cols]...)
	}
	return out
}

// String renders the matrix with its labels, one row per line.
func (m *Matrix) String() string {
	var sb strings.Builder
	sb.WriteString("\t")
	sb.WriteString(strings.Join(m.colLabels, "\t"))
	sb.WriteString("\n")
	for i := 0; i < m.rows; i++ {
		sb.WriteString(m.rowLabels[i])
		for j := 0; j < m.cols; j++ {
			fmt.Fprintf(&sb, "\t%g", m.data[i*m.cols+j])
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
