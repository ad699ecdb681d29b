package network

// Mul returns the matrix product a × b. Row labels come from a and column
// labels from b. Loop order is fixed (i, k, j) so results are reproducible.
func Mul(a, b *Matrix) (*Matrix, error) {
	if a == nil || b == nil {
		return nil, opErrorf("Mul", ErrNilMatrix)
	}
	if a.cols != b.rows {
		return nil, opErrorf("Mul", ErrDimensionMismatch)
	}

	out := NewMatrix(a.rowLabels, b.colLabels)
	for i := 0; i < a.rows; i++ {
		for k := 0; k < a.cols; k++ {
			aik := a.data[i*a.cols+k]
			if aik == 0 {
				continue
			}
			for j := 0; j < b.cols; j++ {
				out.data[i*out.cols+j] += aik * b.data[k*b.cols+j]
			}
		}
	}

	return out, nil
}

// Transpose returns mᵀ with row and column labels swapped.
func Transpose(m *Matrix) (*Matrix, error) {
	if m == nil {
		return nil, opErrorf("Transpose", ErrNilMatrix)
	}

	out := NewMatrix(m.colLabels, m.rowLabels)
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			out.data[j*out.cols+i] = m.data[i*m.cols+j]
		}
	}

	return out, nil
}

// Plus returns the element-wise sum a + b, keeping the labels of a.
func Plus(a, b *Matrix) (*Matrix, error) {
	if a == nil || b == nil {
		return nil, opErrorf("Plus", ErrNilMatrix)
	}
	if a.rows != b.rows || a.cols != b.cols {
		return nil, opErrorf("Plus", ErrDimensionMismatch)
	}

	out := a.Clone()
	for i, v := range b.data {
		out.data[i] += v
	}

	return out, nil
}
