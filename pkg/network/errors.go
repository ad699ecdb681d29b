package network

import (
	"errors"
	"fmt"
)

// Every message is prefixed with "network:" so it can be grepped in logs.
// Callers match with errors.Is; context is added with fmt.Errorf("...: %w").
var (
	// ErrOutOfRange indicates a row or column index outside the matrix bounds.
	ErrOutOfRange = errors.New("network: index out of range")

	// ErrDimensionMismatch indicates incompatible operand shapes, e.g. Plus on
	// different shapes or Mul where a.Cols != b.Rows.
	ErrDimensionMismatch = errors.New("network: dimension mismatch")

	// ErrNonSquare is returned when a square matrix is required.
	ErrNonSquare = errors.New("network: matrix is not square")

	// ErrLabelCount indicates that a label sequence does not match the shape.
	ErrLabelCount = errors.New("network: label count does not match shape")

	// ErrRagged indicates that input rows have different lengths.
	ErrRagged = errors.New("network: rows have different lengths")

	// ErrNilMatrix indicates a nil *Matrix operand.
	ErrNilMatrix = errors.New("network: nil matrix")
)

// opErrorf attaches the operation name to a sentinel error.
func opErrorf(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
