// SPDX-License-Identifier: MIT

// Package matrix: domain types shared by kernels and solvers.
package matrix

// Matrix represents a two-dimensional mutable array of float64 values.
// Kernels accept Matrix and take a fast path when the concrete type is *Dense.
//
// Complexity notes: all methods are expected O(1) except Clone (O(r*c)).
type Matrix interface {
	// Rows returns the number of rows in the matrix.
	// Complexity: O(1).
	Rows() int

	// Cols returns the number of columns in the matrix.
	// Complexity: O(1).
	Cols() int

	// At retrieves the element at position (i, j).
	// Returns ErrOutOfRange if i<0, i>=Rows(), j<0 or j>=Cols().
	// Complexity: O(1).
	At(i, j int) (float64, error)

	// Set assigns the value v at position (i, j).
	// Returns ErrOutOfRange if indices are invalid.
	// Complexity: O(1).
	Set(i, j int, v float64) error

	// Clone returns a deep copy of the matrix.
	// The returned Matrix is independent of the original.
	// Complexity: O(rows*cols).
	Clone() Matrix
}

// LinearOperator is a matrix-free square linear map y = A·x.
// Implementations must write exactly Dim() values into dst and must not
// retain dst or x after returning.
type LinearOperator interface {
	// Dim returns n for an n×n operator.
	Dim() int

	// Apply computes dst = A·x. len(dst) == len(x) == Dim().
	Apply(dst, x []float64) error
}

// OperatorFunc adapts a plain function to LinearOperator.
type OperatorFunc struct {
	N  int
	Fn func(dst, x []float64) error
}

// Dim implements LinearOperator.
func (o OperatorFunc) Dim() int { return o.N }

// Apply implements LinearOperator.
func (o OperatorFunc) Apply(dst, x []float64) error { return o.Fn(dst, x) }

// denseOperator exposes a square *Dense as a LinearOperator (tests, small systems).
type denseOperator struct{ m *Dense }

// AsOperator wraps a square Dense matrix as a LinearOperator.
// Returns ErrNilMatrix or ErrDimensionMismatch for invalid input.
func AsOperator(m *Dense) (LinearOperator, error) {
	if m == nil {
		return nil, matrixErrorf(opOperator, ErrNilMatrix)
	}
	if err := ValidateSquare(m); err != nil {
		return nil, matrixErrorf(opOperator, err)
	}

	return denseOperator{m: m}, nil
}

// Dim implements LinearOperator.
func (d denseOperator) Dim() int { return d.m.r }

// Apply implements LinearOperator via the *Dense MatVec fast path.
func (d denseOperator) Apply(dst, x []float64) error {
	y, err := MatVec(d.m, x)
	if err != nil {
		return err
	}
	copy(dst, y)

	return nil
}
