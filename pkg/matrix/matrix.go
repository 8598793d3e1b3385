// Package matrix holds the dense matrix helpers the network layers are built on.
// Everything operates on gonum's mat.Dense and returns a fresh result; inputs are
// never modified.
package matrix

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// ErrShapeMismatch is returned whenever operand dimensions are incompatible.
var ErrShapeMismatch = errors.New("matrix: shape mismatch")

// New creates a zero matrix with the specified dimensions
func New(rows, cols int) (*mat.Dense, error) {
	if rows <= 0 || cols <= 0 {
		return nil, errors.Wrapf(ErrShapeMismatch, "invalid matrix dimensions: rows=%d, cols=%d (must be positive)", rows, cols)
	}
	return mat.NewDense(rows, cols, nil), nil
}

// FromRows copies a row-major slice of rows into a new matrix.
// Every row must have the same, non-zero length.
func FromRows(rows [][]float64) (*mat.Dense, error) {
	if len(rows) == 0 {
		return nil, errors.Wrap(ErrShapeMismatch, "cannot build matrix from zero rows")
	}
	cols := len(rows[0])
	m, err := New(len(rows), cols)
	if err != nil {
		return nil, err
	}
	for i, row := range rows {
		if len(row) != cols {
			return nil, errors.Wrapf(ErrShapeMismatch, "row %d has %d columns, expected %d", i, len(row), cols)
		}
		m.SetRow(i, row)
	}
	return m, nil
}

// MustFromRows is FromRows that panics on error
func MustFromRows(rows [][]float64) *mat.Dense {
	m, err := FromRows(rows)
	if err != nil {
		panic(err)
	}
	return m
}

// ToRows copies m into a row-major slice of rows.
func ToRows(m mat.Matrix) [][]float64 {
	r, _ := m.Dims()
	out := make([][]float64, r)
	for i := range out {
		out[i] = mat.Row(nil, i, m)
	}
	return out
}

// MatMul performs matrix multiplication
func MatMul(a, b mat.Matrix) (*mat.Dense, error) {
	if a == nil || b == nil {
		return nil, errors.New("cannot multiply nil matrices")
	}

	ar, ac := a.Dims()
	br, bc := b.Dims()
	if ac != br {
		return nil, errors.Wrapf(ErrShapeMismatch, "matrix dimensions don't match for multiplication: a(%dx%d), b(%dx%d)",
			ar, ac, br, bc)
	}

	result := mat.NewDense(ar, bc, nil)
	result.Mul(a, b)
	return result, nil
}

// AddRowVector adds the 1xc row vector to every row of m.
func AddRowVector(m, row mat.Matrix) (*mat.Dense, error) {
	if m == nil || row == nil {
		return nil, errors.New("cannot add nil matrices")
	}

	r, c := m.Dims()
	vr, vc := row.Dims()
	if vr != 1 || vc != c {
		return nil, errors.Wrapf(ErrShapeMismatch, "row vector (%dx%d) does not broadcast over matrix (%dx%d)",
			vr, vc, r, c)
	}

	result := mat.NewDense(r, c, nil)
	result.Apply(func(_, j int, v float64) float64 {
		return v + row.At(0, j)
	}, m)
	return result, nil
}

// ReLU applies max(x, 0) to every element
func ReLU(m mat.Matrix) *mat.Dense {
	r, c := m.Dims()
	result := mat.NewDense(r, c, nil)
	result.Apply(func(_, _ int, v float64) float64 {
		if v < 0 {
			return 0
		}
		return v
	}, m)
	return result
}

// Softmax applies the softmax function to each row of the matrix.
// A row containing +Inf puts equal mass on its +Inf entries and zero
// elsewhere; a row that is entirely -Inf becomes uniform. NaN propagates.
func Softmax(m mat.Matrix) *mat.Dense {
	r, c := m.Dims()
	result := mat.NewDense(r, c, nil)

	for i := 0; i < r; i++ {
		// Find max value in row for numerical stability
		max := m.At(i, 0)
		for j := 1; j < c; j++ {
			if v := m.At(i, j); v > max {
				max = v
			}
		}

		if math.IsInf(max, 0) {
			softmaxInfRow(m, result, i, max)
			continue
		}

		sum := 0.0
		for j := 0; j < c; j++ {
			e := math.Exp(m.At(i, j) - max)
			result.Set(i, j, e)
			sum += e
		}

		for j := 0; j < c; j++ {
			result.Set(i, j, result.At(i, j)/sum)
		}
	}

	return result
}

func softmaxInfRow(m mat.Matrix, result *mat.Dense, i int, max float64) {
	_, c := m.Dims()
	hits := 0
	for j := 0; j < c; j++ {
		if m.At(i, j) == max {
			hits++
		}
	}
	for j := 0; j < c; j++ {
		if m.At(i, j) == max {
			result.Set(i, j, 1/float64(hits))
		}
	}
}

// ArgmaxRow returns the column index of the largest value in row i.
// The first index wins on ties.
func ArgmaxRow(m mat.Matrix, i int) int {
	_, c := m.Dims()
	best := 0
	for j := 1; j < c; j++ {
		if m.At(i, j) > m.At(i, best) {
			best = j
		}
	}
	return best
}

// Equal checks if two matrices have the same dimensions and every element
// differs by at most epsilon.
func Equal(a, b mat.Matrix, epsilon float64) bool {
	ar, ac := a.Dims()
	br, bc := b.Dims()
	if ar != br || ac != bc {
		return false
	}
	for i := 0; i < ar; i++ {
		for j := 0; j < ac; j++ {
			if math.Abs(a.At(i, j)-b.At(i, j)) > epsilon {
				return false
			}
		}
	}
	return true
}
