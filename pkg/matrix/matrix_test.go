package matrix

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

func TestNewRejectsNonPositiveDims(t *testing.T) {
	for _, dims := range [][2]int{{0, 3}, {2, 0}, {-1, 1}} {
		if _, err := New(dims[0], dims[1]); !errors.Is(err, ErrShapeMismatch) {
			t.Errorf("New(%d, %d): expected ErrShapeMismatch, got %v", dims[0], dims[1], err)
		}
	}

	m, err := New(2, 3)
	if err != nil {
		t.Fatalf("New(2, 3) returned an error: %v", err)
	}
	if r, c := m.Dims(); r != 2 || c != 3 {
		t.Errorf("expected 2x3 matrix, got %dx%d", r, c)
	}
}

func TestFromRowsRagged(t *testing.T) {
	_, err := FromRows([][]float64{{1, 2}, {3}})
	if !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("expected ErrShapeMismatch for ragged rows, got %v", err)
	}
	if _, err := FromRows(nil); !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("expected ErrShapeMismatch for empty rows, got %v", err)
	}
}

func TestMatMul(t *testing.T) {
	a := MustFromRows([][]float64{{1, 2, 3}, {4, 5, 6}})
	b := MustFromRows([][]float64{{7, 8}, {9, 10}, {11, 12}})

	got, err := MatMul(a, b)
	if err != nil {
		t.Fatalf("MatMul returned an error: %v", err)
	}
	want := MustFromRows([][]float64{{58, 64}, {139, 154}})
	if !Equal(got, want, 1e-12) {
		t.Errorf("MatMul mismatch: got %v, want %v", ToRows(got), ToRows(want))
	}

	if _, err := MatMul(a, a); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("expected ErrShapeMismatch for 2x3 * 2x3, got %v", err)
	}
}

func TestAddRowVector(t *testing.T) {
	m := MustFromRows([][]float64{{1, 2}, {3, 4}, {5, 6}})
	b := MustFromRows([][]float64{{10, -1}})

	got, err := AddRowVector(m, b)
	if err != nil {
		t.Fatalf("AddRowVector returned an error: %v", err)
	}
	want := MustFromRows([][]float64{{11, 1}, {13, 3}, {15, 5}})
	if !Equal(got, want, 0) {
		t.Errorf("AddRowVector mismatch: got %v", ToRows(got))
	}
	if m.At(0, 0) != 1 {
		t.Errorf("AddRowVector modified its input")
	}

	if _, err := AddRowVector(m, MustFromRows([][]float64{{1, 2, 3}})); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("expected ErrShapeMismatch for wrong bias width, got %v", err)
	}
}

func TestReLU(t *testing.T) {
	got := ReLU(MustFromRows([][]float64{{-1, 0, 2.5}}))
	want := []float64{0, 0, 2.5}
	for j, w := range want {
		if got.At(0, j) != w {
			t.Errorf("ReLU[%d] = %f, expected %f", j, got.At(0, j), w)
		}
	}
}

func TestSoftmaxRowsSumToOne(t *testing.T) {
	m := MustFromRows([][]float64{
		{1, 2, 3},
		{-5, 0, 5},
		{1000, 1000, 999}, // would overflow without the max shift
	})
	s := Softmax(m)

	r, c := s.Dims()
	for i := 0; i < r; i++ {
		sum := 0.0
		for j := 0; j < c; j++ {
			v := s.At(i, j)
			if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("row %d col %d: invalid probability %f", i, j, v)
			}
			sum += v
		}
		if math.Abs(sum-1) > 1e-9 {
			t.Errorf("row %d sums to %f, expected 1", i, sum)
		}
	}

	if math.Abs(s.At(2, 0)-s.At(2, 1)) > 1e-12 {
		t.Errorf("equal logits should give equal probabilities, got %f and %f", s.At(2, 0), s.At(2, 1))
	}
}

func TestSoftmaxMonotonic(t *testing.T) {
	logits := []float64{0.3, -1.2, 2.0, 0.0}
	before := Softmax(mat.NewDense(1, 4, logits))

	for k := range logits {
		raised := append([]float64(nil), logits...)
		raised[k] += 0.5
		after := Softmax(mat.NewDense(1, 4, raised))
		if after.At(0, k) <= before.At(0, k) {
			t.Errorf("raising logit %d did not raise its probability: %f -> %f", k, before.At(0, k), after.At(0, k))
		}
	}
}

func TestArgmaxRow(t *testing.T) {
	m := MustFromRows([][]float64{{0.1, 0.7, 0.2}, {0.5, 0.5, 0.0}})
	if got := ArgmaxRow(m, 0); got != 1 {
		t.Errorf("ArgmaxRow(0) = %d, expected 1", got)
	}
	if got := ArgmaxRow(m, 1); got != 0 {
		t.Errorf("ArgmaxRow(1) = %d, expected first index on tie", got)
	}
}

func TestSoftmaxInfiniteLogits(t *testing.T) {
	inf := math.Inf(1)
	s := Softmax(MustFromRows([][]float64{
		{inf, 1, inf, -inf},
		{-inf, -inf, -inf, -inf},
		{math.MaxFloat64, -math.MaxFloat64, 0, 1},
	}))

	want := [][]float64{
		{0.5, 0, 0.5, 0},
		{0.25, 0.25, 0.25, 0.25},
		{1, 0, 0, 0},
	}
	for i, row := range want {
		for j, w := range row {
			if got := s.At(i, j); math.IsNaN(got) || math.Abs(got-w) > 1e-12 {
				t.Errorf("softmax[%d][%d] = %f, expected %f", i, j, got, w)
			}
		}
	}
}
