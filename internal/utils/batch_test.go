package utils

import (
	"testing"

	"github.com/pkg/errors"

	"github.com/qnetwork_reorganized/pkg/matrix"
)

func TestNewStateBatch(t *testing.T) {
	batch, err := NewStateBatch([][]float64{{1, 2, 3}, {4, 5, 6}}, 3)
	if err != nil {
		t.Fatalf("NewStateBatch returned an error: %v", err)
	}
	if r, c := batch.Dims(); r != 2 || c != 3 {
		t.Fatalf("expected 2x3 batch, got %dx%d", r, c)
	}
	if batch.At(1, 2) != 6 {
		t.Errorf("batch[1][2] = %f, expected 6", batch.At(1, 2))
	}
}

func TestNewStateBatchRejectsBadRows(t *testing.T) {
	_, err := NewStateBatch([][]float64{{1, 2, 3, 4}, {1, 2, 3}}, 4)
	if !errors.Is(err, matrix.ErrShapeMismatch) {
		t.Errorf("expected ErrShapeMismatch for short row, got %v", err)
	}
	if _, err := NewStateBatch(nil, 4); !errors.Is(err, matrix.ErrShapeMismatch) {
		t.Errorf("expected ErrShapeMismatch for empty batch, got %v", err)
	}
}

func TestSplitBatch(t *testing.T) {
	m := matrix.MustFromRows([][]float64{{1}, {2}, {3}, {4}, {5}})
	chunks, err := SplitBatch(m, 2)
	if err != nil {
		t.Fatalf("SplitBatch returned an error: %v", err)
	}
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	if r, _ := chunks[2].Dims(); r != 1 {
		t.Errorf("last chunk has %d rows, expected 1", r)
	}
	if chunks[1].At(0, 0) != 3 {
		t.Errorf("chunk 1 starts at %f, expected 3", chunks[1].At(0, 0))
	}

	if _, err := SplitBatch(m, 0); err == nil {
		t.Error("expected an error for zero chunk size")
	}
}
