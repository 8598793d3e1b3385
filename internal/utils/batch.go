package utils

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/qnetwork_reorganized/pkg/matrix"
)

// NewStateBatch packs state vectors into a batch matrix, one state per row.
// Every state must have exactly stateSize components.
func NewStateBatch(states [][]float64, stateSize int) (*mat.Dense, error) {
	batchSize := len(states)
	if batchSize == 0 {
		return nil, errors.Wrap(matrix.ErrShapeMismatch, "empty state batch")
	}

	batch, err := matrix.New(batchSize, stateSize)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create batch matrix")
	}

	for i, s := range states {
		if len(s) != stateSize {
			return nil, errors.Wrapf(matrix.ErrShapeMismatch, "state %d has %d components, expected %d", i, len(s), stateSize)
		}
		batch.SetRow(i, s)
	}

	return batch, nil
}

// SplitBatch returns consecutive row windows of at most size rows.
// The windows share storage with m.
func SplitBatch(m *mat.Dense, size int) ([]*mat.Dense, error) {
	if size <= 0 {
		return nil, errors.Errorf("chunk size must be positive, got %d", size)
	}

	rows, cols := m.Dims()
	chunks := make([]*mat.Dense, 0, (rows+size-1)/size)
	for start := 0; start < rows; start += size {
		end := start + size
		if end > rows {
			end = rows
		}
		chunks = append(chunks, m.Slice(start, end, 0, cols).(*mat.Dense))
	}
	return chunks, nil
}
