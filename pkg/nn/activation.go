package nn

import (
	"gonum.org/v1/gonum/mat"

	"github.com/qnetwork_reorganized/pkg/matrix"
)

// ReLU is the elementwise rectifier max(x, 0).
type ReLU struct{}

func (ReLU) Forward(x *mat.Dense) (*mat.Dense, error) { return matrix.ReLU(x), nil }

func (ReLU) Parameters() []Parameter { return nil }

// Softmax normalizes each row into a distribution.
type Softmax struct{}

func (Softmax) Forward(x *mat.Dense) (*mat.Dense, error) { return matrix.Softmax(x), nil }

func (Softmax) Parameters() []Parameter { return nil }
