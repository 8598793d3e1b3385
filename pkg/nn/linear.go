package nn

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/qnetwork_reorganized/pkg/matrix"
)

// Linear is an affine transform y = x·W + b
type Linear struct {
	Name   string
	InDim  int
	OutDim int
	W      *mat.Dense // InDim x OutDim
	B      *mat.Dense // 1 x OutDim
}

// NewLinear creates an affine layer whose weight and bias are drawn, in that
// order, from src with UniformFanIn.
func NewLinear(name string, inDim, outDim int, src Source) (*Linear, error) {
	initializer := UniformFanIn{Src: src, FanIn: inDim}
	return NewLinearWithInit(name, inDim, outDim, initializer, initializer)
}

// NewLinearWithInit creates an affine layer, filling the weight with
// weightInit and then the bias with biasInit.
func NewLinearWithInit(name string, inDim, outDim int, weightInit, biasInit Initializer) (*Linear, error) {
	if inDim <= 0 {
		return nil, errors.Errorf("input dimension must be positive, got %d", inDim)
	}
	if outDim <= 0 {
		return nil, errors.Errorf("output dimension must be positive, got %d", outDim)
	}

	w := mat.NewDense(inDim, outDim, nil)
	b := mat.NewDense(1, outDim, nil)
	weightInit.Initialize(w)
	biasInit.Initialize(b)

	return &Linear{
		Name:   name,
		InDim:  inDim,
		OutDim: outDim,
		W:      w,
		B:      b,
	}, nil
}

// Forward applies the transform to a batch of row vectors
func (l *Linear) Forward(x *mat.Dense) (*mat.Dense, error) {
	if x == nil {
		return nil, errors.Errorf("%s: nil input", l.Name)
	}
	if _, c := x.Dims(); c != l.InDim {
		return nil, errors.Wrapf(matrix.ErrShapeMismatch, "%s: input has %d columns, expected %d", l.Name, c, l.InDim)
	}

	out, err := matrix.MatMul(x, l.W)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", l.Name)
	}
	return matrix.AddRowVector(out, l.B)
}

// Parameters returns the live weight and bias
func (l *Linear) Parameters() []Parameter {
	return []Parameter{
		{Name: l.Name + ".weight", Value: l.W},
		{Name: l.Name + ".bias", Value: l.B},
	}
}
