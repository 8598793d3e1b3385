package nn

import "gonum.org/v1/gonum/mat"

// Sequential is a container for layers arranged in a sequential order.
type Sequential struct {
	layers []Layer
}

// NewSequential chains layers so the output of each feeds the next.
func NewSequential(layers ...Layer) *Sequential {
	return &Sequential{layers: layers}
}

// Add appends a layer to the end of the chain.
func (s *Sequential) Add(layer Layer) {
	s.layers = append(s.layers, layer)
}

// Forward performs the forward pass for the entire sequence of layers.
func (s *Sequential) Forward(x *mat.Dense) (*mat.Dense, error) {
	var err error
	for _, layer := range s.layers {
		x, err = layer.Forward(x)
		if err != nil {
			return nil, err
		}
	}
	return x, nil
}

// ForwardUntil runs the first n layers only. n is clamped to [0, len(layers)];
// with n <= 0 the input is returned as is.
func (s *Sequential) ForwardUntil(x *mat.Dense, n int) (*mat.Dense, error) {
	if n < 0 {
		n = 0
	}
	if n > len(s.layers) {
		n = len(s.layers)
	}
	var err error
	for _, layer := range s.layers[:n] {
		x, err = layer.Forward(x)
		if err != nil {
			return nil, err
		}
	}
	return x, nil
}

// Parameters returns a slice of all parameters from all layers in the model.
func (s *Sequential) Parameters() []Parameter {
	params := []Parameter{}
	for _, layer := range s.layers {
		params = append(params, layer.Parameters()...)
	}
	return params
}

// Layers returns the chain in evaluation order. The slice is shared with s.
func (s *Sequential) Layers() []Layer {
	return s.layers
}
