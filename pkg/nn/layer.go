// Package nn provides the layers a Q-network is assembled from.
package nn

import "gonum.org/v1/gonum/mat"

// Parameter is a named learnable matrix owned by a layer.
type Parameter struct {
	Name  string
	Value *mat.Dense
}

// Layer is one stage of a feed-forward network.
type Layer interface {
	Forward(x *mat.Dense) (*mat.Dense, error)
	Parameters() []Parameter
}
