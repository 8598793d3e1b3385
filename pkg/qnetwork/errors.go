package qnetwork

import (
	"github.com/pkg/errors"

	"github.com/qnetwork_reorganized/pkg/matrix"
)

var (
	// ErrShapeMismatch is returned when a state batch's trailing dimension
	// differs from the network's state size, or when parameters being loaded
	// have the wrong shape.
	ErrShapeMismatch = matrix.ErrShapeMismatch

	ErrInvalidConfig    = errors.New("qnetwork: invalid config")
	ErrUnknownParameter = errors.New("qnetwork: unknown parameter")
	ErrInvalidTau       = errors.New("qnetwork: tau must be in [0, 1]")
	ErrBadCheckpoint    = errors.New("qnetwork: malformed checkpoint")
)
