// Package policy turns network outputs into discrete actions.
package policy

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/qnetwork_reorganized/pkg/matrix"
	"github.com/qnetwork_reorganized/pkg/nn"
)

var (
	ErrInvalidEpsilon = errors.New("policy: epsilon must be in [0, 1]")
	ErrNoSource       = errors.New("policy: epsilon-greedy needs a random source")
)

// Estimator produces one row of action values per state row.
type Estimator interface {
	Forward(states *mat.Dense) (*mat.Dense, error)
}

// Policy selects an action for a single state.
type Policy interface {
	Name() string
	Act(state []float64) (int, error)
}

func evaluate(est Estimator, state []float64) (*mat.Dense, error) {
	if len(state) == 0 {
		return nil, errors.Wrap(matrix.ErrShapeMismatch, "empty state")
	}
	values, err := est.Forward(mat.NewDense(1, len(state), state))
	if err != nil {
		return nil, errors.Wrap(err, "evaluate state")
	}
	return values, nil
}

// Greedy always picks the highest-valued action.
type Greedy struct {
	Estimator Estimator
}

func (g Greedy) Name() string { return "greedy" }

func (g Greedy) Act(state []float64) (int, error) {
	values, err := evaluate(g.Estimator, state)
	if err != nil {
		return 0, err
	}
	return matrix.ArgmaxRow(values, 0), nil
}

// EpsilonGreedy explores uniformly with probability Epsilon.
type EpsilonGreedy struct {
	Estimator Estimator
	Epsilon   float64
	Src       nn.Source
}

func NewEpsilonGreedy(est Estimator, epsilon float64, src nn.Source) (*EpsilonGreedy, error) {
	p := &EpsilonGreedy{Estimator: est, Epsilon: epsilon, Src: src}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// validate is checked on every call; literals skip NewEpsilonGreedy.
func (p *EpsilonGreedy) validate() error {
	if !(p.Epsilon >= 0 && p.Epsilon <= 1) {
		return errors.Wrapf(ErrInvalidEpsilon, "got %f", p.Epsilon)
	}
	if p.Src == nil {
		return ErrNoSource
	}
	return nil
}

func (p *EpsilonGreedy) Name() string { return "epsilon-greedy" }

func (p *EpsilonGreedy) Act(state []float64) (int, error) {
	if err := p.validate(); err != nil {
		return 0, err
	}
	values, err := evaluate(p.Estimator, state)
	if err != nil {
		return 0, err
	}
	_, n := values.Dims()
	if p.Src.Float64() < p.Epsilon {
		a := int(p.Src.Float64() * float64(n))
		if a == n {
			a = n - 1
		}
		return a, nil
	}
	return matrix.ArgmaxRow(values, 0), nil
}

// Probabilities returns the action distribution Act samples from.
func (p *EpsilonGreedy) Probabilities(state []float64) ([]float64, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	values, err := evaluate(p.Estimator, state)
	if err != nil {
		return nil, err
	}
	_, n := values.Dims()
	best := matrix.ArgmaxRow(values, 0)

	pdf := make([]float64, n)
	for a := range pdf {
		if a == best {
			pdf[a] = 1 - p.Epsilon + p.Epsilon/float64(n)
		} else {
			pdf[a] = p.Epsilon / float64(n)
		}
	}
	return pdf, nil
}
