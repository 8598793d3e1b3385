package qnetwork

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"github.com/qnetwork_reorganized/pkg/nn"
)

// StateDict returns a copy of every parameter keyed by name.
func (q *QNetwork) StateDict() map[string]*mat.Dense {
	q.mu.RLock()
	defer q.mu.RUnlock()

	dict := make(map[string]*mat.Dense)
	for _, p := range q.model.Parameters() {
		dict[p.Name] = mat.DenseCopyOf(p.Value)
	}
	return dict
}

// LoadStateDict copies dict into the network's parameters. dict must name
// every parameter exactly once with a matching shape; nothing is written
// unless the whole dict is valid.
func (q *QNetwork) LoadStateDict(dict map[string]*mat.Dense) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	params := q.model.Parameters()
	if err := checkStateDict(params, dict); err != nil {
		return err
	}
	for _, p := range params {
		p.Value.Copy(dict[p.Name])
	}
	q.log.Debug("loaded parameters")
	return nil
}

// CopyFrom overwrites the parameters with those of src.
func (q *QNetwork) CopyFrom(src *QNetwork) error {
	if src == q {
		return nil
	}
	return q.LoadStateDict(src.StateDict())
}

// SoftUpdate blends src into the network: θ = tau·θ_src + (1-tau)·θ.
func (q *QNetwork) SoftUpdate(src *QNetwork, tau float64) error {
	if !(tau >= 0 && tau <= 1) {
		return errors.Wrapf(ErrInvalidTau, "got %f", tau)
	}
	if src == q {
		return nil
	}

	dict := src.StateDict()

	q.mu.Lock()
	defer q.mu.Unlock()

	params := q.model.Parameters()
	if err := checkStateDict(params, dict); err != nil {
		return err
	}
	for _, p := range params {
		s := dict[p.Name]
		r, c := p.Value.Dims()
		for i := 0; i < r; i++ {
			for j := 0; j < c; j++ {
				p.Value.Set(i, j, tau*s.At(i, j)+(1-tau)*p.Value.At(i, j))
			}
		}
	}
	q.log.WithFields(logrus.Fields{
		"source_id": src.ID().String(),
		"tau":       tau,
	}).Debug("soft update")
	return nil
}

func checkStateDict(params []nn.Parameter, dict map[string]*mat.Dense) error {
	if len(dict) != len(params) {
		for name := range dict {
			if !hasParameter(params, name) {
				return errors.Wrapf(ErrUnknownParameter, "%q", name)
			}
		}
	}
	for _, p := range params {
		v, ok := dict[p.Name]
		if !ok || v == nil {
			return errors.Wrapf(ErrUnknownParameter, "missing %q", p.Name)
		}
		wr, wc := p.Value.Dims()
		vr, vc := v.Dims()
		if wr != vr || wc != vc {
			return errors.Wrapf(ErrShapeMismatch, "%s: got %dx%d, expected %dx%d", p.Name, vr, vc, wr, wc)
		}
	}
	return nil
}

func hasParameter(params []nn.Parameter, name string) bool {
	for _, p := range params {
		if p.Name == name {
			return true
		}
	}
	return false
}
