// Package qnetwork implements a two-layer feed-forward Q-network that maps a
// batch of environment states to a distribution over discrete actions:
//
//	softmax(relu(state·W1 + b1)·W2 + b2)
//
// Training, replay and environment interaction live outside this package; a
// trainer reads and updates the parameters through Parameters, Update,
// StateDict/LoadStateDict, CopyFrom and SoftUpdate.
package qnetwork

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"github.com/qnetwork_reorganized/internal/metrics"
	"github.com/qnetwork_reorganized/internal/utils"
	"github.com/qnetwork_reorganized/pkg/matrix"
	"github.com/qnetwork_reorganized/pkg/nn"
)

// Layer indexes inside the sequential model.
const (
	hiddenDepth = 2 // fc1, relu
	logitsDepth = 3 // fc1, relu, fc2
)

// QNetwork maps states to per-action values
type QNetwork struct {
	mu sync.RWMutex

	config Config
	id     uuid.UUID

	fc1   *nn.Linear
	fc2   *nn.Linear
	model *nn.Sequential

	log     *logrus.Entry
	metrics *metrics.Metrics
}

type options struct {
	logger    *logrus.Logger
	newSource nn.SourceFactory
	registry  prometheus.Registerer
	namespace string
}

// Option customizes a QNetwork at construction.
type Option func(*options)

// WithLogger sets the logger; the standard logrus logger is used otherwise.
func WithLogger(l *logrus.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithSourceFactory replaces the generator used to draw initial parameters.
// The factory is called once with the configured seed.
func WithSourceFactory(f nn.SourceFactory) Option {
	return func(o *options) { o.newSource = f }
}

// WithMetrics registers forward-pass collectors under namespace with reg.
// Every series carries a network_id label, so an online and a target
// network can share one registry.
func WithMetrics(reg prometheus.Registerer, namespace string) Option {
	return func(o *options) {
		o.registry = reg
		o.namespace = namespace
	}
}

// NewQNetwork creates a network with the default hidden width.
func NewQNetwork(stateSize, actionSize int, seed int64, opts ...Option) (*QNetwork, error) {
	cfg := NewDefaultConfig(stateSize, actionSize)
	cfg.Seed = seed
	return New(*cfg, opts...)
}

// New creates a network from cfg. fc1.weight, fc1.bias, fc2.weight and
// fc2.bias are drawn in that order from a single generator seeded with cfg.Seed.
func New(cfg Config, opts ...Option) (*QNetwork, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := options{
		logger:    logrus.StandardLogger(),
		newSource: nn.NewSource,
	}
	for _, opt := range opts {
		opt(&o)
	}

	src := o.newSource(cfg.Seed)
	fc1, err := nn.NewLinear("fc1", cfg.StateSize, cfg.HiddenSize, src)
	if err != nil {
		return nil, errors.Wrap(err, "create fc1")
	}
	fc2, err := nn.NewLinear("fc2", cfg.HiddenSize, cfg.ActionSize, src)
	if err != nil {
		return nil, errors.Wrap(err, "create fc2")
	}

	id := uuid.New()

	var m *metrics.Metrics
	if o.registry != nil {
		reg := prometheus.WrapRegistererWith(prometheus.Labels{"network_id": id.String()}, o.registry)
		m, err = metrics.New(reg, o.namespace)
		if err != nil {
			return nil, err
		}
	}

	q := &QNetwork{
		config:  cfg,
		id:      id,
		fc1:     fc1,
		fc2:     fc2,
		model:   nn.NewSequential(fc1, nn.ReLU{}, fc2, nn.Softmax{}),
		metrics: m,
		log: o.logger.WithFields(logrus.Fields{
			"network_id":  id.String(),
			"state_size":  cfg.StateSize,
			"action_size": cfg.ActionSize,
			"hidden_size": cfg.HiddenSize,
		}),
	}
	q.log.WithField("seed", cfg.Seed).Debug("q-network initialized")
	return q, nil
}

// Forward computes the action distribution for every row of states.
// The result has shape [batch, action_size] and each row sums to 1.
func (q *QNetwork) Forward(states *mat.Dense) (*mat.Dense, error) {
	return q.run("forward", states, len(q.model.Layers()))
}

// Logits returns the pre-softmax action values.
func (q *QNetwork) Logits(states *mat.Dense) (*mat.Dense, error) {
	return q.run("logits", states, logitsDepth)
}

// Hidden returns the rectified hidden activations.
func (q *QNetwork) Hidden(states *mat.Dense) (*mat.Dense, error) {
	return q.run("hidden", states, hiddenDepth)
}

// ForwardRows is Forward over plain slices.
func (q *QNetwork) ForwardRows(states [][]float64) ([][]float64, error) {
	batch, err := utils.NewStateBatch(states, q.config.StateSize)
	if err != nil {
		q.rejected("forward", err)
		return nil, err
	}
	out, err := q.Forward(batch)
	if err != nil {
		return nil, err
	}
	return matrix.ToRows(out), nil
}

// ForwardChunked is Forward evaluated chunk rows at a time, so large batches
// are not pushed through the hidden layer in one allocation. The result is
// the same as Forward.
func (q *QNetwork) ForwardChunked(states *mat.Dense, chunk int) (*mat.Dense, error) {
	if states == nil {
		return nil, errors.Wrap(ErrShapeMismatch, "forward: nil state batch")
	}
	if _, cols := states.Dims(); cols != q.config.StateSize {
		err := errors.Wrapf(ErrShapeMismatch, "forward: state has %d components, expected %d", cols, q.config.StateSize)
		q.rejected("forward", err)
		return nil, err
	}
	parts, err := utils.SplitBatch(states, chunk)
	if err != nil {
		return nil, err
	}

	rows, _ := states.Dims()
	result := mat.NewDense(rows, q.config.ActionSize, nil)
	start := 0
	for _, part := range parts {
		out, err := q.Forward(part)
		if err != nil {
			return nil, err
		}
		n, _ := out.Dims()
		result.Slice(start, start+n, 0, q.config.ActionSize).(*mat.Dense).Copy(out)
		start += n
	}
	return result, nil
}

func (q *QNetwork) run(op string,states *mat.Dense, depth int) (*mat.Dense, error) {
	if states == nil {
		return nil, errors.Wrapf(ErrShapeMismatch, "%s: nil state batch", op)
	}
	rows, cols := states.Dims()
	if cols != q.config.StateSize {
		err := errors.Wrapf(ErrShapeMismatch, "%s: state has %d components, expected %d", op, cols, q.config.StateSize)
		q.rejected(op, err)
		return nil, err
	}

	start := time.Now()
	q.mu.RLock()
	out, err := q.model.ForwardUntil(states, depth)
	q.mu.RUnlock()
	if err != nil {
		return nil, errors.Wrap(err, op)
	}

	if op == "forward" {
		q.metrics.ObserveForward(rows, time.Since(start))
	}
	return out, nil
}

func (q *QNetwork) rejected(op string, err error) {
	q.metrics.ShapeMismatch(op)
	q.log.WithError(err).Warn("rejected state batch")
}

// Parameters returns the live parameters in construction order. Mutating
// them while other goroutines call Forward must go through Update.
func (q *QNetwork) Parameters() []nn.Parameter {
	return q.model.Parameters()
}

// Update runs fn with exclusive access to the live parameters.
func (q *QNetwork) Update(fn func(params []nn.Parameter) error) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	return fn(q.model.Parameters())
}

func (q *QNetwork) Config() Config { return q.config }
func (q *QNetwork) StateSize() int { return q.config.StateSize }
func (q *QNetwork) ActionSize() int { return q.config.ActionSize }
func (q *QNetwork) HiddenSize() int { return q.config.HiddenSize }
func (q *QNetwork) Seed() int64 { return q.config.Seed }
func (q *QNetwork) ID() uuid.UUID { return q.id }
