package qnetwork

import (
	"encoding/gob"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

const checkpointVersion = 1

type checkpoint struct {
	Version int
	Config  Config
	Params  map[string][]byte
}

// Save writes the config and parameters to w.
func (q *QNetwork) Save(w io.Writer) error {
	ckpt := checkpoint{
		Version: checkpointVersion,
		Config:  q.config,
		Params:  make(map[string][]byte),
	}
	for name, value := range q.StateDict() {
		data, err := value.MarshalBinary()
		if err != nil {
			return errors.Wrapf(err, "marshal %s", name)
		}
		ckpt.Params[name] = data
	}

	if err := gob.NewEncoder(w).Encode(&ckpt); err != nil {
		return errors.Wrap(err, "encode checkpoint")
	}
	q.log.Debug("checkpoint saved")
	return nil
}

// Load rebuilds a network from a checkpoint written by Save.
func Load(r io.Reader, opts ...Option) (*QNetwork, error) {
	var ckpt checkpoint
	if err := gob.NewDecoder(r).Decode(&ckpt); err != nil {
		return nil, errors.Wrapf(ErrBadCheckpoint, "decode: %v", err)
	}
	if ckpt.Version != checkpointVersion {
		return nil, errors.Wrapf(ErrBadCheckpoint, "unsupported version %d", ckpt.Version)
	}

	if err := ckpt.Config.Validate(); err != nil {
		return nil, errors.Wrapf(ErrBadCheckpoint, "%v", err)
	}

	dict, err := ckpt.decodeParams()
	if err != nil {
		return nil, err
	}

	q, err := New(ckpt.Config, opts...)
	if err != nil {
		return nil, err
	}
	if err := q.LoadStateDict(dict); err != nil {
		return nil, err
	}
	return q, nil
}

// decodeParams unmarshals every stored parameter and checks it against the
// shape the stored config implies, before any network is allocated.
func (c *checkpoint) decodeParams() (map[string]*mat.Dense, error) {
	cfg := c.Config
	shapes := map[string][2]int{
		"fc1.weight": {cfg.StateSize, cfg.HiddenSize},
		"fc1.bias":   {1, cfg.HiddenSize},
		"fc2.weight": {cfg.HiddenSize, cfg.ActionSize},
		"fc2.bias":   {1, cfg.ActionSize},
	}
	if len(c.Params) != len(shapes) {
		return nil, errors.Wrapf(ErrBadCheckpoint, "%d parameters stored, expected %d", len(c.Params), len(shapes))
	}

	dict := make(map[string]*mat.Dense, len(shapes))
	for name, shape := range shapes {
		data, ok := c.Params[name]
		if !ok {
			return nil, errors.Wrapf(ErrBadCheckpoint, "missing parameter %s", name)
		}
		var m mat.Dense
		if err := m.UnmarshalBinary(data); err != nil {
			return nil, errors.Wrapf(ErrBadCheckpoint, "%s: %v", name, err)
		}
		if r, cols := m.Dims(); r != shape[0] || cols != shape[1] {
			return nil, errors.Wrapf(ErrBadCheckpoint, "%s is %dx%d, config implies %dx%d", name, r, cols, shape[0], shape[1])
		}
		dict[name] = &m
	}
	return dict, nil
}

// SaveFile writes a checkpoint to path, creating parent directories.
func (q *QNetwork) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "create dir")
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create checkpoint")
	}
	if err := q.Save(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadFile reads a checkpoint from path.
func LoadFile(path string, opts ...Option) (*QNetwork, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open checkpoint")
	}
	defer f.Close()
	return Load(f, opts...)
}
