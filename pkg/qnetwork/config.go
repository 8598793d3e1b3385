package qnetwork

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"
)

// DefaultHiddenSize is the hidden layer width used when none is configured.
const DefaultHiddenSize = 32

// Config represents the configuration for a Q-network
type Config struct {
	StateSize  int   `yaml:"state_size"`
	ActionSize int   `yaml:"action_size"`
	HiddenSize int   `yaml:"hidden_size"`
	Seed       int64 `yaml:"seed"`
}

// NewDefaultConfig creates a configuration with the default hidden width and seed 0
func NewDefaultConfig(stateSize, actionSize int) *Config {
	return &Config{
		StateSize:  stateSize,
		ActionSize: actionSize,
		HiddenSize: DefaultHiddenSize,
		Seed:       0,
	}
}

// NewConfig creates a new configuration with specified values
func NewConfig(stateSize, actionSize, hiddenSize int, seed int64) *Config {
	return &Config{
		StateSize:  stateSize,
		ActionSize: actionSize,
		HiddenSize: hiddenSize,
		Seed:       seed,
	}
}

// Validate reports an error wrapping ErrInvalidConfig for non-positive sizes.
func (c Config) Validate() error {
	if c.StateSize <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "state_size must be positive, got %d", c.StateSize)
	}
	if c.ActionSize <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "action_size must be positive, got %d", c.ActionSize)
	}
	if c.HiddenSize <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "hidden_size must be positive, got %d", c.HiddenSize)
	}
	return nil
}

// LoadConfig reads a YAML config file. A missing hidden_size falls back to
// DefaultHiddenSize.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}

	cfg := Config{HiddenSize: DefaultHiddenSize}
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SaveConfig writes cfg as YAML, creating parent directories as needed
func SaveConfig(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "create dir")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "marshal config")
	}
	return os.WriteFile(path, data, 0644)
}
