package ringbuf

import (
	"fmt"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Config describes a buffer for declarative setup. Unlike NewBuffer the
// config path allocates the backing storage region itself, for callers that
// do not manage storage manually.
type Config struct {
	// Buffer name, used as the label on metrics and traces
	Name string `json:"name" yaml:"name"`
	// Total number of cells the storage region holds
	Capacity int `json:"capacity" yaml:"capacity"`
	// Size of one cell in bytes
	CellSize int `json:"cell_size" yaml:"cell_size"`
}

func DefaultConfig() Config {
	return Config{
		Name:     "default",
		Capacity: 64,
		CellSize: 1,
	}
}

func (c *Config) Validate() error {
	if c.Capacity <= 0 {
		return fmt.Errorf("ringbuf: config capacity must be positive, got %d", c.Capacity)
	}
	if c.CellSize <= 0 {
		return fmt.Errorf("ringbuf: config cell_size must be positive, got %d", c.CellSize)
	}
	return nil
}

// ParseConfigYAML unmarshals a YAML config over the defaults.
func ParseConfigYAML(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ParseConfigJSON unmarshals a JSON config over the defaults.
func ParseConfigJSON(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// NewBufferFromConfig allocates a capacity*cell_size byte storage region and
// binds a new buffer to it. Options given here are applied after the
// config-derived OptionName, so an explicit OptionName wins.
func NewBufferFromConfig(cfg Config, options ...interface{}) (*Buffer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	storage := make([]byte, cfg.Capacity*cfg.CellSize)
	opts := append([]interface{}{OptionName{Name: cfg.Name}}, options...)
	return NewBuffer(storage, cfg.Capacity, cfg.CellSize, opts...)
}
