// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package meshsim

import (
	"os"
	"runtime"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Configuration defaults.
//
const (
	DefaultMaxSettleIterations = 64
	DefaultTickRate            = 10 * time.Millisecond
)

// Config holds the simulation settings.
//
type Config struct {
	// Workers is the number of worker goroutines evaluating chips. Values
	// less than 1 select GOMAXPROCS.
	Workers int `yaml:"workers" mapstructure:"workers"`
	// MaxSettleIterations bounds the number of evaluate/commit rounds in a
	// single tick. A tick that has not settled by then is flagged as
	// oscillating.
	MaxSettleIterations int `yaml:"max_settle_iterations" mapstructure:"max_settle_iterations"`
	// TickRate is the wall clock period between two background ticks while
	// the simulation is running. It does not affect Step.
	TickRate time.Duration `yaml:"tick_rate" mapstructure:"tick_rate"`
}

// DefaultConfig returns the default configuration.
//
func DefaultConfig() Config {
	return Config{
		Workers:             runtime.GOMAXPROCS(0),
		MaxSettleIterations: DefaultMaxSettleIterations,
		TickRate:            DefaultTickRate,
	}
}

// Validate checks c for invalid values.
//
func (c Config) Validate() error {
	if c.MaxSettleIterations < 1 {
		return &ValidationError{Design: "config", Reason: "max_settle_iterations must be at least 1"}
	}
	if c.TickRate <= 0 {
		return &ValidationError{Design: "config", Reason: "tick_rate must be positive"}
	}
	return nil
}

func (c Config) workers() int {
	if c.Workers < 1 {
		return runtime.GOMAXPROCS(0)
	}
	return c.Workers
}

// DecodeConfig decodes a generic map, like the ones produced by YAML or JSON
// decoders, on top of the default configuration. Durations may be given as
// strings ("20ms"). Unknown keys are an error.
//
func DecodeConfig(m map[string]interface{}) (Config, error) {
	cfg := DefaultConfig()
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           &cfg,
	})
	if err != nil {
		return cfg, errors.Wrap(err, "create config decoder")
	}
	if err := dec.Decode(m); err != nil {
		return cfg, errors.Wrap(err, "decode config")
	}
	return cfg, cfg.Validate()
}

// LoadConfig reads a YAML configuration file. A missing file yields the
// default configuration.
//
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return Config{}, errors.Wrap(err, "read config")
	}
	var m map[string]interface{}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Config{}, errors.Wrapf(err, "parse %s", path)
	}
	return DecodeConfig(m)
}
