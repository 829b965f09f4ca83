/*
Package config loads toolkit-wide options (default generation strategy and
seed, corpus directory) from a TOML file.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/corrigan-dev/bnfgrammar/generate"
)

// Config holds the options read from a TOML configuration file.
type Config struct {
	// Strategy names the default generation strategy: one of
	// "UniformRHSSampling", "RecursionAvoidance", "GreedyTerminals".
	Strategy string `toml:"strategy"`
	// Seed is the default seed passed to generate.GenerateParameterized when
	// the caller does not supply one of their own.
	Seed uint64 `toml:"seed"`
	// CorpusDir is a directory of `.bnf` grammar-literal files (§6) to load
	// via bnflang, for batch generation/recognition tooling.
	CorpusDir string `toml:"corpus_dir"`
}

// defaultConfig mirrors the zero-value behavior of generate.Generate: uniform
// sampling, no fixed seed.
func defaultConfig() Config {
	return Config{Strategy: generate.UniformRHSSampling.String()}
}

// Load reads and decodes the TOML configuration file at path. Unset fields
// take the values of defaultConfig.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := defaultConfig()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// StrategyValue resolves the configured Strategy name to a generate.Strategy,
// failing if it names none of the three known strategies.
func (c *Config) StrategyValue() (generate.Strategy, error) {
	switch c.Strategy {
	case generate.UniformRHSSampling.String():
		return generate.UniformRHSSampling, nil
	case generate.RecursionAvoidance.String():
		return generate.RecursionAvoidance, nil
	case generate.GreedyTerminals.String():
		return generate.GreedyTerminals, nil
	default:
		return 0, fmt.Errorf("unknown generation strategy %q in configuration", c.Strategy)
	}
}
