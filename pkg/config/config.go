package config

import (
	"fmt"
	"os"

	"dsbench/pkg/common"

	"gopkg.in/yaml.v3"
)

const (
	DefaultBenchSize  = 1000
	DefaultHashBits   = 4
	DefaultTreeDegree = 32
)

type Config struct {
	Dataset  DatasetConfig  `yaml:"dataset"`
	Bench    BenchConfig    `yaml:"bench"`
	Server   ServerConfig   `yaml:"server"`
	Storage  StorageConfig  `yaml:"storage"`
	Resource ResourceConfig `yaml:"resource"`
}

type DatasetConfig struct {
	Values     *string `yaml:"values"`    // comma-separated integers (required)
	HashBits   uint    `yaml:"hash_bits"` // 4 => 16 buckets
	TreeDegree int     `yaml:"tree_degree"`
}

type BenchConfig struct {
	Enabled    *bool  `yaml:"enabled"`
	Size       *int   `yaml:"size"`
	HashBits   uint   `yaml:"hash_bits"`
	TreeDegree int    `yaml:"tree_degree"`
	Seed       uint64 `yaml:"seed"` // 0 = seed from the clock
}

type ServerConfig struct {
	Addr string `yaml:"addr"` // HTTP Listen Address (e.g. :8080)
}

type StorageConfig struct {
	ResultsDB string `yaml:"results_db"` // sqlite file for benchmark history, empty = off
}

type ResourceConfig struct {
	MemoryLimitBytes int64 `yaml:"memory_limit_bytes"` // 0 = unlimited
}

// Default returns a config with every optional field filled in. The dataset
// values are left unset.
func Default() *Config {
	cfg := &Config{
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
	applyDefaults(cfg)
	return cfg
}

func Load(configPath string) (*Config, error) {
	cfg := Default()

	if configPath == "" {
		for _, p := range []string{"configs/dsbench.yaml", "dsbench.yaml"} {
			data, err := os.ReadFile(p)
			if err == nil {
				if err := yaml.Unmarshal(data, cfg); err != nil {
					return cfg, err
				}
				applyDefaults(cfg)
				return cfg, nil
			}
		}
		return cfg, nil // no file found: use defaults
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return cfg, err
	}

	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Dataset.HashBits == 0 {
		cfg.Dataset.HashBits = DefaultHashBits
	}
	if cfg.Dataset.TreeDegree < 2 {
		cfg.Dataset.TreeDegree = DefaultTreeDegree
	}
	if cfg.Bench.Enabled == nil {
		enabled := true
		cfg.Bench.Enabled = &enabled
	}
	if cfg.Bench.Size == nil {
		size := DefaultBenchSize
		cfg.Bench.Size = &size
	}
	if cfg.Bench.HashBits == 0 {
		cfg.Bench.HashBits = DefaultHashBits
	}
	if cfg.Bench.TreeDegree < 2 {
		cfg.Bench.TreeDegree = DefaultTreeDegree
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
}

// SetValues sets the dataset string, as the --int-str flag does.
func (c *Config) SetValues(s string) {
	c.Dataset.Values = &s
}

// SetBenchSize overrides the benchmark workload size.
func (c *Config) SetBenchSize(n int) {
	c.Bench.Size = &n
}

func (c *Config) BenchSize() int {
	if c.Bench.Size == nil {
		return DefaultBenchSize
	}
	return *c.Bench.Size
}

func (c *Config) BenchEnabled() bool {
	return c.Bench.Enabled == nil || *c.Bench.Enabled
}

// Validate checks the fields that have no usable default.
func (c *Config) Validate() error {
	if c.Dataset.Values == nil {
		return fmt.Errorf("%w: missing dataset values", common.ErrInvalidConfiguration)
	}
	if c.Bench.Size != nil && *c.Bench.Size < 0 {
		return fmt.Errorf("%w: bench size %d is negative", common.ErrInvalidConfiguration, *c.Bench.Size)
	}
	if c.Resource.MemoryLimitBytes < 0 {
		return fmt.Errorf("%w: negative memory limit", common.ErrInvalidConfiguration)
	}
	return nil
}
