// Package config resolves pipeline settings from a YAML file, environment
// variables, and CLI flags, tracking where each value came from.
// Precedence: CLI > environment > config file > default.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ValueSource names where a resolved value came from.
type ValueSource string

const (
	SourceDefault ValueSource = "default"
	SourceConfig  ValueSource = "config"
	SourceEnv     ValueSource = "env"
	SourceCLI     ValueSource = "cli"
)

// ResolvedValue is a setting together with its provenance.
type ResolvedValue struct {
	Value  string
	Source ValueSource
	From   string
}

// ResolveOptions carries the CLI-level overrides into resolution.
type ResolveOptions struct {
	ConfigPath  string
	CLIDataDir  string
	CLIDBPath   string
	CLIMinHands string
	CLIClusters string
	CLISeed     string
	CLILogLevel string
}

// Config is the fully resolved pipeline configuration.
type Config struct {
	ConfigPath string

	DataDir  ResolvedValue
	DBPath   ResolvedValue
	MinHands ResolvedValue
	Clusters ResolvedValue
	Seed     ResolvedValue
	LogLevel ResolvedValue
}

type fileConfig struct {
	DataDir  string `yaml:"data_dir"`
	DBPath   string `yaml:"db_path"`
	MinHands *int   `yaml:"min_hands"`
	Clusters *int   `yaml:"clusters"`
	Seed     *int64 `yaml:"seed"`
	LogLevel string `yaml:"log_level"`
}

// DefaultConfigPath is the conventional config file location.
const DefaultConfigPath = "grinder.yaml"

// Resolve loads the config file (when present) and applies env and CLI
// overrides. A missing config file is not an error; a malformed one is.
func Resolve(opts ResolveOptions) (Config, error) {
	path := strings.TrimSpace(opts.ConfigPath)
	if path == "" {
		path = DefaultConfigPath
	}

	cfg := Config{
		ConfigPath: path,
		DataDir:    ResolvedValue{Value: "data", Source: SourceDefault},
		DBPath:     ResolvedValue{Value: "poker.db", Source: SourceDefault},
		MinHands:   ResolvedValue{Value: "10", Source: SourceDefault},
		Clusters:   ResolvedValue{Value: "4", Source: SourceDefault},
		Seed:       ResolvedValue{Value: "42", Source: SourceDefault},
		LogLevel:   ResolvedValue{Value: "info", Source: SourceDefault},
	}

	fc, err := loadFile(path)
	if err != nil {
		return cfg, err
	}
	if fc != nil {
		apply(&cfg.DataDir, fc.DataDir, SourceConfig, path)
		apply(&cfg.DBPath, fc.DBPath, SourceConfig, path)
		applyInt(&cfg.MinHands, fc.MinHands, path)
		applyInt(&cfg.Clusters, fc.Clusters, path)
		if fc.Seed != nil {
			cfg.Seed = ResolvedValue{Value: strconv.FormatInt(*fc.Seed, 10), Source: SourceConfig, From: path}
		}
		apply(&cfg.LogLevel, fc.LogLevel, SourceConfig, path)
	}

	applyEnv(&cfg.DataDir, "GRINDER_DATA_DIR")
	applyEnv(&cfg.DBPath, "GRINDER_DB_PATH")
	applyEnv(&cfg.MinHands, "GRINDER_MIN_HANDS")
	applyEnv(&cfg.Clusters, "GRINDER_CLUSTERS")
	applyEnv(&cfg.Seed, "GRINDER_SEED")
	applyEnv(&cfg.LogLevel, "GRINDER_LOG_LEVEL")

	apply(&cfg.DataDir, opts.CLIDataDir, SourceCLI, "")
	apply(&cfg.DBPath, opts.CLIDBPath, SourceCLI, "")
	apply(&cfg.MinHands, opts.CLIMinHands, SourceCLI, "")
	apply(&cfg.Clusters, opts.CLIClusters, SourceCLI, "")
	apply(&cfg.Seed, opts.CLISeed, SourceCLI, "")
	apply(&cfg.LogLevel, opts.CLILogLevel, SourceCLI, "")

	if _, err := cfg.MinHandsInt(); err != nil {
		return cfg, err
	}
	if _, err := cfg.ClustersInt(); err != nil {
		return cfg, err
	}
	if _, err := cfg.SeedInt64(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// MinHandsInt returns the qualification floor as an integer. Zero is a
// valid floor meaning every player qualifies; negatives are rejected.
func (c Config) MinHandsInt() (int, error) {
	n, err := strconv.Atoi(c.MinHands.Value)
	if err != nil {
		return 0, fmt.Errorf("min_hands %q is not an integer", c.MinHands.Value)
	}
	if n < 0 {
		return 0, fmt.Errorf("min_hands %d must not be negative", n)
	}
	return n, nil
}

// ClustersInt returns the cluster count as an integer.
func (c Config) ClustersInt() (int, error) {
	n, err := strconv.Atoi(c.Clusters.Value)
	if err != nil {
		return 0, fmt.Errorf("clusters %q is not an integer", c.Clusters.Value)
	}
	return n, nil
}

// SeedInt64 returns the clustering seed.
func (c Config) SeedInt64() (int64, error) {
	n, err := strconv.ParseInt(c.Seed.Value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("seed %q is not an integer", c.Seed.Value)
	}
	return n, nil
}

func loadFile(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return &fc, nil
}

func apply(rv *ResolvedValue, value string, source ValueSource, from string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	*rv = ResolvedValue{Value: value, Source: source, From: from}
}

func applyInt(rv *ResolvedValue, value *int, from string) {
	if value == nil {
		return
	}
	*rv = ResolvedValue{Value: strconv.Itoa(*value), Source: SourceConfig, From: from}
}

func applyEnv(rv *ResolvedValue, key string) {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		*rv = ResolvedValue{Value: strings.TrimSpace(value), Source: SourceEnv, From: key}
	}
}
