package config

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/dshills/textengine/internal/config/loader"
	"github.com/dshills/textengine/internal/engine/buffer"
	"github.com/dshills/textengine/internal/engine/lineindex"
	"github.com/dshills/textengine/internal/engine/lru"
	"github.com/dshills/textengine/internal/engine/rope"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "TEXTENGINE_"

// Config holds every textengine setting.
type Config struct {
	Engine EngineConfig `yaml:"engine"`
	Log    LogConfig    `yaml:"log"`
	Script ScriptConfig `yaml:"script"`
}

// EngineConfig tunes the rope, its line index and the buffer line cache.
type EngineConfig struct {
	ChunkSize          int     `yaml:"chunkSize"`
	RebalanceThreshold int     `yaml:"rebalanceThreshold"`
	RebuildFactor      float64 `yaml:"rebuildFactor"`
	LineIndexChunk     int     `yaml:"lineIndexChunk"`
	LineCacheSize      int     `yaml:"lineCacheSize"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level string `yaml:"level"`
	// File is the log destination; empty means stderr.
	File        string `yaml:"file"`
	Development bool   `yaml:"development"`
}

// ScriptConfig configures edit script watching.
type ScriptConfig struct {
	DebounceMs int `yaml:"debounceMs"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			ChunkSize:          rope.DefaultChunkSize,
			RebalanceThreshold: rope.DefaultRebalanceThreshold,
			RebuildFactor:      rope.DefaultRebuildFactor,
			LineIndexChunk:     lineindex.DefaultChunkLines,
			LineCacheSize:      lru.DefaultCapacity,
		},
		Log: LogConfig{
			Level: "info",
		},
		Script: ScriptConfig{
			DebounceMs: 100,
		},
	}
}

// Load builds a configuration from the defaults, the file at path (if path
// is not empty) and TEXTENGINE_* environment variables, then validates it.
func Load(path string) (*Config, error) {
	return LoadWith(loader.DefaultFS(), loader.NewEnvLoader(EnvPrefix), path)
}

// LoadWith is Load with an explicit file system and environment loader.
// A nil env skips the environment layer.
func LoadWith(fsys loader.FileSystem, env loader.Loader, path string) (*Config, error) {
	merged, err := toMap(Default())
	if err != nil {
		return nil, err
	}

	if path != "" {
		l, err := loader.ForPath(fsys, path)
		if err != nil {
			return nil, err
		}
		file, err := l.Load()
		if err != nil {
			return nil, err
		}
		if file == nil {
			return nil, fmt.Errorf("%s: %w", path, ErrFileNotFound)
		}
		merged = loader.DeepMerge(merged, file)
	}

	if env != nil {
		vars, err := env.Load()
		if err != nil {
			return nil, fmt.Errorf("loading environment: %w", err)
		}
		merged = loader.DeepMerge(merged, vars)
	}

	cfg, err := fromMap(merged)
	if err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// toMap converts a Config to the untyped form the loaders produce.
func toMap(cfg *Config) (map[string]any, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// fromMap decodes a merged map into a Config, rejecting unknown keys.
func fromMap(m map[string]any) (*Config, error) {
	data, err := yaml.Marshal(m)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every setting and reports all failures together.
func (c *Config) Validate() error {
	var errs []error
	positive := func(path string, v int) {
		if v <= 0 {
			errs = append(errs, &ValidationError{Path: path, Message: "must be positive", Value: v})
		}
	}

	positive("engine.chunkSize", c.Engine.ChunkSize)
	positive("engine.rebalanceThreshold", c.Engine.RebalanceThreshold)
	positive("engine.lineIndexChunk", c.Engine.LineIndexChunk)
	positive("engine.lineCacheSize", c.Engine.LineCacheSize)
	if c.Engine.RebuildFactor < 1 {
		errs = append(errs, &ValidationError{
			Path:    "engine.rebuildFactor",
			Message: "must be at least 1",
			Value:   c.Engine.RebuildFactor,
		})
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, &ValidationError{Path: "log.level", Message: "unknown level", Value: c.Log.Level})
	}
	if c.Script.DebounceMs < 0 {
		errs = append(errs, &ValidationError{Path: "script.debounceMs", Message: "must not be negative", Value: c.Script.DebounceMs})
	}

	return errors.Join(errs...)
}

// Debounce returns the script debounce delay.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Script.DebounceMs) * time.Millisecond
}

// RopeOptions returns rope options for the engine settings.
func (c *Config) RopeOptions() []rope.Option {
	return []rope.Option{
		rope.WithChunkSize(c.Engine.ChunkSize),
		rope.WithRebalanceThreshold(c.Engine.RebalanceThreshold),
		rope.WithRebuildFactor(c.Engine.RebuildFactor),
		rope.WithLineIndexChunk(c.Engine.LineIndexChunk),
	}
}

// BufferOptions returns buffer options for the engine settings.
func (c *Config) BufferOptions(log *zap.Logger) []buffer.Option {
	return []buffer.Option{
		buffer.WithLogger(log),
		buffer.WithLineCacheSize(c.Engine.LineCacheSize),
		buffer.WithRopeOptions(c.RopeOptions()...),
	}
}
