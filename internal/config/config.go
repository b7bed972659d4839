// Package config reads runtime settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ironsheep/pixelmap-mcp/internal/engine"
)

// Environment variables read by FromEnv.
const (
	EnvLogLevel      = "PIXELMAP_LOG_LEVEL"
	EnvPalette       = "PIXELMAP_PALETTE"
	EnvAllowLarge    = "PIXELMAP_ALLOW_LARGE"
	EnvCacheChunk    = "PIXELMAP_CACHE_CHUNK"
	EnvQuantizeChunk = "PIXELMAP_QUANTIZE_CHUNK"
)

// Config holds the server and CLI settings.
type Config struct {
	// Debug enables verbose logging to stderr.
	Debug bool

	// PalettePath is a colour DB loaded at start-up. Empty means none.
	PalettePath string

	// AllowLarger raises the image dimension limit for every load.
	AllowLarger bool

	// CacheChunk and QuantizeChunk are pixels per cooperative chunk.
	CacheChunk    int
	QuantizeChunk int
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		CacheChunk:    engine.DefaultCacheChunk,
		QuantizeChunk: engine.DefaultQuantizeChunk,
	}
}

// FromEnv returns Default overlaid with the PIXELMAP_* environment variables.
func FromEnv() (Config, error) {
	return fromLookup(os.LookupEnv)
}

func fromLookup(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	if v, ok := lookup(EnvLogLevel); ok {
		cfg.Debug = strings.EqualFold(strings.TrimSpace(v), "debug")
	}
	if v, ok := lookup(EnvPalette); ok {
		cfg.PalettePath = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvAllowLarge); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid %s %q: %w", EnvAllowLarge, v, err)
		}
		cfg.AllowLarger = b
	}

	var err error
	if cfg.CacheChunk, err = chunkSize(lookup, EnvCacheChunk, cfg.CacheChunk); err != nil {
		return cfg, err
	}
	if cfg.QuantizeChunk, err = chunkSize(lookup, EnvQuantizeChunk, cfg.QuantizeChunk); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func chunkSize(lookup func(string) (string, bool), name string, def int) (int, error) {
	v, ok := lookup(name)
	if !ok || v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, fmt.Errorf("invalid %s %q: %w", name, v, err)
	}
	if n <= 0 {
		return def, fmt.Errorf("invalid %s %d: must be positive", name, n)
	}
	return n, nil
}

// EngineOptions maps the chunk settings onto engine options.
func (c Config) EngineOptions() engine.Options {
	return engine.Options{
		CacheChunk:    c.CacheChunk,
		QuantizeChunk: c.QuantizeChunk,
	}
}
