// Package config loads docsearch configuration from a TOML file with
// sensible defaults for every field.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Duration decodes TOML duration strings like "24h" or "750ms".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for go-toml.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Std converts to the standard library type.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the full docsearch configuration.
type Config struct {
	Source   SourceConfig   `toml:"source"`
	Cache    CacheConfig    `toml:"cache"`
	Search   SearchConfig   `toml:"search"`
	Enhancer EnhancerConfig `toml:"enhancer"`
	Log      LogConfig      `toml:"log"`
}

// SourceConfig names where the corpus comes from.
type SourceConfig struct {
	// EnhancedURL serves the document array with embeddings attached.
	EnhancedURL string `toml:"enhanced_url"`
	// StandardURL is the fallback without embeddings.
	StandardURL string `toml:"standard_url"`
	// File overrides both URLs with a local JSON file, watched for
	// changes while serving.
	File string `toml:"file"`

	// CurrentVersion is the context token unversioned documents belong
	// to, and the fallback for unknown caller contexts.
	CurrentVersion string `toml:"current_version"`
	// States lists unreleased-content tokens ("drafts", "proposals").
	States []string `toml:"states"`
}

// CacheConfig controls the persistent corpus cache.
type CacheConfig struct {
	// Path of the SQLite database. Empty means ~/.docsearch/cache.db;
	// "off" disables persistence.
	Path string `toml:"path"`

	CorpusTTL   Duration `toml:"corpus_ttl"`
	MetadataTTL Duration `toml:"metadata_ttl"`
}

// SearchConfig carries the fusion tuning constants.
type SearchConfig struct {
	KeywordWeight  float64 `toml:"keyword_weight"`
	SemanticWeight float64 `toml:"semantic_weight"`
	SemanticScale  float64 `toml:"semantic_scale"`
	Limit          int     `toml:"limit"`
}

// EnhancerConfig controls the semantic layer.
type EnhancerConfig struct {
	// Provider is "http" or "local"; empty disables the semantic layer.
	Provider string `toml:"provider"`
	Endpoint string `toml:"endpoint"`
	Model    string `toml:"model"`

	StartDelay  Duration `toml:"start_delay"`
	LoadTimeout Duration `toml:"load_timeout"`
	MinMemoryGB float64  `toml:"min_memory_gb"`

	SimilarityThreshold float64 `toml:"similarity_threshold"`
	BoostMin            float64 `toml:"boost_min"`
	BoostMax            float64 `toml:"boost_max"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string `toml:"level"`
	Pretty bool   `toml:"pretty"`
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		Source: SourceConfig{
			CurrentVersion: "current",
			States:         []string{"drafts", "proposals"},
		},
		Cache: CacheConfig{
			CorpusTTL:   Duration(24 * time.Hour),
			MetadataTTL: Duration(1 * time.Hour),
		},
		Search: SearchConfig{
			KeywordWeight:  0.4,
			SemanticWeight: 0.6,
			SemanticScale:  100.0,
			Limit:          10,
		},
		Enhancer: EnhancerConfig{
			Provider:            "local",
			Model:               "nomic-embed-text",
			StartDelay:          Duration(3 * time.Second),
			LoadTimeout:         Duration(60 * time.Second),
			MinMemoryGB:         2,
			SimilarityThreshold: 0.3,
			BoostMin:            1.2,
			BoostMax:            3.0,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads a TOML config file over the defaults. An empty path returns
// the defaults; a missing file at an explicit path is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// CachePath resolves the cache database location, creating its directory.
// Returns "" when persistence is disabled.
func (c *Config) CachePath() (string, error) {
	switch c.Cache.Path {
	case "off":
		return "", nil
	case "":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		dir := filepath.Join(home, ".docsearch")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("creating cache directory: %w", err)
		}
		return filepath.Join(dir, "cache.db"), nil
	default:
		if err := os.MkdirAll(filepath.Dir(c.Cache.Path), 0o755); err != nil {
			return "", fmt.Errorf("creating cache directory: %w", err)
		}
		return c.Cache.Path, nil
	}
}
