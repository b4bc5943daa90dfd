// Package config — .readmeloc.yaml configuration file support.
//
// When a .readmeloc.yaml file exists in the project root, it overrides the
// built-in defaults: file paths, locale pair, the switcher line, batching
// parameters, and the translation dictionaries. A missing file means the
// defaults apply unchanged; a malformed file is an error (a config the user
// wrote must not be silently ignored).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the default config file name.
const FileName = ".readmeloc.yaml"

// ---------------------------------------------------------------------------
// YAML schema
// ---------------------------------------------------------------------------

// Config is the top-level .readmeloc.yaml structure.
type Config struct {
	// Source is the document to translate, relative to the project root.
	Source string `yaml:"source,omitempty"`
	// Output is the translated document path, relative to the project root.
	Output string `yaml:"output,omitempty"`
	// Cache is the translation cache file path, relative to the project root.
	Cache string `yaml:"cache,omitempty"`

	// SourceLang / TargetLang form the locale pair (e.g. "en" / "zh-CN").
	SourceLang string `yaml:"source_lang,omitempty"`
	TargetLang string `yaml:"target_lang,omitempty"`

	// Switcher is the locale-switcher line prepended to the output and
	// inserted into the source by `readmeloc patch`.
	Switcher string `yaml:"switcher,omitempty"`

	// Proxy is an optional HTTP/HTTPS proxy URL for translation requests.
	Proxy string `yaml:"proxy,omitempty"`

	// MaxBatchChars caps the cumulative character count of one translation
	// batch (one separator unit per string).
	MaxBatchChars int `yaml:"max_batch_chars,omitempty"`
	// BatchDelaySeconds is the pause between batch calls.
	BatchDelaySeconds float64 `yaml:"batch_delay_seconds,omitempty"`

	// Headings / Categories overlay the built-in dictionaries.
	Headings   map[string]string `yaml:"headings,omitempty"`
	Categories map[string]string `yaml:"categories,omitempty"`
	// Paragraphs are custom pattern/template pairs evaluated before the
	// built-in paragraph patterns.
	Paragraphs []ParagraphRule `yaml:"paragraphs,omitempty"`
}

// ParagraphRule is a custom paragraph pattern override.
type ParagraphRule struct {
	// Pattern is a Go regular expression matched at the start of the line.
	Pattern string `yaml:"pattern"`
	// Template is the replacement, with ${n} group references.
	Template string `yaml:"template"`
}

// ---------------------------------------------------------------------------
// Defaults and loading
// ---------------------------------------------------------------------------

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Source:        "README.md",
		Output:        "README_zh.md",
		Cache:         ".zh-desc-cache.json",
		SourceLang:    "en",
		TargetLang:    "zh-CN",
		Switcher:      "[English](README.md) | [中文](README_zh.md)",
		MaxBatchChars: 4000,
	}
}

// Load reads .readmeloc.yaml from rootDir and merges it over the defaults.
// A missing file returns the defaults without error.
func Load(rootDir string) (*Config, error) {
	cfg := Default()

	path := filepath.Join(rootDir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if file.Source != "" {
		cfg.Source = file.Source
	}
	if file.Output != "" {
		cfg.Output = file.Output
	}
	if file.Cache != "" {
		cfg.Cache = file.Cache
	}
	if file.SourceLang != "" {
		cfg.SourceLang = file.SourceLang
	}
	if file.TargetLang != "" {
		cfg.TargetLang = file.TargetLang
	}
	if file.Switcher != "" {
		cfg.Switcher = file.Switcher
	}
	if file.Proxy != "" {
		cfg.Proxy = file.Proxy
	}
	if file.MaxBatchChars > 0 {
		cfg.MaxBatchChars = file.MaxBatchChars
	}
	if file.BatchDelaySeconds > 0 {
		cfg.BatchDelaySeconds = file.BatchDelaySeconds
	}
	cfg.Headings = file.Headings
	cfg.Categories = file.Categories

	for i, p := range file.Paragraphs {
		if p.Pattern == "" {
			return nil, fmt.Errorf("%s: paragraph rule #%d has no pattern", path, i+1)
		}
	}
	cfg.Paragraphs = file.Paragraphs

	return cfg, nil
}

// BatchDelay returns the inter-batch delay as a Duration (0 = use the
// translator's default).
func (c *Config) BatchDelay() time.Duration {
	return time.Duration(c.BatchDelaySeconds * float64(time.Second))
}

// SourcePath resolves the source document path against rootDir.
func (c *Config) SourcePath(rootDir string) string {
	return filepath.Join(rootDir, c.Source)
}

// OutputPath resolves the output document path against rootDir.
func (c *Config) OutputPath(rootDir string) string {
	return filepath.Join(rootDir, c.Output)
}

// CachePath resolves the cache file path against rootDir.
func (c *Config) CachePath(rootDir string) string {
	return filepath.Join(rootDir, c.Cache)
}
