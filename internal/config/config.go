package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-mdmanual/internal/confcodec"
	"github.com/alnah/go-mdmanual/internal/fileutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Source error policies.
const (
	OnSourceErrorAbort = "abort"
	OnSourceErrorSkip  = "skip"
)

// Field length limits.
const (
	MaxTitleLength = 200
	MaxPathLength  = 4096
)

// Margin bounds in millimetres.
const (
	MinMarginMM = 0.0
	MaxMarginMM = 50.0
)

// configDirName is the directory searched under the user config dir.
const configDirName = "go-mdmanual"

// Config holds the configuration of both build stages.
type Config struct {
	Site   SiteConfig   `yaml:"site" toml:"site"`
	Manual ManualConfig `yaml:"manual" toml:"manual"`
	Assets AssetsConfig `yaml:"assets" toml:"assets"`
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath" toml:"basePath"` // Empty = use embedded assets
}

// SiteConfig configures the HTML site build.
type SiteConfig struct {
	InputDir      string   `yaml:"inputDir" toml:"inputDir"`
	OutputDir     string   `yaml:"outputDir" toml:"outputDir"`
	TemplatePath  string   `yaml:"templatePath" toml:"templatePath"`   // Empty = embedded page template
	Priority      []string `yaml:"priority" toml:"priority"`           // Page titles listed first, in this order
	Extensions    []string `yaml:"extensions" toml:"extensions"`       // Source extensions, with leading dot
	OnSourceError string   `yaml:"onSourceError" toml:"onSourceError"` // "abort" or "skip"
	WriteIndex    bool     `yaml:"writeIndex" toml:"writeIndex"`       // Also write the first page as index.html
}

// ManualConfig configures the PDF manual assembly.
type ManualConfig struct {
	Title            string   `yaml:"title" toml:"title"`
	Output           string   `yaml:"output" toml:"output"`
	SectionDir       string   `yaml:"sectionDir" toml:"sectionDir"` // Empty = site output dir
	WorkDir          string   `yaml:"workDir" toml:"workDir"`       // Keep intermediate PDFs here
	PublicationOrder []string `yaml:"publicationOrder" toml:"publicationOrder"`
	Timeout          string   `yaml:"timeout" toml:"timeout"` // Per-section render timeout, e.g. "30s"
	MarginMM         float64  `yaml:"marginMM" toml:"marginMM"`
	FontFile         string   `yaml:"fontFile" toml:"fontFile"` // UTF-8 TTF for the table of contents; empty = Helvetica, cp1252 only
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Site: SiteConfig{
			InputDir:      ".",
			OutputDir:     "site",
			Extensions:    []string{".md", ".readme"},
			OnSourceError: OnSourceErrorAbort,
			WriteIndex:    true,
		},
		Manual: ManualConfig{
			Title:    "Documentation",
			Output:   "manual.pdf",
			Timeout:  "60s",
			MarginMM: 15,
		},
	}
}

// Validate checks enums, lengths and formats.
// Called automatically by LoadConfig, but available for callers that build or
// override a Config themselves.
func (c *Config) Validate() error {
	for _, f := range []struct {
		name  string
		value string
	}{
		{"site.inputDir", c.Site.InputDir},
		{"site.outputDir", c.Site.OutputDir},
		{"site.templatePath", c.Site.TemplatePath},
		{"manual.output", c.Manual.Output},
		{"manual.sectionDir", c.Manual.SectionDir},
		{"manual.workDir", c.Manual.WorkDir},
		{"manual.fontFile", c.Manual.FontFile},
		{"assets.basePath", c.Assets.BasePath},
	} {
		if err := validateFieldLength(f.name, f.value, MaxPathLength); err != nil {
			return err
		}
	}
	if err := validateFieldLength("manual.title", c.Manual.Title, MaxTitleLength); err != nil {
		return err
	}

	if strings.TrimSpace(c.Site.InputDir) == "" {
		return fmt.Errorf("%w: site.inputDir is required", ErrInvalidValue)
	}
	if strings.TrimSpace(c.Site.OutputDir) == "" {
		return fmt.Errorf("%w: site.outputDir is required", ErrInvalidValue)
	}

	switch strings.ToLower(c.Site.OnSourceError) {
	case "", OnSourceErrorAbort, OnSourceErrorSkip:
	default:
		return fmt.Errorf("%w: site.onSourceError %q (must be abort or skip)", ErrInvalidValue, c.Site.OnSourceError)
	}

	for i, ext := range c.Site.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return fmt.Errorf("%w: site.extensions[%d] %q (must start with a dot)", ErrInvalidValue, i, ext)
		}
	}

	for i, name := range c.Site.Priority {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%w: site.priority[%d] is empty", ErrInvalidValue, i)
		}
	}
	for i, name := range c.Manual.PublicationOrder {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%w: manual.publicationOrder[%d] is empty", ErrInvalidValue, i)
		}
	}

	if c.Manual.Timeout != "" {
		d, err := time.ParseDuration(c.Manual.Timeout)
		if err != nil || d <= 0 {
			return fmt.Errorf("%w: manual.timeout %q (must be a positive duration like 30s)", ErrInvalidValue, c.Manual.Timeout)
		}
	}

	if c.Manual.MarginMM < MinMarginMM || c.Manual.MarginMM > MaxMarginMM {
		return fmt.Errorf("%w: manual.marginMM %.1f (must be between %.0f and %.0f)", ErrInvalidValue, c.Manual.MarginMM, MinMarginMM, MaxMarginMM)
	}

	return nil
}

// TimeoutDuration returns the parsed per-section timeout, or zero when unset.
// Call Validate first; an unparsable value yields zero.
func (m ManualConfig) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(m.Timeout)
	if err != nil {
		return 0
	}
	return d
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Keys absent from the file keep their DefaultConfig values.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	format, err := confcodec.FormatOf(configPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := confcodec.DecodeStrict(format, data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml, .toml
// Tries locations in order: current directory, ~/.config/go-mdmanual/
func resolveConfigPath(name string) (string, error) {
	// A bare file name with a known extension is tried as-is first.
	if _, err := confcodec.FormatOf(name); err == nil && fileutil.FileExists(name) {
		return name, nil
	}

	extensions := confcodec.Extensions
	triedPaths := make([]string, 0, len(extensions)*2) // 2 locations

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, configDirName, name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
