package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/alnah/go-mdmanual/internal/config"
)

// envPrefix starts every environment variable the CLI reads.
const envPrefix = "MDMANUAL_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring config files.
type envConfig struct {
	ConfigPath string // MDMANUAL_CONFIG: config file name or path
	InputDir   string // MDMANUAL_INPUT_DIR: Markdown source directory
	OutputDir  string // MDMANUAL_OUTPUT_DIR: site output directory
	Manual     string // MDMANUAL_MANUAL: manual PDF path
	AssetPath  string // MDMANUAL_ASSET_PATH: custom asset directory
	Timeout    string // MDMANUAL_TIMEOUT: render timeout per page
}

// knownEnvVars lists valid MDMANUAL_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"MDMANUAL_CONFIG":     true,
	"MDMANUAL_INPUT_DIR":  true,
	"MDMANUAL_OUTPUT_DIR": true,
	"MDMANUAL_MANUAL":     true,
	"MDMANUAL_ASSET_PATH": true,
	"MDMANUAL_TIMEOUT":    true,
}

// loadEnvConfig reads configuration from environment variables.
func loadEnvConfig(getenv func(string) string) *envConfig {
	return &envConfig{
		ConfigPath: getenv("MDMANUAL_CONFIG"),
		InputDir:   getenv("MDMANUAL_INPUT_DIR"),
		OutputDir:  getenv("MDMANUAL_OUTPUT_DIR"),
		Manual:     getenv("MDMANUAL_MANUAL"),
		AssetPath:  getenv("MDMANUAL_ASSET_PATH"),
		Timeout:    getenv("MDMANUAL_TIMEOUT"),
	}
}

// warnUnknownEnvVars logs warnings for unrecognized MDMANUAL_* variables.
// Helps catch typos like MDMANUAL_OUTPUTDIR instead of MDMANUAL_OUTPUT_DIR.
func warnUnknownEnvVars(environ []string, w io.Writer) {
	for _, env := range environ {
		if strings.HasPrefix(env, envPrefix) {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig copies set environment values over the config file values.
// Precedence: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeFlags). An unparsable timeout is
// ignored with a warning.
func applyEnvConfig(env *envConfig, cfg *config.Config, w io.Writer) {
	if env.InputDir != "" {
		cfg.Site.InputDir = env.InputDir
	}
	if env.OutputDir != "" {
		cfg.Site.OutputDir = env.OutputDir
	}
	if env.Manual != "" {
		cfg.Manual.Output = env.Manual
	}
	if env.AssetPath != "" {
		cfg.Assets.BasePath = env.AssetPath
	}
	if env.Timeout != "" {
		if d, err := time.ParseDuration(env.Timeout); err == nil && d > 0 {
			cfg.Manual.Timeout = env.Timeout
		} else {
			fmt.Fprintf(w, "warning: ignoring MDMANUAL_TIMEOUT=%q (want a positive duration like 30s)\n", env.Timeout)
		}
	}
}
