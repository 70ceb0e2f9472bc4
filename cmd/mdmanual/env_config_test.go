package main

// Notes:
// - loadEnvConfig: we test every MDMANUAL_* variable through an injected getenv.
// - warnUnknownEnvVars: we test typo detection and that known vars don't warn.
// - applyEnvConfig: we test that set variables override config file values,
//   unset ones leave them alone, and an invalid timeout is ignored with a warning.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"bytes"
	"strings"
	"testing"

	"github.com/alnah/go-mdmanual/internal/config"
)

// mapGetenv returns a getenv reading from vars.
func mapGetenv(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

// ---------------------------------------------------------------------------
// TestLoadEnvConfig - Environment variable loading
// ---------------------------------------------------------------------------

func TestLoadEnvConfig(t *testing.T) {
	t.Parallel()

	got := loadEnvConfig(mapGetenv(map[string]string{
		"MDMANUAL_CONFIG":     "/etc/mdmanual.yaml",
		"MDMANUAL_INPUT_DIR":  "/docs",
		"MDMANUAL_OUTPUT_DIR": "/site",
		"MDMANUAL_MANUAL":     "/out/manual.pdf",
		"MDMANUAL_ASSET_PATH": "/assets",
		"MDMANUAL_TIMEOUT":    "2m",
	}))

	want := envConfig{
		ConfigPath: "/etc/mdmanual.yaml",
		InputDir:   "/docs",
		OutputDir:  "/site",
		Manual:     "/out/manual.pdf",
		AssetPath:  "/assets",
		Timeout:    "2m",
	}
	if *got != want {
		t.Errorf("loadEnvConfig() = %+v, want %+v", *got, want)
	}
}

func TestLoadEnvConfig_Empty(t *testing.T) {
	t.Parallel()

	got := loadEnvConfig(mapGetenv(nil))
	if *got != (envConfig{}) {
		t.Errorf("loadEnvConfig() = %+v, want zero value", *got)
	}
}

// ---------------------------------------------------------------------------
// TestWarnUnknownEnvVars - Typo detection
// ---------------------------------------------------------------------------

func TestWarnUnknownEnvVars(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		environ  []string
		wantWarn []string
		noWarn   []string
	}{
		{
			name:     "typo warns",
			environ:  []string{"MDMANUAL_OUTPUTDIR=/site"},
			wantWarn: []string{"MDMANUAL_OUTPUTDIR"},
		},
		{
			name:    "known vars are quiet",
			environ: []string{"MDMANUAL_OUTPUT_DIR=/site", "MDMANUAL_TIMEOUT=1m"},
			noWarn:  []string{"MDMANUAL_OUTPUT_DIR", "MDMANUAL_TIMEOUT"},
		},
		{
			name:    "other prefixes ignored",
			environ: []string{"HOME=/root", "MD2PDF_STYLE=x"},
			noWarn:  []string{"HOME", "MD2PDF_STYLE"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			warnUnknownEnvVars(tt.environ, &buf)
			for _, s := range tt.wantWarn {
				if !strings.Contains(buf.String(), s) {
					t.Errorf("output should warn about %s, got %q", s, buf.String())
				}
			}
			for _, s := range tt.noWarn {
				if strings.Contains(buf.String(), s) {
					t.Errorf("output should not mention %s, got %q", s, buf.String())
				}
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestApplyEnvConfig - Env over config file
// ---------------------------------------------------------------------------

func TestApplyEnvConfig(t *testing.T) {
	t.Parallel()

	t.Run("set values override", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Site.InputDir = "from-file"
		var buf bytes.Buffer
		applyEnvConfig(&envConfig{
			InputDir:  "/docs",
			OutputDir: "/site",
			Manual:    "/m.pdf",
			AssetPath: "/assets",
			Timeout:   "90s",
		}, cfg, &buf)

		if cfg.Site.InputDir != "/docs" || cfg.Site.OutputDir != "/site" {
			t.Errorf("site = %+v", cfg.Site)
		}
		if cfg.Manual.Output != "/m.pdf" || cfg.Manual.Timeout != "90s" {
			t.Errorf("manual = %+v", cfg.Manual)
		}
		if cfg.Assets.BasePath != "/assets" {
			t.Errorf("assets = %+v", cfg.Assets)
		}
		if buf.Len() != 0 {
			t.Errorf("unexpected warnings: %q", buf.String())
		}
	})

	t.Run("unset values keep config", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Site.InputDir = "from-file"
		applyEnvConfig(&envConfig{}, cfg, &bytes.Buffer{})

		if cfg.Site.InputDir != "from-file" {
			t.Errorf("InputDir = %q, want from-file", cfg.Site.InputDir)
		}
		if cfg.Manual.Timeout != config.DefaultConfig().Manual.Timeout {
			t.Errorf("Timeout = %q, want default", cfg.Manual.Timeout)
		}
	})

	t.Run("invalid timeout ignored", func(t *testing.T) {
		t.Parallel()

		for _, v := range []string{"soon", "-5s", "0s"} {
			cfg := config.DefaultConfig()
			var buf bytes.Buffer
			applyEnvConfig(&envConfig{Timeout: v}, cfg, &buf)

			if cfg.Manual.Timeout != config.DefaultConfig().Manual.Timeout {
				t.Errorf("MDMANUAL_TIMEOUT=%q: Timeout = %q, want default", v, cfg.Manual.Timeout)
			}
			if !strings.Contains(buf.String(), "MDMANUAL_TIMEOUT") {
				t.Errorf("MDMANUAL_TIMEOUT=%q: expected warning, got %q", v, buf.String())
			}
		}
	})
}
