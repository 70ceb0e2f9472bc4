package main

import (
	"context"
	"io"
	"os"
	"time"

	mdmanual "github.com/alnah/go-mdmanual"
)

// siteBuilder is the part of mdmanual.SiteBuilder the CLI uses.
type siteBuilder interface {
	Plan(ctx context.Context, in mdmanual.SiteInput) (*mdmanual.SiteResult, error)
	Build(ctx context.Context, in mdmanual.SiteInput) (*mdmanual.SiteResult, error)
}

// manualBuilder is the part of mdmanual.ManualAssembler the CLI uses.
type manualBuilder interface {
	Build(ctx context.Context, in mdmanual.ManualInput) (*mdmanual.Manual, error)
	Close() error
}

// Compile-time interface checks.
var (
	_ siteBuilder   = (*mdmanual.SiteBuilder)(nil)
	_ manualBuilder = (*mdmanual.ManualAssembler)(nil)
)

// Environment holds injectable dependencies for testability.
// Includes I/O, time, process environment and builder construction.
type Environment struct {
	Now       func() time.Time
	Stdout    io.Writer
	Stderr    io.Writer
	Getenv    func(string) string
	Environ   func() []string
	NewSite   func(opts ...mdmanual.Option) (siteBuilder, error)
	NewManual func(opts ...mdmanual.Option) (manualBuilder, error)
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:     time.Now,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Getenv:  os.Getenv,
		Environ: os.Environ,
		NewSite: func(opts ...mdmanual.Option) (siteBuilder, error) {
			return mdmanual.NewSiteBuilder(opts...)
		},
		NewManual: func(opts ...mdmanual.Option) (manualBuilder, error) {
			return mdmanual.NewManualAssembler(opts...)
		},
	}
}
