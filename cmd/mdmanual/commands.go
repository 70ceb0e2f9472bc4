package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/disiqueira/gotree/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	mdmanual "github.com/alnah/go-mdmanual"
	"github.com/alnah/go-mdmanual/internal/config"
)

// resolveConfig builds the effective configuration.
// Precedence: CLI flags > env vars > config file > defaults.
func resolveConfig(f *commandFlags, env *Environment) (*config.Config, error) {
	envCfg := loadEnvConfig(env.Getenv)
	warnUnknownEnvVars(env.Environ(), env.Stderr)

	cfg := config.DefaultConfig()
	name := f.common.config
	if name == "" {
		name = envCfg.ConfigPath
	}
	if name != "" {
		var err error
		if cfg, err = config.LoadConfig(name); err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}

	applyEnvConfig(envCfg, cfg, env.Stderr)
	mergeFlags(f, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUsage, err)
	}
	return cfg, nil
}

// mergeFlags copies explicitly set flags over cfg (CLI wins).
func mergeFlags(f *commandFlags, cfg *config.Config) {
	if f.set["asset-path"] {
		cfg.Assets.BasePath = f.assetPath
	}

	if f.set["input"] {
		cfg.Site.InputDir = f.site.input
	}
	if f.set["output"] {
		cfg.Site.OutputDir = f.site.output
	}
	if f.set["template"] {
		cfg.Site.TemplatePath = f.site.template
	}
	if f.set["priority"] {
		cfg.Site.Priority = f.site.priority
	}
	if f.set["skip-unreadable"] {
		cfg.Site.OnSourceError = config.OnSourceErrorAbort
		if f.site.skipUnreadable {
			cfg.Site.OnSourceError = config.OnSourceErrorSkip
		}
	}
	if f.set["no-index"] {
		cfg.Site.WriteIndex = !f.site.noIndex
	}

	if f.set["manual"] {
		cfg.Manual.Output = f.manual.output
	}
	if f.set["title"] {
		cfg.Manual.Title = f.manual.title
	}
	if f.set["order"] {
		cfg.Manual.PublicationOrder = f.manual.order
	}
	if f.set["section-dir"] {
		cfg.Manual.SectionDir = f.manual.sectionDir
	}
	if f.set["work-dir"] {
		cfg.Manual.WorkDir = f.manual.workDir
	}
	if f.set["timeout"] {
		cfg.Manual.Timeout = f.manual.timeout
	}
	if f.set["margin"] {
		cfg.Manual.MarginMM = f.manual.margin
	}
	if f.set["font-file"] {
		cfg.Manual.FontFile = f.manual.fontFile
	}
}

// newLogger returns a development console logger on w when verbose, and a
// no-op logger otherwise.
func newLogger(verbose bool, w io.Writer) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), zapcore.DebugLevel)
	return zap.New(core)
}

// builderOptions translates the configuration into library options.
func builderOptions(cfg *config.Config, logger *zap.Logger) []mdmanual.Option {
	opts := []mdmanual.Option{
		mdmanual.WithLogger(logger),
		mdmanual.WithAssetPath(cfg.Assets.BasePath),
		mdmanual.WithTemplatePath(cfg.Site.TemplatePath),
	}
	if d := cfg.Manual.TimeoutDuration(); d > 0 {
		opts = append(opts, mdmanual.WithTimeout(d))
	}
	return opts
}

// siteInput maps the site configuration onto a build request.
func siteInput(cfg *config.Config) mdmanual.SiteInput {
	return mdmanual.SiteInput{
		InputDir:       cfg.Site.InputDir,
		OutputDir:      cfg.Site.OutputDir,
		Priority:       cfg.Site.Priority,
		Extensions:     cfg.Site.Extensions,
		SkipUnreadable: cfg.Site.OnSourceError == config.OnSourceErrorSkip,
		WriteIndex:     cfg.Site.WriteIndex,
	}
}

// manualInput maps the manual configuration onto an assembly request.
// Section pages are read from the site output unless a section dir is set.
func manualInput(cfg *config.Config, order []string) mdmanual.ManualInput {
	sectionDir := cfg.Manual.SectionDir
	if sectionDir == "" {
		sectionDir = cfg.Site.OutputDir
	}
	return mdmanual.ManualInput{
		SectionDir: sectionDir,
		Order:      order,
		Output:     cfg.Manual.Output,
		Title:      cfg.Manual.Title,
		WorkDir:    cfg.Manual.WorkDir,
		MarginMM:   cfg.Manual.MarginMM,
		FontFile:   cfg.Manual.FontFile,
	}
}

// runSite builds the HTML site.
func runSite(ctx context.Context, f *commandFlags, env *Environment) error {
	cfg, err := resolveConfig(f, env)
	if err != nil {
		return err
	}
	start := env.Now()

	if _, err := buildSite(ctx, cfg, f, env); err != nil {
		return err
	}
	printElapsed(f, env, start)
	return nil
}

// runManual assembles the PDF manual from an already built site.
func runManual(ctx context.Context, f *commandFlags, env *Environment) error {
	cfg, err := resolveConfig(f, env)
	if err != nil {
		return err
	}
	start := env.Now()

	if err := buildManual(ctx, cfg, cfg.Manual.PublicationOrder, f, env); err != nil {
		return err
	}
	printElapsed(f, env, start)
	return nil
}

// runBuild builds the site, then the manual. Without a publication order the
// manual follows the site order.
func runBuild(ctx context.Context, f *commandFlags, env *Environment) error {
	cfg, err := resolveConfig(f, env)
	if err != nil {
		return err
	}
	start := env.Now()

	result, err := buildSite(ctx, cfg, f, env)
	if err != nil {
		return err
	}

	order := cfg.Manual.PublicationOrder
	if len(order) == 0 {
		for _, p := range result.SiteMap.Pages {
			order = append(order, p.HTMLName)
		}
	}
	if err := buildManual(ctx, cfg, order, f, env); err != nil {
		return err
	}
	printElapsed(f, env, start)
	return nil
}

// runOutline prints the navigation tree of the site without writing files.
func runOutline(ctx context.Context, f *commandFlags, env *Environment) error {
	cfg, err := resolveConfig(f, env)
	if err != nil {
		return err
	}

	logger := newLogger(f.common.verbose, env.Stderr)
	defer func() { _ = logger.Sync() }()

	builder, err := env.NewSite(builderOptions(cfg, logger)...)
	if err != nil {
		return err
	}
	result, err := builder.Plan(ctx, siteInput(cfg))
	if err != nil {
		return err
	}
	printSkipped(env.Stderr, result.Skipped)

	fmt.Fprint(env.Stdout, outlineTree(cfg.Site.InputDir, result.Sidebar).Print())
	return nil
}

// buildSite runs the site builder and reports written files.
func buildSite(ctx context.Context, cfg *config.Config, f *commandFlags, env *Environment) (*mdmanual.SiteResult, error) {
	logger := newLogger(f.common.verbose, env.Stderr)
	defer func() { _ = logger.Sync() }()

	builder, err := env.NewSite(builderOptions(cfg, logger)...)
	if err != nil {
		return nil, err
	}
	result, err := builder.Build(ctx, siteInput(cfg))
	if err != nil {
		return nil, err
	}

	printSkipped(env.Stderr, result.Skipped)
	if !f.common.quiet {
		for _, path := range result.Written {
			fmt.Fprintf(env.Stdout, "Created: %s\n", path)
		}
	}
	return result, nil
}

// buildManual runs the manual assembler and reports the written manual.
func buildManual(ctx context.Context, cfg *config.Config, order []string, f *commandFlags, env *Environment) error {
	logger := newLogger(f.common.verbose, env.Stderr)
	defer func() { _ = logger.Sync() }()

	assembler, err := env.NewManual(builderOptions(cfg, logger)...)
	if err != nil {
		return err
	}
	defer func() { _ = assembler.Close() }()

	manual, err := assembler.Build(ctx, manualInput(cfg, order))
	if err != nil {
		return err
	}

	if !f.common.quiet {
		fmt.Fprintf(env.Stdout, "Created: %s (%d pages, %d sections)\n", manual.Path, manual.TotalPages, len(manual.Sections))
	}
	return nil
}

// printSkipped warns about sources left out of the site.
func printSkipped(w io.Writer, skipped []mdmanual.SkippedSource) {
	for _, s := range skipped {
		fmt.Fprintf(w, "warning: skipped %s: %v\n", s.Path, s.Err)
	}
}

// printElapsed reports the total run time in verbose mode.
func printElapsed(f *commandFlags, env *Environment, start time.Time) {
	if f.common.verbose && !f.common.quiet {
		fmt.Fprintf(env.Stderr, "Done in %s\n", env.Now().Sub(start).Round(time.Millisecond))
	}
}

// outlineTree converts the sidebar into a printable tree rooted at label.
func outlineTree(label string, sidebar []mdmanual.SidebarNode) gotree.Tree {
	root := gotree.New(label)
	for _, n := range sidebar {
		addOutlineNode(root, n)
	}
	return root
}

// addOutlineNode adds n and its children under parent.
func addOutlineNode(parent gotree.Tree, n mdmanual.SidebarNode) {
	child := parent.Add(n.Text)
	for _, c := range n.Children {
		addOutlineNode(child, c)
	}
}
