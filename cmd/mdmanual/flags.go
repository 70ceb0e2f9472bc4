package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// siteFlags holds flags of the HTML site build.
type siteFlags struct {
	input          string
	output         string
	template       string
	priority       []string
	skipUnreadable bool
	noIndex        bool
}

// manualFlags holds flags of the PDF manual assembly.
type manualFlags struct {
	output     string
	title      string
	order      []string
	sectionDir string
	workDir    string
	timeout    string
	margin     float64
	fontFile   string
}

// commandFlags holds every flag a command may use.
type commandFlags struct {
	common    commonFlags
	site      siteFlags
	manual    manualFlags
	assetPath string
	set       map[string]bool // flags given on the command line
}

// Flag groups per command.
const (
	withSite   = 1 << iota // site, build, outline
	withManual             // manual, build
)

// commandGroups lists the flag groups each command accepts.
var commandGroups = map[string]int{
	cmdSite:    withSite,
	cmdManual:  withManual,
	cmdBuild:   withSite | withManual,
	cmdOutline: withSite,
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs and timing")
}

// addSiteFlags adds site build flags to a FlagSet.
func addSiteFlags(fs *flag.FlagSet, f *siteFlags) {
	fs.StringVarP(&f.input, "input", "i", "", "directory of Markdown sources")
	fs.StringVarP(&f.output, "output", "o", "", "site output directory")
	fs.StringVar(&f.template, "template", "", "Handlebars page template file")
	fs.StringSliceVar(&f.priority, "priority", nil, "page titles listed first (comma-separated)")
	fs.BoolVar(&f.skipUnreadable, "skip-unreadable", false, "skip unreadable sources instead of aborting")
	fs.BoolVar(&f.noIndex, "no-index", false, "do not write index.html")
}

// addManualFlags adds manual assembly flags to a FlagSet.
func addManualFlags(fs *flag.FlagSet, f *manualFlags) {
	fs.StringVar(&f.output, "manual", "", "manual PDF path")
	fs.StringVar(&f.title, "title", "", "title printed on the table of contents")
	fs.StringSliceVar(&f.order, "order", nil, "HTML pages in publication order (comma-separated)")
	fs.StringVar(&f.sectionDir, "section-dir", "", "directory of the HTML pages (default: site output)")
	fs.StringVar(&f.workDir, "work-dir", "", "keep intermediate PDFs in this directory")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "render timeout per page (e.g., 30s, 2m)")
	fs.Float64Var(&f.margin, "margin", 0, "page margin in millimetres (0-50, 0 = 15)")
	fs.StringVar(&f.fontFile, "font-file", "", "UTF-8 TrueType font for the table of contents")
}

// parseCommandFlags parses the flags of cmd. Positional arguments are
// rejected: every input comes from flags or the config file.
func parseCommandFlags(cmd string, args []string, usage io.Writer) (*commandFlags, error) {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(usage)
	f := &commandFlags{set: make(map[string]bool)}

	groups := commandGroups[cmd]
	addCommonFlags(fs, &f.common)
	fs.StringVar(&f.assetPath, "asset-path", "", "directory overriding embedded styles and templates")
	if groups&withSite != 0 {
		addSiteFlags(fs, &f.site)
	}
	if groups&withManual != 0 {
		addManualFlags(fs, &f.manual)
	}

	fs.Usage = func() { printCommandUsage(usage, cmd) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: unexpected argument %q", ErrUsage, fs.Arg(0))
	}

	fs.Visit(func(fl *flag.Flag) { f.set[fl.Name] = true })
	return f, nil
}
