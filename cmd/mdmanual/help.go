package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdmanual <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  site       Build the HTML site from a directory of Markdown")
	fmt.Fprintln(w, "  manual     Assemble the PDF manual from built HTML pages")
	fmt.Fprintln(w, "  build      Build the site, then the manual")
	fmt.Fprintln(w, "  outline    Print the navigation tree without writing files")
	fmt.Fprintln(w, "  doctor     Check the browser and environment")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'mdmanual help <command>' for details on a specific command.")
}

// printCommandUsage prints usage for one command.
func printCommandUsage(w io.Writer, cmd string) {
	switch cmd {
	case cmdSite:
		fmt.Fprintln(w, "Usage: mdmanual site [flags]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Convert every Markdown page of a directory into one HTML file per page,")
		fmt.Fprintln(w, "sharing a collapsible sidebar.")
	case cmdManual:
		fmt.Fprintln(w, "Usage: mdmanual manual [flags]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Print the HTML pages of the publication order with headless Chrome and")
		fmt.Fprintln(w, "merge them behind a table of contents into one bookmarked PDF.")
	case cmdBuild:
		fmt.Fprintln(w, "Usage: mdmanual build [flags]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Build the site, then the manual. Without a publication order the manual")
		fmt.Fprintln(w, "follows the site order.")
	case cmdOutline:
		fmt.Fprintln(w, "Usage: mdmanual outline [flags]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Print the page, H1 and H2 tree of the site without writing files.")
	case cmdDoctor:
		fmt.Fprintln(w, "Usage: mdmanual doctor [--json]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Check that Chrome is available and the environment can print manuals.")
		return
	default:
		printUsage(w)
		return
	}

	groups := commandGroups[cmd]
	fmt.Fprintln(w)
	fmt.Fprintln(w, "General:")
	fmt.Fprintln(w, "  -c, --config <name>        Config file name or path")
	fmt.Fprintln(w, "      --asset-path <dir>     Directory overriding embedded styles and templates")
	fmt.Fprintln(w, "  -q, --quiet                Only show errors")
	fmt.Fprintln(w, "  -v, --verbose              Show debug logs and timing")

	if groups&withSite != 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Site:")
		fmt.Fprintln(w, "  -i, --input <dir>          Directory of Markdown sources")
		fmt.Fprintln(w, "  -o, --output <dir>         Site output directory")
		fmt.Fprintln(w, "      --template <file>      Handlebars page template")
		fmt.Fprintln(w, "      --priority <titles>    Page titles listed first (comma-separated)")
		fmt.Fprintln(w, "      --skip-unreadable      Skip unreadable sources instead of aborting")
		fmt.Fprintln(w, "      --no-index             Do not write index.html")
	}

	if groups&withManual != 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Manual:")
		fmt.Fprintln(w, "      --manual <path>        Manual PDF path")
		fmt.Fprintln(w, "      --title <s>            Title printed on the table of contents")
		fmt.Fprintln(w, "      --order <pages>        HTML pages in publication order (comma-separated)")
		fmt.Fprintln(w, "      --section-dir <dir>    Directory of the HTML pages (default: site output)")
		fmt.Fprintln(w, "      --work-dir <dir>       Keep intermediate PDFs in this directory")
		fmt.Fprintln(w, "  -t, --timeout <duration>   Render timeout per page (e.g., 30s, 2m)")
		fmt.Fprintln(w, "      --margin <mm>          Page margin in millimetres (0-50, 0 = 15)")
		fmt.Fprintln(w, "      --font-file <path>     UTF-8 TrueType font for the table of contents")
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  MDMANUAL_CONFIG, MDMANUAL_INPUT_DIR, MDMANUAL_OUTPUT_DIR, MDMANUAL_MANUAL,")
	fmt.Fprintln(w, "  MDMANUAL_ASSET_PATH, MDMANUAL_TIMEOUT")
	if groups&withManual != 0 {
		fmt.Fprintln(w, "  ROD_BROWSER_BIN            Chrome binary to use")
		fmt.Fprintln(w, "  ROD_NO_SANDBOX=1           Disable the Chrome sandbox (Docker/CI)")
	}
}

// runHelp prints help for the command named in args, or the main usage.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}
	if !isCommand(args[0]) {
		fmt.Fprintf(env.Stderr, "unknown help topic: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	printCommandUsage(env.Stdout, args[0])
	return ExitSuccess
}
