// Package mdmanual turns a directory of Markdown pages into a static HTML site
// and assembles chosen pages of that site into one bookmarked PDF manual.
//
// # Site
//
// Build the site with a SiteBuilder:
//
//	builder, err := mdmanual.NewSiteBuilder()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := builder.Build(ctx, mdmanual.SiteInput{
//	    InputDir:   "docs",
//	    OutputDir:  "site",
//	    Priority:   []string{"Home", "Quick-Start"},
//	    WriteIndex: true,
//	})
//
// Every source file becomes <title>.html, where the title is the file name
// without extension. Each page goes through these stages:
//
//  1. Markdown rendering via Goldmark (GFM tables, fenced code, syntax highlighting)
//  2. Anchor ids for every h1 and h2 that lacks one, unique within the page
//  3. Link rewriting: links to sibling .md pages point at their .html output
//  4. Section collapsing: each h2 and the content up to the next h2 become a
//     toggle that starts closed
//
// Pages named in Priority come first; the others follow sorted by title. One
// sidebar (page, h1, h2) is built from the ordered pages and shared by all of
// them through the Handlebars page template.
//
// # Manual
//
// A ManualAssembler prints the pages of a publication order with headless
// Chrome and merges them behind a generated table of contents:
//
//	assembler, err := mdmanual.NewManualAssembler(mdmanual.WithTimeout(time.Minute))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer assembler.Close()
//
//	manual, err := assembler.Build(ctx, mdmanual.ManualInput{
//	    SectionDir: "site",
//	    Order:      []string{"Home.html", "Guide.html"},
//	    Output:     "manual.pdf",
//	    Title:      "Documentation",
//	})
//
// Every h2 of a section is mapped to the page it was printed on, first through
// the outline Chrome embeds in the section PDF, then by an ordered search of
// the extracted page text. A heading found by neither aborts the build with
// ErrHeadingLookupMiss; page numbers are never guessed.
//
// # Custom Assets
//
// WithAssetPath points at a directory holding styles/site.css,
// styles/print.css or templates/page.hbs; missing files fall back to the
// embedded defaults. WithTemplatePath replaces the page template with any
// Handlebars file using the {{title}}, {{{sidebar}}} and {{{content}}} slots.
//
// # Browser Requirements
//
// PDF generation requires Chrome/Chromium. The go-rod library automatically
// downloads a managed Chromium instance on first run (~/.cache/rod/browser/).
//
// For containers and CI environments, set ROD_NO_SANDBOX=1 to disable the
// Chrome sandbox. Use ROD_BROWSER_BIN to specify a custom Chrome binary.
package mdmanual
