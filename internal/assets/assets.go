package assets

// Built-in asset names.
const (
	// PageTemplateName is the Handlebars template every site page is rendered with.
	PageTemplateName = "page"

	// SiteStyleName is the stylesheet inlined into every site page.
	SiteStyleName = "site"

	// PrintStyleName is the stylesheet injected before a page is printed.
	PrintStyleName = "print"
)

// Asset file extensions.
const (
	styleExtension    = ".css"
	templateExtension = ".hbs"
)
