// Package assets provides the page template and stylesheets of the site and
// the manual.
//
// # Loader Architecture
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (built-in assets)
//	    ├── FilesystemLoader  - loads from custom directory on disk
//	    └── AssetResolver     - combines both with custom-first fallback
//
// AssetResolver is the loader used by the builders. It tries the custom
// FilesystemLoader first and falls back to EmbeddedLoader when an asset is
// not found, so a project can override only the page template or only the
// print stylesheet.
//
// # Directory Structure
//
//	{basePath}/
//	├── styles/
//	│   ├── site.css      # inlined into every page
//	│   └── print.css     # injected before a page is printed
//	└── templates/
//	    └── page.hbs      # Handlebars page template
//
// # Security
//
// Asset names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
