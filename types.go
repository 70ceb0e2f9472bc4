package mdmanual

import (
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-mdmanual/internal/pagemap"
	"github.com/alnah/go-mdmanual/internal/pipeline"
)

// DefaultExtensions are the source file extensions discovered when SiteInput
// lists none.
var DefaultExtensions = []string{".md", ".readme"}

// IndexPage is the file name bare "./" links resolve to.
const IndexPage = "index.html"

// htmlExtension is appended to a page title to name its output file.
const htmlExtension = ".html"

// Heading is a level-1 or level-2 heading of a rendered page.
type Heading = pipeline.Heading

// SidebarNode is one entry of the navigation tree.
type SidebarNode = pipeline.SidebarNode

// Subsection is an H2 of a manual section and the section page it lands on.
type Subsection = pagemap.Subsection

// Bookmark is a node of the manual's outline.
type Bookmark = pagemap.Bookmark

// Document is one Markdown source file.
type Document struct {
	Filename string // base name, e.g. "Quick-Start.md"
	Title    string // file name stem, e.g. "Quick-Start"
	Markdown string
}

// Page is the rendered form of one Document.
type Page struct {
	Source   string // source file name
	Title    string
	HTMLName string // output file name, "<Title>.html"
	Headings []Heading
	Body     string // HTML fragment after indexing, link rewriting and collapsing
}

// SiteMap is the ordered list of pages of a site.
type SiteMap struct {
	Pages []Page
}

// Titles returns page titles in site order.
func (m SiteMap) Titles() []string {
	titles := make([]string, len(m.Pages))
	for i, p := range m.Pages {
		titles[i] = p.Title
	}
	return titles
}

// Sidebar builds the navigation tree of the site.
func (m SiteMap) Sidebar() []SidebarNode {
	pages := make([]pipeline.SidebarPage, len(m.Pages))
	for i, p := range m.Pages {
		pages[i] = pipeline.SidebarPage{Title: p.Title, Href: p.HTMLName, Headings: p.Headings}
	}
	return pipeline.BuildSidebar(pages)
}

// SiteInput describes one site build.
type SiteInput struct {
	InputDir       string
	OutputDir      string
	Priority       []string // page titles placed first, in this order
	Extensions     []string // nil = DefaultExtensions
	SkipUnreadable bool     // skip unreadable sources instead of aborting
	WriteIndex     bool     // also write the first page as index.html when no page is titled "index"
}

// SkippedSource records a source left out of the site.
type SkippedSource struct {
	Path string
	Err  error
}

// SiteResult describes a site build.
type SiteResult struct {
	SiteMap SiteMap
	Sidebar []SidebarNode
	Written []string // output paths in write order
	Skipped []SkippedSource
}

// ManualInput describes one manual assembly.
type ManualInput struct {
	SectionDir string   // directory holding the site's HTML pages
	Order      []string // HTML file names, in publication order
	Output     string   // merged PDF path
	Title      string   // printed on the table of contents
	WorkDir    string   // when set, intermediate PDFs are kept here
	MarginMM   float64  // page margin on every page; <= 0 means 15 mm
	FontFile   string   // UTF-8 TrueType font for the table of contents
}

// PdfSection is one rasterized page of the site placed in the manual.
type PdfSection struct {
	Source      string // HTML file name
	Title       string // H1 text
	PageCount   int
	StartPage   int // 1-based page in the merged manual
	Subsections []Subsection
}

// Manual describes an assembled PDF manual.
type Manual struct {
	Path       string
	TOCPages   int
	TotalPages int
	Sections   []PdfSection
	Bookmarks  []Bookmark
}

// Option configures a SiteBuilder or a ManualAssembler.
type Option func(*settings)

// settings holds configuration shared by SiteBuilder and ManualAssembler.
type settings struct {
	logger       *zap.Logger
	timeout      time.Duration
	assetPath    string
	templatePath string
}

// defaultTimeout bounds the rendering of one manual section.
const defaultTimeout = 60 * time.Second

func defaultSettings() settings {
	return settings{
		logger:  zap.NewNop(),
		timeout: defaultTimeout,
	}
}

// WithLogger sets the logger. A nil logger discards output.
func WithLogger(l *zap.Logger) Option {
	return func(s *settings) {
		if l == nil {
			l = zap.NewNop()
		}
		s.logger = l
	}
}

// WithTimeout sets the rendering timeout of one manual section.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("mdmanual: WithTimeout duration must be positive")
	}
	return func(s *settings) {
		s.timeout = d
	}
}

// WithAssetPath sets a directory whose styles/ and templates/ override the
// embedded assets. Assets missing there fall back to the embedded ones.
func WithAssetPath(path string) Option {
	return func(s *settings) {
		s.assetPath = path
	}
}

// WithTemplatePath sets a Handlebars file used as the page template instead
// of the asset named "page".
func WithTemplatePath(path string) Option {
	return func(s *settings) {
		s.templatePath = path
	}
}
