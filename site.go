package mdmanual

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/alnah/go-mdmanual/internal/fileutil"
	"github.com/alnah/go-mdmanual/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.MarkdownPreprocessor = (*pipeline.SourcePreprocessor)(nil)
	_ pipeline.HTMLConverter        = (*pipeline.GoldmarkConverter)(nil)
)

// Output permissions.
const (
	dirPerm  = 0o750
	filePerm = 0o644
)

// SiteBuilder turns a directory of Markdown pages into a static HTML site.
// Create with NewSiteBuilder and call Build once per site.
type SiteBuilder struct {
	cfg           settings
	preprocessor  pipeline.MarkdownPreprocessor
	htmlConverter pipeline.HTMLConverter
	template      *pageTemplate
}

// NewSiteBuilder creates a SiteBuilder. The page template is loaded and parsed
// here, so a missing or malformed template fails with ErrTemplate before any
// output is written.
func NewSiteBuilder(opts ...Option) (*SiteBuilder, error) {
	b := &SiteBuilder{
		cfg:           defaultSettings(),
		preprocessor:  &pipeline.SourcePreprocessor{},
		htmlConverter: pipeline.NewGoldmarkConverter(),
	}
	for _, opt := range opts {
		opt(&b.cfg)
	}

	loader, err := newAssetLoader(b.cfg.assetPath)
	if err != nil {
		return nil, err
	}
	b.template, err = loadPageTemplate(loader, b.cfg.templatePath)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Plan discovers and renders every page in memory and returns the ordered
// site map with its sidebar. Nothing is written.
func (b *SiteBuilder) Plan(ctx context.Context, in SiteInput) (*SiteResult, error) {
	paths, err := discoverSources(in.InputDir, in.Extensions)
	if err != nil {
		return nil, err
	}

	result := &SiteResult{}
	pages := make([]Page, 0, len(paths))
	owners := make(map[string]string, len(paths))

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		doc, err := readDocument(path)
		if err != nil {
			if !in.SkipUnreadable {
				return nil, err
			}
			b.cfg.logger.Warn("skipping source", zap.String("path", path), zap.Error(err))
			result.Skipped = append(result.Skipped, SkippedSource{Path: path, Err: err})
			continue
		}

		key := strings.ToLower(doc.Title)
		if prev, ok := owners[key]; ok {
			return nil, fmt.Errorf("%w: %s and %s both produce %s%s", ErrDuplicatePage, prev, doc.Filename, doc.Title, htmlExtension)
		}
		owners[key] = doc.Filename

		page, err := b.renderPage(ctx, doc)
		if err != nil {
			return nil, err
		}
		pages = append(pages, page)
	}

	if len(pages) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoDocuments, in.InputDir)
	}

	result.SiteMap = SiteMap{Pages: OrderPages(pages, in.Priority)}
	result.Sidebar = result.SiteMap.Sidebar()
	return result, nil
}

// Build renders the site and writes one <title>.html per page to the output
// directory, creating it if needed and overwriting existing files.
//
// Every page is rendered before the first write; a write failure part way
// through leaves the files written so far in place.
func (b *SiteBuilder) Build(ctx context.Context, in SiteInput) (result *SiteResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	result, err = b.Plan(ctx, in)
	if err != nil {
		return nil, err
	}

	sidebar := pipeline.RenderSidebar(result.Sidebar)
	outputs := make([]renderedPage, 0, len(result.SiteMap.Pages)+1)
	for _, p := range result.SiteMap.Pages {
		doc, err := b.template.render(pageData{Title: p.Title, Sidebar: sidebar, Content: p.Body})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p.Source, err)
		}
		outputs = append(outputs, renderedPage{name: p.HTMLName, html: doc})
	}
	if in.WriteIndex && !hasIndexPage(result.SiteMap) {
		outputs = append(outputs, renderedPage{name: IndexPage, html: outputs[0].html})
	}

	if err := os.MkdirAll(in.OutputDir, dirPerm); err != nil {
		return nil, fmt.Errorf("%w: creating %s: %v", ErrWriteOutput, in.OutputDir, err)
	}
	for _, out := range outputs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path := filepath.Join(in.OutputDir, out.name)
		if err := os.WriteFile(path, []byte(out.html), filePerm); err != nil { // #nosec G306 -- site pages are public
			return nil, fmt.Errorf("%w: %s: %v", ErrWriteOutput, path, err)
		}
		b.cfg.logger.Info("created", zap.String("path", path))
		result.Written = append(result.Written, path)
	}

	return result, nil
}

// renderedPage is a complete HTML document waiting to be written.
type renderedPage struct {
	name string
	html string
}

// renderPage runs one document through the HTML pipeline.
func (b *SiteBuilder) renderPage(ctx context.Context, doc Document) (Page, error) {
	md := b.preprocessor.PreprocessMarkdown(ctx, doc.Markdown)
	if err := ctx.Err(); err != nil {
		return Page{}, err
	}

	body, err := b.htmlConverter.ToHTML(ctx, md)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Page{}, ctxErr
		}
		return Page{}, fmt.Errorf("%w: %s: %v", ErrHTMLConversion, doc.Filename, err)
	}

	body, headings, err := pipeline.IndexHeadings(body)
	if err != nil {
		return Page{}, fmt.Errorf("%w: %s: indexing headings: %v", ErrHTMLConversion, doc.Filename, err)
	}
	if body, err = pipeline.RewriteLinks(body); err != nil {
		return Page{}, fmt.Errorf("%w: %s: rewriting links: %v", ErrHTMLConversion, doc.Filename, err)
	}
	if body, err = pipeline.CollapseSections(body); err != nil {
		return Page{}, fmt.Errorf("%w: %s: collapsing sections: %v", ErrHTMLConversion, doc.Filename, err)
	}

	b.cfg.logger.Debug("rendered page",
		zap.String("title", doc.Title),
		zap.Int("headings", len(headings)),
	)

	return Page{
		Source:   doc.Filename,
		Title:    doc.Title,
		HTMLName: doc.Title + htmlExtension,
		Headings: headings,
		Body:     body,
	}, nil
}

// discoverSources lists the files of dir with a source extension, sorted by
// name. Subdirectories are not visited.
func discoverSources(dir string, exts []string) ([]string, error) {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceRead, err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !fileutil.HasExtension(e.Name(), exts) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	return paths, nil
}

// readDocument reads one source file as UTF-8 text.
func readDocument(path string) (Document, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the input directory listing
	if err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrSourceRead, err)
	}
	if !utf8.Valid(data) {
		return Document{}, fmt.Errorf("%w: %s: not valid UTF-8", ErrSourceRead, path)
	}
	return Document{
		Filename: filepath.Base(path),
		Title:    fileutil.Stem(path),
		Markdown: string(data),
	}, nil
}

// hasIndexPage reports whether a page already produces index.html.
func hasIndexPage(m SiteMap) bool {
	for _, p := range m.Pages {
		if strings.EqualFold(p.HTMLName, IndexPage) {
			return true
		}
	}
	return false
}
