package mdmanual

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/alnah/go-mdmanual/internal/assets"
	"github.com/alnah/go-mdmanual/internal/fileutil"
	"github.com/alnah/go-mdmanual/internal/pagemap"
	"github.com/alnah/go-mdmanual/internal/pdfkit"
)

// pdfToolkit reads, draws and combines PDF documents.
type pdfToolkit interface {
	PageCount(data []byte) (int, error)
	Outline(data []byte) ([]pagemap.OutlineEntry, error)
	PageTexts(data []byte) ([]string, error)
	RenderTOC(toc pdfkit.TOC) ([]byte, int, error)
	Merge(w io.Writer, docs [][]byte) error
	SetOutline(w io.Writer, data []byte, bms []pagemap.Bookmark) error
}

// Compile-time interface check.
var _ pdfToolkit = (*pdfkit.Toolkit)(nil)

// maxTOCPasses bounds the search for a table of contents whose page count
// matches the page numbers printed on it.
const maxTOCPasses = 5

// tocFileName names the table of contents PDF in the work directory.
const tocFileName = "00-toc.pdf"

// ManualAssembler prints site pages and assembles them into one PDF manual
// with a table of contents and a two-level outline.
// Create with NewManualAssembler and Close when done.
type ManualAssembler struct {
	cfg        settings
	rasterizer rasterizer
	toolkit    pdfToolkit
}

// NewManualAssembler creates a ManualAssembler. The browser is started on the
// first Build.
func NewManualAssembler(opts ...Option) (*ManualAssembler, error) {
	a := &ManualAssembler{
		cfg:     defaultSettings(),
		toolkit: pdfkit.New(),
	}
	for _, opt := range opts {
		opt(&a.cfg)
	}

	loader, err := newAssetLoader(a.cfg.assetPath)
	if err != nil {
		return nil, err
	}
	printCSS, err := loader.LoadStyle(assets.PrintStyleName)
	if err != nil {
		return nil, fmt.Errorf("loading print style: %w", err)
	}
	a.rasterizer = newRodRasterizer(a.cfg.timeout, printCSS)
	return a, nil
}

// Close releases browser resources.
func (a *ManualAssembler) Close() error {
	if a.rasterizer != nil {
		return a.rasterizer.Close()
	}
	return nil
}

// Build prints every page of the publication order, locates its subsections,
// and writes the merged manual to in.Output.
//
// Any section failure aborts the build: the manual is written in one atomic
// step after every page number is known, so a failed build never leaves a
// partial manual behind.
func (a *ManualAssembler) Build(ctx context.Context, in ManualInput) (manual *Manual, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if len(in.Order) == 0 {
		return nil, ErrEmptyPublicationOrder
	}
	if in.Output == "" {
		return nil, fmt.Errorf("%w: manual output path is empty", ErrWriteOutput)
	}
	if in.MarginMM <= 0 {
		in.MarginMM = pdfkit.DefaultMarginMM
	}
	if in.WorkDir != "" {
		if err := os.MkdirAll(in.WorkDir, dirPerm); err != nil {
			return nil, fmt.Errorf("%w: creating %s: %v", ErrWriteOutput, in.WorkDir, err)
		}
	}

	sources := make([]string, len(in.Order))
	sections := make([]pagemap.Section, len(in.Order))
	docs := make([][]byte, 0, len(in.Order)+1)
	for i, name := range in.Order {
		section, data, err := a.buildSection(ctx, in, name)
		if err != nil {
			return nil, err
		}
		sources[i] = sectionFileName(name)
		sections[i] = section
		docs = append(docs, data)

		if in.WorkDir != "" {
			path := filepath.Join(in.WorkDir, fmt.Sprintf("%02d-%s.pdf", i+1, fileutil.Stem(sources[i])))
			if err := fileutil.WriteFileAtomic(path, data, filePerm); err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrWriteOutput, path, err)
			}
		}
	}

	toc, placed, err := a.renderTOC(in, sections)
	if err != nil {
		return nil, err
	}
	if in.WorkDir != "" {
		path := filepath.Join(in.WorkDir, tocFileName)
		if err := fileutil.WriteFileAtomic(path, toc.data, filePerm); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrWriteOutput, path, err)
		}
	}

	bookmarks := pagemap.Outline(placed)
	data, err := a.assemble(append([][]byte{toc.data}, docs...), bookmarks)
	if err != nil {
		return nil, err
	}

	total := pagemap.TotalPages(toc.pages, sections)
	if got, err := a.toolkit.PageCount(data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFAssembly, err)
	} else if got != total {
		return nil, fmt.Errorf("%w: merged manual has %d pages, expected %d", ErrPDFAssembly, got, total)
	}

	if dir := filepath.Dir(in.Output); dir != "" {
		if err := os.MkdirAll(dir, dirPerm); err != nil {
			return nil, fmt.Errorf("%w: creating %s: %v", ErrWriteOutput, dir, err)
		}
	}
	if err := fileutil.WriteFileAtomic(in.Output, data, filePerm); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrWriteOutput, in.Output, err)
	}
	a.cfg.logger.Info("created", zap.String("path", in.Output), zap.Int("pages", total))

	manual = &Manual{
		Path:       in.Output,
		TOCPages:   toc.pages,
		TotalPages: total,
		Sections:   make([]PdfSection, len(placed)),
		Bookmarks:  bookmarks,
	}
	for i, p := range placed {
		manual.Sections[i] = PdfSection{
			Source:      sources[i],
			Title:       p.Title,
			PageCount:   p.PageCount,
			StartPage:   p.Start,
			Subsections: p.Subsections,
		}
	}
	return manual, nil
}

// buildSection prints one page and maps each of its subsections to a local
// page.
func (a *ManualAssembler) buildSection(ctx context.Context, in ManualInput, name string) (pagemap.Section, []byte, error) {
	if err := ctx.Err(); err != nil {
		return pagemap.Section{}, nil, err
	}

	file := sectionFileName(name)
	path := file
	if !filepath.IsAbs(path) {
		path = filepath.Join(in.SectionDir, file)
	}
	if !fileutil.FileExists(path) {
		return pagemap.Section{}, nil, fmt.Errorf("%w: %s", ErrSectionNotFound, path)
	}

	sectionCtx, cancel := context.WithTimeout(ctx, a.cfg.timeout)
	defer cancel()

	r, err := a.rasterizer.Rasterize(sectionCtx, path, in.MarginMM)
	if err != nil {
		if ctx.Err() == nil && errors.Is(sectionCtx.Err(), context.DeadlineExceeded) {
			return pagemap.Section{}, nil, fmt.Errorf("%w: %s: timed out after %s: %w", ErrRender, file, a.cfg.timeout, context.DeadlineExceeded)
		}
		return pagemap.Section{}, nil, fmt.Errorf("%w: %s: %w", ErrRender, file, err)
	}

	count, err := a.toolkit.PageCount(r.PDF)
	if err != nil {
		return pagemap.Section{}, nil, fmt.Errorf("%w: %s: %v", ErrPDFAssembly, file, err)
	}

	locals, err := a.locate(file, r)
	if err != nil {
		return pagemap.Section{}, nil, err
	}

	section := pagemap.Section{Title: r.Title, PageCount: count}
	for i, title := range pagemap.Subsections(r.Headings) {
		section.Subsections = append(section.Subsections, pagemap.Subsection{Title: title, LocalPage: locals[i]})
	}

	a.cfg.logger.Debug("rendered section",
		zap.String("source", file),
		zap.String("title", r.Title),
		zap.Int("pages", count),
		zap.Int("subsections", len(section.Subsections)),
	)
	return section, r.PDF, nil
}

// locate finds the local page of every subsection, preferring the outline
// Chrome embedded when it pairs up with the page's headings and falling back
// to the extracted page text.
func (a *ManualAssembler) locate(file string, r *rasterized) ([]int, error) {
	if len(pagemap.Subsections(r.Headings)) == 0 {
		return []int{}, nil
	}

	outline, err := a.toolkit.Outline(r.PDF)
	if err != nil {
		a.cfg.logger.Debug("section outline unreadable", zap.String("source", file), zap.Error(err))
		outline = nil
	}
	texts, textErr := a.toolkit.PageTexts(r.PDF)
	if textErr != nil {
		a.cfg.logger.Warn("section text unreadable", zap.String("source", file), zap.Error(textErr))
	}

	locals, err := pagemap.Locate(r.Headings, outline, texts)
	if err != nil {
		if textErr != nil {
			return nil, fmt.Errorf("%w: %s: %w (text extraction: %v)", ErrHeadingLookupMiss, file, err, textErr)
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrHeadingLookupMiss, file, err)
	}
	return locals, nil
}

// tocDocument is a rendered table of contents.
type tocDocument struct {
	data  []byte
	pages int
}

// renderTOC draws the table of contents until its page count agrees with the
// layout its page numbers were computed from.
func (a *ManualAssembler) renderTOC(in ManualInput, sections []pagemap.Section) (tocDocument, []pagemap.Placed, error) {
	pages := 1
	for range maxTOCPasses {
		placed := pagemap.Layout(pages, sections)
		data, n, err := a.toolkit.RenderTOC(pdfkit.TOC{
			Title:    in.Title,
			Entries:  pagemap.Entries(placed),
			MarginMM: in.MarginMM,
			FontFile: in.FontFile,
		})
		if err != nil {
			return tocDocument{}, nil, fmt.Errorf("%w: table of contents: %v", ErrPDFAssembly, err)
		}
		if n == pages {
			return tocDocument{data: data, pages: n}, placed, nil
		}
		pages = n
	}
	return tocDocument{}, nil, fmt.Errorf("%w: table of contents page count did not settle", ErrPDFAssembly)
}

// assemble merges the documents in order and replaces the outline.
func (a *ManualAssembler) assemble(docs [][]byte, bookmarks []pagemap.Bookmark) ([]byte, error) {
	var merged bytes.Buffer
	if err := a.toolkit.Merge(&merged, docs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFAssembly, err)
	}

	var out bytes.Buffer
	if err := a.toolkit.SetOutline(&out, merged.Bytes(), bookmarks); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFAssembly, err)
	}
	return out.Bytes(), nil
}

// sectionFileName adds the .html extension to a bare page title.
func sectionFileName(name string) string {
	if filepath.Ext(name) == "" {
		return name + htmlExtension
	}
	return name
}
