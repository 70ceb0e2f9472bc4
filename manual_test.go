package mdmanual

// Notes:
// - fakeRasterizer stands in for headless Chrome; fakeToolkit records what the
//   assembler asks of the PDF layer so page arithmetic can be checked exactly
// - TestManualAssembler_Build_RealToolkit draws section PDFs with gofpdf and
//   runs them through the real pdfkit toolkit (text search path, merge, outline)

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/alnah/go-mdmanual/internal/pagemap"
	"github.com/alnah/go-mdmanual/internal/pdfkit"
)

// ---------------------------------------------------------------------------
// Fakes
// ---------------------------------------------------------------------------

type fakeRasterizer struct {
	sections map[string]*rasterized // keyed by file base name
	err      error
	block    bool // wait for the context instead of returning
	calls    []string
	margins  []float64
	closed   bool
}

func (f *fakeRasterizer) Rasterize(ctx context.Context, path string, marginMM float64) (*rasterized, error) {
	name := filepath.Base(path)
	f.calls = append(f.calls, name)
	f.margins = append(f.margins, marginMM)
	if f.block {
		<-ctx.Done()
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, ctx.Err())
	}
	if f.err != nil {
		return nil, f.err
	}
	r, ok := f.sections[name]
	if !ok {
		return nil, fmt.Errorf("%w: unexpected %s", ErrPageLoad, name)
	}
	return r, nil
}

func (f *fakeRasterizer) Close() error {
	f.closed = true
	return nil
}

// fakeToolkit treats a document's bytes as its name. Merged documents are
// "merged:" followed by the part names joined with "|".
type fakeToolkit struct {
	pages     map[string]int
	outlines  map[string][]pagemap.OutlineEntry
	texts     map[string][]string
	textErr   error
	tocPages  func(entries []pagemap.Entry) int
	mergeErr  error
	tocs      []pdfkit.TOC
	merged    []string
	bookmarks []pagemap.Bookmark
}

const mergedPrefix = "merged:"

func (f *fakeToolkit) PageCount(data []byte) (int, error) {
	s := string(data)
	if rest, ok := strings.CutPrefix(s, mergedPrefix); ok {
		total := 0
		for _, part := range strings.Split(rest, "|") {
			n, err := f.PageCount([]byte(part))
			if err != nil {
				return 0, err
			}
			total += n
		}
		return total, nil
	}
	n, ok := f.pages[s]
	if !ok {
		return 0, fmt.Errorf("%w: unknown document %q", pdfkit.ErrRead, s)
	}
	return n, nil
}

func (f *fakeToolkit) Outline(data []byte) ([]pagemap.OutlineEntry, error) {
	return f.outlines[string(data)], nil
}

func (f *fakeToolkit) PageTexts(data []byte) ([]string, error) {
	if f.textErr != nil {
		return nil, f.textErr
	}
	return f.texts[string(data)], nil
}

func (f *fakeToolkit) RenderTOC(toc pdfkit.TOC) ([]byte, int, error) {
	f.tocs = append(f.tocs, toc)
	n := 1
	if f.tocPages != nil {
		n = f.tocPages(toc.Entries)
	}
	name := fmt.Sprintf("toc%d", len(f.tocs))
	f.pages[name] = n
	return []byte(name), n, nil
}

func (f *fakeToolkit) Merge(w io.Writer, docs [][]byte) error {
	if f.mergeErr != nil {
		return f.mergeErr
	}
	parts := make([]string, len(docs))
	for i, d := range docs {
		parts[i] = string(d)
	}
	f.merged = parts
	_, err := io.WriteString(w, mergedPrefix+strings.Join(parts, "|"))
	return err
}

func (f *fakeToolkit) SetOutline(w io.Writer, data []byte, bms []pagemap.Bookmark) error {
	f.bookmarks = bms
	_, err := w.Write(data)
	return err
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// writeSectionFiles creates placeholder HTML pages so the assembler finds them.
func writeSectionFiles(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("<html></html>"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

// sectionHeadings lists an H1 followed by its H2s.
func sectionHeadings(title string, subsections ...string) []pagemap.Heading {
	headings := []pagemap.Heading{{Level: 1, Title: title}}
	for _, s := range subsections {
		headings = append(headings, pagemap.Heading{Level: 2, Title: s})
	}
	return headings
}

func newTestAssembler(r *fakeRasterizer, k *fakeToolkit) *ManualAssembler {
	return &ManualAssembler{cfg: defaultSettings(), rasterizer: r, toolkit: k}
}

// guideFixture is a two-page section whose subsections sit on pages 1 and 2.
func guideFixture() (*fakeRasterizer, *fakeToolkit) {
	r := &fakeRasterizer{sections: map[string]*rasterized{
		"Guide.html": {PDF: []byte("guide"), Title: "Guide", Headings: sectionHeadings("Guide", "Setup", "Usage")},
	}}
	k := &fakeToolkit{
		pages: map[string]int{"guide": 2},
		texts: map[string][]string{"guide": {"Guide Setup Install it.", "Usage Run it."}},
	}
	return r, k
}

// ----- TestManualAssembler_Build

func TestManualAssembler_Build(t *testing.T) {
	t.Parallel()

	r, k := guideFixture()
	dir := writeSectionFiles(t, "Guide.html")
	out := filepath.Join(t.TempDir(), "manual.pdf")

	manual, err := newTestAssembler(r, k).Build(context.Background(), ManualInput{
		SectionDir: dir,
		Order:      []string{"Guide.html"},
		Output:     out,
		Title:      "Docs",
	})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	wantBookmarks := []Bookmark{
		{Title: "Guide", Page: 2, Kids: []Bookmark{
			{Title: "Setup", Page: 2},
			{Title: "Usage", Page: 3},
		}},
	}
	if !reflect.DeepEqual(manual.Bookmarks, wantBookmarks) {
		t.Errorf("Bookmarks = %+v, want %+v", manual.Bookmarks, wantBookmarks)
	}
	if !reflect.DeepEqual(k.bookmarks, wantBookmarks) {
		t.Errorf("outline written = %+v, want %+v", k.bookmarks, wantBookmarks)
	}
	if manual.TOCPages != 1 || manual.TotalPages != 3 {
		t.Errorf("TOCPages, TotalPages = %d, %d, want 1, 3", manual.TOCPages, manual.TotalPages)
	}

	wantSection := PdfSection{
		Source:    "Guide.html",
		Title:     "Guide",
		PageCount: 2,
		StartPage: 2,
		Subsections: []Subsection{
			{Title: "Setup", LocalPage: 0},
			{Title: "Usage", LocalPage: 1},
		},
	}
	if !reflect.DeepEqual(manual.Sections, []PdfSection{wantSection}) {
		t.Errorf("Sections = %+v, want %+v", manual.Sections, wantSection)
	}

	if !reflect.DeepEqual(k.merged, []string{"toc1", "guide"}) {
		t.Errorf("merged = %v, want [toc1 guide]", k.merged)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("reading manual: %v", err)
	}
	if string(data) != "merged:toc1|guide" {
		t.Errorf("manual = %q", data)
	}
	if manual.Path != out {
		t.Errorf("Path = %q, want %q", manual.Path, out)
	}

	if len(k.tocs) != 1 || k.tocs[0].Title != "Docs" {
		t.Fatalf("tocs = %+v", k.tocs)
	}
	wantEntries := []pagemap.Entry{
		{Level: 1, Number: 1, Title: "Guide", Page: 2},
		{Level: 2, Title: "Setup", Page: 2},
		{Level: 2, Title: "Usage", Page: 3},
	}
	if !reflect.DeepEqual(k.tocs[0].Entries, wantEntries) {
		t.Errorf("TOC entries = %+v, want %+v", k.tocs[0].Entries, wantEntries)
	}
}

func TestManualAssembler_Build_PageOffsets(t *testing.T) {
	t.Parallel()

	r := &fakeRasterizer{sections: map[string]*rasterized{
		"A.html": {PDF: []byte("a"), Title: "A"},
		"B.html": {PDF: []byte("b"), Title: "B"},
		"C.html": {PDF: []byte("c"), Title: "C"},
	}}
	k := &fakeToolkit{pages: map[string]int{"a": 3, "b": 2, "c": 4}}
	dir := writeSectionFiles(t, "A.html", "B.html", "C.html")

	manual, err := newTestAssembler(r, k).Build(context.Background(), ManualInput{
		SectionDir: dir,
		Order:      []string{"A.html", "B.html", "C.html"},
		Output:     filepath.Join(t.TempDir(), "manual.pdf"),
	})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	var starts []int
	for _, bm := range manual.Bookmarks {
		starts = append(starts, bm.Page)
	}
	if want := []int{2, 5, 7}; !reflect.DeepEqual(starts, want) {
		t.Errorf("bookmark pages = %v, want %v", starts, want)
	}
	if manual.TotalPages != 10 {
		t.Errorf("TotalPages = %d, want 10", manual.TotalPages)
	}
}

func TestManualAssembler_Build_PublicationOrder(t *testing.T) {
	t.Parallel()

	r := &fakeRasterizer{sections: map[string]*rasterized{
		"Home.html":  {PDF: []byte("home"), Title: "Welcome"},
		"Guide.html": {PDF: []byte("guide"), Title: "Guide"},
	}}
	k := &fakeToolkit{pages: map[string]int{"home": 1, "guide": 1}}
	dir := writeSectionFiles(t, "Home.html", "Guide.html", "Extra.html")

	manual, err := newTestAssembler(r, k).Build(context.Background(), ManualInput{
		SectionDir: dir,
		Order:      []string{"Guide", "Home.html"},
		Output:     filepath.Join(t.TempDir(), "manual.pdf"),
		MarginMM:   20,
		FontFile:   "fonts/DejaVuSans.ttf",
	})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if want := []string{"Guide.html", "Home.html"}; !reflect.DeepEqual(r.calls, want) {
		t.Errorf("rasterized %v, want %v", r.calls, want)
	}
	if want := []float64{20, 20}; !reflect.DeepEqual(r.margins, want) {
		t.Errorf("margins = %v, want %v", r.margins, want)
	}
	if manual.Sections[0].Source != "Guide.html" || manual.Sections[1].Title != "Welcome" {
		t.Errorf("Sections = %+v", manual.Sections)
	}
	if k.tocs[0].MarginMM != 20 || k.tocs[0].FontFile != "fonts/DejaVuSans.ttf" {
		t.Errorf("TOC = margin %v, font %q", k.tocs[0].MarginMM, k.tocs[0].FontFile)
	}
}

func TestManualAssembler_Build_OutlinePreferred(t *testing.T) {
	t.Parallel()

	r, k := guideFixture()
	// The text would place Usage on the first page; the outline wins.
	k.texts["guide"] = []string{"Setup Usage", "more"}
	k.outlines = map[string][]pagemap.OutlineEntry{"guide": {
		{Title: "Guide", Page: 1},
		{Title: "Setup", Page: 1},
		{Title: "Usage", Page: 2},
	}}
	dir := writeSectionFiles(t, "Guide.html")

	manual, err := newTestAssembler(r, k).Build(context.Background(), ManualInput{
		SectionDir: dir,
		Order:      []string{"Guide.html"},
		Output:     filepath.Join(t.TempDir(), "manual.pdf"),
	})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if got := manual.Bookmarks[0].Kids[1].Page; got != 3 {
		t.Errorf("Usage page = %d, want 3", got)
	}
}

func TestManualAssembler_Build_OutlineKeepsHeadingLevels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		headings []pagemap.Heading
		outline  []pagemap.OutlineEntry
		texts    []string
		want     []int // subsection pages in the manual
	}{
		{
			name: "h3 sharing an h2 title",
			headings: []pagemap.Heading{
				{Level: 1, Title: "Guide"},
				{Level: 2, Title: "Setup"},
				{Level: 3, Title: "Usage"},
				{Level: 2, Title: "Usage"},
			},
			outline: []pagemap.OutlineEntry{
				{Title: "Guide", Page: 1},
				{Title: "Setup", Page: 1},
				{Title: "Usage", Page: 1},
				{Title: "Usage", Page: 2},
			},
			want: []int{2, 3},
		},
		{
			name: "outline missing a heading uses the text",
			headings: []pagemap.Heading{
				{Level: 1, Title: "Guide"},
				{Level: 2, Title: "Setup"},
				{Level: 3, Title: "Usage"},
				{Level: 2, Title: "Usage"},
			},
			outline: []pagemap.OutlineEntry{
				{Title: "Guide", Page: 1},
				{Title: "Setup", Page: 1},
				{Title: "Usage", Page: 1},
			},
			texts: []string{"Guide Setup Usage tips", "Usage Run it."},
			want:  []int{2, 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := &fakeRasterizer{sections: map[string]*rasterized{
				"Guide.html": {PDF: []byte("guide"), Title: "Guide", Headings: tt.headings},
			}}
			k := &fakeToolkit{
				pages:    map[string]int{"guide": 2},
				outlines: map[string][]pagemap.OutlineEntry{"guide": tt.outline},
				texts:    map[string][]string{"guide": tt.texts},
			}
			dir := writeSectionFiles(t, "Guide.html")

			manual, err := newTestAssembler(r, k).Build(context.Background(), ManualInput{
				SectionDir: dir,
				Order:      []string{"Guide.html"},
				Output:     filepath.Join(t.TempDir(), "manual.pdf"),
			})
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}

			var got []int
			for _, kid := range manual.Bookmarks[0].Kids {
				got = append(got, kid.Page)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("subsection pages = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestManualAssembler_Build_DefaultMargin(t *testing.T) {
	t.Parallel()

	r, k := guideFixture()
	dir := writeSectionFiles(t, "Guide.html")

	if _, err := newTestAssembler(r, k).Build(context.Background(), ManualInput{
		SectionDir: dir,
		Order:      []string{"Guide.html"},
		Output:     filepath.Join(t.TempDir(), "manual.pdf"),
	}); err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if want := []float64{pdfkit.DefaultMarginMM}; !reflect.DeepEqual(r.margins, want) {
		t.Errorf("section margins = %v, want %v", r.margins, want)
	}
	if got := k.tocs[0].MarginMM; got != pdfkit.DefaultMarginMM {
		t.Errorf("TOC margin = %v, want %v", got, pdfkit.DefaultMarginMM)
	}
}

func TestManualAssembler_Build_TOCSpansPages(t *testing.T) {
	t.Parallel()

	r, k := guideFixture()
	k.tocPages = func([]pagemap.Entry) int { return 2 }
	dir := writeSectionFiles(t, "Guide.html")

	manual, err := newTestAssembler(r, k).Build(context.Background(), ManualInput{
		SectionDir: dir,
		Order:      []string{"Guide.html"},
		Output:     filepath.Join(t.TempDir(), "manual.pdf"),
	})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if len(k.tocs) != 2 {
		t.Fatalf("TOC rendered %d times, want 2", len(k.tocs))
	}
	if got := k.tocs[1].Entries[0].Page; got != 3 {
		t.Errorf("second pass section page = %d, want 3", got)
	}
	if manual.TOCPages != 2 || manual.Bookmarks[0].Page != 3 || manual.Bookmarks[0].Kids[1].Page != 4 {
		t.Errorf("manual = %+v", manual)
	}
	if !reflect.DeepEqual(k.merged, []string{"toc2", "guide"}) {
		t.Errorf("merged = %v, want [toc2 guide]", k.merged)
	}
}

func TestManualAssembler_Build_TOCNeverSettles(t *testing.T) {
	t.Parallel()

	r, k := guideFixture()
	calls := 0
	k.tocPages = func([]pagemap.Entry) int {
		calls++
		return calls + 1
	}
	dir := writeSectionFiles(t, "Guide.html")

	_, err := newTestAssembler(r, k).Build(context.Background(), ManualInput{
		SectionDir: dir,
		Order:      []string{"Guide.html"},
		Output:     filepath.Join(t.TempDir(), "manual.pdf"),
	})
	if !errors.Is(err, ErrPDFAssembly) {
		t.Errorf("Build() error = %v, want ErrPDFAssembly", err)
	}
}

func TestManualAssembler_Build_WorkDir(t *testing.T) {
	t.Parallel()

	r, k := guideFixture()
	dir := writeSectionFiles(t, "Guide.html")
	work := filepath.Join(t.TempDir(), "work")

	if _, err := newTestAssembler(r, k).Build(context.Background(), ManualInput{
		SectionDir: dir,
		Order:      []string{"Guide.html"},
		Output:     filepath.Join(t.TempDir(), "manual.pdf"),
		WorkDir:    work,
	}); err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	for name, want := range map[string]string{"01-Guide.pdf": "guide", tocFileName: "toc1"} {
		data, err := os.ReadFile(filepath.Join(work, name))
		if err != nil {
			t.Errorf("reading %s: %v", name, err)
			continue
		}
		if string(data) != want {
			t.Errorf("%s = %q, want %q", name, data, want)
		}
	}
}

func TestManualAssembler_Build_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		setup   func(r *fakeRasterizer, k *fakeToolkit)
		order   []string
		output  string
		wantErr error
	}{
		{
			name:    "empty order",
			order:   []string{},
			wantErr: ErrEmptyPublicationOrder,
		},
		{
			name:    "empty output",
			order:   []string{"Guide.html"},
			output:  "-",
			wantErr: ErrWriteOutput,
		},
		{
			name:    "missing section",
			order:   []string{"Guide.html", "Missing.html"},
			wantErr: ErrSectionNotFound,
		},
		{
			name:    "render failure",
			setup:   func(r *fakeRasterizer, _ *fakeToolkit) { r.err = fmt.Errorf("%w: boom", ErrBrowserConnect) },
			order:   []string{"Guide.html"},
			wantErr: ErrBrowserConnect,
		},
		{
			name: "heading lookup miss",
			setup: func(_ *fakeRasterizer, k *fakeToolkit) {
				k.texts["guide"] = []string{"Guide Usage", "Setup"}
			},
			order:   []string{"Guide.html"},
			wantErr: ErrHeadingLookupMiss,
		},
		{
			name: "lookup miss with unreadable text",
			setup: func(_ *fakeRasterizer, k *fakeToolkit) {
				k.textErr = pdfkit.ErrRead
			},
			order:   []string{"Guide.html"},
			wantErr: pagemap.ErrLookupMiss,
		},
		{
			name:    "merge failure",
			setup:   func(_ *fakeRasterizer, k *fakeToolkit) { k.mergeErr = errors.New("boom") },
			order:   []string{"Guide.html"},
			wantErr: ErrPDFAssembly,
		},
		{
			name:    "unreadable section PDF",
			setup:   func(_ *fakeRasterizer, k *fakeToolkit) { delete(k.pages, "guide") },
			order:   []string{"Guide.html"},
			wantErr: ErrPDFAssembly,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r, k := guideFixture()
			if tt.setup != nil {
				tt.setup(r, k)
			}
			dir := writeSectionFiles(t, "Guide.html")
			out := filepath.Join(t.TempDir(), "manual.pdf")
			if tt.output == "-" {
				out = ""
			}

			_, err := newTestAssembler(r, k).Build(context.Background(), ManualInput{
				SectionDir: dir,
				Order:      tt.order,
				Output:     out,
			})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Build() error = %v, want %v", err, tt.wantErr)
			}
			if out != "" {
				if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
					t.Error("manual written despite error")
				}
			}
		})
	}
}

func TestManualAssembler_Build_RenderErrorNamesSection(t *testing.T) {
	t.Parallel()

	r, k := guideFixture()
	r.err = fmt.Errorf("%w: net::ERR_FILE_NOT_FOUND", ErrPageLoad)
	dir := writeSectionFiles(t, "Guide.html")

	_, err := newTestAssembler(r, k).Build(context.Background(), ManualInput{
		SectionDir: dir,
		Order:      []string{"Guide.html"},
		Output:     filepath.Join(t.TempDir(), "manual.pdf"),
	})
	if !errors.Is(err, ErrRender) || !errors.Is(err, ErrPageLoad) {
		t.Fatalf("Build() error = %v, want ErrRender wrapping ErrPageLoad", err)
	}
	if !strings.Contains(err.Error(), "Guide.html") {
		t.Errorf("error %q does not name the section", err)
	}
}

func TestManualAssembler_Build_Timeout(t *testing.T) {
	t.Parallel()

	r, k := guideFixture()
	r.block = true
	dir := writeSectionFiles(t, "Guide.html")
	a := newTestAssembler(r, k)
	a.cfg.timeout = 20 * time.Millisecond

	_, err := a.Build(context.Background(), ManualInput{
		SectionDir: dir,
		Order:      []string{"Guide.html"},
		Output:     filepath.Join(t.TempDir(), "manual.pdf"),
	})
	if !errors.Is(err, ErrRender) || !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Build() error = %v, want ErrRender wrapping context.DeadlineExceeded", err)
	}
}

func TestManualAssembler_Build_ContextCancellation(t *testing.T) {
	t.Parallel()

	r, k := guideFixture()
	dir := writeSectionFiles(t, "Guide.html")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestAssembler(r, k).Build(ctx, ManualInput{
		SectionDir: dir,
		Order:      []string{"Guide.html"},
		Output:     filepath.Join(t.TempDir(), "manual.pdf"),
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Build() error = %v, want context.Canceled", err)
	}
	if len(r.calls) != 0 {
		t.Errorf("rasterized %v after cancellation", r.calls)
	}
}

func TestManualAssembler_Close(t *testing.T) {
	t.Parallel()

	r, k := guideFixture()
	a := newTestAssembler(r, k)
	if err := a.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !r.closed {
		t.Error("rasterizer not closed")
	}

	if err := (&ManualAssembler{}).Close(); err != nil {
		t.Errorf("Close() on empty assembler error = %v", err)
	}
}

func TestNewManualAssembler(t *testing.T) {
	t.Parallel()

	a, err := NewManualAssembler(WithTimeout(time.Second))
	if err != nil {
		t.Fatalf("NewManualAssembler() error = %v", err)
	}
	defer a.Close()

	rod, ok := a.rasterizer.(*rodRasterizer)
	if !ok {
		t.Fatalf("rasterizer = %T, want *rodRasterizer", a.rasterizer)
	}
	if rod.timeout != time.Second {
		t.Errorf("timeout = %v, want 1s", rod.timeout)
	}
	if !strings.Contains(rod.printCSS, ".sidebar") {
		t.Error("print style not loaded")
	}

	if _, err := NewManualAssembler(WithAssetPath(filepath.Join(t.TempDir(), "missing"))); !errors.Is(err, ErrInvalidAssetPath) {
		t.Errorf("NewManualAssembler() error = %v, want ErrInvalidAssetPath", err)
	}
}

// ----- TestManualAssembler_Build_RealToolkit

// sectionPDF draws one page per entry of pages with gofpdf.
func sectionPDF(t *testing.T, pages ...string) []byte {
	t.Helper()
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetFont("Helvetica", "", 14)
	for _, text := range pages {
		doc.AddPage()
		doc.Cell(40, 10, text)
	}
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		t.Fatalf("drawing section: %v", err)
	}
	return buf.Bytes()
}

func TestManualAssembler_Build_RealToolkit(t *testing.T) {
	t.Parallel()

	r := &fakeRasterizer{sections: map[string]*rasterized{
		"Home.html": {
			PDF:   sectionPDF(t, "Welcome"),
			Title: "Welcome",
		},
		"Guide.html": {
			PDF:      sectionPDF(t, "Guide Setup", "Usage", "Usage again"),
			Title:    "Guide",
			Headings: sectionHeadings("Guide", "Setup", "Usage"),
		},
	}}
	toolkit := pdfkit.New()
	a := &ManualAssembler{cfg: defaultSettings(), rasterizer: r, toolkit: toolkit}
	dir := writeSectionFiles(t, "Home.html", "Guide.html")
	out := filepath.Join(t.TempDir(), "out", "manual.pdf")

	manual, err := a.Build(context.Background(), ManualInput{
		SectionDir: dir,
		Order:      []string{"Home.html", "Guide.html"},
		Output:     out,
		Title:      "Documentation",
	})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("reading manual: %v", err)
	}
	if n, err := toolkit.PageCount(data); err != nil || n != 5 {
		t.Errorf("PageCount() = %d, %v, want 5", n, err)
	}

	want := []pagemap.OutlineEntry{
		{Title: "Welcome", Page: 2},
		{Title: "Guide", Page: 3},
		{Title: "Setup", Page: 3},
		{Title: "Usage", Page: 4},
	}
	outline, err := toolkit.Outline(data)
	if err != nil {
		t.Fatalf("Outline() error = %v", err)
	}
	if !reflect.DeepEqual(outline, want) {
		t.Errorf("Outline() = %+v, want %+v", outline, want)
	}
	if manual.TotalPages != 5 {
		t.Errorf("TotalPages = %d, want 5", manual.TotalPages)
	}

	texts, err := toolkit.PageTexts(data)
	if err != nil {
		t.Fatalf("PageTexts() error = %v", err)
	}
	if toc := pagemap.Normalize(texts[0]); !strings.Contains(toc, "2.guide") {
		t.Errorf("TOC page text %q missing section line", toc)
	}
}
