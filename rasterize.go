package mdmanual

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-mdmanual/internal/fileutil"
	"github.com/alnah/go-mdmanual/internal/pagemap"
	"github.com/alnah/go-mdmanual/internal/pdfkit"
	"github.com/alnah/go-mdmanual/internal/process"
)

// rasterizer turns one site page into a PDF section.
type rasterizer interface {
	Rasterize(ctx context.Context, path string, marginMM float64) (*rasterized, error)
	Close() error
}

// Compile-time interface check.
var _ rasterizer = (*rodRasterizer)(nil)

// rasterized is a printed page and the headings read from its DOM.
type rasterized struct {
	PDF         []byte
	Title    string            // first H1 text, untitledSection when the page has none
	Headings []pagemap.Heading // every non-empty h1-h6, in document order
}

// A4 paper in inches.
const (
	a4WidthInches  = 8.27
	a4HeightInches = 11.69
	mmPerInch      = 25.4
)

// untitledSection names a section whose page has no H1.
const untitledSection = "Untitled Section"

// prepareScript strips the section toggles so their markers never reach the
// printed text.
const prepareScript = `() => {
	document.querySelectorAll('.h2-toggle').forEach((b) => b.remove());
}`

// headingsScript reads every heading of the page with its level, in document
// order, as a JSON string. Chrome's document outline lists the same headings.
const headingsScript = `() => JSON.stringify(
	Array.from(document.querySelectorAll('h1, h2, h3, h4, h5, h6'))
		.map((h) => ({ level: Number(h.tagName.substring(1)), title: h.innerText.trim() }))
		.filter((h) => h.title.length > 0)
)`

// pageHeading is one element of the headingsScript result.
type pageHeading struct {
	Level int    `json:"level"`
	Title string `json:"title"`
}

// rodRasterizer prints pages with headless Chrome through go-rod.
// Rod automatically downloads Chromium on first run if not found.
type rodRasterizer struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	timeout  time.Duration
	printCSS string
}

// newRodRasterizer creates a rodRasterizer. The browser starts on first use.
func newRodRasterizer(timeout time.Duration, printCSS string) *rodRasterizer {
	return &rodRasterizer{timeout: timeout, printCSS: printCSS}
}

// ensureBrowser lazily connects to the browser.
func (r *rodRasterizer) ensureBrowser() error {
	if r.browser != nil {
		return nil
	}

	l := launcher.New()

	// Use pre-installed browser if specified (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("CI") == "true" || os.Getenv("ROD_BROWSER_BIN") != "" || os.Getenv("ROD_NO_SANDBOX") == "1" {
		l = l.NoSandbox(true)
	}
	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	r.launcher = l
	r.browser = rod.New().ControlURL(u)
	if err := r.browser.Connect(); err != nil {
		r.browser = nil
		r.killBrowser()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	return nil
}

// Close releases browser resources.
func (r *rodRasterizer) Close() error {
	var err error
	if r.browser != nil {
		err = r.browser.Close()
		r.browser = nil
	}
	r.killBrowser()
	return err
}

// killBrowser terminates the launched Chrome with its renderer and GPU
// children, then removes its temporary profile.
func (r *rodRasterizer) killBrowser() {
	if r.launcher == nil {
		return
	}
	if pid := r.launcher.PID(); pid > 0 {
		process.KillProcessGroup(pid)
	}
	r.launcher.Kill()
	r.launcher.Cleanup()
	r.launcher = nil
}

// Rasterize loads the page at path, waits for the network to settle, applies
// the print stylesheet, reads its headings and prints it on A4.
func (r *rodRasterizer) Rasterize(ctx context.Context, path string, marginMM float64) (*rasterized, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	url, err := fileutil.FileURL(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	if err := r.ensureBrowser(); err != nil {
		return nil, err
	}

	page, err := r.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer page.Close()

	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}
	p := page.Context(ctx).Timeout(timeout)

	waitIdle := p.WaitNavigation(proto.PageLifecycleEventNameNetworkIdle)
	if err := p.Navigate(url); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrPageLoad, path, err)
	}
	waitIdle()
	if err := p.WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrPageLoad, path, err)
	}

	if _, err := p.Eval(prepareScript); err != nil {
		return nil, fmt.Errorf("%w: %s: preparing page: %v", ErrPageLoad, path, err)
	}
	if r.printCSS != "" {
		if err := p.AddStyleTag("", r.printCSS); err != nil {
			return nil, fmt.Errorf("%w: %s: injecting print style: %v", ErrPageLoad, path, err)
		}
	}

	res, err := p.Eval(headingsScript)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: reading headings: %v", ErrPageLoad, path, err)
	}
	headings, err := decodeHeadings(res.Value.Str())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrPageLoad, path, err)
	}

	reader, err := p.PDF(buildPDFOptions(marginMM))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrPDFGeneration, path, err)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}

	return &rasterized{
		PDF:      data,
		Title:    sectionTitle(headings),
		Headings: headings,
	}, nil
}

// decodeHeadings parses the headingsScript result.
func decodeHeadings(raw string) ([]pagemap.Heading, error) {
	var decoded []pageHeading
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, fmt.Errorf("decoding headings: %w", err)
	}
	headings := make([]pagemap.Heading, len(decoded))
	for i, h := range decoded {
		headings[i] = pagemap.Heading{Level: h.Level, Title: h.Title}
	}
	return headings, nil
}

// sectionTitle returns the first H1 text, or untitledSection.
func sectionTitle(headings []pagemap.Heading) string {
	for _, h := range headings {
		if h.Level == 1 {
			return h.Title
		}
	}
	return untitledSection
}

// buildPDFOptions prints A4 with equal margins and asks Chrome to embed the
// heading outline, which carries the page of every heading. A margin <= 0
// falls back to the table of contents default.
func buildPDFOptions(marginMM float64) *proto.PagePrintToPDF {
	if marginMM <= 0 {
		marginMM = pdfkit.DefaultMarginMM
	}
	margin := marginMM / mmPerInch
	return &proto.PagePrintToPDF{
		PaperWidth:              floatPtr(a4WidthInches),
		PaperHeight:             floatPtr(a4HeightInches),
		MarginTop:               floatPtr(margin),
		MarginBottom:            floatPtr(margin),
		MarginLeft:              floatPtr(margin),
		MarginRight:             floatPtr(margin),
		PrintBackground:         true,
		GenerateDocumentOutline: true,
	}
}

// floatPtr returns a pointer to a float64 value.
func floatPtr(v float64) *float64 {
	return &v
}
