// Package pdfkit reads, draws and combines the PDF files of a manual.
//
// pdfcpu does the structural work (page counts, outlines, merging,
// bookmarks), ledongthuc/pdf extracts per-page text for heading lookup and
// gofpdf draws the table of contents.
package pdfkit

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/alnah/go-mdmanual/internal/pagemap"
)

// Sentinel errors.
var (
	ErrRead      = errors.New("reading PDF")
	ErrMerge     = errors.New("merging PDFs")
	ErrBookmarks = errors.New("writing PDF outline")
	ErrDraw      = errors.New("drawing table of contents")
)

// Toolkit bundles the PDF operations used to assemble a manual.
// The zero value is not usable; create with New.
type Toolkit struct {
	conf *model.Configuration
}

// New creates a Toolkit. Validation is relaxed because browser-generated
// PDFs routinely carry minor structural deviations.
func New() *Toolkit {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &Toolkit{conf: conf}
}

// PageCount returns the number of pages of a PDF.
func (k *Toolkit) PageCount(data []byte) (int, error) {
	n, err := api.PageCount(bytes.NewReader(data), k.conf)
	if err != nil {
		return 0, fmt.Errorf("%w: page count: %v", ErrRead, err)
	}
	return n, nil
}

// Outline returns the document outline flattened in reading order (each
// bookmark before its children).
func (k *Toolkit) Outline(data []byte) ([]pagemap.OutlineEntry, error) {
	bms, err := api.Bookmarks(bytes.NewReader(data), k.conf)
	if err != nil {
		return nil, fmt.Errorf("%w: outline: %v", ErrRead, err)
	}

	var out []pagemap.OutlineEntry
	var walk func([]pdfcpu.Bookmark)
	walk = func(level []pdfcpu.Bookmark) {
		for _, bm := range level {
			out = append(out, pagemap.OutlineEntry{Title: bm.Title, Page: bm.PageFrom})
			walk(bm.Kids)
		}
	}
	walk(bms)
	return out, nil
}

// PageTexts returns the plain text of every page, in page order. Pages without
// content yield an empty string.
func (k *Toolkit) PageTexts(data []byte) (texts []string, err error) {
	// The text extractor panics on some malformed content streams.
	defer func() {
		if r := recover(); r != nil {
			texts, err = nil, fmt.Errorf("%w: text extraction: %v", ErrRead, r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRead, err)
	}

	texts = make([]string, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			texts = append(texts, "")
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("%w: page %d text: %v", ErrRead, i, err)
		}
		texts = append(texts, text)
	}
	return texts, nil
}

// Merge concatenates the documents in order and writes the result to w.
func (k *Toolkit) Merge(w io.Writer, docs [][]byte) error {
	if len(docs) == 0 {
		return fmt.Errorf("%w: nothing to merge", ErrMerge)
	}

	readers := make([]io.ReadSeeker, len(docs))
	for i, d := range docs {
		readers[i] = bytes.NewReader(d)
	}

	if err := api.MergeRaw(readers, w, false, k.conf); err != nil {
		return fmt.Errorf("%w: %v", ErrMerge, err)
	}
	return nil
}

// SetOutline replaces the document's outline with bms and writes the result
// to w.
func (k *Toolkit) SetOutline(w io.Writer, data []byte, bms []pagemap.Bookmark) error {
	if err := api.AddBookmarks(bytes.NewReader(data), w, toPdfcpu(bms), true, k.conf); err != nil {
		return fmt.Errorf("%w: %v", ErrBookmarks, err)
	}
	return nil
}

func toPdfcpu(bms []pagemap.Bookmark) []pdfcpu.Bookmark {
	out := make([]pdfcpu.Bookmark, 0, len(bms))
	for _, bm := range bms {
		out = append(out, pdfcpu.Bookmark{
			Title:    bm.Title,
			PageFrom: bm.Page,
			Kids:     toPdfcpu(bm.Kids),
		})
	}
	return out
}
