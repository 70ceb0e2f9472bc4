package pdfkit

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/jung-kurt/gofpdf"

	"github.com/alnah/go-mdmanual/internal/pagemap"
)

// TOC typography, in points and millimetres.
const (
	tocFont          = "Helvetica"
	utf8FontFamily   = "toc-utf8"
	titleFontSize    = 22
	headingFontSize  = 16
	sectionFontSize  = 12
	subFontSize      = 10
	lineHeight       = 7.0
	subIndent        = 8.0
	leaderGap        = 2.0
	tocHeadingText   = "Table of Contents"
	ellipsis         = "..."
	subsectionMarker = "- "
)

// DefaultMarginMM is the page margin used when none is configured.
const DefaultMarginMM = 15.0

// TOC describes a table of contents document.
type TOC struct {
	Title    string
	Entries  []pagemap.Entry
	MarginMM float64 // applied to all sides; DefaultMarginMM when <= 0
	FontFile string  // UTF-8 TrueType font; empty = core Helvetica (cp1252)
}

// RenderTOC draws the table of contents on A4 pages and returns the PDF
// together with its page count.
//
// Each section line reads "N. Title ..... page"; subsection lines are indented
// beneath their section. Without a FontFile, text is converted to the core
// fonts' cp1252 encoding and characters outside it print as '?'. With one,
// the font is embedded and any character it covers prints as is.
func (k *Toolkit) RenderTOC(toc TOC) ([]byte, int, error) {
	margin := toc.MarginMM
	if margin <= 0 {
		margin = DefaultMarginMM
	}

	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetMargins(margin, margin, margin)
	doc.SetAutoPageBreak(true, margin)
	doc.SetCreator("go-mdmanual", true)
	doc.SetTitle(toc.Title, true)

	font := tocFont
	tr := doc.UnicodeTranslatorFromDescriptor("")
	utf8Text := toc.FontFile != ""
	if utf8Text {
		data, err := os.ReadFile(toc.FontFile) // #nosec G304 -- font path comes from the user's configuration
		if err != nil {
			return nil, 0, fmt.Errorf("%w: reading font: %v", ErrDraw, err)
		}
		doc.AddUTF8FontFromBytes(utf8FontFamily, "", data)
		doc.AddUTF8FontFromBytes(utf8FontFamily, "B", data)
		if err := doc.Error(); err != nil {
			return nil, 0, fmt.Errorf("%w: loading font %s: %v", ErrDraw, toc.FontFile, err)
		}
		font = utf8FontFamily
		tr = func(s string) string { return s }
	}

	doc.AddPage()

	doc.SetFont(font, "B", titleFontSize)
	doc.CellFormat(0, 12, tr(toc.Title), "", 1, "C", false, 0, "")
	doc.Ln(4)

	doc.SetFont(font, "B", headingFontSize)
	doc.CellFormat(0, 10, tr(tocHeadingText), "", 1, "L", false, 0, "")
	doc.Ln(2)

	pageWidth, _ := doc.GetPageSize()
	left, _, right, _ := doc.GetMargins()
	usable := pageWidth - left - right

	for _, e := range toc.Entries {
		indent := 0.0
		label := strconv.Itoa(e.Number) + ". " + e.Title
		if e.Level > 1 {
			indent = subIndent
			label = subsectionMarker + e.Title
			doc.SetFont(font, "", subFontSize)
		} else {
			doc.SetFont(font, "", sectionFontSize)
		}

		page := strconv.Itoa(e.Page)
		pageWidthMM := doc.GetStringWidth(page) + leaderGap
		labelWidth := usable - indent - pageWidthMM

		doc.SetX(left + indent)
		doc.CellFormat(labelWidth, lineHeight, withLeader(doc, tr(label), labelWidth, utf8Text), "", 0, "L", false, 0, "")
		doc.CellFormat(pageWidthMM, lineHeight, page, "", 1, "R", false, 0, "")
	}

	if err := doc.Error(); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrDraw, err)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrDraw, err)
	}
	return buf.Bytes(), doc.PageCount(), nil
}

// withLeader shortens label to fit width and pads it with a dot leader.
// utf8Text tells whether label is UTF-8 or single-byte cp1252.
func withLeader(doc *gofpdf.Fpdf, label string, width float64, utf8Text bool) string {
	dotWidth := doc.GetStringWidth(".")
	if dotWidth <= 0 {
		return label
	}

	room := width - leaderGap
	if doc.GetStringWidth(label) > room {
		for len(label) > 0 && doc.GetStringWidth(label+ellipsis) > room {
			label = dropLast(label, utf8Text)
		}
		return label + ellipsis
	}

	label += " "
	dots := int((room - doc.GetStringWidth(label)) / dotWidth)
	if dots <= 0 {
		return label
	}
	return label + strings.Repeat(".", dots)
}

// dropLast removes the last character of s: one rune for UTF-8 text, one
// byte for cp1252 text.
func dropLast(s string, utf8Text bool) string {
	if !utf8Text {
		return s[:len(s)-1]
	}
	_, size := utf8.DecodeLastRuneInString(s)
	return s[:len(s)-size]
}
