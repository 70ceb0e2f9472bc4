package pagemap

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// ErrLookupMiss is returned when a heading title cannot be found in a section.
var ErrLookupMiss = errors.New("heading not found in rendered section")

// OutlineEntry is one bookmark read back from a section PDF.
type OutlineEntry struct {
	Title string
	Page  int // 1-based page within the section PDF
}

// Normalize drops every whitespace rune and case-folds the rest, so titles
// compare equal regardless of how the PDF engine wrapped or spaced them.
func Normalize(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	return cases.Fold().String(s)
}

// Heading is one h1-h6 element of a printed page, in document order.
type Heading struct {
	Level int // 1 for h1 through 6 for h6
	Title string
}

// SubsectionLevel is the heading level that becomes a subsection.
const SubsectionLevel = 2

// Subsections returns the titles of the level-2 headings, in order.
func Subsections(headings []Heading) []string {
	var titles []string
	for _, h := range headings {
		if h.Level == SubsectionLevel {
			titles = append(titles, h.Title)
		}
	}
	return titles
}

// Locate returns the 0-based local page of every level-2 heading, in order.
//
// The section outline is tried first. It must list exactly the page's
// headings, every level included, in document order with matching titles;
// each heading then takes the page of its own entry. Any disagreement makes
// the pairing ambiguous and the page texts are searched instead: all headings
// are looked up in order, each match starting after the previous one, so a
// deeper or shallower heading with the same text cannot stand in for a
// subsection. A subsection found by neither yields ErrLookupMiss.
func Locate(headings []Heading, outline []OutlineEntry, pageTexts []string) ([]int, error) {
	if len(Subsections(headings)) == 0 {
		return []int{}, nil
	}
	if pages, ok := locateInOutline(headings, outline); ok {
		return pages, nil
	}
	return locateInText(headings, pageTexts)
}

func locateInOutline(headings []Heading, outline []OutlineEntry) ([]int, bool) {
	if len(outline) != len(headings) {
		return nil, false
	}

	var pages []int
	for i, h := range headings {
		e := outline[i]
		if Normalize(e.Title) != Normalize(h.Title) || e.Page < 1 {
			return nil, false
		}
		if h.Level == SubsectionLevel {
			pages = append(pages, e.Page-1)
		}
	}
	return pages, true
}

// locateInText searches the concatenated, normalized page texts. A title may
// straddle a page break; it is attributed to the page where it starts.
// Headings other than subsections only advance the search when found.
func locateInText(headings []Heading, pageTexts []string) ([]int, error) {
	var joined strings.Builder
	starts := make([]int, len(pageTexts))
	for i, text := range pageTexts {
		starts[i] = joined.Len()
		joined.WriteString(Normalize(text))
	}
	haystack := joined.String()

	var pages []int
	pos := 0
	for _, h := range headings {
		sub := h.Level == SubsectionLevel
		needle := Normalize(h.Title)
		if needle == "" {
			if sub {
				return nil, fmt.Errorf("%w: empty title", ErrLookupMiss)
			}
			continue
		}
		idx := strings.Index(haystack[pos:], needle)
		if idx < 0 {
			if sub {
				return nil, fmt.Errorf("%w: %q", ErrLookupMiss, h.Title)
			}
			continue
		}
		at := pos + idx
		if sub {
			pages = append(pages, pageAt(starts, at))
		}
		pos = at + len(needle)
	}
	return pages, nil
}

// pageAt maps a byte offset of the joined text to its page index.
func pageAt(starts []int, offset int) int {
	// Last page whose start is <= offset. Empty pages share a start with the
	// following page and are skipped.
	return sort.Search(len(starts), func(i int) bool { return starts[i] > offset }) - 1
}
