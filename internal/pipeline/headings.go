package pipeline

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// emptyHeadingID is the id base used when a heading has no text at all.
const emptyHeadingID = "heading"

// Heading is a level-1 or level-2 heading of a rendered page.
type Heading struct {
	Level int    // 1 or 2
	Text  string // trimmed text content
	ID    string // anchor id, unique within the page
}

// IndexHeadings assigns an anchor id to every h1/h2 that lacks one and returns
// the mutated HTML together with the headings in document order.
//
// Existing ids are never changed. A derived id is the lower-cased heading text
// with whitespace runs replaced by a single hyphen. When a derived id is already
// taken on the page it gets a numeric suffix (-1, -2, ...) in document order, so
// re-running on identical input always yields identical ids.
func IndexHeadings(htmlContent string) (string, []Heading, error) {
	root, isFragment, err := parseHTML(htmlContent)
	if err != nil {
		return "", nil, err
	}

	selection := goquery.NewDocumentFromNode(root).Find("h1, h2")

	// Explicit ids are reserved up front so a derived id never shadows
	// one that appears later in the page.
	taken := make(map[string]bool)
	selection.Each(func(_ int, s *goquery.Selection) {
		if id, ok := explicitID(s); ok {
			taken[id] = true
		}
	})

	headings := make([]Heading, 0, selection.Length())
	selection.Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		id, ok := explicitID(s)
		if !ok {
			id = uniqueID(Slugify(text), taken)
			taken[id] = true
			s.SetAttr("id", id)
		}
		headings = append(headings, Heading{
			Level: headingLevel(s),
			Text:  text,
			ID:    id,
		})
	})

	out, err := renderHTML(root, isFragment)
	if err != nil {
		return "", nil, err
	}
	return out, headings, nil
}

// Slugify derives an anchor id from heading text: lower case, whitespace runs
// collapsed to one hyphen, no other sanitization.
func Slugify(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), "-")
}

// explicitID returns the heading's own id when it carries a non-blank one.
func explicitID(s *goquery.Selection) (string, bool) {
	id, ok := s.Attr("id")
	if !ok || strings.TrimSpace(id) == "" {
		return "", false
	}
	return id, true
}

// uniqueID returns base, or base-N with the smallest N not yet taken.
func uniqueID(base string, taken map[string]bool) string {
	if base == "" {
		base = emptyHeadingID
	}
	if !taken[base] {
		return base
	}
	for n := 1; ; n++ {
		candidate := base + "-" + strconv.Itoa(n)
		if !taken[candidate] {
			return candidate
		}
	}
}

// headingLevel maps h1/h2 to 1/2.
func headingLevel(s *goquery.Selection) int {
	if goquery.NodeName(s) == "h1" {
		return 1
	}
	return 2
}
