package mdmanual

import (
	"slices"
	"strings"
)

// OrderPages returns pages ordered for the site: titles named in priority come
// first in priority order, every other page follows sorted by title.
// Priority entries without a matching page are ignored, and a title listed
// twice keeps its first position.
func OrderPages(pages []Page, priority []string) []Page {
	byTitle := make(map[string]int, len(pages))
	for i, p := range pages {
		if _, seen := byTitle[p.Title]; !seen {
			byTitle[p.Title] = i
		}
	}

	ordered := make([]Page, 0, len(pages))
	used := make([]bool, len(pages))
	for _, title := range priority {
		i, ok := byTitle[title]
		if !ok || used[i] {
			continue
		}
		used[i] = true
		ordered = append(ordered, pages[i])
	}

	rest := make([]Page, 0, len(pages)-len(ordered))
	for i, p := range pages {
		if !used[i] {
			rest = append(rest, p)
		}
	}
	slices.SortStableFunc(rest, func(a, b Page) int {
		return strings.Compare(a.Title, b.Title)
	})

	return append(ordered, rest...)
}
