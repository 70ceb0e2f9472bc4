package pagemap

// Subsection is an H2 heading of a section and the local page it lands on.
type Subsection struct {
	Title     string
	LocalPage int // 0-based page within the section PDF
}

// Section is one rendered page of the site as it enters the manual.
type Section struct {
	Title       string
	PageCount   int
	Subsections []Subsection
}

// Placed is a Section with its first physical page in the merged document.
type Placed struct {
	Section
	Start int // 1-based
}

// SubsectionPage returns the physical page of the i-th subsection.
func (p Placed) SubsectionPage(i int) int {
	return p.Start + p.Subsections[i].LocalPage
}

// Layout places sections after tocPages pages of table of contents. Section i
// starts at tocPages + 1 + the page counts of every earlier section.
func Layout(tocPages int, sections []Section) []Placed {
	placed := make([]Placed, len(sections))
	next := tocPages + 1
	for i, s := range sections {
		placed[i] = Placed{Section: s, Start: next}
		next += s.PageCount
	}
	return placed
}

// TotalPages is the page count of the merged document.
func TotalPages(tocPages int, sections []Section) int {
	total := tocPages
	for _, s := range sections {
		total += s.PageCount
	}
	return total
}

// Bookmark is a node of the merged document's outline.
type Bookmark struct {
	Title string
	Page  int // 1-based
	Kids  []Bookmark
}

// Outline builds one top-level bookmark per section with one child per
// subsection.
func Outline(placed []Placed) []Bookmark {
	out := make([]Bookmark, 0, len(placed))
	for _, p := range placed {
		bm := Bookmark{Title: p.Title, Page: p.Start}
		for i, sub := range p.Subsections {
			bm.Kids = append(bm.Kids, Bookmark{Title: sub.Title, Page: p.SubsectionPage(i)})
		}
		out = append(out, bm)
	}
	return out
}

// Entry is one line of the table of contents.
type Entry struct {
	Level  int // 1 for sections, 2 for subsections
	Number int // section number, 1-based; 0 for subsections
	Title  string
	Page   int
}

// Entries lists the table of contents lines: each numbered section followed by
// its subsections.
func Entries(placed []Placed) []Entry {
	var out []Entry
	for n, p := range placed {
		out = append(out, Entry{Level: 1, Number: n + 1, Title: p.Title, Page: p.Start})
		for i, sub := range p.Subsections {
			out = append(out, Entry{Level: 2, Title: sub.Title, Page: p.SubsectionPage(i)})
		}
	}
	return out
}
