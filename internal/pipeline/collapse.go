package pipeline

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Class names shared with the page template's script and the print stylesheet.
const (
	ToggleClass  = "h2-toggle"
	SectionClass = "collapsible-section"
)

// toggleLabel is the text of the collapsed-state toggle button.
const toggleLabel = "+"

// CollapseSections turns every top-level h2 and the siblings that follow it,
// up to the next h2, into a collapsible block.
//
// A toggle button is prepended inside the h2 and the following siblings move
// into a hidden <div class="collapsible-section"> placed right after it.
// Content before the first h2 stays at the top level. Every original node ends
// up in exactly one place. Running it on already collapsed output is not supported.
func CollapseSections(htmlContent string) (string, error) {
	doc, isFragment, err := parseHTML(htmlContent)
	if err != nil {
		return "", err
	}

	collapseChildren(contentRoot(doc, isFragment))

	return renderHTML(doc, isFragment)
}

// collapseChildren partitions parent's children at each h2.
func collapseChildren(parent *html.Node) {
	// Snapshot first: nodes are re-parented while walking.
	var children []*html.Node
	for c := parent.FirstChild; c != nil; c = c.NextSibling {
		children = append(children, c)
	}

	var section *html.Node
	for _, c := range children {
		if isElement(c, atom.H2) {
			c.InsertBefore(newToggle(), c.FirstChild)
			section = newElement(atom.Div, "class", SectionClass, "style", "display:none;")
			parent.InsertBefore(section, c.NextSibling)
			continue
		}
		if section != nil {
			parent.RemoveChild(c)
			section.AppendChild(c)
		}
	}
}

// newToggle builds the button prepended inside each h2.
func newToggle() *html.Node {
	btn := newElement(atom.Button, "class", ToggleClass, "type", "button")
	btn.AppendChild(&html.Node{Type: html.TextNode, Data: toggleLabel})
	return btn
}
