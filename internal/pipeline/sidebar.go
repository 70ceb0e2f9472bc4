package pipeline

import (
	"html"
	"strings"
)

// NodeKind identifies the level of a sidebar entry.
type NodeKind int

// Sidebar node kinds, outermost first.
const (
	NodePage NodeKind = iota
	NodeH1
	NodeH2
)

// SidebarPage is the sidebar's view of one page of the site map.
type SidebarPage struct {
	Title    string
	Href     string // generated file name, e.g. "Guide.html"
	Headings []Heading
}

// SidebarNode is one entry of the navigation tree.
type SidebarNode struct {
	Kind     NodeKind
	Text     string
	Href     string
	Children []SidebarNode
}

// BuildSidebar projects the ordered pages into a page → h1 → h2 tree.
//
// Each h2 hangs under the nearest preceding h1 of its page. An h2 that comes
// before any h1 is attached directly to the page node. Heading links point at
// the anchor ids assigned by IndexHeadings.
func BuildSidebar(pages []SidebarPage) []SidebarNode {
	tree := make([]SidebarNode, 0, len(pages))

	for _, p := range pages {
		node := SidebarNode{Kind: NodePage, Text: p.Title, Href: p.Href}
		currentH1 := -1

		for _, h := range p.Headings {
			child := SidebarNode{Text: h.Text, Href: p.Href + "#" + h.ID}
			switch h.Level {
			case 1:
				child.Kind = NodeH1
				node.Children = append(node.Children, child)
				currentH1 = len(node.Children) - 1
			case 2:
				child.Kind = NodeH2
				if currentH1 >= 0 {
					parent := &node.Children[currentH1]
					parent.Children = append(parent.Children, child)
				} else {
					node.Children = append(node.Children, child)
				}
			}
		}

		tree = append(tree, node)
	}

	return tree
}

// RenderSidebar renders the tree as nested lists. Child lists start hidden and
// a toggle span is emitted only on nodes that have children.
func RenderSidebar(tree []SidebarNode) string {
	var buf strings.Builder
	buf.WriteString(`<ul class="sidebar-root">`)
	for _, n := range tree {
		writeSidebarNode(&buf, n)
	}
	buf.WriteString(`</ul>`)
	return buf.String()
}

// writeSidebarNode writes one <li> and, recursively, its hidden child list.
func writeSidebarNode(buf *strings.Builder, n SidebarNode) {
	buf.WriteString(`<li class="`)
	buf.WriteString(itemClass(n.Kind))
	buf.WriteString(`">`)

	if len(n.Children) > 0 {
		buf.WriteString(`<span class="sidebar-toggle">+ </span>`)
	}

	buf.WriteString(`<a href="`)
	buf.WriteString(html.EscapeString(n.Href))
	buf.WriteString(`">`)
	buf.WriteString(html.EscapeString(n.Text))
	buf.WriteString(`</a>`)

	if len(n.Children) > 0 {
		buf.WriteString(`<ul class="`)
		buf.WriteString(listClass(n.Kind))
		buf.WriteString(`" style="display:none;">`)
		for _, c := range n.Children {
			writeSidebarNode(buf, c)
		}
		buf.WriteString(`</ul>`)
	}

	buf.WriteString(`</li>`)
}

func itemClass(k NodeKind) string {
	switch k {
	case NodeH1:
		return "sidebar-h1"
	case NodeH2:
		return "sidebar-h2"
	default:
		return "sidebar-page"
	}
}

// listClass names the child list of a node of kind k.
func listClass(k NodeKind) string {
	if k == NodePage {
		return "h1-list"
	}
	return "h2-list"
}
