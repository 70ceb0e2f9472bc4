package pipeline

import (
	"strings"

	"golang.org/x/net/html"
)

// IndexHref is the target of bare "." and "./" references.
const IndexHref = "./index.html"

// pageExtension is the extension of every generated page.
const pageExtension = ".html"

// sourceExtensions are rewritten to pageExtension. Matching is case-insensitive.
var sourceExtensions = []string{".md", ".readme"}

// externalPrefixes mark links that never point at a sibling page.
var externalPrefixes = []string{"http://", "https://", "mailto:"}

// RewriteLinks rewrites every href in the HTML so links to sibling Markdown
// pages resolve to the generated .html files. See RewriteHref for the rules.
func RewriteLinks(htmlContent string) (string, error) {
	root, isFragment, err := parseHTML(htmlContent)
	if err != nil {
		return "", err
	}

	rewriteHrefs(root)

	return renderHTML(root, isFragment)
}

// rewriteHrefs traverses the DOM and rewrites href attributes on any element.
func rewriteHrefs(n *html.Node) {
	if n.Type == html.ElementNode {
		for i, attr := range n.Attr {
			if attr.Namespace == "" && attr.Key == "href" {
				n.Attr[i].Val = RewriteHref(attr.Val)
			}
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		rewriteHrefs(c)
	}
}

// RewriteHref maps one link target to its site equivalent.
//
// Unchanged: empty links, http(s) and mailto links, same-page #anchors, and
// paths already ending in .html. "." and "./" become IndexHref. A .md or
// .readme path has its extension replaced by .html. Any other relative path
// gets .html appended, since every relative link is assumed to name a sibling
// document. Query strings and fragments are carried over untouched.
func RewriteHref(href string) string {
	if href == "" || isExternal(href) || strings.HasPrefix(href, "#") {
		return href
	}
	if href == "." || href == "./" {
		return IndexHref
	}

	path, suffix := splitPathSuffix(href)
	lower := strings.ToLower(path)

	if strings.HasSuffix(lower, pageExtension) {
		return href
	}
	for _, ext := range sourceExtensions {
		if strings.HasSuffix(lower, ext) {
			return path[:len(path)-len(ext)] + pageExtension + suffix
		}
	}
	return path + pageExtension + suffix
}

// isExternal reports whether href uses a scheme the site never rewrites.
func isExternal(href string) bool {
	lower := strings.ToLower(href)
	for _, prefix := range externalPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

// splitPathSuffix splits href at the first '?' or '#'.
func splitPathSuffix(href string) (path, suffix string) {
	if i := strings.IndexAny(href, "?#"); i >= 0 {
		return href[:i], href[i:]
	}
	return href, ""
}
