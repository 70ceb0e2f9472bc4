// Package pipeline implements the per-page Markdown-to-HTML stages of the site build.
//
// Stages, in the order the site builder runs them:
//   - Markdown preprocessing (line endings, byte order mark)
//   - Markdown to HTML conversion via Goldmark
//   - Heading indexing: stable anchor ids on every h1/h2
//   - Link rewriting: sibling .md links become .html links
//   - Section collapsing: each h2 and its content become a togglable block
//
// The sidebar composer also lives here because it consumes the heading index
// produced by IndexHeadings and must agree with it on anchor ids.
//
// Page ordering, templating and file output are handled by the root mdmanual
// package. PDF rasterization never touches this package.
package pipeline
