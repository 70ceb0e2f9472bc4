// Package pagemap reconciles rendered section PDFs with the headings they were
// rendered from.
//
// It answers two questions without touching a PDF itself: on which local page
// of a section does each subsection heading land (Locate), and where does each
// section start once a table of contents and the preceding sections are placed
// in front of it (Layout). Page numbers handed out by Layout and Outline are
// 1-based physical pages of the final merged document.
package pagemap
