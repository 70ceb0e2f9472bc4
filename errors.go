package mdmanual

import "errors"

// Sentinel errors for library operations.
var (
	// Site build errors.
	ErrNoDocuments    = errors.New("no source documents found")
	ErrSourceRead     = errors.New("failed to read source document")
	ErrDuplicatePage  = errors.New("two sources produce the same page")
	ErrHTMLConversion = errors.New("HTML conversion failed")
	ErrTemplate       = errors.New("page template invalid")
	ErrWriteOutput    = errors.New("failed to write output")

	// Manual assembly errors.
	ErrEmptyPublicationOrder = errors.New("publication order is empty")
	ErrSectionNotFound       = errors.New("section HTML not found")
	ErrRender                = errors.New("failed to render section")
	ErrHeadingLookupMiss     = errors.New("subsection not found in rendered section")
	ErrPDFAssembly           = errors.New("PDF assembly failed")

	// Browser errors, wrapped by ErrRender.
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrPDFGeneration  = errors.New("PDF generation failed")

	// Asset loading errors.
	ErrInvalidAssetPath = errors.New("invalid asset path")
)
