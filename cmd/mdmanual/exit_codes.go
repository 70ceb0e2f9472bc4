package main

import (
	"errors"
	"os"

	mdmanual "github.com/alnah/go-mdmanual"
	"github.com/alnah/go-mdmanual/internal/config"
)

// Exit codes for the mdmanual CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess       = 0 // Successful build
	ExitGeneral       = 1 // General/unexpected error
	ExitUsage         = 2 // Invalid flags, config, template or assets
	ExitIO            = 3 // Unreadable sources, missing sections, unwritable output
	ExitBrowser       = 4 // Browser/Chrome errors and render timeouts
	ExitHeadingLookup = 5 // A subsection heading could not be found in its PDF
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Heading lookup misses (exit 5)
	if errors.Is(err, mdmanual.ErrHeadingLookupMiss) {
		return ExitHeadingLookup
	}

	// Browser errors (exit 4)
	if errors.Is(err, mdmanual.ErrRender) ||
		errors.Is(err, mdmanual.ErrBrowserConnect) ||
		errors.Is(err, mdmanual.ErrPageCreate) ||
		errors.Is(err, mdmanual.ErrPageLoad) ||
		errors.Is(err, mdmanual.ErrPDFGeneration) {
		return ExitBrowser
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, mdmanual.ErrTemplate) ||
		errors.Is(err, mdmanual.ErrInvalidAssetPath) ||
		errors.Is(err, mdmanual.ErrEmptyPublicationOrder) ||
		errors.Is(err, mdmanual.ErrDuplicatePage) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, mdmanual.ErrSourceRead) ||
		errors.Is(err, mdmanual.ErrNoDocuments) ||
		errors.Is(err, mdmanual.ErrSectionNotFound) ||
		errors.Is(err, mdmanual.ErrWriteOutput) {
		return ExitIO
	}

	return ExitGeneral
}
