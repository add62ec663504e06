package main

import (
	"errors"
	"os"

	readmeforge "github.com/Neil2813/Crimson-Scriveners-Readme-Forger"
	"github.com/Neil2813/Crimson-Scriveners-Readme-Forger/internal/assets"
	"github.com/Neil2813/Crimson-Scriveners-Readme-Forger/internal/config"
	"github.com/Neil2813/Crimson-Scriveners-Readme-Forger/internal/dateutil"
)

// Exit codes for the readmeforge CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful run
	ExitGeneral = 1 // General/unexpected error, or some batch files failed
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitRender  = 4 // PDF/DOCX rendering or browser errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Rendering and browser errors (exit 4)
	if errors.Is(err, readmeforge.ErrBrowserConnect) ||
		errors.Is(err, readmeforge.ErrPageCreate) ||
		errors.Is(err, readmeforge.ErrPageLoad) ||
		errors.Is(err, readmeforge.ErrPDFGeneration) ||
		errors.Is(err, readmeforge.ErrDOCXGeneration) ||
		errors.Is(err, readmeforge.ErrHTMLGeneration) {
		return ExitRender
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadMarkdown) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidPalette) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, dateutil.ErrInvalidDateFormat) ||
		errors.Is(err, assets.ErrStyleNotFound) ||
		errors.Is(err, readmeforge.ErrUnsupportedFormat) ||
		errors.Is(err, readmeforge.ErrInvalidPDFEngine) ||
		errors.Is(err, readmeforge.ErrInvalidAssetPath) {
		return ExitUsage
	}

	return ExitGeneral
}
