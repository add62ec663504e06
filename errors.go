package readmeforge

import "errors"

// Sentinel errors for library operations.
var (
	ErrConversion        = errors.New("markdown conversion failed")
	ErrHTMLGeneration    = errors.New("HTML generation failed")
	ErrPDFGeneration     = errors.New("PDF generation failed")
	ErrDOCXGeneration    = errors.New("DOCX generation failed")
	ErrUnsupportedFormat = errors.New("unsupported output format")
	ErrInvalidPDFEngine  = errors.New("invalid PDF engine")
	ErrInvalidAssetPath  = errors.New("invalid asset path")

	// Browser errors. The PDF renderer wraps them into ErrPDFGeneration.
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
)
