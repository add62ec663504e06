package main

// Notes:
// - exitCodeFor: we test the sentinel errors from readmeforge, config and
//   this package, plus wrapped errors to verify the errors.Is() chain.
// - Exit code constants: we verify Unix conventions (0=success, 1=general, 2=usage)
//   and custom codes are below 126.

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	readmeforge "github.com/Neil2813/Crimson-Scriveners-Readme-Forger"
	"github.com/Neil2813/Crimson-Scriveners-Readme-Forger/internal/assets"
	"github.com/Neil2813/Crimson-Scriveners-Readme-Forger/internal/config"
	"github.com/Neil2813/Crimson-Scriveners-Readme-Forger/internal/dateutil"
)

func TestExitCodeFor(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, ExitSuccess},

		// Rendering and browser errors (exit 4)
		{"browser connect", readmeforge.ErrBrowserConnect, ExitRender},
		{"page create", readmeforge.ErrPageCreate, ExitRender},
		{"page load", readmeforge.ErrPageLoad, ExitRender},
		{"pdf generation", readmeforge.ErrPDFGeneration, ExitRender},
		{"docx generation", readmeforge.ErrDOCXGeneration, ExitRender},
		{"html generation", readmeforge.ErrHTMLGeneration, ExitRender},
		{"wrapped browser connect", fmt.Errorf("failed: %w", readmeforge.ErrBrowserConnect), ExitRender},

		// I/O errors (exit 3)
		{"file not exist", os.ErrNotExist, ExitIO},
		{"permission denied", os.ErrPermission, ExitIO},
		{"read markdown", ErrReadMarkdown, ExitIO},
		{"write output", ErrWriteOutput, ExitIO},
		{"no input", ErrNoInput, ExitIO},
		{"wrapped file not exist", fmt.Errorf("reading: %w", os.ErrNotExist), ExitIO},

		// Usage/config/validation errors (exit 2)
		{"usage", ErrUsage, ExitUsage},
		{"invalid extension", ErrInvalidExtension, ExitUsage},
		{"invalid workers", ErrInvalidWorkerCount, ExitUsage},
		{"invalid palette", ErrInvalidPalette, ExitUsage},
		{"config not found", config.ErrConfigNotFound, ExitUsage},
		{"config parse", config.ErrConfigParse, ExitUsage},
		{"field too long", config.ErrFieldTooLong, ExitUsage},
		{"invalid config value", config.ErrInvalidValue, ExitUsage},
		{"invalid date format", dateutil.ErrInvalidDateFormat, ExitUsage},
		{"style not found", assets.ErrStyleNotFound, ExitUsage},
		{"unsupported format", readmeforge.ErrUnsupportedFormat, ExitUsage},
		{"invalid pdf engine", readmeforge.ErrInvalidPDFEngine, ExitUsage},
		{"invalid asset path", readmeforge.ErrInvalidAssetPath, ExitUsage},
		{"wrapped config parse", fmt.Errorf("loading: %w", config.ErrConfigParse), ExitUsage},

		// General errors (exit 1)
		{"batch failed", ErrBatchFailed, ExitGeneral},
		{"canceled", context.Canceled, ExitGeneral},
		{"unknown error", errors.New("something unexpected"), ExitGeneral},
		{"reported unknown", errReported{errors.New("unknown")}, ExitGeneral},
		{"reported render", errReported{readmeforge.ErrPDFGeneration}, ExitRender},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := exitCodeFor(tt.err)
			if got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestExitCodeConstants(t *testing.T) {
	t.Parallel()

	codes := []int{ExitSuccess, ExitGeneral, ExitUsage, ExitIO, ExitRender}
	seen := make(map[int]bool)
	for _, c := range codes {
		if seen[c] {
			t.Errorf("duplicate exit code %d", c)
		}
		seen[c] = true
		if c >= 126 {
			t.Errorf("exit code %d collides with shell-reserved range", c)
		}
	}
	if ExitSuccess != 0 || ExitGeneral != 1 || ExitUsage != 2 {
		t.Error("exit codes must follow Unix conventions for 0, 1 and 2")
	}
}
