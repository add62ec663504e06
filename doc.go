// Package readmeforge turns README-style Markdown into a technical report.
//
// # Quick Start
//
// Create a converter, convert markdown, and close when done:
//
//	conv, err := readmeforge.NewConverter(readmeforge.WithPalette("ocean"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//
//	result, err := conv.Convert(ctx, readmeforge.Input{
//	    Markdown:   readme,
//	    SourceName: "README.md",
//	    Formats:    []readmeforge.Format{readmeforge.FormatPDF, readmeforge.FormatDOCX},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("README_report.pdf", result.PDF, 0644)
//
// Formats render independently. When one fails, Convert still returns the
// result alongside the error, and Result.OK tells which formats can be used.
//
// # Conversion Pipeline
//
// Every conversion goes through the same stages:
//
//  1. Markdown preprocessing (badge, separator and emoji-run removal)
//  2. CommonMark + GFM parsing via Goldmark
//  3. Building a DocumentModel: title, sections, tables, lists, code blocks
//  4. Rendering the model to HTML, PDF or DOCX with the selected palette
//
// The stages are also exposed individually: ParseMarkdown, RenderHTML,
// RenderPDF and RenderDOCX.
//
// # Palettes
//
// Table headers and row stripes take their colors from a fixed palette
// registry (see Palettes). An unknown palette key never fails; it renders
// with the default palette.
//
// # PDF Engines
//
// PDFs are printed by headless Chrome via go-rod when a browser can be
// found (ROD_BROWSER_BIN, or the standard install locations). Otherwise a
// built-in engine lays the report out directly with core PDF fonts. Force
// one with WithPDFEngine(PDFEngineChrome) or WithPDFEngine(PDFEngineNative).
//
// For containers and CI environments, set ROD_NO_SANDBOX=1 to disable the
// Chrome sandbox.
//
// # Parallel Processing
//
// Converters are safe for concurrent use. To bound the number of browser
// instances in a batch or server, use ConverterPool:
//
//	pool := readmeforge.NewConverterPool(readmeforge.ResolvePoolSize(0))
//	defer pool.Close()
//
//	conv, err := pool.Acquire(ctx)
//	if err != nil {
//	    return err
//	}
//	defer pool.Release(conv)
package readmeforge
