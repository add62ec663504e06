package readmeforge

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/Neil2813/Crimson-Scriveners-Readme-Forger/internal/fileutil"
	"github.com/Neil2813/Crimson-Scriveners-Readme-Forger/internal/process"
)

// htmlPrinter abstracts HTML to PDF printing so the PDF renderer can be
// tested without a browser.
type htmlPrinter interface {
	Print(ctx context.Context, html string) ([]byte, error)
	Close() error
}

var _ htmlPrinter = (*rodPrinter)(nil)

// PDF page dimensions in inches (A4, 2.54cm margins). The report stylesheet
// declares the same page box with @page; these apply when it is missing.
const (
	paperWidthInches  = 8.27
	paperHeightInches = 11.69
	marginInches      = 1.0
)

// footerTemplate is Chrome's native footer: page number out of total.
const footerTemplate = `<div style="font-size: 8px; font-family: Helvetica, Arial, sans-serif; color: #6b7280; width: 100%; text-align: center;">` +
	`<span class="pageNumber"></span>/<span class="totalPages"></span></div>`

// rodPrinter prints through headless Chrome via go-rod. The browser is
// launched on first use and shared by concurrent calls; each call opens its
// own page.
type rodPrinter struct {
	timeout time.Duration
	logger  *slog.Logger

	mu       sync.Mutex
	launcher *launcher.Launcher
	browser  *rod.Browser
}

func newRodPrinter(timeout time.Duration) *rodPrinter {
	return &rodPrinter{
		timeout: timeout,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// ensureBrowser lazily launches and connects to the browser.
func (r *rodPrinter) ensureBrowser() (*rod.Browser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser != nil {
		return r.browser, nil
	}

	l := launcher.New()

	// Use pre-installed browser if specified (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("CI") == "true" || os.Getenv("ROD_NO_SANDBOX") == "1" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	r.launcher = l
	r.browser = browser
	return browser, nil
}

// Close releases browser resources and kills the browser process tree.
func (r *rodPrinter) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var err error
	if r.browser != nil {
		err = r.browser.Close()
		r.browser = nil
	}
	if r.launcher != nil {
		if pid := r.launcher.PID(); pid > 0 {
			if kerr := process.KillTree(pid); kerr != nil {
				r.logger.Debug("browser cleanup", "pid", pid, "error", kerr)
			}
		}
		r.launcher.Kill()
		r.launcher = nil
	}
	return err
}

// Print writes html to a temp file, opens it in headless Chrome and prints
// it with backgrounds.
func (r *rodPrinter) Print(ctx context.Context, html string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tmpPath, cleanup, err := fileutil.WriteTemp([]byte(html), "html")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	browser, err := r.ensureBrowser()
	if err != nil {
		return nil, err
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: "file://" + tmpPath})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer page.Close()

	// Wait for page to load with timeout from context or default
	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}

	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader, err := page.PDF(printOptions())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	pdfBuf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}

	return pdfBuf, nil
}

func printOptions() *proto.PagePrintToPDF {
	return &proto.PagePrintToPDF{
		PaperWidth:          floatPtr(paperWidthInches),
		PaperHeight:         floatPtr(paperHeightInches),
		MarginTop:           floatPtr(marginInches),
		MarginBottom:        floatPtr(marginInches),
		MarginLeft:          floatPtr(marginInches),
		MarginRight:         floatPtr(marginInches),
		PrintBackground:     true,
		PreferCSSPageSize:   true,
		DisplayHeaderFooter: true,
		HeaderTemplate:      "<span></span>",
		FooterTemplate:      footerTemplate,
	}
}

// floatPtr returns a pointer to a float64 value.
func floatPtr(v float64) *float64 {
	return &v
}

// findBrowser returns the browser binary rod would launch: ROD_BROWSER_BIN
// when set and present, else the first standard install location.
func findBrowser() (string, bool) {
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		return bin, fileutil.IsRegularFile(bin)
	}
	return launcher.LookPath()
}
