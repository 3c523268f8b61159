// Package render turns chapter HTML into paginated PDF documents.
// Chromium prints through a headless browser driven by go-rod; Placeholder
// draws a stand-in page for a chapter that could not be built.
package render

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gaurav-prasanna/bookmerge/core"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultChromium leaves the browser choice to go-rod: ROD_BROWSER_BIN,
// then a browser on PATH, then a managed download.
const DefaultChromium = ""

// DefaultTimeout bounds printing a single chapter.
const DefaultTimeout = 5 * time.Minute

// Printer prints the document at pageURL as PDF to w.
type Printer interface {
	Print(ctx context.Context, pageURL string, w io.Writer) error
}

// Chromium renders chapter HTML files to PDF.
type Chromium struct {
	Printer Printer
	Timeout time.Duration
}

// NewChromium creates a Chromium renderer backed by a lazily launched
// headless browser. Call Close when done.
func NewChromium(binary string, timeout time.Duration) *Chromium {
	return &Chromium{
		Printer: &RodPrinter{Binary: binary, NoSandbox: os.Getenv("ROD_NO_SANDBOX") != ""},
		Timeout: timeout,
	}
}

// Render prints htmlPath to pdfPath without the default header and footer.
func (c *Chromium) Render(ctx context.Context, htmlPath, pdfPath string) error {
	src, err := filepath.Abs(htmlPath)
	if err != nil {
		return fmt.Errorf("%w: resolving %s: %w", core.ErrRender, htmlPath, err)
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := c.printFile(ctx, FileURL(src), pdfPath); err != nil {
		return fmt.Errorf("%w: printing %s: %w", core.ErrRender, htmlPath, err)
	}

	info, err := os.Stat(pdfPath)
	if err != nil {
		return fmt.Errorf("%w: no output at %s: %w", core.ErrRender, pdfPath, err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("%w: empty document %s", core.ErrRender, pdfPath)
	}
	return nil
}

func (c *Chromium) printFile(ctx context.Context, pageURL, pdfPath string) error {
	f, err := os.Create(pdfPath)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if err := c.Printer.Print(ctx, pageURL, w); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Close shuts the browser down if the printer holds one.
func (c *Chromium) Close() error {
	if cl, ok := c.Printer.(io.Closer); ok {
		return cl.Close()
	}
	return nil
}

// FileURL turns an absolute path into a file:// URL.
func FileURL(absPath string) string {
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(absPath)}).String()
}

// RodPrinter prints pages with one headless browser shared by all chapters.
type RodPrinter struct {
	Binary    string
	NoSandbox bool

	mu       sync.Mutex
	launcher *launcher.Launcher
	browser  *rod.Browser
}

// Print loads pageURL in a new tab and prints it.
func (p *RodPrinter) Print(ctx context.Context, pageURL string, w io.Writer) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	browser, err := p.connect()
	if err != nil {
		return err
	}

	page, err := browser.Context(ctx).Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return fmt.Errorf("opening tab: %w", err)
	}
	// The tab must close even when ctx has expired.
	defer page.Context(context.Background()).Close()

	if err := page.Navigate(pageURL); err != nil {
		return fmt.Errorf("loading %s: %w", pageURL, err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("waiting for %s: %w", pageURL, err)
	}

	r, err := page.PDF(&proto.PagePrintToPDF{
		DisplayHeaderFooter: false,
		PrintBackground:     true,
	})
	if err != nil {
		return fmt.Errorf("printing %s: %w", pageURL, err)
	}
	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("reading PDF stream: %w", err)
	}
	return nil
}

func (p *RodPrinter) connect() (*rod.Browser, error) {
	if p.browser != nil {
		return p.browser, nil
	}

	l := launcher.New().
		Headless(true).
		Set("run-all-compositor-stages-before-draw")
	if p.Binary != "" {
		l = l.Bin(p.Binary)
	}
	if p.NoSandbox {
		l = l.NoSandbox(true)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}
	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}

	p.launcher, p.browser = l, browser
	return browser, nil
}

// Close stops the browser process.
func (p *RodPrinter) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.browser == nil {
		return nil
	}
	err := p.browser.Close()
	p.launcher.Kill()
	p.browser, p.launcher = nil, nil
	return err
}
