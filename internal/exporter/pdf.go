package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/SapirCardona/linkedinsights/internal/config"
)

// A4 in inches
const (
	a4Width  = 8.27
	a4Height = 11.69
)

// Binary names chromedp looks for on PATH
var chromeNames = []string{
	"headless_shell",
	"headless-shell",
	"chromium",
	"chromium-browser",
	"google-chrome",
	"google-chrome-stable",
}

// PDFPrinter turns an HTML document into a PDF
type PDFPrinter interface {
	Print(ctx context.Context, html []byte) ([]byte, error)
}

// ChromePrinter prints through a headless Chrome started per call
type ChromePrinter struct {
	execPath string
	timeout  time.Duration
	logger   *slog.Logger
}

// NewChromePrinter uses cfg.ChromePath when set, otherwise the Chrome
// chromedp finds on PATH
func NewChromePrinter(cfg config.ExportConfig, logger *slog.Logger) *ChromePrinter {
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.PDFTimeout
	if timeout <= 0 {
		timeout = config.DefaultPDFTimeout
	}
	return &ChromePrinter{
		execPath: cfg.ChromePath,
		timeout:  timeout,
		logger:   logger.With(slog.String("component", "pdf_printer")),
	}
}

// Print loads html into a blank page and prints it to A4 with backgrounds
func (p *ChromePrinter) Print(ctx context.Context, html []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.DisableGPU,
	)
	if p.execPath != "" {
		opts = append(opts, chromedp.ExecPath(p.execPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	start := time.Now()
	var pdf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, string(html)).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(a4Width).
				WithPaperHeight(a4Height).
				Do(ctx)
			pdf = buf
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("print pdf: %w", err)
	}

	p.logger.Debug("pdf printed",
		slog.Int("bytes", len(pdf)),
		slog.Duration("duration", time.Since(start)))
	return pdf, nil
}

// Available returns the Chrome binary Print would start. A configured path
// must exist; otherwise PATH is searched.
func (p *ChromePrinter) Available() (string, bool) {
	if p.execPath != "" {
		info, err := os.Stat(p.execPath)
		return p.execPath, err == nil && !info.IsDir()
	}
	for _, name := range chromeNames {
		if path, err := exec.LookPath(name); err == nil {
			return path, true
		}
	}
	return "", false
}
