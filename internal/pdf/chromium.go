package pdf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"tripgen/internal/model"
)

const defaultPrintTimeout = 30 * time.Second

// ChromiumConverter prints the HTML file to PDF with a local headless
// Chromium instance. Used when no Gotenberg endpoint is configured.
type ChromiumConverter struct {
	// Timeout bounds the whole print sequence. Zero selects a default.
	Timeout time.Duration
}

func NewChromiumConverter() *ChromiumConverter {
	return &ChromiumConverter{Timeout: defaultPrintTimeout}
}

func (c *ChromiumConverter) Convert(parentCtx context.Context, htmlPath, pdfPath string) error {
	abs, err := filepath.Abs(htmlPath)
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrConversionFailed, err)
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = defaultPrintTimeout
	}

	ctx, cancel := chromedp.NewContext(parentCtx)
	defer cancel()

	ctx, timeoutCancel := context.WithTimeout(ctx, timeout)
	defer timeoutCancel()

	var pdf []byte
	tasks := chromedp.Tasks{
		chromedp.Navigate("file://" + abs),
		// Small extra delay to allow final paints.
		chromedp.Sleep(200 * time.Millisecond),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithLandscape(false).
				WithPrintBackground(true).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = buf
			return nil
		}),
	}

	if err := chromedp.Run(ctx, tasks); err != nil {
		return fmt.Errorf("%w: chromedp run failed: %v", model.ErrConversionFailed, err)
	}

	if err := os.WriteFile(pdfPath, pdf, 0o644); err != nil {
		return fmt.Errorf("%w: write pdf: %v", model.ErrConversionFailed, err)
	}
	return nil
}
