package pdf

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-resty/resty/v2"

	appLog "tripgen/internal/log"
	"tripgen/internal/model"
)

// DefaultGotenbergURL is the conventional local Gotenberg endpoint for
// Chromium HTML conversion.
const DefaultGotenbergURL = "http://localhost:3000/forms/chromium/convert/html"

// Converter turns a rendered HTML file into a PDF document. A failed
// conversion must not destroy the HTML artifact; callers treat the
// error as a warning.
type Converter interface {
	Convert(ctx context.Context, htmlPath, pdfPath string) error
}

// GotenbergConverter submits the HTML as a multipart payload to a
// Gotenberg endpoint. Portrait orientation, background printing on.
type GotenbergConverter struct {
	client *resty.Client
	url    string
}

// NewGotenbergConverter builds a converter for the given endpoint;
// empty url selects DefaultGotenbergURL.
func NewGotenbergConverter(url string) *GotenbergConverter {
	if url == "" {
		url = DefaultGotenbergURL
	}
	return &GotenbergConverter{
		client: resty.New().SetTimeout(30 * time.Second),
		url:    url,
	}
}

func (g *GotenbergConverter) Convert(ctx context.Context, htmlPath, pdfPath string) error {
	html, err := os.ReadFile(htmlPath)
	if err != nil {
		return fmt.Errorf("%w: read html: %v", model.ErrConversionFailed, err)
	}

	resp, err := g.client.R().
		SetContext(ctx).
		SetFileReader("files", "index.html", bytes.NewReader(html)).
		SetFormData(map[string]string{
			"landscape":       "false",
			"printBackground": "true",
		}).
		Post(g.url)
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrConversionFailed, err)
	}
	if resp.IsError() {
		return fmt.Errorf("%w: %s returned %s", model.ErrConversionFailed, g.url, resp.Status())
	}

	if err := os.WriteFile(pdfPath, resp.Body(), 0o644); err != nil {
		return fmt.Errorf("%w: write pdf: %v", model.ErrConversionFailed, err)
	}

	appLog.Info("pdf conversion succeeded", "endpoint", g.url, "pdf", pdfPath, "bytes", len(resp.Body()))
	return nil
}
