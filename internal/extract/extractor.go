// Package extract turns an uploaded bill (image, text or HTML e-receipt)
// into line items.
package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/mmynk/billsplit/internal/models"
	"github.com/mmynk/billsplit/internal/receipt"
)

var (
	// ErrUnsupportedType is returned when no extractor handles the upload's content type.
	ErrUnsupportedType = errors.New("unsupported upload type")
	// ErrEmptyUpload is returned for uploads without content.
	ErrEmptyUpload = errors.New("empty upload")
)

// Upload is a bill file received from a client.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// MediaType returns the upload's media type without parameters. When the
// declared type is missing or generic it is sniffed from the content.
func (u Upload) MediaType() string {
	declared, _, err := mime.ParseMediaType(u.ContentType)
	if err != nil || declared == "" || declared == "application/octet-stream" {
		declared, _, _ = mime.ParseMediaType(http.DetectContentType(u.Data))
	}
	return strings.ToLower(declared)
}

// Extractor turns an upload into line items. An empty result is not an error.
type Extractor interface {
	Extract(ctx context.Context, upload Upload) ([]models.LineItem, error)
}

// ExtractorFunc adapts a function to the Extractor interface.
type ExtractorFunc func(ctx context.Context, upload Upload) ([]models.LineItem, error)

// Extract calls f.
func (f ExtractorFunc) Extract(ctx context.Context, upload Upload) ([]models.LineItem, error) {
	return f(ctx, upload)
}

// Text extracts items from plain-text receipts (for example OCR output).
var Text = ExtractorFunc(func(_ context.Context, upload Upload) ([]models.LineItem, error) {
	return receipt.ParseText(string(upload.Data)), nil
})

// HTML extracts items from HTML e-receipts.
var HTML = ExtractorFunc(func(_ context.Context, upload Upload) ([]models.LineItem, error) {
	items, err := receipt.ParseHTML(bytes.NewReader(upload.Data))
	if err != nil {
		return nil, fmt.Errorf("failed to read html receipt: %w", err)
	}
	return items, nil
})

// Router dispatches uploads by media type.
type Router struct {
	// Images handles image/* uploads. Nil means images are not supported.
	Images Extractor
}

// Extract implements Extractor.
func (r *Router) Extract(ctx context.Context, upload Upload) ([]models.LineItem, error) {
	if len(upload.Data) == 0 {
		return nil, ErrEmptyUpload
	}

	mediaType := upload.MediaType()
	switch {
	case mediaType == "text/plain":
		return Text.Extract(ctx, upload)
	case mediaType == "text/html":
		return HTML.Extract(ctx, upload)
	case strings.HasPrefix(mediaType, "image/") && r.Images != nil:
		return r.Images.Extract(ctx, upload)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, mediaType)
	}
}
