// Package scan calls a bill-scanning endpoint and merges the scanned items
// into a bill session.
package scan

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/mmynk/billsplit/internal/models"
)

// ScanPath is the path of the scanning endpoint on the configured host.
const ScanPath = "/scan-bill"

var (
	// ErrNoItems means the service answered successfully but found no items.
	ErrNoItems = errors.New("no items found in the bill")
	// ErrScanFailed wraps transport, status and decoding failures.
	ErrScanFailed = errors.New("scan failed")
)

// Client posts bill images to <host>/scan-bill.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a client for the scanning service at host, for example
// "http://localhost:5000". A nil httpClient uses http.DefaultClient.
func NewClient(host string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		endpoint:   strings.TrimRight(host, "/") + ScanPath,
		httpClient: httpClient,
	}
}

// scanResponse is the body returned by the scanning service.
type scanResponse struct {
	Items []models.LineItem `json:"items"`
	Error string            `json:"error,omitempty"`
}

// ScanBill uploads image as the multipart field "image" and returns the
// items found. It returns ErrNoItems when the item list is empty or absent,
// and an error wrapping ErrScanFailed for any other failure.
func (c *Client) ScanBill(ctx context.Context, filename string, image io.Reader) ([]models.LineItem, error) {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile("image", filename)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to build form: %v", ErrScanFailed, err)
	}
	if _, err := io.Copy(part, image); err != nil {
		return nil, fmt.Errorf("%w: failed to read image: %v", ErrScanFailed, err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("%w: failed to build form: %v", ErrScanFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrScanFailed, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanFailed, err)
	}
	defer resp.Body.Close()

	var decoded scanResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&decoded)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if decodeErr == nil && decoded.Error != "" {
			return nil, fmt.Errorf("%w: status %d: %s", ErrScanFailed, resp.StatusCode, decoded.Error)
		}
		return nil, fmt.Errorf("%w: status %d", ErrScanFailed, resp.StatusCode)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("%w: malformed response: %v", ErrScanFailed, decodeErr)
	}
	if len(decoded.Items) == 0 {
		return nil, ErrNoItems
	}

	for i := range decoded.Items {
		if decoded.Items[i].AssignedTo == nil {
			decoded.Items[i].AssignedTo = []string{}
		}
	}
	return decoded.Items, nil
}
