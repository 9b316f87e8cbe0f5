package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/mmynk/billsplit/internal/extract"
	"github.com/mmynk/billsplit/internal/metrics"
	"github.com/mmynk/billsplit/internal/models"
)

// ImageField is the multipart field carrying the bill.
const ImageField = "image"

// DefaultMaxUploadBytes caps uploads when no limit is configured.
const DefaultMaxUploadBytes = 10 << 20

// ScanResponse is returned by POST /scan-bill. Items may be empty.
type ScanResponse struct {
	Items []models.LineItem `json:"items"`
}

// ScanHandler turns an uploaded bill into line items.
type ScanHandler struct {
	extractor extract.Extractor
	maxBytes  int64
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// NewScanHandler creates a scan handler. A non-positive maxBytes uses
// DefaultMaxUploadBytes; m may be nil.
func NewScanHandler(extractor extract.Extractor, maxBytes int64, m *metrics.Metrics, logger *slog.Logger) *ScanHandler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	return &ScanHandler{
		extractor: extractor,
		maxBytes:  maxBytes,
		metrics:   m,
		logger:    logger,
	}
}

// ScanBill handles POST /scan-bill
func (h *ScanHandler) ScanBill(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	file, header, err := r.FormFile(ImageField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteError(w, http.StatusRequestEntityTooLarge, "Image is too large", h.logger)
			return
		}
		h.logger.Debug("scan request without image", "error", err)
		WriteError(w, http.StatusBadRequest, "No image provided", h.logger)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error("failed to read upload", "filename", header.Filename, "error", err)
		WriteError(w, http.StatusBadRequest, "Failed to read image", h.logger)
		return
	}

	upload := extract.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}
	mediaType := upload.MediaType()

	items, err := h.extractor.Extract(r.Context(), upload)
	if err != nil {
		h.observe(mediaType, "error", 0)
		switch {
		case errors.Is(err, extract.ErrEmptyUpload):
			WriteError(w, http.StatusBadRequest, "No image provided", h.logger)
		case errors.Is(err, extract.ErrUnsupportedType):
			WriteError(w, http.StatusUnsupportedMediaType, "Unsupported file type: "+mediaType, h.logger)
		default:
			h.logger.Error("failed to extract items",
				"filename", header.Filename,
				"media_type", mediaType,
				"error", err,
			)
			WriteError(w, http.StatusInternalServerError, "Failed to process image", h.logger)
		}
		return
	}

	if items == nil {
		items = []models.LineItem{}
	}
	for i := range items {
		if items[i].AssignedTo == nil {
			items[i].AssignedTo = []string{}
		}
	}

	result := "ok"
	if len(items) == 0 {
		result = "empty"
	}
	h.observe(mediaType, result, len(items))

	h.logger.Info("bill scanned",
		"filename", header.Filename,
		"media_type", mediaType,
		"items", len(items),
	)

	WriteJSON(w, http.StatusOK, ScanResponse{Items: items}, h.logger)
}

func (h *ScanHandler) observe(mediaType, result string, items int) {
	if h.metrics == nil {
		return
	}
	h.metrics.Extractions.WithLabelValues(mediaType, result).Inc()
	h.metrics.ItemsExtracted.Add(float64(items))
}
