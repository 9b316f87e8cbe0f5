package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
)

// SaveResponse acknowledges a saved bill.
type SaveResponse struct {
	Status string          `json:"status"`
	BillID string          `json:"bill_id"`
	Data   json.RawMessage `json:"data"`
}

// SaveHandler accepts a bill and echoes it back under a new ID.
// Nothing is stored.
type SaveHandler struct {
	logger *slog.Logger
}

// NewSaveHandler creates a new save handler
func NewSaveHandler(logger *slog.Logger) *SaveHandler {
	return &SaveHandler{logger: logger}
}

// SaveBill handles POST /save-bill
func (h *SaveHandler) SaveBill(w http.ResponseWriter, r *http.Request) {
	var data json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	billID := uuid.New().String()
	h.logger.Info("bill saved", "bill_id", billID, "bytes", len(data))

	WriteJSON(w, http.StatusOK, SaveResponse{
		Status: "success",
		BillID: billID,
		Data:   data,
	}, h.logger)
}
