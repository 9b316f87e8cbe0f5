package rpc

import (
	"github.com/mmynk/billsplit/internal/calculator"
	"github.com/mmynk/billsplit/internal/models"
)

type CreateSessionRequest struct{}

type CreateSessionResponse struct {
	// SessionToken must be sent as "Authorization: Bearer <token>" on every
	// other call.
	SessionToken string   `json:"session_token"`
	Bill         BillView `json:"bill"`
}

type GetBillRequest struct{}

type AddParticipantRequest struct {
	Name string `json:"name"`
}

type RemoveParticipantRequest struct {
	Index int `json:"index"`
}

type AddItemRequest struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	// Quantity defaults to 1 when zero or negative.
	Quantity int `json:"quantity"`
}

type RemoveItemRequest struct {
	Index int `json:"index"`
}

type SetAssignmentRequest struct {
	ItemIndex   int    `json:"item_index"`
	Participant string `json:"participant"`
	Included    bool   `json:"included"`
}

type AssignItemRequest struct {
	ItemIndex    int      `json:"item_index"`
	Participants []string `json:"participants"`
}

type ImportItemsRequest struct {
	Items []models.LineItem `json:"items"`
}

type CalculateSplitRequest struct{}

// BillResponse is returned by every call that reads or changes the bill.
type BillResponse struct {
	// Applied is false when the call was rejected by validation (empty or
	// duplicate name, invalid price, stale index). The bill is unchanged then.
	Applied bool     `json:"applied"`
	Bill    BillView `json:"bill"`
}

// BillView is everything a client needs to render the bill.
type BillView struct {
	Participants []string           `json:"participants"`
	Items        []models.LineItem  `json:"items"`
	Split        []SplitLine        `json:"split"`
	Summary      calculator.Summary `json:"summary"`
}

// SplitLine is one participant's share, rounded for display.
type SplitLine struct {
	Participant string              `json:"participant"`
	Amount      float64             `json:"amount"`
	Display     string              `json:"display"`
	Items       []models.PersonItem `json:"items"`
}

// NewBillView renders a snapshot. Amounts are rounded to cents here and
// nowhere earlier.
func NewBillView(snap models.Snapshot) BillView {
	splits := calculator.CalculateSplit(snap.Items, snap.Participants)
	summary := calculator.Summarize(snap.Items, splits)

	lines := make([]SplitLine, 0, len(snap.Participants))
	for _, split := range calculator.Ordered(splits, snap.Participants) {
		items := make([]models.PersonItem, len(split.Items))
		for i, it := range split.Items {
			items[i] = models.PersonItem{Description: it.Description, Amount: calculator.RoundCents(it.Amount)}
		}
		lines = append(lines, SplitLine{
			Participant: split.Participant,
			Amount:      calculator.RoundCents(split.Total),
			Display:     calculator.FormatAmount(split.Total),
			Items:       items,
		})
	}

	summary.Total = calculator.RoundCents(summary.Total)
	summary.Allocated = calculator.RoundCents(summary.Allocated)
	summary.Unallocated = calculator.RoundCents(summary.Unallocated)

	participants := snap.Participants
	if participants == nil {
		participants = []string{}
	}
	items := snap.Items
	if items == nil {
		items = []models.LineItem{}
	}
	return BillView{
		Participants: participants,
		Items:        items,
		Split:        lines,
		Summary:      summary,
	}
}
