package models

// PersonItem represents an item's share for one person.
type PersonItem struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"` // This person's share of the item
}

// PersonSplit represents one person's calculated share of a bill.
// This is the output of the split calculation algorithm.
type PersonSplit struct {
	// Participant is the name of the person.
	Participant string `json:"participant"`

	// Total is the unrounded sum of this person's item shares.
	// Round only for display.
	Total float64 `json:"total"`

	// Items are the specific items assigned to this person with their share amounts.
	Items []PersonItem `json:"items"`
}

// Snapshot is a point-in-time copy of a bill session.
type Snapshot struct {
	Participants []string   `json:"participants"`
	Items        []LineItem `json:"items"`
}
