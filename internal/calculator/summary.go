package calculator

import "github.com/mmynk/billsplit/internal/models"

// Summary describes how much of the bill the split covers.
type Summary struct {
	// Total is the sum of price × quantity over all items.
	Total float64 `json:"total"`
	// Allocated is the part of Total owed by current participants.
	Allocated float64 `json:"allocated"`
	// Unallocated is the cost not owed by any current participant: unassigned
	// items plus shares assigned to names missing from the roster.
	Unallocated float64 `json:"unallocated"`
	// UnassignedItems counts items with an empty assignment set.
	UnassignedItems int `json:"unassigned_items"`
}

// Summarize totals the bill against a split produced by CalculateSplit.
func Summarize(items []models.LineItem, splits map[string]*models.PersonSplit) Summary {
	var s Summary
	for _, item := range items {
		s.Total += item.Total()
		if len(item.AssignedTo) == 0 {
			s.UnassignedItems++
		}
	}
	for _, split := range splits {
		s.Allocated += split.Total
	}
	s.Unallocated = s.Total - s.Allocated
	if s.Unallocated < 0.005 && s.Unallocated > -0.005 {
		s.Unallocated = 0
	}
	return s
}
