package calculator

import (
	"github.com/mmynk/billsplit/internal/models"
)

// CalculateSplit computes how much each participant owes.
//
// Each item with a non-empty assignment set is split evenly among the
// participants assigned to it: share = price × quantity / len(assigned).
// Items nobody is assigned to are not allocated to anyone. Shares are
// accumulated unrounded; round only when presenting the result.
//
// Every participant gets an entry, zero if nothing is assigned to them.
// Assigned names missing from participants are ignored.
func CalculateSplit(items []models.LineItem, participants []string) map[string]*models.PersonSplit {
	splits := make(map[string]*models.PersonSplit, len(participants))

	// Initialize splits for all participants
	for _, p := range participants {
		splits[p] = &models.PersonSplit{
			Participant: p,
			Items:       []models.PersonItem{},
		}
	}

	for _, item := range items {
		if len(item.AssignedTo) == 0 {
			continue
		}

		// Split item among assigned people
		perPersonAmount := item.Total() / float64(len(item.AssignedTo))
		for _, person := range item.AssignedTo {
			split, exists := splits[person]
			if !exists {
				continue
			}
			split.Total += perPersonAmount
			split.Items = append(split.Items, models.PersonItem{
				Description: item.Name,
				Amount:      perPersonAmount,
			})
		}
	}

	return splits
}

// Ordered returns the splits in roster order.
func Ordered(splits map[string]*models.PersonSplit, participants []string) []models.PersonSplit {
	out := make([]models.PersonSplit, 0, len(participants))
	for _, p := range participants {
		if split, ok := splits[p]; ok {
			out = append(out, *split)
		}
	}
	return out
}
