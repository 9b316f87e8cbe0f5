// Package bill owns the in-memory state of a bill being split: the roster of
// participants and the ledger of line items with their assignments.
package bill

import (
	"strings"
	"sync"

	"github.com/mmynk/billsplit/internal/calculator"
	"github.com/mmynk/billsplit/internal/models"
)

// ChangeFunc is called after every mutation that changed the session.
// It runs while the session is locked and must not call back into it;
// use the snapshot it is given.
type ChangeFunc func(models.Snapshot)

// Session holds one bill. All mutations go through its methods and are
// serialized by a mutex, so a session has a single writer at a time.
//
// Rejected input (empty or duplicate names, invalid prices, out of range
// indexes) is a no-op reported through the boolean result, never an error.
type Session struct {
	mu        sync.Mutex
	people    []string
	items     []models.LineItem
	listeners []ChangeFunc
}

// NewSession returns an empty session.
func NewSession() *Session {
	return &Session{}
}

// OnChange registers fn to be called after each successful mutation.
func (s *Session) OnChange(fn ChangeFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// AddParticipant appends name to the roster. Names are trimmed; empty names
// and exact duplicates are rejected.
func (s *Session) AddParticipant(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.people {
		if p == name {
			return false
		}
	}
	s.people = append(s.people, name)
	s.changed()
	return true
}

// RemoveParticipant removes the participant at index and drops them from
// every item's assignment set. Re-adding the same name later does not
// restore those assignments.
func (s *Session) RemoveParticipant(index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.people) {
		return false
	}
	name := s.people[index]
	s.people = append(s.people[:index], s.people[index+1:]...)

	for i := range s.items {
		s.items[i].AssignedTo = without(s.items[i].AssignedTo, name)
	}
	s.changed()
	return true
}

// AddItem appends an item after validating it with models.NewLineItem.
// Any assignment carried by item is discarded.
func (s *Session) AddItem(item models.LineItem) bool {
	valid, err := models.NewLineItem(item.Name, item.Price, item.Quantity)
	if err != nil {
		return false
	}
	s.appendItems(valid)
	return true
}

// AddItemInput parses raw form input with models.ParseLineItem and appends
// the result.
func (s *Session) AddItemInput(name, price, quantity string) bool {
	valid, err := models.ParseLineItem(name, price, quantity)
	if err != nil {
		return false
	}
	s.appendItems(valid)
	return true
}

// RemoveItem removes the item at index. Later items shift down by one.
func (s *Session) RemoveItem(index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.items) {
		return false
	}
	s.items = append(s.items[:index], s.items[index+1:]...)
	s.changed()
	return true
}

// ImportItems appends externally sourced items as they are. Existing items
// are never replaced. It returns the number of items appended.
func (s *Session) ImportItems(batch []models.LineItem) int {
	if len(batch) == 0 {
		return 0
	}
	items := make([]models.LineItem, len(batch))
	for i, item := range batch {
		items[i] = item.Clone()
	}
	s.appendItems(items...)
	return len(items)
}

// SetAssignment adds participant to (included) or removes it from the
// assignment set of the item at itemIndex. Both directions are idempotent.
// The roster is not consulted.
func (s *Session) SetAssignment(itemIndex int, participant string, included bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if itemIndex < 0 || itemIndex >= len(s.items) {
		return false
	}
	item := &s.items[itemIndex]
	if included {
		if item.IsAssigned(participant) {
			return true
		}
		item.AssignedTo = append(item.AssignedTo, participant)
	} else {
		if !item.IsAssigned(participant) {
			return true
		}
		item.AssignedTo = without(item.AssignedTo, participant)
	}
	s.changed()
	return true
}

// AssignItem replaces the assignment set of the item at itemIndex.
// Duplicates in participants are dropped, first occurrence wins.
func (s *Session) AssignItem(itemIndex int, participants []string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if itemIndex < 0 || itemIndex >= len(s.items) {
		return false
	}
	assigned := make([]string, 0, len(participants))
	seen := make(map[string]bool, len(participants))
	for _, p := range participants {
		if seen[p] {
			continue
		}
		seen[p] = true
		assigned = append(assigned, p)
	}
	s.items[itemIndex].AssignedTo = assigned
	s.changed()
	return true
}

// Participants returns a copy of the roster.
func (s *Session) Participants() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyNames(s.people)
}

// Items returns a copy of the ledger.
func (s *Session) Items() []models.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyItems(s.items)
}

// Snapshot returns a consistent copy of the roster and the ledger.
func (s *Session) Snapshot() models.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Split calculates what each participant owes for the current state.
func (s *Session) Split() map[string]*models.PersonSplit {
	snap := s.Snapshot()
	return calculator.CalculateSplit(snap.Items, snap.Participants)
}

func (s *Session) appendItems(items ...models.LineItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, items...)
	s.changed()
}

// changed notifies listeners. Callers hold s.mu.
func (s *Session) changed() {
	if len(s.listeners) == 0 {
		return
	}
	snap := s.snapshot()
	for _, fn := range s.listeners {
		fn(snap)
	}
}

func (s *Session) snapshot() models.Snapshot {
	return models.Snapshot{
		Participants: copyNames(s.people),
		Items:        copyItems(s.items),
	}
}

func without(names []string, name string) []string {
	out := names[:0]
	for _, n := range names {
		if n != name {
			out = append(out, n)
		}
	}
	return out
}

func copyNames(names []string) []string {
	out := make([]string, len(names))
	copy(out, names)
	return out
}

func copyItems(items []models.LineItem) []models.LineItem {
	out := make([]models.LineItem, len(items))
	for i, item := range items {
		out[i] = item.Clone()
	}
	return out
}
