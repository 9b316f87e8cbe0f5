package bill

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/billsplit/internal/calculator"
	"github.com/mmynk/billsplit/internal/models"
)

func newItem(t *testing.T, s *Session, name string, price float64, qty int) {
	t.Helper()
	require.True(t, s.AddItem(models.LineItem{Name: name, Price: price, Quantity: qty}))
}

func TestAddParticipant(t *testing.T) {
	s := NewSession()

	assert.True(t, s.AddParticipant("Alice"))
	assert.True(t, s.AddParticipant("Bob"))
	assert.False(t, s.AddParticipant("Alice"), "duplicate must be rejected")
	assert.False(t, s.AddParticipant(" Alice "), "trimmed duplicate must be rejected")
	assert.True(t, s.AddParticipant("alice"), "names are case-sensitive")
	assert.False(t, s.AddParticipant(""))
	assert.False(t, s.AddParticipant("   \t"))

	assert.Equal(t, []string{"Alice", "Bob", "alice"}, s.Participants())
}

func TestAddParticipant_NeverDuplicates(t *testing.T) {
	s := NewSession()
	names := []string{"A", "B", "A", "C", "B", "B", "A", "D", "C"}
	for _, n := range names {
		s.AddParticipant(n)
	}

	seen := map[string]bool{}
	for _, p := range s.Participants() {
		assert.False(t, seen[p], "duplicate %q in roster", p)
		seen[p] = true
	}
	assert.Len(t, s.Participants(), 4)
}

func TestRemoveParticipant_Cascades(t *testing.T) {
	s := NewSession()
	s.AddParticipant("Alice")
	s.AddParticipant("Bob")
	newItem(t, s, "Pizza", 20, 1)
	newItem(t, s, "Beer", 5, 2)
	s.SetAssignment(0, "Alice", true)
	s.SetAssignment(0, "Bob", true)
	s.SetAssignment(1, "Alice", true)

	require.True(t, s.RemoveParticipant(0))

	assert.Equal(t, []string{"Bob"}, s.Participants())
	for _, item := range s.Items() {
		assert.False(t, item.IsAssigned("Alice"), "Alice still assigned to %s", item.Name)
	}
	assert.Equal(t, []string{"Bob"}, s.Items()[0].AssignedTo)

	// Re-adding does not restore assignments.
	s.AddParticipant("Alice")
	assert.Empty(t, s.Items()[1].AssignedTo)
}

func TestRemoveParticipant_OutOfRange(t *testing.T) {
	s := NewSession()
	s.AddParticipant("Alice")

	assert.False(t, s.RemoveParticipant(-1))
	assert.False(t, s.RemoveParticipant(1))
	assert.Equal(t, []string{"Alice"}, s.Participants())
}

func TestAddItem(t *testing.T) {
	s := NewSession()

	assert.True(t, s.AddItem(models.LineItem{Name: "Pizza", Price: 10, Quantity: 2, AssignedTo: []string{"Alice"}}))
	assert.False(t, s.AddItem(models.LineItem{Name: "", Price: 10, Quantity: 1}))
	assert.False(t, s.AddItem(models.LineItem{Name: "Free", Price: 0, Quantity: 1}))
	assert.True(t, s.AddItemInput("Beer", "4.5", ""))
	assert.False(t, s.AddItemInput("Beer", "cheap", "1"))

	items := s.Items()
	require.Len(t, items, 2)
	assert.Empty(t, items[0].AssignedTo, "new items start unassigned")
	assert.Equal(t, 1, items[1].Quantity)
}

func TestRemoveItem(t *testing.T) {
	s := NewSession()
	newItem(t, s, "A", 1, 1)
	newItem(t, s, "B", 2, 1)
	newItem(t, s, "C", 3, 1)

	require.True(t, s.RemoveItem(1))
	assert.False(t, s.RemoveItem(5))

	items := s.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "A", items[0].Name)
	assert.Equal(t, "C", items[1].Name)
}

func TestSetAssignment_Idempotent(t *testing.T) {
	s := NewSession()
	newItem(t, s, "Pizza", 10, 1)

	s.SetAssignment(0, "Alice", true)
	s.SetAssignment(0, "Alice", true)
	assert.Equal(t, []string{"Alice"}, s.Items()[0].AssignedTo)

	s.SetAssignment(0, "Bob", false)
	assert.Equal(t, []string{"Alice"}, s.Items()[0].AssignedTo)

	s.SetAssignment(0, "Alice", false)
	s.SetAssignment(0, "Alice", false)
	assert.Empty(t, s.Items()[0].AssignedTo)

	assert.False(t, s.SetAssignment(3, "Alice", true))
}

func TestAssignItem(t *testing.T) {
	s := NewSession()
	newItem(t, s, "Pizza", 10, 1)
	s.SetAssignment(0, "Carol", true)

	require.True(t, s.AssignItem(0, []string{"Bob", "Alice", "Bob"}))
	assert.Equal(t, []string{"Bob", "Alice"}, s.Items()[0].AssignedTo)
	assert.False(t, s.AssignItem(1, []string{"Bob"}))
}

func TestImportItems_Additive(t *testing.T) {
	s := NewSession()
	newItem(t, s, "Manual", 3, 1)
	before := len(s.Items())

	batch := []models.LineItem{
		{Name: "Scanned 1", Price: 4, Quantity: 1},
		{Name: "Scanned 2", Price: 6, Quantity: 2, AssignedTo: []string{"Alice"}},
	}
	assert.Equal(t, 2, s.ImportItems(batch))

	items := s.Items()
	require.Len(t, items, before+len(batch))
	assert.Equal(t, "Manual", items[0].Name)
	assert.NotNil(t, items[1].AssignedTo)
	assert.Equal(t, []string{"Alice"}, items[2].AssignedTo)

	// The session holds its own copy.
	batch[1].AssignedTo[0] = "Mallory"
	assert.Equal(t, []string{"Alice"}, s.Items()[2].AssignedTo)

	assert.Equal(t, 0, s.ImportItems(nil))
	assert.Len(t, s.Items(), before+len(batch))
}

func TestSnapshotIsolation(t *testing.T) {
	s := NewSession()
	s.AddParticipant("Alice")
	newItem(t, s, "Pizza", 10, 1)
	s.SetAssignment(0, "Alice", true)

	snap := s.Snapshot()
	snap.Participants[0] = "Eve"
	snap.Items[0].AssignedTo[0] = "Eve"

	assert.Equal(t, []string{"Alice"}, s.Participants())
	assert.Equal(t, []string{"Alice"}, s.Items()[0].AssignedTo)
}

func TestOnChange(t *testing.T) {
	s := NewSession()
	var calls int
	var last models.Snapshot
	s.OnChange(func(snap models.Snapshot) {
		calls++
		last = snap
	})

	s.AddParticipant("Alice")
	s.AddParticipant("Alice") // rejected, no notification
	newItem(t, s, "Pizza", 10, 1)
	s.SetAssignment(0, "Alice", true)
	s.SetAssignment(0, "Alice", true) // already assigned, no notification

	assert.Equal(t, 3, calls)
	assert.Equal(t, []string{"Alice"}, last.Items[0].AssignedTo)
}

func TestSplit(t *testing.T) {
	s := NewSession()
	s.AddParticipant("A")
	s.AddParticipant("B")
	newItem(t, s, "Pizza", 10, 2)
	s.SetAssignment(0, "A", true)
	s.SetAssignment(0, "B", true)

	splits := s.Split()
	require.Len(t, splits, 2)
	assert.Equal(t, 10.00, calculator.RoundCents(splits["A"].Total))
	assert.Equal(t, 10.00, calculator.RoundCents(splits["B"].Total))
}
