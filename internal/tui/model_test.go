package tui

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/billsplit/internal/bill"
	"github.com/mmynk/billsplit/internal/models"
	"github.com/mmynk/billsplit/internal/scan"
)

type fakeScanner struct {
	items []models.LineItem
	err   error
}

func (f *fakeScanner) ScanBill(context.Context, string, io.Reader) ([]models.LineItem, error) {
	return f.items, f.err
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	tab   = tea.KeyMsg{Type: tea.KeyTab}
	space = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	down  = tea.KeyMsg{Type: tea.KeyDown}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
)

// send feeds messages through Update and returns the resulting model.
func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

// typeText sends each character as its own key press.
func typeText(s string) []tea.Msg {
	msgs := make([]tea.Msg, 0, len(s))
	for _, r := range s {
		msgs = append(msgs, runes(string(r)))
	}
	return msgs
}

func TestAddPeopleAndItems(t *testing.T) {
	session := bill.NewSession()
	m := New(session, nil)

	m = send(t, m, runes("p"))
	m = send(t, m, typeText("Alice")...)
	m = send(t, m, enter)
	m = send(t, m, runes("p"))
	m = send(t, m, typeText("Bob")...)
	m = send(t, m, enter)

	m = send(t, m, runes("i"))
	m = send(t, m, typeText("Pizza")...)
	m = send(t, m, tab)
	m = send(t, m, typeText("10")...)
	m = send(t, m, tab)
	m = send(t, m, typeText("2")...)
	m = send(t, m, enter)

	snap := session.Snapshot()
	assert.Equal(t, []string{"Alice", "Bob"}, snap.Participants)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "Pizza", snap.Items[0].Name)
	assert.Equal(t, 10.0, snap.Items[0].Price)
	assert.Equal(t, 2, snap.Items[0].Quantity)
	assert.Equal(t, noInput, m.mode)

	view := m.View()
	assert.Contains(t, view, "Pizza")
	assert.Contains(t, view, "Alice: $0.00")
}

func TestRejectedInputKeepsFormOpen(t *testing.T) {
	session := bill.NewSession()
	session.AddParticipant("Alice")
	m := New(session, nil)

	m = send(t, m, runes("p"))
	m = send(t, m, typeText("Alice")...)
	m = send(t, m, enter)

	assert.Equal(t, addPersonInput, m.mode)
	assert.NotEmpty(t, m.inputErr)
	assert.Equal(t, []string{"Alice"}, session.Participants())

	m = send(t, m, esc)
	assert.Equal(t, noInput, m.mode)

	m = send(t, m, runes("i"))
	m = send(t, m, typeText("Tea")...)
	m = send(t, m, enter)
	assert.Equal(t, addItemInput, m.mode, "item without a price must be rejected")
	assert.Empty(t, session.Items())
}

func TestToggleAssignmentAndSplit(t *testing.T) {
	session := bill.NewSession()
	session.AddParticipant("Alice")
	session.AddParticipant("Bob")
	session.AddItemInput("Pizza", "10", "2")
	m := New(session, nil)

	// items -> people -> assign
	m = send(t, m, tab, tab)
	require.Equal(t, assignPane, m.focus)

	m = send(t, m, space, down, space)
	assert.Equal(t, []string{"Alice", "Bob"}, session.Items()[0].AssignedTo)

	view := m.View()
	assert.Contains(t, view, "Alice: $10.00")
	assert.Contains(t, view, "Bob: $10.00")

	// toggling again removes Bob
	m = send(t, m, space)
	assert.Equal(t, []string{"Alice"}, session.Items()[0].AssignedTo)
	assert.Contains(t, m.View(), "Alice: $20.00")
}

func TestRemoveParticipantUpdatesViews(t *testing.T) {
	session := bill.NewSession()
	session.AddParticipant("Alice")
	session.AddParticipant("Bob")
	session.AddItemInput("Wine", "30", "")
	session.AssignItem(0, []string{"Alice", "Bob"})
	m := New(session, nil)

	m = send(t, m, tab) // people
	m = send(t, m, runes("d"))

	assert.Equal(t, []string{"Bob"}, session.Participants())
	assert.Equal(t, []string{"Bob"}, session.Items()[0].AssignedTo)
	assert.Contains(t, m.View(), "Bob: $30.00")
	assert.NotContains(t, m.View(), "Alice")
	assert.Equal(t, 0, m.personCursor)
}

func TestRemoveItem(t *testing.T) {
	session := bill.NewSession()
	session.AddItemInput("Tea", "3", "1")
	session.AddItemInput("Cake", "5", "1")
	m := New(session, nil)

	m = send(t, m, down, runes("d"))
	require.Len(t, session.Items(), 1)
	assert.Equal(t, "Tea", session.Items()[0].Name)
	assert.Equal(t, 0, m.itemCursor)
}

func TestScan(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bill.jpg")
	require.NoError(t, os.WriteFile(path, []byte("jpeg"), 0o644))

	tests := []struct {
		name          string
		scanner       *fakeScanner
		wantOutcome   scan.Outcome
		wantItems     int
		wantStatusErr bool
	}{
		{
			name:        "items are imported",
			scanner:     &fakeScanner{items: []models.LineItem{{Name: "Burger", Price: 12, Quantity: 1}, {Name: "Fries", Price: 4, Quantity: 1}}},
			wantOutcome: scan.Succeeded,
			wantItems:   3,
		},
		{
			name:          "no items",
			scanner:       &fakeScanner{err: scan.ErrNoItems},
			wantOutcome:   scan.NoItems,
			wantItems:     1,
			wantStatusErr: true,
		},
		{
			name:          "service failure",
			scanner:       &fakeScanner{err: errors.Join(scan.ErrScanFailed, errors.New("502"))},
			wantOutcome:   scan.Failed,
			wantItems:     1,
			wantStatusErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := bill.NewSession()
			session.AddItemInput("Manual", "2", "1")
			m := New(session, scan.NewScanner(tt.scanner, 0))

			m = send(t, m, runes("s"))
			m = send(t, m, typeText(path)...)
			next, cmd := m.Update(enter)
			m = next.(Model)
			require.NotNil(t, cmd)
			assert.Equal(t, scan.Processing, m.status)
			assert.Equal(t, "Processing image...", m.statusMsg)

			m = send(t, m, cmd())

			assert.Equal(t, tt.wantOutcome, m.status)
			assert.False(t, m.scanning)
			assert.Len(t, session.Items(), tt.wantItems)
			assert.Equal(t, "Manual", session.Items()[0].Name)
			assert.Equal(t, tt.wantStatusErr, m.status.IsError())
			assert.True(t, strings.HasPrefix(m.statusMsg, tt.wantOutcome.Message()))
		})
	}
}

func TestScanMissingFile(t *testing.T) {
	session := bill.NewSession()
	m := New(session, scan.NewScanner(&fakeScanner{}, 0))

	m, cmd := startScanFor(t, m, filepath.Join(t.TempDir(), "missing.jpg"))
	m = send(t, m, cmd())

	assert.Equal(t, scan.Failed, m.status)
	assert.Empty(t, session.Items())
}

func TestSecondScanWhilePendingIsBusy(t *testing.T) {
	session := bill.NewSession()
	m := New(session, scan.NewScanner(&fakeScanner{}, 0))

	m, cmd := startScanFor(t, m, "a.jpg")
	require.NotNil(t, cmd)

	m, second := startScanFor(t, m, "b.jpg")
	assert.Nil(t, second)
	assert.Equal(t, scan.Busy, m.status)
}

func TestScanDisabledWithoutScanner(t *testing.T) {
	m := New(bill.NewSession(), nil)
	m = send(t, m, runes("s"))
	assert.Equal(t, noInput, m.mode)
	assert.NotContains(t, m.help(), "scan")
}

func startScanFor(t *testing.T, m Model, path string) (Model, tea.Cmd) {
	t.Helper()
	m = send(t, m, runes("s"))
	m = send(t, m, typeText(path)...)
	next, cmd := m.Update(enter)
	return next.(Model), cmd
}
