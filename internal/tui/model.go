// Package tui is the interactive terminal front-end: a Bubble Tea program
// that edits a local bill session and renders its items, people,
// assignments and split.
package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmynk/billsplit/internal/bill"
	"github.com/mmynk/billsplit/internal/calculator"
	"github.com/mmynk/billsplit/internal/models"
	"github.com/mmynk/billsplit/internal/scan"
)

// pane identifies the focused view.
type pane int

const (
	itemsPane pane = iota
	peoplePane
	assignPane
	splitPane
	paneCount
)

// inputMode is the inline form currently open, if any.
type inputMode int

const (
	noInput inputMode = iota
	addItemInput
	addPersonInput
	scanPathInput
)

// board is the rendered state, refreshed by the session's change listener.
type board struct {
	snap    models.Snapshot
	splits  []models.PersonSplit
	summary calculator.Summary
}

func (b *board) refresh(snap models.Snapshot) {
	splits := calculator.CalculateSplit(snap.Items, snap.Participants)
	b.snap = snap
	b.splits = calculator.Ordered(splits, snap.Participants)
	b.summary = calculator.Summarize(snap.Items, splits)
}

// scanDoneMsg carries a finished scan back into the update loop.
type scanDoneMsg struct {
	result scan.Result
	items  []models.LineItem
}

// collector holds scanned items until the update loop imports them.
type collector struct {
	items []models.LineItem
}

func (c *collector) ImportItems(batch []models.LineItem) int {
	c.items = append(c.items, batch...)
	return len(batch)
}

// Model is the Bubble Tea model of the bill splitter.
type Model struct {
	session *bill.Session
	scanner *scan.Scanner
	board   *board

	focus        pane
	itemCursor   int
	personCursor int
	assignCursor int

	mode       inputMode
	itemFields []textinput.Model // name, price, quantity
	itemField  int
	ti         textinput.Model // person name or scan path
	inputErr   string

	scanning  bool
	status    scan.Outcome
	statusMsg string

	width int
}

// New creates the model for session. scanner may be nil, which disables
// scanning.
func New(session *bill.Session, scanner *scan.Scanner) Model {
	b := &board{}
	b.refresh(session.Snapshot())
	session.OnChange(b.refresh)

	fields := make([]textinput.Model, 3)
	for i, placeholder := range []string{"Item name", "Price", "Qty"} {
		fields[i] = textinput.New()
		fields[i].Placeholder = placeholder
		fields[i].CharLimit = 100
	}
	fields[0].Prompt = "> "
	fields[1].Prompt = " $"
	fields[2].Prompt = " x"
	fields[1].Width = 10
	fields[2].Width = 4

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 200

	return Model{
		session:    session,
		scanner:    scanner,
		board:      b,
		itemFields: fields,
		ti:         ti,
		width:      100,
	}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case scanDoneMsg:
		return m.finishScan(msg), nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.mode != noInput {
			return m.updateInput(msg)
		}
		return m.updateBoard(msg)
	}
	return m, nil
}

func (m Model) updateBoard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	snap := m.board.snap

	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "tab", "right", "l":
		m.focus = (m.focus + 1) % paneCount
	case "shift+tab", "left", "h":
		m.focus = (m.focus + paneCount - 1) % paneCount
	case "up", "k":
		m.move(-1)
	case "down", "j":
		m.move(1)
	case "i":
		return m.openItemInput()
	case "p":
		return m.openInput(addPersonInput, "Participant name")
	case "a":
		if m.focus == peoplePane {
			return m.openInput(addPersonInput, "Participant name")
		}
		return m.openItemInput()
	case "s":
		if m.scanner == nil {
			return m, nil
		}
		return m.openInput(scanPathInput, "Path to bill image")
	case "d", "x", "delete":
		switch m.focus {
		case itemsPane:
			m.session.RemoveItem(m.itemCursor)
		case peoplePane:
			m.session.RemoveParticipant(m.personCursor)
		}
	case " ", "enter":
		if m.focus == assignPane && m.assignCursor < len(snap.Participants) && m.itemCursor < len(snap.Items) {
			person := snap.Participants[m.assignCursor]
			item := snap.Items[m.itemCursor]
			m.session.SetAssignment(m.itemCursor, person, !item.IsAssigned(person))
		}
	}
	m.clamp()
	return m, nil
}

func (m *Model) move(delta int) {
	switch m.focus {
	case itemsPane:
		m.itemCursor += delta
	case peoplePane:
		m.personCursor += delta
	case assignPane:
		m.assignCursor += delta
	}
	m.clamp()
}

// clamp keeps cursors inside the current lists after removals.
func (m *Model) clamp() {
	snap := m.board.snap
	m.itemCursor = clampIndex(m.itemCursor, len(snap.Items))
	m.personCursor = clampIndex(m.personCursor, len(snap.Participants))
	m.assignCursor = clampIndex(m.assignCursor, len(snap.Participants))
}

func clampIndex(i, n int) int {
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

func (m Model) openItemInput() (tea.Model, tea.Cmd) {
	m.mode = addItemInput
	m.inputErr = ""
	m.itemField = 0
	for i := range m.itemFields {
		m.itemFields[i].SetValue("")
		m.itemFields[i].Blur()
	}
	return m, m.itemFields[0].Focus()
}

func (m Model) openInput(mode inputMode, placeholder string) (tea.Model, tea.Cmd) {
	m.mode = mode
	m.inputErr = ""
	m.ti.SetValue("")
	m.ti.Placeholder = placeholder
	return m, m.ti.Focus()
}

func (m Model) closeInput() Model {
	m.mode = noInput
	m.inputErr = ""
	m.ti.SetValue("")
	m.ti.Blur()
	for i := range m.itemFields {
		m.itemFields[i].SetValue("")
		m.itemFields[i].Blur()
	}
	return m
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m.closeInput(), nil
	case "enter":
		return m.submit()
	case "tab", "shift+tab":
		if m.mode == addItemInput {
			step := 1
			if msg.String() == "shift+tab" {
				step = len(m.itemFields) - 1
			}
			m.itemFields[m.itemField].Blur()
			m.itemField = (m.itemField + step) % len(m.itemFields)
			return m, m.itemFields[m.itemField].Focus()
		}
	}

	var cmd tea.Cmd
	if m.mode == addItemInput {
		m.itemFields[m.itemField], cmd = m.itemFields[m.itemField].Update(msg)
	} else {
		m.ti, cmd = m.ti.Update(msg)
	}
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	switch m.mode {
	case addItemInput:
		name := m.itemFields[0].Value()
		price := m.itemFields[1].Value()
		qty := m.itemFields[2].Value()
		if !m.session.AddItemInput(name, price, qty) {
			m.inputErr = "Enter a name and a positive price"
			return m, nil
		}
		m = m.closeInput()
		m.itemCursor = len(m.board.snap.Items) - 1
	case addPersonInput:
		if !m.session.AddParticipant(m.ti.Value()) {
			m.inputErr = "Name is empty or already added"
			return m, nil
		}
		m = m.closeInput()
		m.personCursor = len(m.board.snap.Participants) - 1
	case scanPathInput:
		path := strings.TrimSpace(m.ti.Value())
		if path == "" {
			m.inputErr = "Enter a file path"
			return m, nil
		}
		m = m.closeInput()
		return m.startScan(path)
	}
	m.clamp()
	return m, nil
}

func (m Model) startScan(path string) (tea.Model, tea.Cmd) {
	if m.scanning {
		m.status = scan.Busy
		m.statusMsg = scan.Busy.Message()
		return m, nil
	}
	m.scanning = true
	m.status = scan.Processing
	m.statusMsg = scan.Processing.Message()
	return m, scanCmd(m.scanner, path)
}

// scanCmd uploads the file at path. The items travel back in the message
// so the import happens inside Update.
func scanCmd(scanner *scan.Scanner, path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return scanDoneMsg{result: scan.Result{
				Outcome: scan.Failed,
				Err:     fmt.Errorf("%w: %w", scan.ErrScanFailed, err),
			}}
		}
		defer f.Close()

		dst := &collector{}
		res := scanner.Scan(context.Background(), dst, filepath.Base(path), f)
		return scanDoneMsg{result: res, items: dst.items}
	}
}

func (m Model) finishScan(msg scanDoneMsg) Model {
	m.scanning = false
	m.status = msg.result.Outcome
	m.statusMsg = msg.result.Outcome.Message()
	if msg.result.Outcome == scan.Succeeded {
		n := m.session.ImportItems(msg.items)
		m.statusMsg = fmt.Sprintf("%s (%d items)", m.statusMsg, n)
	}
	m.clamp()
	return m
}
