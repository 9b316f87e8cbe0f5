package tui

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmynk/billsplit/internal/bill"
	"github.com/mmynk/billsplit/internal/calculator"
	"github.com/mmynk/billsplit/internal/scan"
)

// Run starts the program and, after it exits, prints the final split to out.
func Run(session *bill.Session, scanner *scan.Scanner, out io.Writer) error {
	p := tea.NewProgram(New(session, scanner), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}

	snap := session.Snapshot()
	if len(snap.Participants) == 0 {
		return nil
	}
	splits := calculator.Ordered(calculator.CalculateSplit(snap.Items, snap.Participants), snap.Participants)
	for _, split := range splits {
		fmt.Fprintf(out, "%s %s: %s\n", successStyle.Render("✔"), split.Participant, calculator.FormatAmount(split.Total))
	}
	return nil
}
