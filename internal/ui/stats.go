package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"blockotchi/internal/pet"
)

// StatsModel is a simple Bubble Tea model for displaying stats
type StatsModel struct {
	Snap pet.Snapshot
}

// Init implements tea.Model
func (m StatsModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m StatsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, tea.Quit
	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress {
			return m, tea.Quit
		}
	}
	return m, nil
}

// View implements tea.Model
func (m StatsModel) View() string {
	s := m.Snap.State
	stageEmoji := pet.StageEmoji(s.EvolutionStage)

	checkIn := "Done"
	switch {
	case s.IsDead:
		checkIn = "Missed"
	case m.Snap.CheckIn.IsOverdue:
		checkIn = "Overdue!"
	case m.Snap.CheckIn.NeedsCheckIn:
		checkIn = pet.FormatTimeLeft(m.Snap.CheckIn.TimeLeft) + " left"
	}

	wallet := "Not connected"
	if m.Snap.Progress.Tracking {
		wallet = fmt.Sprintf("%d txs, +%d growth", m.Snap.Progress.SinceStart, m.Snap.Progress.GrowthUnits)
	}

	var b strings.Builder
	b.WriteString("╔════════════════════════════════════════╗\n")
	b.WriteString(fmt.Sprintf("║  %s Blockotchi %s                        ║\n", stageEmoji, stageEmoji))
	b.WriteString("╠════════════════════════════════════════╣\n")
	b.WriteString(fmt.Sprintf("║  Stage:   %-28s ║\n", capitalize(string(s.EvolutionStage))))
	b.WriteString(fmt.Sprintf("║  Age:     %-28s ║\n", formatAge(s.Age)))
	b.WriteString(fmt.Sprintf("║  Status:  %-28s ║\n", pet.GetStatusWithLabel(s)))
	b.WriteString(fmt.Sprintf("║  Coins:   %-28s ║\n", fmt.Sprintf("%d (%d earned)", s.Coins, s.TotalCoinsEarned)))
	b.WriteString("║                                        ║\n")
	b.WriteString(fmt.Sprintf("║  Hunger:    [%s] %3.0f%%         ║\n", makeBar(s.Hunger), s.Hunger))
	b.WriteString(fmt.Sprintf("║  Happiness: [%s] %3.0f%%         ║\n", makeBar(s.Happiness), s.Happiness))
	b.WriteString(fmt.Sprintf("║  Energy:    [%s] %3.0f%%         ║\n", makeBar(s.Energy), s.Energy))
	b.WriteString("║                                        ║\n")
	b.WriteString(fmt.Sprintf("║  Check-in:  %-26s ║\n", checkIn))
	b.WriteString(fmt.Sprintf("║  Wallet:    %-26s ║\n", wallet))
	b.WriteString(fmt.Sprintf("║  Trophies:  %-26s ║\n", fmt.Sprintf("%d/%d", len(s.UnlockedAchievements), len(pet.Achievements))))
	b.WriteString("╚════════════════════════════════════════╝\n")
	b.WriteString("\nPress ESC, click, or any key to close...")

	return b.String()
}

// DisplayStats shows the stats card until a key is pressed.
func DisplayStats(snap pet.Snapshot) error {
	program := tea.NewProgram(StatsModel{Snap: snap}, tea.WithAltScreen(), tea.WithMouseAllMotion())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run stats display: %w", err)
	}
	return nil
}

// Run starts the interactive TUI for an engine.
func Run(m Model) error {
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
