package minigame

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"blockotchi/internal/pet"
)

const (
	ClickerDuration = 10 * time.Second
	clickerTick     = 100 * time.Millisecond
)

type clickerTickMsg time.Time

// Clicker pays half a coin per key press for ten seconds.
type Clicker struct {
	Clicks   int
	Deadline time.Time
	Now      time.Time
	Finished bool
}

// NewClicker starts a round that ends ClickerDuration after now.
func NewClicker(now time.Time) Clicker {
	return Clicker{Deadline: now.Add(ClickerDuration), Now: now}
}

// Coins is the reward for the clicks so far.
func (c Clicker) Coins() int {
	return c.Clicks / 2
}

func clickerTickCmd() tea.Cmd {
	return tea.Tick(clickerTick, func(t time.Time) tea.Msg {
		return clickerTickMsg(t)
	})
}

// Init implements tea.Model
func (c Clicker) Init() tea.Cmd {
	return clickerTickCmd()
}

// Update implements tea.Model
func (c Clicker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if c.Finished {
		return c, nil
	}
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q", "ctrl+c":
			c.Finished = true
			return c, finish(pet.GameClicker, 0, false)
		default:
			c.Clicks++
		}
	case clickerTickMsg:
		c.Now = time.Time(msg)
		if !c.Now.Before(c.Deadline) {
			c.Finished = true
			return c, finish(pet.GameClicker, c.Coins(), true)
		}
		return c, clickerTickCmd()
	}
	return c, nil
}

// View implements tea.Model
func (c Clicker) View() string {
	var b strings.Builder
	b.WriteString(Title(pet.GameClicker) + "\n\n")
	fmt.Fprintf(&b, "Time: %ds   Clicks: %d   Coins: 🪙 %d\n\n", secondsLeft(c.Now, c.Deadline), c.Clicks, c.Coins())
	b.WriteString("Mash any key! (esc to give up)")
	return b.String()
}
