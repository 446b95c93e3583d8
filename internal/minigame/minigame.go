// Package minigame holds the Bubble Tea mini-games that earn the pet coins.
package minigame

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"blockotchi/internal/pet"
)

// ResultMsg is sent when a game ends. Completed is false when the player
// left early, in which case nothing should be credited.
type ResultMsg struct {
	Game      pet.GameType
	Coins     int
	Completed bool
}

func finish(game pet.GameType, coins int, completed bool) tea.Cmd {
	return func() tea.Msg {
		return ResultMsg{Game: game, Coins: coins, Completed: completed}
	}
}

// New starts the game of the given type for a width x height terminal.
func New(game pet.GameType, s pet.State, width, height int, now time.Time) (tea.Model, bool) {
	switch game {
	case pet.GameClicker:
		return NewClicker(now), true
	case pet.GameCatch:
		return NewCatch(s, width, height, now, nil), true
	}
	return nil, false
}

// Title returns the display name of a game.
func Title(game pet.GameType) string {
	switch game {
	case pet.GameClicker:
		return "Coin Clicker"
	case pet.GameCatch:
		return "Coin Catcher"
	}
	return string(game)
}

func secondsLeft(now, deadline time.Time) int {
	left := deadline.Sub(now)
	if left <= 0 {
		return 0
	}
	return int((left + time.Second - 1) / time.Second)
}
