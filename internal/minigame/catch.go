package minigame

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"blockotchi/internal/pet"
)

const (
	CatchDuration = 15 * time.Second
	catchTick     = 80 * time.Millisecond
	spawnEvery    = 8 // frames, about 640ms
	fallEvery     = 2 // frames per row
	bombChance    = 0.25
	catcherReach  = 2
	catcherStep   = 2

	minCols = 20
	maxCols = 60
	minRows = 8
	maxRows = 16
)

// Item is a falling coin or bomb.
type Item struct {
	X, Y int
	Bomb bool
}

type catchTickMsg time.Time

// Catch has the pet run along the bottom row catching falling coins. A bomb
// ends the round early but the coins caught so far are kept.
type Catch struct {
	Pet      pet.State
	Cols     int
	Rows     int
	CatcherX int
	Items    []Item
	Frame    int
	Score    int
	Lives    int
	Deadline time.Time
	Now      time.Time
	Finished bool

	rng *rand.Rand
}

// NewCatch starts a round sized for a width x height terminal. A nil rng is
// seeded from now.
func NewCatch(s pet.State, width, height int, now time.Time, rng *rand.Rand) Catch {
	if rng == nil {
		rng = rand.New(rand.NewSource(now.UnixNano()))
	}
	cols := clampInt(width-4, minCols, maxCols)
	rows := clampInt(height-10, minRows, maxRows)
	return Catch{
		Pet:      s,
		Cols:     cols,
		Rows:     rows,
		CatcherX: cols / 2,
		Lives:    1,
		Deadline: now.Add(CatchDuration),
		Now:      now,
		rng:      rng,
	}
}

func catchTickCmd() tea.Cmd {
	return tea.Tick(catchTick, func(t time.Time) tea.Msg {
		return catchTickMsg(t)
	})
}

// Init implements tea.Model
func (c Catch) Init() tea.Cmd {
	return catchTickCmd()
}

// Update implements tea.Model
func (c Catch) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if c.Finished {
		return c, nil
	}
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q", "ctrl+c":
			c.Finished = true
			return c, finish(pet.GameCatch, 0, false)
		case "left", "h", "a":
			c.CatcherX = clampInt(c.CatcherX-catcherStep, 0, c.Cols-1)
		case "right", "l", "d":
			c.CatcherX = clampInt(c.CatcherX+catcherStep, 0, c.Cols-1)
		}
		return c, nil

	case catchTickMsg:
		c.Now = time.Time(msg)
		if !c.Now.Before(c.Deadline) {
			c.Finished = true
			return c, finish(pet.GameCatch, c.Score, true)
		}
		c.step()
		if c.Lives <= 0 {
			c.Finished = true
			return c, finish(pet.GameCatch, c.Score, true)
		}
		return c, catchTickCmd()
	}
	return c, nil
}

// step advances one frame: spawn, fall, then resolve catches.
func (c *Catch) step() {
	c.Frame++
	if c.Frame%spawnEvery == 0 {
		c.Items = append(c.Items, Item{
			X:    c.rng.Intn(c.Cols),
			Bomb: c.rng.Float64() < bombChance,
		})
	}
	if c.Frame%fallEvery != 0 {
		return
	}

	kept := make([]Item, 0, len(c.Items))
	for _, it := range c.Items {
		it.Y++
		if it.Y == c.Rows-1 && absInt(it.X-c.CatcherX) <= catcherReach {
			if it.Bomb {
				c.Lives--
			} else {
				c.Score++
			}
			continue
		}
		if it.Y < c.Rows {
			kept = append(kept, it)
		}
	}
	c.Items = kept
}

// catcherEmoji picks the pet's face from its stats and the nearest coin.
func (c Catch) catcherEmoji() string {
	for _, it := range c.Items {
		if !it.Bomb && c.Rows-1-it.Y <= 2 && absInt(it.X-c.CatcherX) <= catcherReach {
			return "😻"
		}
	}
	switch {
	case c.Pet.Energy < 30:
		return "😴"
	case c.Pet.Hunger < 30:
		return "🙀"
	case c.Pet.Happiness < 30:
		return "😿"
	case c.Pet.Energy > 80:
		return "😼"
	}
	return "😸"
}

// View implements tea.Model
func (c Catch) View() string {
	grid := make([][]string, c.Rows)
	for y := range grid {
		grid[y] = make([]string, c.Cols)
		for x := range grid[y] {
			grid[y][x] = " "
		}
	}
	for _, it := range c.Items {
		if it.Y < 0 || it.Y >= c.Rows || it.X < 0 || it.X >= c.Cols {
			continue
		}
		if it.Bomb {
			grid[it.Y][it.X] = "💣"
		} else {
			grid[it.Y][it.X] = "🪙"
		}
	}
	grid[c.Rows-1][c.CatcherX] = c.catcherEmoji()

	var b strings.Builder
	b.WriteString(Title(pet.GameCatch) + "\n")
	fmt.Fprintf(&b, "Time: %ds   Score: %d   Lives: %s\n", secondsLeft(c.Now, c.Deadline), c.Score, strings.Repeat("❤️", max(c.Lives, 0)))
	border := "+" + strings.Repeat("-", c.Cols) + "+\n"
	b.WriteString(border)
	for _, row := range grid {
		b.WriteString("|" + strings.Join(row, "") + "|\n")
	}
	b.WriteString(border)
	b.WriteString("←/→ to move, catch coins, avoid bombs! (esc to give up)")
	return b.String()
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
