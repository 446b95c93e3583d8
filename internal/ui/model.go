package ui

import (
	"context"
	"fmt"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"blockotchi/internal/minigame"
	"blockotchi/internal/payment"
	"blockotchi/internal/pet"
)

// Screen is the page the TUI is showing.
type Screen int

const (
	ScreenMain Screen = iota
	ScreenWelcome
	ScreenGames
	ScreenSkins
	ScreenPlaying
	ScreenDead
)

// Main menu entries.
const (
	MenuFeed = iota
	MenuPlay
	MenuSleep
	MenuGames
	MenuSkins
	MenuCheckIn
	MenuQuit
)

var menuChoices = []string{"Feed", "Play", "Sleep", "Games", "Skins", "Check in", "Quit"}

// PaymentTimeout bounds one paid command.
const PaymentTimeout = 30 * time.Second

// Model is the Bubble Tea model for one pet session.
type Model struct {
	Engine *pet.Engine
	Fees   payment.Fees
	Snap   pet.Snapshot

	Screen         Screen
	Choice         int
	SubChoice      int
	Quitting       bool
	Message        string
	MessageExpires time.Time
	Animation      Animation
	Paying         bool

	Game     tea.Model
	GameType pet.GameType

	Width  int
	Height int
}

type refreshMsg time.Time

type eventMsg pet.Event

type animTickMsg struct {
	started time.Time
}

// paidMsg reports the outcome of a paid command.
type paidMsg struct {
	purpose pet.Purpose
	err     error
}

// NewModel creates the TUI model for an open engine.
func NewModel(engine *pet.Engine, fees payment.Fees) Model {
	m := Model{Engine: engine, Fees: fees}
	m.refresh()
	switch {
	case m.Snap.State.IsDead:
		m.Screen = ScreenDead
	case !m.Snap.State.HasSeenWelcome:
		m.Screen = ScreenWelcome
	}
	return m
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(refresh(), waitEvent(m.Engine.Events()))
}

func refresh() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return refreshMsg(t)
	})
}

func waitEvent(ch <-chan pet.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return eventMsg(ev)
	}
}

func animTick(start time.Time) tea.Cmd {
	return tea.Tick(AnimationFrameDuration, func(t time.Time) tea.Msg {
		return animTickMsg{started: start}
	})
}

// pay runs a paid command off the update loop.
func (m Model) pay(purpose pet.Purpose, fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), PaymentTimeout)
		defer cancel()
		return paidMsg{purpose: purpose, err: fn(ctx)}
	}
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		return m.forwardToGame(msg)

	case refreshMsg:
		m.refresh()
		if m.Snap.State.IsDead && m.Screen != ScreenPlaying {
			m.Screen = ScreenDead
		}
		return m, refresh()

	case eventMsg:
		m.handleEvent(pet.Event(msg))
		return m, waitEvent(m.Engine.Events())

	case paidMsg:
		m.Paying = false
		m.handlePaid(msg)
		return m, nil

	case minigame.ResultMsg:
		m.finishGame(msg)
		return m, nil

	case animTickMsg:
		// Drop ticks that belong to an older animation
		if m.Animation.Type == AnimNone || !m.Animation.StartTime.Equal(msg.started) {
			return m, nil
		}
		m.Animation.Frame++
		m.refresh()
		if IsAnimationComplete(m.Animation) && !m.Snap.Actioning {
			m.Animation = Animation{}
			return m, nil
		}
		return m, animTick(m.Animation.StartTime)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.Quitting = true
			return m, tea.Quit
		}
		switch m.Screen {
		case ScreenPlaying:
			return m.forwardToGame(msg)
		case ScreenWelcome:
			m.Engine.MarkWelcomeSeen()
			m.refresh()
			m.Screen = ScreenMain
			return m, nil
		case ScreenDead:
			return m.updateDead(msg)
		case ScreenGames:
			return m.updateGames(msg)
		case ScreenSkins:
			return m.updateSkins(msg)
		}
		return m.updateMain(msg)
	}

	return m.forwardToGame(msg)
}

func (m Model) forwardToGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.Screen != ScreenPlaying || m.Game == nil {
		return m, nil
	}
	var cmd tea.Cmd
	m.Game, cmd = m.Game.Update(msg)
	return m, cmd
}

func (m Model) updateMain(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// While an animation is playing, ignore inputs except quit keys
	if m.Animation.Type != AnimNone {
		if msg.String() == "q" {
			m.Quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	switch msg.String() {
	case "q":
		m.Quitting = true
		return m, tea.Quit
	case "up", "k":
		if m.Choice > 0 {
			m.Choice--
		}
	case "down", "j":
		if m.Choice < len(menuChoices)-1 {
			m.Choice++
		}
	case "enter", " ":
		switch m.Choice {
		case MenuFeed:
			return m.startAction(pet.ActionFeed, m.Engine.Feed)
		case MenuPlay:
			return m.startAction(pet.ActionPlay, m.Engine.Play)
		case MenuSleep:
			return m.startAction(pet.ActionSleep, m.Engine.Sleep)
		case MenuGames:
			m.Screen = ScreenGames
			m.SubChoice = 0
		case MenuSkins:
			m.Screen = ScreenSkins
			m.SubChoice = 0
		case MenuCheckIn:
			return m.checkIn()
		case MenuQuit:
			m.Quitting = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Model) startAction(a pet.Action, fn func() bool) (tea.Model, tea.Cmd) {
	if !fn() {
		switch {
		case m.Snap.Actioning:
			m.setMessage("⏳ Busy right now...")
		case a == pet.ActionPlay && m.Snap.State.Energy < pet.MinPlayEnergy:
			m.setMessage("😫 Too tired to play...")
		default:
			m.setMessage("🚫 Can't do that now")
		}
		return m, nil
	}
	m.refresh()
	m.startAnimation(animationFor(a), animationTicks(a))
	return m, animTick(m.Animation.StartTime)
}

func (m Model) checkIn() (tea.Model, tea.Cmd) {
	if m.Paying {
		return m, nil
	}
	if !m.Snap.CheckIn.NeedsCheckIn {
		m.setMessage("✅ Already checked in")
		return m, nil
	}
	m.Paying = true
	m.setMessage(fmt.Sprintf("💸 Paying %s SOL to check in...", m.Fees.CheckIn))
	return m, m.pay(pet.PurposeCheckIn, m.Engine.MarkCheckInComplete)
}

func (m Model) updateGames(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.Quitting = true
		return m, tea.Quit
	case "esc", "b":
		m.Screen = ScreenMain
	case "up", "k":
		if m.SubChoice > 0 {
			m.SubChoice--
		}
	case "down", "j":
		if m.SubChoice < len(pet.GameTypes)-1 {
			m.SubChoice++
		}
	case "u":
		game := pet.GameTypes[m.SubChoice]
		if m.Paying || !m.Snap.Cooldowns[game].OnCooldown {
			return m, nil
		}
		m.Paying = true
		m.setMessage(fmt.Sprintf("💸 Paying %s SOL to unlock %s...", m.Fees.GameUnlock, minigame.Title(game)))
		return m, m.pay(pet.PurposeGameUnlock, func(ctx context.Context) error {
			return m.Engine.ResetGameCooldown(ctx, game)
		})
	case "enter", " ":
		game := pet.GameTypes[m.SubChoice]
		if cd := m.Engine.GameCooldown(game); cd.OnCooldown {
			m.setMessage(fmt.Sprintf("⏰ %s is on cooldown for %s (u to unlock)", minigame.Title(game), pet.FormatTimeLeft(cd.TimeLeft)))
			return m, nil
		}
		g, ok := minigame.New(game, m.Snap.State, m.Width, m.Height, pet.TimeNow())
		if !ok {
			return m, nil
		}
		m.Game = g
		m.GameType = game
		m.Screen = ScreenPlaying
		return m, g.Init()
	}
	return m, nil
}

func (m *Model) finishGame(res minigame.ResultMsg) {
	m.Game = nil
	m.Screen = ScreenGames
	if !res.Completed {
		m.setMessage("🏳️ Game abandoned")
		return
	}
	if !m.Engine.AddCoins(res.Coins, res.Game) {
		m.setMessage("🚫 Coins could not be added")
		return
	}
	log.Printf("Finished %s with %d coins", res.Game, res.Coins)
	m.refresh()
	m.setMessage(fmt.Sprintf("🪙 +%d coins from %s!", res.Coins, minigame.Title(res.Game)))
}

func (m Model) updateSkins(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.Quitting = true
		return m, tea.Quit
	case "esc", "b":
		m.Screen = ScreenMain
	case "up", "k":
		if m.SubChoice > 0 {
			m.SubChoice--
		}
	case "down", "j":
		if m.SubChoice < len(pet.Skins)-1 {
			m.SubChoice++
		}
	case "enter", " ":
		skin := pet.Skins[m.SubChoice]
		owned := m.Snap.State.HasSkin(skin.ID)
		if !m.Engine.BuySkin(skin.ID) {
			m.setMessage(fmt.Sprintf("🪙 Need %d coins for %s", skin.Price, skin.Name))
			return m, nil
		}
		m.refresh()
		if owned {
			m.setMessage("👕 Wearing " + skin.Name)
		} else {
			m.setMessage(fmt.Sprintf("🛍️ Bought %s for %d coins!", skin.Name, skin.Price))
		}
	}
	return m, nil
}

func (m Model) updateDead(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.Quitting = true
		return m, tea.Quit
	case "r":
		if m.Paying {
			return m, nil
		}
		m.Paying = true
		m.setMessage(fmt.Sprintf("💸 Paying %s SOL to revive...", m.Fees.Revival))
		return m, m.pay(pet.PurposeRevival, m.Engine.RevivePet)
	case "n":
		m.Engine.StartNewGame()
		m.refresh()
		m.Screen = ScreenMain
		m.Choice = 0
	}
	return m, nil
}

func (m *Model) handlePaid(msg paidMsg) {
	m.refresh()
	if msg.err != nil {
		log.Printf("Payment for %s failed: %v", msg.purpose, msg.err)
		m.setMessage("❌ Payment failed: " + msg.err.Error())
		return
	}
	switch msg.purpose {
	case pet.PurposeCheckIn:
		m.setMessage("✅ Checked in! See you tomorrow")
	case pet.PurposeGameUnlock:
		m.setMessage("🔓 Game unlocked!")
	case pet.PurposeRevival:
		m.Screen = ScreenMain
		m.setMessage("💖 Your pet is back!")
	}
}

func (m *Model) handleEvent(ev pet.Event) {
	m.refresh()
	switch ev.Type {
	case pet.EventDied:
		if m.Screen != ScreenPlaying {
			m.Screen = ScreenDead
		}
		m.Animation = Animation{}
	case pet.EventEvolved:
		m.setMessage(fmt.Sprintf("%s Evolved into %s!", pet.StageEmoji(ev.Stage), capitalize(string(ev.Stage))))
	case pet.EventAchievement:
		if a, ok := pet.LookupAchievement(ev.Achievement); ok {
			m.setMessage(fmt.Sprintf("%s Achievement unlocked: %s", a.Icon, a.Name))
		}
	case pet.EventWalletGrowth:
		m.setMessage(fmt.Sprintf("⛓️ Wallet activity! +%d growth", ev.GrowthUnits))
	case pet.EventActionDone:
		m.setMessage(actionDoneMessage(ev.Action))
	}
}

func actionDoneMessage(a pet.Action) string {
	switch a {
	case pet.ActionFeed:
		return "🍖 Yum!"
	case pet.ActionPlay:
		return "🎾 Wheee!"
	case pet.ActionSleep:
		return "😴 Well rested"
	}
	return ""
}

func (m *Model) refresh() {
	m.Snap = m.Engine.Snapshot()
}

func (m *Model) setMessage(msg string) {
	m.Message = msg
	m.MessageExpires = pet.TimeNow().Add(3 * time.Second)
}

func (m *Model) startAnimation(animType AnimationType, ticks int) {
	m.Animation = Animation{
		Type:      animType,
		Frame:     0,
		Ticks:     ticks,
		StartTime: pet.TimeNow(),
	}
}
