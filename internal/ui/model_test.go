package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"blockotchi/internal/minigame"
	"blockotchi/internal/payment"
	"blockotchi/internal/pet"
	"blockotchi/internal/store"
)

// holdScheduler never fires, so actions stay in progress.
type holdScheduler struct{}

type holdTimer struct{}

func (holdTimer) Stop() bool { return true }

func (holdScheduler) AfterFunc(time.Duration, func()) pet.Timer { return holdTimer{} }

func newTestModel(t *testing.T, seed *pet.State) (Model, *payment.DevGateway) {
	t.Helper()
	mem := store.NewMemory()
	if seed != nil {
		data, err := pet.Encode(*seed)
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		if err := mem.Save(data); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}
	fees, err := payment.DefaultFees.Lamports()
	if err != nil {
		t.Fatalf("Lamports failed: %v", err)
	}
	gw := payment.NewDevGateway("treasury", nil)
	e, err := pet.Open(pet.Options{Store: mem, Payments: gw, Fees: fees, Scheduler: holdScheduler{}})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(e.Close)
	return NewModel(e, payment.DefaultFees), gw
}

// seenState is a pet that already saw the welcome screen and last checked in
// an hour ago.
func seenState() *pet.State {
	s := pet.NewState(time.Now())
	s.HasSeenWelcome = true
	s.LastCheckIn = pet.TimestampPtr(time.Now().Add(-time.Hour))
	return &s
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	if !ok {
		t.Fatalf("Expected ui.Model, got %T", next)
	}
	return out, cmd
}

func TestWelcomeScreen(t *testing.T) {
	m, _ := newTestModel(t, nil)
	if m.Screen != ScreenWelcome {
		t.Fatalf("Expected welcome screen for a new pet, got %v", m.Screen)
	}
	if !strings.Contains(m.View(), "Welcome") {
		t.Error("Expected welcome text in view")
	}

	m, _ = update(t, m, key("x"))
	if m.Screen != ScreenMain {
		t.Errorf("Expected main screen after a key, got %v", m.Screen)
	}
	if !m.Snap.State.HasSeenWelcome {
		t.Error("Expected welcome to be marked as seen")
	}
}

func TestMenuNavigation(t *testing.T) {
	m, _ := newTestModel(t, seenState())
	if m.Screen != ScreenMain {
		t.Fatalf("Expected main screen, got %v", m.Screen)
	}

	m, _ = update(t, m, key("up"))
	if m.Choice != 0 {
		t.Errorf("Expected choice to stay at 0, got %d", m.Choice)
	}
	for i := 0; i < 10; i++ {
		m, _ = update(t, m, key("j"))
	}
	if m.Choice != MenuQuit {
		t.Errorf("Expected choice clamped to %d, got %d", MenuQuit, m.Choice)
	}

	m, cmd := update(t, m, key("enter"))
	if !m.Quitting || cmd == nil {
		t.Error("Expected Quit to quit")
	}
	if m.View() != "Thanks for playing!\n" {
		t.Errorf("Expected goodbye view, got %q", m.View())
	}
}

func TestFeedStartsAnimation(t *testing.T) {
	m, _ := newTestModel(t, seenState())

	m, cmd := update(t, m, key("enter"))
	if cmd == nil {
		t.Fatal("Expected an animation tick command")
	}
	if m.Animation.Type != AnimFeed {
		t.Errorf("Expected feed animation, got %v", m.Animation.Type)
	}
	if !m.Snap.Actioning || m.Snap.State.Mood != pet.MoodEating {
		t.Errorf("Expected pet to be eating, got actioning=%v mood=%s", m.Snap.Actioning, m.Snap.State.Mood)
	}

	// Input is ignored while the animation plays.
	m, _ = update(t, m, key("j"))
	if m.Choice != MenuFeed {
		t.Errorf("Expected choice unchanged during animation, got %d", m.Choice)
	}

	// The animation keeps running while the action does.
	for i := 0; i < 10; i++ {
		m, _ = update(t, m, animTickMsg{started: m.Animation.StartTime})
	}
	if m.Animation.Type != AnimFeed {
		t.Error("Expected animation to last while the pet is eating")
	}

	// Stale ticks are dropped.
	_, cmd = update(t, m, animTickMsg{started: time.Time{}})
	if cmd != nil {
		t.Error("Expected stale animation tick to be dropped")
	}
}

func TestPlayTooTired(t *testing.T) {
	s := seenState()
	s.Energy = 5
	m, _ := newTestModel(t, s)
	m.Choice = MenuPlay

	m, cmd := update(t, m, key("enter"))
	if cmd != nil || m.Animation.Type != AnimNone {
		t.Error("Expected play to be refused")
	}
	if !strings.Contains(m.Message, "tired") {
		t.Errorf("Expected tired message, got %q", m.Message)
	}
}

func TestGamesFlow(t *testing.T) {
	m, _ := newTestModel(t, seenState())
	m.Choice = MenuGames
	m, _ = update(t, m, key("enter"))
	if m.Screen != ScreenGames {
		t.Fatalf("Expected games screen, got %v", m.Screen)
	}
	if !strings.Contains(m.View(), "Coin Clicker") {
		t.Error("Expected clicker in games view")
	}

	m, cmd := update(t, m, key("enter"))
	if m.Screen != ScreenPlaying || m.GameType != pet.GameClicker || cmd == nil {
		t.Fatalf("Expected clicker to start, got screen %v game %s", m.Screen, m.GameType)
	}

	// Key presses go to the game.
	m, _ = update(t, m, key(" "))
	if c, ok := m.Game.(minigame.Clicker); !ok || c.Clicks != 1 {
		t.Errorf("Expected the click to reach the game, got %+v", m.Game)
	}

	m, _ = update(t, m, minigame.ResultMsg{Game: pet.GameClicker, Coins: 5, Completed: true})
	if m.Screen != ScreenGames {
		t.Errorf("Expected games screen after the round, got %v", m.Screen)
	}
	if m.Snap.State.Coins != 5 || m.Snap.State.TotalGamesPlayed != 1 {
		t.Errorf("Expected 5 coins and 1 game, got %d coins and %d games", m.Snap.State.Coins, m.Snap.State.TotalGamesPlayed)
	}

	m, _ = update(t, m, key("enter"))
	if m.Screen != ScreenGames || !strings.Contains(m.Message, "cooldown") {
		t.Errorf("Expected cooldown refusal, got screen %v message %q", m.Screen, m.Message)
	}

	m, _ = update(t, m, key("esc"))
	if m.Screen != ScreenMain {
		t.Errorf("Expected main screen after esc, got %v", m.Screen)
	}
}

func TestAbandonedGame(t *testing.T) {
	m, _ := newTestModel(t, seenState())
	m.Screen = ScreenGames
	m.SubChoice = 1
	m, _ = update(t, m, key("enter"))
	if m.GameType != pet.GameCatch {
		t.Fatalf("Expected catch to start, got %s", m.GameType)
	}

	m, _ = update(t, m, minigame.ResultMsg{Game: pet.GameCatch, Completed: false})
	if m.Snap.State.TotalGamesPlayed != 0 {
		t.Error("Expected abandoned round not to count")
	}
	if m.Snap.Cooldowns[pet.GameCatch].OnCooldown {
		t.Error("Expected no cooldown after an abandoned round")
	}
}

func TestUnlockGame(t *testing.T) {
	m, gw := newTestModel(t, seenState())
	m.Screen = ScreenGames
	if !m.Engine.AddCoins(1, pet.GameClicker) {
		t.Fatal("AddCoins failed")
	}
	m.refresh()

	m, cmd := update(t, m, key("u"))
	if cmd == nil || !m.Paying {
		t.Fatal("Expected an unlock payment to start")
	}
	m, _ = update(t, m, cmd())
	if m.Paying {
		t.Error("Expected payment to be finished")
	}
	if len(gw.Receipts()) != 1 || gw.Receipts()[0].Purpose != pet.PurposeGameUnlock {
		t.Errorf("Expected one unlock receipt, got %+v", gw.Receipts())
	}
	if m.Snap.Cooldowns[pet.GameClicker].OnCooldown {
		t.Error("Expected clicker unlocked")
	}
}

func TestCheckIn(t *testing.T) {
	m, gw := newTestModel(t, seenState())
	m.Choice = MenuCheckIn

	m, cmd := update(t, m, key("enter"))
	if cmd == nil {
		t.Fatal("Expected a payment command")
	}
	m, _ = update(t, m, cmd())
	if len(gw.Receipts()) != 1 {
		t.Fatalf("Expected one receipt, got %d", len(gw.Receipts()))
	}
	if !strings.Contains(m.Message, "Checked in") {
		t.Errorf("Expected check-in message, got %q", m.Message)
	}
	if m.Snap.CheckIn.TimeLeft <= 23*time.Hour {
		t.Errorf("Expected a fresh deadline, got %v", m.Snap.CheckIn.TimeLeft)
	}
}

func TestCheckInPaymentFails(t *testing.T) {
	m, gw := newTestModel(t, seenState())
	gw.FailWith(errors.New("declined"))
	m.Choice = MenuCheckIn

	m, cmd := update(t, m, key("enter"))
	m, _ = update(t, m, cmd())
	if !strings.Contains(m.Message, "Payment failed") {
		t.Errorf("Expected failure message, got %q", m.Message)
	}
}

func TestSkinShop(t *testing.T) {
	s := seenState()
	s.Coins = 60
	m, _ := newTestModel(t, s)
	m.Screen = ScreenSkins

	// Slime costs 50.
	m, _ = update(t, m, key("down"))
	m, _ = update(t, m, key("enter"))
	if m.Snap.State.CurrentSkin != pet.SkinSlime || m.Snap.State.Coins != 10 {
		t.Errorf("Expected slime bought for 50, got skin %s with %d coins", m.Snap.State.CurrentSkin, m.Snap.State.Coins)
	}

	// Enderman costs 100.
	m, _ = update(t, m, key("down"))
	m, _ = update(t, m, key("enter"))
	if m.Snap.State.CurrentSkin != pet.SkinSlime {
		t.Errorf("Expected enderman refused, got %s", m.Snap.State.CurrentSkin)
	}
	if !strings.Contains(m.Message, "Need 100") {
		t.Errorf("Expected price message, got %q", m.Message)
	}
	if !strings.Contains(m.View(), "wearing") {
		t.Error("Expected shop to mark the worn skin")
	}
}

func TestDeadScreen(t *testing.T) {
	s := seenState()
	s.IsDead = true
	m, gw := newTestModel(t, s)
	if m.Screen != ScreenDead {
		t.Fatalf("Expected dead screen, got %v", m.Screen)
	}
	if !strings.Contains(m.View(), "passed away") {
		t.Error("Expected death text in view")
	}

	m, cmd := update(t, m, key("r"))
	if cmd == nil {
		t.Fatal("Expected a revive payment")
	}
	m, _ = update(t, m, cmd())
	if m.Screen != ScreenMain || m.Snap.State.IsDead {
		t.Errorf("Expected revived pet on main screen, got screen %v dead=%v", m.Screen, m.Snap.State.IsDead)
	}
	if m.Snap.State.Hunger != pet.ReviveStat {
		t.Errorf("Expected hunger %v, got %v", pet.ReviveStat, m.Snap.State.Hunger)
	}
	if len(gw.Receipts()) != 1 {
		t.Errorf("Expected one receipt, got %d", len(gw.Receipts()))
	}
}

func TestNewGameFromDeadScreen(t *testing.T) {
	s := seenState()
	s.IsDead = true
	s.Coins = 40
	m, _ := newTestModel(t, s)

	m, _ = update(t, m, key("n"))
	if m.Screen != ScreenMain {
		t.Errorf("Expected main screen, got %v", m.Screen)
	}
	if m.Snap.State.IsDead || m.Snap.State.Coins != 0 {
		t.Errorf("Expected a fresh pet, got dead=%v coins=%d", m.Snap.State.IsDead, m.Snap.State.Coins)
	}
}

func TestEventMessages(t *testing.T) {
	m, _ := newTestModel(t, seenState())

	m, _ = update(t, m, eventMsg(pet.Event{Type: pet.EventEvolved, Stage: pet.StageChild}))
	if !strings.Contains(m.Message, "Child") {
		t.Errorf("Expected evolution message, got %q", m.Message)
	}

	m, _ = update(t, m, eventMsg(pet.Event{Type: pet.EventWalletGrowth, GrowthUnits: 2}))
	if !strings.Contains(m.Message, "+2") {
		t.Errorf("Expected growth message, got %q", m.Message)
	}

	m, _ = update(t, m, eventMsg(pet.Event{Type: pet.EventDied}))
	if m.Screen != ScreenDead {
		t.Errorf("Expected dead screen after death event, got %v", m.Screen)
	}
}

func TestFormatAge(t *testing.T) {
	tests := []struct {
		ticks int
		want  string
	}{
		{0, "0s"},
		{59, "59s"},
		{61, "1m 1s"},
		{3660, "1h 1m"},
	}
	for _, tt := range tests {
		if got := formatAge(tt.ticks); got != tt.want {
			t.Errorf("Expected %q for %d, got %q", tt.want, tt.ticks, got)
		}
	}
}

func TestStatsView(t *testing.T) {
	m, _ := newTestModel(t, seenState())
	v := StatsModel{Snap: m.Snap}.View()
	for _, want := range []string{"Blockotchi", "Baby", "Hunger", "Not connected"} {
		if !strings.Contains(v, want) {
			t.Errorf("Expected %q in stats view", want)
		}
	}
}
