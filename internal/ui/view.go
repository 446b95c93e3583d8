package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"blockotchi/internal/minigame"
	"blockotchi/internal/pet"
)

var gameStyles = struct {
	title   lipgloss.Style
	status  lipgloss.Style
	menu    lipgloss.Style
	menuBox lipgloss.Style
	stats   lipgloss.Style
	toast   lipgloss.Style
	warn    lipgloss.Style
}{
	title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5fd75f")).
		Padding(0, 1),

	status: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#87d7af")).
		Width(44),

	stats: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#87d7af")).
		Width(44),

	menu: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#5fd75f")),

	menuBox: lipgloss.NewStyle().
		Padding(0, 2),

	toast: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FFD700")),

	warn: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FF5F5F")),
}

// View implements tea.Model
func (m Model) View() string {
	if m.Quitting {
		return "Thanks for playing!\n"
	}
	switch m.Screen {
	case ScreenWelcome:
		return m.welcomeView()
	case ScreenDead:
		return m.deadView()
	case ScreenPlaying:
		if m.Game != nil {
			return m.Game.View()
		}
	case ScreenGames:
		return m.gamesView()
	case ScreenSkins:
		return m.skinsView()
	}

	// Show animation if one is active
	if m.Animation.Type != AnimNone {
		return m.renderAnimation()
	}

	sections := []string{
		m.renderTitle(),
		"",
		m.renderPet(),
		m.renderStats(),
		"",
		m.renderStatus(),
	}
	if toast := m.renderToast(); toast != "" {
		sections = append(sections, "", toast)
	}
	if msg := m.renderMessage(); msg != "" {
		sections = append(sections, "", msg)
	}
	sections = append(sections,
		"",
		m.renderMenu(),
		"",
		gameStyles.status.Render("Use arrows to move • enter to select • q to quit"),
	)
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderTitle() string {
	s := m.Snap.State
	title := fmt.Sprintf("%s Blockotchi %s", pet.StageEmoji(s.EvolutionStage), capitalize(string(s.EvolutionStage)))
	if s.IsNight {
		title += " 🌙"
	}
	return gameStyles.title.Render(title)
}

func skinColor(id pet.Skin) lipgloss.Color {
	if info, ok := pet.LookupSkin(id); ok {
		return lipgloss.Color(info.Color)
	}
	return lipgloss.Color("#5fd75f")
}

var moodFaces = map[pet.Mood]string{
	pet.MoodHappy:    "█^▽^█",
	pet.MoodHungry:   "█°o°█",
	pet.MoodTired:    "█=_=█",
	pet.MoodSleeping: "█-_-█",
	pet.MoodEating:   "█>O<█",
	pet.MoodPlaying:  "█^o^█",
}

// renderPet draws the pet in its skin color with a face for its mood.
func (m Model) renderPet() string {
	s := m.Snap.State
	face, ok := moodFaces[s.Mood]
	if !ok {
		face = moodFaces[pet.MoodHappy]
	}
	if s.IsDead {
		face = "█x_x█"
	}
	sprite := strings.Join([]string{" ▄███▄", " " + face, " ▀█▀█▀"}, "\n")
	return lipgloss.NewStyle().
		Foreground(skinColor(s.CurrentSkin)).
		Padding(0, 4).
		Render(sprite)
}

func makeBar(value float64) string {
	filled := int(value) / 10
	return strings.Repeat("█", filled) + strings.Repeat("░", 10-filled)
}

func (m Model) renderStats() string {
	s := m.Snap.State
	skinName := string(s.CurrentSkin)
	if info, ok := pet.LookupSkin(s.CurrentSkin); ok {
		skinName = info.Name
	}

	stats := []struct {
		name, value string
	}{
		{"Hunger", fmt.Sprintf("[%s] %3.0f%%", makeBar(s.Hunger), s.Hunger)},
		{"Happy", fmt.Sprintf("[%s] %3.0f%%", makeBar(s.Happiness), s.Happiness)},
		{"Energy", fmt.Sprintf("[%s] %3.0f%%", makeBar(s.Energy), s.Energy)},
		{"Age", formatAge(s.Age)},
		{"Coins", fmt.Sprintf("🪙 %d", s.Coins)},
		{"Skin", skinName},
	}
	if m.Snap.Progress.Tracking {
		p := m.Snap.Progress
		stats = append(stats, struct{ name, value string }{
			"Wallet", fmt.Sprintf("%d txs (%d/%d to next)", p.SinceStart, p.InUnit, pet.TxsPerGrowthUnit),
		})
	}

	var lines []string
	for _, stat := range stats {
		lines = append(lines, fmt.Sprintf("%-7s %s", stat.name+":", stat.value))
	}
	return gameStyles.stats.Render(strings.Join(lines, "\n"))
}

func (m Model) renderStatus() string {
	lines := []string{fmt.Sprintf("Status: %s", pet.GetStatusWithLabel(m.Snap.State))}
	ci := m.Snap.CheckIn
	if ci.IsOverdue {
		lines = append(lines, gameStyles.warn.Render("⚠️  Check-in overdue!"))
	} else if ci.NeedsCheckIn {
		lines = append(lines, fmt.Sprintf("Check in within %s", pet.FormatTimeLeft(ci.TimeLeft)))
	}
	return gameStyles.status.Render(strings.Join(lines, "\n"))
}

func (m Model) renderToast() string {
	var toasts []string
	if m.Snap.JustEvolved {
		toasts = append(toasts, fmt.Sprintf("✨ EVOLVED to %s! ✨", capitalize(string(m.Snap.State.EvolutionStage))))
	}
	if a, ok := pet.LookupAchievement(m.Snap.NewAchievement); ok {
		toasts = append(toasts, fmt.Sprintf("%s %s", a.Icon, a.Name))
	}
	if len(toasts) == 0 {
		return ""
	}
	return gameStyles.toast.Render(strings.Join(toasts, "\n"))
}

func (m Model) renderMessage() string {
	if m.Message == "" || !pet.TimeNow().Before(m.MessageExpires) {
		return ""
	}
	return gameStyles.status.Render(m.Message)
}

func (m Model) renderMenu() string {
	var menuItems []string
	for i, choice := range menuChoices {
		cursor := " "
		if m.Choice == i {
			cursor = ">"
		}
		if i == MenuCheckIn && m.Snap.CheckIn.NeedsCheckIn {
			choice += fmt.Sprintf(" (%s SOL)", m.Fees.CheckIn)
		}
		menuItems = append(menuItems, fmt.Sprintf("%s %s", cursor, choice))
	}
	return gameStyles.menuBox.Render(gameStyles.menu.Render(strings.Join(menuItems, "\n")))
}

func (m Model) renderAnimation() string {
	frame := GetAnimationFrame(m.Animation)

	animStyle := lipgloss.NewStyle().
		Foreground(skinColor(m.Snap.State.CurrentSkin)).
		Bold(true).
		Padding(1, 2)

	sections := []string{
		m.renderTitle(),
		"",
		animStyle.Render(frame),
		gameStyles.status.Render(fmt.Sprintf("Status: %s", pet.GetStatusWithLabel(m.Snap.State))),
	}
	if msg := m.renderMessage(); msg != "" {
		sections = append(sections, "", msg)
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) gamesView() string {
	var items []string
	for i, game := range pet.GameTypes {
		cursor := " "
		if m.SubChoice == i {
			cursor = ">"
		}
		line := fmt.Sprintf("%s %s", cursor, minigame.Title(game))
		if cd := m.Snap.Cooldowns[game]; cd.OnCooldown {
			line += fmt.Sprintf("  ⏰ %s", pet.FormatTimeLeft(cd.TimeLeft))
		} else {
			line += "  ready"
		}
		items = append(items, line)
	}

	sections := []string{
		gameStyles.title.Render("🎮 Mini-games"),
		"",
		gameStyles.menuBox.Render(strings.Join(items, "\n")),
		"",
		gameStyles.status.Render(fmt.Sprintf("Each game can be played once every %s.", pet.FormatTimeLeft(pet.GameCooldown))),
	}
	if msg := m.renderMessage(); msg != "" {
		sections = append(sections, "", msg)
	}
	sections = append(sections, "", gameStyles.status.Render(
		fmt.Sprintf("enter to play • u to unlock (%s SOL) • esc to go back", m.Fees.GameUnlock)))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) skinsView() string {
	var items []string
	for i, skin := range pet.Skins {
		cursor := " "
		if m.SubChoice == i {
			cursor = ">"
		}
		var tag string
		switch {
		case m.Snap.State.CurrentSkin == skin.ID:
			tag = "wearing"
		case m.Snap.State.HasSkin(skin.ID):
			tag = "owned"
		default:
			tag = fmt.Sprintf("🪙 %d", skin.Price)
		}
		name := lipgloss.NewStyle().Foreground(lipgloss.Color(skin.Color)).Render(fmt.Sprintf("%-9s", skin.Name))
		items = append(items, fmt.Sprintf("%s %s %-8s %s", cursor, name, tag, skin.Description))
	}

	sections := []string{
		gameStyles.title.Render("👕 Skin shop"),
		gameStyles.status.Render(fmt.Sprintf("You have 🪙 %d", m.Snap.State.Coins)),
		"",
		gameStyles.menuBox.Render(strings.Join(items, "\n")),
	}
	if msg := m.renderMessage(); msg != "" {
		sections = append(sections, "", msg)
	}
	sections = append(sections, "", gameStyles.status.Render("enter to buy or wear • esc to go back"))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) welcomeView() string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		gameStyles.title.Render("🥚 Welcome to Blockotchi!"),
		"",
		m.renderPet(),
		"",
		gameStyles.status.Render("Feed, play and rest with your pet to earn coins."),
		gameStyles.status.Render("Your pet grows with age and with your wallet's activity."),
		gameStyles.status.Render(fmt.Sprintf("Check in every 24h (%s SOL) or it will die!", m.Fees.CheckIn)),
		"",
		gameStyles.status.Render("Press any key to start"),
	)
}

func (m Model) deadView() string {
	s := m.Snap.State
	sections := []string{
		gameStyles.title.Render("💀 Blockotchi 💀"),
		"",
		m.renderPet(),
		"",
		gameStyles.status.Render("Your pet has passed away..."),
		gameStyles.status.Render("You missed the daily check-in."),
		gameStyles.status.Render("It lived for " + formatAge(s.Age)),
	}
	if msg := m.renderMessage(); msg != "" {
		sections = append(sections, "", msg)
	}
	sections = append(sections,
		"",
		gameStyles.menuBox.Render(fmt.Sprintf("r  Revive (%s SOL)\nn  Start a new pet\nq  Quit", m.Fees.Revival)),
	)
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// formatAge renders an age in ticks (seconds).
func formatAge(ticks int) string {
	switch {
	case ticks >= 3600:
		return fmt.Sprintf("%dh %dm", ticks/3600, ticks%3600/60)
	case ticks >= 60:
		return fmt.Sprintf("%dm %ds", ticks/60, ticks%60)
	}
	return fmt.Sprintf("%ds", ticks)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
