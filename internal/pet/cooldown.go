package pet

import (
	"log"
	"time"
)

// Cooldown is the state of one mini-game's replay window.
type Cooldown struct {
	OnCooldown bool
	TimeLeft   time.Duration
}

// CheckIn is the state of the daily check-in deadline.
type CheckIn struct {
	NeedsCheckIn bool
	TimeLeft     time.Duration
	IsOverdue    bool
}

// GameCooldownAt reports the cooldown of a game at the given time. A game that
// was never played, or whose cooldown was reset, is never on cooldown.
func GameCooldownAt(s *State, game GameType, now time.Time) Cooldown {
	last := s.LastGamePlayed.Get(game)
	if last == nil {
		return Cooldown{}
	}
	since := now.Sub(last.Time())
	if since >= GameCooldown {
		return Cooldown{}
	}
	return Cooldown{OnCooldown: true, TimeLeft: max(0, GameCooldown-since)}
}

// ResetGameCooldown clears a game's cooldown.
func ResetGameCooldown(s *State, game GameType) {
	s.LastGamePlayed.Set(game, nil)
}

// CheckInStatusAt reports the check-in deadline at the given time. With no
// recorded check-in the full window is left.
func CheckInStatusAt(s *State, now time.Time) CheckIn {
	if s.LastCheckIn == nil {
		return CheckIn{NeedsCheckIn: true, TimeLeft: CheckInDeadline}
	}
	since := now.Sub(s.LastCheckIn.Time())
	left := CheckInDeadline - since
	return CheckIn{
		NeedsCheckIn: since > 0,
		TimeLeft:     max(0, left),
		IsOverdue:    left <= 0,
	}
}

// CheckDeadline kills the pet when its check-in is overdue and reports whether
// that happened. A dead pet stays dead.
func CheckDeadline(s *State, now time.Time) bool {
	if s.IsDead || s.LastCheckIn == nil {
		return false
	}
	if !CheckInStatusAt(s, now).IsOverdue {
		return false
	}
	s.IsDead = true
	log.Printf("Pet died: check-in overdue since %s", s.LastCheckIn.Time().Add(CheckInDeadline).Format(time.RFC3339))
	return true
}

// CompleteCheckIn restarts the check-in clock.
func CompleteCheckIn(s *State, now time.Time) {
	s.LastCheckIn = TimestampPtr(now)
}

// Revive brings a dead pet back with middling stats and a fresh check-in clock.
func Revive(s *State, now time.Time) {
	s.IsDead = false
	s.Hunger = ReviveStat
	s.Happiness = ReviveStat
	s.Energy = ReviveStat
	s.Mood = DeriveMood(s)
	s.LastCheckIn = TimestampPtr(now)
	s.LastUpdateTimestamp = At(now)
}
