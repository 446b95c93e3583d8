package pet

import "time"

// EventType identifies something that happened to the pet.
type EventType string

const (
	EventActionDone   EventType = "action_done"
	EventEvolved      EventType = "evolved"
	EventAchievement  EventType = "achievement"
	EventDied         EventType = "died"
	EventRevived      EventType = "revived"
	EventCheckIn      EventType = "checkin"
	EventNewGame      EventType = "new_game"
	EventWalletGrowth EventType = "wallet_growth"
)

// Event is published on the engine's event channel.
type Event struct {
	Type        EventType
	Time        time.Time
	Action      Action        // EventActionDone
	Stage       Stage         // EventEvolved
	Achievement AchievementID // EventAchievement
	GrowthUnits int           // EventWalletGrowth
}

// signal is a one-shot flag that reads true until it expires.
type signal[T comparable] struct {
	value   T
	expires time.Time
}

func (s *signal[T]) set(v T, now time.Time) {
	s.value = v
	s.expires = now.Add(SignalDuration)
}

func (s *signal[T]) get(now time.Time) (T, bool) {
	var zero T
	if s.value == zero || !now.Before(s.expires) {
		return zero, false
	}
	return s.value, true
}

func (s *signal[T]) clear() {
	var zero T
	s.value = zero
	s.expires = time.Time{}
}
