package pet

import (
	"encoding/json"
	"fmt"
	"log"
	"slices"
	"time"
)

// Store persists whole-state snapshots. Load returns nil data when nothing
// has been saved yet.
type Store interface {
	Load() ([]byte, error)
	Save(data []byte) error
}

// CatchUpResult reports what an offline catch-up changed.
type CatchUpResult struct {
	Elapsed int // whole seconds applied
	Died    bool
	Evolved bool
}

// Encode serializes a snapshot.
func Encode(s State) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// Decode restores a snapshot. Fields missing from the data keep their
// default values, and values that break the state's invariants are repaired.
// Decode does not catch up elapsed time; see CatchUp.
func Decode(data []byte, now time.Time) (State, error) {
	s := NewState(now)
	// A snapshot without lastCheckIn has no deadline running.
	s.LastCheckIn = nil
	if err := json.Unmarshal(data, &s); err != nil {
		return State{}, fmt.Errorf("decode pet state: %w", err)
	}
	normalize(&s)
	return s, nil
}

func normalize(s *State) {
	s.Hunger = clampStat(s.Hunger)
	s.Happiness = clampStat(s.Happiness)
	s.Energy = clampStat(s.Energy)
	s.Coins = max(s.Coins, 0)
	s.TotalCoinsEarned = max(s.TotalCoinsEarned, 0)
	s.Age = max(s.Age, 0)

	if !slices.Contains(Stages, s.EvolutionStage) {
		s.EvolutionStage = StageBaby
	}
	switch s.Mood {
	case MoodHappy, MoodHungry, MoodTired, MoodSleeping, MoodEating, MoodPlaying:
	default:
		s.Mood = DeriveMood(s)
	}

	s.UnlockedSkins = dedupe(s.UnlockedSkins)
	if !s.HasSkin(DefaultSkin) {
		s.UnlockedSkins = append([]Skin{DefaultSkin}, s.UnlockedSkins...)
	}
	if !s.HasSkin(s.CurrentSkin) {
		s.CurrentSkin = DefaultSkin
	}
	s.UnlockedAchievements = dedupe(s.UnlockedAchievements)
	if s.UnlockedAchievements == nil {
		s.UnlockedAchievements = []AchievementID{}
	}

	s.WalletTxCountSinceStart = max(0, s.WalletTxCountCurrent-s.WalletTxCountBaseline)
}

func dedupe[T comparable](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, 0, len(in))
	for _, v := range in {
		if !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}

// CatchUp fast-forwards a restored snapshot to now in one step: it applies
// decay for the whole seconds elapsed since the last update, evaluates the
// check-in deadline against now, re-derives the stage and advances
// lastUpdateTimestamp. Calling it again with the same now changes nothing.
func CatchUp(s *State, now time.Time) CatchUpResult {
	var res CatchUpResult
	last := s.LastUpdateTimestamp.Time()
	log.Printf("last saved: %s", last)

	res.Elapsed = max(0, int(now.Sub(last)/time.Second))
	if !s.IsDead && res.Elapsed > 0 {
		ApplyDecay(s, res.Elapsed)
		log.Printf("elapsed %ds", res.Elapsed)
	}

	res.Died = CheckDeadline(s, now)

	// No action survives a restart, so its mood cannot either.
	if IsActionMood(s.Mood) || res.Elapsed > 0 {
		s.Mood = DeriveMood(s)
	}
	if !s.IsDead {
		res.Evolved = AdvanceStage(s)
	}
	s.IsNight = IsNightAt(s.Age)
	s.LastUpdateTimestamp = At(now)
	return res
}
