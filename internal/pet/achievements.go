package pet

import "log"

// AchievementID identifies a badge.
type AchievementID string

// Achievement is a badge with the rule that unlocks it.
type Achievement struct {
	ID          AchievementID
	Name        string
	Description string
	Icon        string
	Unlocked    func(s *State) bool
}

func reached(stage Stage) func(s *State) bool {
	return func(s *State) bool { return StageIndex(s.EvolutionStage) >= StageIndex(stage) }
}

// Achievements is the badge catalog in display order.
var Achievements = []Achievement{
	{"first_feed", "First Meal", "Feed your pet for the first time", "🍖", func(s *State) bool { return s.TotalFeeds >= 1 }},
	{"first_play", "Playtime!", "Play with your pet for the first time", "🎮", func(s *State) bool { return s.TotalPlays >= 1 }},
	{"first_sleep", "Sweet Dreams", "Put your pet to sleep for the first time", "😴", func(s *State) bool { return s.TotalSleeps >= 1 }},

	{"coin_collector", "Coin Collector", "Earn 100 coins total", "💰", func(s *State) bool { return s.TotalCoinsEarned >= 100 }},
	{"coin_hoarder", "Coin Hoarder", "Earn 500 coins total", "💰", func(s *State) bool { return s.TotalCoinsEarned >= 500 }},
	{"coin_master", "Coin Master", "Earn 1000 coins total", "👑", func(s *State) bool { return s.TotalCoinsEarned >= 1000 }},

	{"baby_steps", "Baby Steps", "Hatch from an egg", "🥚", func(s *State) bool { return s.EvolutionStage == StageBaby }},
	{"growing_up", "Growing Up", "Evolve to child stage", "🌱", reached(StageChild)},
	{"teenager", "Teenager", "Evolve to teen stage", "🌿", reached(StageTeen)},
	{"all_grown_up", "All Grown Up", "Evolve to adult stage", "🌳", reached(StageAdult)},
	{"elder_wisdom", "Elder Wisdom", "Reach elder stage", "🏆", reached(StageElder)},

	{"skin_collector", "Skin Collector", "Unlock 3 different skins", "🎨", func(s *State) bool { return len(s.UnlockedSkins) >= 3 }},
	{"fashionista", "Fashionista", "Unlock all skins", "✨", func(s *State) bool { return len(s.UnlockedSkins) >= len(Skins) }},

	{"game_player", "Game Player", "Play 5 mini-games", "🕹️", func(s *State) bool { return s.TotalGamesPlayed >= 5 }},
	{"game_master", "Game Master", "Play 20 mini-games", "🎯", func(s *State) bool { return s.TotalGamesPlayed >= 20 }},

	{"survivor", "Survivor", "Keep your pet alive for 10 minutes", "⭐", func(s *State) bool { return s.Age >= 600 }},
	{"dedicated", "Dedicated", "Keep your pet alive for 30 minutes", "💎", func(s *State) bool { return s.Age >= 1800 }},
}

// LookupAchievement finds an achievement in the catalog.
func LookupAchievement(id AchievementID) (Achievement, bool) {
	for _, a := range Achievements {
		if a.ID == id {
			return a, true
		}
	}
	return Achievement{}, false
}

// Unlock adds an achievement and reports whether it was new.
func Unlock(s *State, id AchievementID) bool {
	if s.HasAchievement(id) {
		return false
	}
	s.UnlockedAchievements = append(s.UnlockedAchievements, id)
	log.Printf("Achievement unlocked: %s", id)
	return true
}

// EvaluateAchievements unlocks every achievement whose rule now holds and
// returns the new ones in catalog order.
func EvaluateAchievements(s *State) []AchievementID {
	var unlocked []AchievementID
	for _, a := range Achievements {
		if s.HasAchievement(a.ID) || !a.Unlocked(s) {
			continue
		}
		if Unlock(s, a.ID) {
			unlocked = append(unlocked, a.ID)
		}
	}
	return unlocked
}
