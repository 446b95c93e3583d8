package pet

// ApplyDecay lowers the vital stats by n seconds' worth of decay. The same
// call serves the live one-second tick and the offline catch-up batch.
func ApplyDecay(s *State, n int) {
	if n <= 0 {
		return
	}
	elapsed := float64(n)
	s.Hunger = max(MinStat, s.Hunger-elapsed*DecayRate)
	s.Happiness = max(MinStat, s.Happiness-elapsed*DecayRate*HappinessDecayMult)
	s.Energy = max(MinStat, s.Energy-elapsed*DecayRate*EnergyDecayMult)
}

// CalculateMood derives the mood from the vital stats. The order of the checks
// matters: low energy wins over hunger, and anything short of happy reads as
// hungry.
func CalculateMood(hunger, happiness, energy float64) Mood {
	if energy < TiredEnergyThreshold {
		return MoodTired
	}
	if hunger < HungryHungerThreshold {
		return MoodHungry
	}
	if happiness > HappyHappinessThreshold && hunger > HappyHungerThreshold && energy > HappyEnergyThreshold {
		return MoodHappy
	}
	return MoodHungry
}

// DeriveMood is CalculateMood over the state's own stats.
func DeriveMood(s *State) Mood {
	return CalculateMood(s.Hunger, s.Happiness, s.Energy)
}

// IsActionMood reports whether the mood belongs to an action in progress.
// Decay and aging are suspended while one is shown.
func IsActionMood(m Mood) bool {
	return m == MoodEating || m == MoodPlaying || m == MoodSleeping
}

// IsNightAt reports whether the given age falls in the night half of the cycle.
func IsNightAt(age int) bool {
	return (age/NightCycleTicks)%2 == 1
}
