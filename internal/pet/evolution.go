package pet

import "log"

// StageFromAge maps an age in seconds to a stage.
func StageFromAge(age int) Stage {
	return stageFrom(age, AgeMilestones)
}

// StageFromTxCount maps the transactions seen since tracking started to a stage.
func StageFromTxCount(txCount int) Stage {
	return stageFrom(txCount, TxMilestones)
}

// stageFrom checks the milestones from the oldest stage down; the first one met wins.
func stageFrom(progress int, milestones map[Stage]int) Stage {
	for i := len(Stages) - 1; i > 0; i-- {
		if progress >= milestones[Stages[i]] {
			return Stages[i]
		}
	}
	return StageBaby
}

// StageIndex returns the position of a stage in Stages, or 0 for unknown values.
func StageIndex(stage Stage) int {
	for i, s := range Stages {
		if s == stage {
			return i
		}
	}
	return 0
}

// TargetStage returns the stage the active progress source points at. Wallet
// transactions drive growth once tracking has started; age drives it otherwise.
func TargetStage(s *State) Stage {
	if s.WalletTracking() {
		return StageFromTxCount(s.WalletTxCountSinceStart)
	}
	return StageFromAge(s.Age)
}

// AdvanceStage moves the pet to its target stage and reports whether the stage
// changed. A stage is never lowered within one life.
func AdvanceStage(s *State) bool {
	target := TargetStage(s)
	if StageIndex(target) <= StageIndex(s.EvolutionStage) {
		return false
	}
	log.Printf("Pet evolved from %s to %s", s.EvolutionStage, target)
	s.EvolutionStage = target
	return true
}
