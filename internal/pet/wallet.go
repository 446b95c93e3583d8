package pet

import (
	"log"
	"time"
)

// TxProgress summarizes wallet-driven growth for display.
type TxProgress struct {
	Tracking    bool
	SinceStart  int
	GrowthUnits int
	// Transactions counted toward the next growth unit
	InUnit int
}

// StartTracking begins counting transactions for an address. Progress is
// measured from the first count reported after this call.
func StartTracking(s *State, address string, now time.Time) {
	s.WalletAddress = address
	s.WalletTrackingStartedAt = TimestampPtr(now)
	s.WalletTxBaselineInitialized = false
	s.WalletTxCountBaseline = 0
	s.WalletTxCountCurrent = 0
	s.WalletTxCountSinceStart = 0
	s.WalletLastSeenSignature = ""
	s.WalletGrowthUnitsApplied = 0
	log.Printf("Tracking wallet %s", address)
}

// ApplyTxCount folds a cumulative transaction total into the state and
// returns the number of new growth units. Re-reporting a total applies
// nothing twice.
func ApplyTxCount(s *State, total int, newestSig string) int {
	total = max(total, 0)
	if !s.WalletTxBaselineInitialized {
		s.WalletTxBaselineInitialized = true
		s.WalletTxCountBaseline = total
	}
	s.WalletTxCountCurrent = total
	s.WalletTxCountSinceStart = max(0, total-s.WalletTxCountBaseline)
	if newestSig != "" {
		s.WalletLastSeenSignature = newestSig
	}

	units := s.WalletTxCountSinceStart / TxsPerGrowthUnit
	delta := units - s.WalletGrowthUnitsApplied
	if delta <= 0 {
		return 0
	}
	s.WalletGrowthUnitsApplied = units
	log.Printf("Wallet growth: %d new unit(s), %d transactions since tracking began", delta, s.WalletTxCountSinceStart)
	return delta
}

// ProgressOf reports the wallet growth progress of a state.
func ProgressOf(s *State) TxProgress {
	return TxProgress{
		Tracking:    s.WalletTracking(),
		SinceStart:  s.WalletTxCountSinceStart,
		GrowthUnits: s.WalletGrowthUnitsApplied,
		InUnit:      s.WalletTxCountSinceStart % TxsPerGrowthUnit,
	}
}
