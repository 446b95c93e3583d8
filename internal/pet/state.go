package pet

import (
	"slices"
	"time"
)

// TimeNow is the clock used when no other clock is configured.
var TimeNow = func() time.Time { return time.Now().UTC() }

// Timestamp is a wall-clock instant in Unix milliseconds, the unit used by
// existing save files.
type Timestamp int64

// At converts a time to a Timestamp.
func At(t time.Time) Timestamp { return Timestamp(t.UnixMilli()) }

// Time returns the timestamp as a UTC time.
func (ts Timestamp) Time() time.Time { return time.UnixMilli(int64(ts)).UTC() }

// TimestampPtr returns a pointer to At(t), for the nullable fields.
func TimestampPtr(t time.Time) *Timestamp {
	ts := At(t)
	return &ts
}

// GameTimes holds the last time each mini-game was played. Nil means never
// played or cooldown cleared.
type GameTimes struct {
	Clicker *Timestamp `json:"clicker"`
	Catch   *Timestamp `json:"catch"`
}

// Get returns the last-played stamp for a game.
func (g GameTimes) Get(game GameType) *Timestamp {
	switch game {
	case GameClicker:
		return g.Clicker
	case GameCatch:
		return g.Catch
	}
	return nil
}

// Set replaces the last-played stamp for a game.
func (g *GameTimes) Set(game GameType, ts *Timestamp) {
	switch game {
	case GameClicker:
		g.Clicker = ts
	case GameCatch:
		g.Catch = ts
	}
}

// State is the full, persisted state of one pet. Field names follow the
// browser save format so old saves keep loading.
type State struct {
	Hunger    float64 `json:"hunger"`
	Happiness float64 `json:"happiness"`
	Energy    float64 `json:"energy"`
	Mood      Mood    `json:"mood"`
	Age       int     `json:"age"`
	IsNight   bool    `json:"isNight"`

	Coins            int   `json:"coins"`
	TotalCoinsEarned int   `json:"totalCoinsEarned"`
	EvolutionStage   Stage `json:"evolutionStage"`

	CurrentSkin          Skin            `json:"currentSkin"`
	UnlockedSkins        []Skin          `json:"unlockedSkins"`
	UnlockedAchievements []AchievementID `json:"unlockedAchievements"`

	TotalFeeds       int `json:"totalFeeds"`
	TotalPlays       int `json:"totalPlays"`
	TotalSleeps      int `json:"totalSleeps"`
	TotalGamesPlayed int `json:"totalGamesPlayed"`

	// Wallet transaction tracking
	WalletAddress               string     `json:"walletAddress"`
	WalletTrackingStartedAt     *Timestamp `json:"walletTrackingStartedAt"`
	WalletTxBaselineInitialized bool       `json:"walletTxBaselineInitialized"`
	WalletTxCountBaseline       int        `json:"walletTxCountBaseline"`
	WalletTxCountCurrent        int        `json:"walletTxCountCurrent"`
	WalletTxCountSinceStart     int        `json:"walletTxCountSinceStart"`
	WalletLastSeenSignature     string     `json:"walletLastSeenSignature"`
	WalletGrowthUnitsApplied    int        `json:"walletGrowthUnitsApplied"`

	LastUpdateTimestamp Timestamp  `json:"lastUpdateTimestamp"`
	HasMintedNFT        bool       `json:"hasMintedNFT"`
	NFTMintAddress      string     `json:"nftMintAddress"`
	LastGamePlayed      GameTimes  `json:"lastGamePlayed"`
	LastCheckIn         *Timestamp `json:"lastCheckIn"`
	IsDead              bool       `json:"isDead"`
	HasSeenWelcome      bool       `json:"hasSeenWelcome"`
}

// NewState returns a freshly hatched pet.
func NewState(now time.Time) State {
	return State{
		Hunger:               DefaultHunger,
		Happiness:            DefaultHappiness,
		Energy:               DefaultEnergy,
		Mood:                 MoodHappy,
		EvolutionStage:       StageBaby,
		CurrentSkin:          DefaultSkin,
		UnlockedSkins:        []Skin{DefaultSkin},
		UnlockedAchievements: []AchievementID{},
		LastUpdateTimestamp:  At(now),
		LastCheckIn:          TimestampPtr(now),
	}
}

// Clone returns a deep copy that shares nothing with s.
func (s State) Clone() State {
	c := s
	c.UnlockedSkins = slices.Clone(s.UnlockedSkins)
	c.UnlockedAchievements = slices.Clone(s.UnlockedAchievements)
	c.WalletTrackingStartedAt = clonePtr(s.WalletTrackingStartedAt)
	c.LastGamePlayed = GameTimes{
		Clicker: clonePtr(s.LastGamePlayed.Clicker),
		Catch:   clonePtr(s.LastGamePlayed.Catch),
	}
	c.LastCheckIn = clonePtr(s.LastCheckIn)
	return c
}

// HasSkin reports whether the skin is unlocked.
func (s *State) HasSkin(id Skin) bool {
	return slices.Contains(s.UnlockedSkins, id)
}

// HasAchievement reports whether the achievement is unlocked.
func (s *State) HasAchievement(id AchievementID) bool {
	return slices.Contains(s.UnlockedAchievements, id)
}

// WalletTracking reports whether stage progress comes from wallet transactions.
func (s *State) WalletTracking() bool {
	return s.WalletTrackingStartedAt != nil
}

func clonePtr(ts *Timestamp) *Timestamp {
	if ts == nil {
		return nil
	}
	v := *ts
	return &v
}

func clampStat(v float64) float64 {
	return max(MinStat, min(v, MaxStat))
}
