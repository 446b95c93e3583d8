package pet

import "time"

// Game constants
const (
	MaxStat = 100.0
	MinStat = 0.0

	// Decay per second of live simulation. Happiness and energy decay at a
	// fraction of the hunger rate.
	DecayRate          = 0.5
	HappinessDecayMult = 0.5
	EnergyDecayMult    = 0.3

	NightCycleTicks     = 60 // Age ticks per half day/night cycle
	PassiveCoinInterval = 10 // One passive coin every N age ticks
	CoinRate            = 1  // Base coin reward per action

	GameCooldown     = 2 * time.Hour
	CheckInDeadline  = 24 * time.Hour
	SignalDuration   = 3 * time.Second
	TickInterval     = time.Second
	TxsPerGrowthUnit = 10

	// Mood thresholds
	TiredEnergyThreshold    = 20
	HungryHungerThreshold   = 30
	HappyHappinessThreshold = 60
	HappyHungerThreshold    = 50
	HappyEnergyThreshold    = 40
	MinPlayEnergy           = 10

	// Stats a revived pet starts from
	ReviveStat = 50.0
)

// Default stats for a freshly hatched pet
const (
	DefaultHunger    = 80.0
	DefaultHappiness = 70.0
	DefaultEnergy    = 90.0
	DefaultSkin      = SkinCreeper
)

// Mood is the pet's displayed mood. The action moods (eating, playing,
// sleeping) are only ever set by an action in progress.
type Mood string

const (
	MoodHappy    Mood = "happy"
	MoodHungry   Mood = "hungry"
	MoodTired    Mood = "tired"
	MoodSleeping Mood = "sleeping"
	MoodEating   Mood = "eating"
	MoodPlaying  Mood = "playing"
)

// Stage is the pet's evolution stage. Stages are ordered.
type Stage string

const (
	StageBaby  Stage = "baby"
	StageChild Stage = "child"
	StageTeen  Stage = "teen"
	StageAdult Stage = "adult"
	StageElder Stage = "elder"
)

// Stages lists every stage from youngest to oldest.
var Stages = []Stage{StageBaby, StageChild, StageTeen, StageAdult, StageElder}

// Age (seconds) and transaction thresholds for each stage.
var (
	AgeMilestones = map[Stage]int{
		StageBaby:  0,
		StageChild: 180,
		StageTeen:  360,
		StageAdult: 600,
		StageElder: 900,
	}
	TxMilestones = map[Stage]int{
		StageBaby:  0,
		StageChild: 10,
		StageTeen:  20,
		StageAdult: 30,
		StageElder: 40,
	}
)

// GameType identifies a mini-game with its own cooldown.
type GameType string

const (
	GameClicker GameType = "clicker"
	GameCatch   GameType = "catch"
)

// GameTypes lists the mini-games in display order.
var GameTypes = []GameType{GameClicker, GameCatch}

// Purpose describes what an on-chain payment is for.
type Purpose string

const (
	PurposeCheckIn    Purpose = "daily-checkin"
	PurposeRevival    Purpose = "revival"
	PurposeGameUnlock Purpose = "game-unlock"
	PurposeNFTMint    Purpose = "nft-mint"
)
