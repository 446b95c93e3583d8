package pet

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrClosed        = errors.New("pet: engine closed")
	ErrDead          = errors.New("pet: pet is dead")
	ErrNotDead       = errors.New("pet: pet is alive")
	ErrPaymentFailed = errors.New("pet: payment failed")
	ErrNoGateway     = errors.New("pet: no payment gateway configured")
	ErrUnknownGame   = errors.New("pet: unknown game")
	ErrInvalidMint   = errors.New("pet: empty mint address")
)

// Gateway submits on-chain payments. A nil error means the payment was
// confirmed.
type Gateway interface {
	SubmitPayment(ctx context.Context, lamports uint64, purpose Purpose) (receipt string, err error)
}

// Metrics receives engine counters.
type Metrics interface {
	Tick()
	Action(action, result string)
	CoinsEarned(source string, n int)
	Died()
	StageChanged(stage Stage)
	StoreError()
}

type noopMetrics struct{}

func (noopMetrics) Tick() {}
func (noopMetrics) Action(string, string) {}
func (noopMetrics) CoinsEarned(string, int) {}
func (noopMetrics) Died() {}
func (noopMetrics) StageChanged(Stage) {}
func (noopMetrics) StoreError() {}

// Timer is a pending scheduled call.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type timeScheduler struct{}

func (timeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Action is a timed care action.
type Action string

const (
	ActionFeed  Action = "feed"
	ActionPlay  Action = "play"
	ActionSleep Action = "sleep"
)

type actionSpec struct {
	mood     Mood
	duration time.Duration
	coins    int
	apply    func(s *State)
}

var actionSpecs = map[Action]actionSpec{
	ActionFeed: {MoodEating, 2 * time.Second, 2 * CoinRate, func(s *State) {
		s.Hunger = clampStat(s.Hunger + 30)
		s.Happiness = clampStat(s.Happiness + 5)
		s.TotalFeeds++
	}},
	ActionPlay: {MoodPlaying, 3 * time.Second, 5 * CoinRate, func(s *State) {
		s.Happiness = clampStat(s.Happiness + 25)
		s.Energy = clampStat(s.Energy - 15)
		s.TotalPlays++
	}},
	ActionSleep: {MoodSleeping, 4 * time.Second, 1 * CoinRate, func(s *State) {
		s.Hunger = clampStat(s.Hunger - 10)
		s.Energy = clampStat(s.Energy + 40)
		s.TotalSleeps++
	}},
}

// ActionDuration returns how long an action locks the pet.
func ActionDuration(a Action) time.Duration {
	return actionSpecs[a].duration
}

// Options configures an Engine. Store is required.
type Options struct {
	Store        Store
	Payments     Gateway
	Fees         map[Purpose]uint64
	Metrics      Metrics
	Now          func() time.Time
	Scheduler    Scheduler
	TickInterval time.Duration
	EventBuffer  int
}

// Snapshot is a read-only view of the pet plus everything derived from it.
type Snapshot struct {
	Session        string
	State          State
	Actioning      bool
	Action         Action
	JustEvolved    bool
	NewAchievement AchievementID
	CheckIn        CheckIn
	Cooldowns      map[GameType]Cooldown
	Progress       TxProgress
}

// Engine owns one pet for the lifetime of a session. Every event (tick,
// action completion, command, feed report) is applied under one lock and
// then written through to the store.
type Engine struct {
	mu sync.Mutex

	state    State
	store    Store
	payments Gateway
	fees     map[Purpose]uint64
	metrics  Metrics
	now      func() time.Time
	sched    Scheduler
	interval time.Duration
	session  string

	actioning bool
	action    Action
	actionSeq uint64
	pending   Timer

	evolved     signal[Stage]
	achievement signal[AchievementID]

	walletGen uint64

	events chan Event
	closed bool
}

// Open loads the saved pet, or hatches a new one, and catches it up to now.
func Open(opts Options) (*Engine, error) {
	if opts.Store == nil {
		return nil, errors.New("pet: nil store")
	}
	e := &Engine{
		store:    opts.Store,
		payments: opts.Payments,
		fees:     opts.Fees,
		metrics:  opts.Metrics,
		now:      opts.Now,
		sched:    opts.Scheduler,
		interval: opts.TickInterval,
		session:  uuid.NewString(),
	}
	if e.metrics == nil {
		e.metrics = noopMetrics{}
	}
	if e.now == nil {
		e.now = TimeNow
	}
	if e.sched == nil {
		e.sched = timeScheduler{}
	}
	if e.interval <= 0 {
		e.interval = TickInterval
	}
	buf := opts.EventBuffer
	if buf <= 0 {
		buf = 64
	}
	e.events = make(chan Event, buf)

	data, err := e.store.Load()
	if err != nil {
		return nil, fmt.Errorf("load pet state: %w", err)
	}

	now := e.now()
	if data == nil {
		e.state = NewState(now)
		log.Printf("Created new pet (session %s)", e.session)
	} else if s, err := Decode(data, now); err != nil {
		log.Printf("Error loading state: %v. Creating new pet.", err)
		e.state = NewState(now)
	} else {
		e.state = s
		res := CatchUp(&e.state, now)
		if res.Died {
			e.metrics.Died()
			e.emit(Event{Type: EventDied, Time: now})
		}
		if res.Evolved {
			e.evolved.set(e.state.EvolutionStage, now)
			e.emit(Event{Type: EventEvolved, Time: now, Stage: e.state.EvolutionStage})
		}
		log.Printf("Loaded pet (session %s): caught up %ds offline", e.session, res.Elapsed)
	}

	e.metrics.StageChanged(e.state.EvolutionStage)
	e.achievementsLocked(now)
	e.persistLocked()
	return e, nil
}

// Session returns the id of this engine's session.
func (e *Engine) Session() string { return e.session }

// Events returns the channel events are published on. Events are dropped when
// the channel is full. It is closed by Close.
func (e *Engine) Events() <-chan Event { return e.events }

// Run ticks the simulation until ctx is done.
func (e *Engine) Run(ctx context.Context) error {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			e.Tick()
		}
	}
}

// Tick advances the simulation by one second.
func (e *Engine) Tick() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.state.IsDead {
		return
	}
	now := e.now()
	if CheckDeadline(&e.state, now) {
		e.dieLocked(now)
		e.persistLocked()
		return
	}
	if e.actioning || IsActionMood(e.state.Mood) {
		return
	}

	s := &e.state
	s.Age++
	ApplyDecay(s, 1)
	s.IsNight = IsNightAt(s.Age)
	s.Mood = DeriveMood(s)
	if s.Age%PassiveCoinInterval == 0 {
		CreditCoins(s, CoinRate)
		e.metrics.CoinsEarned(SourcePassive, CoinRate)
	}
	e.advanceLocked(now)
	s.LastUpdateTimestamp = At(now)
	e.achievementsLocked(now)
	e.metrics.Tick()
	e.persistLocked()
}

// Feed starts feeding. It reports false when the pet cannot act right now.
func (e *Engine) Feed() bool { return e.startAction(ActionFeed) }

// Play starts playing. The pet refuses when it is too tired.
func (e *Engine) Play() bool { return e.startAction(ActionPlay) }

// Sleep puts the pet to sleep.
func (e *Engine) Sleep() bool { return e.startAction(ActionSleep) }

func (e *Engine) startAction(a Action) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	spec := actionSpecs[a]
	if e.closed || e.state.IsDead || e.actioning {
		e.metrics.Action(string(a), "refused")
		return false
	}
	if a == ActionPlay && e.state.Energy < MinPlayEnergy {
		e.metrics.Action(string(a), "refused")
		return false
	}

	e.actioning = true
	e.action = a
	e.actionSeq++
	seq := e.actionSeq
	e.state.Mood = spec.mood
	e.persistLocked()
	e.pending = e.sched.AfterFunc(spec.duration, func() { e.completeAction(seq) })
	e.metrics.Action(string(a), "started")
	return true
}

func (e *Engine) completeAction(seq uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || !e.actioning || seq != e.actionSeq {
		return
	}
	a := e.action
	e.actioning = false
	e.action = ""
	e.pending = nil
	if e.state.IsDead {
		return
	}

	now := e.now()
	spec := actionSpecs[a]
	spec.apply(&e.state)
	CreditCoins(&e.state, spec.coins)
	e.metrics.CoinsEarned(string(a), spec.coins)
	e.state.Mood = DeriveMood(&e.state)
	e.achievementsLocked(now)
	e.persistLocked()
	e.metrics.Action(string(a), "completed")
	e.emit(Event{Type: EventActionDone, Time: now, Action: a})
}

// BuySkin buys and equips a skin, or just equips it when already owned.
func (e *Engine) BuySkin(id Skin) bool {
	return e.command("buy_skin", func(s *State) bool { return BuySkin(s, id) })
}

// SelectSkin equips an owned skin.
func (e *Engine) SelectSkin(id Skin) bool {
	return e.command("select_skin", func(s *State) bool { return SelectSkin(s, id) })
}

// AddCoins credits a finished mini-game and starts its cooldown.
func (e *Engine) AddCoins(amount int, game GameType) bool {
	if !ValidGame(game) || amount < 0 {
		return false
	}
	return e.command("game", func(s *State) bool {
		RecordGame(s, game, amount, At(e.now()))
		e.metrics.CoinsEarned(string(game), amount)
		return true
	})
}

// MarkWelcomeSeen records that the welcome screen was shown.
func (e *Engine) MarkWelcomeSeen() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.state.HasSeenWelcome {
		return
	}
	e.state.HasSeenWelcome = true
	e.persistLocked()
}

// command applies a guarded mutation to a live pet.
func (e *Engine) command(name string, fn func(s *State) bool) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.state.IsDead || !fn(&e.state) {
		e.metrics.Action(name, "refused")
		return false
	}
	e.achievementsLocked(e.now())
	e.persistLocked()
	e.metrics.Action(name, "ok")
	return true
}

// GameCooldown reports a mini-game's cooldown.
func (e *Engine) GameCooldown(game GameType) Cooldown {
	e.mu.Lock()
	defer e.mu.Unlock()
	return GameCooldownAt(&e.state, game, e.now())
}

// CheckInStatus reports the daily check-in deadline.
func (e *Engine) CheckInStatus() CheckIn {
	e.mu.Lock()
	defer e.mu.Unlock()
	return CheckInStatusAt(&e.state, e.now())
}

// ResetGameCooldown pays the unlock fee and clears a game's cooldown.
func (e *Engine) ResetGameCooldown(ctx context.Context, game GameType) error {
	if !ValidGame(game) {
		return fmt.Errorf("%w: %q", ErrUnknownGame, game)
	}
	return e.paid(ctx, PurposeGameUnlock, requireAlive, func(s *State, now time.Time) {
		ResetGameCooldown(s, game)
		log.Printf("Cooldown reset for %s", game)
	})
}

// MarkCheckInComplete pays the check-in fee and restarts the deadline.
func (e *Engine) MarkCheckInComplete(ctx context.Context) error {
	return e.paid(ctx, PurposeCheckIn, requireAlive, func(s *State, now time.Time) {
		CompleteCheckIn(s, now)
		log.Printf("Checked in, next deadline %s", now.Add(CheckInDeadline).Format(time.RFC3339))
		e.emit(Event{Type: EventCheckIn, Time: now})
	})
}

// RevivePet pays the revival fee and brings a dead pet back.
func (e *Engine) RevivePet(ctx context.Context) error {
	return e.paid(ctx, PurposeRevival, requireDead, func(s *State, now time.Time) {
		Revive(s, now)
		log.Printf("Pet revived")
		e.emit(Event{Type: EventRevived, Time: now})
	})
}

// MarkNFTMinted pays the mint fee and records the pet's NFT. It is allowed
// while the pet is dead.
func (e *Engine) MarkNFTMinted(ctx context.Context, mintAddress string) error {
	if mintAddress == "" {
		return ErrInvalidMint
	}
	return e.paid(ctx, PurposeNFTMint, nil, func(s *State, now time.Time) {
		s.HasMintedNFT = true
		s.NFTMintAddress = mintAddress
		log.Printf("NFT minted: %s", mintAddress)
	})
}

func requireAlive(s *State) error {
	if s.IsDead {
		return ErrDead
	}
	return nil
}

func requireDead(s *State) error {
	if !s.IsDead {
		return ErrNotDead
	}
	return nil
}

// paid checks the precondition, submits the payment without holding the lock
// and applies the transition only once the payment is confirmed. The
// precondition is checked again after confirmation; a payment that no longer
// buys anything is logged and its transition is refused.
func (e *Engine) paid(ctx context.Context, purpose Purpose, check func(*State) error, apply func(s *State, now time.Time)) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	if check != nil {
		if err := check(&e.state); err != nil {
			e.mu.Unlock()
			return err
		}
	}
	e.mu.Unlock()

	if e.payments == nil {
		return ErrNoGateway
	}
	receipt, err := e.payments.SubmitPayment(ctx, e.fees[purpose], purpose)
	if err != nil {
		e.metrics.Action(string(purpose), "payment_failed")
		return fmt.Errorf("%w: %w", ErrPaymentFailed, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		log.Printf("Payment %s for %s confirmed after close", receipt, purpose)
		return ErrClosed
	}
	if check != nil {
		if err := check(&e.state); err != nil {
			log.Printf("Payment %s for %s confirmed but not applied: %v", receipt, purpose, err)
			e.metrics.Action(string(purpose), "stale")
			return fmt.Errorf("%w (receipt %s)", err, receipt)
		}
	}
	log.Printf("Payment %s confirmed for %s", receipt, purpose)
	apply(&e.state, e.now())
	e.persistLocked()
	e.metrics.Action(string(purpose), "ok")
	return nil
}

// StartNewGame replaces the pet with a fresh one. Only the NFT record
// survives. A connected wallet starts tracking again from a new baseline.
func (e *Engine) StartNewGame() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.stopActionLocked()
	now := e.now()
	prev := e.state
	e.state = NewState(now)
	e.state.HasMintedNFT = prev.HasMintedNFT
	e.state.NFTMintAddress = prev.NFTMintAddress
	if prev.WalletAddress != "" {
		StartTracking(&e.state, prev.WalletAddress, now)
		e.walletGen++
	}
	e.evolved.clear()
	e.achievement.clear()
	log.Printf("Started new game")
	e.metrics.StageChanged(e.state.EvolutionStage)
	e.achievementsLocked(now)
	e.persistLocked()
	e.emit(Event{Type: EventNewGame, Time: now})
}

// TrackWallet points the growth feed at an address and returns the feed
// generation. Changing the address resets the baseline and invalidates any
// poll in flight for the old one.
func (e *Engine) TrackWallet(address string) uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || address == "" {
		return e.walletGen
	}
	if address == e.state.WalletAddress && e.state.WalletTracking() {
		return e.walletGen
	}
	e.walletGen++
	StartTracking(&e.state, address, e.now())
	e.persistLocked()
	return e.walletGen
}

// WalletTarget returns the address the feed should poll and its generation.
func (e *Engine) WalletTarget() (address string, gen uint64, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.state.WalletAddress == "" || !e.state.WalletTracking() {
		return "", e.walletGen, false
	}
	return e.state.WalletAddress, e.walletGen, true
}

// ApplyTxCount folds a transaction total reported by the feed. Reports for a
// stale generation or address are dropped and false is returned.
func (e *Engine) ApplyTxCount(gen uint64, address string, total int, newestSig string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || gen != e.walletGen || address != e.state.WalletAddress {
		return false
	}
	now := e.now()
	if units := ApplyTxCount(&e.state, total, newestSig); units > 0 {
		e.emit(Event{Type: EventWalletGrowth, Time: now, GrowthUnits: units})
	}
	if !e.state.IsDead {
		e.advanceLocked(now)
		e.achievementsLocked(now)
	}
	e.persistLocked()
	return true
}

// Snapshot returns a copy of the state and its derived values.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	now := e.now()
	snap := Snapshot{
		Session:   e.session,
		State:     e.state.Clone(),
		Actioning: e.actioning,
		Action:    e.action,
		CheckIn:   CheckInStatusAt(&e.state, now),
		Cooldowns: make(map[GameType]Cooldown, len(GameTypes)),
		Progress:  ProgressOf(&e.state),
	}
	_, snap.JustEvolved = e.evolved.get(now)
	snap.NewAchievement, _ = e.achievement.get(now)
	for _, g := range GameTypes {
		snap.Cooldowns[g] = GameCooldownAt(&e.state, g, now)
	}
	return snap
}

// Close stops pending timers and the event channel. Later calls are no-ops.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.stopActionLocked()
	e.closed = true
	close(e.events)
}

func (e *Engine) stopActionLocked() {
	if e.pending != nil {
		e.pending.Stop()
		e.pending = nil
	}
	e.actioning = false
	e.action = ""
	e.actionSeq++
}

func (e *Engine) dieLocked(now time.Time) {
	e.stopActionLocked()
	e.state.Mood = DeriveMood(&e.state)
	e.metrics.Died()
	e.emit(Event{Type: EventDied, Time: now})
}

func (e *Engine) advanceLocked(now time.Time) {
	if !AdvanceStage(&e.state) {
		return
	}
	stage := e.state.EvolutionStage
	e.evolved.set(stage, now)
	e.metrics.StageChanged(stage)
	e.emit(Event{Type: EventEvolved, Time: now, Stage: stage})
}

func (e *Engine) achievementsLocked(now time.Time) {
	for _, id := range EvaluateAchievements(&e.state) {
		e.achievement.set(id, now)
		e.emit(Event{Type: EventAchievement, Time: now, Achievement: id})
	}
}

func (e *Engine) persistLocked() {
	data, err := Encode(e.state)
	if err == nil {
		err = e.store.Save(data)
	}
	if err != nil {
		log.Printf("Error saving state: %v", err)
		e.metrics.StoreError()
	}
}

func (e *Engine) emit(ev Event) {
	if e.closed {
		return
	}
	select {
	case e.events <- ev:
	default:
	}
}
