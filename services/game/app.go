package game

import (
	"Soberlife/content"
	redis_models "Soberlife/models/redis"
	"Soberlife/services/achievements"
	"Soberlife/services/blackjack"
	"Soberlife/services/campaign"
	"Soberlife/services/navigation"
	redis_services "Soberlife/services/redis"
	"Soberlife/services/zen"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/exp/rand"
)

var (
	ErrNoRound      = errors.New("no round in progress")
	ErrRoundNotOver = errors.New("round is still in progress")
	ErrUnknownKind  = errors.New("unknown upgrade kind")
	ErrNotInShop    = errors.New("shop is not open")
	ErrNotAvailable = errors.New("activity not available here")
)

// Rewards are the per-round payouts and stress costs
type Rewards struct {
	Win        int
	Blackjack  int
	LossStress int
	PushStress int
}

func DefaultRewards() Rewards {
	return Rewards{Win: 10, Blackjack: 15, LossStress: 20, PushStress: 5}
}

type Options struct {
	Content  *content.Content
	Rewards  Rewards
	Notifier achievements.Notifier
	RNG      *rand.Rand
	Now      func() time.Time
}

// App owns the whole game state. Every exported action takes the lock, so UI
// events coming from concurrent handlers are applied one at a time, and every
// mutation is written to storage before the action returns.
type App struct {
	mu sync.Mutex

	storage  *redis_services.Storage
	content  *content.Content
	rewards  Rewards
	rng      *rand.Rand
	now      func() time.Time
	wallet   *zen.Wallet
	tracker  *achievements.Tracker
	campaign *campaign.Campaign
	nav      *navigation.Navigator

	deck     *blackjack.Deck
	deckFor  blackjack.DeckComposition
	round    *blackjack.Round
	lastTask *content.Task

	// Unlocks are held back until the progress that caused them is saved
	notifier achievements.Notifier
	held     *heldUnlocks

	listeners []func(Snapshot)
	changed   bool

	ready     chan struct{}
	readyOnce sync.Once
}

type heldUnlock struct {
	achievement achievements.Achievement
	at          time.Time
}

type heldUnlocks struct {
	unlocks []heldUnlock
}

func (h *heldUnlocks) AchievementUnlocked(a achievements.Achievement, at time.Time) {
	h.unlocks = append(h.unlocks, heldUnlock{achievement: a, at: at})
}

func NewApp(storage *redis_services.Storage, opts Options) *App {
	if opts.Content == nil {
		opts.Content = content.Default()
	}
	if opts.Rewards == (Rewards{}) {
		opts.Rewards = DefaultRewards()
	}
	if opts.RNG == nil {
		opts.RNG = blackjack.NewRNG()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	held := &heldUnlocks{}
	return &App{
		storage:  storage,
		content:  opts.Content,
		rewards:  opts.Rewards,
		rng:      opts.RNG,
		now:      opts.Now,
		wallet:   zen.NewWallet(0),
		tracker:  achievements.NewTracker(held),
		campaign: campaign.New(opts.Content),
		nav:      navigation.New(),
		notifier: opts.Notifier,
		held:     held,
		ready:    make(chan struct{}),
	}
}

// OnChange registers fn to receive a snapshot after every action that changed
// the game state. fn runs after the lock is released, on the acting goroutine.
func (a *App) OnChange(fn func(Snapshot)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.listeners = append(a.listeners, fn)
}

// unlock releases the lock taken by an action and tells the listeners if the
// action changed anything
func (a *App) unlock() {
	var (
		snapshot  Snapshot
		listeners []func(Snapshot)
	)
	if a.changed && len(a.listeners) > 0 {
		snapshot = a.snapshotLocked()
		listeners = append(listeners, a.listeners...)
	}
	a.changed = false
	a.mu.Unlock()

	for _, fn := range listeners {
		fn(snapshot)
	}
}

// track marks the state as changed when err is nil
func (a *App) track(err error) error {
	if err == nil {
		a.changed = true
	}
	return err
}

// Load restores persisted progress. Missing or corrupt entries leave the
// defaults in place. The app is marked ready whatever happens.
func (a *App) Load() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	defer a.readyOnce.Do(func() { close(a.ready) })

	var errs []error

	achState, err := a.storage.GetAchievements()
	if err != nil {
		log.Printf("[LOAD] Error loading achievements, starting fresh: %v", err)
		errs = append(errs, err)
	} else if achState != nil {
		a.tracker.Restore(*achState)
	}

	campState, err := a.storage.GetCampaign()
	if err != nil {
		log.Printf("[LOAD] Error loading campaign, starting fresh: %v", err)
		errs = append(errs, err)
	} else if campState != nil {
		if err := a.campaign.Restore(*campState); err != nil {
			log.Printf("[LOAD] Invalid campaign state, starting fresh: %v", err)
			a.campaign.Reset()
			errs = append(errs, err)
		} else {
			a.wallet.Restore(campState.ZenPointBalance, a.tracker.Statistic(achievements.StatZenPointsPeak))
		}
	}

	log.Printf("[LOAD] Progress loaded: %d zen, %d/%d tasks, %s",
		a.wallet.Balance(), a.campaign.CompletedCount(), len(a.campaign.Tasks()), a.tracker.Progress())
	return errors.Join(errs...)
}

// Ready is closed once Load has run
func (a *App) Ready() <-chan struct{} {
	return a.ready
}

func (a *App) IsReady() bool {
	select {
	case <-a.ready:
		return true
	default:
		return false
	}
}

func (a *App) persist() error {
	state := a.campaign.State()
	state.ZenPointBalance = a.wallet.Balance()
	if err := a.storage.SaveProgress(state, a.tracker.State()); err != nil {
		return fmt.Errorf("error saving progress: %w", err)
	}
	return nil
}

// checkpoint is the saved progress as it was before an action
type checkpoint struct {
	campaign     redis_models.CampaignState
	achievements redis_models.AchievementState
	balance      int
	peak         int
}

func (a *App) checkpoint() checkpoint {
	return checkpoint{
		campaign:     a.campaign.State(),
		achievements: a.tracker.State(),
		balance:      a.wallet.Balance(),
		peak:         a.wallet.Peak(),
	}
}

// rollback puts progress back to cp and drops the unlocks it produced
func (a *App) rollback(cp checkpoint) {
	if err := a.campaign.Restore(cp.campaign); err != nil {
		log.Printf("[ROLLBACK-ERROR] %v", err)
	}
	a.tracker.Restore(cp.achievements)
	a.wallet.Restore(cp.balance, cp.peak)
	a.held.unlocks = nil
}

func (a *App) releaseUnlocks() {
	unlocks := a.held.unlocks
	a.held.unlocks = nil
	if a.notifier == nil {
		return
	}
	for _, u := range unlocks {
		a.notifier.AchievementUnlocked(u.achievement, u.at)
	}
}

// syncStats pushes the derived statistics into the tracker
func (a *App) syncStats() {
	a.checkMilestones(achievements.StatZenPointsPeak, a.wallet.Peak())
	a.checkMilestones(achievements.StatCampaignTasksCompleted, a.campaign.CompletedCount())
	if a.campaign.IsComplete() {
		a.checkMilestones(achievements.StatCampaignCompleted, 1)
	}
}

func (a *App) checkMilestones(stat string, value int) {
	if _, err := a.tracker.CheckMilestones(stat, value); err != nil {
		log.Printf("[ACHIEVEMENT-ERROR] %v", err)
	}
}

// commit saves the progress changed since cp. When saving fails everything is
// rolled back to cp, so memory never runs ahead of storage.
func (a *App) commit(cp checkpoint) error {
	a.syncStats()
	if err := a.persist(); err != nil {
		a.rollback(cp)
		return err
	}
	a.releaseUnlocks()
	a.changed = true
	return nil
}

// apply runs mutate and commits its result, or rolls back if either fails
func (a *App) apply(mutate func() error) error {
	cp := a.checkpoint()
	if err := mutate(); err != nil {
		a.rollback(cp)
		return err
	}
	return a.commit(cp)
}

func (a *App) StartCampaign() error {
	a.mu.Lock()
	defer a.unlock()
	return a.track(a.nav.StartCampaign())
}

func (a *App) StartFreePlay() error {
	a.mu.Lock()
	defer a.unlock()
	return a.track(a.nav.StartFreePlay())
}

func (a *App) ReturnToModeSelect() error {
	a.mu.Lock()
	defer a.unlock()
	return a.track(a.nav.ReturnToModeSelect())
}

// deal starts a round on a deck matching the current composition. The deck is
// rebuilt whenever an upgrade changed the composition.
func (a *App) deal() *blackjack.Round {
	dc := a.campaign.Deck()
	if a.deck == nil || a.deckFor != dc {
		a.deck = blackjack.NewDeck(dc, a.rng)
		a.deckFor = dc
	}
	a.round = blackjack.NewRound(a.deck)
	a.lastTask = nil
	return a.round
}

// StartNextTask deals a round from the current overview. In campaign mode it
// plays toward the current task.
func (a *App) StartNextTask() (blackjack.Round, error) {
	a.mu.Lock()
	defer a.unlock()

	if a.nav.Mode() == navigation.ModeCampaign && a.campaign.IsComplete() {
		return blackjack.Round{}, campaign.ErrCampaignIsComplete
	}
	if err := a.nav.StartRound(); err != nil {
		return blackjack.Round{}, err
	}
	return a.dealAndSettle()
}

// dealAndSettle deals a round and settles it at once on a natural. The
// returned round is a copy the caller may keep after the lock is released.
func (a *App) dealAndSettle() (blackjack.Round, error) {
	r := a.deal()
	a.changed = true
	if r.Over() {
		if err := a.settle(); err != nil {
			return r.Clone(), err
		}
	}
	return r.Clone(), nil
}

func (a *App) Hit() (blackjack.Round, error) {
	return a.play((*blackjack.Round).Hit)
}

func (a *App) Stand() (blackjack.Round, error) {
	return a.play((*blackjack.Round).Stand)
}

func (a *App) play(move func(*blackjack.Round) error) (blackjack.Round, error) {
	a.mu.Lock()
	defer a.unlock()

	if a.round == nil {
		return blackjack.Round{}, ErrNoRound
	}
	if err := move(a.round); err != nil {
		return a.round.Clone(), err
	}
	a.changed = true
	if a.round.Over() {
		if err := a.settle(); err != nil {
			return a.round.Clone(), err
		}
	}
	return a.round.Clone(), nil
}

// settle pays out a finished round and records its effect on progress. If the
// result cannot be saved the round stays finished but pays nothing.
func (a *App) settle() error {
	outcome := a.round.Outcome
	err := a.apply(func() error {
		switch outcome {
		case blackjack.OutcomeBlackjack:
			if err := a.wallet.AddPoints(a.rewards.Blackjack); err != nil {
				return fmt.Errorf("error paying blackjack reward: %w", err)
			}
		case blackjack.OutcomeWin:
			if err := a.wallet.AddPoints(a.rewards.Win); err != nil {
				return fmt.Errorf("error paying win reward: %w", err)
			}
		}

		switch a.nav.Mode() {
		case navigation.ModeCampaign:
			switch {
			case outcome.IsWin():
				task, err := a.campaign.RecordTaskWin()
				if err != nil {
					return err
				}
				if task != nil {
					if err := a.wallet.AddPoints(task.Reward); err != nil {
						return fmt.Errorf("error paying task reward: %w", err)
					}
					a.lastTask = task
					log.Printf("[CAMPAIGN] Task %s completed, +%d zen", task.ID, task.Reward)
				}
			case outcome == blackjack.OutcomeLose:
				if a.campaign.AddStress(a.rewards.LossStress) {
					log.Printf("[CAMPAIGN] Stress overwhelmed the player, task progress lost")
				}
			case outcome == blackjack.OutcomePush:
				a.campaign.AddStress(a.rewards.PushStress)
			}
		case navigation.ModeFreePlay:
			if outcome != blackjack.OutcomePush {
				run := a.campaign.RecordFreePlay(outcome.IsWin())
				a.checkMilestones(achievements.StatFreePlayMaxRun, run)
			}
			if outcome.IsWin() {
				a.checkMilestones(achievements.StatFreePlayTasksTotal, 1)
			}
		}
		return nil
	})
	if err != nil {
		a.lastTask = nil
		log.Printf("[SETTLE-ERROR] %s round not recorded: %v", outcome, err)
	}
	return err
}

// FinishRound leaves a finished round. Completing the last campaign task leads
// to the completion screen instead of the overview.
func (a *App) FinishRound() (navigation.View, error) {
	a.mu.Lock()
	defer a.unlock()

	if a.round == nil {
		return a.nav.View(), ErrNoRound
	}
	if !a.round.Over() {
		return a.nav.View(), ErrRoundNotOver
	}

	var err error
	if a.nav.Mode() == navigation.ModeCampaign && a.lastTask != nil && a.campaign.IsComplete() {
		err = a.nav.CompleteCampaign()
	} else {
		err = a.nav.FinishRound()
	}
	if err != nil {
		return a.nav.View(), err
	}
	a.round = nil
	a.lastTask = nil
	a.changed = true
	return a.nav.View(), nil
}

func (a *App) OpenShop() error {
	a.mu.Lock()
	defer a.unlock()
	return a.track(a.nav.OpenShop())
}

func (a *App) CloseShop(exit navigation.ExitAction) (navigation.View, error) {
	a.mu.Lock()
	defer a.unlock()
	view, err := a.nav.CloseShop(exit)
	return view, a.track(err)
}

func (a *App) OpenMindPalace() error {
	a.mu.Lock()
	defer a.unlock()
	return a.track(a.nav.OpenMindPalace())
}

func (a *App) CloseMindPalace(exit navigation.ExitAction) (navigation.View, error) {
	a.mu.Lock()
	defer a.unlock()
	view, err := a.nav.CloseMindPalace(exit)
	return view, a.track(err)
}

// PurchaseUpgrade buys a deck upgrade or unlocks a premium activity. A failed
// purchase, including one that could not be saved, leaves the balance and the
// deck untouched.
func (a *App) PurchaseUpgrade(kind string) error {
	a.mu.Lock()
	defer a.unlock()

	if a.nav.View() != navigation.Shop {
		return ErrNotInShop
	}

	if upgrade, ok := a.content.Upgrade(kind); ok {
		return a.apply(func() error {
			if err := a.wallet.Spend(upgrade.Price); err != nil {
				log.Printf("[SHOP] Cannot afford %s (%d zen, have %d)", kind, upgrade.Price, a.wallet.Balance())
				return err
			}
			if err := a.campaign.RecordUpgrade(kind, upgrade.Price, a.now()); err != nil {
				return err
			}
			log.Printf("[SHOP] Bought %s for %d zen", kind, upgrade.Price)
			a.checkMilestones(achievements.StatUpgradesPurchased, 1)
			return nil
		})
	}

	if activity, ok := a.content.Activity(kind); ok {
		if a.campaign.IsActivityUnlocked(kind) {
			return fmt.Errorf("%w: %q", campaign.ErrActivityOwned, kind)
		}
		return a.apply(func() error {
			if err := a.wallet.Spend(activity.UnlockPrice); err != nil {
				log.Printf("[SHOP] Cannot afford %s (%d zen, have %d)", kind, activity.UnlockPrice, a.wallet.Balance())
				return err
			}
			if err := a.campaign.UnlockActivity(kind); err != nil {
				return err
			}
			log.Printf("[SHOP] Unlocked activity %s for %d zen", kind, activity.UnlockPrice)
			return nil
		})
	}

	return fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}

// PerformActivity spends zen inside the mind palace to lower stress
func (a *App) PerformActivity(name string) error {
	a.mu.Lock()
	defer a.unlock()

	if a.nav.View() != navigation.MindPalace {
		return ErrNotAvailable
	}
	activity, err := a.campaign.Activity(name)
	if err != nil {
		return err
	}
	return a.apply(func() error {
		if err := a.wallet.Spend(activity.Cost); err != nil {
			return err
		}
		a.campaign.RelieveStress(activity.Relief)
		log.Printf("[MIND-PALACE] %s: -%d zen, -%d stress", name, activity.Cost, activity.Relief)
		return nil
	})
}

// RequestReset opens the two-step confirmation. Nothing changes until both
// prompts are accepted.
func (a *App) RequestReset(flow *campaign.ResetFlow) string {
	return flow.Request()
}

// ConfirmReset advances flow. On the second acceptance all progress is wiped
// and the player is sent back to mode selection; a decline leaves everything
// as it was.
func (a *App) ConfirmReset(flow *campaign.ResetFlow, accept bool) (bool, string, error) {
	a.mu.Lock()
	defer a.unlock()

	done, prompt, err := flow.Confirm(accept)
	if err != nil || !done {
		return done, prompt, err
	}
	return true, "", a.resetLocked()
}

// Reset wipes all progress at once. Callers are expected to have asked for
// confirmation already, see campaign.RunReset.
func (a *App) Reset() error {
	a.mu.Lock()
	defer a.unlock()
	return a.resetLocked()
}

func (a *App) resetLocked() error {
	if err := a.storage.ClearProgress(); err != nil {
		return fmt.Errorf("error clearing progress: %w", err)
	}
	a.campaign.Reset()
	a.tracker.Reset()
	a.wallet.Restore(0, 0)
	a.held.unlocks = nil
	a.deck = nil
	a.round = nil
	a.lastTask = nil
	a.nav = navigation.New()
	a.changed = true
	log.Printf("[CAMPAIGN] Progress reset")
	return nil
}

// TryFreePlay is the completion screen's primary action: it switches to free
// play and deals a round straight away.
func (a *App) TryFreePlay() (blackjack.Round, error) {
	a.mu.Lock()
	defer a.unlock()

	if !a.campaign.IsComplete() {
		return blackjack.Round{}, fmt.Errorf("%w: campaign not complete", navigation.ErrInvalidTransition)
	}
	if err := a.nav.TryFreePlay(); err != nil {
		return blackjack.Round{}, err
	}
	return a.dealAndSettle()
}

func (a *App) Content() *content.Content {
	return a.content
}

func (a *App) AudioPreferences() (redis_models.AudioPreferences, error) {
	return a.storage.GetAudioPreferences()
}

func (a *App) SetAudioPreferences(p redis_models.AudioPreferences) error {
	return a.storage.SaveAudioPreferences(p)
}

// Debug tooling

func (a *App) SetDeckComposition(dc blackjack.DeckComposition) error {
	a.mu.Lock()
	defer a.unlock()
	return a.apply(func() error {
		return a.campaign.SetDeck(dc)
	})
}

func (a *App) UnlockAchievement(id string) (bool, error) {
	a.mu.Lock()
	defer a.unlock()
	var unlocked bool
	err := a.apply(func() error {
		var err error
		unlocked, err = a.tracker.UnlockAchievement(id)
		return err
	})
	if err != nil {
		return false, err
	}
	return unlocked, nil
}

func (a *App) AddZen(amount int) (int, error) {
	a.mu.Lock()
	defer a.unlock()
	err := a.apply(func() error {
		return a.wallet.AddPoints(amount)
	})
	return a.wallet.Balance(), err
}

// DeductZen takes up to amount points away, never below zero, and returns the
// points actually removed along with the new balance
func (a *App) DeductZen(amount int) (int, int, error) {
	a.mu.Lock()
	defer a.unlock()
	if amount < 0 {
		return 0, a.wallet.Balance(), fmt.Errorf("%w: %d", zen.ErrInvalidAmount, amount)
	}
	var removed int
	err := a.apply(func() error {
		removed = a.wallet.Penalize(amount)
		return nil
	})
	if err != nil {
		return 0, a.wallet.Balance(), err
	}
	return removed, a.wallet.Balance(), nil
}
