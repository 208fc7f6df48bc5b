package campaign

import (
	game_constants "Soberlife/constants/game"
	"Soberlife/content"
	redis_models "Soberlife/models/redis"
	"Soberlife/services/blackjack"
	"errors"
	"fmt"
	"time"
)

var (
	ErrUnknownTask        = errors.New("unknown task")
	ErrUnknownActivity    = errors.New("unknown activity")
	ErrActivityLocked     = errors.New("activity is locked")
	ErrActivityOwned      = errors.New("activity already unlocked")
	ErrCampaignIsComplete = errors.New("campaign is already complete")
)

// Campaign tracks progress through the fixed task sequence plus everything the
// player bought along the way.
type Campaign struct {
	content            *content.Content
	completed          map[string]bool
	currentTaskIndex   int
	unlockedActivities map[string]bool
	upgradeHistory     []redis_models.UpgradeRecord
	shopUpgrades       map[string]int
	deck               blackjack.DeckComposition
	stress             int
	taskWins           int
	freePlayRun        int
}

func New(c *content.Content) *Campaign {
	cp := &Campaign{content: c}
	cp.Reset()
	return cp
}

// Reset puts the campaign back to its first-entry state
func (cp *Campaign) Reset() {
	cp.completed = make(map[string]bool)
	cp.currentTaskIndex = 0
	cp.unlockedActivities = make(map[string]bool)
	for _, a := range cp.content.Activities {
		cp.unlockedActivities[a.Name] = a.UnlockPrice == 0
	}
	cp.upgradeHistory = nil
	cp.shopUpgrades = make(map[string]int)
	cp.deck = blackjack.DefaultComposition()
	cp.stress = 0
	cp.taskWins = 0
	cp.freePlayRun = 0
}

func (cp *Campaign) Tasks() []content.Task {
	return cp.content.Tasks
}

func (cp *Campaign) task(id string) (content.Task, bool) {
	for _, t := range cp.content.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return content.Task{}, false
}

// CompleteTask marks id done; it reports false if it already was
func (cp *Campaign) CompleteTask(id string) (bool, error) {
	if _, ok := cp.task(id); !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownTask, id)
	}
	if cp.completed[id] {
		return false, nil
	}
	cp.completed[id] = true
	cp.taskWins = 0
	cp.advance()
	return true, nil
}

func (cp *Campaign) advance() {
	for i, t := range cp.content.Tasks {
		if !cp.completed[t.ID] {
			cp.currentTaskIndex = i
			return
		}
	}
	cp.currentTaskIndex = len(cp.content.Tasks)
}

func (cp *Campaign) IsTaskCompleted(id string) bool {
	return cp.completed[id]
}

func (cp *Campaign) CompletedCount() int {
	return len(cp.completed)
}

// IsComplete is true once every task in the sequence has been completed
func (cp *Campaign) IsComplete() bool {
	for _, t := range cp.content.Tasks {
		if !cp.completed[t.ID] {
			return false
		}
	}
	return true
}

func (cp *Campaign) CurrentTaskIndex() int {
	return cp.currentTaskIndex
}

func (cp *Campaign) CurrentTask() (content.Task, bool) {
	if cp.IsComplete() {
		return content.Task{}, false
	}
	return cp.content.Tasks[cp.currentTaskIndex], true
}

// PrimaryAction is the label of the main button on the campaign overview
func (cp *Campaign) PrimaryAction() string {
	if cp.IsComplete() {
		return game_constants.PRIMARY_ACTION_FREE_PLAY
	}
	return game_constants.PRIMARY_ACTION_NEXT_TASK
}

// RecordTaskWin counts a won hand toward the current task and completes the
// task when its target is reached. The completed task is returned.
func (cp *Campaign) RecordTaskWin() (*content.Task, error) {
	task, ok := cp.CurrentTask()
	if !ok {
		return nil, ErrCampaignIsComplete
	}
	cp.taskWins++
	if cp.taskWins < task.TargetWins {
		return nil, nil
	}
	if _, err := cp.CompleteTask(task.ID); err != nil {
		return nil, err
	}
	return &task, nil
}

func (cp *Campaign) TaskWins() int {
	return cp.taskWins
}

func (cp *Campaign) Stress() int {
	return cp.stress
}

// AddStress raises the stress meter. Hitting the maximum overwhelms the player:
// progress on the current task is lost and the meter starts over.
func (cp *Campaign) AddStress(amount int) (overwhelmed bool) {
	if amount <= 0 {
		return false
	}
	cp.stress += amount
	if cp.stress >= game_constants.MAX_STRESS {
		cp.stress = 0
		cp.taskWins = 0
		return true
	}
	return false
}

func (cp *Campaign) RelieveStress(amount int) {
	cp.stress -= amount
	if cp.stress < 0 {
		cp.stress = 0
	}
}

func (cp *Campaign) IsActivityUnlocked(name string) bool {
	return cp.unlockedActivities[name]
}

// UnlockActivity marks a premium activity as bought
func (cp *Campaign) UnlockActivity(name string) error {
	if _, ok := cp.content.Activity(name); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownActivity, name)
	}
	if cp.unlockedActivities[name] {
		return fmt.Errorf("%w: %q", ErrActivityOwned, name)
	}
	cp.unlockedActivities[name] = true
	return nil
}

// Activity returns an unlocked activity ready to be performed
func (cp *Campaign) Activity(name string) (content.Activity, error) {
	a, ok := cp.content.Activity(name)
	if !ok {
		return content.Activity{}, fmt.Errorf("%w: %q", ErrUnknownActivity, name)
	}
	if !cp.unlockedActivities[name] {
		return content.Activity{}, fmt.Errorf("%w: %q", ErrActivityLocked, name)
	}
	return a, nil
}

func (cp *Campaign) Deck() blackjack.DeckComposition {
	return cp.deck
}

// SetDeck is debug tooling; the composition must still be valid
func (cp *Campaign) SetDeck(dc blackjack.DeckComposition) error {
	dc.TotalCards = dc.Total()
	if err := dc.Validate(); err != nil {
		return err
	}
	cp.deck = dc
	return nil
}

// RecordUpgrade applies a purchased deck upgrade and logs it in the history
func (cp *Campaign) RecordUpgrade(kind string, price int, at time.Time) error {
	dc, err := blackjack.ApplyUpgrade(cp.deck, kind)
	if err != nil {
		return err
	}
	cp.deck = dc
	cp.shopUpgrades[kind]++
	cp.upgradeHistory = append(cp.upgradeHistory, redis_models.UpgradeRecord{
		Kind:        kind,
		Price:       price,
		PurchasedAt: at.UnixMilli(),
	})
	return nil
}

func (cp *Campaign) UpgradeCount(kind string) int {
	return cp.shopUpgrades[kind]
}

// RecordFreePlay updates the free play win streak and returns it
func (cp *Campaign) RecordFreePlay(won bool) int {
	if won {
		cp.freePlayRun++
	} else {
		cp.freePlayRun = 0
	}
	return cp.freePlayRun
}

// State builds the persisted record. The zen balance is owned by the wallet
// and filled in by the caller.
func (cp *Campaign) State() redis_models.CampaignState {
	state := redis_models.CampaignState{
		CompletedTasks:     []string{},
		CurrentTaskIndex:   cp.currentTaskIndex,
		DeckComposition:    cp.deck.ToJSON(),
		UnlockedActivities: make(map[string]bool, len(cp.unlockedActivities)),
		UpgradeHistory:     append([]redis_models.UpgradeRecord{}, cp.upgradeHistory...),
		ShopUpgrades:       make(map[string]int, len(cp.shopUpgrades)),
		StressLevel:        cp.stress,
		TaskWins:           cp.taskWins,
		FreePlayRun:        cp.freePlayRun,
		CampaignCompleted:  cp.IsComplete(),
	}
	// Keep task order stable
	for _, t := range cp.content.Tasks {
		if cp.completed[t.ID] {
			state.CompletedTasks = append(state.CompletedTasks, t.ID)
		}
	}
	for k, v := range cp.unlockedActivities {
		state.UnlockedActivities[k] = v
	}
	for k, v := range cp.shopUpgrades {
		state.ShopUpgrades[k] = v
	}
	return state
}

func (cp *Campaign) Restore(state redis_models.CampaignState) error {
	cp.Reset()

	if len(state.DeckComposition) > 0 {
		dc, err := blackjack.CompositionFromJSON(state.DeckComposition)
		if err != nil {
			return fmt.Errorf("error restoring deck composition: %w", err)
		}
		cp.deck = dc
	}
	for _, id := range state.CompletedTasks {
		if _, ok := cp.task(id); ok {
			cp.completed[id] = true
		}
	}
	for k, v := range state.UnlockedActivities {
		if _, ok := cp.content.Activity(k); ok {
			cp.unlockedActivities[k] = cp.unlockedActivities[k] || v
		}
	}
	for k, v := range state.ShopUpgrades {
		cp.shopUpgrades[k] = v
	}
	cp.upgradeHistory = append(cp.upgradeHistory, state.UpgradeHistory...)
	cp.stress = clamp(state.StressLevel, 0, game_constants.MAX_STRESS-1)
	cp.taskWins = max(state.TaskWins, 0)
	cp.freePlayRun = max(state.FreePlayRun, 0)
	cp.advance()
	return nil
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
