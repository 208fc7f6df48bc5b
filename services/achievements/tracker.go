package achievements

import (
	redis_models "Soberlife/models/redis"
	"errors"
	"fmt"
	"log"
	"math"
	"time"
)

var (
	ErrUnknownStatistic   = errors.New("unknown statistic")
	ErrUnknownAchievement = errors.New("unknown achievement")
)

// Notifier is told about every unlock, exactly once per achievement
type Notifier interface {
	AchievementUnlocked(a Achievement, at time.Time)
}

// Tracker evaluates milestones against statistics. An unlocked achievement
// stays unlocked; there is no way back to locked short of Reset.
type Tracker struct {
	statistics map[string]int
	unlockedAt map[string]int64
	order      []string
	notifier   Notifier
	now        func() time.Time
}

func NewTracker(notifier Notifier) *Tracker {
	return &Tracker{
		statistics: make(map[string]int),
		unlockedAt: make(map[string]int64),
		notifier:   notifier,
		now:        time.Now,
	}
}

// UpdateStatistic folds value into the named statistic using the statistic's
// own update mode and returns the resulting value.
func (t *Tracker) UpdateStatistic(name string, value int) (int, error) {
	mode, ok := StatisticMode(name)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownStatistic, name)
	}

	current := t.statistics[name]
	switch mode {
	case ModeSet:
		current = value
	case ModeTotal:
		current += value
	case ModeMax:
		if value > current {
			current = value
		}
	}
	t.statistics[name] = current
	return current, nil
}

func (t *Tracker) Statistic(name string) int {
	return t.statistics[name]
}

func (t *Tracker) IsUnlocked(id string) bool {
	_, ok := t.unlockedAt[id]
	return ok
}

// CheckAchievement unlocks id if its threshold has been reached. It reports
// whether this call performed the unlock.
func (t *Tracker) CheckAchievement(id string) (bool, error) {
	a, ok := Lookup(id)
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownAchievement, id)
	}
	if t.IsUnlocked(id) || t.statistics[a.Stat] < a.Threshold {
		return false, nil
	}
	t.unlock(a)
	return true, nil
}

// CheckMilestones records value for stat and returns the achievements it unlocked
func (t *Tracker) CheckMilestones(stat string, value int) ([]Achievement, error) {
	if _, err := t.UpdateStatistic(stat, value); err != nil {
		return nil, err
	}

	var unlocked []Achievement
	for _, a := range Definitions {
		if a.Stat != stat {
			continue
		}
		if ok, _ := t.CheckAchievement(a.ID); ok {
			unlocked = append(unlocked, a)
		}
	}
	return unlocked, nil
}

// CheckAll evaluates every definition, useful after loading persisted state
func (t *Tracker) CheckAll() []Achievement {
	var unlocked []Achievement
	for _, a := range Definitions {
		if ok, _ := t.CheckAchievement(a.ID); ok {
			unlocked = append(unlocked, a)
		}
	}
	return unlocked
}

// UnlockAchievement skips the threshold check. Unlocking twice is a no-op.
func (t *Tracker) UnlockAchievement(id string) (bool, error) {
	a, ok := Lookup(id)
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownAchievement, id)
	}
	if t.IsUnlocked(id) {
		return false, nil
	}
	t.unlock(a)
	return true, nil
}

func (t *Tracker) unlock(a Achievement) {
	at := t.now()
	t.unlockedAt[a.ID] = at.UnixMilli()
	t.order = append(t.order, a.ID)
	log.Printf("[ACHIEVEMENT] Unlocked %s (%s)", a.ID, a.Name)

	if t.notifier != nil {
		t.notifier.AchievementUnlocked(a, at)
	}
}

// Progress is the "2 of 11 unlocked" summary
type Progress struct {
	Unlocked int `json:"unlocked"`
	Total    int `json:"total"`
	Percent  int `json:"percent"`
}

func NewProgress(unlocked, total int) Progress {
	p := Progress{Unlocked: unlocked, Total: total}
	if total > 0 {
		p.Percent = int(math.Round(float64(unlocked) * 100 / float64(total)))
	}
	return p
}

func (p Progress) PercentString() string {
	return fmt.Sprintf("%d%%", p.Percent)
}

func (p Progress) String() string {
	return fmt.Sprintf("%d of %d unlocked (%s)", p.Unlocked, p.Total, p.PercentString())
}

func (t *Tracker) Progress() Progress {
	return NewProgress(len(t.unlockedAt), len(Definitions))
}

func (t *Tracker) CategoryProgress(category Category) Progress {
	defs := ByCategory(category)
	unlocked := 0
	for _, a := range defs {
		if t.IsUnlocked(a.ID) {
			unlocked++
		}
	}
	return NewProgress(unlocked, len(defs))
}

func (t *Tracker) State() redis_models.AchievementState {
	state := redis_models.NewAchievementState()
	state.UnlockedAchievements = append(state.UnlockedAchievements, t.order...)
	for k, v := range t.statistics {
		state.Statistics[k] = v
	}
	for k, v := range t.unlockedAt {
		state.UnlockTimestamps[k] = v
	}
	return state
}

// Restore replaces the tracker's contents without emitting notifications.
// Unknown ids and statistics are dropped.
func (t *Tracker) Restore(state redis_models.AchievementState) {
	t.Reset()
	for k, v := range state.Statistics {
		if _, ok := StatisticMode(k); ok {
			t.statistics[k] = v
		}
	}
	for _, id := range state.UnlockedAchievements {
		if _, ok := Lookup(id); !ok || t.IsUnlocked(id) {
			continue
		}
		ts, ok := state.UnlockTimestamps[id]
		if !ok {
			ts = t.now().UnixMilli()
		}
		t.unlockedAt[id] = ts
		t.order = append(t.order, id)
	}
}

func (t *Tracker) Reset() {
	t.statistics = make(map[string]int)
	t.unlockedAt = make(map[string]int64)
	t.order = nil
}
