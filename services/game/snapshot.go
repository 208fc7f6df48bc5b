package game

import (
	game_constants "Soberlife/constants/game"
	"Soberlife/content"
	"Soberlife/services/achievements"
	"Soberlife/services/blackjack"
	"Soberlife/services/navigation"
)

type TaskView struct {
	content.Task
	Completed bool `json:"completed"`
	Current   bool `json:"current"`
}

type ActivityView struct {
	content.Activity
	Unlocked bool `json:"unlocked"`
}

type AchievementView struct {
	achievements.Achievement
	Unlocked   bool  `json:"unlocked"`
	UnlockedAt int64 `json:"unlockedAt,omitempty"`
	Value      int   `json:"value"`
}

type CategoryView struct {
	Category     achievements.Category `json:"category"`
	Progress     achievements.Progress `json:"progress"`
	Achievements []AchievementView     `json:"achievements"`
}

// AchievementsView backs the achievements panel
type AchievementsView struct {
	Progress   achievements.Progress `json:"progress"`
	Summary    string                `json:"summary"`
	Categories []CategoryView        `json:"categories"`
}

// Snapshot is a read-only copy of everything the client renders
type Snapshot struct {
	View          navigation.View           `json:"view"`
	Mode          navigation.Mode           `json:"mode"`
	Origin        navigation.View           `json:"origin,omitempty"`
	ZenBalance    int                       `json:"zenPointBalance"`
	ZenPeak       int                       `json:"zenPointsPeak"`
	Stress        int                       `json:"stressLevel"`
	MaxStress     int                       `json:"maxStress"`
	Tasks         []TaskView                `json:"tasks"`
	TaskWins      int                       `json:"taskWins"`
	Completed     bool                      `json:"campaignCompleted"`
	PrimaryAction string                    `json:"primaryAction"`
	Deck          blackjack.DeckComposition `json:"deckComposition"`
	ShopUpgrades  map[string]int            `json:"shopUpgrades"`
	Activities    []ActivityView            `json:"activities"`
	Round         *blackjack.Round          `json:"round,omitempty"`
	Progress      achievements.Progress     `json:"achievementProgress"`
}

func (a *App) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshotLocked()
}

func (a *App) snapshotLocked() Snapshot {
	state := a.campaign.State()
	current, hasCurrent := a.campaign.CurrentTask()

	s := Snapshot{
		View:          a.nav.View(),
		Mode:          a.nav.Mode(),
		Origin:        a.nav.Origin(),
		ZenBalance:    a.wallet.Balance(),
		ZenPeak:       a.wallet.Peak(),
		Stress:        a.campaign.Stress(),
		MaxStress:     game_constants.MAX_STRESS,
		TaskWins:      a.campaign.TaskWins(),
		Completed:     a.campaign.IsComplete(),
		PrimaryAction: a.campaign.PrimaryAction(),
		Deck:          a.campaign.Deck(),
		ShopUpgrades:  state.ShopUpgrades,
		Progress:      a.tracker.Progress(),
	}
	for _, t := range a.campaign.Tasks() {
		s.Tasks = append(s.Tasks, TaskView{
			Task:      t,
			Completed: a.campaign.IsTaskCompleted(t.ID),
			Current:   hasCurrent && t.ID == current.ID,
		})
	}
	for _, act := range a.content.Activities {
		s.Activities = append(s.Activities, ActivityView{Activity: act, Unlocked: a.campaign.IsActivityUnlocked(act.Name)})
	}
	if a.round != nil {
		r := a.round.Clone()
		s.Round = &r
	}
	return s
}

func (a *App) Achievements() AchievementsView {
	a.mu.Lock()
	defer a.mu.Unlock()

	state := a.tracker.State()
	progress := a.tracker.Progress()
	v := AchievementsView{Progress: progress, Summary: progress.String()}
	for _, cat := range achievements.Categories {
		cv := CategoryView{Category: cat, Progress: a.tracker.CategoryProgress(cat)}
		for _, def := range achievements.ByCategory(cat) {
			cv.Achievements = append(cv.Achievements, AchievementView{
				Achievement: def,
				Unlocked:    a.tracker.IsUnlocked(def.ID),
				UnlockedAt:  state.UnlockTimestamps[def.ID],
				Value:       a.tracker.Statistic(def.Stat),
			})
		}
		v.Categories = append(v.Categories, cv)
	}
	return v
}
