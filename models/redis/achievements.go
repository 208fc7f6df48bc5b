package redis

// AchievementState is the value stored under "soberlife-achievements"
type AchievementState struct {
	UnlockedAchievements []string         `json:"unlockedAchievements"`
	Statistics           map[string]int   `json:"statistics"`
	UnlockTimestamps     map[string]int64 `json:"unlockTimestamps"` // unix millis
}

func NewAchievementState() AchievementState {
	return AchievementState{
		UnlockedAchievements: []string{},
		Statistics:           map[string]int{},
		UnlockTimestamps:     map[string]int64{},
	}
}
