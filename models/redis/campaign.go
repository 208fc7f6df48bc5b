package redis

import "encoding/json"

// CampaignState is the value stored under "soberlife-campaign". The zen balance
// lives here too and is shared by campaign and free play.
type CampaignState struct {
	CompletedTasks     []string        `json:"completedTasks"`
	CurrentTaskIndex   int             `json:"currentTaskIndex"`
	ZenPointBalance    int             `json:"zenPointBalance"`
	DeckComposition    json.RawMessage `json:"deckComposition"` // blackjack.DeckComposition
	UnlockedActivities map[string]bool `json:"unlockedActivities"`
	UpgradeHistory     []UpgradeRecord `json:"upgradeHistory"`
	ShopUpgrades       map[string]int  `json:"shopUpgrades"`
	StressLevel        int             `json:"stressLevel"`
	TaskWins           int             `json:"taskWins"`    // wins toward the current task
	FreePlayRun        int             `json:"freePlayRun"` // current free play win streak
	CampaignCompleted  bool            `json:"campaignCompleted"`
}

type UpgradeRecord struct {
	Kind        string `json:"kind"`
	Price       int    `json:"price"`
	PurchasedAt int64  `json:"purchasedAt"` // unix millis
}
