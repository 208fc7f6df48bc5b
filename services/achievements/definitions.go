package achievements

type Category string

const (
	CategoryCampaign Category = "Campaign"
	CategoryFreePlay Category = "Free Play"
	CategoryWealth   Category = "Wealth"
)

var Categories = []Category{CategoryCampaign, CategoryFreePlay, CategoryWealth}

// UpdateMode decides how a new value is folded into a statistic
type UpdateMode int

const (
	ModeSet   UpdateMode = iota // keep the latest value
	ModeTotal                   // running total
	ModeMax                     // highest value seen
)

// Tracked statistics
const (
	StatCampaignCompleted      = "campaignCompleted"
	StatCampaignTasksCompleted = "campaignTasksCompleted"
	StatUpgradesPurchased      = "upgradesPurchased"
	StatFreePlayTasksTotal     = "freePlayTasksTotal"
	StatFreePlayMaxRun         = "freePlayMaxRun"
	StatZenPointsPeak          = "zenPointsPeak"
)

var statisticModes = map[string]UpdateMode{
	StatCampaignCompleted:      ModeSet,
	StatCampaignTasksCompleted: ModeSet,
	StatUpgradesPurchased:      ModeTotal,
	StatFreePlayTasksTotal:     ModeTotal,
	StatFreePlayMaxRun:         ModeMax,
	StatZenPointsPeak:          ModeMax,
}

func StatisticMode(name string) (UpdateMode, bool) {
	mode, ok := statisticModes[name]
	return mode, ok
}

// Achievement is a milestone: it unlocks once Stat reaches Threshold
type Achievement struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
	Stat        string   `json:"stat"`
	Threshold   int      `json:"threshold"`
}

var Definitions = []Achievement{
	{ID: "campaign_first_task", Name: "First Steps", Description: "Complete your first campaign task",
		Category: CategoryCampaign, Stat: StatCampaignTasksCompleted, Threshold: 1},
	{ID: "campaign_halfway", Name: "Halfway There", Description: "Complete two campaign tasks",
		Category: CategoryCampaign, Stat: StatCampaignTasksCompleted, Threshold: 2},
	{ID: "campaign_complete", Name: "Sober Life", Description: "Complete the campaign",
		Category: CategoryCampaign, Stat: StatCampaignCompleted, Threshold: 1},
	{ID: "campaign_upgrader", Name: "Self Improvement", Description: "Purchase three shop upgrades",
		Category: CategoryCampaign, Stat: StatUpgradesPurchased, Threshold: 3},

	{ID: "freeplay_first_win", Name: "Free Spirit", Description: "Win a free play round",
		Category: CategoryFreePlay, Stat: StatFreePlayTasksTotal, Threshold: 1},
	{ID: "freeplay_ten_wins", Name: "Steady Hands", Description: "Win ten free play rounds",
		Category: CategoryFreePlay, Stat: StatFreePlayTasksTotal, Threshold: 10},
	{ID: "freeplay_streak_3", Name: "On a Roll", Description: "Win three free play rounds in a row",
		Category: CategoryFreePlay, Stat: StatFreePlayMaxRun, Threshold: 3},
	{ID: "freeplay_streak_7", Name: "Flow State", Description: "Win seven free play rounds in a row",
		Category: CategoryFreePlay, Stat: StatFreePlayMaxRun, Threshold: 7},

	{ID: "wealth_100", Name: "Pocket Calm", Description: "Hold 100 zen points",
		Category: CategoryWealth, Stat: StatZenPointsPeak, Threshold: 100},
	{ID: "wealth_500", Name: "Inner Riches", Description: "Hold 500 zen points",
		Category: CategoryWealth, Stat: StatZenPointsPeak, Threshold: 500},
	{ID: "wealth_1000", Name: "Zen Master", Description: "Hold 1000 zen points",
		Category: CategoryWealth, Stat: StatZenPointsPeak, Threshold: 1000},
}

var definitionsByID = func() map[string]Achievement {
	m := make(map[string]Achievement, len(Definitions))
	for _, a := range Definitions {
		m[a.ID] = a
	}
	return m
}()

func Lookup(id string) (Achievement, bool) {
	a, ok := definitionsByID[id]
	return a, ok
}

func ByCategory(category Category) []Achievement {
	var out []Achievement
	for _, a := range Definitions {
		if a.Category == category {
			out = append(out, a)
		}
	}
	return out
}
