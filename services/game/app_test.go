package game

import (
	game_constants "Soberlife/constants/game"
	"Soberlife/services/achievements"
	"Soberlife/services/blackjack"
	"Soberlife/services/campaign"
	"Soberlife/services/navigation"
	redis_services "Soberlife/services/redis"
	"Soberlife/services/zen"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

type recordingNotifier struct {
	mu  sync.Mutex
	ids []string
}

func (r *recordingNotifier) AchievementUnlocked(a achievements.Achievement, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, a.ID)
}

// flakyStore fails every write while down is set
type flakyStore struct {
	*redis_services.MemoryStore
	down atomic.Bool
}

var errStorageDown = errors.New("storage down")

func newFlakyStore() *flakyStore {
	return &flakyStore{MemoryStore: redis_services.NewMemoryStore()}
}

func (f *flakyStore) Set(key, value string) error {
	if f.down.Load() {
		return errStorageDown
	}
	return f.MemoryStore.Set(key, value)
}

func (f *flakyStore) SetMany(values map[string]string) error {
	if f.down.Load() {
		return errStorageDown
	}
	return f.MemoryStore.SetMany(values)
}

func newTestApp(t *testing.T, kv redis_services.KeyValue) (*App, *recordingNotifier) {
	t.Helper()
	n := &recordingNotifier{}
	app := NewApp(redis_services.NewStorage(kv, ""), Options{
		Notifier: n,
		RNG:      rand.New(rand.NewSource(7)),
	})
	require.NoError(t, app.Load())
	return app, n
}

// stack makes the next round deal cards in order (player, dealer, player, dealer, ...)
func stack(a *App, cards ...blackjack.Card) {
	dc := a.campaign.Deck()
	d := blackjack.NewDeck(dc, rand.New(rand.NewSource(1)))
	d.TotalCards = append(cards, d.TotalCards...)
	a.deck = d
	a.deckFor = dc
}

func card(rank string) blackjack.Card {
	return blackjack.NewCard(rank, "h")
}

// player 19 against dealer 17
func stackWin(a *App) {
	stack(a, card("10"), card("10"), card("9"), card("7"))
}

// player 17 against dealer 19
func stackLoss(a *App) {
	stack(a, card("10"), card("10"), card("7"), card("9"))
}

func winRound(t *testing.T, a *App) navigation.View {
	t.Helper()
	stackWin(a)
	_, err := a.StartNextTask()
	require.NoError(t, err)
	r, err := a.Stand()
	require.NoError(t, err)
	require.Equal(t, blackjack.OutcomeWin, r.Outcome)
	view, err := a.FinishRound()
	require.NoError(t, err)
	return view
}

func TestLoadEmptyStorage(t *testing.T) {
	app, _ := newTestApp(t, redis_services.NewMemoryStore())

	select {
	case <-app.Ready():
	default:
		t.Fatal("app not ready after Load")
	}
	assert.True(t, app.IsReady())

	s := app.Snapshot()
	assert.Equal(t, navigation.ModeSelect, s.View)
	assert.Equal(t, 0, s.ZenBalance)
	assert.Equal(t, game_constants.PRIMARY_ACTION_NEXT_TASK, s.PrimaryAction)
	assert.Equal(t, blackjack.DefaultComposition(), s.Deck)
	assert.Len(t, s.Tasks, 4)
	assert.True(t, s.Tasks[0].Current)
}

func TestLoadCorruptCampaign(t *testing.T) {
	kv := redis_services.NewMemoryStore()
	require.NoError(t, kv.Set(game_constants.CAMPAIGN_KEY, "{not json"))

	app := NewApp(redis_services.NewStorage(kv, ""), Options{})
	assert.Error(t, app.Load())
	assert.True(t, app.IsReady())
	assert.Equal(t, 0, app.Snapshot().ZenBalance)
}

func TestWinningRoundPersists(t *testing.T) {
	kv := redis_services.NewMemoryStore()
	app, _ := newTestApp(t, kv)
	require.NoError(t, app.StartCampaign())

	view := winRound(t, app)
	assert.Equal(t, navigation.CampaignOverview, view)

	stored, err := redis_services.NewStorage(kv, "").GetCampaign()
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, 10, stored.ZenPointBalance)
	assert.Equal(t, 1, stored.TaskWins)
}

func TestLosingRoundAddsStress(t *testing.T) {
	app, _ := newTestApp(t, redis_services.NewMemoryStore())
	require.NoError(t, app.StartCampaign())

	stackLoss(app)
	_, err := app.StartNextTask()
	require.NoError(t, err)
	r, err := app.Stand()
	require.NoError(t, err)
	assert.Equal(t, blackjack.OutcomeLose, r.Outcome)

	s := app.Snapshot()
	assert.Equal(t, 20, s.Stress)
	assert.Equal(t, 0, s.ZenBalance)
}

func TestRoundActionsNeedRound(t *testing.T) {
	app, _ := newTestApp(t, redis_services.NewMemoryStore())
	_, err := app.Hit()
	assert.ErrorIs(t, err, ErrNoRound)
	_, err = app.FinishRound()
	assert.ErrorIs(t, err, ErrNoRound)

	_, err = app.StartNextTask()
	assert.ErrorIs(t, err, navigation.ErrInvalidTransition)

	require.NoError(t, app.StartCampaign())
	stackWin(app)
	_, err = app.StartNextTask()
	require.NoError(t, err)
	_, err = app.FinishRound()
	assert.ErrorIs(t, err, ErrRoundNotOver)
}

func TestBalanceSharedAcrossModesAndReload(t *testing.T) {
	kv := redis_services.NewMemoryStore()
	app, _ := newTestApp(t, kv)

	_, err := app.AddZen(50)
	require.NoError(t, err)

	require.NoError(t, app.StartFreePlay())
	assert.Equal(t, 50, app.Snapshot().ZenBalance)

	require.NoError(t, app.OpenShop())
	_, err = app.CloseShop(navigation.ExitContinue)
	require.NoError(t, err)
	require.NoError(t, app.ReturnToModeSelect())
	require.NoError(t, app.StartCampaign())
	assert.Equal(t, 50, app.Snapshot().ZenBalance)

	reloaded, _ := newTestApp(t, kv)
	s := reloaded.Snapshot()
	assert.Equal(t, 50, s.ZenBalance)
	assert.Equal(t, 50, s.ZenPeak)
}

func TestReloadFromRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	open := func() *redis_services.RedisClient {
		rc, err := redis_services.InitRedis(mr.Addr(), 0)
		require.NoError(t, err)
		t.Cleanup(func() { redis_services.CloseRedis(rc) })
		return rc
	}

	app, _ := newTestApp(t, open())
	require.NoError(t, app.StartCampaign())
	winRound(t, app)
	_, err := app.UnlockAchievement("freeplay_streak_7")
	require.NoError(t, err)

	reloaded, _ := newTestApp(t, open())
	s := reloaded.Snapshot()
	assert.Equal(t, 10, s.ZenBalance)
	assert.Equal(t, 1, s.TaskWins)
	assert.Equal(t, 1, s.Progress.Unlocked)
	assert.True(t, mr.Exists(game_constants.CAMPAIGN_KEY))
	assert.True(t, mr.Exists(game_constants.ACHIEVEMENTS_KEY))
}

func TestPurchaseUpgrade(t *testing.T) {
	app, _ := newTestApp(t, redis_services.NewMemoryStore())
	_, err := app.AddZen(30)
	require.NoError(t, err)

	assert.ErrorIs(t, app.PurchaseUpgrade(game_constants.UPGRADE_EXTRA_CARD), ErrNotInShop)

	require.NoError(t, app.StartCampaign())
	require.NoError(t, app.OpenShop())

	err = app.PurchaseUpgrade(game_constants.UPGRADE_EXTRA_JOKER)
	assert.ErrorIs(t, err, zen.ErrInsufficientFunds)
	s := app.Snapshot()
	assert.Equal(t, 30, s.ZenBalance)
	assert.Equal(t, 0, s.Deck.Jokers)

	require.NoError(t, app.PurchaseUpgrade(game_constants.UPGRADE_EXTRA_CARD))
	s = app.Snapshot()
	assert.Equal(t, 10, s.ZenBalance)
	assert.Equal(t, 49, s.Deck.RegularCards)
	assert.Equal(t, 53, s.Deck.TotalCards)
	assert.Equal(t, 1, s.ShopUpgrades[game_constants.UPGRADE_EXTRA_CARD])
	assert.Equal(t, 1, app.tracker.Statistic(achievements.StatUpgradesPurchased))

	assert.ErrorIs(t, app.PurchaseUpgrade("gold_plated_deck"), ErrUnknownKind)
}

func TestActivities(t *testing.T) {
	app, _ := newTestApp(t, redis_services.NewMemoryStore())
	_, err := app.AddZen(100)
	require.NoError(t, err)
	require.NoError(t, app.StartCampaign())

	require.NoError(t, app.OpenShop())
	require.NoError(t, app.PurchaseUpgrade(game_constants.ACTIVITY_MEDITATION))
	assert.ErrorIs(t, app.PurchaseUpgrade(game_constants.ACTIVITY_MEDITATION), campaign.ErrActivityOwned)
	_, err = app.CloseShop(navigation.ExitCloseShop)
	require.NoError(t, err)
	assert.Equal(t, 25, app.Snapshot().ZenBalance)

	assert.ErrorIs(t, app.PerformActivity(game_constants.ACTIVITY_MEDITATION), ErrNotAvailable)

	app.campaign.AddStress(40)
	require.NoError(t, app.OpenMindPalace())
	require.NoError(t, app.PerformActivity(game_constants.ACTIVITY_MEDITATION))
	assert.ErrorIs(t, app.PerformActivity(game_constants.ACTIVITY_JOURNALING), campaign.ErrActivityLocked)

	s := app.Snapshot()
	assert.Equal(t, 5, s.Stress)
	assert.Equal(t, 15, s.ZenBalance)

	view, err := app.CloseMindPalace(navigation.ExitClose)
	require.NoError(t, err)
	assert.Equal(t, navigation.CampaignOverview, view)
}

func TestResetDeclineLeavesStorageUntouched(t *testing.T) {
	kv := redis_services.NewMemoryStore()
	app, _ := newTestApp(t, kv)
	_, err := app.AddZen(40)
	require.NoError(t, err)
	require.NoError(t, app.StartCampaign())
	winRound(t, app)

	campaignBefore, err := kv.Get(game_constants.CAMPAIGN_KEY)
	require.NoError(t, err)
	achievementsBefore, err := kv.Get(game_constants.ACHIEVEMENTS_KEY)
	require.NoError(t, err)

	var flow campaign.ResetFlow
	assert.Equal(t, campaign.FirstResetPrompt, app.RequestReset(&flow))
	done, prompt, err := app.ConfirmReset(&flow, true)
	require.NoError(t, err)
	assert.False(t, done)
	assert.Equal(t, campaign.SecondResetPrompt, prompt)
	done, _, err = app.ConfirmReset(&flow, false)
	require.NoError(t, err)
	assert.False(t, done)

	campaignAfter, err := kv.Get(game_constants.CAMPAIGN_KEY)
	require.NoError(t, err)
	achievementsAfter, err := kv.Get(game_constants.ACHIEVEMENTS_KEY)
	require.NoError(t, err)
	assert.Equal(t, campaignBefore, campaignAfter)
	assert.Equal(t, achievementsBefore, achievementsAfter)
	assert.Equal(t, 50, app.Snapshot().ZenBalance)
}

func TestResetAccepted(t *testing.T) {
	kv := redis_services.NewMemoryStore()
	app, _ := newTestApp(t, kv)
	_, err := app.AddZen(120)
	require.NoError(t, err)
	require.NoError(t, app.StartCampaign())

	var flow campaign.ResetFlow
	app.RequestReset(&flow)
	_, _, err = app.ConfirmReset(&flow, true)
	require.NoError(t, err)
	done, _, err := app.ConfirmReset(&flow, true)
	require.NoError(t, err)
	assert.True(t, done)

	s := app.Snapshot()
	assert.Equal(t, navigation.ModeSelect, s.View)
	assert.Equal(t, 0, s.ZenBalance)
	assert.Equal(t, 0, s.Progress.Unlocked)

	_, err = kv.Get(game_constants.CAMPAIGN_KEY)
	assert.ErrorIs(t, err, redis_services.ErrNotFound)
}

func TestCampaignCompletionLeadsToFreePlay(t *testing.T) {
	app, notifier := newTestApp(t, redis_services.NewMemoryStore())
	require.NoError(t, app.StartCampaign())

	_, err := app.TryFreePlay()
	assert.ErrorIs(t, err, navigation.ErrInvalidTransition)

	// 2 + 3 + 3 + 4 wins across the four tasks
	var view navigation.View
	for i := 0; i < 12; i++ {
		view = winRound(t, app)
	}
	assert.Equal(t, navigation.CampaignComplete, view)

	s := app.Snapshot()
	assert.True(t, s.Completed)
	assert.Equal(t, game_constants.PRIMARY_ACTION_FREE_PLAY, s.PrimaryAction)
	assert.Equal(t, 12*10+25+40+60+100, s.ZenBalance)
	assert.Contains(t, notifier.ids, "campaign_first_task")
	assert.Contains(t, notifier.ids, "campaign_halfway")
	assert.Contains(t, notifier.ids, "campaign_complete")
	assert.Contains(t, notifier.ids, "wealth_100")
	assert.NotContains(t, notifier.ids, "wealth_500")

	stackWin(app)
	r, err := app.TryFreePlay()
	require.NoError(t, err)
	assert.False(t, r.Over())
	s = app.Snapshot()
	assert.Equal(t, navigation.TaskRound, s.View)
	assert.Equal(t, navigation.ModeFreePlay, s.Mode)

	_, err = app.Stand()
	require.NoError(t, err)
	view, err = app.FinishRound()
	require.NoError(t, err)
	assert.Equal(t, navigation.FreePlayOverview, view)
	assert.Contains(t, notifier.ids, "freeplay_first_win")
}

func TestUnlockNotifiesOnce(t *testing.T) {
	app, notifier := newTestApp(t, redis_services.NewMemoryStore())

	_, err := app.AddZen(100)
	require.NoError(t, err)
	_, err = app.AddZen(1)
	require.NoError(t, err)
	assert.Equal(t, []string{"wealth_100"}, notifier.ids)

	unlocked, err := app.UnlockAchievement("wealth_100")
	require.NoError(t, err)
	assert.False(t, unlocked)

	_, err = app.UnlockAchievement("not_real")
	assert.ErrorIs(t, err, achievements.ErrUnknownAchievement)
}

func TestSetDeckComposition(t *testing.T) {
	app, _ := newTestApp(t, redis_services.NewMemoryStore())

	err := app.SetDeckComposition(blackjack.DeckComposition{Jokers: 1, Aces: 2, RegularCards: 10})
	assert.ErrorIs(t, err, blackjack.ErrInvalidComposition)

	require.NoError(t, app.SetDeckComposition(blackjack.DeckComposition{Jokers: 3, Aces: 4, RegularCards: 48}))
	assert.Equal(t, 55, app.Snapshot().Deck.TotalCards)
}

func TestConcurrentActionsAreSerialized(t *testing.T) {
	app, _ := newTestApp(t, redis_services.NewMemoryStore())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = app.AddZen(2)
			_ = app.Snapshot()
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, app.Snapshot().ZenBalance)
	assert.Equal(t, 100, app.Snapshot().ZenPeak)
}

func TestAchievementsView(t *testing.T) {
	app, _ := newTestApp(t, redis_services.NewMemoryStore())
	_, err := app.UnlockAchievement("wealth_100")
	require.NoError(t, err)

	v := app.Achievements()
	assert.Equal(t, "1 of 11 unlocked (9%)", v.Summary)
	require.Len(t, v.Categories, 3)
	assert.Equal(t, achievements.CategoryWealth, v.Categories[2].Category)
	assert.True(t, v.Categories[2].Achievements[0].Unlocked)
	assert.NotZero(t, v.Categories[2].Achievements[0].UnlockedAt)
}

func TestReturnedRoundIsDetached(t *testing.T) {
	app, _ := newTestApp(t, redis_services.NewMemoryStore())
	require.NoError(t, app.StartCampaign())
	// player 2+3 against dealer 16, then a joker and a 6
	stack(app, card("2"), card("9"), card("3"), card("7"), blackjack.NewJoker(), card("6"))
	_, err := app.StartNextTask()
	require.NoError(t, err)

	held, err := app.Hit()
	require.NoError(t, err)
	require.True(t, held.PlayerHand[2].IsJoker)
	require.Equal(t, 11, held.PlayerHand[2].CurrentValue)

	encoded := make(chan []byte)
	go func() {
		data, _ := json.Marshal(held)
		encoded <- data
	}()
	next, err := app.Hit()
	require.NoError(t, err)
	<-encoded

	// the 6 made the live joker drop to 10, the earlier copy must not follow
	assert.Equal(t, 10, next.PlayerHand[2].CurrentValue)
	assert.Equal(t, 11, held.PlayerHand[2].CurrentValue)
	assert.Len(t, held.PlayerHand, 3)

	snap := app.Snapshot()
	snap.Round.PlayerHand[0].Rank = "K"
	assert.Equal(t, "2", app.Snapshot().Round.PlayerHand[0].Rank)
}

func TestFailedPurchaseSaveRollsBack(t *testing.T) {
	kv := newFlakyStore()
	app, _ := newTestApp(t, kv)
	_, err := app.AddZen(200)
	require.NoError(t, err)
	require.NoError(t, app.StartCampaign())
	require.NoError(t, app.OpenShop())

	kv.down.Store(true)
	err = app.PurchaseUpgrade(game_constants.UPGRADE_EXTRA_JOKER)
	require.ErrorIs(t, err, errStorageDown)

	s := app.Snapshot()
	assert.Equal(t, 200, s.ZenBalance)
	assert.Equal(t, 0, s.Deck.Jokers)
	assert.Empty(t, s.ShopUpgrades)
	assert.Equal(t, 0, app.tracker.Statistic(achievements.StatUpgradesPurchased))

	// the next successful save must not carry the failed purchase along
	kv.down.Store(false)
	require.NoError(t, app.PurchaseUpgrade(game_constants.UPGRADE_EXTRA_ACE))
	stored, err := redis_services.NewStorage(kv, "").GetCampaign()
	require.NoError(t, err)
	assert.Equal(t, 150, stored.ZenPointBalance)
	assert.Len(t, stored.UpgradeHistory, 1)
	assert.Equal(t, 0, stored.ShopUpgrades[game_constants.UPGRADE_EXTRA_JOKER])
}

func TestFailedSettleSaveRollsBack(t *testing.T) {
	kv := newFlakyStore()
	app, n := newTestApp(t, kv)
	require.NoError(t, app.StartCampaign())

	stackWin(app)
	_, err := app.StartNextTask()
	require.NoError(t, err)
	kv.down.Store(true)
	r, err := app.Stand()
	require.ErrorIs(t, err, errStorageDown)
	assert.Equal(t, blackjack.OutcomeWin, r.Outcome)

	s := app.Snapshot()
	assert.Equal(t, 0, s.ZenBalance)
	assert.Equal(t, 0, s.TaskWins)
	assert.Empty(t, n.ids)

	view, err := app.FinishRound()
	require.NoError(t, err)
	assert.Equal(t, navigation.CampaignOverview, view)
}

func TestUnlocksWaitForSave(t *testing.T) {
	kv := newFlakyStore()
	app, n := newTestApp(t, kv)

	kv.down.Store(true)
	_, err := app.AddZen(100)
	require.ErrorIs(t, err, errStorageDown)
	assert.Empty(t, n.ids)
	assert.False(t, app.tracker.IsUnlocked("wealth_100"))

	kv.down.Store(false)
	balance, err := app.AddZen(100)
	require.NoError(t, err)
	assert.Equal(t, 100, balance)
	assert.Equal(t, []string{"wealth_100"}, n.ids)
}

func TestNegativeRewardIsNotPaid(t *testing.T) {
	kv := redis_services.NewMemoryStore()
	app := NewApp(redis_services.NewStorage(kv, ""), Options{
		Rewards: Rewards{Win: -10, Blackjack: 15, LossStress: 20, PushStress: 5},
		RNG:     rand.New(rand.NewSource(7)),
	})
	require.NoError(t, app.Load())
	require.NoError(t, app.StartCampaign())

	stackWin(app)
	_, err := app.StartNextTask()
	require.NoError(t, err)
	_, err = app.Stand()
	require.ErrorIs(t, err, zen.ErrInvalidAmount)

	s := app.Snapshot()
	assert.Equal(t, 0, s.ZenBalance)
	assert.Equal(t, 0, s.TaskWins)
}

func TestDeductZen(t *testing.T) {
	app, _ := newTestApp(t, redis_services.NewMemoryStore())
	_, err := app.AddZen(30)
	require.NoError(t, err)

	removed, balance, err := app.DeductZen(50)
	require.NoError(t, err)
	assert.Equal(t, 30, removed)
	assert.Equal(t, 0, balance)
	assert.Equal(t, 30, app.Snapshot().ZenPeak)

	_, _, err = app.DeductZen(-1)
	assert.ErrorIs(t, err, zen.ErrInvalidAmount)
}

func TestOnChange(t *testing.T) {
	app, _ := newTestApp(t, redis_services.NewMemoryStore())
	var views []navigation.View
	app.OnChange(func(s Snapshot) {
		views = append(views, s.View)
	})

	require.NoError(t, app.StartCampaign())
	assert.ErrorIs(t, app.StartCampaign(), navigation.ErrInvalidTransition)
	winRound(t, app)

	assert.Equal(t, []navigation.View{
		navigation.CampaignOverview,
		navigation.TaskRound, // dealt
		navigation.TaskRound, // settled
		navigation.CampaignOverview,
	}, views)
}
