package sync

import (
	"Soberlife/models/postgres"
	redis_models "Soberlife/models/redis"
	redis_services "Soberlife/services/redis"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrNoProgress = errors.New("no saved progress for profile")

// SyncManager copies a profile's key-value progress into PostgreSQL and back
type SyncManager struct {
	storage *redis_services.Storage
	db      *gorm.DB
	now     func() time.Time
}

// NewSyncManager creates a new instance of the synchronization manager
func NewSyncManager(storage *redis_services.Storage, db *gorm.DB) *SyncManager {
	return &SyncManager{storage: storage, db: db, now: time.Now}
}

func (sm *SyncManager) load(ctx context.Context) (*redis_models.CampaignState, *redis_models.AchievementState, error) {
	var (
		campaign     *redis_models.CampaignState
		achievements *redis_models.AchievementState
	)
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		campaign, err = sm.storage.GetCampaign()
		return err
	})
	g.Go(func() (err error) {
		achievements, err = sm.storage.GetAchievements()
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("error reading progress from storage: %w", err)
	}
	return campaign, achievements, nil
}

// SyncProfile writes the current progress of the storage's profile to PostgreSQL
func (sm *SyncManager) SyncProfile(ctx context.Context) error {
	campaign, achievements, err := sm.load(ctx)
	if err != nil {
		return err
	}
	if campaign == nil && achievements == nil {
		return ErrNoProgress
	}
	if campaign == nil {
		campaign = &redis_models.CampaignState{}
	}
	if achievements == nil {
		state := redis_models.NewAchievementState()
		achievements = &state
	}

	campaignJSON, err := json.Marshal(campaign)
	if err != nil {
		return fmt.Errorf("error encoding campaign: %w", err)
	}
	achievementsJSON, err := json.Marshal(achievements)
	if err != nil {
		return fmt.Errorf("error encoding achievements: %w", err)
	}

	profile := sm.profileName()
	snapshot := postgres.PlayerSnapshot{
		Profile:              profile,
		ZenPointBalance:      campaign.ZenPointBalance,
		CompletedTasks:       len(campaign.CompletedTasks),
		CampaignCompleted:    campaign.CampaignCompleted,
		AchievementsUnlocked: len(achievements.UnlockedAchievements),
		Campaign:             datatypes.JSON(campaignJSON),
		Achievements:         datatypes.JSON(achievementsJSON),
		SyncedAt:             sm.now(),
	}

	upgrades := make([]postgres.UpgradePurchase, 0, len(campaign.UpgradeHistory))
	for _, u := range campaign.UpgradeHistory {
		upgrades = append(upgrades, postgres.UpgradePurchase{
			Profile:     profile,
			Kind:        u.Kind,
			Price:       u.Price,
			PurchasedAt: time.UnixMilli(u.PurchasedAt),
		})
	}

	err = sm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Omit("Upgrades").Create(&snapshot).Error; err != nil {
			return fmt.Errorf("error saving snapshot: %w", err)
		}
		if err := tx.Where("profile = ?", profile).Delete(&postgres.UpgradePurchase{}).Error; err != nil {
			return fmt.Errorf("error clearing upgrade history: %w", err)
		}
		if len(upgrades) > 0 {
			if err := tx.Create(&upgrades).Error; err != nil {
				return fmt.Errorf("error saving upgrade history: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Printf("[SYNC] Profile %q synced: %d zen, %d tasks, %d achievements",
		profile, snapshot.ZenPointBalance, snapshot.CompletedTasks, snapshot.AchievementsUnlocked)
	return nil
}

// LoadSnapshot reads the stored snapshot of a profile with its upgrade history
func (sm *SyncManager) LoadSnapshot(ctx context.Context, profile string) (*postgres.PlayerSnapshot, error) {
	var snapshot postgres.PlayerSnapshot
	err := sm.db.WithContext(ctx).Preload("Upgrades").Where("profile = ?", profile).First(&snapshot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoProgress
	}
	if err != nil {
		return nil, fmt.Errorf("error loading snapshot: %w", err)
	}
	return &snapshot, nil
}

// RestoreProfile writes the PostgreSQL snapshot back into key-value storage.
// The game server must be restarted to pick it up.
func (sm *SyncManager) RestoreProfile(ctx context.Context) error {
	snapshot, err := sm.LoadSnapshot(ctx, sm.profileName())
	if err != nil {
		return err
	}

	var campaign redis_models.CampaignState
	if err := json.Unmarshal(snapshot.Campaign, &campaign); err != nil {
		return fmt.Errorf("error decoding campaign snapshot: %w", err)
	}
	var achievements redis_models.AchievementState
	if err := json.Unmarshal(snapshot.Achievements, &achievements); err != nil {
		return fmt.Errorf("error decoding achievements snapshot: %w", err)
	}

	if err := sm.storage.SaveProgress(campaign, achievements); err != nil {
		return err
	}
	log.Printf("[SYNC] Profile %q restored from snapshot taken %s", snapshot.Profile, snapshot.SyncedAt.Format(time.RFC3339))
	return nil
}

// Run syncs every interval until ctx is cancelled
func (sm *SyncManager) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		log.Printf("[SYNC-ERROR] Periodic sync disabled, interval %s is not positive", interval)
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := sm.SyncProfile(ctx); err != nil && !errors.Is(err, ErrNoProgress) {
				log.Printf("[SYNC-ERROR] %v", err)
			}
		}
	}
}

func (sm *SyncManager) profileName() string {
	if p := sm.storage.Profile(); p != "" {
		return p
	}
	return "default"
}
