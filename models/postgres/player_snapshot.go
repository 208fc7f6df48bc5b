package postgres

import (
	"time"

	"gorm.io/datatypes"
)

/*
 * 'PlayerSnapshot' is the durable copy of one profile's progress. The raw
 * key-value records are kept as they are so a snapshot can be written back.
 */
type PlayerSnapshot struct {
	Profile              string         `gorm:"primaryKey;size:50;not null"`
	ZenPointBalance      int            `gorm:"default:0"`
	CompletedTasks       int            `gorm:"default:0"`
	CampaignCompleted    bool           `gorm:"default:false"`
	AchievementsUnlocked int            `gorm:"default:0"`
	Campaign             datatypes.JSON `gorm:"type:jsonb;default:'{}'"`
	Achievements         datatypes.JSON `gorm:"type:jsonb;default:'{}'"`
	SyncedAt             time.Time

	Upgrades []UpgradePurchase `gorm:"foreignKey:Profile"`
}

// UpgradePurchase is one row of a profile's shop history
type UpgradePurchase struct {
	ID          uint      `gorm:"primaryKey"`
	Profile     string    `gorm:"size:50;not null;index"`
	Kind        string    `gorm:"size:30;not null"`
	Price       int       `gorm:"not null"`
	PurchasedAt time.Time `gorm:"not null"`
}
