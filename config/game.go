package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// GameConfig holds every tunable read from the environment (after .env is loaded)
type GameConfig struct {
	Port     string `env:"PORT" envDefault:"8080"`
	UseHTTPS bool   `env:"USE_HTTPS"`
	// SSL certification for HTTPS
	TLSCertFile string `env:"TLS_CERT_FILE"`
	TLSKeyFile  string `env:"TLS_KEY_FILE"`
	Prod        bool   `env:"PROD"`

	RedisURL string `env:"REDIS_URL" envDefault:"localhost:6379"`
	RedisDB  int    `env:"REDIS_DB" envDefault:"0"`
	Profile  string `env:"SOBERLIFE_PROFILE"`

	SyncPostgres     bool          `env:"SYNC_POSTGRES"`
	MigratePostgres  bool          `env:"MIGRATE_POSTGRES"`
	SyncInterval     time.Duration `env:"SYNC_INTERVAL" envDefault:"5m"`
	PostgresUser     string        `env:"POSTGRES_USER"`
	PostgresPassword string        `env:"POSTGRES_PASSWORD"`
	PostgresHost     string        `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort     string        `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresDatabase string        `env:"POSTGRES_DATABASE" envDefault:"soberlife"`
	VerbosePostgres  bool          `env:"VERBOSE_POSTGRES"`

	SessionKey        string `env:"KEY" envDefault:"soberlife-dev-key"`
	JWTSecret         string `env:"JWT_SECRET"`
	DebugPasswordHash string `env:"DEBUG_PASSWORD_HASH"`

	WinReward       int `env:"ROUND_WIN_REWARD" envDefault:"10"`
	BlackjackReward int `env:"BLACKJACK_REWARD" envDefault:"15"`
	LossStress      int `env:"LOSS_STRESS" envDefault:"20"`
	PushStress      int `env:"PUSH_STRESS" envDefault:"5"`

	NotificationDisplay time.Duration `env:"NOTIFICATION_DISPLAY" envDefault:"5s"`
	NotificationExit    time.Duration `env:"NOTIFICATION_EXIT" envDefault:"350ms"`
	ReadyTimeout        time.Duration `env:"READY_TIMEOUT" envDefault:"10s"`
}

var ErrInvalidConfig = errors.New("invalid game config")

func LoadGameConfig() (*GameConfig, error) {
	var cfg GameConfig
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("error parsing game config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate rejects values the game cannot run with: rewards and stress costs
// are never negative and every interval must be positive
func (c *GameConfig) validate() error {
	var errs []error
	for name, v := range map[string]int{
		"ROUND_WIN_REWARD": c.WinReward,
		"BLACKJACK_REWARD": c.BlackjackReward,
		"LOSS_STRESS":      c.LossStress,
		"PUSH_STRESS":      c.PushStress,
	} {
		if v < 0 {
			errs = append(errs, fmt.Errorf("%w: %s must not be negative, got %d", ErrInvalidConfig, name, v))
		}
	}
	for name, d := range map[string]time.Duration{
		"SYNC_INTERVAL":        c.SyncInterval,
		"NOTIFICATION_DISPLAY": c.NotificationDisplay,
		"READY_TIMEOUT":        c.ReadyTimeout,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%w: %s must be positive, got %s", ErrInvalidConfig, name, d))
		}
	}
	if c.NotificationExit < 0 {
		errs = append(errs, fmt.Errorf("%w: NOTIFICATION_EXIT must not be negative, got %s", ErrInvalidConfig, c.NotificationExit))
	}
	return errors.Join(errs...)
}
