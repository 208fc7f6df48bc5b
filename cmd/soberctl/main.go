package main

import (
	"Soberlife/config"
	redis_services "Soberlife/services/redis"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	godotenv.Load()

	root := newRootCmd(openStorage)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openStorage connects to the Redis instance the game server uses. Unlike the
// server there is no in-memory fallback: edits made there would be lost on exit.
func openStorage(profile string) (*redis_services.Storage, *config.GameConfig, func(), error) {
	cfg, err := config.LoadGameConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	if profile != "" {
		cfg.Profile = profile
	}
	rc, err := config.Connect_redis(cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("error connecting to Redis at %s: %w", cfg.RedisURL, err)
	}
	closeStore := func() {
		if err := redis_services.CloseRedis(rc); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
	return redis_services.NewStorage(rc, cfg.Profile), cfg, closeStore, nil
}
