package config

import (
	"Soberlife/services/redis"
	"log"
)

// Connect to Redis
func Connect_redis(cfg *GameConfig) (*redis.RedisClient, error) {
	log.Println("Connecting to Redis at", cfg.RedisURL)
	redisClient, err := redis.InitRedis(cfg.RedisURL, cfg.RedisDB)
	if err != nil {
		return nil, err
	}
	log.Println("Redis connection established")
	return redisClient, nil
}

// ConnectStore returns Redis when reachable and an in-memory store otherwise,
// so the game can always start. The returned close func is never nil.
func ConnectStore(cfg *GameConfig) (redis.KeyValue, func()) {
	redisClient, err := Connect_redis(cfg)
	if err != nil {
		log.Printf("Warning: Redis unavailable (%v), progress will only be kept in memory", err)
		return redis.NewMemoryStore(), func() {}
	}
	return redisClient, func() {
		if err := redis.CloseRedis(redisClient); err != nil {
			log.Printf("Error closing Redis: %v", err)
		}
	}
}
