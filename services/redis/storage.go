package redis

import (
	redis_models "Soberlife/models/redis"
	redis_utils "Soberlife/services/redis/utils"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
)

// Storage reads and writes the game's persisted entries for one profile
type Storage struct {
	kv      KeyValue
	profile string
}

func NewStorage(kv KeyValue, profile string) *Storage {
	return &Storage{kv: kv, profile: profile}
}

func (s *Storage) Profile() string {
	return s.profile
}

func (s *Storage) saveJSON(key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("error marshaling %s: %w", key, err)
	}
	return s.kv.Set(key, string(data))
}

// loadJSON returns found=false when the key does not exist
func (s *Storage) loadJSON(key string, v interface{}) (bool, error) {
	data, err := s.kv.Get(key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal([]byte(data), v); err != nil {
		return false, fmt.Errorf("error unmarshaling %s: %w", key, err)
	}
	return true, nil
}

// SaveAchievements stores the achievement state
// Key format: "soberlife-achievements"
func (s *Storage) SaveAchievements(state redis_models.AchievementState) error {
	return s.saveJSON(redis_utils.FormatAchievementsKey(s.profile), state)
}

// GetAchievements returns nil, nil when nothing has been saved yet
func (s *Storage) GetAchievements() (*redis_models.AchievementState, error) {
	var state redis_models.AchievementState
	found, err := s.loadJSON(redis_utils.FormatAchievementsKey(s.profile), &state)
	if err != nil || !found {
		return nil, err
	}
	return &state, nil
}

// SaveCampaign stores the campaign record
// Key format: "soberlife-campaign"
func (s *Storage) SaveCampaign(state redis_models.CampaignState) error {
	return s.saveJSON(redis_utils.FormatCampaignKey(s.profile), state)
}

// GetCampaign returns nil, nil when nothing has been saved yet
func (s *Storage) GetCampaign() (*redis_models.CampaignState, error) {
	var state redis_models.CampaignState
	found, err := s.loadJSON(redis_utils.FormatCampaignKey(s.profile), &state)
	if err != nil || !found {
		return nil, err
	}
	return &state, nil
}

// SaveProgress writes the campaign record and the achievement state together,
// so a failure never leaves one updated without the other
func (s *Storage) SaveProgress(campaign redis_models.CampaignState, achievements redis_models.AchievementState) error {
	campaignData, err := json.Marshal(campaign)
	if err != nil {
		return fmt.Errorf("error marshaling campaign: %w", err)
	}
	achievementsData, err := json.Marshal(achievements)
	if err != nil {
		return fmt.Errorf("error marshaling achievements: %w", err)
	}
	return s.kv.SetMany(map[string]string{
		redis_utils.FormatCampaignKey(s.profile):     string(campaignData),
		redis_utils.FormatAchievementsKey(s.profile): string(achievementsData),
	})
}

// ClearProgress deletes campaign and achievement state, audio settings stay
func (s *Storage) ClearProgress() error {
	return s.kv.Del(redis_utils.FormatCampaignKey(s.profile), redis_utils.FormatAchievementsKey(s.profile))
}

// SaveAudioPreferences writes each preference as its own stringified entry
func (s *Storage) SaveAudioPreferences(p redis_models.AudioPreferences) error {
	keys := redis_utils.FormatAudioKeys(s.profile)
	values := []string{
		strconv.FormatFloat(p.MusicVolume, 'f', -1, 64),
		strconv.FormatFloat(p.EffectsVolume, 'f', -1, 64),
		strconv.FormatBool(p.MusicMuted),
		strconv.FormatBool(p.EffectsMuted),
	}
	for i, key := range keys {
		if err := s.kv.Set(key, values[i]); err != nil {
			return err
		}
	}
	return nil
}

// GetAudioPreferences always returns usable preferences: entries that are
// missing, unreadable or out of range keep their defaults. The error reports
// a storage failure, if any.
func (s *Storage) GetAudioPreferences() (redis_models.AudioPreferences, error) {
	prefs := redis_models.DefaultAudioPreferences()
	keys := redis_utils.FormatAudioKeys(s.profile)

	var firstErr error
	read := func(key string) (string, bool) {
		value, err := s.kv.Get(key)
		if err != nil {
			if !errors.Is(err, ErrNotFound) && firstErr == nil {
				firstErr = err
			}
			return "", false
		}
		return value, true
	}
	volume := func(key string, into *float64) {
		if raw, ok := read(key); ok {
			if v, err := strconv.ParseFloat(raw, 64); err == nil && v >= 0 && v <= 1 {
				*into = v
			} else {
				log.Printf("[AUDIO] Ignoring invalid %s=%q", key, raw)
			}
		}
	}
	muted := func(key string, into *bool) {
		if raw, ok := read(key); ok {
			if v, err := strconv.ParseBool(raw); err == nil {
				*into = v
			} else {
				log.Printf("[AUDIO] Ignoring invalid %s=%q", key, raw)
			}
		}
	}

	volume(keys[0], &prefs.MusicVolume)
	volume(keys[1], &prefs.EffectsVolume)
	muted(keys[2], &prefs.MusicMuted)
	muted(keys[3], &prefs.EffectsMuted)
	return prefs, firstErr
}
