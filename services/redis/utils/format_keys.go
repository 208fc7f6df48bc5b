package utils

/**
 * This file contains utility functions to format the keys for the
 * (key, value) pairs. The browser client uses the bare names, so the default
 * profile maps to them unchanged; other profiles get a "profile:{name}:" prefix.
 */

import (
	game_constants "Soberlife/constants/game"
	"fmt"
)

func FormatKey(profile string, key string) string {
	if profile == "" {
		return key
	}
	return fmt.Sprintf("profile:%s:%s", profile, key)
}

func FormatAchievementsKey(profile string) string {
	return FormatKey(profile, game_constants.ACHIEVEMENTS_KEY)
}

func FormatCampaignKey(profile string) string {
	return FormatKey(profile, game_constants.CAMPAIGN_KEY)
}

func FormatAudioKeys(profile string) []string {
	return []string{
		FormatKey(profile, game_constants.MUSIC_VOLUME_KEY),
		FormatKey(profile, game_constants.EFFECTS_VOLUME_KEY),
		FormatKey(profile, game_constants.MUSIC_MUTED_KEY),
		FormatKey(profile, game_constants.EFFECTS_MUTED_KEY),
	}
}
