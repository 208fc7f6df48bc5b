package game_constants

import "time"

// Persisted key-value entries. These names are shared with the browser client
// and must not change.
const (
	ACHIEVEMENTS_KEY    = "soberlife-achievements"
	CAMPAIGN_KEY        = "soberlife-campaign"
	MUSIC_VOLUME_KEY    = "soberlife_music_volume"
	EFFECTS_VOLUME_KEY  = "soberlife_effects_volume"
	MUSIC_MUTED_KEY     = "soberlife_music_muted"
	EFFECTS_MUTED_KEY   = "soberlife_effects_muted"
	READY_FLAG_JSON_KEY = "gameFunctionsReady"
)

// Blackjack
const BLACKJACK = 21
const DEALER_STANDS_ON = 17
const JOKER_MIN_VALUE = 1
const JOKER_MAX_VALUE = 11
const INITIAL_HAND_SIZE = 2

// Base deck: 4 aces + 48 regular cards
const BASE_ACES = 4
const BASE_REGULAR_CARDS = 48
const BASE_DECK_SIZE = BASE_ACES + BASE_REGULAR_CARDS

// Shop upgrade kinds
const (
	UPGRADE_EXTRA_JOKER = "extra_joker"
	UPGRADE_EXTRA_ACE   = "extra_ace"
	UPGRADE_EXTRA_CARD  = "extra_card"
)

// Activities
const (
	ACTIVITY_BREATHING  = "breathing"
	ACTIVITY_MEDITATION = "meditation"
	ACTIVITY_JOURNALING = "journaling"
)

// Stress meter
const MAX_STRESS = 100

// Notification timings (client animation is 350ms)
const NOTIFICATION_DISPLAY = 5 * time.Second
const NOTIFICATION_EXIT = 350 * time.Millisecond

// Primary action labels on the campaign overview
const (
	PRIMARY_ACTION_NEXT_TASK = "Start Next Task"
	PRIMARY_ACTION_FREE_PLAY = "Try Free Play Mode"
)

// Socket.io events
const (
	EVENT_ACHIEVEMENT_UNLOCKED    = "achievement_unlocked"
	EVENT_NOTIFICATION_DISMISSING = "notification_dismissing"
	EVENT_NOTIFICATION_REMOVED    = "notification_removed"
	EVENT_DISMISS_NOTIFICATION    = "dismiss_notification"
	EVENT_STATE_CHANGED           = "state_changed"
	EVENT_GET_STATE               = "get_state"
	EVENT_PURCHASE_UPGRADE        = "purchase_upgrade"
	EVENT_PURCHASE_SUCCESS        = "purchase_success"
)
