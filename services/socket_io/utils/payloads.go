package socketio_utils

import (
	game_constants "Soberlife/constants/game"
	"Soberlife/services/achievements"
	"fmt"

	"github.com/gin-gonic/gin"
)

// EventName maps a notification lifecycle event onto its socket.io event
func EventName(kind achievements.EventKind) string {
	switch kind {
	case achievements.EventShown:
		return game_constants.EVENT_ACHIEVEMENT_UNLOCKED
	case achievements.EventDismissing:
		return game_constants.EVENT_NOTIFICATION_DISMISSING
	case achievements.EventRemoved:
		return game_constants.EVENT_NOTIFICATION_REMOVED
	}
	return ""
}

func NotificationPayload(n achievements.Notification) gin.H {
	return gin.H{
		"id":            n.ID,
		"achievementId": n.AchievementID,
		"title":         n.Title,
		"description":   n.Description,
		"category":      n.Category,
		"phase":         n.Phase,
		"shownAt":       n.ShownAt.UnixMilli(),
	}
}

// NotificationID pulls the id out of a dismiss_notification payload, sent
// either as a bare string or as {"id": "..."}
func NotificationID(args []interface{}) (string, error) {
	if len(args) < 1 {
		return "", fmt.Errorf("missing notification id")
	}
	switch v := args[0].(type) {
	case string:
		if v != "" {
			return v, nil
		}
	case map[string]interface{}:
		if id, ok := v["id"].(string); ok && id != "" {
			return id, nil
		}
	}
	return "", fmt.Errorf("invalid notification id: %v", args[0])
}
