package handlers

import (
	game_constants "Soberlife/constants/game"
	"Soberlife/services/achievements"
	socketio_types "Soberlife/services/socket_io/types"
	socketio_utils "Soberlife/services/socket_io/utils"
	"log"

	"github.com/gin-gonic/gin"
)

// Emit sends one event to the client that triggered a handler
type Emit func(event string, payload interface{})

// HandleDismissNotification closes a notification early. Dismissing one that is
// already closing is ignored.
func HandleDismissNotification(center *achievements.NotificationCenter, emit Emit, clientID string) func(args ...interface{}) {
	return func(args ...interface{}) {
		id, err := socketio_utils.NotificationID(args)
		if err != nil {
			log.Printf("[NOTIFICATION-ERROR] Client %s: %v", clientID, err)
			emit("error", gin.H{"error": err.Error()})
			return
		}
		if !center.Dismiss(id) {
			log.Printf("[NOTIFICATION] Client %s dismissed %s, already closing or gone", clientID, id)
			return
		}
		log.Printf("[NOTIFICATION] Client %s dismissed %s", clientID, id)
	}
}

// HandleSync sends the notifications already on screen to a fresh client
func HandleSync(center *achievements.NotificationCenter, emit Emit) func(args ...interface{}) {
	return func(args ...interface{}) {
		for _, n := range center.Active() {
			event := game_constants.EVENT_ACHIEVEMENT_UNLOCKED
			if n.Phase == achievements.PhaseExiting {
				event = game_constants.EVENT_NOTIFICATION_DISMISSING
			}
			emit(event, socketio_utils.NotificationPayload(n))
		}
	}
}

func HandleDisconnecting(clientID string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		sio.RemoveConnection(clientID)
		log.Printf("[DISCONNECT] Client %s left, %d connected", clientID, sio.ConnectionCount())
	}
}
