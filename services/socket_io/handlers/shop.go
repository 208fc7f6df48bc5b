package handlers

import (
	game_constants "Soberlife/constants/game"
	"Soberlife/services/game"
	"Soberlife/services/zen"
	"errors"
	"log"

	"github.com/gin-gonic/gin"
)

// HandlePurchaseUpgrade buys from the shop over the socket. The new state
// reaches every client through BroadcastState.
func HandlePurchaseUpgrade(app *game.App, emit Emit, clientID string) func(args ...interface{}) {
	return func(args ...interface{}) {
		if len(args) < 1 {
			emit("error", gin.H{"error": "Missing upgrade kind"})
			return
		}
		kind, ok := args[0].(string)
		if !ok || kind == "" {
			emit("error", gin.H{"error": "Invalid upgrade kind"})
			return
		}

		log.Printf("[SHOP] Client %s buying %s", clientID, kind)
		if err := app.PurchaseUpgrade(kind); err != nil {
			if errors.Is(err, zen.ErrInsufficientFunds) {
				emit("error", gin.H{"error": "Not enough zen points", "kind": kind})
				return
			}
			log.Printf("[SHOP-ERROR] Client %s: %v", clientID, err)
			emit("error", gin.H{"error": err.Error(), "kind": kind})
			return
		}

		emit(game_constants.EVENT_PURCHASE_SUCCESS, gin.H{"kind": kind, "zenPointBalance": app.Snapshot().ZenBalance})
	}
}

// BroadcastState sends every state change, whether it came from an HTTP
// request or a socket event, to all clients
func BroadcastState(broadcast Emit) func(game.Snapshot) {
	return func(s game.Snapshot) {
		broadcast(game_constants.EVENT_STATE_CHANGED, s)
	}
}

// HandleGetState answers with the current snapshot
func HandleGetState(app *game.App, emit Emit) func(args ...interface{}) {
	return func(args ...interface{}) {
		emit(game_constants.EVENT_STATE_CHANGED, app.Snapshot())
	}
}
