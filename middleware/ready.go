package middleware

import (
	game_constants "Soberlife/constants/game"
	"net/http"

	"github.com/gin-gonic/gin"
)

// GameReady rejects game actions until saved progress has been loaded
func GameReady(ready func() bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !ready() {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"error":                            "game is still loading",
				game_constants.READY_FLAG_JSON_KEY: false,
			})
			return
		}
		c.Next()
	}
}
