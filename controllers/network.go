package controllers

import (
	game_constants "Soberlife/constants/game"
	"Soberlife/services/game"
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary Endpoint just pings the server
// @Description Returns a basic message
// @Tags test
// @Produce json
// @Success 200 {object} object{message=string}
// @Router /ping [get]
func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}

// @Summary Reports whether saved progress has been loaded
// @Description The client must wait for gameFunctionsReady before calling any game action
// @Tags test
// @Produce json
// @Success 200 {object} object{gameFunctionsReady=bool}
// @Failure 503 {object} object{gameFunctionsReady=bool}
// @Router /ready [get]
func Ready(app *game.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !app.IsReady() {
			c.JSON(http.StatusServiceUnavailable, gin.H{game_constants.READY_FLAG_JSON_KEY: false})
			return
		}
		c.JSON(http.StatusOK, gin.H{game_constants.READY_FLAG_JSON_KEY: true})
	}
}
