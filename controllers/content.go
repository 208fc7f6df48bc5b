package controllers

import (
	redis_models "Soberlife/models/redis"
	"Soberlife/services/game"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary Achievements panel
// @Description Overall and per-category progress with every achievement and its state
// @Tags achievements
// @Produce json
// @Success 200 {object} game.AchievementsView
// @Router /achievements [get]
func GetAchievements(app *game.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, app.Achievements())
	}
}

// @Summary Flavor text for a story step
// @Description Any step that is not a valid index gets the fallback text
// @Tags content
// @Produce json
// @Param step path string true "Story step"
// @Success 200 {object} content.Flavor
// @Router /flavor/{step} [get]
func GetFlavor(app *game.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, app.Content().FlavorFor(c.Param("step")))
	}
}

// @Summary Audio preferences
// @Description Invalid or missing entries fall back to defaults
// @Tags audio
// @Produce json
// @Success 200 {object} redis_models.AudioPreferences
// @Router /audio [get]
func GetAudio(app *game.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		prefs, err := app.AudioPreferences()
		if err != nil {
			log.Printf("[AUDIO] Serving defaults, storage error: %v", err)
		}
		c.JSON(http.StatusOK, prefs)
	}
}

// @Summary Saves audio preferences
// @Tags audio
// @Accept json
// @Produce json
// @Param preferences body redis_models.AudioPreferences true "Volumes in [0,1] and mute flags"
// @Success 200 {object} redis_models.AudioPreferences
// @Failure 400 {object} object{error=string}
// @Failure 500 {object} object{error=string}
// @Router /audio [put]
func PutAudio(app *game.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var prefs redis_models.AudioPreferences
		if err := c.ShouldBindJSON(&prefs); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid audio preferences"})
			return
		}
		if prefs.MusicVolume < 0 || prefs.MusicVolume > 1 || prefs.EffectsVolume < 0 || prefs.EffectsVolume > 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Volumes must be between 0 and 1"})
			return
		}
		if err := app.SetAudioPreferences(prefs); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, prefs)
	}
}
