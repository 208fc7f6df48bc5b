package controllers

import (
	"Soberlife/middleware"
	"Soberlife/services/blackjack"
	"Soberlife/services/game"
	"context"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

const debugTokenTTL = 12 * time.Hour

// Syncer pushes the current profile to durable storage
type Syncer interface {
	SyncProfile(ctx context.Context) error
}

// @Summary Logs in to the debug tools
// @Description Checks the operator password against the configured bcrypt hash and returns a bearer token
// @Tags debug
// @Accept x-www-form-urlencoded
// @Produce json
// @Param password formData string true "Operator password"
// @Success 200 {object} object{token=string}
// @Failure 400 {object} object{error=string}
// @Failure 401 {object} object{error=string}
// @Failure 403 {object} object{error=string}
// @Router /debug/login [post]
func DebugLogin(secret []byte, passwordHash string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(secret) == 0 || passwordHash == "" {
			c.JSON(http.StatusForbidden, gin.H{"error": middleware.ErrDebugDisabled.Error()})
			return
		}
		password := c.PostForm("password")
		if strings.TrimSpace(password) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Parameters can't be empty"})
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid password!"})
			return
		}
		token, err := middleware.IssueDebugToken(secret, "operator", debugTokenTTL, time.Now())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not issue token"})
			return
		}
		log.Printf("[DEBUG] Operator logged in from %s", c.ClientIP())
		c.JSON(http.StatusOK, gin.H{"token": token})
	}
}

// @Summary Replaces the deck composition
// @Tags debug
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param composition body blackjack.DeckComposition true "New composition"
// @Success 200 {object} game.Snapshot
// @Failure 400 {object} object{error=string}
// @Router /debug/deck [post]
// @Security ApiKeyAuth
func DebugSetDeck(app *game.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var dc blackjack.DeckComposition
		if err := c.ShouldBindJSON(&dc); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid deck composition"})
			return
		}
		if err := app.SetDeckComposition(dc); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, app.Snapshot())
	}
}

// @Summary Unlocks an achievement without meeting its threshold
// @Tags debug
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param id path string true "Achievement id"
// @Success 200 {object} object{unlocked=bool}
// @Failure 404 {object} object{error=string}
// @Router /debug/unlock/{id} [post]
// @Security ApiKeyAuth
func DebugUnlock(app *game.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		unlocked, err := app.UnlockAchievement(c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"unlocked": unlocked})
	}
}

// @Summary Grants zen points
// @Tags debug
// @Accept x-www-form-urlencoded
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param amount formData int true "Points to add"
// @Success 200 {object} object{zenPointBalance=int}
// @Failure 400 {object} object{error=string}
// @Router /debug/zen [post]
// @Security ApiKeyAuth
func DebugAddZen(app *game.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		amount, err := strconv.Atoi(c.PostForm("amount"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be an integer"})
			return
		}
		balance, err := app.AddZen(amount)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"zenPointBalance": balance})
	}
}

// @Summary Copies the current progress to PostgreSQL
// @Tags debug
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Success 200 {object} object{message=string}
// @Failure 500 {object} object{error=string}
// @Failure 503 {object} object{error=string}
// @Router /debug/sync [post]
// @Security ApiKeyAuth
func DebugSync(syncer Syncer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if syncer == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "PostgreSQL sync is not configured"})
			return
		}
		if err := syncer.SyncProfile(c.Request.Context()); err != nil {
			log.Printf("[SYNC-ERROR] %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Profile synced"})
	}
}
