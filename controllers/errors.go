package controllers

import (
	"Soberlife/services/achievements"
	"Soberlife/services/blackjack"
	"Soberlife/services/campaign"
	"Soberlife/services/game"
	"Soberlife/services/navigation"
	"Soberlife/services/zen"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// statusFor maps game errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, zen.ErrInsufficientFunds):
		return http.StatusPaymentRequired
	case errors.Is(err, navigation.ErrInvalidTransition),
		errors.Is(err, game.ErrNoRound),
		errors.Is(err, game.ErrRoundNotOver),
		errors.Is(err, game.ErrNotInShop),
		errors.Is(err, game.ErrNotAvailable),
		errors.Is(err, blackjack.ErrRoundOver),
		errors.Is(err, campaign.ErrActivityOwned),
		errors.Is(err, campaign.ErrActivityLocked),
		errors.Is(err, campaign.ErrCampaignIsComplete),
		errors.Is(err, campaign.ErrNoResetPending):
		return http.StatusConflict
	case errors.Is(err, game.ErrUnknownKind),
		errors.Is(err, campaign.ErrUnknownActivity),
		errors.Is(err, achievements.ErrUnknownAchievement):
		return http.StatusNotFound
	case errors.Is(err, blackjack.ErrInvalidComposition),
		errors.Is(err, zen.ErrInvalidAmount):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("[HTTP-ERROR] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}
	if status == http.StatusPaymentRequired {
		c.JSON(status, gin.H{"error": "Not enough zen points", "detail": err.Error()})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
