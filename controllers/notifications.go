package controllers

import (
	"Soberlife/services/achievements"
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary Achievement notifications on screen
// @Tags achievements
// @Produce json
// @Success 200 {array} achievements.Notification
// @Router /notifications [get]
func GetNotifications(center *achievements.NotificationCenter) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, center.Active())
	}
}

// @Summary Dismisses a notification before its timer runs out
// @Tags achievements
// @Produce json
// @Param id path string true "Notification id"
// @Success 200 {object} object{message=string}
// @Failure 404 {object} object{error=string}
// @Router /notifications/{id}/dismiss [post]
func DismissNotification(center *achievements.NotificationCenter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !center.Dismiss(c.Param("id")) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found or already closing"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Notification dismissed"})
	}
}
