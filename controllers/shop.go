package controllers

import (
	"Soberlife/services/game"
	"Soberlife/services/navigation"
	"net/http"

	"github.com/gin-gonic/gin"
)

// closeModal parses the form field "exit" and closes a modal with it
func closeModal(app *game.App, close func(navigation.ExitAction) (navigation.View, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		exit, err := navigation.ParseExitAction(c.PostForm("exit"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		view, err := close(exit)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"view": view, "state": app.Snapshot()})
	}
}

// @Summary Opens the shop from the current overview
// @Tags shop
// @Produce json
// @Success 200 {object} game.Snapshot
// @Failure 409 {object} object{error=string}
// @Router /shop/open [post]
func OpenShop(app *game.App) gin.HandlerFunc {
	return navigate(app, app.OpenShop)
}

// @Summary Closes the shop
// @Description Every exit returns to the overview the shop was opened from
// @Tags shop
// @Accept x-www-form-urlencoded
// @Produce json
// @Param exit formData string false "close, continue or close_shop"
// @Success 200 {object} object{view=string,state=game.Snapshot}
// @Failure 400 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /shop/close [post]
func CloseShop(app *game.App) gin.HandlerFunc {
	return closeModal(app, app.CloseShop)
}

// @Summary Buys a deck upgrade or unlocks an activity
// @Tags shop
// @Produce json
// @Param kind path string true "extra_joker, extra_ace, extra_card or an activity name"
// @Success 200 {object} game.Snapshot
// @Failure 402 {object} object{error=string,detail=string}
// @Failure 404 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /shop/purchase/{kind} [post]
func PurchaseUpgrade(app *game.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := app.PurchaseUpgrade(c.Param("kind")); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, app.Snapshot())
	}
}

// @Summary Opens the mind palace from the current overview
// @Tags mind-palace
// @Produce json
// @Success 200 {object} game.Snapshot
// @Failure 409 {object} object{error=string}
// @Router /mind-palace/open [post]
func OpenMindPalace(app *game.App) gin.HandlerFunc {
	return navigate(app, app.OpenMindPalace)
}

// @Summary Closes the mind palace
// @Tags mind-palace
// @Accept x-www-form-urlencoded
// @Produce json
// @Param exit formData string false "close or continue"
// @Success 200 {object} object{view=string,state=game.Snapshot}
// @Failure 409 {object} object{error=string}
// @Router /mind-palace/close [post]
func CloseMindPalace(app *game.App) gin.HandlerFunc {
	return closeModal(app, app.CloseMindPalace)
}

// @Summary Performs a stress relief activity
// @Tags mind-palace
// @Produce json
// @Param name path string true "Activity name"
// @Success 200 {object} game.Snapshot
// @Failure 402 {object} object{error=string,detail=string}
// @Failure 409 {object} object{error=string}
// @Router /activities/{name} [post]
func PerformActivity(app *game.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := app.PerformActivity(c.Param("name")); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, app.Snapshot())
	}
}
