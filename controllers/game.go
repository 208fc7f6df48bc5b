package controllers

import (
	"Soberlife/services/blackjack"
	"Soberlife/services/game"
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary Current game state
// @Description Everything the client renders: view, zen balance, stress, tasks, deck and the current round
// @Tags game
// @Produce json
// @Success 200 {object} game.Snapshot
// @Router /state [get]
func GetState(app *game.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, app.Snapshot())
	}
}

// navigate wraps a plain view transition and answers with the new state
func navigate(app *game.App, action func() error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := action(); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, app.Snapshot())
	}
}

// @Summary Enters campaign mode
// @Tags game
// @Produce json
// @Success 200 {object} game.Snapshot
// @Failure 409 {object} object{error=string}
// @Router /campaign/start [post]
func StartCampaign(app *game.App) gin.HandlerFunc {
	return navigate(app, app.StartCampaign)
}

// @Summary Enters free play mode
// @Tags game
// @Produce json
// @Success 200 {object} game.Snapshot
// @Failure 409 {object} object{error=string}
// @Router /freeplay/start [post]
func StartFreePlay(app *game.App) gin.HandlerFunc {
	return navigate(app, app.StartFreePlay)
}

// @Summary Goes back to the mode selection screen
// @Tags game
// @Produce json
// @Success 200 {object} game.Snapshot
// @Failure 409 {object} object{error=string}
// @Router /mode-select [post]
func ReturnToModeSelect(app *game.App) gin.HandlerFunc {
	return navigate(app, app.ReturnToModeSelect)
}

// playRound answers round actions with the round itself plus the new state
func playRound(app *game.App, action func() (blackjack.Round, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		round, err := action()
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"round": round, "state": app.Snapshot()})
	}
}

// @Summary Deals the next task round
// @Description Deals a new round from the current overview. In campaign mode the round counts toward the current task.
// @Tags round
// @Produce json
// @Success 200 {object} object{round=blackjack.Round,state=game.Snapshot}
// @Failure 409 {object} object{error=string}
// @Router /task/next [post]
func StartNextTask(app *game.App) gin.HandlerFunc {
	return playRound(app, app.StartNextTask)
}

// @Summary Draws a card for the player
// @Tags round
// @Produce json
// @Success 200 {object} object{round=blackjack.Round,state=game.Snapshot}
// @Failure 409 {object} object{error=string}
// @Router /round/hit [post]
func Hit(app *game.App) gin.HandlerFunc {
	return playRound(app, app.Hit)
}

// @Summary Ends the player's turn, the dealer draws to 17
// @Tags round
// @Produce json
// @Success 200 {object} object{round=blackjack.Round,state=game.Snapshot}
// @Failure 409 {object} object{error=string}
// @Router /round/stand [post]
func Stand(app *game.App) gin.HandlerFunc {
	return playRound(app, app.Stand)
}

// @Summary Leaves a finished round
// @Tags round
// @Produce json
// @Success 200 {object} object{view=string,state=game.Snapshot}
// @Failure 409 {object} object{error=string}
// @Router /round/finish [post]
func FinishRound(app *game.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := app.FinishRound()
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"view": view, "state": app.Snapshot()})
	}
}

// @Summary Primary action of the completion screen
// @Description Switches to free play and deals a round straight away
// @Tags round
// @Produce json
// @Success 200 {object} object{round=blackjack.Round,state=game.Snapshot}
// @Failure 409 {object} object{error=string}
// @Router /campaign/try-free-play [post]
func TryFreePlay(app *game.App) gin.HandlerFunc {
	return playRound(app, app.TryFreePlay)
}
