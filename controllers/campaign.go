package controllers

import (
	"Soberlife/services/campaign"
	"Soberlife/services/game"
	"net/http"
	"strconv"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// Session entry holding the pending reset confirmation
const resetStageKey = "ResetStage"

func loadResetFlow(session sessions.Session) *campaign.ResetFlow {
	flow := &campaign.ResetFlow{}
	if stage, ok := session.Get(resetStageKey).(int); ok {
		flow.Stage = campaign.ResetStage(stage)
	}
	return flow
}

func saveResetFlow(session sessions.Session, flow *campaign.ResetFlow) error {
	if flow.Stage == campaign.ResetIdle {
		session.Delete(resetStageKey)
	} else {
		session.Set(resetStageKey, int(flow.Stage))
	}
	return session.Save()
}

// @Summary Asks to reset the campaign
// @Description Starts the two-step confirmation. Nothing is deleted yet.
// @Tags campaign
// @Produce json
// @Success 200 {object} object{prompt=string}
// @Failure 500 {object} object{error=string}
// @Router /campaign/reset [post]
func RequestReset(app *game.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		flow := loadResetFlow(session)
		prompt := app.RequestReset(flow)
		if err := saveResetFlow(session, flow); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save session"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"prompt": prompt})
	}
}

// @Summary Answers the pending reset prompt
// @Description Progress is only wiped after two acceptances in a row; declining cancels the reset
// @Tags campaign
// @Accept x-www-form-urlencoded
// @Produce json
// @Param accept formData bool true "Answer to the current prompt"
// @Success 200 {object} object{reset=bool,prompt=string}
// @Failure 400 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /campaign/reset/confirm [post]
func ConfirmReset(app *game.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		accept, err := strconv.ParseBool(c.PostForm("accept"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "accept must be true or false"})
			return
		}

		session := sessions.Default(c)
		flow := loadResetFlow(session)
		done, prompt, err := app.ConfirmReset(flow, accept)
		if serr := saveResetFlow(session, flow); serr != nil && err == nil {
			err = serr
		}
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"reset": done, "prompt": prompt})
	}
}
