package routes

import (
	"Soberlife/controllers"
	"Soberlife/middleware"
	"Soberlife/services/achievements"
	"Soberlife/services/game"
	utils "Soberlife/utils"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Deps is everything the HTTP routes need. Syncer may be nil when PostgreSQL
// is not configured.
type Deps struct {
	App               *game.App
	Notifications     *achievements.NotificationCenter
	Syncer            controllers.Syncer
	JWTSecret         []byte
	DebugPasswordHash string
}

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, deps Deps) {
	app := deps.App

	router.Use(utils.ErrorHandler())

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/")

	api.GET("/ping", controllers.Ping)

	api.GET("/ready", controllers.Ready(app))

	api.GET("/flavor/:step", controllers.GetFlavor(app))

	api.GET("/audio", controllers.GetAudio(app))

	api.PUT("/audio", controllers.PutAudio(app))

	api.GET("/notifications", controllers.GetNotifications(deps.Notifications))

	api.POST("/notifications/:id/dismiss", controllers.DismissNotification(deps.Notifications))

	// Everything touching saved progress waits for it to be loaded
	gameRoutes := api.Group("/")
	gameRoutes.Use(middleware.GameReady(app.IsReady))
	{
		gameRoutes.GET("/state", controllers.GetState(app))

		gameRoutes.GET("/achievements", controllers.GetAchievements(app))

		gameRoutes.POST("/campaign/start", controllers.StartCampaign(app))

		gameRoutes.POST("/freeplay/start", controllers.StartFreePlay(app))

		gameRoutes.POST("/mode-select", controllers.ReturnToModeSelect(app))

		gameRoutes.POST("/task/next", controllers.StartNextTask(app))

		gameRoutes.POST("/round/hit", controllers.Hit(app))

		gameRoutes.POST("/round/stand", controllers.Stand(app))

		gameRoutes.POST("/round/finish", controllers.FinishRound(app))

		gameRoutes.POST("/shop/open", controllers.OpenShop(app))

		gameRoutes.POST("/shop/close", controllers.CloseShop(app))

		gameRoutes.POST("/shop/purchase/:kind", controllers.PurchaseUpgrade(app))

		gameRoutes.POST("/mind-palace/open", controllers.OpenMindPalace(app))

		gameRoutes.POST("/mind-palace/close", controllers.CloseMindPalace(app))

		gameRoutes.POST("/activities/:name", controllers.PerformActivity(app))

		gameRoutes.POST("/campaign/reset", controllers.RequestReset(app))

		gameRoutes.POST("/campaign/reset/confirm", controllers.ConfirmReset(app))

		gameRoutes.POST("/campaign/try-free-play", controllers.TryFreePlay(app))
	}

	api.POST("/debug/login", controllers.DebugLogin(deps.JWTSecret, deps.DebugPasswordHash))

	debug := api.Group("/debug")
	debug.Use(middleware.DebugAuthRequired(deps.JWTSecret), middleware.GameReady(app.IsReady))
	{
		debug.POST("/deck", controllers.DebugSetDeck(app))

		debug.POST("/unlock/:id", controllers.DebugUnlock(app))

		debug.POST("/zen", controllers.DebugAddZen(app))

		debug.POST("/sync", controllers.DebugSync(deps.Syncer))
	}
}
