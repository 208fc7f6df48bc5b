package main

import (
	"Soberlife/config"
	_ "Soberlife/config/swagger"
	"Soberlife/middleware"
	"Soberlife/routes"
	"Soberlife/services/achievements"
	"Soberlife/services/game"
	redis_services "Soberlife/services/redis"
	"Soberlife/services/socket_io"
	"Soberlife/sync"
	"Soberlife/utils"
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

// @title Soberlife API
// @version 1.0
// @description Gin-Gonic game server for Soberlife
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	godotenv.Load()
	log.Println("Setting up server...")

	cfg, err := config.LoadGameConfig()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	if cfg.Prod {
		gin.SetMode(gin.ReleaseMode)
	}

	kv, closeStore := config.ConnectStore(cfg)
	defer closeStore()
	storage := redis_services.NewStorage(kv, cfg.Profile)

	center := achievements.NewNotificationCenter(cfg.NotificationDisplay, cfg.NotificationExit)
	defer center.Close()

	app := game.NewApp(storage, game.Options{
		Notifier: center,
		Rewards: game.Rewards{
			Win:        cfg.WinReward,
			Blackjack:  cfg.BlackjackReward,
			LossStress: cfg.LossStress,
			PushStress: cfg.PushStress,
		},
	})
	go func() {
		if err := app.Load(); err != nil {
			log.Printf("Warning: saved progress could not be fully loaded: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	deps := routes.Deps{
		App:               app,
		Notifications:     center,
		JWTSecret:         []byte(cfg.JWTSecret),
		DebugPasswordHash: cfg.DebugPasswordHash,
	}

	// PostgreSQL snapshots are optional
	if cfg.SyncPostgres {
		gormDB, err := config.ConnectGORM(cfg)
		if err != nil {
			log.Printf("Warning: PostgreSQL unavailable, snapshots disabled: %v", err)
		} else {
			if sqlDB, err := gormDB.DB(); err == nil {
				defer sqlDB.Close()
			}
			if cfg.MigratePostgres {
				log.Println("Migrating PostgreSQL database...")
				if err := config.MigrateDatabase(gormDB); err != nil {
					log.Printf("Warning: Database migration failed: %v", err)
				}
			}
			syncManager := sync.NewSyncManager(storage, gormDB)
			deps.Syncer = syncManager
			go syncManager.Run(ctx, cfg.SyncInterval)
		}
	}

	r := gin.New()
	r.Use(utils.Logger(), gin.Recovery())

	middleware.SetUpMiddleware(r, cfg.SessionKey, cfg.UseHTTPS)

	routes.SetupRoutes(r, deps)

	sio := &socket_io.MySocketServer{}
	sio.Start(r, app, center, !cfg.Prod)
	defer sio.Close()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}

	go func() {
		var err error
		if cfg.UseHTTPS {
			err = srv.ListenAndServeTLS(cfg.TLSCertFile, cfg.TLSKeyFile)
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Error starting server: %v", err)
		}
	}()
	log.Printf("Server started on port %s", cfg.Port)

	select {
	case <-app.Ready():
		log.Println("Game ready")
	case <-time.After(cfg.ReadyTimeout):
		log.Println("Warning: still loading saved progress")
	case <-ctx.Done():
	}

	<-ctx.Done()
	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
}
