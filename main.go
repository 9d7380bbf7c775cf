package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/memberhub/memberhub/internal/api"
	"github.com/memberhub/memberhub/internal/config"
	"github.com/memberhub/memberhub/internal/database"
	"github.com/memberhub/memberhub/internal/logger"
	"github.com/memberhub/memberhub/internal/monitoring"
	"github.com/memberhub/memberhub/internal/services"
	"github.com/memberhub/memberhub/internal/session"
	"github.com/memberhub/memberhub/internal/web"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.Init(cfg.LogLevel, cfg.IsProduction())

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up the session store
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	store, err := session.NewRedisStore(ctx, cfg.RedisURL)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to session store")
	}
	defer store.Close()

	sessions := session.NewManager(store, cfg.SessionTTL, cfg.IsProduction())

	// Set up services
	userService := services.NewUserService(db)
	eventService := services.NewAuthEventService(db)

	renderer, err := web.NewRenderer()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to parse templates")
	}

	// Set up and run the audit retention job
	retention := monitoring.NewRetention(eventService, cfg.AuditRetention)
	if err := retention.Run(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start retention job")
	}

	// Set up router
	router := api.NewRouter(userService, eventService, sessions, renderer, cfg.FrontendOrigin)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	retention.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
