package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"cards_api/internal/config"
	"cards_api/internal/handlers"
	"cards_api/internal/logger"
	"cards_api/internal/repository"
	"cards_api/internal/server"
	"cards_api/internal/service"
)

// @title        Cards API
// @version      1.0
// @description  Card collection CRUD behind a token gate.
// @BasePath     /
// @securityDefinitions.apikey ApiKeyAuth
// @in           header
// @name         Authorization
func main() {
	boot := logger.Get(logger.InfoLevel)

	// .env first so its values are visible to config overrides
	if err := config.LoadDotEnv(); err != nil {
		boot.Fatalw("error reading .env", "err", err)
	}
	cfg, err := config.Load()
	if err != nil {
		boot.Fatalw("error reading config", "err", err)
	}

	log := logger.New(cfg.LogLevel)
	defer log.Sync()

	users, err := repository.LoadUsers(cfg.UsersPath)
	if err != nil {
		log.Fatalw("failed to load users", "path", cfg.UsersPath, "err", err)
	}
	log.Infow("users_loaded", "count", users.Len(), "path", cfg.UsersPath)

	// wire dependencies
	repos := repository.NewRepository(cfg.CardsPath, users, log)
	services, err := service.NewService(repos, cfg.JWTSecret)
	if err != nil {
		log.Fatalw("failed to init services", "err", err)
	}
	apiHandler := handlers.NewHandler(services, log, handlers.Options{
		TokenRateLimit:  cfg.TokenRateLimit,
		TokenRateWindow: cfg.TokenRateWindow,
		AllowedOrigins:  cfg.AllowedOrigins,
	})

	srv := &server.Server{}
	runHTTPServer(srv, cfg.Port, apiHandler, log)

	waitForShutdown(srv, log)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		log.Infow("server_listening", "port", port)
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown blocks until SIGINT/SIGTERM and then drains the server.
func waitForShutdown(srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
