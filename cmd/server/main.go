package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "legumes/docs" // swagger docs

	"github.com/labstack/echo/v4"

	"legumes/internal/app"
	"legumes/internal/config"
	"legumes/internal/handler"
	"legumes/internal/logging"
	"legumes/internal/router"
)

// @title Legumes API
// @version 1.0
// @description User provisioning and vendor directory for the Legumes marketplace.
// @host localhost:8080
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.
func main() {
	cfg := config.Load()
	log := logging.New("legumes-api", cfg.LogLevel)
	ctx := context.Background()

	if err := cfg.Validate(); err != nil {
		log.Error(ctx, "invalid configuration", "error", err)
		os.Exit(1)
	}

	backends, err := app.Open(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "backend init", "error", err)
		os.Exit(1)
	}
	defer backends.Close()

	services, err := app.NewServices(ctx, cfg, backends, log)
	if err != nil {
		log.Error(ctx, "service init", "error", err)
		os.Exit(1)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Register routes
	router.Register(
		e,
		cfg,
		log,
		services.Guard,
		backends.Cache,
		handler.NewAuthHandler(services.Auth),
		handler.NewUserHandler(services.Provisioning),
		handler.NewVendorHandler(services.Vendors, services.Photos),
	)

	addr := ":" + cfg.ServerPort
	go func() {
		log.Info(ctx, "server listening", "addr", addr, "swagger", "/swagger/index.html")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "server start", "error", err)
			os.Exit(1)
		}
	}()

	stop, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()
	<-stop.Done()

	shutdownCtx, cancelShutdown := context.WithTimeout(ctx, 10*time.Second)
	defer cancelShutdown()
	log.Info(ctx, "shutting down")
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "shutdown", "error", err)
	}
}
