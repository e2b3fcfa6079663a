package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dispatch/cmd"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

func main() {
	// .env is optional; real environments set variables directly.
	_ = godotenv.Load(".env")
	config := cmd.NewConfigFromEnv()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	root, err := cmd.NewCompositionRoot(config, logger)
	if err != nil {
		log.Fatalf("composition failed: %v", err)
	}
	if err := root.Simulator().Start(); err != nil {
		log.Fatalf("starting movement simulation failed: %v", err)
	}

	e := echo.New()
	e.HideBanner = true
	root.HTTPServer().RegisterRoutes(e)

	go func() {
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", config.HTTPPort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.Logger.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	if err := root.Simulator().Stop(); err != nil {
		logger.Warn("stopping movement simulation", "error", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		e.Logger.Fatal(err)
	}
}
