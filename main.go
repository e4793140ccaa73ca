package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"riskcheck/cmd/migration/initialize"
	"riskcheck/cmd/migration/seed"
	"riskcheck/internal/app"
	"riskcheck/internal/handlers"
	"riskcheck/internal/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	log := logger.New("main")

	application, err := app.New()
	if err != nil {
		log.Er("failed to create app", err)
		os.Exit(1)
	}
	defer application.Close()

	if err := initialize.InitializeTables(application.Database.SQL, application.Config, log); err != nil {
		log.Er("failed to initialize tables", err)
		os.Exit(1)
	}

	if application.Config.Environment == "development" {
		if err := seed.Seed(application.Database.SQL, application.Config, log); err != nil {
			log.Er("failed to seed development data", err)
		}
	}

	server := fiber.New(fiber.Config{
		AppName: "riskcheck",
	})

	server.Use(recover.New())
	server.Use(cors.New(cors.Config{
		AllowOriginsFunc: func(origin string) bool { return true },
		AllowCredentials: true,
	}))

	if err := handlers.Router(server, application); err != nil {
		log.Er("failed to register routes", err)
		os.Exit(1)
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Info("shutting down")
		_ = server.Shutdown()
	}()

	addr := fmt.Sprintf(":%d", application.Config.Port)
	log.Info("listening", "addr", addr, "environment", application.Config.Environment)
	if err := server.Listen(addr); err != nil {
		log.Er("server stopped", err)
		os.Exit(1)
	}
}
