package main

import (
	"log"
	"trademaster/config"
	"trademaster/database"
	"trademaster/routers"
	"trademaster/utils"
	"trademaster/utils/logger"
)

func main() {
	config.LoadConfig()
	if err := logger.InitLogger(config.AppConfig.AppEnv); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Log.Sync()

	database.ConnectDb()

	scheduler, err := utils.InitializeCleanupScheduler()
	if err != nil {
		logger.Log.Fatal("Failed to start cleanup scheduler", "error", err)
	}
	defer scheduler.Stop()

	app := routers.NewApp()

	logger.Log.Info("Server is running", "port", config.AppConfig.Port)
	if err := app.Listen(":" + config.AppConfig.Port); err != nil {
		logger.Log.Fatal("Server stopped", "error", err)
	}
}
