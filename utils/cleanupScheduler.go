package utils

import (
	"trademaster/config"
	"trademaster/database"
	"trademaster/services"
	"trademaster/utils/logger"

	"github.com/robfig/cron/v3"
)

// InitializeCleanupScheduler starts the cron job that finishes interrupted content deletes.
func InitializeCleanupScheduler() (*cron.Cron, error) {
	logger.Log.Info("[CLEANUP-SCHEDULER] Initializing tombstone sweeper", "schedule", config.AppConfig.CleanupSchedule)

	c := cron.New()
	_, err := c.AddFunc(config.AppConfig.CleanupSchedule, RunTombstoneSweep)
	if err != nil {
		return nil, err
	}

	c.Start()
	logger.Log.Info("[CLEANUP-SCHEDULER] Tombstone sweeper started")
	return c, nil
}

// RunTombstoneSweep removes files and rows left behind by failed content deletes.
func RunTombstoneSweep() {
	removed, err := services.SweepTombstones(database.Database.Db, config.AppConfig.UploadDir)
	if err != nil {
		logger.Log.Error("[CLEANUP-SCHEDULER] Sweep failed", "error", err)
		return
	}
	if removed > 0 {
		logger.Log.Info("[CLEANUP-SCHEDULER] Sweep removed tombstoned content", "count", removed)
	}
}
