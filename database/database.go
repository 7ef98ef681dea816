package database

import (
	"fmt"
	"os"
	"trademaster/config"
	"trademaster/models"
	courseModels "trademaster/models/course"
	"trademaster/utils/logger"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// DbInstance struct holds the database connection instance
type DbInstance struct {
	Db *gorm.DB
}

// Database is the global database instance
var Database DbInstance

// ConnectDb opens the configured database, runs migrations and stores the handle globally.
func ConnectDb() {
	cfg := config.AppConfig

	var dsn string
	switch cfg.DBDriver {
	case "sqlite":
		dsn = cfg.SqlitePath
	default:
		dsn = fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
		)
	}

	db, err := Open(cfg.DBDriver, dsn)
	if err != nil {
		logger.Log.Fatal("Failed to connect to database", "driver", cfg.DBDriver, "error", err)
		os.Exit(2)
	}

	Database = DbInstance{Db: db}
}

// Open connects with the given driver, tunes the pool and migrates the schema.
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if driver == "sqlite" {
		// A single connection keeps in-memory databases alive and serialises writers.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(0)
	}

	if err := runMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// runMigrations performs database migrations
func runMigrations(db *gorm.DB) error {
	logger.Log.Info("Running migrations")

	err := db.AutoMigrate(
		&models.User{},
		&models.LoginTracking{},
		&courseModels.Course{},
		&courseModels.Coupon{},
		&courseModels.CourseContent{},
		&courseModels.Enrollment{},
		&courseModels.ContentProgress{},
	)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	logger.Log.Info("Migrations completed successfully")
	return nil
}
