package db

import (
	"fmt"
	"strings"

	"github.com/glebarez/sqlite"
	"github.com/ternarybob/arbor"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sujalbistaa/pickboard/internal/config"
	"github.com/sujalbistaa/pickboard/internal/models"
)

// Open returns a GORM connection for cfg.URL, which must start with
// "sqlite://" or "postgres://".
func Open(cfg config.DatabaseConfig, log arbor.ILogger) (*gorm.DB, error) {
	var (
		dialector gorm.Dialector
		isSQLite  bool
	)

	switch {
	case strings.HasPrefix(cfg.URL, "postgres://"):
		dialector = postgres.Open(cfg.URL)
		log.Info().Msg("Connecting to PostgreSQL database")
	case strings.HasPrefix(cfg.URL, "sqlite://"):
		dsn := strings.TrimPrefix(cfg.URL, "sqlite://")
		dialector = sqlite.Open(dsn)
		isSQLite = true
		log.Info().Str("path", dsn).Msg("Connecting to SQLite database")
	default:
		return nil, fmt.Errorf("invalid database url %q: must start with postgres:// or sqlite://", cfg.URL)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if isSQLite {
		// One connection: sqlite has a single writer, and ":memory:"
		// databases live only as long as their connection.
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
	}

	log.Info().Msg("Database connection established")
	return db, nil
}

// Migrate creates or updates the tables for every model.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Post{}, &models.AIOutput{}, &models.Vote{}); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
