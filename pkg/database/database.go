package database

import (
	"fmt"

	"github.com/ivens03/microservices-padoca/pkg/config"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the configured database and runs migrations for the given models
func Open(dbConfig *config.DBConfig, models ...interface{}) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch dbConfig.Driver {
	case "postgres":
		dialector = postgres.New(postgres.Config{
			DSN:                  dbConfig.GetDSN(),
			PreferSimpleProtocol: true, // Disables implicit prepared statement usage
		})
	case "sqlite":
		dialector = sqlite.Open(dbConfig.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", dbConfig.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(dbConfig.LogLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database object: %w", err)
	}

	// Set connection pool settings from config
	if dbConfig.Driver == "sqlite" {
		// a single writer avoids "database is locked" on the sqlite file
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(dbConfig.MaxIdleConns)
		sqlDB.SetMaxOpenConns(dbConfig.MaxOpenConns)
		sqlDB.SetConnMaxLifetime(dbConfig.ConnMaxLifetime)
	}

	if len(models) > 0 {
		if err := db.AutoMigrate(models...); err != nil {
			return nil, fmt.Errorf("failed to run database migrations: %w", err)
		}
	}

	return db, nil
}
