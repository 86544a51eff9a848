package repository

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/kutbudev/blog/pkg/config"
	"github.com/kutbudev/blog/pkg/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database owns the GORM connection shared by the repositories.
type Database struct {
	DB *gorm.DB
}

// NewDatabase connects to the database described by cfg and migrates the schema.
func NewDatabase(cfg *config.Config) (*Database, error) {
	var dialector gorm.Dialector
	switch cfg.Database.Driver {
	case config.DriverSQLite:
		dialector = sqlite.Open(sqliteDSN(cfg.Database.DSN()))
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.Database.DSN())
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	db, err := Open(dialector, cfg.Database.Debug)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Printf("Database connection established (%s)", cfg.Database.Driver)
	return db, nil
}

// Open wraps an already chosen dialector without migrating.
func Open(dialector gorm.Dialector, debug bool) (*Database, error) {
	logLevel := logger.Warn
	if debug {
		logLevel = logger.Info
	}

	database, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := database.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get SQL DB: %w", err)
	}

	if dialector.Name() == "sqlite" {
		// SQLite serialises writers; one connection avoids "database is locked"
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
	}

	return &Database{DB: database}, nil
}

// Migrate creates or updates the schema for every entity.
func (d *Database) Migrate() error {
	return d.DB.AutoMigrate(
		&models.User{},
		&models.Tag{},
		&models.Post{},
		&models.Comment{},
	)
}

// Close closes the underlying connection pool.
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Health pings the database.
func (d *Database) Health(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// sqliteDSN turns on foreign key enforcement, which SQLite leaves off per connection.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys") || strings.Contains(dsn, "_fk=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_foreign_keys=on"
}
