package db

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Ukvalley1218/bestkitchennet-backend/internal/models"
)

type Config struct {
	// Dialect is one of postgres, mysql, sqlite.
	Dialect string `conf:"dialect" yaml:"dialect" json:"dialect"`
	DSN     string `conf:"dsn" yaml:"dsn" json:"dsn"`
	Debug   bool   `conf:"debug" yaml:"debug" json:"debug"`
}

// NewClient opens the database and runs migrations for all persisted models.
// It panics on failure: there is nothing useful the process can do without a
// database.
func NewClient(cfg Config) *gorm.DB {
	var dialector gorm.Dialector

	switch cfg.Dialect {
	case "postgres", "pgx", "pg", "postgresql":
		dialector = postgres.Open(cfg.DSN)
	case "mysql", "tidb":
		dialector = mysql.Open(cfg.DSN)
	case "sqlite", "sqlite3":
		dialector = sqlite.Open(cfg.DSN)
	default:
		panic(fmt.Errorf("invalid dialect: %s", cfg.Dialect))
	}

	gormCfg := &gorm.Config{}
	if cfg.Debug {
		gormCfg.Logger = logger.Default.LogMode(logger.Info)
	} else {
		gormCfg.Logger = logger.Default.LogMode(logger.Warn)
	}

	client, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		panic(fmt.Errorf("failed to open database: %w", err))
	}

	if err := Migrate(client); err != nil {
		panic(fmt.Errorf("failed to migrate database: %w", err))
	}

	return client
}

// Migrate creates or updates the schema for all persisted models.
func Migrate(client *gorm.DB) error {
	return client.AutoMigrate(
		&models.Tenant{},
		&models.User{},
		&models.Lead{},
		&models.Customer{},
		&models.Activity{},
		&models.Quotation{},
		&models.Invoice{},
		&models.Payment{},
		&models.Sale{},
		&models.Campaign{},
		&models.CallLog{},
		&models.CallRetry{},
	)
}
