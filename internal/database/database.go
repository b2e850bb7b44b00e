package database

import (
	"fmt"
	"time"

	"inventory/internal/logger"
	"inventory/internal/models"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Manager owns the business connection pool and the separate pool the
// change log writes through.
type Manager struct {
	db      *gorm.DB
	auditDB *gorm.DB
	config  *Config
}

// NewManager opens both pools for the configured driver.
func NewManager(config *Config) (*Manager, error) {
	db, err := open(config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := tunePool(db, 10, 100); err != nil {
		return nil, err
	}

	auditDB, err := open(config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect audit pool: %w", err)
	}
	if err := tunePool(auditDB, config.AuditMaxConns, config.AuditMaxConns); err != nil {
		return nil, err
	}

	return &Manager{db: db, auditDB: auditDB, config: config}, nil
}

func open(config *Config) (*gorm.DB, error) {
	switch config.Driver {
	case DriverSQLite:
		return gorm.Open(sqlite.Open(config.SQLiteDSN()), &gorm.Config{})
	default:
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  config.DSN(),
			PreferSimpleProtocol: true,
		}), &gorm.Config{})
	}
}

func tunePool(db *gorm.DB, idle, open int) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(idle)
	sqlDB.SetMaxOpenConns(open)
	sqlDB.SetConnMaxLifetime(time.Hour)
	return nil
}

// RunMigrations applies pending SQL migrations from the migrations/ directory.
// SQLite deployments are migrated from the model definitions instead.
func (m *Manager) RunMigrations() error {
	log := logger.Get()
	log.Info("Running database migrations...")

	if m.config.Driver == DriverSQLite {
		if err := m.db.AutoMigrate(models.All()...); err != nil {
			return fmt.Errorf("auto-migration failed: %w", err)
		}
		log.Info("SQLite schema migrated from models")
		return nil
	}

	mig, err := migrate.New("file://migrations", m.config.MigrateURL())
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer func() {
		srcErr, dbErr := mig.Close()
		if srcErr != nil {
			log.Warnf("migrate source close error: %v", srcErr)
		}
		if dbErr != nil {
			log.Warnf("migrate database close error: %v", dbErr)
		}
	}()

	if err := mig.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("migration failed: %w", err)
	}

	log.Info("Database migrations completed successfully")
	return nil
}

// DB returns the business GORM instance.
func (m *Manager) DB() *gorm.DB {
	return m.db
}

// AuditDB returns the GORM instance reserved for change log writes.
func (m *Manager) AuditDB() *gorm.DB {
	return m.auditDB
}

// Close releases both pools.
func (m *Manager) Close() error {
	for _, db := range []*gorm.DB{m.db, m.auditDB} {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		if err := sqlDB.Close(); err != nil {
			return err
		}
	}
	return nil
}
