package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"inventory/internal/config"
	"inventory/internal/database"
	"inventory/internal/logger"
)

const usage = "usage: migrate <up|down [N]|goto V|force V|version>"

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(os.Args[1:]); err != nil {
		logger.Get().Fatalf("Migration error: %v", err)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		return errors.New(usage)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	dbConfig, err := database.NewConfig(cfg)
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}
	if dbConfig.Driver != database.DriverPostgres {
		return fmt.Errorf("SQL migrations target postgres; %s is migrated on server start", dbConfig.Driver)
	}

	m, err := migrate.New("file://migrations", dbConfig.MigrateURL())
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			logger.Get().Warnw("migrate close error", "source", srcErr, "database", dbErr)
		}
	}()

	return apply(m, args[0], args[1:])
}

func apply(m *migrate.Migrate, command string, rest []string) error {
	log := logger.Named("migrate")

	switch command {
	case "up":
		if err := ignoreNoChange(m.Up()); err != nil {
			return fmt.Errorf("migration up failed: %w", err)
		}
		log.Info("migrations applied")

	case "down":
		steps, err := intArg(rest, 1)
		if err != nil {
			return err
		}
		if err := ignoreNoChange(m.Steps(-steps)); err != nil {
			return fmt.Errorf("migration down failed: %w", err)
		}
		log.Infow("migrations rolled back", "steps", steps)

	case "goto", "force":
		if len(rest) == 0 {
			return errors.New(usage)
		}
		version, err := intArg(rest, 0)
		if err != nil {
			return err
		}
		if command == "force" {
			err = m.Force(version)
		} else {
			err = ignoreNoChange(m.Migrate(uint(version)))
		}
		if err != nil {
			return fmt.Errorf("migration %s %d failed: %w", command, version, err)
		}
		log.Infow("schema version set", "command", command, "version", version)

	case "version":
		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			log.Info("no migrations applied")
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to get version: %w", err)
		}
		log.Infow("schema version", "version", version, "dirty", dirty)

	default:
		return fmt.Errorf("unknown command %q; %s", command, usage)
	}
	return nil
}

func ignoreNoChange(err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}

func intArg(rest []string, fallback int) (int, error) {
	if len(rest) == 0 {
		return fallback, nil
	}
	n, err := strconv.Atoi(rest[0])
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid number %q", rest[0])
	}
	return n, nil
}
