package migration

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	invoicedomain "github.com/M-Haris-27/ZoroPay/internal/invoice/domain"
	userdomain "github.com/M-Haris-27/ZoroPay/internal/user/domain"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const migrationsDir = "migrations"

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

// Run brings the schema up to date. Postgres uses the versioned SQL files;
// other dialects fall back to gorm AutoMigrate.
func Run(conn *gorm.DB, log *zap.Logger) error {
	if conn == nil {
		return errors.New("migration database handle is required")
	}

	dialect := conn.Dialector.Name()
	if dialect != "postgres" {
		log.Info("running auto migrations", zap.String("dialect", dialect))
		return conn.AutoMigrate(&userdomain.User{}, &invoicedomain.Invoice{})
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	log.Info("running sql migrations", zap.String("dialect", dialect))
	return RunMigrations(sqlDB)
}

// RunMigrations applies the embedded postgres migrations.
func RunMigrations(db *sql.DB) error {
	if db == nil {
		return errors.New("migration database handle is required")
	}

	sub, err := fs.Sub(embeddedMigrations, migrationsDir)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}

	source, err := iofs.New(sub, ".")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	upErr := migrator.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", upErr)
	}
	// Do not call migrator.Close here because it would close the shared *sql.DB.

	return nil
}
