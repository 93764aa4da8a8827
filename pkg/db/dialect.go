package db

import (
	"errors"
	"fmt"

	"github.com/M-Haris-27/ZoroPay/internal/config"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var ErrMissingDSN = errors.New("DATABASE_URL is required")

func Dialect(cfg config.Config) (gorm.Dialector, error) {
	switch cfg.DBType {
	case "mysql":
		if cfg.DBURL == "" {
			return nil, ErrMissingDSN
		}
		return mysql.Open(cfg.DBURL), nil
	case "postgres", "":
		if cfg.DBURL == "" {
			return nil, ErrMissingDSN
		}
		return postgres.Open(cfg.DBURL), nil
	case "sqlite":
		dsn := cfg.DBURL
		if dsn == "" {
			dsn = "zoropay.db"
		}
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported %s type", cfg.DBType)
	}
}
