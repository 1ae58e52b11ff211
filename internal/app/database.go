package app

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/wearevirtua/catalog/config"
)

func getDatabase(cfg config.DBConfig, workdir string) (*gorm.DB, error) {
	logLevel := logger.Silent
	if cfg.Debug {
		logLevel = logger.Info
	}
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	}

	switch cfg.Type {
	case "postgres":
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable TimeZone=%s",
			cfg.Host, cfg.User, cfg.Passwd, cfg.Name, cfg.Port, time.Local.String())
		db, err := gorm.Open(postgres.Open(dsn), gormConfig)
		return db, errors.Wrap(err, "open postgres")
	case "sqlite":
		dbfile := cfg.Name
		if dbfile == "" {
			dbfile = "catalog"
		}
		dsn := filepath.Join(workdir, dbfile+".db")
		db, err := gorm.Open(sqlite.Open(dsn), gormConfig)
		return db, errors.Wrap(err, "open sqlite")
	default:
		return nil, errors.Errorf("unsupported database type: %s", cfg.Type)
	}
}
