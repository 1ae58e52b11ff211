package app

import (
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/wearevirtua/catalog/config"
)

// DBProvider provides database access
type DBProvider interface {
	DB() *gorm.DB
}

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// SchedulerProvider provides task scheduling capability
type SchedulerProvider interface {
	Scheduler() *cron.Cron
}

// AppContext combines the provider interfaces for full application context.
type AppContext interface {
	DBProvider
	ConfigProvider
	SchedulerProvider

	MigrateDB() error
	InitDb()
	DropAll()
}
