package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v2"
)

type SysConfig struct {
	Appid    string `yaml:"appid"`
	Location string `yaml:"location"`
	Workdir  string `yaml:"workdir"`
	Debug    bool   `yaml:"debug"`
}

type WebConfig struct {
	Host   string `yaml:"host"`
	Port   int    `yaml:"port"`
	Secret string `yaml:"secret"`
}

type DBConfig struct {
	Type   string `yaml:"type"`
	Host   string `yaml:"host"`
	Port   int    `yaml:"port"`
	Name   string `yaml:"name"`
	User   string `yaml:"user"`
	Passwd string `yaml:"passwd"`
	Debug  bool   `yaml:"debug"`
}

type LogConfig struct {
	Mode       string `yaml:"mode"`
	FileEnable bool   `yaml:"file_enable"`
	Filename   string `yaml:"filename"`
}

type StorageConfig struct {
	// ImageDir is where uploaded image files are written. Relative paths
	// are resolved against System.Workdir.
	ImageDir string `yaml:"image_dir"`
}

type JobConfig struct {
	// ImageSweepSpec is a cron spec for the orphaned image sweep.
	// Empty disables the job.
	ImageSweepSpec string `yaml:"image_sweep_spec"`
}

type AppConfig struct {
	System   SysConfig     `yaml:"system"`
	Web      WebConfig     `yaml:"web"`
	Database DBConfig      `yaml:"database"`
	Logger   LogConfig     `yaml:"logger"`
	Storage  StorageConfig `yaml:"storage"`
	Job      JobConfig     `yaml:"job"`
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "catalog",
		Location: "UTC",
		Workdir:  "/var/catalog",
	},
	Web: WebConfig{
		Host:   "0.0.0.0",
		Port:   1816,
		Secret: "9b6de5cc-catalog-1816-b5aa-0f1000000000",
	},
	Database: DBConfig{
		Type:   "postgres",
		Host:   "127.0.0.1",
		Port:   5432,
		Name:   "catalog",
		User:   "postgres",
		Passwd: "myroot",
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/catalog/catalog.log",
	},
	Storage: StorageConfig{
		ImageDir: "images",
	},
	Job: JobConfig{
		ImageSweepSpec: "@every 1h",
	},
}

func (c *AppConfig) ImageDirAbs() string {
	if filepath.IsAbs(c.Storage.ImageDir) {
		return c.Storage.ImageDir
	}
	return filepath.Join(c.System.Workdir, c.Storage.ImageDir)
}

func setEnvValue(name string, val *string) {
	if evalue := os.Getenv(name); evalue != "" {
		*val = evalue
	}
}

func setEnvIntValue(name string, val *int) {
	if evalue := os.Getenv(name); evalue != "" {
		*val = cast.ToInt(evalue)
	}
}

func setEnvBoolValue(name string, val *bool) {
	if evalue := os.Getenv(name); evalue != "" {
		*val = cast.ToBool(evalue)
	}
}

// LoadConfig reads the YAML config file when present, otherwise starts from
// defaults, then applies CATALOG_* environment overrides.
func LoadConfig(cfile string) *AppConfig {
	cfg := new(AppConfig)
	*cfg = *DefaultAppConfig
	if cfile != "" {
		if data, err := os.ReadFile(cfile); err == nil {
			_ = yaml.Unmarshal(data, cfg)
		}
	}

	setEnvValue("CATALOG_SYSTEM_WORKDIR", &cfg.System.Workdir)
	setEnvValue("CATALOG_SYSTEM_LOCATION", &cfg.System.Location)
	setEnvBoolValue("CATALOG_SYSTEM_DEBUG", &cfg.System.Debug)

	setEnvValue("CATALOG_WEB_HOST", &cfg.Web.Host)
	setEnvIntValue("CATALOG_WEB_PORT", &cfg.Web.Port)
	setEnvValue("CATALOG_WEB_SECRET", &cfg.Web.Secret)

	setEnvValue("CATALOG_DB_TYPE", &cfg.Database.Type)
	setEnvValue("CATALOG_DB_HOST", &cfg.Database.Host)
	setEnvIntValue("CATALOG_DB_PORT", &cfg.Database.Port)
	setEnvValue("CATALOG_DB_NAME", &cfg.Database.Name)
	setEnvValue("CATALOG_DB_USER", &cfg.Database.User)
	setEnvValue("CATALOG_DB_PWD", &cfg.Database.Passwd)

	setEnvValue("CATALOG_LOGGER_MODE", &cfg.Logger.Mode)
	setEnvBoolValue("CATALOG_LOGGER_FILE_ENABLE", &cfg.Logger.FileEnable)
	setEnvValue("CATALOG_LOGGER_FILENAME", &cfg.Logger.Filename)

	setEnvValue("CATALOG_STORAGE_IMAGE_DIR", &cfg.Storage.ImageDir)
	setEnvValue("CATALOG_JOB_IMAGE_SWEEP_SPEC", &cfg.Job.ImageSweepSpec)

	return cfg
}
