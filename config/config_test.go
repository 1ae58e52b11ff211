package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := LoadConfig("")
	assert.Equal(t, "catalog", cfg.System.Appid)
	assert.Equal(t, 1816, cfg.Web.Port)
	assert.Equal(t, "postgres", cfg.Database.Type)
	assert.Equal(t, "@every 1h", cfg.Job.ImageSweepSpec)
}

func TestLoadConfig_File(t *testing.T) {
	cfile := filepath.Join(t.TempDir(), "catalog.yml")
	require.NoError(t, os.WriteFile(cfile, []byte(`
web:
  port: 9090
database:
  type: sqlite
  name: testdb
storage:
  image_dir: /srv/images
`), 0o644))

	cfg := LoadConfig(cfile)
	assert.Equal(t, 9090, cfg.Web.Port)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, "testdb", cfg.Database.Name)
	assert.Equal(t, "/srv/images", cfg.ImageDirAbs())
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("CATALOG_WEB_PORT", "7070")
	t.Setenv("CATALOG_DB_TYPE", "sqlite")

	cfg := LoadConfig("")
	assert.Equal(t, 7070, cfg.Web.Port)
	assert.Equal(t, "sqlite", cfg.Database.Type)
}

func TestImageDirAbs_RelativeToWorkdir(t *testing.T) {
	cfg := &AppConfig{}
	cfg.System.Workdir = "/var/catalog"
	cfg.Storage.ImageDir = "images"
	assert.Equal(t, filepath.Join("/var/catalog", "images"), cfg.ImageDirAbs())
}
