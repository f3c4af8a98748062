package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 30, cfg.Dashboard.ThresholdDays)
	assert.Equal(t, "data/Grocery_Inventory.csv", cfg.Paths.SourceFile)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults are valid", mutate: func(*Config) {}},
		{name: "bad port", mutate: func(c *Config) { c.Server.Port = -1 }, wantErr: true},
		{name: "bad log level", mutate: func(c *Config) { c.Logging.Level = "loud" }, wantErr: true},
		{name: "bad threshold", mutate: func(c *Config) { c.Dashboard.ThresholdDays = 0 }, wantErr: true},
		{name: "threshold too large", mutate: func(c *Config) { c.Dashboard.ThresholdDays = 1000 }, wantErr: true},
		{name: "custom threshold", mutate: func(c *Config) { c.Dashboard.ThresholdDays = 7 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  port: 9090
dashboard:
  threshold_days: 14
paths:
  source_file: /srv/feeds/inventory.csv
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	cfg, err := loadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 14, cfg.Dashboard.ThresholdDays)
	assert.Equal(t, "/srv/feeds/inventory.csv", cfg.Paths.SourceFile)
}

func TestLoadFromFile_BadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a map"), 0644))

	_, err := loadFromFile(path)
	assert.Error(t, err)
}

func TestMergeConfigs_FileFillsDefaults(t *testing.T) {
	file := *Default()
	file.Server.Port = 9191
	file.Dashboard.ThresholdDays = 14

	env := *Default() // env left at defaults, file should win
	merged := mergeConfigs(file, env)

	assert.Equal(t, 9191, merged.Server.Port)
	assert.Equal(t, 14, merged.Dashboard.ThresholdDays)
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.Paths.DataDir = filepath.Join(dir, "data")
	cfg.Paths.ReportsDir = filepath.Join(dir, "data", "reports")
	cfg.Paths.LogsDir = filepath.Join(dir, "logs")

	require.NoError(t, cfg.EnsureDirectories())
	assert.DirExists(t, cfg.Paths.ReportsDir)
	assert.DirExists(t, cfg.Paths.LogsDir)
}
