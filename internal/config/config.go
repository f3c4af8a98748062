package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Dashboard DashboardConfig `yaml:"dashboard" envconfig:"DASHBOARD"`
	RateLimit RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"15s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/app.log"`
}

// PathsConfig contains file system paths configuration.
type PathsConfig struct {
	DataDir    string `yaml:"data_dir" envconfig:"DATA_DIR" default:"data"`
	SourceFile string `yaml:"source_file" envconfig:"SOURCE_FILE" default:"data/Grocery_Inventory.csv"`
	ReportsDir string `yaml:"reports_dir" envconfig:"REPORTS_DIR" default:"data/reports"`
	LogsDir    string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs"`
}

// DashboardConfig contains the KPI horizons exposed to the dashboard.
// NearExpiredDays is deliberately absent: the 7-day near-expired view is a
// fixed definition, not an operator knob.
type DashboardConfig struct {
	ThresholdDays int `yaml:"threshold_days" envconfig:"THRESHOLD_DAYS" default:"30" validate:"min=1,max=365"`
}

// RateLimitConfig contains rate limiting configuration.
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"100" validate:"min=0"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"50" validate:"min=0"`
}

// Load loads configuration from environment variables and, when present,
// a YAML config file. Environment variables take precedence.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("INV", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	configFile := getConfigFilePath()
	if _, err := os.Stat(configFile); err == nil {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Default returns the built-in configuration used when neither environment
// nor file overrides are present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "console",
			FilePath: "logs/app.log",
		},
		Paths: PathsConfig{
			DataDir:    "data",
			SourceFile: "data/Grocery_Inventory.csv",
			ReportsDir: "data/reports",
			LogsDir:    "logs",
		},
		Dashboard: DashboardConfig{ThresholdDays: 30},
		RateLimit: RateLimitConfig{Enabled: true, RPS: 100, Burst: 50},
	}
}

// Validate checks the configuration against the struct-level rules.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

// EnsureDirectories creates the configured directories if they do not
// exist. The source file itself is not created: a missing source is a
// runtime condition the pipeline reports, not a startup failure.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.ReportsDir, c.Paths.LogsDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// mergeConfigs merges file config with env config (env takes precedence).
func mergeConfigs(fileConfig, envConfig Config) Config {
	def := Default()

	if envConfig.Server.Port == def.Server.Port && fileConfig.Server.Port != 0 {
		envConfig.Server.Port = fileConfig.Server.Port
	}
	if envConfig.Logging.Level == def.Logging.Level && fileConfig.Logging.Level != "" {
		envConfig.Logging.Level = fileConfig.Logging.Level
	}
	if envConfig.Logging.Output == def.Logging.Output && fileConfig.Logging.Output != "" {
		envConfig.Logging.Output = fileConfig.Logging.Output
	}
	if envConfig.Paths.SourceFile == def.Paths.SourceFile && fileConfig.Paths.SourceFile != "" {
		envConfig.Paths.SourceFile = fileConfig.Paths.SourceFile
	}
	if envConfig.Paths.ReportsDir == def.Paths.ReportsDir && fileConfig.Paths.ReportsDir != "" {
		envConfig.Paths.ReportsDir = fileConfig.Paths.ReportsDir
	}
	if envConfig.Dashboard.ThresholdDays == def.Dashboard.ThresholdDays && fileConfig.Dashboard.ThresholdDays != 0 {
		envConfig.Dashboard.ThresholdDays = fileConfig.Dashboard.ThresholdDays
	}

	return envConfig
}

// getConfigFilePath returns the config file location, preferring an
// explicit override from the environment.
func getConfigFilePath() string {
	if path := os.Getenv("INV_CONFIG_FILE"); path != "" {
		return path
	}
	return filepath.Join(".", "config.yaml")
}
