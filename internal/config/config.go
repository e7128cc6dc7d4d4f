package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage backends.
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Mode strings.
const (
	ModeServe = "serve"
	ModeEdit  = "edit"
)

// Config is the full application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Planning PlanningConfig `mapstructure:"planning"`
	Print    PrintConfig    `mapstructure:"print"`
	Log      LogConfig      `mapstructure:"log"`
	Auth     AuthConfig     `mapstructure:"auth"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Edit            bool          `mapstructure:"edit"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Mode returns ModeEdit or ModeServe.
func (s ServerConfig) Mode() string {
	if s.Edit {
		return ModeEdit
	}
	return ModeServe
}

type StorageConfig struct {
	Backend string `mapstructure:"backend"`
	Key     string `mapstructure:"key"`
	Dir     string `mapstructure:"dir"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type PlanningConfig struct {
	DefaultWeekLabel string `mapstructure:"default_week_label"`
	DefaultSlotTime  string `mapstructure:"default_slot_time"`
}

type PrintConfig struct {
	Title        string `mapstructure:"title"`
	Organization string `mapstructure:"organization"`
	LogoURL      string `mapstructure:"logo_url"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type AuthConfig struct {
	File string `mapstructure:"file"`
}

// Load reads defaults, then the config file, then PLANNING_* environment variables.
// A missing config file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.edit", false)
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("storage.backend", BackendFile)
	v.SetDefault("storage.key", "btp-planning-data")
	v.SetDefault("storage.dir", defaultDir())

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("planning.default_week_label", "Semaine A")
	v.SetDefault("planning.default_slot_time", "")

	v.SetDefault("print.title", "Réunions Bilans")
	v.SetDefault("print.organization", "BTP CFA MARNE")
	v.SetDefault("print.logo_url", "https://classwise-reservation.netlify.app/Logo-BTPCFA51.png")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("auth.file", defaultAuthFile())

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("PLANNING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	// AUTH_FILE predates the PLANNING_ prefix and is still honoured.
	if authFile := os.Getenv("AUTH_FILE"); authFile != "" {
		cfg.Auth.File = authFile
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values the service cannot start without.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid config: server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	switch c.Storage.Backend {
	case BackendFile, BackendRedis, BackendMemory:
	default:
		return fmt.Errorf("invalid config: storage.backend must be file, redis or memory, got %q", c.Storage.Backend)
	}
	if c.Storage.Key == "" {
		return fmt.Errorf("invalid config: storage.key must not be empty")
	}
	return nil
}

func defaultDir() string {
	if cwd, err := os.Getwd(); err == nil {
		return cwd
	}
	return "."
}

// defaultAuthFile is auth.secret next to the binary.
func defaultAuthFile() string {
	execPath, err := os.Executable()
	if err != nil {
		return "auth.secret"
	}
	return filepath.Join(filepath.Dir(execPath), "auth.secret")
}
