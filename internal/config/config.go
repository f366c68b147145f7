package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server ServerConfig `yaml:"server"`
	Client ClientConfig `yaml:"client"`
	Log    LogConfig    `yaml:"log"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
	// DatabaseURL selects the Postgres adapters; empty means in-memory storage.
	DatabaseURL string `yaml:"database_url"`
	// JWTSecret enables bearer authentication on every route except /api/health.
	JWTSecret string `yaml:"jwt_secret"`
}

// ClientConfig configures rolectl.
type ClientConfig struct {
	APIURL string `yaml:"api_url"`
	Token  string `yaml:"token"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	Console    bool   `yaml:"console"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// DefaultPaths are tried in order when no explicit config file is given.
var DefaultPaths = []string{"etc/config.yaml", "/etc/llm-roles/config.yaml"}

// Load reads the first config file found, then applies environment overrides.
// A missing file is not an error; an unreadable or malformed one is.
func Load(configFile string) (*Config, error) {
	c := &Config{
		Server: ServerConfig{Port: 8080},
		Client: ClientConfig{APIURL: "http://localhost:8080"},
		Log:    LogConfig{Level: "info", Console: true, MaxSizeMB: 100, MaxBackups: 3, MaxAgeDays: 30},
	}

	paths := DefaultPaths
	if configFile != "" {
		paths = []string{configFile}
	}
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) && configFile == "" {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
		break
	}

	envOverrideInt(&c.Server.Port, "PORT")
	envOverride(&c.Server.DatabaseURL, "DATABASE_URL")
	envOverride(&c.Server.JWTSecret, "AUTH_JWT_SECRET")
	envOverride(&c.Client.APIURL, "ROLES_API_URL")
	envOverride(&c.Client.Token, "ROLES_API_TOKEN")
	envOverride(&c.Log.Level, "LOG_LEVEL")
	envOverride(&c.Log.File, "LOG_FILE")

	return c, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

func envOverride(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envOverrideInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
