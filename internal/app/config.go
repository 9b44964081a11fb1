package app

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/shrimpsizemoose/trekker/logger"
)

type Config struct {
	Server struct {
		Port          string `toml:"port"`
		AdminUsername string `toml:"admin_username"`
		AdminPassword string `toml:"admin_password"`
		AdminName     string `toml:"admin_name"`
	} `toml:"server"`

	Database struct {
		DSN           string `toml:"dsn"`
		MigrationsDir string `toml:"migrations_dir"`
	} `toml:"database"`

	Sessions struct {
		RedisURL string `toml:"redis_url"`
		TokenTTL string `toml:"token_ttl"`
	} `toml:"sessions"`

	Stats struct {
		RecentActivityLimit int `toml:"recent_activity_limit"`
	} `toml:"stats"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf(
			"error reading config file %s\n> Error: %w\n> Content:\n%s",
			path,
			err,
			string(data),
		)
	}

	// env wins over the file for deploy-shaped settings
	if v := os.Getenv("SEMLA_PORT"); v != "" {
		config.Server.Port = v
	}
	if v := os.Getenv("SEMLA_DATABASE_DSN"); v != "" {
		config.Database.DSN = v
	}
	if v := os.Getenv("SEMLA_REDIS_URL"); v != "" {
		config.Sessions.RedisURL = v
	}
	if v := os.Getenv("SEMLA_ADMIN_PASSWORD"); v != "" {
		config.Server.AdminPassword = v
	}

	if config.Server.Port == "" {
		return nil, fmt.Errorf("server port is not specified in config, use a value like :9999")
	}
	if config.Database.DSN == "" {
		return nil, fmt.Errorf("database DSN is not specified in config")
	}
	if config.Server.AdminUsername == "" || config.Server.AdminPassword == "" {
		return nil, fmt.Errorf("admin credentials are not specified in config")
	}

	if config.Database.MigrationsDir == "" {
		config.Database.MigrationsDir = "./migrations"
	}
	if config.Sessions.TokenTTL == "" {
		config.Sessions.TokenTTL = "24h"
	}
	if _, err := time.ParseDuration(config.Sessions.TokenTTL); err != nil {
		return nil, fmt.Errorf("invalid sessions token_ttl: %w", err)
	}
	if config.Stats.RecentActivityLimit <= 0 {
		config.Stats.RecentActivityLimit = 8
	}

	logger.Debug.Printf(
		"Loaded config: port=%s migrations=%s token_ttl=%s",
		config.Server.Port,
		config.Database.MigrationsDir,
		config.Sessions.TokenTTL,
	)

	return &config, nil
}

func (c *Config) TokenTTL() time.Duration {
	d, err := time.ParseDuration(c.Sessions.TokenTTL)
	if err != nil {
		return 24 * time.Hour
	}
	return d
}
