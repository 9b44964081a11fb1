package console

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	API struct {
		BaseURL string `toml:"base_url"`
		Timeout string `toml:"timeout"`
	} `toml:"api"`

	CredentialsFile string `toml:"credentials_file"`
}

func ReadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	if v := os.Getenv("SEMLA_API_URL"); v != "" {
		config.API.BaseURL = v
	}

	if config.API.BaseURL == "" {
		return nil, fmt.Errorf("api base_url is not specified in config")
	}
	if config.CredentialsFile == "" {
		config.CredentialsFile = ".semla-credentials.json"
	}

	return &config, nil
}

func (c *Config) APITimeout() time.Duration {
	d, err := time.ParseDuration(c.API.Timeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}
