package main

import (
	"os"
	"time"

	"dividendwatch/lib/configutil"
	"dividendwatch/services/dividends/server"
)

type FetchConfig struct {
	TimeoutSeconds int    `json:"timeout_seconds"`
	Attempts       int    `json:"attempts"`
	DelaySeconds   int    `json:"delay_seconds"`
	ChromiumPath   string `json:"chromium_path"`
}

func (c FetchConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return time.Second * 15
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c FetchConfig) RetryAttempts() int {
	if c.Attempts <= 0 {
		return 3
	}
	return c.Attempts
}

func (c FetchConfig) RetryDelay() time.Duration {
	if c.DelaySeconds <= 0 {
		return time.Second * 2
	}
	return time.Duration(c.DelaySeconds) * time.Second
}

type Config struct {
	Database configutil.Database `json:"database"`
	Fetch    FetchConfig         `json:"fetch"`
	Server   server.Config       `json:"server"`
}

// loadConfig reads the configuration file; a missing file just means
// every default applies.
func loadConfig() (Config, error) {
	config, err := configutil.ReadConfig[Config](configPath)
	if os.IsNotExist(err) {
		return Config{}, nil
	}
	return config, err
}
