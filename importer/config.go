package importer

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config holds the Telegram application credentials. The JSON shape matches
// the config file users already have from my.telegram.org.
type Config struct {
	AppName string `json:"app_name"` // also names the session file
	APIID   int    `json:"api_id"`
	APIHash string `json:"api_hash"`
}

// LoadConfig reads credentials from a JSON file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.APIID == 0 || cfg.APIHash == "" {
		return Config{}, fmt.Errorf("config %s: api_id and api_hash are required", path)
	}
	if cfg.AppName == "" {
		cfg.AppName = "skype-to-tg"
	}
	return cfg, nil
}
