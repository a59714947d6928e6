package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/launchpad/internal/flagx"
	"github.com/dmitrijs2005/launchpad/internal/timex"
	"github.com/tidwall/jsonc"
)

// JSONConfig is a DTO used exclusively for JSON unmarshalling. Pointer and
// zero values mean "not set" and leave the earlier value in place.
type JSONConfig struct {
	ServerURL      string          `json:"server_url"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
	SettleDelay    *timex.Duration `json:"settle_delay"`
	SettleAttempts *int            `json:"settle_attempts"`
	NoticeTTL      *timex.Duration `json:"notice_ttl"`
	PageSize       *int            `json:"page_size"`
	DBPath         string          `json:"db_path"`
	LogLevel       string          `json:"log_level"`
}

// parseJSON overlays cfg with the file named by -c/-config in args, if any.
func parseJSON(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	var jc JSONConfig
	if err := json.Unmarshal(jsonc.ToJSON(data), &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if jc.ServerURL != "" {
		cfg.ServerURL = jc.ServerURL
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.SettleDelay != nil {
		cfg.SettleDelay = jc.SettleDelay.Duration
	}
	if jc.SettleAttempts != nil {
		cfg.SettleAttempts = *jc.SettleAttempts
	}
	if jc.NoticeTTL != nil {
		cfg.NoticeTTL = jc.NoticeTTL.Duration
	}
	if jc.PageSize != nil {
		cfg.PageSize = *jc.PageSize
	}
	if jc.DBPath != "" {
		cfg.DBPath = jc.DBPath
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
	return nil
}
