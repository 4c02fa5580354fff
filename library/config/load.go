// Package config loads settings into the shared go-config store.
package config

import (
	"path/filepath"
	"strings"

	gconfig "github.com/Laisky/go-config/v2"
	"github.com/Laisky/zap"

	"github.com/Laisky/searchhub/library/log"
)

// LoadFromFile loads the yaml settings file into gconfig.Shared.
// An empty path keeps the built-in defaults.
func LoadFromFile(cfgPath string) {
	if strings.TrimSpace(cfgPath) == "" {
		log.Logger.Info("no configuration file given, use defaults")
		return
	}

	gconfig.Shared.Set("cfg_dir", filepath.Dir(cfgPath))
	if err := gconfig.Shared.LoadFromFile(cfgPath); err != nil {
		log.Logger.Panic("load configuration",
			zap.Error(err),
			zap.String("config", cfgPath))
	}

	log.Logger.Info("load configuration",
		zap.String("config", cfgPath))
}

// StringOr returns the trimmed string at key, or def when the key is unset or blank.
func StringOr(key, def string) string {
	if gconfig.Shared.Get(key) == nil {
		return def
	}
	if v := strings.TrimSpace(gconfig.Shared.GetString(key)); v != "" {
		return v
	}
	return def
}

// IntOr returns the integer at key, or def when the key is unset.
func IntOr(key string, def int) int {
	if gconfig.Shared.Get(key) == nil {
		return def
	}
	return gconfig.Shared.GetInt(key)
}

// BoolOr returns the boolean at key, or def when the key is unset.
func BoolOr(key string, def bool) bool {
	if gconfig.Shared.Get(key) == nil {
		return def
	}
	return gconfig.Shared.GetBool(key)
}
