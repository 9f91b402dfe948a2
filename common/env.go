// Package common holds the names shared by the CLI and the plugin runtime.
package common

import (
	"os"
	"path/filepath"
)

// AppName names the binary, the config directory and the keyring service.
const AppName = "stadia-galaxy"

// Environment variable names for configuration.
const (
	// DebugEnv enables debug logging.
	DebugEnv = "STADIA_DEBUG"

	// ConfigDirEnv overrides the directory holding the stored bundle and key.
	ConfigDirEnv = "STADIA_CONFIG_DIR"

	// LogFileEnv overrides the plugin log file location.
	LogFileEnv = "STADIA_LOG_FILE"

	// MarkupEnv selects the home page parser, "regex" or "dom".
	MarkupEnv = "STADIA_MARKUP"

	// RequireLastPlayedEnv makes a missing last played tile an error.
	RequireLastPlayedEnv = "STADIA_REQUIRE_LAST_PLAYED"

	// CookieKeyEnv holds a hex encoded 32 byte key for the stored bundle.
	// When set, the OS keyring is not consulted.
	CookieKeyEnv = "STADIA_COOKIE_KEY"
)

// LogFileName is the plugin log file inside the config directory.
const LogFileName = "plugin.log"

var userConfigDir = os.UserConfigDir

// DefaultConfigDir returns the per-user configuration directory.
func DefaultConfigDir() string {
	dir, err := userConfigDir()
	if err != nil || dir == "" {
		return filepath.Join(os.TempDir(), AppName)
	}
	return filepath.Join(dir, AppName)
}
