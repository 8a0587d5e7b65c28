package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/ian-shakespeare/libcalc/internal/logger"
)

// Config represents application configuration
type Config struct {
	LogLevel              string `json:"log_level"`   // debug, info, warn, error, none
	LogFormat             string `json:"log_format"`  // text, color, excel
	LogColumns            string `json:"log_columns"` // comma separated: num, time, pid, source
	LogPath               string `json:"log_path,omitempty"`
	StrictNumbers         bool   `json:"strict_numbers"`
	RightAssociativePower bool   `json:"right_associative_power"`
	NoColor               bool   `json:"no_color"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:   "none",
		LogFormat:  "color",
		LogColumns: "num,source",
	}
}

// GetConfigPath returns the default location of the configuration file.
func GetConfigPath() string {
	return filepath.Join(defaultConfigDir(), "config.json")
}

func defaultConfigDir() string {
	switch runtime.GOOS {
	case "windows":
		if appData := strings.TrimSpace(os.Getenv("APPDATA")); appData != "" {
			return filepath.Join(appData, "libcalc")
		}
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, "AppData", "Roaming", "libcalc")
	default:
		if configHome := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); configHome != "" {
			return filepath.Join(configHome, "libcalc")
		}
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, ".config", "libcalc")
	}
}

// Load reads the configuration at path. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration to path, creating its directory.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

// ApplyEnv overrides fields from LIBCALC_* variables and NO_COLOR. lookup is
// usually os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	boolean := func(key string, dst *bool) error {
		v, ok := lookup(key)
		if !ok || strings.TrimSpace(v) == "" {
			return nil
		}
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = b
		return nil
	}

	str("LIBCALC_LOG_LEVEL", &c.LogLevel)
	str("LIBCALC_LOG_FORMAT", &c.LogFormat)
	str("LIBCALC_LOG_COLUMNS", &c.LogColumns)
	str("LIBCALC_LOG_PATH", &c.LogPath)

	// https://no-color.org: any non-empty value disables color.
	if v, ok := lookup("NO_COLOR"); ok && v != "" {
		c.NoColor = true
	}

	return errors.Join(
		boolean("LIBCALC_STRICT_NUMBERS", &c.StrictNumbers),
		boolean("LIBCALC_RIGHT_ASSOC_POW", &c.RightAssociativePower),
	)
}

// Validate checks the logging settings.
func (c *Config) Validate() error {
	var errs []error
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if _, err := logger.ParseColumns(c.LogColumns); err != nil {
		errs = append(errs, err)
	}
	if _, err := logger.ParseFormat(c.LogFormat, io.Discard); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
