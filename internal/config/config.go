package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/ptt-dev/ptt/internal/osutil"
)

const (
	// ConfigFile is the name of the TOML configuration file
	ConfigFile = "config.toml"
	// EnvFile is the optional dotenv file read from the working directory
	EnvFile = ".env"

	// BackendFile stores each blob as a text file in the data directory
	BackendFile = "file"
	// BackendSQLite stores each blob as a row of a SQLite key-value table
	BackendSQLite = "sqlite"
)

// Environment variables that override file settings.
const (
	EnvDataDir  = "PTT_DATA_DIR"
	EnvBackend  = "PTT_STORAGE_BACKEND"
	EnvLogLevel = "PTT_LOG_LEVEL"
	EnvTimezone = "PTT_TIMEZONE"
)

var validLogLevels = []string{"debug", "info", "warn", "error"}

// Config represents the application configuration
type Config struct {
	// DefaultProject is recorded when a session is finalized without a project
	DefaultProject string `toml:"default_project"`
	// DefaultCategory is recorded when a session is finalized without a category
	DefaultCategory string `toml:"default_category"`
	// ReminderMinutes is the reminder interval for new sessions (0 disables)
	ReminderMinutes int `toml:"reminder_minutes"`
	// StorageBackend selects where the two stores are persisted ("file" or "sqlite")
	StorageBackend string `toml:"storage_backend"`
	// DataDir overrides the directory holding persisted data (default: the config directory)
	DataDir string `toml:"data_dir"`
	// Timezone defines the timezone for time operations (IANA timezone name, e.g., "Europe/Zurich")
	Timezone string `toml:"timezone"`
	// LogLevel is one of debug, info, warn, error
	LogLevel string `toml:"log_level"`
	// Theme is the TUI color theme
	Theme string `toml:"theme"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		DefaultProject:  "ProjectTimeTracker",
		DefaultCategory: "Programming",
		ReminderMinutes: 0,
		StorageBackend:  BackendFile,
		DataDir:         "",
		Timezone:        "Local",
		LogLevel:        "warn",
		Theme:           "",
	}
}

// GetConfigPath returns the path to the config file.
// Creates the config directory if it doesn't exist.
func GetConfigPath() (string, error) {
	return osutil.AppFile(ConfigFile)
}

// Load reads and validates the config file at path. Missing keys keep their
// defaults.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadOrDefault loads the config file, falling back to DefaultConfig when it
// does not exist. A file that exists but is invalid is an error.
func LoadOrDefault(path string) (Config, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return Config{}, err
	}
	return Load(path)
}

// Normalize trims values and fills empty fields with defaults.
func (c *Config) Normalize() {
	def := DefaultConfig()

	c.DefaultProject = strings.TrimSpace(c.DefaultProject)
	if c.DefaultProject == "" {
		c.DefaultProject = def.DefaultProject
	}
	c.DefaultCategory = strings.TrimSpace(c.DefaultCategory)
	if c.DefaultCategory == "" {
		c.DefaultCategory = def.DefaultCategory
	}
	c.StorageBackend = strings.ToLower(strings.TrimSpace(c.StorageBackend))
	if c.StorageBackend == "" {
		c.StorageBackend = def.StorageBackend
	}
	c.DataDir = strings.TrimSpace(c.DataDir)
	c.Timezone = strings.TrimSpace(c.Timezone)
	if c.Timezone == "" {
		c.Timezone = def.Timezone
	}
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	c.Theme = strings.TrimSpace(c.Theme)
}

// Validate checks every field and reports all problems at once.
func (c Config) Validate() error {
	var errs []error

	if c.ReminderMinutes < 0 {
		errs = append(errs, fmt.Errorf("invalid reminder_minutes %d: must be >= 0", c.ReminderMinutes))
	}
	if c.StorageBackend != BackendFile && c.StorageBackend != BackendSQLite {
		errs = append(errs, fmt.Errorf("invalid storage_backend %q: must be %q or %q", c.StorageBackend, BackendFile, BackendSQLite))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err))
	}
	validLevel := false
	for _, l := range validLogLevels {
		if c.LogLevel == l {
			validLevel = true
			break
		}
	}
	if !validLevel {
		errs = append(errs, fmt.Errorf("invalid log_level %q: must be one of %s", c.LogLevel, strings.Join(validLogLevels, ", ")))
	}
	if strings.Contains(c.DefaultProject, " --- ") || strings.Contains(c.DefaultCategory, " --- ") {
		errs = append(errs, errors.New("default_project and default_category must not contain \" --- \""))
	}

	return errors.Join(errs...)
}

// Location resolves Timezone. "Local" maps to time.Local.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// MustLocation is Location with a fallback to time.Local.
func (c Config) MustLocation() *time.Location {
	loc, err := c.Location()
	if err != nil {
		return time.Local
	}
	return loc
}

// ResolveDataDir returns DataDir, or the application directory when unset.
// The directory is created if missing.
func (c Config) ResolveDataDir() (string, error) {
	if c.DataDir == "" {
		return osutil.AppDir()
	}
	if err := osutil.Provider.MkdirAll(c.DataDir, 0755); err != nil {
		return "", err
	}
	return c.DataDir, nil
}

// LoadEnvFile loads path into the process environment when it exists.
// Variables that are already set are not overridden.
func LoadEnvFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

// ApplyEnv overrides fields from environment variables looked up with
// lookup, then re-normalizes and validates.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvDataDir); ok {
		c.DataDir = v
	}
	if v, ok := lookup(EnvBackend); ok {
		c.StorageBackend = v
	}
	if v, ok := lookup(EnvLogLevel); ok {
		c.LogLevel = v
	}
	if v, ok := lookup(EnvTimezone); ok {
		c.Timezone = v
	}
	c.Normalize()
	return c.Validate()
}

// Resolve loads the config file and the environment the way the binary does.
func Resolve() (Config, string, error) {
	path, err := GetConfigPath()
	if err != nil {
		return Config{}, "", err
	}
	cfg, err := LoadOrDefault(path)
	if err != nil {
		return Config{}, path, err
	}
	if err := LoadEnvFile(EnvFile); err != nil {
		return Config{}, path, fmt.Errorf("load %s: %w", EnvFile, err)
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return Config{}, path, err
	}
	return cfg, path, nil
}

// Write encodes cfg as TOML at path.
func Write(path string, cfg Config) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if _, err := f.WriteString("# ptt configuration file\n\n"); err != nil {
		return err
	}
	return toml.NewEncoder(f).Encode(cfg)
}

// GenerateSampleConfig returns a commented config file with every default.
func GenerateSampleConfig() string {
	def := DefaultConfig()
	return fmt.Sprintf(`# ptt configuration file

# Recorded when a session ends without a project or category
default_project = %q
default_category = %q

# Reminder interval in minutes for new sessions (0 disables)
reminder_minutes = %d

# Where entries and pools are stored: "file" or "sqlite"
storage_backend = %q

# Directory for persisted data (empty: next to this file)
data_dir = ""

# Timezone: IANA timezone name (e.g., "Europe/Zurich") or "Local"
timezone = %q

# Log level: debug, info, warn, error
log_level = %q

# TUI theme (empty: default)
theme = ""
`, def.DefaultProject, def.DefaultCategory, def.ReminderMinutes, def.StorageBackend, def.Timezone, def.LogLevel)
}
