package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const appName = "lifehub"

// RuntimeConfig holds everything the binaries need to wire a session.
type RuntimeConfig struct {
	DataDir              string        `yaml:"data_dir"`
	Storage              StorageConfig `yaml:"storage"`
	Advisor              AdvisorConfig `yaml:"advisor"`
	Log                  LogConfig     `yaml:"log"`
	DesktopNotifications bool          `yaml:"desktop_notifications"`
	ReminderLeadMinutes  int           `yaml:"reminder_lead_minutes"`
	SchedulerBuffer      int           `yaml:"scheduler_buffer"`
	WatchEnabled         bool          `yaml:"watch"`
}

type StorageConfig struct {
	Backend string `yaml:"backend"`
	Driver  string `yaml:"driver"`
}

type AdvisorConfig struct {
	APIKey         string `yaml:"api_key"`
	Model          string `yaml:"model"`
	Endpoint       string `yaml:"endpoint"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		DataDir: DefaultDataDir(),
		Storage: StorageConfig{
			Backend: "sqlite",
			Driver:  "sqlite3",
		},
		Advisor: AdvisorConfig{
			TimeoutSeconds: 30,
		},
		Log: LogConfig{
			Level: "info",
		},
		DesktopNotifications: false,
		ReminderLeadMinutes:  5,
		SchedulerBuffer:      64,
		WatchEnabled:         true,
	}
}

// Load applies defaults, then the YAML file named by LIFEHUB_CONFIG_PATH,
// then LIFEHUB_* environment overrides.
func Load() (RuntimeConfig, error) {
	cfg := DefaultRuntimeConfig()
	if path := os.Getenv("LIFEHUB_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return RuntimeConfig{}, err
		}
	}
	cfg = RuntimeConfigFromEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return RuntimeConfig{}, err
	}
	return cfg, nil
}

func RuntimeConfigFromEnv(base RuntimeConfig) RuntimeConfig {
	cfg := base
	if v := getEnvString("LIFEHUB_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := getEnvString("LIFEHUB_STORAGE_BACKEND"); v != "" {
		cfg.Storage.Backend = v
	}
	if v := getEnvString("LIFEHUB_SQLITE_DRIVER"); v != "" {
		cfg.Storage.Driver = v
	}
	if v := getEnvString("LIFEHUB_ADVISOR_API_KEY"); v != "" {
		cfg.Advisor.APIKey = v
	}
	if v := getEnvString("LIFEHUB_ADVISOR_MODEL"); v != "" {
		cfg.Advisor.Model = v
	}
	if v := getEnvString("LIFEHUB_ADVISOR_ENDPOINT"); v != "" {
		cfg.Advisor.Endpoint = v
	}
	if v, ok := getEnvInt("LIFEHUB_ADVISOR_TIMEOUT_SECONDS"); ok && v > 0 {
		cfg.Advisor.TimeoutSeconds = v
	}
	if v := getEnvString("LIFEHUB_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := getEnvString("LIFEHUB_LOG_PATH"); v != "" {
		cfg.Log.Path = v
	}
	if v, ok := getEnvBool("LIFEHUB_DESKTOP_NOTIFICATIONS"); ok {
		cfg.DesktopNotifications = v
	}
	if v, ok := getEnvInt("LIFEHUB_REMINDER_LEAD_MINUTES"); ok && v >= 0 {
		cfg.ReminderLeadMinutes = v
	}
	if v, ok := getEnvInt("LIFEHUB_SCHEDULER_BUFFER"); ok && v > 0 {
		cfg.SchedulerBuffer = v
	}
	if v, ok := getEnvBool("LIFEHUB_WATCH"); ok {
		cfg.WatchEnabled = v
	}
	return cfg
}

func (c RuntimeConfig) Validate() error {
	switch strings.ToLower(c.Storage.Backend) {
	case "sqlite", "file", "memory":
	default:
		return fmt.Errorf("invalid storage backend %q", c.Storage.Backend)
	}
	if strings.EqualFold(c.Storage.Backend, "sqlite") {
		switch c.Storage.Driver {
		case "sqlite3", "sqlite":
		default:
			return fmt.Errorf("invalid sqlite driver %q", c.Storage.Driver)
		}
	}
	if strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("data dir is required")
	}
	return nil
}

// StoragePath is the sqlite database file or the document directory,
// depending on the backend.
func (c RuntimeConfig) StoragePath() string {
	if strings.EqualFold(c.Storage.Backend, "sqlite") {
		return filepath.Join(c.DataDir, appName+".db")
	}
	return c.DataDir
}

func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func DefaultDataDir() string {
	return defaultDataDirForOS(runtime.GOOS)
}

func defaultDataDirForOS(goos string) string {
	home, _ := os.UserHomeDir()

	switch goos {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", appName)
	case "windows":
		if dir := os.Getenv("LOCALAPPDATA"); dir != "" {
			return filepath.Join(dir, appName)
		}
		return filepath.Join(home, appName)
	default:
		if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
			return filepath.Join(dir, appName)
		}
		return filepath.Join(home, ".local", "share", appName)
	}
}

func loadFromFile(path string, cfg *RuntimeConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func getEnvString(name string) string {
	return strings.TrimSpace(os.Getenv(name))
}

func getEnvInt(name string) (int, bool) {
	raw := getEnvString(name)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.ToLower(getEnvString(name))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
