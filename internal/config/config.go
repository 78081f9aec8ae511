// File: internal/config/config.go

package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigPaths holds all relevant paths for the application
type ConfigPaths struct {
	BaseDir      string `yaml:"base_dir"`      // Base directory for config files
	ActiveConfig string `yaml:"active_config"` // Path to the config file
	DataDir      string `yaml:"data_dir"`      // Directory for application data
	DBFile       string `yaml:"db_file"`       // Path to the history database
	LogDir       string `yaml:"log_dir"`       // Directory for log files
}

// Config holds all application configuration
type Config struct {
	SystemPaths ConfigPaths   `yaml:"system_paths"`
	Log         LogConfig     `yaml:"log"`
	Storage     StorageConfig `yaml:"storage"`
	History     HistoryConfig `yaml:"history"`
	Upload      UploadConfig  `yaml:"upload"`
	QR          QRConfig      `yaml:"qr"`
	Panel       PanelConfig   `yaml:"panel"`
	Server      ServerConfig  `yaml:"server"`
}

// LogConfig holds logging-related configuration
type LogConfig struct {
	Level             string `yaml:"level"`
	Format            string `yaml:"format"` // "json" or "console"
	EnableFileLogging bool   `yaml:"enable_file_logging"`
}

// StorageConfig holds storage-related configuration
type StorageConfig struct {
	DBPath     string `yaml:"db_path"`
	Bucket     string `yaml:"bucket"`
	HistoryKey string `yaml:"history_key"`
}

// HistoryConfig bounds the recent-items history
type HistoryConfig struct {
	Limit       int `yaml:"limit"`
	LabelLength int `yaml:"label_length"`
}

// UploadConfig configures remote hosting of files
type UploadConfig struct {
	Enabled          bool          `yaml:"enabled"`
	Endpoint         string        `yaml:"endpoint"`
	MaxFileSize      int64         `yaml:"max_file_size"`
	Timeout          time.Duration `yaml:"timeout"`
	ThumbnailMaxSize int64         `yaml:"thumbnail_max_size"`
}

// QRConfig configures symbol rendering
type QRConfig struct {
	Width          int    `yaml:"width"`
	Height         int    `yaml:"height"`
	DefaultPayload string `yaml:"default_payload"`
	RecoveryLevel  string `yaml:"recovery_level"`
}

// PanelConfig configures the history panel gestures
type PanelConfig struct {
	DragThreshold float64 `yaml:"drag_threshold"`
}

// ServerConfig holds configuration for the HTTP server
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Addr returns host:port
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// Replaceable for tests
var (
	getConfigDir = defaultConfigDir
	getDataDir   = defaultDataDir
)

func defaultConfigDir() (string, error) {
	if dir := os.Getenv("CLIPQR_CONFIG_DIR"); dir != "" {
		return dir, nil
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(configDir, "ClipQR"), nil
	case "darwin":
		return filepath.Join(configDir, "com.berrythewa.clipqr"), nil
	default:
		return filepath.Join(configDir, "clipqr"), nil
	}
}

func defaultDataDir() (string, error) {
	if dir := os.Getenv("CLIPQR_DATA_DIR"); dir != "" {
		return dir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	switch runtime.GOOS {
	case "windows":
		if appData, err := os.UserConfigDir(); err == nil {
			return filepath.Join(appData, "ClipQR", "Data"), nil
		}
		return filepath.Join(homeDir, "AppData", "Local", "ClipQR"), nil
	case "darwin":
		return filepath.Join(homeDir, "Library", "Application Support", "ClipQR"), nil
	default:
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
			return filepath.Join(xdg, "clipqr"), nil
		}
		return filepath.Join(homeDir, ".clipqr"), nil
	}
}

// GetConfigPaths returns the platform-specific configuration paths. No
// directories are created.
func GetConfigPaths() (*ConfigPaths, error) {
	baseDir, err := getConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config directory: %w", err)
	}
	dataDir, err := getDataDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory: %w", err)
	}
	return &ConfigPaths{
		BaseDir:      baseDir,
		ActiveConfig: filepath.Join(baseDir, "config.yaml"),
		DataDir:      dataDir,
		DBFile:       filepath.Join(dataDir, "clipqr.db"),
		LogDir:       filepath.Join(dataDir, "logs"),
	}, nil
}

// DefaultConfig returns a new Config with default values
func DefaultConfig() *Config {
	paths, err := GetConfigPaths()
	if err != nil {
		paths = &ConfigPaths{
			BaseDir:      ".",
			ActiveConfig: "config.yaml",
			DataDir:      ".",
			DBFile:       "clipqr.db",
			LogDir:       "logs",
		}
	}

	return &Config{
		SystemPaths: *paths,
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Storage: StorageConfig{
			DBPath:     paths.DBFile,
			Bucket:     "clipqr",
			HistoryKey: "recent-items",
		},
		History: HistoryConfig{
			Limit:       100,
			LabelLength: 50,
		},
		Upload: UploadConfig{
			Enabled:          true,
			Endpoint:         "https://tmpfiles.org/api/v1/upload",
			MaxFileSize:      100 * 1024 * 1024, // 100MB
			Timeout:          60 * time.Second,
			ThumbnailMaxSize: 512 * 1024,
		},
		QR: QRConfig{
			Width:          200,
			Height:         200,
			DefaultPayload: "https://github.com/vxncius-dev",
			RecoveryLevel:  "medium",
		},
		Panel: PanelConfig{
			DragThreshold: 25,
		},
		Server: ServerConfig{
			Host: "localhost",
			Port: 8080,
		},
	}
}

// Load loads the configuration from the specified file, creating it with
// defaults when it does not exist. Environment overrides apply last.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		paths, err := GetConfigPaths()
		if err != nil {
			return nil, err
		}
		configPath = paths.ActiveConfig
	}

	cfg := DefaultConfig()
	data, err := os.ReadFile(configPath)
	switch {
	case os.IsNotExist(err):
		if err := cfg.Save(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		// Unmarshal over the defaults so missing keys keep their default
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}
	cfg.SystemPaths.ActiveConfig = configPath

	overrideFromEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save saves the configuration to the specified file
func (c *Config) Save(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks the configuration for values the application cannot run with
func (c *Config) Validate() error {
	var problems []string
	if c.History.Limit <= 0 {
		problems = append(problems, "history.limit must be positive")
	}
	if c.History.LabelLength <= 0 {
		problems = append(problems, "history.label_length must be positive")
	}
	if c.Upload.MaxFileSize <= 0 {
		problems = append(problems, "upload.max_file_size must be positive")
	}
	if c.Upload.Enabled && c.Upload.Endpoint == "" {
		problems = append(problems, "upload.endpoint is required when uploads are enabled")
	}
	if c.QR.Width <= 0 || c.QR.Height <= 0 {
		problems = append(problems, "qr.width and qr.height must be positive")
	}
	if strings.TrimSpace(c.QR.DefaultPayload) == "" {
		problems = append(problems, "qr.default_payload is required")
	}
	switch strings.ToLower(c.QR.RecoveryLevel) {
	case "", "low", "medium", "high", "highest":
	default:
		problems = append(problems, fmt.Sprintf("qr.recovery_level %q is unknown", c.QR.RecoveryLevel))
	}
	if c.Panel.DragThreshold <= 0 {
		problems = append(problems, "panel.drag_threshold must be positive")
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		problems = append(problems, "server.port is out of range")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// overrideFromEnv overrides configuration values from environment variables
func overrideFromEnv(config *Config) {
	if val := os.Getenv("CLIPQR_DATA_DIR"); val != "" {
		config.SystemPaths.DataDir = val
		config.SystemPaths.DBFile = filepath.Join(val, "clipqr.db")
		config.SystemPaths.LogDir = filepath.Join(val, "logs")
		config.Storage.DBPath = config.SystemPaths.DBFile
	}
	if val := os.Getenv("CLIPQR_LOG_LEVEL"); val != "" {
		config.Log.Level = val
	}
	if val := os.Getenv("CLIPQR_UPLOAD_ENABLED"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			config.Upload.Enabled = enabled
		}
	}
	if val := os.Getenv("CLIPQR_UPLOAD_ENDPOINT"); val != "" {
		config.Upload.Endpoint = val
	}
	if val := os.Getenv("CLIPQR_MAX_FILE_SIZE"); val != "" {
		if size, err := strconv.ParseInt(val, 10, 64); err == nil {
			config.Upload.MaxFileSize = size
		}
	}
	if val := os.Getenv("CLIPQR_HISTORY_LIMIT"); val != "" {
		if limit, err := strconv.Atoi(val); err == nil {
			config.History.Limit = limit
		}
	}
	if val := os.Getenv("CLIPQR_SERVER_ADDR"); val != "" {
		if host, port, err := net.SplitHostPort(val); err == nil {
			if p, err := strconv.Atoi(port); err == nil {
				config.Server.Host = host
				config.Server.Port = p
			}
		}
	}
}
