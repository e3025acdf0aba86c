package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the complete application configuration
type Config struct {
	// Module discovery and loading
	Modules ModulesConfig `yaml:"modules" json:"modules"`

	// Load status history
	Database DatabaseConfig `yaml:"database" json:"database"`

	// Introspection API
	Server ServerConfig `yaml:"server" json:"server"`

	// Module directory watching
	Watch WatchConfig `yaml:"watch" json:"watch"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// SearchRootConfig is one (binary dir, data dir) template pair
type SearchRootConfig struct {
	Bin  string `yaml:"bin" json:"bin"`
	Data string `yaml:"data" json:"data"`
}

// ModulesConfig holds module core configuration
type ModulesConfig struct {
	SearchRoots   []SearchRootConfig `yaml:"search_roots" json:"search_roots"`
	Load          []string           `yaml:"load" json:"load" env:"OBS_MODULES_LOAD"`
	Locale        string             `yaml:"locale" json:"locale" env:"OBS_LOCALE" default:"en-US"`
	DefaultLocale string             `yaml:"default_locale" json:"default_locale" env:"OBS_DEFAULT_LOCALE" default:"en-US"`
	APIVersion    uint32             `yaml:"api_version" json:"api_version" env:"OBS_API_VERSION"`
	Loader        string             `yaml:"loader" json:"loader" env:"OBS_MODULE_LOADER" default:"go"`
	Extension     string             `yaml:"extension" json:"extension" env:"OBS_MODULE_EXTENSION"`
}

// DatabaseConfig holds status store configuration
type DatabaseConfig struct {
	Enabled  bool   `yaml:"enabled" json:"enabled" env:"OBS_DATABASE_ENABLED"`
	Type     string `yaml:"type" json:"type" env:"DATABASE_TYPE" default:"sqlite"`
	Path     string `yaml:"path" json:"path" env:"OBS_DATABASE_PATH"`
	URL      string `yaml:"url" json:"url" env:"DATABASE_URL"`
	Host     string `yaml:"host" json:"host" env:"POSTGRES_HOST" default:"localhost"`
	Port     int    `yaml:"port" json:"port" env:"POSTGRES_PORT" default:"5432"`
	Username string `yaml:"username" json:"username" env:"POSTGRES_USER" default:"obs"`
	Password string `yaml:"password" json:"-" env:"POSTGRES_PASSWORD"`
	Name     string `yaml:"name" json:"name" env:"POSTGRES_DB" default:"obs"`
	DataDir  string `yaml:"data_dir" json:"data_dir" env:"OBS_DATA_DIR" default:"./obs-data"`
	LogQuery bool   `yaml:"log_queries" json:"log_queries" env:"DB_LOG_QUERIES"`
}

// ServerConfig holds introspection server configuration
type ServerConfig struct {
	Host         string        `yaml:"host" json:"host" env:"OBS_HOST" default:"127.0.0.1"`
	Port         int           `yaml:"port" json:"port" env:"OBS_PORT" default:"4455"`
	ReadTimeout  time.Duration `yaml:"read_timeout" json:"read_timeout" env:"OBS_READ_TIMEOUT" default:"15s"`
	WriteTimeout time.Duration `yaml:"write_timeout" json:"write_timeout" env:"OBS_WRITE_TIMEOUT" default:"15s"`
}

// WatchConfig holds module directory watch configuration
type WatchConfig struct {
	Enabled  bool          `yaml:"enabled" json:"enabled" env:"OBS_WATCH"`
	Debounce time.Duration `yaml:"debounce" json:"debounce" env:"OBS_WATCH_DEBOUNCE" default:"500ms"`
	AutoLoad bool          `yaml:"auto_load" json:"auto_load" env:"OBS_WATCH_AUTO_LOAD"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level" env:"OBS_LOG_LEVEL" default:"info"`
	Format string `yaml:"format" json:"format" env:"OBS_LOG_FORMAT" default:"text"`
	Color  bool   `yaml:"color" json:"color" env:"OBS_LOG_COLOR"`
}

// ConfigManager manages application configuration
type ConfigManager struct {
	config     *Config
	configPath string
	mu         sync.RWMutex
}

var (
	globalConfigManager *ConfigManager
	configOnce          sync.Once
)

// GetConfigManager returns the global configuration manager instance
func GetConfigManager() *ConfigManager {
	configOnce.Do(func() {
		globalConfigManager = NewConfigManager()
	})
	return globalConfigManager
}

// NewConfigManager creates a new configuration manager
func NewConfigManager() *ConfigManager {
	return &ConfigManager{
		config: DefaultConfig(),
	}
}

// DefaultConfig returns the default application configuration
func DefaultConfig() *Config {
	return &Config{
		Modules: ModulesConfig{
			SearchRoots: []SearchRootConfig{
				{Bin: "./obs-plugins/%module%/bin", Data: "./obs-plugins/%module%/data"},
				{Bin: "./obs-plugins", Data: "./data/obs-plugins/%module%"},
			},
			Locale:        "en-US",
			DefaultLocale: "en-US",
			Loader:        "go",
		},
		Database: DatabaseConfig{
			Enabled:  true,
			Type:     "sqlite",
			Host:     "localhost",
			Port:     5432,
			Username: "obs",
			Name:     "obs",
			DataDir:  "./obs-data",
		},
		Server: ServerConfig{
			Host:         "127.0.0.1",
			Port:         4455,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		Watch: WatchConfig{
			Debounce: 500 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Color:  true,
		},
	}
}

// LoadConfig loads configuration from file and environment variables
func (cm *ConfigManager) LoadConfig(configPath string) error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	cm.configPath = configPath
	newConfig := DefaultConfig()

	if configPath != "" && fileExists(configPath) {
		if err := loadFromFile(configPath, newConfig); err != nil {
			return fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := loadStructFromEnv(reflect.ValueOf(newConfig).Elem()); err != nil {
		return fmt.Errorf("failed to load config from environment: %w", err)
	}

	if err := validateConfig(newConfig); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	applyDerivedConfig(newConfig)
	cm.config = newConfig
	return nil
}

// GetConfig returns the current configuration (thread-safe)
func (cm *ConfigManager) GetConfig() *Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	configCopy := *cm.config
	return &configCopy
}

// ConfigPath returns the path the configuration was loaded from
func (cm *ConfigManager) ConfigPath() string {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.configPath
}

func loadFromFile(path string, config *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, config)
	case ".json":
		return json.Unmarshal(data, config)
	default:
		return fmt.Errorf("unsupported config file format: %s", ext)
	}
}

// loadStructFromEnv applies env overrides. Unlike file values, `default`
// tags only fill fields that are still zero after the file was applied.
func loadStructFromEnv(v reflect.Value) error {
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		if !field.CanSet() {
			continue
		}

		if field.Kind() == reflect.Struct && field.Type() != reflect.TypeOf(time.Duration(0)) {
			if err := loadStructFromEnv(field); err != nil {
				return err
			}
			continue
		}

		envTag := fieldType.Tag.Get("env")
		if envTag == "" {
			continue
		}

		envValue := os.Getenv(envTag)
		if envValue == "" && field.IsZero() {
			envValue = fieldType.Tag.Get("default")
		}

		if envValue == "" {
			continue
		}

		if err := setFieldValue(field, envValue); err != nil {
			return fmt.Errorf("failed to set field %s: %w", fieldType.Name, err)
		}
	}

	return nil
}

func setFieldValue(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			duration, err := time.ParseDuration(value)
			if err != nil {
				return err
			}
			field.SetInt(int64(duration))
		} else {
			intVal, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return err
			}
			field.SetInt(intVal)
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		uintVal, err := strconv.ParseUint(value, 0, 64)
		if err != nil {
			return err
		}
		field.SetUint(uintVal)
	case reflect.Bool:
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(boolVal)
	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice type: %v", field.Type())
		}
		values := strings.Split(value, ",")
		for i, v := range values {
			values[i] = strings.TrimSpace(v)
		}
		field.Set(reflect.ValueOf(values))
	default:
		return fmt.Errorf("unsupported field type: %v", field.Kind())
	}

	return nil
}

func validateConfig(config *Config) error {
	if len(config.Modules.SearchRoots) == 0 {
		return fmt.Errorf("at least one module search root is required")
	}

	for i, root := range config.Modules.SearchRoots {
		if root.Bin == "" || root.Data == "" {
			return fmt.Errorf("search root %d needs both bin and data templates", i)
		}
	}

	switch config.Modules.Loader {
	case "go", "native":
	default:
		return fmt.Errorf("unsupported module loader: %s", config.Modules.Loader)
	}

	if config.Database.Type != "sqlite" && config.Database.Type != "postgres" {
		return fmt.Errorf("unsupported database type: %s", config.Database.Type)
	}

	if config.Server.Port < 1 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	return nil
}

func applyDerivedConfig(config *Config) {
	if config.Database.Path == "" && config.Database.Type == "sqlite" {
		config.Database.Path = filepath.Join(config.Database.DataDir, "modules.db")
	}

	if config.Modules.DefaultLocale == "" {
		config.Modules.DefaultLocale = "en-US"
	}
	if config.Modules.Locale == "" {
		config.Modules.Locale = config.Modules.DefaultLocale
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Global convenience functions

// Get returns the current global configuration
func Get() *Config {
	return GetConfigManager().GetConfig()
}

// Load loads configuration from the specified path
func Load(configPath string) error {
	return GetConfigManager().LoadConfig(configPath)
}
