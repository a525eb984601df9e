// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Store backends.
const (
	BackendBadger = "badger"
	BackendSQLite = "sqlite"
)

// Config holds the application configuration.
type Config struct {
	App    AppConfig
	Logger LoggerConfig
	Data   DataConfig
	Server ServerConfig
	Import ImportConfig
	Search SearchConfig
	Render RenderConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string

	// OpenFragment names the post opened at startup, e.g. "#post-<id>".
	OpenFragment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// DataConfig holds post storage configuration.
type DataConfig struct {
	BasePath   string // holds the store and the search index
	Backend    string // badger or sqlite
	StorageKey string // slot key the collection is stored under
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Port         string        // Server port (default: 8080)
	ReadTimeout  time.Duration // HTTP read timeout (default: 15s)
	WriteTimeout time.Duration // HTTP write timeout (default: 15s)
	IdleTimeout  time.Duration // HTTP idle timeout (default: 60s)
	CORSOrigins  []string      // Allowed browser origins (default: *)
}

// ImportConfig holds inbox configuration.
type ImportConfig struct {
	// WatchDir is auto-imported when set; empty disables the inbox.
	WatchDir string
}

// SearchConfig holds full-text search configuration.
type SearchConfig struct {
	Enabled bool
}

// RenderConfig holds standalone page configuration.
type RenderConfig struct {
	// ViewTTL is how long a standalone view link stays valid.
	ViewTTL time.Duration
}

// IndexPath returns the directory of the full-text index.
func (c *Config) IndexPath() string {
	return filepath.Join(c.Data.BasePath, "search")
}

// StorePath returns the location of the slot backend.
func (c *Config) StorePath() string {
	if c.Data.Backend == BackendSQLite {
		return filepath.Join(c.Data.BasePath, "posts.db")
	}
	return filepath.Join(c.Data.BasePath, "posts")
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig(args []string) (*Config, error) {
	fs := flag.NewFlagSet("inkwell", flag.ContinueOnError)

	env := fs.String("env", "", "Environment (development, staging, production)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	dataPath := fs.String("data-path", "", "Base path for post storage and search index")
	backend := fs.String("store-backend", "", "Store backend (badger, sqlite)")
	storageKey := fs.String("storage-key", "", "Key the post collection is stored under")

	// Server flags
	serverPort := fs.String("port", "", "Server port (default: 8080)")
	readTimeout := fs.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := fs.String("write-timeout", "", "HTTP write timeout (default: 15s)")
	idleTimeout := fs.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	corsOrigins := fs.String("cors-origins", "", "Comma-separated allowed origins (default: *)")

	importWatchDir := fs.String("import-watch-dir", "", "Directory whose JSON files are imported automatically")
	searchEnabled := fs.String("search-enabled", "", "Maintain a full-text index (default: true)")
	viewTTL := fs.String("view-ttl", "", "Lifetime of standalone view links (default: 10m)")

	openFragment := fs.String("open", "", "Location fragment of the post to open at startup (e.g. #post-<id>)")

	envFile := fs.String("env-file", ".env", "Path to .env file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment:  getConfigValue(*env, "ENV", "development"),
			OpenFragment: getConfigValue(*openFragment, "INITIAL_FRAGMENT", ""),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Data: DataConfig{
			BasePath:   getConfigValue(*dataPath, "DATA_PATH", ""),
			Backend:    strings.ToLower(getConfigValue(*backend, "STORE_BACKEND", BackendBadger)),
			StorageKey: getConfigValue(*storageKey, "STORAGE_KEY", "simple_blog_posts_v1"),
		},
		Server: ServerConfig{
			Port:        getConfigValue(*serverPort, "SERVER_PORT", "8080"),
			CORSOrigins: splitList(getConfigValue(*corsOrigins, "CORS_ORIGINS", "*")),
		},
		Import: ImportConfig{
			WatchDir: getConfigValue(*importWatchDir, "IMPORT_WATCH_DIR", ""),
		},
		Search: SearchConfig{
			Enabled: getBoolConfigValue(*searchEnabled, "SEARCH_ENABLED", true),
		},
	}

	var err error
	if cfg.Server.ReadTimeout, err = getDurationConfigValue(*readTimeout, "SERVER_READ_TIMEOUT", "15s"); err != nil {
		return nil, fmt.Errorf("invalid read timeout: %w", err)
	}
	if cfg.Server.WriteTimeout, err = getDurationConfigValue(*writeTimeout, "SERVER_WRITE_TIMEOUT", "15s"); err != nil {
		return nil, fmt.Errorf("invalid write timeout: %w", err)
	}
	if cfg.Server.IdleTimeout, err = getDurationConfigValue(*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s"); err != nil {
		return nil, fmt.Errorf("invalid idle timeout: %w", err)
	}
	if cfg.Render.ViewTTL, err = getDurationConfigValue(*viewTTL, "VIEW_TTL", "10m"); err != nil {
		return nil, fmt.Errorf("invalid view ttl: %w", err)
	}

	if err := cfg.expandDataPath(); err != nil {
		return nil, fmt.Errorf("invalid data path: %w", err)
	}

	if err := cfg.expandImportWatchDir(); err != nil {
		return nil, fmt.Errorf("invalid import watch dir: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Data.BasePath == "" {
		return errors.New("data base path cannot be empty after expansion")
	}

	switch c.Data.Backend {
	case BackendBadger, BackendSQLite:
	default:
		return fmt.Errorf("invalid store backend: %s (must be badger or sqlite)", c.Data.Backend)
	}

	if c.Data.StorageKey == "" {
		return errors.New("storage key cannot be empty")
	}

	if c.Render.ViewTTL < 0 {
		return fmt.Errorf("invalid view ttl: %s", c.Render.ViewTTL)
	}

	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	// Expand tilde.
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	// Make absolute if needed.
	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// expandDataPath expands ~ and makes the path absolute.
// Defaults to ~/Inkwell/data.
func (c *Config) expandDataPath() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	defaultPath := filepath.Join(homeDir, "Inkwell", "data")

	expanded, err := expandPath(c.Data.BasePath, defaultPath)
	if err != nil {
		return err
	}
	c.Data.BasePath = expanded
	return nil
}

// expandImportWatchDir expands ~ and makes the path absolute.
// If empty, leaves it empty so the inbox stays off.
func (c *Config) expandImportWatchDir() error {
	if c.Import.WatchDir == "" {
		return nil
	}

	expanded, err := expandPath(c.Import.WatchDir, "")
	if err != nil {
		return err
	}
	c.Import.WatchDir = expanded
	return nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	// Priority 1: Command-line flag.
	if flagValue != "" {
		return flagValue
	}

	// Priority 2: Environment variable.
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}

	// Priority 3: Default value.
	return defaultValue
}

// getBoolConfigValue returns a bool from flag, env var, or default.
// Accepts: "true", "1", "yes" (case-insensitive) as true; anything else is false.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	strValue = strings.ToLower(strValue)
	return strValue == "true" || strValue == "1" || strValue == "yes"
}

// getDurationConfigValue parses a duration from flag, env var, or default.
func getDurationConfigValue(flagValue, envKey, defaultValue string) (time.Duration, error) {
	strValue := getConfigValue(flagValue, envKey, defaultValue)
	d, err := time.ParseDuration(strValue)
	if err != nil {
		return 0, fmt.Errorf("%s %q: %w", envKey, strValue, err)
	}
	return d, nil
}

// splitList splits a comma-separated value, dropping empty entries.
func splitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments.
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		// Only set if not already set (env vars take precedence over .env file).
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
