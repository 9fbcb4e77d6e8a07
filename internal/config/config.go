// Package config provides application configuration management with support
// for environment variables, command-line flags, and .env files.
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

// Config holds the application configuration.
type Config struct {
	App     AppConfig
	Logger  LoggerConfig
	Server  ServerConfig
	Store   StoreConfig
	Catalog CatalogConfig
	Scorer  ScorerConfig
	Feed    FeedConfig
	Cluster ClusterConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Name         string
	Port         string        // Server port (default: 8080)
	ReadTimeout  time.Duration // HTTP read timeout (default: 15s)
	WriteTimeout time.Duration // HTTP write timeout (default: 15s)
	IdleTimeout  time.Duration // HTTP idle timeout (default: 60s)
}

// StoreConfig holds database configuration.
type StoreConfig struct {
	// Path is the Badger database directory (default: ~/myfi/db).
	Path string
}

// CatalogConfig holds catalog import configuration.
type CatalogConfig struct {
	// SeedFile is an optional catalog JSON file loaded at startup and
	// reloaded whenever the data-collection pipeline rewrites it.
	SeedFile string
	// Watch enables the fsnotify reload watcher on SeedFile.
	Watch bool
}

// EngineConfig describes how to launch one scoring engine.
type EngineConfig struct {
	// Command is the program to run (e.g. "python3").
	Command string
	// Args are fixed leading arguments (e.g. the script path). Request
	// arguments are appended after these.
	Args []string
}

// ScorerConfig holds external scoring engine configuration.
type ScorerConfig struct {
	ContentBased  EngineConfig
	Collaborative EngineConfig
}

// FeedConfig holds feed assembly tuning. The acclaimed thresholds mirror the
// historical values and are deliberately configurable rather than fixed.
type FeedConfig struct {
	// RowWidth is the display row width; every shelf is trimmed to a
	// multiple of it (default: 6).
	RowWidth int
	// ShelfCapacity caps each generic shelf (default: 12).
	ShelfCapacity int
	// RatedHistoryThreshold is the number of rated finished books at which
	// routing switches to collaborative filtering, inclusive (default: 10).
	RatedHistoryThreshold int
	// AcclaimedMinRating is the exclusive lower ratings-average bound for
	// the hidden-gems shelf (default: 4.0).
	AcclaimedMinRating float64
	// AcclaimedMaxCount is the exclusive upper ratings-count bound for the
	// hidden-gems shelf (default: 10000).
	AcclaimedMaxCount int
	// RecommendTimeout bounds each feed build's scorer calls (default: 15s).
	RecommendTimeout time.Duration
}

// ClusterConfig holds similarity-cluster layout defaults.
type ClusterConfig struct {
	// SimilarityThreshold is the minimum pairwise score for a similarity
	// link between catalog books (default: 0.7).
	SimilarityThreshold float64
	// RecommendationThreshold is the minimum score for a link between a
	// highly-rated source and a recommended book (default: 0.3).
	RecommendationThreshold float64
	// TickInterval is the streaming simulation step period (default: 33ms).
	TickInterval time.Duration
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig() (*Config, error) {
	env := flag.String("env", "", "Environment (development, staging, production)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	serverName := flag.String("server-name", "", "Name for the server")
	serverPort := flag.String("port", "", "Server port (default: 8080)")
	readTimeout := flag.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := flag.String("write-timeout", "", "HTTP write timeout (default: 15s)")
	idleTimeout := flag.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	dbPath := flag.String("db-path", "", "Badger database directory")
	catalogFile := flag.String("catalog-file", "", "Catalog seed JSON file")
	catalogWatch := flag.String("catalog-watch", "", "Reload catalog file on change (default: true when a file is set)")
	contentCmd := flag.String("content-scorer", "", "Content-based scorer command line")
	collaborativeCmd := flag.String("collaborative-scorer", "", "Collaborative scorer command line")
	recommendTimeout := flag.String("recommend-timeout", "", "Deadline for scorer calls per feed build (default: 15s)")
	envFile := flag.String("env-file", ".env", "Path to .env file")

	flag.Parse()

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Server: ServerConfig{
			Name: getConfigValue(*serverName, "SERVER_NAME", "MyFi Server"),
			Port: getConfigValue(*serverPort, "SERVER_PORT", "8080"),
		},
		Store: StoreConfig{
			Path: getConfigValue(*dbPath, "DB_PATH", ""),
		},
		Catalog: CatalogConfig{
			SeedFile: getConfigValue(*catalogFile, "CATALOG_FILE", ""),
			Watch:    getBoolConfigValue(*catalogWatch, "CATALOG_WATCH", true),
		},
		Scorer: ScorerConfig{
			ContentBased:  parseEngine(getConfigValue(*contentCmd, "CONTENT_SCORER", "python3 services/recommendation_service.py")),
			Collaborative: parseEngine(getConfigValue(*collaborativeCmd, "COLLABORATIVE_SCORER", "python3 services/item_collaborative_filtering.py")),
		},
		Feed: FeedConfig{
			RowWidth:              getIntConfigValue("", "FEED_ROW_WIDTH", 6),
			ShelfCapacity:         getIntConfigValue("", "FEED_SHELF_CAPACITY", 12),
			RatedHistoryThreshold: getIntConfigValue("", "FEED_RATED_THRESHOLD", 10),
			AcclaimedMinRating:    getFloatConfigValue("", "FEED_ACCLAIMED_MIN_RATING", 4.0),
			AcclaimedMaxCount:     getIntConfigValue("", "FEED_ACCLAIMED_MAX_COUNT", 10000),
		},
		Cluster: ClusterConfig{
			SimilarityThreshold:     getFloatConfigValue("", "CLUSTER_SIMILARITY_THRESHOLD", 0.7),
			RecommendationThreshold: getFloatConfigValue("", "CLUSTER_RECOMMENDATION_THRESHOLD", 0.3),
			TickInterval:            33 * time.Millisecond,
		},
	}

	var err error
	if cfg.Server.ReadTimeout, err = parseDurationValue(*readTimeout, "SERVER_READ_TIMEOUT", "15s"); err != nil {
		return nil, err
	}
	if cfg.Server.WriteTimeout, err = parseDurationValue(*writeTimeout, "SERVER_WRITE_TIMEOUT", "15s"); err != nil {
		return nil, err
	}
	if cfg.Server.IdleTimeout, err = parseDurationValue(*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s"); err != nil {
		return nil, err
	}
	if cfg.Feed.RecommendTimeout, err = parseDurationValue(*recommendTimeout, "RECOMMEND_TIMEOUT", "15s"); err != nil {
		return nil, err
	}

	if err := cfg.expandStorePath(); err != nil {
		return nil, fmt.Errorf("invalid db path: %w", err)
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

	if c.Store.Path == "" {
		return errors.New("db path cannot be empty after expansion")
	}

	if c.Scorer.ContentBased.Command == "" || c.Scorer.Collaborative.Command == "" {
		return errors.New("scorer commands cannot be empty")
	}

	if c.Feed.RowWidth < 1 {
		return fmt.Errorf("invalid feed row width: %d", c.Feed.RowWidth)
	}
	if c.Feed.ShelfCapacity < c.Feed.RowWidth {
		return fmt.Errorf("shelf capacity %d is below row width %d", c.Feed.ShelfCapacity, c.Feed.RowWidth)
	}

	return nil
}

// parseEngine splits a command line into command and fixed leading args.
func parseEngine(commandLine string) EngineConfig {
	fields := strings.Fields(commandLine)
	if len(fields) == 0 {
		return EngineConfig{}
	}
	return EngineConfig{Command: fields[0], Args: fields[1:]}
}

// expandStorePath expands ~ and makes the path absolute; defaults to
// ~/myfi/db.
func (c *Config) expandStorePath() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	defaultPath := filepath.Join(homeDir, "myfi", "db")

	expanded, err := expandPath(c.Store.Path, defaultPath)
	if err != nil {
		return err
	}
	c.Store.Path = expanded
	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// getConfigValue returns a value from flag, env var, or default, in that
// order of precedence.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// getBoolConfigValue returns a bool from flag, env var, or default.
// Accepts "true", "1", "yes" (case-insensitive) as true.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	strValue = strings.ToLower(strValue)
	return strValue == "true" || strValue == "1" || strValue == "yes"
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	var result int
	if _, err := fmt.Sscanf(strValue, "%d", &result); err != nil {
		return defaultValue
	}
	return result
}

// getFloatConfigValue returns a float64 from flag, env var, or default.
func getFloatConfigValue(flagValue, envKey string, defaultValue float64) float64 {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	var result float64
	if _, err := fmt.Sscanf(strValue, "%g", &result); err != nil {
		return defaultValue
	}
	return result
}

// parseDurationValue resolves a duration from flag, env var, or default.
func parseDurationValue(flagValue, envKey, defaultValue string) (time.Duration, error) {
	strValue := getConfigValue(flagValue, envKey, defaultValue)
	d, err := time.ParseDuration(strValue)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", envKey, strValue, err)
	}
	return d, nil
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.Trim(strings.TrimSpace(parts[1]), `"'`)

		// Env vars take precedence over .env file.
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
