package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	Page      PageConfig      `toml:"page"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
	Logging   LoggingConfig   `toml:"logging"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host       string `toml:"host"`
	Port       int    `toml:"port"`
	CORSOrigin string `toml:"cors_origin"`
	// AdminToken guards the admin routes. Empty disables them.
	AdminToken string `toml:"admin_token"`
}

// Addr returns host:port for http.Server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig holds the connection URL, "sqlite://path" or "postgres://dsn".
type DatabaseConfig struct {
	URL string `toml:"url"`
}

// PageConfig controls the generated page.
type PageConfig struct {
	OutputFile            string `toml:"output_file"`
	PostsPerBatch         int    `toml:"posts_per_batch"`
	InitialVisibleBatches int    `toml:"initial_visible_batches"`
	MaxPosts              int    `toml:"max_posts"`
	TraditionalChinese    bool   `toml:"traditional_chinese"`
	PosterName            string `toml:"poster_name"`
	PosterID              string `toml:"poster_id"`
	VoteAPIURL            string `toml:"vote_api_url"`
}

// RateLimitConfig limits vote submissions per client IP.
type RateLimitConfig struct {
	Interval string `toml:"interval"`
	Burst    int    `toml:"burst"`
}

// Every parses Interval, falling back to three seconds.
func (r RateLimitConfig) Every() time.Duration {
	d, err := time.ParseDuration(r.Interval)
	if err != nil || d <= 0 {
		return 3 * time.Second
	}
	return d
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level      string   `toml:"level"`
	Outputs    []string `toml:"outputs"`
	FilePath   string   `toml:"file_path"`
	MaxSizeMB  int      `toml:"max_size_mb"`
	MaxBackups int      `toml:"max_backups"`
}

// LoadFromFile loads configuration with priority: defaults -> file -> env.
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> env.
// Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// LoadDotEnv loads .env from the working directory, then ~/.env. Variables
// already set in the environment are not overwritten. It returns the files
// that were loaded.
func LoadDotEnv() []string {
	candidates := []string{".env"}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".env"))
	}

	var loaded []string
	for _, path := range candidates {
		if err := godotenv.Load(path); err == nil {
			loaded = append(loaded, path)
		}
	}
	return loaded
}

// applyEnvOverrides applies PICKBOARD_* environment variable overrides to
// config. The unprefixed names (PORT, DATABASE_URL, CORS_ORIGIN,
// X_ADMIN_TOKEN) are honored too, for hosting platforms that set them.
func applyEnvOverrides(config *Config) {
	if host := firstEnv("PICKBOARD_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if port := firstEnv("PICKBOARD_SERVER_PORT", "PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if origin := firstEnv("PICKBOARD_CORS_ORIGIN", "CORS_ORIGIN"); origin != "" {
		config.Server.CORSOrigin = origin
	}
	if token := firstEnv("PICKBOARD_ADMIN_TOKEN", "X_ADMIN_TOKEN"); token != "" {
		config.Server.AdminToken = token
	}
	if url := firstEnv("PICKBOARD_DATABASE_URL", "DATABASE_URL"); url != "" {
		config.Database.URL = url
	}
	if out := firstEnv("PICKBOARD_OUTPUT_FILE"); out != "" {
		config.Page.OutputFile = out
	}
	if zh := firstEnv("PICKBOARD_TRADITIONAL_CHINESE"); zh != "" {
		if b, err := strconv.ParseBool(zh); err == nil {
			config.Page.TraditionalChinese = b
		}
	}
	if api := firstEnv("PICKBOARD_VOTE_API_URL"); api != "" {
		config.Page.VoteAPIURL = api
	}
	if level := firstEnv("PICKBOARD_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

// ApplyFlagOverrides applies command-line flag overrides to config.
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port out of range: %d", c.Server.Port))
	}
	if !strings.HasPrefix(c.Database.URL, "sqlite://") && !strings.HasPrefix(c.Database.URL, "postgres://") {
		errs = append(errs, fmt.Errorf("database.url must start with sqlite:// or postgres://, got %q", c.Database.URL))
	}
	if c.Page.PostsPerBatch <= 0 {
		errs = append(errs, errors.New("page.posts_per_batch must be positive"))
	}
	if c.Page.MaxPosts <= 0 {
		errs = append(errs, errors.New("page.max_posts must be positive"))
	}
	return errors.Join(errs...)
}

// DiscoverFiles returns the first config file found in the usual places,
// or nil when there is none.
func DiscoverFiles() []string {
	for _, path := range []string{"pickboard.toml", filepath.Join("deployments", "local", "pickboard.toml")} {
		if _, err := os.Stat(path); err == nil {
			return []string{path}
		}
	}
	return nil
}
