package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Auth     AuthConfig     `toml:"auth"`
	AI       AIConfig       `toml:"ai"`
	Cache    CacheConfig    `toml:"cache"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port                   int      `toml:"port"`
	AllowedOrigins         []string `toml:"allowed_origins"`
	ReadTimeoutSeconds     int      `toml:"read_timeout_seconds"`
	WriteTimeoutSeconds    int      `toml:"write_timeout_seconds"`
	ShutdownTimeoutSeconds int      `toml:"shutdown_timeout_seconds"`
	LogLevel               string   `toml:"log_level"`
	LogFormat              string   `toml:"log_format"`
}

// DatabaseConfig selects the storage backend by URL scheme.
type DatabaseConfig struct {
	URL string `toml:"url"`
}

// AuthConfig holds password hashing and token settings.
type AuthConfig struct {
	TokenSecret   string `toml:"token_secret"`
	TokenFormat   string `toml:"token_format"`
	BcryptCost    int    `toml:"bcrypt_cost"`
	TokenTTLHours int    `toml:"token_ttl_hours"`
}

// AIConfig holds AI provider settings.
type AIConfig struct {
	Provider       string `toml:"provider"`
	APIKey         string `toml:"api_key"`
	Model          string `toml:"model"`
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// CacheConfig holds optional Redis cache settings. An empty RedisURL
// disables caching.
type CacheConfig struct {
	RedisURL   string `toml:"redis_url"`
	TTLSeconds int    `toml:"ttl_seconds"`
}

// Storage backends recognised by DatabaseConfig.Driver.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMongo    = "mongodb"
)

const defaultDatabaseURL = "sqlite://data/mealcraft.db"

var defaultAllowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"}

const defaultConfigContent = `[server]
port = 5000
allowed_origins = ["http://localhost:3000", "http://localhost:5173"]
read_timeout_seconds = 15
write_timeout_seconds = 90        # must exceed ai.timeout_seconds
shutdown_timeout_seconds = 10
log_level = "info"                # "debug", "info", "warn" or "error"
log_format = "text"               # "text" or "json"

[database]
url = "sqlite://data/mealcraft.db" # or postgres://... or mongodb://... (or set DATABASE_URL)

[auth]
token_secret = ""                 # Required (or set JWT_SECRET env var)
token_format = "jwt"              # "jwt" or "paseto"
bcrypt_cost = 10
token_ttl_hours = 168

[ai]
provider = "openai"               # "openai" or "anthropic"
api_key = ""                      # Your API key (or set AI_API_KEY env var)
model = "gpt-4.1-mini"
base_url = ""                     # Empty uses the provider's public API
timeout_seconds = 60

[cache]
redis_url = ""                    # e.g. redis://localhost:6379/0 (or set REDIS_URL); empty disables
ttl_seconds = 600
`

// LoadDotEnv loads variables from a .env file into the process environment
// without overriding variables that are already set. A missing file is not
// an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	slog.Info("loaded environment file", "path", path)
	return nil
}

// Load reads and parses the TOML config from the given path. If the file does
// not exist, it creates a default config file at that path. Environment
// variables override values from the file with highest priority.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := createDefault(path); err != nil {
			return nil, fmt.Errorf("creating default config: %w", err)
		}
		slog.Info("created default config file", "path", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Validate explicitly-set values before applying defaults, so that
	// explicitly writing "port = 0" is an error rather than silently
	// being replaced with the default.
	if err := validateExplicit(&cfg, md); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	applyDefaults(&cfg)
	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, fmt.Errorf("applying environment: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// createDefault writes the default config content to the given path,
// creating any parent directories as needed.
func createDefault(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigContent), 0o644); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}

// validateExplicit checks values that were explicitly set in the TOML file.
// This catches cases like "port = 0" which would otherwise be silently
// replaced by the default value.
func validateExplicit(cfg *Config, md toml.MetaData) error {
	if md.IsDefined("server", "port") {
		if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
			return fmt.Errorf("invalid server.port %d: must be between 1 and 65535", cfg.Server.Port)
		}
	}
	if md.IsDefined("auth", "bcrypt_cost") {
		if cfg.Auth.BcryptCost < 4 || cfg.Auth.BcryptCost > 31 {
			return fmt.Errorf("invalid auth.bcrypt_cost %d: must be between 4 and 31", cfg.Auth.BcryptCost)
		}
	}
	if md.IsDefined("auth", "token_ttl_hours") && cfg.Auth.TokenTTLHours < 1 {
		return fmt.Errorf("invalid auth.token_ttl_hours %d: must be >= 1", cfg.Auth.TokenTTLHours)
	}
	if md.IsDefined("ai", "timeout_seconds") && cfg.AI.TimeoutSeconds < 1 {
		return fmt.Errorf("invalid ai.timeout_seconds %d: must be >= 1", cfg.AI.TimeoutSeconds)
	}
	if md.IsDefined("cache", "ttl_seconds") && cfg.Cache.TTLSeconds < 1 {
		return fmt.Errorf("invalid cache.ttl_seconds %d: must be >= 1", cfg.Cache.TTLSeconds)
	}
	return nil
}

// applyDefaults sets default values for any zero-valued fields.
func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 5000
	}
	if cfg.Server.AllowedOrigins == nil {
		cfg.Server.AllowedOrigins = append([]string(nil), defaultAllowedOrigins...)
	}
	if cfg.Server.ReadTimeoutSeconds == 0 {
		cfg.Server.ReadTimeoutSeconds = 15
	}
	if cfg.Server.WriteTimeoutSeconds == 0 {
		cfg.Server.WriteTimeoutSeconds = 90
	}
	if cfg.Server.ShutdownTimeoutSeconds == 0 {
		cfg.Server.ShutdownTimeoutSeconds = 10
	}
	if cfg.Server.LogLevel == "" {
		cfg.Server.LogLevel = "info"
	}
	if cfg.Server.LogFormat == "" {
		cfg.Server.LogFormat = "text"
	}
	if cfg.Database.URL == "" {
		cfg.Database.URL = defaultDatabaseURL
	}
	if cfg.Auth.TokenFormat == "" {
		cfg.Auth.TokenFormat = "jwt"
	}
	if cfg.Auth.BcryptCost == 0 {
		cfg.Auth.BcryptCost = 10
	}
	if cfg.Auth.TokenTTLHours == 0 {
		cfg.Auth.TokenTTLHours = 168
	}
	if cfg.AI.Provider == "" {
		cfg.AI.Provider = "openai"
	}
	if cfg.AI.Model == "" {
		switch cfg.AI.Provider {
		case "anthropic":
			cfg.AI.Model = "claude-haiku-4-5"
		default:
			cfg.AI.Model = "gpt-4.1-mini"
		}
	}
	if cfg.AI.TimeoutSeconds == 0 {
		cfg.AI.TimeoutSeconds = 60
	}
	if cfg.Cache.TTLSeconds == 0 {
		cfg.Cache.TTLSeconds = 600
	}
}

// applyEnvOverrides applies environment variable overrides. Environment
// variables take highest priority over config file values.
//
// Priority for ai.api_key:
//  1. AI_API_KEY (generic, highest)
//  2. ANTHROPIC_API_KEY (when provider is "anthropic")
//  3. OPENAI_API_KEY (when provider is "openai")
//
// DATABASE_URL wins over MONGO_URI when both are set.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		cfg.Server.Port = port
	}

	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.Server.AllowedOrigins = splitList(v)
	}

	if v := os.Getenv("MONGO_URI"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}

	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Cache.RedisURL = v
	}

	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.Auth.TokenSecret = v
	}

	// Apply provider-specific env var first (lower priority).
	switch cfg.AI.Provider {
	case "anthropic":
		if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
			cfg.AI.APIKey = v
		}
	case "openai":
		if v := os.Getenv("OPENAI_API_KEY"); v != "" {
			cfg.AI.APIKey = v
		}
	}

	// AI_API_KEY overrides everything (highest priority).
	if v := os.Getenv("AI_API_KEY"); v != "" {
		cfg.AI.APIKey = v
	}
	return nil
}

// validate checks that configuration values are within acceptable ranges.
func validate(cfg *Config) error {
	switch cfg.AI.Provider {
	case "anthropic", "openai":
		// valid
	default:
		return fmt.Errorf("invalid ai.provider %q: must be \"anthropic\" or \"openai\"", cfg.AI.Provider)
	}

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d: must be between 1 and 65535", cfg.Server.Port)
	}

	switch cfg.Server.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid server.log_format %q: must be \"text\" or \"json\"", cfg.Server.LogFormat)
	}
	if _, err := cfg.Server.SlogLevel(); err != nil {
		return err
	}

	if _, err := cfg.Database.Driver(); err != nil {
		return err
	}

	switch cfg.Auth.TokenFormat {
	case "jwt", "paseto":
	default:
		return fmt.Errorf("invalid auth.token_format %q: must be \"jwt\" or \"paseto\"", cfg.Auth.TokenFormat)
	}
	if cfg.Auth.TokenSecret == "" {
		return errors.New("auth.token_secret is empty: set it in the config file or via JWT_SECRET environment variable")
	}

	if cfg.AI.APIKey == "" {
		slog.Warn("ai.api_key is empty: set it in the config file or via AI_API_KEY environment variable")
	}

	return nil
}

// Driver reports which storage backend the URL selects: postgres:// and
// postgresql:// pick PostgreSQL, mongodb:// and mongodb+srv:// pick MongoDB,
// and sqlite://, file: or a bare path pick SQLite.
func (d DatabaseConfig) Driver() (string, error) {
	scheme, _, found := strings.Cut(d.URL, "://")
	if !found {
		return DriverSQLite, nil
	}
	switch strings.ToLower(scheme) {
	case "sqlite", "sqlite3", "file":
		return DriverSQLite, nil
	case "postgres", "postgresql":
		return DriverPostgres, nil
	case "mongodb", "mongodb+srv":
		return DriverMongo, nil
	default:
		return "", fmt.Errorf("invalid database.url: unsupported scheme %q", scheme)
	}
}

// SQLitePath returns the file path of a SQLite URL.
func (d DatabaseConfig) SQLitePath() string {
	for _, prefix := range []string{"sqlite://", "sqlite3://", "file://", "file:"} {
		if rest, ok := strings.CutPrefix(d.URL, prefix); ok {
			return rest
		}
	}
	return d.URL
}

// SlogLevel parses LogLevel.
func (s ServerConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid server.log_level %q: %w", s.LogLevel, err)
	}
	return level, nil
}

// ReadTimeout, WriteTimeout and ShutdownTimeout convert the configured
// seconds to durations.
func (s ServerConfig) ReadTimeout() time.Duration {
	return time.Duration(s.ReadTimeoutSeconds) * time.Second
}

func (s ServerConfig) WriteTimeout() time.Duration {
	return time.Duration(s.WriteTimeoutSeconds) * time.Second
}

func (s ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(s.ShutdownTimeoutSeconds) * time.Second
}

// TokenTTL returns the configured token lifetime.
func (a AuthConfig) TokenTTL() time.Duration {
	return time.Duration(a.TokenTTLHours) * time.Hour
}

// Timeout returns the per-call provider timeout.
func (a AIConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}

func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
