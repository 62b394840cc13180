// Package config loads server configuration from flags, environment variables and .env files.
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

// Store drivers.
const (
	StoreBadger = "badger"
	StoreSQLite = "sqlite"
)

// LLM providers.
const (
	LLMNone      = "none"
	LLMOpenAI    = "openai"
	LLMAnthropic = "anthropic"
)

// Config holds the application configuration.
type Config struct {
	App       AppConfig
	Logger    LoggerConfig
	Data      DataConfig
	Server    ServerConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	LLM       LLMConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
	File  string // Optional rotated JSON log file
}

// DataConfig holds document store configuration.
type DataConfig struct {
	BasePath string
	Driver   string // badger or sqlite
}

// StorePath returns the database location for the configured driver.
func (d DataConfig) StorePath() string {
	if d.Driver == StoreSQLite {
		return filepath.Join(d.BasePath, "prompthub.sqlite")
	}
	return filepath.Join(d.BasePath, "db")
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Name         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	CORSOrigins  []string
}

// AuthConfig holds identity token configuration.
type AuthConfig struct {
	// PASETO v4 symmetric key for identity tokens (32 bytes), set by auth.LoadOrGenerateKey.
	TokenKey      []byte
	TokenDuration time.Duration
}

// RateLimitConfig bounds write requests per client IP.
type RateLimitConfig struct {
	PerMinute int
	Burst     int
}

// LLMConfig selects the optional text-generation service used by the analyzer.
type LLMConfig struct {
	Provider    string
	APIKey      string
	Model       string
	BaseURL     string
	Timeout     time.Duration
	MaxAttempts int
}

// Enabled reports whether a provider is configured.
func (c LLMConfig) Enabled() bool {
	return c.Provider != "" && c.Provider != LLMNone
}

// LoadConfig loads configuration using the process arguments.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load builds configuration with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func Load(args []string) (*Config, error) {
	fs := flag.NewFlagSet("prompthub", flag.ContinueOnError)

	env := fs.String("env", "", "Environment (development, staging, production)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	logFile := fs.String("log-file", "", "Optional path of a rotated JSON log file")
	dataPath := fs.String("data-path", "", "Base path for database and key files")
	storeDriver := fs.String("store", "", "Document store driver (badger, sqlite)")
	serverName := fs.String("server-name", "", "Name for the server")

	serverPort := fs.String("port", "", "Server port (default: 8080)")
	readTimeout := fs.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := fs.String("write-timeout", "", "HTTP write timeout (default: 30s)")
	idleTimeout := fs.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	corsOrigins := fs.String("cors-origins", "", "Comma-separated allowed CORS origins")

	tokenDuration := fs.String("token-duration", "", "Identity token lifetime (e.g., 720h)")
	rateLimit := fs.String("rate-limit", "", "Write requests per minute per client (default: 60)")
	rateBurst := fs.String("rate-burst", "", "Write request burst per client (default: 10)")

	llmProvider := fs.String("llm-provider", "", "Text generation provider (none, openai, anthropic)")
	llmModel := fs.String("llm-model", "", "Model name for the text generation provider")

	envFile := fs.String("env-file", ".env", "Path to .env file")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
			File:  getConfigValue(*logFile, "LOG_FILE", ""),
		},
		Data: DataConfig{
			BasePath: getConfigValue(*dataPath, "DATA_PATH", ""),
			Driver:   strings.ToLower(getConfigValue(*storeDriver, "STORE_DRIVER", StoreBadger)),
		},
		Server: ServerConfig{
			Name:        getConfigValue(*serverName, "SERVER_NAME", "PromptHub"),
			Port:        getConfigValue(*serverPort, "SERVER_PORT", "8080"),
			CORSOrigins: splitList(getConfigValue(*corsOrigins, "CORS_ORIGINS", "*")),
		},
		RateLimit: RateLimitConfig{
			PerMinute: getIntConfigValue(*rateLimit, "RATE_LIMIT_PER_MINUTE", 60),
			Burst:     getIntConfigValue(*rateBurst, "RATE_LIMIT_BURST", 10),
		},
		LLM: LLMConfig{
			Provider:    strings.ToLower(getConfigValue(*llmProvider, "LLM_PROVIDER", LLMNone)),
			APIKey:      getConfigValue("", "LLM_API_KEY", ""),
			Model:       getConfigValue(*llmModel, "LLM_MODEL", ""),
			BaseURL:     getConfigValue("", "LLM_BASE_URL", ""),
			MaxAttempts: getIntConfigValue("", "LLM_MAX_ATTEMPTS", 2),
		},
	}

	durations := []struct {
		dst      *time.Duration
		flag     string
		env      string
		fallback string
	}{
		{&cfg.Auth.TokenDuration, *tokenDuration, "TOKEN_DURATION", "720h"},
		{&cfg.Server.ReadTimeout, *readTimeout, "SERVER_READ_TIMEOUT", "15s"},
		{&cfg.Server.WriteTimeout, *writeTimeout, "SERVER_WRITE_TIMEOUT", "30s"},
		{&cfg.Server.IdleTimeout, *idleTimeout, "SERVER_IDLE_TIMEOUT", "60s"},
		{&cfg.LLM.Timeout, "", "LLM_TIMEOUT", "20s"},
	}
	for _, d := range durations {
		raw := getConfigValue(d.flag, d.env, d.fallback)
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", d.env, raw, err)
		}
		*d.dst = parsed
	}

	if err := cfg.expandDataPath(); err != nil {
		return nil, fmt.Errorf("invalid data path: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
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

	if c.Data.Driver != StoreBadger && c.Data.Driver != StoreSQLite {
		return fmt.Errorf("invalid store driver: %s (must be badger or sqlite)", c.Data.Driver)
	}

	if c.RateLimit.PerMinute <= 0 || c.RateLimit.Burst <= 0 {
		return errors.New("rate limit and burst must be positive")
	}

	switch c.LLM.Provider {
	case LLMNone:
	case LLMOpenAI, LLMAnthropic:
		if c.LLM.APIKey == "" {
			return fmt.Errorf("LLM_API_KEY is required for provider %s", c.LLM.Provider)
		}
	default:
		return fmt.Errorf("invalid llm provider: %s (must be none, openai, or anthropic)", c.LLM.Provider)
	}

	if c.LLM.MaxAttempts < 1 {
		c.LLM.MaxAttempts = 1
	}

	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty, defaultPath is returned.
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

// expandDataPath defaults the data path to ~/PromptHub/data.
func (c *Config) expandDataPath() error {
	defaultPath := ""
	if c.Data.BasePath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		defaultPath = filepath.Join(homeDir, "PromptHub", "data")
	}

	expanded, err := expandPath(c.Data.BasePath, defaultPath)
	if err != nil {
		return err
	}
	c.Data.BasePath = expanded
	return nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envKey != "" {
		if envValue := os.Getenv(envKey); envValue != "" {
			return envValue
		}
	}
	return defaultValue
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

// splitList splits a comma-separated value, dropping empty entries.
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
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
