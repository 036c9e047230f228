package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config represents the main application configuration structure
// containing all configuration sections
type Config struct {
	Server  ServerConfig  `toml:"server"`  // HTTP server settings
	Logging LoggingConfig `toml:"logging"` // Application logging settings
	Storage StorageConfig `toml:"storage"` // Data persistence settings
	Dataset DatasetConfig `toml:"dataset"` // Historical observation dataset settings
	Model   ModelConfig   `toml:"model"`   // Regression model artifact settings
	Cities  CitiesConfig  `toml:"cities"`  // Served city list settings
	Chat    ChatConfig    `toml:"chat"`    // AI assistant settings
	OpenAI  OpenAIConfig  `toml:"openai"`  // OpenAI service settings (base URL, etc.)
}

// ServerConfig contains HTTP server configuration settings
type ServerConfig struct {
	Port               int      `toml:"port"`                  // HTTP port for the server
	Host               string   `toml:"host"`                  // Host address to bind to (e.g., 127.0.0.1 for localhost only, 0.0.0.0 for all interfaces)
	CORSAllowedOrigins []string `toml:"cors_allowed_origins"`  // List of origins allowed for CORS requests (use ["*"] for all origins)
	ReadTimeoutSecs    int      `toml:"read_timeout_seconds"`  // Maximum duration for reading the entire request (0 = no timeout)
	WriteTimeoutSecs   int      `toml:"write_timeout_seconds"` // Maximum duration for writing the response (0 = no timeout)
	IdleTimeoutSecs    int      `toml:"idle_timeout_seconds"`  // Maximum duration to wait for the next request when keep-alives are enabled
	StaticFilesDir     string   `toml:"static_files_dir"`      // Directory to serve the dashboard frontend from (e.g., "static")
}

// LoggingConfig contains application logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`  // Log level: "debug", "info", "warn", or "error"
	Format string `toml:"format"` // Log format: "json" (structured) or "console" (human-readable)
}

// StorageConfig contains data persistence configuration
type StorageConfig struct {
	SQLitePath string `toml:"sqlite_path"` // Path to the SQLite database file holding accounts, feedback and ratings
}

// DatasetConfig contains settings for the historical observation dataset.
// The CSV is probed at each listed path in order; the first one that
// exists is used. A missing dataset is a fatal startup error.
type DatasetConfig struct {
	Paths []string `toml:"paths"` // Candidate paths for the city_day.csv dataset, checked in order
}

// ModelConfig contains settings for the serialized regression model.
// Like the dataset, the artifact is probed at each listed path in order
// and its absence aborts process startup.
type ModelConfig struct {
	Paths []string `toml:"paths"` // Candidate paths for the aqi_model.json artifact, checked in order
}

// CitiesConfig contains the fixed list of served cities
type CitiesConfig struct {
	Names   []string `toml:"names"`   // Display names returned by GET /cities
	Default string   `toml:"default"` // Fallback city when a request carries no usable name
}

// ChatConfig contains AI assistant configuration
type ChatConfig struct {
	// Provider selection. Allowed values:
	// - "openai": OpenAI-compatible chat completions endpoint
	// - "gemini": Google Gemini via the genai SDK
	Provider string `toml:"provider"`

	OpenAIAPIKey string `toml:"openai_api_key"` // OpenAI API key (empty disables the openai provider)
	GeminiAPIKey string `toml:"gemini_api_key"` // Gemini API key (empty disables the gemini provider)

	Model          string  `toml:"model"`           // Model name (e.g., "gpt-4o-mini" or "gemini-2.0-flash")
	MaxTokens      int     `toml:"max_tokens"`      // Maximum tokens in the assistant reply
	Temperature    float64 `toml:"temperature"`     // Response randomness (0.0-1.0)
	TimeoutSeconds int     `toml:"timeout_seconds"` // HTTP timeout for provider requests in seconds
}

// OpenAIConfig contains OpenAI service configuration such as base URL and
// endpoint path overrides. This allows using self-hosted or proxy
// endpoints instead of the default api.openai.com.
type OpenAIConfig struct {
	// BaseURL is the base endpoint for OpenAI API requests, for example:
	// - "https://api.openai.com" (default)
	// - "https://your-proxy.example.com/openai"
	BaseURL string `toml:"base_url"`

	// ChatCompletionsPath is the path used for chat completions.
	// Default: /v1/chat/completions
	ChatCompletionsPath string `toml:"chat_completions_path"`
}

// Load loads the configuration from the specified file path
func Load(path string) (*Config, error) {
	var config Config

	// Check if the file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	// Read the config file
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	return &config, nil
}

// LoadWithFallback loads the configuration by checking multiple locations in order of preference
func LoadWithFallback(preferredPath string) (*Config, error) {
	// List of paths to check in order of preference
	searchPaths := []string{
		preferredPath,         // User-specified path (if provided)
		"configs/config.toml", // configs/ folder
		"config.toml",         // Root directory
	}

	// Remove duplicates while preserving order
	uniquePaths := make([]string, 0, len(searchPaths))
	seen := make(map[string]bool)
	for _, path := range searchPaths {
		if path != "" && !seen[path] {
			uniquePaths = append(uniquePaths, path)
			seen[path] = true
		}
	}

	var lastErr error
	for _, path := range uniquePaths {
		if _, err := os.Stat(path); err == nil {
			// File exists, try to load it
			config, err := Load(path)
			if err != nil {
				lastErr = fmt.Errorf("failed to load config from %s: %w", path, err)
				continue
			}
			return config, nil
		}
		lastErr = fmt.Errorf("config file not found: %s", path)
	}

	return nil, fmt.Errorf("config file not found in any of the expected locations: %v. Last error: %w", uniquePaths, lastErr)
}

// Validate validates the configuration and applies defaults
func (c *Config) Validate() error {
	// Validate server config
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.StaticFilesDir == "" {
		c.Server.StaticFilesDir = "static"
	}

	// Validate logging config
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
		// Valid log level
	default:
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	switch c.Logging.Format {
	case "", "json", "console":
		// Valid log format
	default:
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}

	// Validate storage config
	if c.Storage.SQLitePath == "" {
		c.Storage.SQLitePath = "airaware.db"
	}

	// Default artifact probe locations mirror the layout the trainer
	// writes: repository root first, then model/.
	if len(c.Dataset.Paths) == 0 {
		c.Dataset.Paths = []string{"city_day.csv", "model/city_day.csv"}
	}
	if len(c.Model.Paths) == 0 {
		c.Model.Paths = []string{"aqi_model.json", "model/aqi_model.json"}
	}

	// Validate cities config
	if len(c.Cities.Names) == 0 {
		c.Cities.Names = []string{"New Delhi", "Mumbai", "Kolkata", "Chennai", "Bengaluru"}
	}
	if c.Cities.Default == "" {
		c.Cities.Default = "Delhi"
	}

	// Validate chat config
	switch c.Chat.Provider {
	case "", "openai", "gemini":
		// Valid provider
	default:
		return fmt.Errorf("invalid chat provider: %s (must be 'openai' or 'gemini')", c.Chat.Provider)
	}
	if c.Chat.Provider == "" {
		c.Chat.Provider = "openai"
	}
	if c.Chat.Model == "" {
		if c.Chat.Provider == "gemini" {
			c.Chat.Model = "gemini-2.0-flash"
		} else {
			c.Chat.Model = "gpt-4o-mini"
		}
	}
	if c.Chat.MaxTokens <= 0 {
		c.Chat.MaxTokens = 120
	}
	if c.Chat.TimeoutSeconds <= 0 {
		c.Chat.TimeoutSeconds = 30
	}

	// Ensure OpenAI base URL and endpoint path are set to sensible
	// defaults if not configured. These can be overridden in
	// configs/config.toml under [openai] to point at a proxy.
	if c.OpenAI.BaseURL == "" {
		c.OpenAI.BaseURL = "https://api.openai.com"
	}
	if c.OpenAI.ChatCompletionsPath == "" {
		c.OpenAI.ChatCompletionsPath = "/v1/chat/completions"
	}

	return nil
}

// ChatAPIKey returns the API key for the configured chat provider.
// An empty key means the assistant runs in fallback-only mode.
func (c *Config) ChatAPIKey() string {
	if c.Chat.Provider == "gemini" {
		return c.Chat.GeminiAPIKey
	}
	return c.Chat.OpenAIAPIKey
}

// ResolvePath returns the first path in candidates that exists on disk.
// Startup artifacts (dataset CSV, model JSON) are resolved once through
// this; a miss on every candidate is a fatal configuration error.
func ResolvePath(candidates []string) (string, error) {
	for _, path := range candidates {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("none of the candidate paths exist: %v", candidates)
}
