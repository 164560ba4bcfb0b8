package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"alfredoptarigan/careerpulse/internal/logger"
)

type Config struct {
	Server ServerConfig  `yaml:"server"`
	Gemini GeminiConfig  `yaml:"gemini"`
	Chat   ChatConfig    `yaml:"chat"`
	Resume ResumeConfig  `yaml:"resume"`
	Log    logger.Config `yaml:"log"`
}

type ServerConfig struct {
	Port         string        `yaml:"port"`
	Env          string        `yaml:"env"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

type GeminiConfig struct {
	APIKey         string        `yaml:"api_key"`
	Model          string        `yaml:"model"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

type ChatConfig struct {
	// ContextLimit is the number of resume characters bound into the
	// mentor's system instruction. Longer resumes are cut silently.
	ContextLimit    int           `yaml:"context_limit"`
	StreamTimeout   time.Duration `yaml:"stream_timeout"`
	SessionTTL      time.Duration `yaml:"session_ttl"`
	JanitorInterval time.Duration `yaml:"janitor_interval"`
}

type ResumeConfig struct {
	MinLength   int   `yaml:"min_length"`
	MaxFileSize int64 `yaml:"max_file_size"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         "3000",
			Env:          "development",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 120 * time.Second,
		},
		Gemini: GeminiConfig{
			Model:          "gemini-2.5-flash",
			RequestTimeout: 90 * time.Second,
		},
		Chat: ChatConfig{
			ContextLimit:    10000,
			StreamTimeout:   2 * time.Minute,
			SessionTTL:      30 * time.Minute,
			JanitorInterval: time.Minute,
		},
		Resume: ResumeConfig{
			MinLength:   50,
			MaxFileSize: 10485760,
		},
		Log: logger.Config{
			Level:  "info",
			Format: "pretty",
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file at
// path, and then the environment (.env included). Environment wins.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Info().Msg("No .env file found. Using environment and defaults.")
	}

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.Server.Port = getEnv("PORT", cfg.Server.Port)
	cfg.Server.Env = getEnv("ENV", cfg.Server.Env)
	cfg.Server.ReadTimeout = getEnvAsDuration("SERVER_READ_TIMEOUT", cfg.Server.ReadTimeout)
	cfg.Server.WriteTimeout = getEnvAsDuration("SERVER_WRITE_TIMEOUT", cfg.Server.WriteTimeout)

	cfg.Gemini.APIKey = getEnv("GEMINI_API_KEY", cfg.Gemini.APIKey)
	cfg.Gemini.Model = getEnv("GEMINI_MODEL", cfg.Gemini.Model)
	cfg.Gemini.RequestTimeout = getEnvAsDuration("LLM_REQUEST_TIMEOUT", cfg.Gemini.RequestTimeout)

	cfg.Chat.ContextLimit = getEnvAsInt("CHAT_CONTEXT_LIMIT", cfg.Chat.ContextLimit)
	cfg.Chat.StreamTimeout = getEnvAsDuration("CHAT_STREAM_TIMEOUT", cfg.Chat.StreamTimeout)
	cfg.Chat.SessionTTL = getEnvAsDuration("CHAT_SESSION_TTL", cfg.Chat.SessionTTL)
	cfg.Chat.JanitorInterval = getEnvAsDuration("CHAT_JANITOR_INTERVAL", cfg.Chat.JanitorInterval)

	cfg.Resume.MinLength = getEnvAsInt("MIN_RESUME_LENGTH", cfg.Resume.MinLength)
	cfg.Resume.MaxFileSize = getEnvAsInt64("MAX_FILE_SIZE", cfg.Resume.MaxFileSize)

	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("LOG_FORMAT", cfg.Log.Format)

	return cfg, nil
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if c.Gemini.APIKey == "" {
		errs = append(errs, errors.New("GEMINI_API_KEY is required"))
	}
	if c.Gemini.Model == "" {
		errs = append(errs, errors.New("GEMINI_MODEL must not be empty"))
	}
	if c.Chat.ContextLimit <= 0 {
		errs = append(errs, fmt.Errorf("CHAT_CONTEXT_LIMIT must be positive, got %d", c.Chat.ContextLimit))
	}
	return errors.Join(errs...)
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	return defaultValue
}
