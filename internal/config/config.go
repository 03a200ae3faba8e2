// Package config loads Flowdex configuration from the environment,
// an optional .env file, and an optional YAML config file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// LLM provider names accepted by FLOWDEX_LLM_PROVIDER.
const (
	ProviderOpenAI    = "openai"
	ProviderOllama    = "ollama"
	ProviderAnthropic = "anthropic"
)

// Config holds all configuration values.
type Config struct {
	// SurrealDB connection
	SurrealDBURL       string
	SurrealDBNamespace string
	SurrealDBDatabase  string
	SurrealDBUser      string
	SurrealDBPass      string

	// LLM
	LLMProvider     string
	LLMModel        string
	OllamaHost      string
	OpenAIAPIKey    string
	AnthropicAPIKey string

	// Enrichment job knobs (same env names the admin surface sets)
	BatchSize    int
	UseAI        bool
	AIDelay      time.Duration
	AIBatchSize  int
	AIBatchPause time.Duration

	// Ledger
	RunID      string // set by the admin server when it spawns a job
	StaleAfter time.Duration

	// Admin server
	ServerAddr string
	FlowdexBin string // binary spawned per triggered job

	// Logging
	LogFile  string
	LogLevel slog.Level
}

// Load reads configuration from environment variables, after loading .env
// from the working directory if present (ignored when missing).
func Load() Config {
	_ = godotenv.Load()

	return Config{
		SurrealDBURL:       getEnv("SURREALDB_URL", "ws://localhost:8000/rpc"),
		SurrealDBNamespace: getEnv("SURREALDB_NAMESPACE", "flowdex"),
		SurrealDBDatabase:  getEnv("SURREALDB_DATABASE", "catalog"),
		SurrealDBUser:      getEnv("SURREALDB_USER", "root"),
		SurrealDBPass:      getEnv("SURREALDB_PASS", "root"),

		LLMProvider:     getEnv("FLOWDEX_LLM_PROVIDER", ProviderOpenAI),
		LLMModel:        getEnv("FLOWDEX_LLM_MODEL", "gpt-4o-mini"),
		OllamaHost:      getEnv("OLLAMA_HOST", "http://localhost:11434"),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),

		BatchSize:    getEnvInt("ENRICHMENT_BATCH_SIZE", 50),
		UseAI:        getEnv("ENRICHMENT_USE_AI", "false") == "true",
		AIDelay:      time.Duration(getEnvInt("ENRICHMENT_AI_DELAY_MS", 1200)) * time.Millisecond,
		AIBatchSize:  getEnvInt("ENRICHMENT_AI_BATCH_SIZE", 0),
		AIBatchPause: time.Duration(getEnvInt("ENRICHMENT_AI_BATCH_PAUSE_MS", 60000)) * time.Millisecond,

		RunID:      os.Getenv("FLOWDEX_RUN_ID"),
		StaleAfter: time.Duration(getEnvInt("FLOWDEX_STALE_AFTER_MINUTES", 120)) * time.Minute,

		ServerAddr: getEnv("FLOWDEX_SERVER_ADDR", ":8090"),
		FlowdexBin: getEnv("FLOWDEX_BIN", "flowdex"),

		LogFile:  getEnv("FLOWDEX_LOG_FILE", "/tmp/flowdex.log"),
		LogLevel: parseLogLevel(getEnv("FLOWDEX_LOG_LEVEL", "INFO")),
	}
}

// fileConfig is the YAML config file shape. Every field is optional and
// overrides the environment-derived value when set.
type fileConfig struct {
	SurrealDB struct {
		URL       string `yaml:"url"`
		Namespace string `yaml:"namespace"`
		Database  string `yaml:"database"`
		User      string `yaml:"user"`
		Pass      string `yaml:"pass"`
	} `yaml:"surrealdb"`
	LLM struct {
		Provider string `yaml:"provider"`
		Model    string `yaml:"model"`
	} `yaml:"llm"`
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Log struct {
		File  string `yaml:"file"`
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// LoadWithFile is Load plus a YAML config file overlay.
func LoadWithFile(path string) (Config, error) {
	cfg := Load()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return cfg, fmt.Errorf("parse config file: %w", err)
	}

	override(&cfg.SurrealDBURL, fc.SurrealDB.URL)
	override(&cfg.SurrealDBNamespace, fc.SurrealDB.Namespace)
	override(&cfg.SurrealDBDatabase, fc.SurrealDB.Database)
	override(&cfg.SurrealDBUser, fc.SurrealDB.User)
	override(&cfg.SurrealDBPass, fc.SurrealDB.Pass)
	override(&cfg.LLMProvider, fc.LLM.Provider)
	override(&cfg.LLMModel, fc.LLM.Model)
	override(&cfg.ServerAddr, fc.Server.Addr)
	override(&cfg.LogFile, fc.Log.File)
	if fc.Log.Level != "" {
		cfg.LogLevel = parseLogLevel(fc.Log.Level)
	}

	return cfg, nil
}

// HasLLMCredentials reports whether the configured provider can actually be
// called: ollama needs no key, the hosted providers do.
func (c Config) HasLLMCredentials() bool {
	switch c.LLMProvider {
	case ProviderOllama:
		return true
	case ProviderOpenAI:
		return c.OpenAIAPIKey != ""
	case ProviderAnthropic:
		return c.AnthropicAPIKey != ""
	default:
		return false
	}
}

func override(dst *string, val string) {
	if val != "" {
		*dst = val
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
