// Package config resolves askdb settings from defaults, an optional
// askdb.yaml file, and the environment (ASKDB_ prefix, plus the conventional
// OPENAI_* variables), in that order of increasing precedence.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Supported LLM providers.
const (
	ProviderOpenAI      = "openai"
	ProviderHuggingFace = "huggingface"
)

// Config is the resolved application configuration.
type Config struct {
	Database DatabaseConfig
	LLM      LLMConfig
	Server   ServerConfig
}

// DatabaseConfig locates the SQLite database.
type DatabaseConfig struct {
	// URL in the form sqlite:///./sales.db. Only the path component is used;
	// see store.PathFromURL.
	URL string
}

// LLMConfig selects and authenticates the language model behind the agent.
type LLMConfig struct {
	Provider    string
	Model       string
	Temperature float64
	APIKey      string
	BaseURL     string
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Host        string
	Port        int
	CORSOrigins []string
	RateLimit   int // requests per minute per client IP on the query route
}

// SetDefaults registers every configuration default with viper. Call before
// reading any config file or environment.
func SetDefaults() {
	viper.SetDefault("database.url", "sqlite:///./sales.db")
	viper.SetDefault("llm.provider", ProviderOpenAI)
	viper.SetDefault("llm.model", "gpt-4o-mini")
	viper.SetDefault("llm.temperature", 0.0)
	viper.SetDefault("llm.api_key", "")
	viper.SetDefault("llm.base_url", "")
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8000)
	viper.SetDefault("server.cors_origins", []string{
		"http://localhost:3000",
		"http://localhost:5173",
	})
	viper.SetDefault("server.rate_limit", 60)
}

// BindEnv wires environment variables: ASKDB_-prefixed names for every key
// (dots become underscores), plus the conventional OPENAI_API_KEY and
// OPENAI_BASE_URL aliases for the credential settings.
func BindEnv() {
	viper.SetEnvPrefix("ASKDB")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	viper.BindEnv("llm.api_key", "ASKDB_LLM_API_KEY", "OPENAI_API_KEY")
	viper.BindEnv("llm.base_url", "ASKDB_LLM_BASE_URL", "OPENAI_BASE_URL")
}

// Load builds a Config from the current viper state.
func Load() Config {
	return Config{
		Database: DatabaseConfig{
			URL: viper.GetString("database.url"),
		},
		LLM: LLMConfig{
			Provider:    viper.GetString("llm.provider"),
			Model:       viper.GetString("llm.model"),
			Temperature: viper.GetFloat64("llm.temperature"),
			APIKey:      viper.GetString("llm.api_key"),
			BaseURL:     viper.GetString("llm.base_url"),
		},
		Server: ServerConfig{
			Host:        viper.GetString("server.host"),
			Port:        viper.GetInt("server.port"),
			CORSOrigins: viper.GetStringSlice("server.cors_origins"),
			RateLimit:   viper.GetInt("server.rate_limit"),
		},
	}
}

// Validate reports the first configuration problem found. A missing API key
// is a startup-fatal condition for every command that reaches the model.
func (c Config) Validate() error {
	if c.LLM.APIKey == "" {
		return fmt.Errorf("llm api key is required (set ASKDB_LLM_API_KEY or OPENAI_API_KEY)")
	}
	switch c.LLM.Provider {
	case ProviderOpenAI, ProviderHuggingFace:
	default:
		return fmt.Errorf("unknown llm provider %q (expected %q or %q)",
			c.LLM.Provider, ProviderOpenAI, ProviderHuggingFace)
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("llm temperature %.2f out of range [0, 2]", c.LLM.Temperature)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	return nil
}

// MaskedKey returns the API key with everything past the first 10 characters
// elided, safe for logs and the debug endpoint. Short keys are fully masked.
func (c LLMConfig) MaskedKey() string {
	if c.APIKey == "" {
		return ""
	}
	if len(c.APIKey) <= 10 {
		return "***"
	}
	return c.APIKey[:10] + "..."
}
