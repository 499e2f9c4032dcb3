package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jpdehyl/BSA-demo/internal/model"
)

// Config holds the full application configuration.
type Config struct {
	Browserless BrowserlessConfig `yaml:"browserless" mapstructure:"browserless"`
	Gemini      GeminiConfig      `yaml:"gemini" mapstructure:"gemini"`
	Anthropic   AnthropicConfig   `yaml:"anthropic" mapstructure:"anthropic"`
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
	SerpAPI     SerpAPIConfig     `yaml:"serpapi" mapstructure:"serpapi"`
	XAI         XAIConfig         `yaml:"xai" mapstructure:"xai"`
	Research    ResearchConfig    `yaml:"research" mapstructure:"research"`
	Store       StoreConfig       `yaml:"store" mapstructure:"store"`
	Server      ServerConfig      `yaml:"server" mapstructure:"server"`
	Log         LogConfig         `yaml:"log" mapstructure:"log"`
}

// BrowserlessConfig holds the remote browser endpoint settings.
type BrowserlessConfig struct {
	Token   string `yaml:"token" mapstructure:"token"`
	Host    string `yaml:"host" mapstructure:"host"`
	Stealth bool   `yaml:"stealth" mapstructure:"stealth"`
	Proxy   string `yaml:"proxy" mapstructure:"proxy"`
}

// RequestOptions maps the browser defaults onto scrape request options.
func (b BrowserlessConfig) RequestOptions() model.RequestOptions {
	o := model.DefaultRequestOptions()
	o.Stealth = b.Stealth
	switch p := model.ProxyClass(strings.ToLower(b.Proxy)); p {
	case model.ProxyResidential, model.ProxyDatacenter, model.ProxyNone:
		o.Proxy = p
	}
	return o
}

// GeminiConfig holds Gemini API settings.
type GeminiConfig struct {
	Key              string `yaml:"key" mapstructure:"key"`
	BaseURL          string `yaml:"base_url" mapstructure:"base_url"`
	Model            string `yaml:"model" mapstructure:"model"`
	DispositionModel string `yaml:"disposition_model" mapstructure:"disposition_model"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key   string `yaml:"key" mapstructure:"key"`
	Model string `yaml:"model" mapstructure:"model"`
}

// LLMConfig selects the completion provider.
type LLMConfig struct {
	// Provider is "gemini" or "anthropic".
	Provider         string `yaml:"provider" mapstructure:"provider"`
	MaxParseAttempts int    `yaml:"max_parse_attempts" mapstructure:"max_parse_attempts"`
}

// SerpAPIConfig holds search API settings.
type SerpAPIConfig struct {
	Key        string  `yaml:"key" mapstructure:"key"`
	BaseURL    string  `yaml:"base_url" mapstructure:"base_url"`
	RatePerSec float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
}

// XAIConfig holds xAI chat completion settings.
type XAIConfig struct {
	Key        string  `yaml:"key" mapstructure:"key"`
	BaseURL    string  `yaml:"base_url" mapstructure:"base_url"`
	Model      string  `yaml:"model" mapstructure:"model"`
	RatePerSec float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
}

// ResearchConfig configures caching, session concurrency and batching.
type ResearchConfig struct {
	CacheTTLHours         int    `yaml:"cache_ttl_hours" mapstructure:"cache_ttl_hours"`
	MaxConcurrentSessions int    `yaml:"max_concurrent_sessions" mapstructure:"max_concurrent_sessions"`
	SweepIntervalMins     int    `yaml:"sweep_interval_mins" mapstructure:"sweep_interval_mins"`
	BatchConcurrency      int    `yaml:"batch_concurrency" mapstructure:"batch_concurrency"`
	SellerContext         string `yaml:"seller_context" mapstructure:"seller_context"`
}

// CacheTTL returns the cache TTL as a duration.
func (r ResearchConfig) CacheTTL() time.Duration {
	return time.Duration(r.CacheTTLHours) * time.Hour
}

// SweepInterval returns the sweep interval; zero disables the sweeper.
func (r ResearchConfig) SweepInterval() time.Duration {
	return time.Duration(r.SweepIntervalMins) * time.Minute
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port        int      `yaml:"port" mapstructure:"port"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("BSA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Secrets have empty defaults so Unmarshal sees their env overrides.
	for _, key := range []string{
		"browserless.token",
		"gemini.key",
		"gemini.base_url",
		"anthropic.key",
		"serpapi.key",
		"xai.key",
		"research.seller_context",
	} {
		v.SetDefault(key, "")
	}

	// Defaults
	v.SetDefault("browserless.host", "chrome.browserless.io")
	v.SetDefault("browserless.stealth", true)
	v.SetDefault("browserless.proxy", "residential")
	v.SetDefault("gemini.model", "gemini-2.5-flash")
	v.SetDefault("gemini.disposition_model", "gemini-2.0-flash")
	v.SetDefault("anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.max_parse_attempts", 3)
	v.SetDefault("serpapi.base_url", "https://serpapi.com")
	v.SetDefault("serpapi.rate_per_sec", 1.0)
	v.SetDefault("xai.base_url", "https://api.x.ai/v1")
	v.SetDefault("xai.model", "grok-beta")
	v.SetDefault("xai.rate_per_sec", 2.0)
	v.SetDefault("research.cache_ttl_hours", 24)
	v.SetDefault("research.max_concurrent_sessions", 5)
	v.SetDefault("research.sweep_interval_mins", 60)
	v.SetDefault("research.batch_concurrency", 2)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "research.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a command mode needs. Missing credentials
// for optional sources are not errors; those branches report themselves
// unavailable.
func (c *Config) Validate(mode string) error {
	var errs []string
	switch mode {
	case "research", "batch", "serve":
		errs = append(errs, c.validateResearch()...)
		if mode == "serve" && c.Server.Port <= 0 {
			errs = append(errs, "server.port must be > 0")
		}
		if mode == "batch" && (c.Research.BatchConcurrency < 1 || c.Research.BatchConcurrency > 20) {
			errs = append(errs, "research.batch_concurrency must be between 1 and 20")
		}
	case "disposition", "score":
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}
	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

func (c *Config) validateResearch() []string {
	var errs []string
	switch c.LLM.Provider {
	case "gemini":
		if c.Gemini.Key == "" {
			errs = append(errs, "gemini.key is required")
		}
	case "anthropic":
		if c.Anthropic.Key == "" {
			errs = append(errs, "anthropic.key is required")
		}
	default:
		errs = append(errs, fmt.Sprintf("llm.provider %q must be gemini or anthropic", c.LLM.Provider))
	}
	if c.Research.MaxConcurrentSessions < 1 {
		errs = append(errs, "research.max_concurrent_sessions must be >= 1")
	}
	if c.Research.CacheTTLHours < 1 {
		errs = append(errs, "research.cache_ttl_hours must be >= 1")
	}
	switch c.Store.Driver {
	case "sqlite", "postgres", "":
	default:
		errs = append(errs, fmt.Sprintf("store.driver %q must be sqlite or postgres", c.Store.Driver))
	}
	return errs
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
