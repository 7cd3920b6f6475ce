package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const DefaultFrontendURL = "http://localhost:3000"

type Config struct {
	Port        string          `mapstructure:"port"`
	FrontendURL string          `mapstructure:"frontend_url"`
	LogLevel    string          `mapstructure:"log_level"`
	LogPretty   bool            `mapstructure:"log_pretty"`
	Auth        AuthConfig      `mapstructure:"auth"`
	MongoDB     MongoDBConfig   `mapstructure:"mongodb"`
	Redis       RedisConfig     `mapstructure:"redis"`
	AI          AIConfig        `mapstructure:"ai"`
	Stream      StreamConfig    `mapstructure:"stream"`
	Lifestyle   LifestyleConfig `mapstructure:"lifestyle"`
	RateLimit   RateLimitConfig `mapstructure:"rate_limit"`
	// TrustedProxies are the CIDRs or IPs whose X-Forwarded-For is believed
	// when resolving the client address. Empty means the socket peer.
	TrustedProxies []string `mapstructure:"trusted_proxies"`
}

type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
	CookieTTL time.Duration `mapstructure:"cookie_ttl"`
}

type MongoDBConfig struct {
	URI            string        `mapstructure:"uri"`
	Database       string        `mapstructure:"database"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type AIConfig struct {
	// Provider is "gemini" or "openai".
	Provider     string        `mapstructure:"provider"`
	GeminiAPIKey string        `mapstructure:"gemini_api_key"`
	OpenAIAPIKey string        `mapstructure:"openai_api_key"`
	BaseURL      string        `mapstructure:"base_url"`
	Timeout      time.Duration `mapstructure:"timeout"`
	Models       ModelConfig   `mapstructure:"models"`
}

type ModelConfig struct {
	Chat      string `mapstructure:"chat"`
	Stream    string `mapstructure:"stream"`
	Medicine  string `mapstructure:"medicine"`
	Lifestyle string `mapstructure:"lifestyle"`
}

type StreamConfig struct {
	ChunkSize  int           `mapstructure:"chunk_size"`
	ChunkDelay time.Duration `mapstructure:"chunk_delay"`
}

type LifestyleConfig struct {
	Command string        `mapstructure:"command"`
	Script  string        `mapstructure:"script"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerMinute float64 `mapstructure:"requests_per_minute"`
	Burst             int     `mapstructure:"burst"`
}

// GeminiAPIKeys splits the configured key list. GEMINI_API_KEY may hold
// several comma-separated keys.
func (c AIConfig) GeminiAPIKeys() []string {
	keys := make([]string, 0)
	for _, k := range strings.Split(c.GeminiAPIKey, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// AllowedOrigins lists the origins the CORS layer reflects back.
func (c *Config) AllowedOrigins() []string {
	origins := []string{c.FrontendURL}
	if c.FrontendURL != DefaultFrontendURL {
		origins = append(origins, DefaultFrontendURL)
	}
	return origins
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8000")
	v.SetDefault("frontend_url", DefaultFrontendURL)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_pretty", false)

	v.SetDefault("auth.token_ttl", "2h")
	v.SetDefault("auth.cookie_ttl", "72h")

	v.SetDefault("mongodb.uri", "mongodb://localhost:27017")
	v.SetDefault("mongodb.database", "ayuroot")
	v.SetDefault("mongodb.connect_timeout", "20s")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", "24h")

	v.SetDefault("ai.provider", "gemini")
	v.SetDefault("ai.gemini_api_key", "")
	v.SetDefault("ai.openai_api_key", "")
	v.SetDefault("ai.base_url", "")
	v.SetDefault("ai.timeout", "30s")
	v.SetDefault("ai.models.chat", "gemini-2.5-flash-lite")
	v.SetDefault("ai.models.stream", "gemini-2.5-flash")
	v.SetDefault("ai.models.medicine", "gemini-2.5-flash-lite")
	v.SetDefault("ai.models.lifestyle", "gemini-2.5-flash")

	v.SetDefault("stream.chunk_size", 30)
	v.SetDefault("stream.chunk_delay", "50ms")

	v.SetDefault("lifestyle.command", "python3")
	v.SetDefault("lifestyle.script", "")
	v.SetDefault("lifestyle.timeout", "20s")

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests_per_minute", 30)
	v.SetDefault("rate_limit.burst", 10)
	v.SetDefault("trusted_proxies", []string{})
}

func bindEnv(v *viper.Viper) {
	v.BindEnv("port", "PORT")
	v.BindEnv("frontend_url", "FRONTEND_URL")
	v.BindEnv("log_level", "LOG_LEVEL")
	v.BindEnv("auth.jwt_secret", "JWT_SECRET")
	v.BindEnv("mongodb.uri", "MONGODB_URL")
	v.BindEnv("redis.addr", "REDIS_URL")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("ai.provider", "AI_PROVIDER")
	v.BindEnv("ai.gemini_api_key", "GEMINI_API_KEY")
	v.BindEnv("ai.openai_api_key", "OPENAI_API_KEY")
	v.BindEnv("ai.base_url", "AI_BASE_URL")
	v.BindEnv("lifestyle.script", "LIFESTYLE_SCRIPT")
	v.BindEnv("trusted_proxies", "TRUSTED_PROXIES")
}

// LoadConfig reads configPath (YAML) on top of the defaults and lets the
// environment override both. A missing file is not an error.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	bindEnv(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return errors.New("auth.jwt_secret is required (set JWT_SECRET)")
	}
	switch c.AI.Provider {
	case "gemini", "openai":
	default:
		return fmt.Errorf("unsupported ai provider %q", c.AI.Provider)
	}
	if c.Stream.ChunkSize <= 0 {
		return fmt.Errorf("stream.chunk_size must be positive, got %d", c.Stream.ChunkSize)
	}
	if c.Stream.ChunkDelay < 0 {
		return fmt.Errorf("stream.chunk_delay must not be negative")
	}
	if c.AI.Timeout <= 0 {
		return fmt.Errorf("ai.timeout must be positive")
	}
	for _, p := range c.TrustedProxies {
		if _, _, err := net.ParseCIDR(p); err != nil && net.ParseIP(p) == nil {
			return fmt.Errorf("trusted_proxies: %q is not an IP or CIDR", p)
		}
	}
	return nil
}
