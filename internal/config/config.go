package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Bank      BankConfig      `mapstructure:"bank"`
	Session   SessionConfig   `mapstructure:"session"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Port    string `mapstructure:"port"`
	Mode    string `mapstructure:"mode"`
	TLSCert string `mapstructure:"tls_cert"`
	TLSKey  string `mapstructure:"tls_key"`
	// TrustProxy honours X-Forwarded-For / X-Real-IP for rate limiting.
	TrustProxy bool `mapstructure:"trust_proxy"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowSeconds int `mapstructure:"window_seconds"`
}

// Window is the period MaxRequests refers to.
func (r RateLimitConfig) Window() time.Duration {
	return time.Duration(r.WindowSeconds) * time.Second
}

type BankConfig struct {
	Source       string        `mapstructure:"source"`
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
}

type SessionConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

type LogConfig struct {
	File string `mapstructure:"file"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.tls_cert", "")
	v.SetDefault("server.tls_key", "")
	v.SetDefault("server.trust_proxy", false)
	v.SetDefault("cors.allowed_origins", []string{"http://localhost:5173", "https://localhost:5173"})
	v.SetDefault("rate_limit.max_requests", 60)
	v.SetDefault("rate_limit.window_seconds", 60)
	v.SetDefault("bank.source", "preguntas.json")
	v.SetDefault("bank.fetch_timeout", 8*time.Second)
	v.SetDefault("session.ttl", 24*time.Hour)
	v.SetDefault("log.file", "")
}

// LoadConfig reads config.yaml from path when present, then a .env file,
// then XABIREN_* environment variables, e.g. XABIREN_BANK_SOURCE.
func LoadConfig(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("XABIREN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// bare PORT, TLS_* and ALLOWED_ORIGINS are still honoured
	v.BindEnv("server.port", "XABIREN_SERVER_PORT", "PORT")
	v.BindEnv("server.tls_cert", "XABIREN_SERVER_TLS_CERT", "TLS_CERT")
	v.BindEnv("server.tls_key", "XABIREN_SERVER_TLS_KEY", "TLS_KEY")
	v.BindEnv("cors.allowed_origins", "XABIREN_CORS_ALLOWED_ORIGINS", "ALLOWED_ORIGINS")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.CORS.AllowedOrigins = splitOrigins(cfg.CORS.AllowedOrigins)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// splitOrigins flattens comma separated values coming from the environment.
func splitOrigins(in []string) []string {
	var out []string
	for _, s := range in {
		for _, o := range strings.Split(s, ",") {
			if o = strings.TrimSpace(o); o != "" {
				out = append(out, o)
			}
		}
	}
	return out
}

func (c *Config) validate() error {
	if c.Bank.Source == "" {
		return errors.New("bank.source is required")
	}
	if c.RateLimit.MaxRequests <= 0 || c.RateLimit.WindowSeconds <= 0 {
		return fmt.Errorf("rate_limit must be positive, got %d per %ds",
			c.RateLimit.MaxRequests, c.RateLimit.WindowSeconds)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("session.ttl must be positive, got %s", c.Session.TTL)
	}
	if (c.Server.TLSCert == "") != (c.Server.TLSKey == "") {
		return errors.New("server.tls_cert and server.tls_key must be set together")
	}
	return nil
}
