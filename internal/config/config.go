package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	S3        S3Config        `mapstructure:"s3"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Log       LogConfig       `mapstructure:"log"`
	AI        AIConfig        `mapstructure:"ai"`
	YouTube   YouTubeConfig   `mapstructure:"youtube"`
	Redis     RedisConfig     `mapstructure:"redis"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Mail      MailConfig      `mapstructure:"mail"`
}

type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	CookieSecure    bool          `mapstructure:"cookie_secure"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// Enabled reports whether uploads can be served.
func (c S3Config) Enabled() bool {
	return c.BucketName != ""
}

// JWTConfig defines JWT specific configuration
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	JSON   bool   `mapstructure:"json"`
	File   string `mapstructure:"file"`
	Stdout bool   `mapstructure:"stdout"`
}

// AIConfig points at an OpenAI compatible chat completions endpoint.
type AIConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Model       string        `mapstructure:"model"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Temperature float64       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxAttempts int           `mapstructure:"max_attempts"`
}

type YouTubeConfig struct {
	APIKey     string `mapstructure:"api_key"`
	Endpoint   string `mapstructure:"endpoint"`
	MaxResults int64  `mapstructure:"max_results"`
}

// RedisConfig backs the rate limiter. An empty Addr disables it.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type RateLimitConfig struct {
	AIPerMinute int `mapstructure:"ai_per_minute"`
}

type CacheConfig struct {
	ChatSizeMB int           `mapstructure:"chat_size_mb"`
	ChatTTL    time.Duration `mapstructure:"chat_ttl"`
}

type MailConfig struct {
	From     string `mapstructure:"from"`
	ResetURL string `mapstructure:"reset_url"`
}

var defaults = map[string]interface{}{
	"server.address":           ":8080",
	"server.cookie_secure":     false,
	"server.shutdown_timeout":  "10s",
	"database.uri":             "mongodb://localhost:27017",
	"database.name":            "fitness_routines",
	"s3.endpoint":              "",
	"s3.region":                "us-east-1",
	"s3.access_key_id":         "",
	"s3.secret_access_key":     "",
	"s3.bucket_name":           "",
	"s3.use_ssl":               true,
	"jwt.secret":               "",
	"jwt.expiration":           "24h",
	"log.level":                "info",
	"log.json":                 false,
	"log.file":                 "",
	"log.stdout":               true,
	"ai.api_key":               "",
	"ai.base_url":              "https://api.openai.com/v1",
	"ai.model":                 "gpt-4o-mini",
	"ai.max_tokens":            2000,
	"ai.temperature":           0.7,
	"ai.timeout":               "60s",
	"ai.max_attempts":          3,
	"youtube.api_key":          "",
	"youtube.endpoint":         "",
	"youtube.max_results":      3,
	"redis.addr":               "",
	"redis.password":           "",
	"redis.db":                 0,
	"rate_limit.ai_per_minute": 10,
	"cache.chat_size_mb":       16,
	"cache.chat_ttl":           "1h",
	"mail.from":                "no-reply@fitness.local",
	"mail.reset_url":           "http://localhost:3000/reset-password",
}

// LoadConfig reads configuration from path/config.yaml (optional) and
// environment variables, e.g. JWT_SECRET overrides jwt.secret.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	// Every key needs a default so Unmarshal sees env-only values.
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config, fmt.Errorf("read config: %w", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("unmarshal config: %w", err)
	}
	return config, config.Validate()
}

// Validate checks settings the server cannot start without.
func (c Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("jwt.secret is required")
	}
	if c.JWT.Expiration <= 0 {
		return errors.New("jwt.expiration must be positive")
	}
	if c.Database.URI == "" || c.Database.Name == "" {
		return errors.New("database.uri and database.name are required")
	}
	return nil
}
