package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Stream    StreamConfig
	Insights  InsightsConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Logging   LoggingConfig
}

type ServerConfig struct {
	Host           string
	Port           int
	ReadTimeout    int
	WriteTimeout   int
	BodyLimit      int
	AllowedOrigins []string
	Development    bool
}

type StreamConfig struct {
	AutoRefresh      bool
	MetricsInterval  time.Duration
	ChartsInterval   time.Duration
	Seed             uint64
	SubscriberBuffer int
}

// Reported confidence may be narrowed but never leaves [MinConfidence, MaxConfidence].
const (
	MinConfidence = 80
	MaxConfidence = 100
)

type InsightsConfig struct {
	Delay             time.Duration
	MinConfidence     int
	MaxConfidence     int
	MaxQuestionLength int
}

type RedisConfig struct {
	Enabled   bool
	Host      string
	Port      int
	Password  string
	DB        int
	KeyPrefix string
}

type RateLimitConfig struct {
	RequestsPerMinute int
}

type LoggingConfig struct {
	Level      string
	Format     string
	OutputPath string
}

// Load reads configuration from path, or from the default search paths when
// path is empty. Environment variables prefixed with PULSEBOARD_ override file
// values; a .env file in the working directory is loaded first.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/pulseboard")
	}

	v.SetEnvPrefix("PULSEBOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Insights.MinConfidence < MinConfidence || c.Insights.MaxConfidence > MaxConfidence {
		return fmt.Errorf("insights confidence range [%d, %d] must lie within [%d, %d]",
			c.Insights.MinConfidence, c.Insights.MaxConfidence, MinConfidence, MaxConfidence)
	}
	if c.Insights.MinConfidence > c.Insights.MaxConfidence {
		return fmt.Errorf("insights confidence range [%d, %d] is empty",
			c.Insights.MinConfidence, c.Insights.MaxConfidence)
	}
	if c.Insights.Delay < 0 {
		return fmt.Errorf("insights delay must not be negative")
	}
	if wt := time.Duration(c.Server.WriteTimeout) * time.Second; wt > 0 && c.Insights.Delay >= wt {
		return fmt.Errorf("insights delay %s must be shorter than the %s write timeout", c.Insights.Delay, wt)
	}
	if c.Stream.AutoRefresh && (c.Stream.MetricsInterval < time.Second || c.Stream.ChartsInterval < time.Second) {
		return fmt.Errorf("stream intervals must be at least 1s")
	}
	return nil
}

func (c ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.readTimeout", 30)
	v.SetDefault("server.writeTimeout", 30)
	v.SetDefault("server.bodyLimit", 1048576)
	v.SetDefault("server.allowedOrigins", []string{"*"})
	v.SetDefault("server.development", false)

	v.SetDefault("stream.autoRefresh", true)
	v.SetDefault("stream.metricsInterval", "3s")
	v.SetDefault("stream.chartsInterval", "5s")
	v.SetDefault("stream.seed", 0)
	v.SetDefault("stream.subscriberBuffer", 8)

	v.SetDefault("insights.delay", "1s")
	v.SetDefault("insights.minConfidence", 80)
	v.SetDefault("insights.maxConfidence", 100)
	v.SetDefault("insights.maxQuestionLength", 2000)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.keyPrefix", "pulseboard")

	v.SetDefault("rateLimit.requestsPerMinute", 30)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.outputPath", "stdout")
}
