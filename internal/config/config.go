package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	Model      ModelConfig
	Generation GenerationConfig
	Redis      RedisConfig
	Cache      CacheConfig
	Logger     LoggerConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// RequestTimeout bounds one quiz generation request, retries included.
	RequestTimeout time.Duration
}

// ModelConfig selects the causal language model served behind the model host.
type ModelConfig struct {
	Backend   string // "ollama" or "openai"
	Name      string
	ServerURL string
	APIKey    string
	Device    string // "auto", "cpu" or "gpu"
	Timeout   time.Duration
	KeepAlive string
	Warmup    bool
}

type GenerationConfig struct {
	MaxRetries        int
	TokensPerQuestion int
	MaxTokens         int
	Temperature       float64
	Stop              []string
	// RequestTimeout bounds a generation shared by concurrent identical
	// requests. It is read from server.request_timeout.
	RequestTimeout time.Duration
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type CacheConfig struct {
	QuizTTL time.Duration
}

type LoggerConfig struct {
	Env   string
	Level string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.read_timeout", "20s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.request_timeout", "90s")

	v.SetDefault("model.backend", "ollama")
	v.SetDefault("model.name", "granite3.3:2b")
	v.SetDefault("model.server_url", "http://localhost:11434")
	v.SetDefault("model.device", "auto")
	v.SetDefault("model.timeout", "60s")
	v.SetDefault("model.keep_alive", "30m")
	v.SetDefault("model.warmup", true)

	v.SetDefault("generation.max_retries", 2)
	v.SetDefault("generation.tokens_per_question", 80)
	v.SetDefault("generation.max_tokens", 1024)
	v.SetDefault("generation.temperature", 0.7)
	v.SetDefault("generation.stop", []string{})

	v.SetDefault("cache.quiz_ttl", "15m")

	v.SetDefault("logger.env", "development")
	v.SetDefault("logger.level", "info")
}

// LoadConfig reads config.yaml when present and falls back to defaults otherwise.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if os.Getenv("ENV") == "test" {
		v.AddConfigPath("../../config")
		v.AddConfigPath("../../")
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	setDefaults(v)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if configFile := v.ConfigFileUsed(); configFile != "" {
		absPath, _ := filepath.Abs(configFile)
		fmt.Printf("Using config file: %s\n", absPath)
	}

	config := fromViper(v)

	// Override with environment variables if set
	if backend := os.Getenv("MODEL_BACKEND"); backend != "" {
		config.Model.Backend = backend
	}
	if name := os.Getenv("MODEL_NAME"); name != "" {
		config.Model.Name = name
	}
	if serverURL := os.Getenv("MODEL_SERVER_URL"); serverURL != "" {
		config.Model.ServerURL = serverURL
	}
	if device := os.Getenv("MODEL_DEVICE"); device != "" {
		config.Model.Device = device
	}
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		config.Model.APIKey = apiKey
	}
	if redisAddress := os.Getenv("REDIS_ADDRESS"); redisAddress != "" {
		config.Redis.Address = redisAddress
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		config.Redis.Password = redisPassword
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		v.Set("server.port", port)
		config.Server.Port = v.GetInt("server.port")
	}
	if env := os.Getenv("ENV"); env != "" {
		config.Logger.Env = env
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		config.Logger.Level = level
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Server: ServerConfig{
			Port:           v.GetInt("server.port"),
			ReadTimeout:    v.GetDuration("server.read_timeout"),
			WriteTimeout:   v.GetDuration("server.write_timeout"),
			RequestTimeout: v.GetDuration("server.request_timeout"),
		},
		Model: ModelConfig{
			Backend:   v.GetString("model.backend"),
			Name:      v.GetString("model.name"),
			ServerURL: v.GetString("model.server_url"),
			APIKey:    v.GetString("model.api_key"),
			Device:    v.GetString("model.device"),
			Timeout:   v.GetDuration("model.timeout"),
			KeepAlive: v.GetString("model.keep_alive"),
			Warmup:    v.GetBool("model.warmup"),
		},
		Generation: GenerationConfig{
			MaxRetries:        v.GetInt("generation.max_retries"),
			TokensPerQuestion: v.GetInt("generation.tokens_per_question"),
			MaxTokens:         v.GetInt("generation.max_tokens"),
			Temperature:       v.GetFloat64("generation.temperature"),
			Stop:              v.GetStringSlice("generation.stop"),
			RequestTimeout:    v.GetDuration("server.request_timeout"),
		},
		Redis: RedisConfig{
			Address:  v.GetString("redis.address"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Cache: CacheConfig{
			QuizTTL: v.GetDuration("cache.quiz_ttl"),
		},
		Logger: LoggerConfig{
			Env:   v.GetString("logger.env"),
			Level: v.GetString("logger.level"),
		},
	}
}

// Default returns the configuration used when no file or environment is present.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	return fromViper(v)
}

// Validate rejects settings the services cannot run with.
func (c *Config) Validate() error {
	switch c.Model.Backend {
	case "ollama", "openai":
	default:
		return fmt.Errorf("unsupported model backend: %q", c.Model.Backend)
	}
	switch c.Model.Device {
	case "auto", "cpu", "gpu":
	default:
		return fmt.Errorf("unsupported model device: %q", c.Model.Device)
	}
	if c.Model.Name == "" {
		return fmt.Errorf("model name cannot be empty")
	}
	if c.Generation.MaxRetries < 0 {
		return fmt.Errorf("generation.max_retries must not be negative")
	}
	if c.Generation.TokensPerQuestion <= 0 || c.Generation.MaxTokens <= 0 {
		return fmt.Errorf("generation token limits must be positive")
	}
	return nil
}
