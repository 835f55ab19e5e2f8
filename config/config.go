// Package config 读取运行配置：默认值、可选的配置文件、.env 与环境变量。
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"ai_writer/generator"
)

// DefaultPath 未指定 --config 时尝试读取的配置文件，不存在时只用默认值和环境变量。
const DefaultPath = "config/config.json"

type Config struct {
	LLM    LLM    `mapstructure:"llm"`
	Writer Writer `mapstructure:"writer"`
	Server Server `mapstructure:"server"`
	Store  Store  `mapstructure:"store"`
	Output Output `mapstructure:"output"`
	Log    Log    `mapstructure:"log"`
}

type LLM struct {
	Provider       string        `mapstructure:"provider"`
	Model          string        `mapstructure:"model"`
	APIKey         string        `mapstructure:"api_key"`
	BaseURL        string        `mapstructure:"base_url"`
	ResponseFormat string        `mapstructure:"response_format"`
	MaxAttempts    int           `mapstructure:"max_attempts"`
	Temperature    float64       `mapstructure:"temperature"`
	Timeout        time.Duration `mapstructure:"timeout"`
	SDKRetries     int           `mapstructure:"sdk_retries"`
}

type Writer struct {
	WordCount int `mapstructure:"word_count"`
}

type Server struct {
	Addr            string        `mapstructure:"addr"`
	GenerateTimeout time.Duration `mapstructure:"generate_timeout"`
}

type Store struct {
	Backend string        `mapstructure:"backend"`
	TTL     time.Duration `mapstructure:"ttl"`
	Redis   Redis         `mapstructure:"redis"`
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

type Output struct {
	Dir string `mapstructure:"dir"`
}

type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// 各 provider 的环境变量别名，按顺序取第一个非空值。
var providerEnv = map[string]map[string][]string{
	"deepseek": {
		"model":    {"DEEPSEEK_MODEL"},
		"api_key":  {"DEEPSEEK_API", "DEEPSEEK_API_KEY"},
		"base_url": {"DEEPSEEK_URL", "DEEPSEEK_BASE_URL"},
	},
	"openai": {
		"model":    {"OPENAI_MODEL"},
		"api_key":  {"OPENAI_API_KEY"},
		"base_url": {"OPENAI_BASE_URL"},
	},
}

// Load 按 默认值 < 配置文件 < 环境变量 的顺序合并配置。path 为空时尝试 DefaultPath。
func Load(path string) (Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: error loading .env file: %v\n", err)
		}
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !(errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)) {
			return Config{}, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("error unmarshaling config: %w", err)
	}
	postProcess(&cfg)
	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("llm.provider", "deepseek")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.response_format", string(generator.FormatJSONObject))
	v.SetDefault("llm.max_attempts", generator.DefaultMaxAttempts)
	v.SetDefault("llm.temperature", 0.0)
	v.SetDefault("llm.timeout", "120s")
	v.SetDefault("llm.sdk_retries", 2)

	v.SetDefault("writer.word_count", 1500)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.generate_timeout", "15m")

	v.SetDefault("store.backend", "memory")
	v.SetDefault("store.ttl", "168h")
	v.SetDefault("store.redis.addr", "localhost:6379")
	v.SetDefault("store.redis.password", "")
	v.SetDefault("store.redis.db", 0)
	v.SetDefault("store.redis.prefix", "ai_writer:result:")

	v.SetDefault("output.dir", "output")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

func postProcess(cfg *Config) {
	cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(cfg.LLM.Provider))
	aliases := providerEnv[cfg.LLM.Provider]
	fill := func(dst *string, key string) {
		if *dst != "" {
			return
		}
		for _, env := range aliases[key] {
			if value := os.Getenv(env); value != "" {
				*dst = value
				return
			}
		}
	}
	fill(&cfg.LLM.Model, "model")
	fill(&cfg.LLM.APIKey, "api_key")
	fill(&cfg.LLM.BaseURL, "base_url")
	cfg.Store.Backend = strings.ToLower(strings.TrimSpace(cfg.Store.Backend))
}

func validate(cfg Config) error {
	switch cfg.LLM.Provider {
	case "openai", "deepseek", "mock":
	default:
		return fmt.Errorf("unsupported llm provider %q", cfg.LLM.Provider)
	}
	switch generator.ResponseFormat(cfg.LLM.ResponseFormat) {
	case generator.FormatJSONObject, generator.FormatJSONSchema:
	default:
		return fmt.Errorf("unsupported llm.response_format %q", cfg.LLM.ResponseFormat)
	}
	switch cfg.Store.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("unsupported store.backend %q", cfg.Store.Backend)
	}
	if cfg.Writer.WordCount <= 0 {
		return fmt.Errorf("writer.word_count must be positive, got %d", cfg.Writer.WordCount)
	}
	return nil
}

// LLMSettings 转换为 generator 使用的模型配置。
func (c Config) LLMSettings() *generator.LLMSettings {
	return &generator.LLMSettings{
		Provider:       c.LLM.Provider,
		Model:          c.LLM.Model,
		APIKey:         c.LLM.APIKey,
		BaseURL:        c.LLM.BaseURL,
		ResponseFormat: generator.ResponseFormat(c.LLM.ResponseFormat),
		Temperature:    c.LLM.Temperature,
		Timeout:        c.LLM.Timeout,
		SDKRetries:     c.LLM.SDKRetries,
	}
}
