package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type AppConfig struct {
	ServerName   string         `mapstructure:"server_name" yaml:"server_name"`
	Version      string         `mapstructure:"version" yaml:"version"`
	Environment  string         `mapstructure:"environment" yaml:"environment"`
	Port         int            `mapstructure:"port" yaml:"port"`
	CORSOrigins  []string       `mapstructure:"cors_origins" yaml:"cors_origins"`
	RateLimitQPS int            `mapstructure:"rate_limit_qps" yaml:"rate_limit_qps"`
	Postgres     PostgresConfig `mapstructure:"postgres" yaml:"postgres"`
	Redis        RedisConfig    `mapstructure:"redis" yaml:"redis"`
	LLM          LLMConfig      `mapstructure:"llm" yaml:"llm"`
	Vector       VectorConfig   `mapstructure:"vector" yaml:"vector"`
	Search       SearchConfig   `mapstructure:"search" yaml:"search"`
	Twilio       TwilioConfig   `mapstructure:"twilio" yaml:"twilio"`
	Auth         AuthConfig     `mapstructure:"auth" yaml:"auth"`
	RocketMQ     RocketMQConfig `mapstructure:"rocketmq" yaml:"rocketmq"`
}

type PostgresConfig struct {
	Address  string        `mapstructure:"address" yaml:"address"`
	Port     int           `mapstructure:"port" yaml:"port"`
	User     string        `mapstructure:"user" yaml:"user"`
	Password string        `mapstructure:"password" yaml:"password"`
	DBName   string        `mapstructure:"db_name" yaml:"db_name"`
	MaxIdle  int           `mapstructure:"max_idle" yaml:"max_idle"`
	MaxOpen  int           `mapstructure:"max_open" yaml:"max_open"`
	MaxLife  time.Duration `mapstructure:"max_life" yaml:"max_life"`
}

type RedisConfig struct {
	Address      string        `mapstructure:"address" yaml:"address"`
	Port         int           `mapstructure:"port" yaml:"port"`
	Password     string        `mapstructure:"password" yaml:"password"`
	Database     int           `mapstructure:"database" yaml:"database"`
	Prefix       string        `mapstructure:"prefix" yaml:"prefix"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout" yaml:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	MaxRetries   int           `mapstructure:"max_retries" yaml:"max_retries"`
	PoolSize     int           `mapstructure:"pool_size" yaml:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns" yaml:"min_idle_conns"`
	CacheTTL     time.Duration `mapstructure:"cache_ttl" yaml:"cache_ttl"`
}

type LLMConfig struct {
	APIKey         string  `mapstructure:"api_key" yaml:"api_key"`
	BaseURL        string  `mapstructure:"base_url" yaml:"base_url"`
	Model          string  `mapstructure:"model" yaml:"model"`
	EmbeddingModel string  `mapstructure:"embedding_model" yaml:"embedding_model"`
	Temperature    float64 `mapstructure:"temperature" yaml:"temperature"`
	MaxTokens      int     `mapstructure:"max_tokens" yaml:"max_tokens"`
}

type VectorConfig struct {
	Path       string `mapstructure:"path" yaml:"path"`
	Dimensions int    `mapstructure:"dimensions" yaml:"dimensions"`
	TopK       int    `mapstructure:"top_k" yaml:"top_k"`
}

type SearchConfig struct {
	MaxResults   int           `mapstructure:"max_results" yaml:"max_results"`
	FetchTimeout time.Duration `mapstructure:"fetch_timeout" yaml:"fetch_timeout"`
	MaxPageChars int           `mapstructure:"max_page_chars" yaml:"max_page_chars"`
}

type TwilioConfig struct {
	AccountSID string `mapstructure:"account_sid" yaml:"account_sid"`
	AuthToken  string `mapstructure:"auth_token" yaml:"auth_token"`
	FromNumber string `mapstructure:"from_number" yaml:"from_number"`
	ToNumber   string `mapstructure:"to_number" yaml:"to_number"`
}

type AuthConfig struct {
	Enabled         bool   `mapstructure:"enabled" yaml:"enabled"`
	JwtSecret       string `mapstructure:"jwt_secret" yaml:"jwt_secret"`
	Expire_Access_H int    `mapstructure:"expire_access_h" yaml:"expire_access_h"`
}

type RocketMQConfig struct {
	NameServers   []string `mapstructure:"name_servers" yaml:"name_servers"`
	MaxRetries    int      `mapstructure:"max_retries" yaml:"max_retries"`
	GroupName     string   `mapstructure:"group_name" yaml:"group_name"`
	ConsumerGroup string   `mapstructure:"consumer_group" yaml:"consumer_group"`
}

func LoadConfig() (*AppConfig, error) {
	var config AppConfig

	viper.SetConfigFile("config/config.yml")
	viper.SetConfigType("yaml")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		return &config, err
	}
	if err := viper.Unmarshal(&config); err != nil {
		return &config, err
	}
	return &config, nil
}
