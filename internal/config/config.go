package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

type Config struct {
	WebhookURL      string
	HTTPAddr        string
	DeliveryTimeout time.Duration
	LogLevel        string
	MaxBodyBytes    int64
}

// fileConfig is the optional YAML file named by CONFIG_PATH.
type fileConfig struct {
	WebhookURL      string `yaml:"webhook_url"`
	HTTPAddr        string `yaml:"http_addr"`
	DeliveryTimeout string `yaml:"delivery_timeout"`
	LogLevel        string `yaml:"log_level"`
	MaxBodyBytes    int64  `yaml:"max_body_bytes"`
}

// Load reads configuration from defaults, the optional YAML file at
// CONFIG_PATH, then the environment. A missing WEBHOOK_URL is not an error
// here; it is checked on every request.
func Load() (Config, error) {
	v := viper.New()
	v.SetDefault("webhook_url", "")
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("port", "")
	v.SetDefault("delivery_timeout", "10s")
	v.SetDefault("log_level", "info")
	v.SetDefault("max_body_bytes", 1<<20)
	v.SetDefault("config_path", "")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path := v.GetString("config_path"); path != "" {
		fc, err := loadFile(path)
		if err != nil {
			return Config{}, err
		}
		applyFile(v, fc)
	}

	cfg := Config{
		WebhookURL:   strings.TrimSpace(v.GetString("webhook_url")),
		HTTPAddr:     v.GetString("http_addr"),
		LogLevel:     v.GetString("log_level"),
		MaxBodyBytes: v.GetInt64("max_body_bytes"),
	}
	if port := v.GetString("port"); port != "" && os.Getenv("HTTP_ADDR") == "" {
		cfg.HTTPAddr = ":" + port
	}

	timeout, err := time.ParseDuration(v.GetString("delivery_timeout"))
	if err != nil {
		return Config{}, fmt.Errorf("parse delivery_timeout: %w", err)
	}
	if timeout <= 0 {
		return Config{}, fmt.Errorf("delivery_timeout must be positive, got %s", timeout)
	}
	cfg.DeliveryTimeout = timeout

	if cfg.MaxBodyBytes <= 0 {
		return Config{}, fmt.Errorf("max_body_bytes must be positive, got %d", cfg.MaxBodyBytes)
	}
	return cfg, nil
}

func loadFile(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("decode config file: %w", err)
	}
	return &fc, nil
}

// applyFile layers file values between the defaults and the environment.
func applyFile(v *viper.Viper, fc *fileConfig) {
	if fc.WebhookURL != "" {
		v.SetDefault("webhook_url", fc.WebhookURL)
	}
	if fc.HTTPAddr != "" {
		v.SetDefault("http_addr", fc.HTTPAddr)
	}
	if fc.DeliveryTimeout != "" {
		v.SetDefault("delivery_timeout", fc.DeliveryTimeout)
	}
	if fc.LogLevel != "" {
		v.SetDefault("log_level", fc.LogLevel)
	}
	if fc.MaxBodyBytes != 0 {
		v.SetDefault("max_body_bytes", fc.MaxBodyBytes)
	}
}
