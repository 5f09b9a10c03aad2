// Package config loads application configuration from an optional
// config.yaml and ECSHOP_-prefixed environment variables, with sane
// defaults for local development.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Host string
	Port int
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// StoreConfig selects the persistence driver: "dynamodb" or "memory".
type StoreConfig struct {
	Driver string
}

type DynamoDBConfig struct {
	Region      string
	Endpoint    string
	TablePrefix string
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type JWTConfig struct {
	Secret         string
	AccessTokenTTL time.Duration
}

type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	DynamoDB DynamoDBConfig
	Kafka    KafkaConfig
	JWT      JWTConfig
}

// Load reads configuration. A missing config file is fine; a missing or
// short JWT secret is not.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("store.driver", "dynamodb")
	v.SetDefault("dynamodb.region", "us-east-1")
	v.SetDefault("dynamodb.endpoint", "")
	v.SetDefault("dynamodb.table_prefix", "ecshop_")
	v.SetDefault("kafka.brokers", "")
	v.SetDefault("kafka.topic", "order-events")
	v.SetDefault("jwt.access_token_ttl", 30*time.Minute)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvPrefix("ECSHOP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("server.host"),
			Port: v.GetInt("server.port"),
		},
		Store: StoreConfig{
			Driver: v.GetString("store.driver"),
		},
		DynamoDB: DynamoDBConfig{
			Region:      v.GetString("dynamodb.region"),
			Endpoint:    v.GetString("dynamodb.endpoint"),
			TablePrefix: v.GetString("dynamodb.table_prefix"),
		},
		Kafka: KafkaConfig{
			Brokers: splitNonEmpty(v.GetString("kafka.brokers")),
			Topic:   v.GetString("kafka.topic"),
		},
		JWT: JWTConfig{
			Secret:         v.GetString("jwt.secret"),
			AccessTokenTTL: v.GetDuration("jwt.access_token_ttl"),
		},
	}

	if cfg.Store.Driver != "dynamodb" && cfg.Store.Driver != "memory" {
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
	if cfg.JWT.Secret == "" {
		return nil, errors.New("jwt.secret (ECSHOP_JWT_SECRET) is required")
	}
	if len(cfg.JWT.Secret) < 32 {
		return nil, errors.New("jwt.secret must be at least 32 characters long")
	}

	return cfg, nil
}

func splitNonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
