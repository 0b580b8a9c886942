package config

import (
	"github.com/maxviazov/catalog-service/internal/logger"
)

// Config is the full application configuration, loaded from config.yaml with
// APP_-prefixed environment overrides.
type Config struct {
	Server     ServerConfig        `mapstructure:"server"`
	Logger     logger.LoggerConfig `mapstructure:"logger"`
	Postgres   PostgresConfig      `mapstructure:"postgres"`
	Mongo      MongoConfig         `mapstructure:"mongo"`
	Kafka      KafkaConfig         `mapstructure:"kafka"`
	Pagination PaginationConfig    `mapstructure:"pagination"`
}

type ServerConfig struct {
	Port            int `mapstructure:"port" validate:"required,min=1,max=65535"`
	ReadTimeoutSec  int `mapstructure:"readTimeoutSec" validate:"min=0"`
	WriteTimeoutSec int `mapstructure:"writeTimeoutSec" validate:"min=0"`
	ShutdownSec     int `mapstructure:"shutdownSec" validate:"min=0"`
}

// PostgresConfig holds the product store connection and pool tuning.
// Credentials come from the environment (APP_POSTGRES_PASSWORD etc.).
type PostgresConfig struct {
	Host              string `mapstructure:"host" validate:"required"`
	Port              int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	User              string `mapstructure:"user" validate:"required"`
	Password          string `mapstructure:"password"`
	DBName            string `mapstructure:"dbname" validate:"required"`
	SSLMode           string `mapstructure:"sslmode" validate:"omitempty,oneof=disable require verify-ca verify-full"`
	MaxConns          int32  `mapstructure:"maxConns" validate:"min=0"`
	MinConns          int32  `mapstructure:"minConns" validate:"min=0"`
	MaxConnLifetime   int    `mapstructure:"maxConnLifetimeSec" validate:"min=0"`
	MaxConnIdleTime   int    `mapstructure:"maxConnIdleTimeSec" validate:"min=0"`
	HealthCheckPeriod int    `mapstructure:"healthCheckPeriodSec" validate:"min=0"`
}

// MongoConfig holds the offer store connection.
type MongoConfig struct {
	URI            string `mapstructure:"uri" validate:"required"`
	Database       string `mapstructure:"database" validate:"required"`
	ConnectTimeout int    `mapstructure:"connectTimeoutSec" validate:"min=0"`
}

// KafkaConfig holds the event bus settings. Publishing is fire-and-forget
// relative to the HTTP response, so the write timeout stays short.
type KafkaConfig struct {
	Brokers         []string `mapstructure:"brokers" validate:"required,min=1"`
	ClientID        string   `mapstructure:"clientId"`
	ProductTopic    string   `mapstructure:"productTopic" validate:"required"`
	OfferTopic      string   `mapstructure:"offerTopic" validate:"required"`
	WriteTimeoutSec int      `mapstructure:"writeTimeoutSec" validate:"min=0"`
}

type PaginationConfig struct {
	DefaultPageSize int `mapstructure:"defaultPageSize" validate:"required,min=1"`
}
