package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()

	// Secrets are not listed in config.yaml, so their keys must be bound
	// explicitly for AutomaticEnv to surface them during Unmarshal.
	for _, key := range []string{"postgres.user", "postgres.password", "mongo.uri"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env for %s: %w", key, err)
		}
	}

	setDefaults(v)

	var config Config
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config file not found: %w", err)
	}
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := validator.New().Struct(&config); err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}
	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.readTimeoutSec", 10)
	v.SetDefault("server.writeTimeoutSec", 10)
	v.SetDefault("server.shutdownSec", 15)

	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.maxConns", 10)
	v.SetDefault("postgres.minConns", 2)
	v.SetDefault("postgres.maxConnLifetimeSec", 1800)
	v.SetDefault("postgres.maxConnIdleTimeSec", 300)
	v.SetDefault("postgres.healthCheckPeriodSec", 60)

	v.SetDefault("mongo.connectTimeoutSec", 10)

	v.SetDefault("kafka.clientId", "catalog-service")
	v.SetDefault("kafka.writeTimeoutSec", 5)

	v.SetDefault("pagination.defaultPageSize", 50)
}
