package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoadConfig 从文件和环境变量加载配置
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")

	// BUILDER_JWT_SECRET 覆盖 jwt.secret
	v.SetEnvPrefix("BUILDER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.JWT.Secret == "" {
		return nil, errors.New("jwt.secret is required")
	}
	if cfg.Mongo.URL == "" {
		return nil, errors.New("mongo.url is required")
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("mongo.database", "builder_central")
	v.SetDefault("jwt.issuer", "BuilderCentral")
	v.SetDefault("jwt.expiration_hours", 24*7)
	v.SetDefault("elastic.indices.tool_index", "tools")
	v.SetDefault("logstash.index", "logstash-builder-central")
	v.SetDefault("kafka.producer.topic", "builder.activity")
	v.SetDefault("kafka.producer.max_retry", 3)
	v.SetDefault("kafka.consumer.session_timeout", 10)
	v.SetDefault("kafka.consumer.heartbeat_interval", 3)
	v.SetDefault("kafka.consumer.rebalance_timeout", 60)
	v.SetDefault("kafka.consumer.max_processing_time", 30)
	v.SetDefault("kafka_activity_consumer.topic", "builder.activity")
	v.SetDefault("kafka_activity_consumer.group_id", "builder-activity-indexer")
	v.SetDefault("dashboard.cache_ttl_seconds", 60)
	v.SetDefault("preview.timeout_seconds", 10)
	v.SetDefault("preview.user_agent", "Mozilla/5.0 (compatible; BuilderCentralBot/1.0)")
}
