package config

import "github.com/caarlos0/env/v11"

type Config struct {
	ListenAddr string `env:"LISTEN_ADDR" envDefault:":8080"`

	MySQLDSN string `env:"MYSQL_DSN" envDefault:"user:password@tcp(127.0.0.1:3306)/trailhub?charset=utf8mb4&parseTime=True"`

	JWTSecret string `env:"JWT_SECRET" envDefault:"trailhub-dev-secret"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"127.0.0.1:6379"`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"127.0.0.1:9092"`
	KafkaTopic   string   `env:"KAFKA_TOPIC" envDefault:"trailhub.events"`

	// 后台 worker（outbox 投递、计数对账）开关
	EnableWorkers bool `env:"ENABLE_WORKERS" envDefault:"true"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
