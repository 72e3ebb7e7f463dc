package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const EnvProduction = "production"

type Config struct {
	Env            string `env:"APP_ENV" env-default:"development"`
	Log            LogConfig
	Http           HttpConfig
	Infrastructure InfrastructureConfig
	Cache          CacheConfig
}

type LogConfig struct {
	Level string `env:"LOG_LEVEL" env-default:"info"`
}

type HttpConfig struct {
	Addr        string `env:"HTTP_ADDR" env-default:":3000"`
	BodyLimitMB int    `env:"HTTP_BODY_LIMIT_MB" env-default:"10"`
}

type InfrastructureConfig struct {
	Mongo    MongoConfig
	Redis    RedisConfig
	RabbitMQ RabbitMQConfig
}

type MongoConfig struct {
	Uri        string `env:"MONGODB_URI" env-default:"mongodb://localhost:27017/mess-menu"`
	Database   string `env:"MONGODB_DATABASE"`
	Collection string `env:"MONGODB_COLLECTION" env-default:"menus"`
}

// RedisConfig is optional, an empty Addr disables the menu cache.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" env-default:"0"`
}

// RabbitMQConfig is optional, an empty Url disables upload events.
type RabbitMQConfig struct {
	Url      string `env:"RABBITMQ_URL"`
	Exchange string `env:"RABBITMQ_EXCHANGE" env-default:"mess-menu.events"`
}

type CacheConfig struct {
	TTL time.Duration `env:"MENU_CACHE_TTL" env-default:"10m"`
}

func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

func (c *HttpConfig) BodyLimit() int {
	return c.BodyLimitMB * 1024 * 1024
}

func Load() (*Config, error) {
	if os.Getenv("APP_ENV") != EnvProduction {
		_ = godotenv.Load()
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read config from env: %w", err)
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}
