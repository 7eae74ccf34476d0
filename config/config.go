package config

import (
	"errors"
	"fmt"
	"log"
	"time"

	"empresspc/utils"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	DBMongo  = "mongo"
	DBMemory = "memory"
)

type Config struct {
	AppEnv string `envconfig:"APP_ENV" default:"development"`
	Port   string `envconfig:"PORT" default:"8080"`

	DBType        string `envconfig:"DB_TYPE" default:"mongo"`
	MongoURL      string `envconfig:"MONGO_URL" default:"mongodb://localhost:27017"`
	MongoDatabase string `envconfig:"MONGO_DATABASE" default:"empresspc"`

	JWTSecret string        `envconfig:"JWT_SECRET"`
	TokenTTL  time.Duration `envconfig:"TOKEN_TTL" default:"24h"`

	// RedisAddr enables the token denylist used by logout. Empty disables it.
	RedisAddr     string `envconfig:"REDIS_ADDR"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`

	LogLevel   string `envconfig:"LOG_LEVEL" default:"info"`
	CORSOrigin string `envconfig:"CORS_ORIGIN" default:"*"`

	ReadTimeout   time.Duration `envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout  time.Duration `envconfig:"WRITE_TIMEOUT" default:"60s"`
	ChromeTimeout time.Duration `envconfig:"CHROME_TIMEOUT" default:"30s"`
	LoginRate     int           `envconfig:"LOGIN_RATE_PER_MINUTE" default:"10"`

	R2AccountID       string `envconfig:"R2_ACCOUNT_ID"`
	R2AccessKeyID     string `envconfig:"R2_ACCESS_KEY_ID"`
	R2SecretAccessKey string `envconfig:"R2_SECRET_ACCESS_KEY"`
	R2Bucket          string `envconfig:"R2_BUCKET"`
	R2PublicURL       string `envconfig:"R2_PUBLIC_URL"`
}

// LoadConfig reads .env when present, then the environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must be provided")
	}
	switch c.DBType {
	case DBMongo:
		if c.MongoURL == "" {
			return errors.New("MONGO_URL must be provided for DB_TYPE=mongo")
		}
	case DBMemory:
	default:
		return fmt.Errorf("DB_TYPE %q not supported", c.DBType)
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}

func (c *Config) R2() utils.R2Config {
	return utils.R2Config{
		AccountID:       c.R2AccountID,
		AccessKeyID:     c.R2AccessKeyID,
		SecretAccessKey: c.R2SecretAccessKey,
		Bucket:          c.R2Bucket,
		PublicURL:       c.R2PublicURL,
	}
}
