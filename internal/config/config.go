package config

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type HTTPServer struct {
	Addr string `yaml:"address" env:"HTTP_ADDR" env-default:":8080"`
}

type Catalog struct {
	BaseURL string        `yaml:"CATALOG_BASE_URL" env:"CATALOG_BASE_URL" env-default:"https://fakestoreapi.com"`
	Timeout time.Duration `yaml:"CATALOG_TIMEOUT" env:"CATALOG_TIMEOUT" env-default:"10s"`
}

type CartStorage struct {
	// Backend selects where the single cart key lives: "file" or "redis".
	Backend  string `yaml:"CART_BACKEND" env:"CART_BACKEND" env-default:"file"`
	FilePath string `yaml:"CART_FILE" env:"CART_FILE" env-default:"cart.json"`
}

type RedisConnect struct {
	Addr     string `yaml:"REDIS_ADDR" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Username string `yaml:"REDIS_USER" env:"REDIS_USER" env-default:""`
	Password string `yaml:"REDIS_PASSWORD" env:"REDIS_PASSWORD" env-default:""`
	DB       int    `yaml:"REDIS_DB" env:"REDIS_DB" env-default:"0"`
}

type RateConfig struct {
	MaxAttempts int64         `yaml:"MAX_ATTEMPTS" env:"MAX_ATTEMPTS" env-default:"5"`
	WindowSize  time.Duration `yaml:"WINDOW_SIZE" env:"WINDOW_SIZE" env-default:"15m"`
}

type Payment struct {
	// Delay stands in for the gateway round trip; there is no real
	// payment processing anywhere in this system.
	Delay       time.Duration `yaml:"PAYMENT_DELAY" env:"PAYMENT_DELAY" env-default:"2s"`
	DeclineRate float64       `yaml:"PAYMENT_DECLINE_RATE" env:"PAYMENT_DECLINE_RATE" env-default:"0"`
}

type SendGrid struct {
	APIKey    string `yaml:"SENDGRID_API_KEY" env:"SENDGRID_API_KEY" env-default:""`
	FromEmail string `yaml:"SENDGRID_FROM_EMAIL" env:"SENDGRID_FROM_EMAIL" env-default:"orders@shopsmith.dev"`
	FromName  string `yaml:"SENDGRID_FROM_NAME" env:"SENDGRID_FROM_NAME" env-default:"Shopsmith Orders"`
}

type Security struct {
	JWTKey string `yaml:"JWT_KEY" env:"JWT_KEY" env-default:"dev-only-secret"`
}

type Config struct {
	Env          string `yaml:"env" env:"ENV" env-default:"local"`
	HTTPServer   `yaml:"http_server"`
	Catalog      Catalog      `yaml:"catalog"`
	CartStorage  CartStorage  `yaml:"cart_storage"`
	RedisConnect RedisConnect `yaml:"redis"`
	RateConfig   RateConfig   `yaml:"rateConfig"`
	Payment      Payment      `yaml:"payment"`
	SendGrid     SendGrid     `yaml:"sendgrid"`
	Security     Security     `yaml:"security"`
}

// MustLoad reads the yaml file named by CONFIG_PATH (or -config) when one
// is given, otherwise it falls back to environment variables alone.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")

	if configPath == "" {
		flagPath := flag.String("config", "", "path to the config file")
		flag.Parse()
		configPath = *flagPath
	}

	if configPath == "" {
		var cfg Config
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			log.Fatalf("can not read config from environment: %s", err.Error())
		}

		return &cfg
	}

	cfg, err := LoadConfigFromPath(configPath)
	if err != nil {
		log.Fatalf("can not load config: %s", err.Error())
	}

	return cfg
}

func LoadConfigFromPath(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("can not read config file: %w", err)
	}

	return &cfg, nil
}

func (r *RedisConnect) GetDSN() string {
	if r.Username == "" && r.Password == "" {
		return fmt.Sprintf("redis://%s/%d", r.Addr, r.DB)
	}

	return fmt.Sprintf("redis://%s:%s@%s/%d", r.Username, r.Password, r.Addr, r.DB)
}
