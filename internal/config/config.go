package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env        string     `yaml:"env" env:"ENV" env-default:"local"`
	Storage    Storage    `yaml:"storage"`
	Database   Database   `yaml:"database"`
	Redis      Redis      `yaml:"redis"`
	HTTPServer HTTPServer `yaml:"http_server"`
	Geocoding  Geocoding  `yaml:"geocoding"`
	SMTP       SMTP       `yaml:"smtp"`
	Notifier   Notifier   `yaml:"notifier"`
}

type Storage struct {
	// Driver is "postgres" or "memory".
	Driver string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"postgres"`
	// Users seeds the memory driver; users are otherwise managed externally.
	Users []SeedUser `yaml:"users"`
}

type SeedUser struct {
	ID        string `yaml:"id"`
	FirstName string `yaml:"first_name"`
	LastName  string `yaml:"last_name"`
	Email     string `yaml:"email"`
	UserType  string `yaml:"user_type"`
}

type Database struct {
	Host     string `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port     int    `yaml:"port" env:"DB_PORT" env-default:"5432"`
	User     string `yaml:"user" env:"DB_USER" env-default:"postgres"`
	Password string `yaml:"password" env:"DB_PASSWORD"`
	DBName   string `yaml:"dbname" env:"DB_NAME" env-default:"eventure"`
	SSLMode  string `yaml:"sslmode" env:"DB_SSLMODE" env-default:"disable"`
}

func (d *Database) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type Redis struct {
	Enabled  bool          `yaml:"enabled" env:"REDIS_ENABLED" env-default:"false"`
	Addr     string        `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int           `yaml:"db" env:"REDIS_DB" env-default:"0"`
	TTL      time.Duration `yaml:"ttl" env-default:"5m"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env-default:"localhost:8080"`
	Timeout     time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

type Geocoding struct {
	BaseURL string        `yaml:"base_url" env-default:"https://maps.googleapis.com/maps/api/geocode/json"`
	APIKey  string        `yaml:"api_key" env:"GOOGLE_MAPS_API_KEY"`
	Timeout time.Duration `yaml:"timeout" env-default:"5s"`
}

type SMTP struct {
	Host     string `yaml:"host" env:"SMTP_HOST" env-default:"localhost"`
	Port     int    `yaml:"port" env:"SMTP_PORT" env-default:"587"`
	Username string `yaml:"username" env:"SMTP_USERNAME"`
	Password string `yaml:"password" env:"SMTP_PASSWORD"`
	From     string `yaml:"from" env:"SMTP_FROM" env-default:"no-reply@eventure.local"`
}

type Notifier struct {
	QueueSize   int           `yaml:"queue_size" env-default:"256"`
	Workers     int           `yaml:"workers" env-default:"2"`
	SendTimeout time.Duration `yaml:"send_timeout" env-default:"10s"`
}

func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatal(err)
	}

	return cfg
}

func Load(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}

	return &cfg, nil
}
