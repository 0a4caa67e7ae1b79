package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageLocal    = "local"
	StoragePostgres = "postgres"
)

type Config struct {
	Storage  StorageConfig
	DB       DBConfig
	Telegram TelegramConfig
	HTTP     HTTPConfig
	AMQP     AMQPConfig
	Store    StoreConfig
	LogLevel string
}

type StorageConfig struct {
	Backend     string
	Path        string // local storage file; empty keeps orders in memory
	AutoMigrate bool
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

// URL returns a postgres connection string for pgxpool.
func (c DBConfig) URL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s",
		c.User, c.Password, c.Host, c.Port, c.Database,
	)
}

type TelegramConfig struct {
	Token   string
	AdminID int64 // staff chat allowed to run /orders, /export, /stats
}

type HTTPConfig struct {
	Addr              string
	AdminUser         string
	AdminPasswordHash string // bcrypt
}

type AMQPConfig struct {
	URL      string
	Exchange string
}

type StoreConfig struct {
	MenuFile string // optional YAML catalog overriding the built-in one
	Location *time.Location
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// LoadFile is Load with an explicit dotenv path; a missing file is an error.
func LoadFile(path string) (*Config, error) {
	if err := godotenv.Load(path); err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return FromEnv()
}

func FromEnv() (*Config, error) {
	port, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("DB_PORT: %w", err)
	}

	var adminID int64
	if v := getEnv("ADMIN_ID", ""); v != "" {
		adminID, err = strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("ADMIN_ID: %w", err)
		}
	}

	loc, err := time.LoadLocation(getEnv("STORE_TZ", "UTC"))
	if err != nil {
		return nil, fmt.Errorf("STORE_TZ: %w", err)
	}

	backend := strings.ToLower(getEnv("STORAGE", StorageLocal))
	if backend != StorageLocal && backend != StoragePostgres {
		return nil, fmt.Errorf("STORAGE: unknown backend %q", backend)
	}

	return &Config{
		Storage: StorageConfig{
			Backend:     backend,
			Path:        getEnv("STORAGE_PATH", "mimi-storage.json"),
			AutoMigrate: isTrue(getEnv("AUTO_MIGRATE", "")),
		},
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     port,
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "mimi"),
		},
		Telegram: TelegramConfig{
			Token:   getEnv("TOKEN", ""),
			AdminID: adminID,
		},
		HTTP: HTTPConfig{
			Addr:              getEnv("HTTP_ADDR", ":8080"),
			AdminUser:         getEnv("ADMIN_USER", "admin"),
			AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		},
		AMQP: AMQPConfig{
			URL:      getEnv("AMQP_URL", ""),
			Exchange: getEnv("AMQP_EXCHANGE", "kitchen"),
		},
		Store: StoreConfig{
			MenuFile: getEnv("MENU_FILE", ""),
			Location: loc,
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}, nil
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func isTrue(v string) bool {
	return v == "1" || strings.EqualFold(v, "true") || strings.EqualFold(v, "yes")
}
