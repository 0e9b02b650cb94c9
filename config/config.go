package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Redis    RedisConfig
	Database DatabaseConfig
	SQLite   SQLiteConfig
	Designer DesignerConfig
	Submit   SubmitConfig
	App      AppConfig
}

type ServerConfig struct {
	Port        string
	CORSOrigins []string
}

type StoreConfig struct {
	Backend  string // redis, postgres or sqlite
	MaxBytes int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	SlotTTL  time.Duration
}

type DatabaseConfig struct {
	Host           string
	Port           int
	User           string
	Password       string
	Name           string
	SSLMode        string
	ConnectTimeout time.Duration
}

type SQLiteConfig struct {
	Path string
}

type DesignerConfig struct {
	ProductName      string
	BaseImagePath    string
	ExportMultiplier float64
	SafeArea         [4]float64
	SessionIdleTTL   time.Duration
}

type SubmitConfig struct {
	Transport string // stub, http or redis
	URL       string
	Rate      float64
}

type AppConfig struct {
	Environment string
	LogLevel    string
	Version     string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	safeArea, err := parseSafeArea(getEnv("SAFE_AREA", "50,100,350,300"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			CORSOrigins: getEnvAsList("CORS_ORIGINS", []string{"http://localhost:3000"}),
		},
		Store: StoreConfig{
			Backend:  strings.ToLower(getEnv("STORE_BACKEND", "redis")),
			MaxBytes: getEnvAsInt("SNAPSHOT_MAX_BYTES", 5<<20),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			SlotTTL:  getEnvAsDuration("SLOT_TTL", 0),
		},
		Database: DatabaseConfig{
			Host:           getEnv("DB_HOST", "localhost"),
			Port:           getEnvAsInt("DB_PORT", 5432),
			User:           getEnv("DB_USER", "postgres"),
			Password:       getEnv("DB_PASSWORD", ""),
			Name:           getEnv("DB_NAME", "teedesigner"),
			SSLMode:        getEnv("DB_SSLMODE", "disable"),
			ConnectTimeout: getEnvAsDuration("DB_CONNECT_TIMEOUT", 5*time.Second),
		},
		SQLite: SQLiteConfig{
			Path: getEnv("SQLITE_PATH", "designer.db"),
		},
		Designer: DesignerConfig{
			ProductName:      getEnv("PRODUCT_NAME", "tshirt"),
			BaseImagePath:    getEnv("BASE_IMAGE_PATH", ""),
			ExportMultiplier: getEnvAsFloat("EXPORT_MULTIPLIER", 2),
			SafeArea:         safeArea,
			SessionIdleTTL:   getEnvAsDuration("SESSION_IDLE_TTL", 30*time.Minute),
		},
		Submit: SubmitConfig{
			Transport: strings.ToLower(getEnv("SUBMIT_TRANSPORT", "stub")),
			URL:       getEnv("SUBMIT_URL", ""),
			Rate:      getEnvAsFloat("SUBMIT_RATE", 2),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	switch c.Store.Backend {
	case "redis":
		if c.Redis.Addr == "" {
			return fmt.Errorf("REDIS_ADDR is required")
		}
	case "postgres":
		if c.Database.Host == "" {
			return fmt.Errorf("DB_HOST is required")
		}
		switch c.Database.SSLMode {
		case "disable", "allow", "prefer", "require", "verify-ca", "verify-full":
		default:
			return fmt.Errorf("DB_SSLMODE %q is not a libpq sslmode", c.Database.SSLMode)
		}
	case "sqlite":
		if c.SQLite.Path == "" {
			return fmt.Errorf("SQLITE_PATH is required")
		}
	default:
		return fmt.Errorf("STORE_BACKEND must be redis, postgres or sqlite, got %q", c.Store.Backend)
	}

	switch c.Submit.Transport {
	case "stub":
	case "http":
		if c.Submit.URL == "" {
			return fmt.Errorf("SUBMIT_URL is required when SUBMIT_TRANSPORT=http")
		}
	case "redis":
		if c.Redis.Addr == "" {
			return fmt.Errorf("REDIS_ADDR is required when SUBMIT_TRANSPORT=redis")
		}
	default:
		return fmt.Errorf("SUBMIT_TRANSPORT must be stub, http or redis, got %q", c.Submit.Transport)
	}

	if c.Designer.ExportMultiplier <= 0 {
		return fmt.Errorf("EXPORT_MULTIPLIER must be positive")
	}
	if c.Store.MaxBytes <= 0 {
		return fmt.Errorf("SNAPSHOT_MAX_BYTES must be positive")
	}

	return nil
}

// parseSafeArea reads "minX,minY,maxX,maxY".
func parseSafeArea(raw string) ([4]float64, error) {
	var out [4]float64
	parts := strings.Split(raw, ",")
	if len(parts) != 4 {
		return out, fmt.Errorf("SAFE_AREA must be minX,minY,maxX,maxY, got %q", raw)
	}
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return out, fmt.Errorf("SAFE_AREA: invalid number %q", p)
		}
		out[i] = v
	}
	if out[2] <= out[0] || out[3] <= out[1] {
		return out, fmt.Errorf("SAFE_AREA must have max greater than min, got %q", raw)
	}
	return out, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid number for %s, using default: %v", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration for %s, using default: %s", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var out []string
	for _, v := range strings.Split(valueStr, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
