package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	// devJWTSecret is only accepted when APP_ENV=development
	devJWTSecret = "fuelmate_dev_secret"
)

type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Redis    RedisConfig
	Storage  StorageConfig
	Drivers  DriversConfig
	Admin    AdminConfig
}

type AppConfig struct {
	Name    string
	Env     string
	Version string
}

// IsDevelopment reports whether error details may be exposed to clients
func (a AppConfig) IsDevelopment() bool {
	return a.Env == EnvDevelopment
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	RequestTimeout  time.Duration
	AllowedOrigins  []string
}

// DatabaseConfig selects the backing store: "sqlite" and "postgres" go through gorm, "mongo" through the mongo driver
type DatabaseConfig struct {
	Driver        string
	DSN           string
	MongoURI      string
	MongoDatabase string
}

type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

// RedisConfig is optional; an empty Addr disables rate limiting
type RedisConfig struct {
	Addr         string
	Password     string
	DB           int
	RateLimitRPS int
}

type StorageConfig struct {
	UploadDir      string
	MaxUploadBytes int64
}

type DriversConfig struct {
	RequireApproval bool
}

// AdminConfig seeds the first admin account when both email and password are set
type AdminConfig struct {
	SeedName     string
	SeedEmail    string
	SeedPassword string
}

// Load reads the configuration from the environment, after loading .env if present
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		App: AppConfig{
			Name:    getEnv("APP_NAME", "FuelMate API"),
			Env:     getEnv("APP_ENV", EnvDevelopment),
			Version: getEnv("APP_VERSION", "1.0.0"),
		},
		Server: ServerConfig{
			Port:            getEnv("PORT", "5000"),
			ReadTimeout:     getDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			ShutdownTimeout: getDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			RequestTimeout:  getDuration("REQUEST_TIMEOUT", 10*time.Second),
			AllowedOrigins:  getList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Database: DatabaseConfig{
			Driver:        strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
			DSN:           getEnv("DB_DSN", "fuelmate.db"),
			MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
			MongoDatabase: getEnv("MONGO_DATABASE", "fuelmate"),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", ""),
			TTL:    getDuration("JWT_TTL", 30*24*time.Hour),
		},
		Redis: RedisConfig{
			Addr:         getEnv("REDIS_ADDR", ""),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getInt("REDIS_DB", 0),
			RateLimitRPS: getInt("RATE_LIMIT_RPS", 20),
		},
		Storage: StorageConfig{
			UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
			MaxUploadBytes: int64(getInt("MAX_UPLOAD_BYTES", 5<<20)),
		},
		Drivers: DriversConfig{
			RequireApproval: getBool("DRIVER_APPROVAL_REQUIRED", false),
		},
		Admin: AdminConfig{
			SeedName:     getEnv("ADMIN_NAME", "Admin User"),
			SeedEmail:    getEnv("ADMIN_EMAIL", ""),
			SeedPassword: getEnv("ADMIN_PASSWORD", ""),
		},
	}

	if cfg.JWT.Secret == "" {
		if !cfg.App.IsDevelopment() {
			return nil, errors.New("missing jwt secret")
		}
		cfg.JWT.Secret = devJWTSecret
	}

	switch cfg.Database.Driver {
	case "sqlite", "postgres", "mongo":
	default:
		return nil, errors.New("unsupported DB_DRIVER " + cfg.Database.Driver)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		switch strings.ToLower(v) {
		case "1", "true", "yes":
			return true
		case "0", "false", "no":
			return false
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
