package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"

	StorageDriverMinIO  = "minio"
	StorageDriverS3     = "s3"
	StorageDriverMemory = "memory"
)

type Config struct {
	Server  ServerConfig
	DB      DBConfig
	Storage StorageConfig
	JWT     JWTConfig
	Log     LogConfig
	Upload  UploadConfig
	// SeedDemoUser creates user@example.com on an empty users table.
	SeedDemoUser bool
}

type ServerConfig struct {
	Port        string
	CORSOrigins string
}

type DBConfig struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	// Path is the sqlite file (or ":memory:") when Driver is sqlite.
	Path string
}

type StorageConfig struct {
	Driver         string
	Endpoint       string
	PublicEndpoint string
	Region         string
	AccessKey      string
	SecretKey      string
	Bucket         string
	UseSSL         bool
	UsePathStyle   bool
	PresignTTL     time.Duration
}

type JWTConfig struct {
	Secret          string
	ExpirationHours int
}

func (c JWTConfig) TTL() time.Duration {
	return time.Duration(c.ExpirationHours) * time.Hour
}

type LogConfig struct {
	Level    string
	Encoding string
}

type UploadConfig struct {
	MaxBytes int
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000"),
		},
		DB: DBConfig{
			Driver:   strings.ToLower(getEnv("DB_DRIVER", DBDriverPostgres)),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "filevault"),
			Password: getEnv("DB_PASSWORD", "filevault_secret"),
			Name:     getEnv("DB_NAME", "filevault"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			Path:     getEnv("DB_PATH", "filevault.db"),
		},
		Storage: StorageConfig{
			Driver:         strings.ToLower(getEnv("STORAGE_DRIVER", StorageDriverMinIO)),
			Endpoint:       getEnv("STORAGE_ENDPOINT", "localhost:9000"),
			PublicEndpoint: getEnv("STORAGE_PUBLIC_ENDPOINT", getEnv("STORAGE_ENDPOINT", "localhost:9000")),
			Region:         getEnv("STORAGE_REGION", "us-east-1"),
			AccessKey:      getEnv("STORAGE_ACCESS_KEY", "filevault"),
			SecretKey:      getEnv("STORAGE_SECRET_KEY", "filevault_secret"),
			Bucket:         getEnv("STORAGE_BUCKET", "filevault"),
			UseSSL:         getEnvAsBool("STORAGE_USE_SSL", false),
			UsePathStyle:   getEnvAsBool("STORAGE_USE_PATH_STYLE", true),
			PresignTTL:     getEnvAsDuration("STORAGE_PRESIGN_TTL", time.Hour),
		},
		JWT: JWTConfig{
			Secret:          getEnv("JWT_SECRET", "change-me-in-production"),
			ExpirationHours: getEnvAsInt("JWT_EXPIRATION_HOURS", 24),
		},
		Log: LogConfig{
			Level:    getEnv("LOG_LEVEL", "info"),
			Encoding: getEnv("LOG_ENCODING", "json"),
		},
		Upload: UploadConfig{
			MaxBytes: getEnvAsInt("UPLOAD_MAX_BYTES", 100*1024*1024),
		},
		SeedDemoUser: getEnvAsBool("SEED_DEMO_USER", true),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := strconv.ParseBool(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}
