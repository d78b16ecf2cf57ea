package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the process configuration read from the environment
type Config struct {
	Port        int
	LogLevel    string
	LogFormat   string
	Environment string
	Version     string
	LogDir      string

	DBUser      string
	DBPassword  string
	DBHost      string
	DBPort      string
	DBName      string
	DBMaxConns  int
	DBMaxIdle   time.Duration
	DBMaxLife   time.Duration
	AutoMigrate bool

	APIKey         string // API key for draw clients
	AdminJWTSecret string // HMAC secret for operator bearer tokens
	AdminJWTIssuer string
	CORSOrigins    []string
	TrustedProxies []string

	Storage          string // StoragePostgres or StorageMemory
	EngineConfigPath string
	DemoCatalogPath  string // fixtures loaded by memory storage and cmd/setup -seed
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:    getEnv("LOG_LEVEL", DefaultLogLevel),
		LogFormat:   getEnv("LOG_FORMAT", DefaultLogFormat),
		Environment: getEnv("ENVIRONMENT", DefaultEnvironment),
		Version:     getEnv("VERSION", DefaultVersion),
		LogDir:      getEnv("LOG_DIR", DefaultLogDir),

		DBUser:      getEnv("DB_USER", DefaultDBUser),
		DBPassword:  getEnv("DB_PASSWORD", DefaultDBPassword),
		DBHost:      getEnv("DB_HOST", DefaultDBHost),
		DBPort:      getEnv("DB_PORT", DefaultDBPort),
		DBName:      getEnv("DB_NAME", DefaultDBName),
		DBMaxConns:  getEnvAsInt("DB_MAX_CONNS", DefaultDBMaxConns),
		DBMaxIdle:   getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", DefaultDBMaxIdle),
		DBMaxLife:   getEnvAsDuration("DB_MAX_CONN_LIFETIME", DefaultDBMaxLife),
		AutoMigrate: getEnvAsBool("DB_AUTO_MIGRATE", true),

		APIKey:         getEnv("API_KEY", ""),
		AdminJWTSecret: getEnv("ADMIN_JWT_SECRET", ""),
		AdminJWTIssuer: getEnv("ADMIN_JWT_ISSUER", DefaultJWTIssuer),
		CORSOrigins:    getEnvAsList("CORS_ALLOWED_ORIGINS"),
		TrustedProxies: getEnvAsList("TRUSTED_PROXIES"),

		Storage:          strings.ToLower(getEnv("STORAGE", StoragePostgres)),
		EngineConfigPath: getEnv("ENGINE_CONFIG_PATH", ConfigPathEngine),
		DemoCatalogPath:  getEnv("DEMO_CATALOG_PATH", ConfigPathDemoCatalog),
	}

	port, err := strconv.Atoi(getEnv("PORT", DefaultPort))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT value: %w", err)
	}
	cfg.Port = port

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API_KEY environment variable must be set for security")
	}
	if cfg.AdminJWTSecret == "" {
		return nil, fmt.Errorf("ADMIN_JWT_SECRET environment variable must be set for security")
	}
	if len(cfg.AdminJWTSecret) < MinJWTSecretLength {
		return nil, fmt.Errorf("ADMIN_JWT_SECRET must be at least %d bytes", MinJWTSecretLength)
	}
	if cfg.Storage != StoragePostgres && cfg.Storage != StorageMemory {
		return nil, fmt.Errorf("invalid STORAGE value %q: expected %s or %s", cfg.Storage, StoragePostgres, StorageMemory)
	}

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvAsBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	v, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, ""), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}
