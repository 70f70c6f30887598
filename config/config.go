package config

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

const (
	defaultPort           = "8080"
	defaultDatabasePath   = "persongraph.db"
	defaultAllowedOrigins = "http://localhost:5173"
	defaultLogMode        = "development"
	defaultHobbyCacheTTL  = 5 * time.Minute
)

type Config struct {
	// store selection
	DBDriver     string
	DatabasePath string // sqlite file, used when DBDriver is sqlite
	DatabaseDSN  string // postgres DSN, used when DBDriver is postgres

	// http
	Port               string
	CORSAllowedOrigins []string

	LogMode string

	// optional redis cache for hobby reads; disabled when RedisAddr is empty
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	HobbyCacheTTL time.Duration

	// orphan address janitor; zero disables it
	OrphanSweepInterval time.Duration

	// optional YAML hobby catalogue used by the seed command
	SeedFile string
}

func getIntOrDefault(v *viper.Viper, key string, defaultVal int) int {
	valStr := strings.TrimSpace(v.GetString(key))
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val < 0 {
		log.Printf("Warning: Invalid %s '%s'. Using default %d. Error: %v", key, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func getDurationOrDefault(v *viper.Viper, key string, defaultVal time.Duration) time.Duration {
	valStr := strings.TrimSpace(v.GetString(key))
	if valStr == "" {
		return defaultVal
	}
	val, err := time.ParseDuration(valStr)
	if err != nil || val < 0 {
		log.Printf("Warning: Invalid %s '%s'. Using default %s. Error: %v", key, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// LoadConfig reads the configuration from the environment.
func LoadConfig() (Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("DB_DRIVER", DriverSQLite)
	v.SetDefault("DATABASE_PATH", defaultDatabasePath)
	v.SetDefault("PORT", defaultPort)
	v.SetDefault("CORS_ALLOWED_ORIGINS", defaultAllowedOrigins)
	v.SetDefault("LOG_MODE", defaultLogMode)

	driver := strings.ToLower(strings.TrimSpace(v.GetString("DB_DRIVER")))
	switch driver {
	case DriverSQLite, DriverPostgres:
	default:
		return Config{}, fmt.Errorf("unsupported DB_DRIVER '%s' (expected %s or %s)", driver, DriverSQLite, DriverPostgres)
	}

	dsn := v.GetString("DATABASE_DSN")
	if driver == DriverPostgres && dsn == "" {
		return Config{}, fmt.Errorf("DATABASE_DSN is required when DB_DRIVER is %s", DriverPostgres)
	}

	cfg := Config{
		DBDriver:            driver,
		DatabasePath:        v.GetString("DATABASE_PATH"),
		DatabaseDSN:         dsn,
		Port:                v.GetString("PORT"),
		CORSAllowedOrigins:  splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		LogMode:             v.GetString("LOG_MODE"),
		RedisAddr:           v.GetString("REDIS_ADDR"),
		RedisPassword:       v.GetString("REDIS_PASSWORD"),
		RedisDB:             getIntOrDefault(v, "REDIS_DB", 0),
		HobbyCacheTTL:       getDurationOrDefault(v, "HOBBY_CACHE_TTL", defaultHobbyCacheTTL),
		OrphanSweepInterval: getDurationOrDefault(v, "ORPHAN_SWEEP_INTERVAL", 0),
		SeedFile:            v.GetString("SEED_FILE"),
	}

	return cfg, nil
}
