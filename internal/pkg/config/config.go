package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"lokasi/internal/pkg/models"
)

// InitConfig loads configuration from the environment. When running locally
// (APP_ENV=local, the default) a .env file at configPath is loaded first.
func InitConfig(configPath string) *models.Config {
	local := GetEnv("APP_ENV", "local")
	if local == "local" {
		// Load config from file
		err := godotenv.Load(configPath)
		if err != nil {
			log.Println("error loading config from file", err)
		}
	}
	// Create config from environment variables
	return loadConfigFromEnv()
}

func loadConfigFromEnv() *models.Config {
	configs := &models.Config{}

	// App config
	configs.App.Name = GetEnv("APP_NAME", "lokasi")
	configs.App.Environment = GetEnv("APP_ENV", "local")
	configs.App.Debug = GetEnvAsBool("APP_DEBUG", false)
	configs.App.Version = GetEnv("APP_VERSION", "")

	// Server config
	configs.Server.Host = GetEnv("SERVER_HOST", "")
	configs.Server.Port = GetEnvAsInt("SERVER_PORT", 5000)
	configs.Server.ReadTimeout = GetEnvAsInt("SERVER_READ_TIMEOUT", 0)
	configs.Server.WriteTimeout = GetEnvAsInt("SERVER_WRITE_TIMEOUT", 0)
	configs.Server.ShutdownTimeout = GetEnvAsInt("SERVER_SHUTDOWN_TIMEOUT", 30)

	// Storage config
	configs.Storage.DataFilePath = GetEnv("DATA_FILE_PATH", "data/locations.jsonl")
	configs.Storage.DeviceInfoMax = GetEnvAsInt("DEVICE_INFO_MAX", 512)

	// GeoIP config
	configs.GeoIP.Enabled = GetEnvAsBool("GEOIP_LOOKUP", false)
	configs.GeoIP.Endpoint = GetEnv("GEOIP_ENDPOINT", "https://ipapi.co")
	configs.GeoIP.TimeoutSeconds = GetEnvAsInt("GEOIP_TIMEOUT", 3)

	// Logger config
	configs.Logger.Level = GetEnv("LOG_LEVEL", "info")
	configs.Logger.FilePath = GetEnv("LOG_FILE_PATH", "")
	configs.Logger.MaxSize = GetEnvAsInt("LOG_MAX_SIZE", 100)
	configs.Logger.MaxAge = GetEnvAsInt("LOG_MAX_AGE", 7)
	configs.Logger.MaxBackups = GetEnvAsInt("LOG_MAX_BACKUPS", 3)
	configs.Logger.Compress = GetEnvAsBool("LOG_COMPRESS", true)

	return configs
}

// Validate checks startup-critical configuration. A failure here is fatal
// and must be reported before any listener opens.
func Validate(configs *models.Config) error {
	if raw := os.Getenv("SERVER_PORT"); raw != "" {
		if _, err := strconv.Atoi(raw); err != nil {
			return fmt.Errorf("invalid server port %q: not an integer", raw)
		}
	}
	if configs.Server.Port < 1 || configs.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d: must be between 1 and 65535", configs.Server.Port)
	}
	if configs.Storage.DataFilePath == "" {
		return fmt.Errorf("data file path must not be empty")
	}
	if configs.GeoIP.Enabled && configs.GeoIP.TimeoutSeconds < 1 {
		return fmt.Errorf("invalid geoip timeout %d: must be at least 1 second", configs.GeoIP.TimeoutSeconds)
	}
	return nil
}

// Helper functions to get environment variables with different types
func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := GetEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer value for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func GetEnvAsBool(key string, defaultValue bool) bool {
	valueStr := GetEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid boolean value for %s, using default: %v", key, defaultValue)
		return defaultValue
	}

	return value
}
