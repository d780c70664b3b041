package models

// Config represents application configuration
type Config struct {
	App     AppConfig
	Server  ServerConfig
	Storage StorageConfig
	GeoIP   GeoIPConfig
	Logger  LoggerConfig
}

// AppConfig contains application-specific configuration
type AppConfig struct {
	Name        string
	Environment string
	Debug       bool
	Version     string
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
}

// StorageConfig contains history log configuration. The history log grows
// without bound; retention is an operator concern, not handled here.
type StorageConfig struct {
	DataFilePath  string
	DeviceInfoMax int
}

// GeoIPConfig contains IP geolocation lookup configuration
type GeoIPConfig struct {
	Enabled        bool
	Endpoint       string
	TimeoutSeconds int
}

// LoggerConfig contains application logger configuration
type LoggerConfig struct {
	Level      string
	FilePath   string
	MaxSize    int // MB before rotation
	MaxAge     int // days
	MaxBackups int
	Compress   bool
}
