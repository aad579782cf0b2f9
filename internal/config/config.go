// Package config loads application configuration from environment variables.
// Every setting has a default, so a bare `weekmenu` starts a working server.
package config

import "os"

type Config struct {
	Port       string
	DBPath     string
	UploadsDir string
	LogLevel   string
}

// Load builds the configuration from the environment. The returned Config is
// a value and never mutated after startup.
func Load() Config {
	return Config{
		Port:       getEnvOrDefault("WEEKMENU_PORT", "8080"),
		DBPath:     getEnvOrDefault("WEEKMENU_DB_PATH", "weekmenu.db"),
		UploadsDir: getEnvOrDefault("WEEKMENU_UPLOADS_DIR", "web/static/uploads"),
		LogLevel:   getEnvOrDefault("WEEKMENU_LOG_LEVEL", "info"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
