package config

import (
	"os"
	"strconv"
)

// Config holds settings that come from the environment. CLI flags are
// layered on top, see flags.go.
type Config struct {
	BaseURL     string
	JPEGQuality int
	FontPath    string
	FontSize    float64
	LedgerPath  string
	Port        int
	CacheSize   int
	LogLevel    string
}

func LoadConfig() Config {
	jpegQuality, _ := strconv.Atoi(getEnv("JPEG_QUALITY", "90"))
	fontSize, _ := strconv.ParseFloat(getEnv("FONT_SIZE", "12"), 64)
	port, _ := strconv.Atoi(getEnv("PORT", "8080"))
	cacheSize, _ := strconv.Atoi(getEnv("CACHE_SIZE", "256"))

	return Config{
		BaseURL:     getEnv("BASE_URL", "http://app.seedtabs.com"),
		JPEGQuality: jpegQuality,
		FontPath:    getEnv("FONT_PATH", ""),
		FontSize:    fontSize,
		LedgerPath:  getEnv("LEDGER_PATH", ""),
		Port:        port,
		CacheSize:   cacheSize,
		LogLevel:    getEnv("LOG_LEVEL", "INFO"),
	}
}

// Debug reports whether LOG_LEVEL asks for debug output
func (c Config) Debug() bool {
	return c.LogLevel == "DEBUG"
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
