package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      int
	DBPath    string
	UploadDir string
	LogPath   string

	// JWTSecret signs admin tokens. Empty means a secret persisted in the
	// database is used.
	JWTSecret string
	Admin     AdminConfig
	Notify    NotifyConfig

	CORSOrigins []string
	MaxUploadMB int
}

type AdminConfig struct {
	Username string
	Password string
}

type NotifyConfig struct {
	URL            string
	Token          string
	NtfyURL        string
	WhatsAppNumber string
}

// Load reads configuration from the environment, after loading a .env file
// from the working directory if one exists.
func Load() Config {
	godotenv.Load()

	return Config{
		Port:      getEnvInt("PORT", 3000),
		DBPath:    getEnv("DB_PATH", "items.db"),
		UploadDir: getEnv("UPLOAD_DIR", "uploads"),
		LogPath:   getEnv("LOG_PATH", ""),
		JWTSecret: getEnv("JWT_SECRET", ""),
		Admin: AdminConfig{
			Username: getEnv("ADMIN_USERNAME", "admin"),
			Password: getEnv("ADMIN_PASSWORD", "admin123"),
		},
		Notify: NotifyConfig{
			URL:            getEnv("NOTIFY_URL", ""),
			Token:          getEnv("NOTIFY_TOKEN", ""),
			NtfyURL:        getEnv("NTFY_URL", ""),
			WhatsAppNumber: getEnv("WHATSAPP_NUMBER", ""),
		},
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "*")),
		MaxUploadMB: getEnvInt("MAX_UPLOAD_MB", 10),
	}
}

// Addr returns the listen address for the configured port.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// MaxUploadBytes returns the upload size limit in bytes.
func (c Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if valueStr, exists := os.LookupEnv(key); exists {
		value, err := strconv.Atoi(strings.TrimSpace(valueStr))
		if err == nil && value > 0 {
			return value
		}
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
