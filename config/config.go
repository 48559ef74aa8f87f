package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	SheetURL     string
	SheetHTMLURL string
	FetchMode    string
	MaxRent      float64

	StateBackend string
	StatePath    string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string

	Recipients           []string
	HealthcheckRecipient string
	SendWhenNoNew        bool

	LogPath        string
	SnapshotPath   string
	FetchTimeout   int
	MaxRetries     int
	MinHealthyRows int
	LogMaxAgeHours int
	ChromeBin      string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	user := getEnv("GMAIL_USER", "")

	return &Config{
		SheetURL:     getEnv("SHEET_URL", ""),
		SheetHTMLURL: getEnv("SHEET_HTML_URL", ""),
		FetchMode:    getEnv("FETCH_MODE", "http"),
		MaxRent:      getEnvFloat("MAX_RENT", 3000),

		StateBackend: getEnv("STATE_BACKEND", "file"),
		StatePath:    getEnv("STATE_PATH", "./seen_listings.json"),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "monitor"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", ""),
		PostgresDB:       getEnv("POSTGRES_DB", "housing_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		SMTPHost:     getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUser:     user,
		SMTPPassword: getEnv("GMAIL_APP_PASSWORD", ""),

		Recipients:           splitList(getEnv("RECIPIENT_EMAIL", user)),
		HealthcheckRecipient: getEnv("HEALTHCHECK_RECIPIENT", user),
		SendWhenNoNew:        getEnvBool("SEND_WHEN_NO_NEW", false),

		LogPath:        getEnv("LOG_PATH", ""),
		SnapshotPath:   getEnv("SNAPSHOT_PATH", ""),
		FetchTimeout:   getEnvInt("FETCH_TIMEOUT_SEC", 30),
		MaxRetries:     getEnvInt("MAX_RETRIES", 3),
		MinHealthyRows: getEnvInt("MIN_HEALTHY_ROWS", 10),
		LogMaxAgeHours: getEnvInt("LOG_MAX_AGE_HOURS", 24),
		ChromeBin:      getEnv("CHROME_BIN", ""),
	}
}

// DSN returns the PostgreSQL connection string for the postgres state backend.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

// getEnvBool treats the value as true iff it spells "true" in any casing;
// .env files are hand-edited, so "True" and "TRUE" must count.
func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		return strings.ToLower(strings.TrimSpace(val)) == "true"
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		f, err := strconv.ParseFloat(val, 64)
		if err == nil {
			return f
		}
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
