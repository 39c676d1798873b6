package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Analyzer modes selectable through ANALYZER_MODE.
const (
	ModeMock = "mock"
	ModeLive = "live"
	ModeDB   = "db"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	HTTPAddr string
	LogLevel string

	AnalyzerMode    string
	PriceAPIBaseURL string
	PriceAPIPath    string
	MockSeed        int64

	RegionDataPath    string
	DeviceOptionsPath string
	RequireRegion     bool

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	MaxRetries    int
	ImportCSVPath string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		AnalyzerMode:    strings.ToLower(getEnv("ANALYZER_MODE", ModeMock)),
		PriceAPIBaseURL: strings.TrimRight(getEnv("PRICE_API_BASE_URL", "http://localhost:8000/api"), "/"),
		PriceAPIPath:    getEnv("PRICE_API_PATH", "/v1/analytics/summary"),
		MockSeed:        int64(getEnvInt("MOCK_SEED", 0)),

		RegionDataPath:    getEnv("REGION_DATA_PATH", "./static/locations_final.json"),
		DeviceOptionsPath: getEnv("DEVICE_OPTIONS_PATH", "./static/device_options.json"),
		RequireRegion:     getEnvBool("REQUIRE_REGION", false),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "howmuch"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "howmuch123"),
		PostgresDB:       getEnv("POSTGRES_DB", "howmuch_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		MaxRetries:    getEnvInt("MAX_RETRIES", 5),
		ImportCSVPath: getEnv("IMPORT_CSV_PATH", "./data/raw_listings.csv"),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

// PriceEndpoint is the full URL the live analyzer posts to.
func (c *Config) PriceEndpoint() string {
	path := c.PriceAPIPath
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.PriceAPIBaseURL + path
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

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
