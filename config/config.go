package config

import (
	"log"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// Persistence modes. Overwrite scopes deduplication and the persisted set
// to a single run; accumulate merges each run into the stored history.
const (
	ModeOverwrite  = "overwrite"
	ModeAccumulate = "accumulate"
)

// Storage backends.
const (
	BackendJSON     = "json"
	BackendPostgres = "postgres"
)

// Config holds all application configuration, loaded once at startup and
// passed through the pipeline explicitly.
type Config struct {
	IMAPServer    string
	EmailAccount  string
	EmailPassword string

	// Match criteria from the YAML file (senders searched, title blocklist).
	Senders         []string
	BlockedKeywords []string

	MinArea         float64
	MaxArea         float64
	MinPricePerArea float64
	MaxListingAge   time.Duration
	SearchSinceDays int

	PriceWeight        float64
	RecencyWeight      float64
	SimilaritySequence int

	Mode           string
	StorageBackend string

	ListingsPath   string
	CSVOutputPath  string
	HTMLOutputPath string

	MaxRetries int

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string
}

// criteriaFile is the YAML side of the configuration: list-valued match
// criteria that are awkward to express as environment variables.
type criteriaFile struct {
	Senders         []string `yaml:"senders"`
	BlockedKeywords []string `yaml:"blocked_keywords"`
}

var defaultSenders = []string{
	"noreply@notifiche.immobiliare.it",
	"noreply_at_casa.it_4j78rss9@duck.com",
	"alerts@idealista.com",
}

var defaultBlockedKeywords = []string{
	"asta", "affitto", "garage", "box", "ufficio", "laboratorio",
	"negozio", "capannone", "stazione", "corsica", "mansarda", "villaggio",
}

// Load reads the .env file, the environment and the criteria YAML, and
// returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	cfg := &Config{
		IMAPServer:    getEnv("IMAP_SERVER", "imapmail.libero.it:993"),
		EmailAccount:  getEnv("EMAIL_ACCOUNT", ""),
		EmailPassword: getEnv("EMAIL_PASSWORD", ""),

		MinArea:         getEnvFloat("MIN_AREA", 60),
		MaxArea:         getEnvFloat("MAX_AREA", 105),
		MinPricePerArea: getEnvFloat("MIN_PRICE_PER_AREA", 1700),
		MaxListingAge:   time.Duration(getEnvInt("MAX_LISTING_AGE_DAYS", 45)) * 24 * time.Hour,
		SearchSinceDays: getEnvInt("SEARCH_SINCE_DAYS", 0),

		PriceWeight:        getEnvFloat("PRICE_WEIGHT", 0.6),
		RecencyWeight:      getEnvFloat("RECENCY_WEIGHT", 0.4),
		SimilaritySequence: getEnvInt("SIMILARITY_SEQUENCE", 5),

		Mode:           getEnv("SCRAPE_MODE", ModeOverwrite),
		StorageBackend: getEnv("STORAGE_BACKEND", BackendJSON),

		ListingsPath:   getEnv("LISTINGS_PATH", "./output/listings.json"),
		CSVOutputPath:  getEnv("CSV_OUTPUT_PATH", "./output/raw_candidates.csv"),
		HTMLOutputPath: getEnv("HTML_OUTPUT_PATH", "./docs/index.html"),

		MaxRetries: getEnvInt("MAX_RETRIES", 3),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "scraper"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "scraper123"),
		PostgresDB:       getEnv("POSTGRES_DB", "listings_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
	}

	loadCriteria(cfg, getEnv("CRITERIA_PATH", "configs/criteria.yaml"))

	if cfg.Mode != ModeOverwrite && cfg.Mode != ModeAccumulate {
		log.Printf("[config] Unknown SCRAPE_MODE %q, using %q", cfg.Mode, ModeOverwrite)
		cfg.Mode = ModeOverwrite
	}
	if cfg.StorageBackend != BackendJSON && cfg.StorageBackend != BackendPostgres {
		log.Printf("[config] Unknown STORAGE_BACKEND %q, using %q", cfg.StorageBackend, BackendJSON)
		cfg.StorageBackend = BackendJSON
	}
	if math.Abs(cfg.PriceWeight+cfg.RecencyWeight-1.0) > 1e-9 {
		log.Printf("[config] PRICE_WEIGHT + RECENCY_WEIGHT = %.2f, scores will not span [0,1]",
			cfg.PriceWeight+cfg.RecencyWeight)
	}

	return cfg
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

func loadCriteria(cfg *Config, path string) {
	cfg.Senders = defaultSenders
	cfg.BlockedKeywords = defaultBlockedKeywords

	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("[config] No criteria file at %s, using built-in criteria", path)
		return
	}

	var crit criteriaFile
	if err := yaml.Unmarshal(data, &crit); err != nil {
		log.Printf("[config] Criteria file %s unreadable (%v), using built-in criteria", path, err)
		return
	}

	if len(crit.Senders) > 0 {
		cfg.Senders = crit.Senders
	}
	if len(crit.BlockedKeywords) > 0 {
		cfg.BlockedKeywords = crit.BlockedKeywords
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
		log.Printf("[config] Invalid integer for %s, using default %d", key, fallback)
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
		log.Printf("[config] Invalid number for %s, using default %g", key, fallback)
	}
	return fallback
}
