package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	MongoURI    string
	DBName      string
	Environment string
	AppId       string
	CORSOrigins string

	SchedulerEnabled      bool
	SchedulerSpec         string        // robfig/cron spec for the due-schedule sweep
	SchedulerSweepTimeout time.Duration // upper bound for a single sweep
	ScheduleLeaseDuration time.Duration // how long an executing schedule stays claimed
	ReportMaxLimit        int64         // hard cap applied to interactive query limits
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	} else {
		log.Println("Loaded .env file successfully")
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:      getEnv("DB_NAME", "deskwise"),
		Environment: getEnv("ENVIRONMENT", "development"),
		AppId:       getEnv("APP_ID", "deskwise-reports"),
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),

		SchedulerEnabled:      getEnv("SCHEDULER_ENABLED", "true") == "true",
		SchedulerSpec:         getEnv("SCHEDULER_SPEC", "@every 1m"),
		SchedulerSweepTimeout: getDuration("SCHEDULER_SWEEP_TIMEOUT", 5*time.Minute),
		ScheduleLeaseDuration: getDuration("SCHEDULE_LEASE_DURATION", 10*time.Minute),
		ReportMaxLimit:        getInt64("REPORT_MAX_LIMIT", 10000),
	}, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Invalid duration for %s (%q), using %s", key, value, fallback)
		return fallback
	}
	return d
}

func getInt64(key string, fallback int64) int64 {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil || n <= 0 {
		log.Printf("Invalid integer for %s (%q), using %d", key, value, fallback)
		return fallback
	}
	return n
}
