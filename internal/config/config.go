package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerAddress           string
	MongoURI                string
	MongoDBName             string
	FirebaseProjectID       string
	FirebaseCredentialsJSON string
	RedisURL                string
	CatalogCacheTTL         time.Duration
	UploadDir               string
	MaxUploadSizeMB         int64
	RequestTimeout          time.Duration
}

func Load() *Config {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		ServerAddress:           getEnv("SERVER_ADDRESS", ":8080"),
		MongoURI:                getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDBName:             getEnv("MONGODB_DATABASE", "skillshare"),
		FirebaseProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseCredentialsJSON: getEnv("FIREBASE_CREDENTIALS_JSON", ""),
		RedisURL:                getEnv("REDIS_URL", ""),
		CatalogCacheTTL:         getEnvAsDuration("CATALOG_CACHE_TTL", 5*time.Minute),
		UploadDir:               getEnv("UPLOAD_DIR", "./uploads"),
		MaxUploadSizeMB:         getEnvAsInt64("MAX_UPLOAD_SIZE_MB", 10),
		RequestTimeout:          getEnvAsDuration("REQUEST_TIMEOUT", 10*time.Second),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
		log.Printf("Invalid value for %s, using default %d", key, defaultValue)
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Printf("Invalid value for %s, using default %s", key, defaultValue)
	}
	return defaultValue
}
