package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAddr        = "0.0.0.0:8000"
	defaultDatabaseURL = "user=postgres password=postgres host=localhost port=5432 dbname=yatube sslmode=disable"
	defaultMediaDir    = "./static/uploads"
	defaultCacheTTL    = 20 * time.Second
)

type Config struct {
	Addr        string
	DatabaseURL string
	JWTSecret   string
	CacheTTL    time.Duration
	CORSOrigins []string
	MediaDir    string

	RedisAddr  string
	MongoURI   string
	NatsURL    string
	Neo4jURI   string
	Neo4jUser  string
	Neo4jPass  string
	OTelStdout bool
}

// Load reads the process environment. When DATABASE_URL is not set it tries
// the .env file in the working directory, then ../.env.
func Load() Config {
	if os.Getenv("DATABASE_URL") == "" {
		if err := godotenv.Load(".env"); err != nil {
			if err := godotenv.Load("../.env"); err != nil {
				log.Println("No .env file found or failed to load it:", err)
			}
		}
	}

	cfg := Config{
		Addr:        getenv("HTTP_ADDR", defaultAddr),
		DatabaseURL: getenv("DATABASE_URL", defaultDatabaseURL),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		CacheTTL:    defaultCacheTTL,
		CORSOrigins: []string{"http://localhost:4200"},
		MediaDir:    getenv("MEDIA_DIR", defaultMediaDir),
		RedisAddr:   os.Getenv("REDIS_ADDR"),
		MongoURI:    os.Getenv("MONGODB_URI"),
		NatsURL:     os.Getenv("NATS_URL"),
		Neo4jURI:    os.Getenv("NEO4J_URI"),
		Neo4jUser:   os.Getenv("NEO4J_USER"),
		Neo4jPass:   os.Getenv("NEO4J_PASS"),
		OTelStdout:  os.Getenv("OTEL_STDOUT") == "1",
	}

	if v := os.Getenv("CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Printf("[WARN] invalid CACHE_TTL %q, using %s", v, defaultCacheTTL)
		} else {
			cfg.CacheTTL = d
		}
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.CORSOrigins = strings.Split(v, ",")
	}
	if cfg.JWTSecret == "" {
		log.Println("[WARN] JWT_SECRET not set, using an insecure development secret")
		cfg.JWTSecret = "yatube-dev-secret"
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
