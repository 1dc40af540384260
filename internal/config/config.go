package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string
	Env  string

	StoreBackend string
	DatabaseURL  string
	MongoURI     string
	MongoDB      string

	ResolverBaseURL string
	DefaultLimit    int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	limit, err := strconv.Atoi(getEnv("DEFAULT_LIMIT", "100"))
	if err != nil || limit < 0 {
		limit = 100
	}

	return &Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		StoreBackend: getEnv("STORE_BACKEND", "postgres"),
		DatabaseURL:  getEnv("DATABASE_URL", ""),
		MongoURI:     getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:      getEnv("MONGO_DB", "datacoll"),

		ResolverBaseURL: getEnv("RESOLVER_BASE_URL", "http://hdl.handle.net"),
		DefaultLimit:    limit,
	}, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
