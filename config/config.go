package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Neo4j    Neo4jConfig
	Redis    RedisConfig
	ETL      ETLConfig
	App      AppConfig
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
}

type Neo4jConfig struct {
	URI      string
	User     string
	Password string
}

// RedisConfig controls the recommendation cache. An empty Addr disables
// caching entirely; queries then always hit the graph store.
type RedisConfig struct {
	Addr            string
	CacheTTLSeconds int
}

type ETLConfig struct {
	BatchSize         int
	SchemaFile        string
	Schedule          string
	ReadyMaxAttempts  int
	ReadyDelaySeconds int
	MergeRatePerSec   int
}

type AppConfig struct {
	Environment string
	LogLevel    string
	Version     string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnvAsInt("POSTGRES_PORT", 5432),
			User:     getEnv("POSTGRES_USER", "app"),
			Password: getEnv("POSTGRES_PASSWORD", "password"),
			Name:     getEnv("POSTGRES_DB", "shop"),
		},
		Neo4j: Neo4jConfig{
			URI:      getEnv("NEO4J_URI", "bolt://localhost:7687"),
			User:     getEnv("NEO4J_USER", "neo4j"),
			Password: getEnv("NEO4J_PASSWORD", "password"),
		},
		Redis: RedisConfig{
			Addr:            getEnv("REDIS_ADDR", ""),
			CacheTTLSeconds: getEnvAsInt("REC_CACHE_TTL_SECONDS", 300),
		},
		ETL: ETLConfig{
			BatchSize:         getEnvAsInt("ETL_BATCH_SIZE", 500),
			SchemaFile:        getEnv("ETL_SCHEMA_FILE", "queries.cypher"),
			Schedule:          getEnv("ETL_SCHEDULE", ""),
			ReadyMaxAttempts:  getEnvAsInt("ETL_READY_MAX_ATTEMPTS", 30),
			ReadyDelaySeconds: getEnvAsInt("ETL_READY_DELAY_SECONDS", 2),
			MergeRatePerSec:   getEnvAsInt("ETL_MERGE_RATE", 0),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Database.Host == "" {
		return fmt.Errorf("POSTGRES_HOST is required")
	}

	if c.Neo4j.URI == "" {
		return fmt.Errorf("NEO4J_URI is required")
	}

	if c.ETL.BatchSize <= 0 {
		return fmt.Errorf("ETL_BATCH_SIZE must be positive")
	}

	if c.ETL.ReadyMaxAttempts <= 0 {
		return fmt.Errorf("ETL_READY_MAX_ATTEMPTS must be positive")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}
