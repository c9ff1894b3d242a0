package config

import (
	"os"
	"strings"
	"sync"
)

const (
	VectorStoreMemory   = "memory"
	VectorStorePostgres = "postgres"
)

type DBConfig struct {
	VectorStore string
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	SSLMode     string
}

var (
	dbConfig *DBConfig
	dbOnce   sync.Once
)

func LoadDBConfig() *DBConfig {
	dbOnce.Do(func() {
		dbConfig = &DBConfig{
			VectorStore: strings.ToLower(getEnv("VECTOR_STORE", VectorStoreMemory)),
			Host:        os.Getenv("DB_HOST"),
			Port:        os.Getenv("DB_PORT"),
			User:        os.Getenv("DB_USER"),
			Password:    os.Getenv("DB_PASSWORD"),
			Name:        os.Getenv("DB_NAME"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
		}
	})
	return dbConfig
}
