package config

import (
	"fmt"
	"os"
)

type Config struct {
	Port      string
	APIKey    string
	UploadDir string
	DB        Database
	Consul    Consul
}

type Database struct {
	User     string
	Password string
	Host     string
	Port     string
	Name     string
	SSLMode  string
}

func (d Database) DSN() string {
	return fmt.Sprintf("user=%s password=%s host=%s port=%s dbname=%s sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

type Consul struct {
	Enabled     bool
	ServiceName string
	ServiceAddr string
}

// Load reads the configuration from the environment. Callers are expected to
// have loaded .env beforehand (godotenv in main).
func Load() *Config {
	return &Config{
		Port:      getenv("PORT", "3000"),
		APIKey:    os.Getenv("API_KEY"),
		UploadDir: getenv("UPLOAD_DIR", "uploads"),
		DB: Database{
			User:     os.Getenv("POSTGRES_USER"),
			Password: os.Getenv("POSTGRES_PASSWORD"),
			Host:     getenv("POSTGRES_HOST", "localhost"),
			Port:     getenv("POSTGRES_PORT", "5432"),
			Name:     os.Getenv("POSTGRES_NAME"),
			SSLMode:  getenv("POSTGRES_SSLMODE", "disable"),
		},
		Consul: Consul{
			Enabled:     os.Getenv("CONSUL_REGISTER") == "true",
			ServiceName: getenv("CONSUL_SERVICE_NAME", "diary-api"),
			ServiceAddr: getenv("CONSUL_SERVICE_ADDR", "localhost"),
		},
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
