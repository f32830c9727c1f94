package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Config holds application configuration. Everything lives on the local
// device; there is no server to configure.
type Config struct {
	// Environment: "development" or "production".
	Env string

	// DataDir is the directory holding the local database and keystore.
	DataDir string

	// DatabaseFile is the SQLite database file name inside DataDir.
	DatabaseFile string

	// KeystoreFile is the encrypted key-value store file name inside DataDir.
	KeystoreFile string

	// BcryptCost is the work factor used when hashing new passwords.
	BcryptCost int
}

var appConfig *Config

// Load loads configuration from environment variables, reading a .env file
// first when one is present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		Env:          getEnv("ENV", "development"),
		DataDir:      getEnv("ACT_DATA_DIR", "."),
		DatabaseFile: getEnv("ACT_DB_FILE", "act_gen1.db"),
		KeystoreFile: getEnv("ACT_KEYSTORE_FILE", "keystore.dat"),
	}

	costStr := getEnv("ACT_BCRYPT_COST", strconv.Itoa(bcrypt.DefaultCost))
	cost, err := strconv.Atoi(costStr)
	if err != nil || cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		log.Printf("Warning: invalid ACT_BCRYPT_COST value '%s', falling back to %d\n", costStr, bcrypt.DefaultCost)
		cost = bcrypt.DefaultCost
	}
	config.BcryptCost = cost

	appConfig = config
	return config, nil
}

// Get returns the application configuration.
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// DatabasePath returns the absolute-ish path to the SQLite database file.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, c.DatabaseFile)
}

// KeystorePath returns the path to the encrypted key-value store file.
func (c *Config) KeystorePath() string {
	return filepath.Join(c.DataDir, c.KeystoreFile)
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
