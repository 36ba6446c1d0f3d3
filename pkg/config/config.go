package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// DefaultAPIOrigin is the production BigCommerce API endpoint.
const DefaultAPIOrigin = "https://api.bigcommerce.com"

// DefaultTreeName is the name given to the category tree created per run.
const DefaultTreeName = "Migrated category tree"

type Config struct {
	StoreHash   string
	AccessToken string
	// ChannelID is the target channel for the new tree and the reassigned
	// products.
	ChannelID int
	APIOrigin string
	// SourceTreeID is the tree whose categories are migrated.
	SourceTreeID int
	// SourceChannelID restricts the product-channel migration to assignments
	// on that channel. Zero means no filter: every assignment in the store is
	// rewritten to ChannelID.
	SourceChannelID int
	TreeName        string
}

// Load reads .env files and environment variables, validating required fields.
func Load() (*Config, error) {
	// Try loading .env files from various locations (root, parent, etc)
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")
	_ = godotenv.Load("../../.env")

	cfg := &Config{
		StoreHash:   os.Getenv("BIGCOMMERCE_STORE_HASH"),
		AccessToken: os.Getenv("BIGCOMMERCE_ACCESS_TOKEN"),
		APIOrigin:   getEnvOr("BIGCOMMERCE_API_ORIGIN", DefaultAPIOrigin),
		TreeName:    getEnvOr("BIGCOMMERCE_TREE_NAME", DefaultTreeName),
	}

	if cfg.StoreHash == "" {
		return nil, fmt.Errorf("BIGCOMMERCE_STORE_HASH is required")
	}
	if cfg.AccessToken == "" {
		return nil, fmt.Errorf("BIGCOMMERCE_ACCESS_TOKEN is required")
	}

	channelID, err := requireIntEnv("BIGCOMMERCE_CHANNEL_ID")
	if err != nil {
		return nil, err
	}
	cfg.ChannelID = channelID

	cfg.SourceTreeID, err = intEnvOr("BIGCOMMERCE_SOURCE_TREE_ID", 1)
	if err != nil {
		return nil, err
	}

	cfg.SourceChannelID, err = intEnvOr("BIGCOMMERCE_SOURCE_CHANNEL_ID", 0)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func getEnvOr(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

// requireIntEnv reads a mandatory integer variable. Zero is rejected along
// with empty and non-numeric values: channel id 0 is not a valid target.
func requireIntEnv(key string) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, raw)
	}
	if v == 0 {
		return 0, fmt.Errorf("%s must be a non-zero integer", key)
	}
	return v, nil
}

func intEnvOr(key string, defaultVal int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultVal, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, raw)
	}
	return v, nil
}
