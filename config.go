package shelfstore

import (
	"os"
	"strconv"
	"time"
)

// Configuration constants for shelfstore operations
const (
	// Key naming: document key = "<Type>:<id>", membership set = "<Type>"
	CartTypeName = "Cart"
	BookTypeName = "Book"
	UserTypeName = "User"

	// Fixed secondary-index hash names
	CartsByUserIndex = "carts-by-user-id-idx"
	UsersByEmailIndex = "users-by-email-idx"

	// Search defaults
	DefaultSearchIndexName = "books-idx"
	DefaultAutocompleteKey = "author-autocomplete"

	// RediSearch indexes one text field per author position up to this bound
	MaxIndexedAuthors = 7

	// Per-call deadlines for search/suggestion commands
	DefaultInfoTimeout    = 3 * time.Second
	DefaultSearchTimeout  = 5 * time.Second
	DefaultCreateTimeout  = 10 * time.Second
	DefaultSuggestTimeout = 60 * time.Second
)

// Config holds application-level configuration, populated from the
// environment with local-development defaults.
type Config struct {
	HTTPAddr        string
	SearchIndexName string
	AutocompleteKey string
	SuggestTimeout  time.Duration
}

// ConfigFromEnv reads configuration from standard environment variables:
//
//   - HTTP_ADDR (default ":8080")
//   - SEARCH_INDEX_NAME (default "books-idx")
//   - AUTOCOMPLETE_KEY (default "author-autocomplete")
//   - SUGGEST_TIMEOUT_SECONDS (default 60)
func ConfigFromEnv() *Config {
	return &Config{
		HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
		SearchIndexName: getEnv("SEARCH_INDEX_NAME", DefaultSearchIndexName),
		AutocompleteKey: getEnv("AUTOCOMPLETE_KEY", DefaultAutocompleteKey),
		SuggestTimeout:  time.Duration(getEnvAsInt("SUGGEST_TIMEOUT_SECONDS", 60)) * time.Second,
	}
}

// Validate checks if the Config is valid
func (c *Config) Validate() error {
	if c.SearchIndexName == "" {
		return WithContext(ErrInvalidConfig, map[string]interface{}{
			"field":  "SearchIndexName",
			"reason": "search index name is required",
		})
	}
	if c.AutocompleteKey == "" {
		return WithContext(ErrInvalidConfig, map[string]interface{}{
			"field":  "AutocompleteKey",
			"reason": "autocomplete key is required",
		})
	}
	if c.SuggestTimeout <= 0 {
		return WithContext(ErrInvalidConfig, map[string]interface{}{
			"field":  "SuggestTimeout",
			"value":  c.SuggestTimeout,
			"reason": "must be positive",
		})
	}
	return nil
}

// getEnv reads a string environment variable with a default fallback
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

// getEnvAsInt reads an integer environment variable with a default fallback
func getEnvAsInt(key string, defaultVal int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultVal
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultVal
	}

	return value
}
