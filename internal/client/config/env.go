package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config with values from the process environment.
// A .env file in the working directory is folded in first; its absence
// is not an error.
//
// Recognized variables:
//
//	MEMORYLANE_API_URL       base URL of the backend API
//	MEMORYLANE_TIMEOUT       request timeout (Go duration syntax)
//	MEMORYLANE_DEBOUNCE      search debounce interval (Go duration syntax)
//	MEMORYLANE_PAGE_SIZE     page size for memory lists
//	MEMORYLANE_SESSION_FILE  session blob path
//	MEMORYLANE_DOWNLOAD_DIR  download directory
//	MEMORYLANE_LOG_FILE      log file path
//	MEMORYLANE_DEBUG         "true" enables debug logging
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("MEMORYLANE_API_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv("MEMORYLANE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.RequestTimeout = d
		}
	}
	if v := os.Getenv("MEMORYLANE_DEBOUNCE"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.SearchDebounce = d
		}
	}
	if v := os.Getenv("MEMORYLANE_PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.PageSize = n
		}
	}
	if v := os.Getenv("MEMORYLANE_SESSION_FILE"); v != "" {
		cfg.SessionFile = v
	}
	if v := os.Getenv("MEMORYLANE_DOWNLOAD_DIR"); v != "" {
		cfg.DownloadDir = v
	}
	if v := os.Getenv("MEMORYLANE_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv("MEMORYLANE_DEBUG"); v != "" {
		cfg.Debug = v == "true" || v == "1"
	}
}
