package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds runtime settings for the MemoryLane client.
//
// Fields:
//   - APIBaseURL: base URL of the backend API, including the /api prefix.
//   - RequestTimeout: per-request transport timeout.
//   - SearchDebounce: settle interval for free-text search triggers.
//   - PageSize: requested page size for paginated memory lists.
//   - SessionFile: path of the persisted session blob.
//   - DownloadDir: where album archives and Lookbook exports land.
//   - LogFile: diagnostic log destination (the TUI owns the terminal).
//   - Debug: enables debug-level logging.
type Config struct {
	APIBaseURL     string
	RequestTimeout time.Duration
	SearchDebounce time.Duration
	PageSize       int
	SessionFile    string
	DownloadDir    string
	LogFile        string
	Debug          bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:4000/api"
	c.RequestTimeout = 15 * time.Second
	c.SearchDebounce = 400 * time.Millisecond
	c.PageSize = 12
	c.SessionFile = defaultSessionFile()
	c.DownloadDir = defaultDownloadDir()
	c.LogFile = "memorylane.log"
	c.Debug = false
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from the environment (.env included), a JSON file and command-line flags.
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "session.json"
	}
	return filepath.Join(dir, "memorylane", "session.json")
}

func defaultDownloadDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, "Downloads")
}
