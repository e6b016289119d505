package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/memorylane/memorylane/internal/flagx"
	"github.com/memorylane/memorylane/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Intervals use
// timex.Duration so the file can specify either strings like "400ms" or
// integer nanoseconds.
type JsonConfig struct {
	APIBaseURL     string         `json:"api_base_url"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	SearchDebounce timex.Duration `json:"search_debounce"`
	PageSize       int            `json:"page_size"`
	SessionFile    string         `json:"session_file"`
	DownloadDir    string         `json:"download_dir"`
	LogFile        string         `json:"log_file"`
	Debug          bool           `json:"debug"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// the -c/-config flags. When no file is named the function returns without
// touching cfg. Read or unmarshal errors panic; configuration is resolved
// before any UI exists, so there is nowhere better to report them.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.APIBaseURL != "" {
		cfg.APIBaseURL = jc.APIBaseURL
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
	if jc.SearchDebounce.Duration > 0 {
		cfg.SearchDebounce = time.Duration(jc.SearchDebounce.Duration)
	}
	if jc.PageSize > 0 {
		cfg.PageSize = jc.PageSize
	}
	if jc.SessionFile != "" {
		cfg.SessionFile = jc.SessionFile
	}
	if jc.DownloadDir != "" {
		cfg.DownloadDir = jc.DownloadDir
	}
	if jc.LogFile != "" {
		cfg.LogFile = jc.LogFile
	}
	if jc.Debug {
		cfg.Debug = true
	}
}
