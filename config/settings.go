// Package config provides configuration structures for the catalogue.
// It defines where the dataset documents live, how results are paged and how
// the channel ingester reaches Telegram.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultPageSize        = 12
	DefaultGrowDebounce    = 300 * time.Millisecond
	DefaultResultCacheSize = 128
	DefaultPort            = "8080"
	DefaultMaxBodyBytes    = 1 << 20
	DefaultDataFile        = "src/data.json"
	DefaultLastUpdateFile  = "src/last_update.json"
	DefaultIngestStateFile = "src/ingest_state.gob"
	DefaultChannel         = "@IAUCourseExp"
	DefaultTelegramBaseURL = "https://api.telegram.org"
	DefaultRequestTimeout  = 10 * time.Second
	DefaultRequestInterval = 500 * time.Millisecond
	DefaultUTCOffset       = 3*time.Hour + 30*time.Minute
)

// Environment variables that override file settings.
const (
	EnvDataFile       = "COURSEXP_DATA_FILE"
	EnvLastUpdateFile = "COURSEXP_LAST_UPDATE_FILE"
	EnvPort           = "PORT"
	EnvBotToken       = "BOT_TOKEN"
	EnvChannel        = "COURSEXP_CHANNEL"
)

// Settings contains all configuration options of the catalogue.
type Settings struct {
	// Dataset document (array of reviews) and last-update marker document.
	DataFile       string `json:"data_file" yaml:"data_file"`
	LastUpdateFile string `json:"last_update_file" yaml:"last_update_file"`

	// PageSize is both the initial reveal count and the growth step.
	PageSize int `json:"page_size" yaml:"page_size"`
	// GrowDebounce delays the growth caused by a proximity signal.
	GrowDebounce time.Duration `json:"grow_debounce" yaml:"grow_debounce"`
	// ResultCacheSize is the number of memoized queries per dataset snapshot.
	ResultCacheSize int `json:"result_cache_size" yaml:"result_cache_size"`

	Server ServerSettings `json:"server" yaml:"server"`
	Ingest IngestSettings `json:"ingest" yaml:"ingest"`
}

// ServerSettings configures the HTTP document server.
type ServerSettings struct {
	Port         string `json:"port" yaml:"port"`
	MaxBodyBytes int64  `json:"max_body_bytes" yaml:"max_body_bytes"`
}

// IngestSettings configures the Telegram channel ingester.
type IngestSettings struct {
	BotToken  string `json:"-" yaml:"bot_token"` // never echoed back over the API
	Channel   string `json:"channel" yaml:"channel"`
	StateFile string `json:"state_file" yaml:"state_file"`
	BaseURL   string `json:"base_url" yaml:"base_url"`

	RequestTimeout time.Duration `json:"request_timeout" yaml:"request_timeout"`
	// RequestInterval is the minimum spacing between Bot API calls.
	RequestInterval time.Duration `json:"request_interval" yaml:"request_interval"`
	// UTCOffset is the offset of the clock shown in the last-update marker.
	// Nil means DefaultUTCOffset; an explicit 0s keeps the marker in UTC.
	UTCOffset *time.Duration `json:"utc_offset,omitempty" yaml:"utc_offset"`
}

// ClockOffset returns the last-update clock offset from UTC.
func (is IngestSettings) ClockOffset() time.Duration {
	if is.UTCOffset == nil {
		return DefaultUTCOffset
	}
	return *is.UTCOffset
}

// Enabled reports whether the ingester has credentials to run.
func (is IngestSettings) Enabled() bool {
	return strings.TrimSpace(is.BotToken) != ""
}

// ChannelSlug returns the channel name without its leading '@', as used in post links.
func (is IngestSettings) ChannelSlug() string {
	return strings.TrimPrefix(is.Channel, "@")
}

// Default returns settings with every default applied.
func Default() Settings {
	var settings Settings
	settings.ApplyDefaults()
	return settings
}

// ApplyDefaults fills zero values with their defaults
func (settings *Settings) ApplyDefaults() {
	if settings.DataFile == "" {
		settings.DataFile = DefaultDataFile
	}
	if settings.LastUpdateFile == "" {
		settings.LastUpdateFile = DefaultLastUpdateFile
	}
	if settings.PageSize == 0 {
		settings.PageSize = DefaultPageSize
	}
	if settings.GrowDebounce == 0 {
		settings.GrowDebounce = DefaultGrowDebounce
	}
	if settings.ResultCacheSize == 0 {
		settings.ResultCacheSize = DefaultResultCacheSize
	}
	if settings.Server.Port == "" {
		settings.Server.Port = DefaultPort
	}
	if settings.Server.MaxBodyBytes == 0 {
		settings.Server.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if settings.Ingest.Channel == "" {
		settings.Ingest.Channel = DefaultChannel
	}
	if settings.Ingest.StateFile == "" {
		settings.Ingest.StateFile = DefaultIngestStateFile
	}
	if settings.Ingest.BaseURL == "" {
		settings.Ingest.BaseURL = DefaultTelegramBaseURL
	}
	if settings.Ingest.RequestTimeout == 0 {
		settings.Ingest.RequestTimeout = DefaultRequestTimeout
	}
	if settings.Ingest.RequestInterval == 0 {
		settings.Ingest.RequestInterval = DefaultRequestInterval
	}
	if settings.Ingest.UTCOffset == nil {
		offset := DefaultUTCOffset
		settings.Ingest.UTCOffset = &offset
	}
}

// Validate returns one message per invalid setting. An empty result means the settings are usable.
func (settings *Settings) Validate() []string {
	var problems []string

	if strings.TrimSpace(settings.DataFile) == "" {
		problems = append(problems, "data_file cannot be empty or whitespace-only")
	}
	if strings.TrimSpace(settings.LastUpdateFile) == "" {
		problems = append(problems, "last_update_file cannot be empty or whitespace-only")
	}
	if settings.DataFile != "" && settings.DataFile == settings.LastUpdateFile {
		problems = append(problems, "data_file and last_update_file must be different files")
	}
	if settings.PageSize <= 0 {
		problems = append(problems, fmt.Sprintf("page_size must be positive, got %d", settings.PageSize))
	}
	if settings.GrowDebounce < 0 {
		problems = append(problems, "grow_debounce cannot be negative")
	}
	if settings.ResultCacheSize <= 0 {
		problems = append(problems, fmt.Sprintf("result_cache_size must be positive, got %d", settings.ResultCacheSize))
	}
	if settings.Server.MaxBodyBytes <= 0 {
		problems = append(problems, "server.max_body_bytes must be positive")
	}
	if !strings.HasPrefix(settings.Ingest.Channel, "@") {
		problems = append(problems, "ingest.channel must start with '@'")
	}
	if settings.Ingest.RequestTimeout < 0 || settings.Ingest.RequestInterval < 0 {
		problems = append(problems, "ingest durations cannot be negative")
	}

	return problems
}

// ApplyEnv overrides settings with values found through lookup (usually os.LookupEnv).
func (settings *Settings) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvDataFile); ok && v != "" {
		settings.DataFile = v
	}
	if v, ok := lookup(EnvLastUpdateFile); ok && v != "" {
		settings.LastUpdateFile = v
	}
	if v, ok := lookup(EnvPort); ok && v != "" {
		settings.Server.Port = v
	}
	if v, ok := lookup(EnvBotToken); ok && v != "" {
		settings.Ingest.BotToken = v
	}
	if v, ok := lookup(EnvChannel); ok && v != "" {
		settings.Ingest.Channel = v
	}
}

// Load reads settings from a YAML file (optional when path is empty), applies
// environment overrides and defaults, and validates the result.
func Load(path string) (Settings, error) {
	var settings Settings

	if path != "" {
		data, err := os.ReadFile(path) // #nosec G304 -- path comes from the operator's command line
		if err != nil {
			return Settings{}, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &settings); err != nil {
			return Settings{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	settings.ApplyEnv(os.LookupEnv)
	settings.ApplyDefaults()

	if problems := settings.Validate(); len(problems) > 0 {
		return Settings{}, fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return settings, nil
}
