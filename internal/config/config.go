// Package config defines service configuration and how it is loaded.
//
// Values are layered defaults -> optional YAML file -> RIFT_* environment
// variables. Keys are flat and match the koanf tags below.
package config

import (
	"fmt"
	"runtime"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"omitempty,oneof=debug info warn warning error"`
	// LogFormat selects the slog handler: text or json.
	LogFormat string `koanf:"log_format" validate:"oneof=text json"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr" validate:"required"`
	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`

	// DatabasePath is the SQLite file holding summoner performances.
	// ":memory:" keeps everything in process.
	DatabasePath string `koanf:"db_path" validate:"required"`

	// CacheTTL is how long a refreshed collection is served.
	CacheTTL time.Duration `koanf:"cache_ttl" validate:"gt=0"`

	// RefreshSchedule is a cron spec for re-enqueueing every refresh job.
	RefreshSchedule string `koanf:"refresh_schedule" validate:"required"`
	// RefreshOnStart enqueues a full refresh at startup.
	RefreshOnStart bool `koanf:"refresh_on_start"`
	// Timezone the schedule is evaluated in.
	Timezone string `koanf:"timezone" validate:"required"`

	// ChampionGGURL and ChampionGGKey configure the champion statistics API.
	ChampionGGURL string `koanf:"championgg_url" validate:"required,url"`
	ChampionGGKey string `koanf:"championgg_key"`
	// RiotURL and RiotKey configure the static data API.
	RiotURL string `koanf:"riot_url" validate:"required,url"`
	RiotKey string `koanf:"riot_key"`
	// UpstreamRPS and UpstreamBurst shape outbound request rate per client.
	UpstreamRPS   float64 `koanf:"upstream_rps" validate:"gt=0"`
	UpstreamBurst int     `koanf:"upstream_burst" validate:"gte=1"`
	// UpstreamTimeout bounds each outbound request.
	UpstreamTimeout time.Duration `koanf:"upstream_timeout" validate:"gt=0"`

	// QueueSize bounds the in-memory refresh queue.
	QueueSize int `koanf:"queue_size" validate:"gte=1"`
	// WorkerCount sets the number of refresh workers.
	WorkerCount int `koanf:"worker_count" validate:"gte=1"`
	// DedupeSize caps the number of in-flight job keys tracked.
	DedupeSize int `koanf:"dedupe_size"`
	// DedupeLease releases a job key that was never acknowledged.
	DedupeLease time.Duration `koanf:"dedupe_lease"`

	// ResolverThreshold is the minimum fuzzy similarity for name matches.
	ResolverThreshold float64 `koanf:"resolver_threshold" validate:"gt=0,lte=1"`
	// MaxListSize caps list_size on ranking requests.
	MaxListSize int `koanf:"max_list_size" validate:"gte=1"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":9080",
		ShutdownTimeout:   10 * time.Second,
		DatabasePath:      "rift.db",
		CacheTTL:          12 * time.Hour,
		RefreshSchedule:   "@every 6h",
		RefreshOnStart:    false,
		Timezone:          "UTC",
		ChampionGGURL:     "https://api.champion.gg/v2",
		RiotURL:           "https://na1.api.riotgames.com/lol",
		UpstreamRPS:       5,
		UpstreamBurst:     1,
		UpstreamTimeout:   10 * time.Second,
		QueueSize:         4096,
		WorkerCount:       runtime.NumCPU(),
		DedupeSize:        10_000,
		DedupeLease:       15 * time.Minute,
		ResolverThreshold: 0.7,
		MaxListSize:       20,
	}
}

var validate = validator.New()

// Validate checks field constraints and that the timezone exists.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("%w: timezone %q: %v", ErrInvalidConfig, c.Timezone, err)
	}
	return nil
}

// Location returns the configured schedule timezone, UTC if it cannot load.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
