package cfg

import (
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	if Version != "" {
		return Version
	}
	return "unknown"
}

type rawCfg struct {
	// Database configuration
	DBPath string `long:"db-path" env:"DB_PATH" default:"./data/bookmarkr.db" description:"Path to the SQLite database file"`

	// Application configuration
	SourcesDir   string `long:"sources-dir" env:"SOURCES_DIR" default:"./sources" description:"Directory containing source catalog files"`
	Port         string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	BaseUrl      string `long:"base-url" env:"BASE_URL" description:"Public base URL for the service (e.g., https://news.example.com)"`
	APIAccessKey string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for management endpoints (optional)"`

	// News provider credentials
	NewsAPIKey  string `long:"newsapi-key" env:"NEWSAPI_KEY" description:"NewsAPI.org API key (optional)"`
	GNewsAPIKey string `long:"gnews-key" env:"GNEWS_API_KEY" description:"GNews API key (optional)"`

	// Aggregation tuning
	CacheTTL      int `long:"cache-ttl" env:"CACHE_TTL" default:"30" description:"Base cache TTL in minutes"`
	BatchSize     int `long:"batch-size" env:"BATCH_SIZE" default:"4" description:"Sources fetched concurrently per adapter family"`
	FetchTimeout  int `long:"fetch-timeout" env:"FETCH_TIMEOUT" default:"10" description:"Per-request fetch timeout in seconds"`
	MaxRetries    int `long:"max-retries" env:"MAX_RETRIES" default:"2" description:"Retry ceiling for transient fetch errors"`
	BatchDelay    int `long:"batch-delay" env:"BATCH_DELAY" default:"1000" description:"Delay between fetch batches in milliseconds"`
	CrawlDelay    int `long:"crawl-delay" env:"CRAWL_DELAY" default:"2000" description:"Delay between crawl batches in milliseconds"`
	TrendingLimit int `long:"trending-limit" env:"TRENDING_LIMIT" default:"10" description:"Default number of trending items"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Bookmarkr/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		DBPath:        raw.DBPath,
		SourcesDir:    raw.SourcesDir,
		Port:          raw.Port,
		BaseUrl:       raw.BaseUrl,
		APIAccessKey:  raw.APIAccessKey,
		NewsAPIKey:    raw.NewsAPIKey,
		GNewsAPIKey:   raw.GNewsAPIKey,
		CacheTTL:      raw.CacheTTL,
		BatchSize:     raw.BatchSize,
		FetchTimeout:  raw.FetchTimeout,
		MaxRetries:    raw.MaxRetries,
		BatchDelay:    raw.BatchDelay,
		CrawlDelay:    raw.CrawlDelay,
		TrendingLimit: raw.TrendingLimit,
		UserAgent:     raw.UserAgent,
		Timezone:      raw.Timezone,
		Debug:         raw.Debug,
		Version:       GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

// SetForTesting installs a config for tests exercising components that
// read the package-global configuration.
func SetForTesting(c *Cfg) {
	globalCfg = c
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
