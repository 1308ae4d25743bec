package cfg

// Cfg holds the resolved application configuration.
type Cfg struct {
	// Database configuration
	DBPath string

	// Application configuration
	SourcesDir   string
	Port         string
	BaseUrl      string
	APIAccessKey string

	// News provider credentials (absence degrades the API adapter to
	// empty results, it is not an error)
	NewsAPIKey  string
	GNewsAPIKey string

	// Aggregation tuning
	CacheTTL      int // minutes, base TTL before adaptive scaling
	BatchSize     int // sources fetched concurrently per adapter family
	FetchTimeout  int // seconds, per outbound request
	MaxRetries    int // per-call retry ceiling
	BatchDelay    int // milliseconds between batches (feed/social/api)
	CrawlDelay    int // milliseconds between crawl batches
	TrendingLimit int

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
