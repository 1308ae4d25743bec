package sources

import (
	"time"

	"github.com/RichWangombe/bookmarkr-platform/app/content"
)

// Type selects the fetch strategy used for a source.
type Type string

const (
	TypeFeed   Type = "feed"
	TypeCrawl  Type = "crawl"
	TypeSocial Type = "social"
	TypeAPI    Type = "api"
)

// Source is a registry entry describing one content origin and how to
// fetch it.
type Source struct {
	Name     string           `yaml:"name"`
	Type     Type             `yaml:"type"`
	Category content.Category `yaml:"category"`

	// Strategy-specific parameters
	Endpoint  string `yaml:"endpoint"`  // feed URL, listing page, or API route
	Selector  string `yaml:"selector"`  // crawl: selector matching repeated article blocks
	Subreddit string `yaml:"subreddit"` // social: subreddit to read
	Provider  string `yaml:"provider"`  // api: upstream provider name (newsapi, gnews)

	IconURL string `yaml:"icon_url"`
	Enabled bool   `yaml:"enabled"`
	Timeout int    `yaml:"timeout"` // seconds

	// ID is derived from the catalog filename, not the YAML body.
	ID string `yaml:"-"`
}

// Ref returns the provenance stamped onto every item fetched from this
// source.
func (s *Source) Ref() content.SourceRef {
	return content.SourceRef{
		ID:      s.ID,
		Name:    s.Name,
		IconURL: s.IconURL,
	}
}

// ReliabilityState tracks consecutive failures for one source.
type ReliabilityState struct {
	ConsecutiveFailures int
	LastFailureAt       time.Time
}
