package aggregator

import (
	"github.com/RichWangombe/bookmarkr-platform/app/content"
	"github.com/RichWangombe/bookmarkr-platform/app/sources"
)

// SourceProvider yields the sources to fetch for a scope. Satisfied by
// sources.Catalog.
type SourceProvider interface {
	GetSources(sourceType sources.Type, category content.Category) []sources.Source
	GetSourceCount() int
}

var _ SourceProvider = (*sources.Catalog)(nil)
