package sources

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/RichWangombe/bookmarkr-platform/app/content"
)

// Catalog loads source definitions from YAML files in a directory and
// keeps them cached. One file per source, the source id is the filename
// without the .yml extension.
type Catalog struct {
	sourcesDir string
	cache      map[string]*Source
	mu         sync.RWMutex
}

func NewCatalog(sourcesDir string) *Catalog {
	return &Catalog{
		sourcesDir: sourcesDir,
		cache:      make(map[string]*Source),
	}
}

func (c *Catalog) Run() error {
	if _, err := os.Stat(c.sourcesDir); os.IsNotExist(err) {
		return nil
	}

	files, err := filepath.Glob(filepath.Join(c.sourcesDir, "*.yml"))
	if err != nil {
		return fmt.Errorf("failed to find YML files: %w", err)
	}

	for _, file := range files {
		fileName := filepath.Base(file)
		sourceID := strings.TrimSuffix(fileName, ".yml")

		source, err := c.LoadSource(sourceID)
		if err != nil {
			return fmt.Errorf("error loading %s: %w", file, err)
		}

		slog.Debug("Source loaded", "source", sourceID, "type", source.Type, "category", source.Category, "enabled", source.Enabled)
	}

	return nil
}

func (c *Catalog) LoadSource(sourceID string) (*Source, error) {
	sourceFile := c.getSourceFilePath(sourceID)
	source, err := c.parseSource(sourceFile)
	if err != nil {
		return nil, err
	}

	source.ID = sourceID

	if err := c.validateSource(source); err != nil {
		return nil, fmt.Errorf("invalid source %s: %w", sourceFile, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache[source.ID] = source

	return source, nil
}

func (c *Catalog) GetSource(sourceID string) (*Source, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	source, ok := c.cache[sourceID]
	if !ok {
		return nil, fmt.Errorf("source with id '%s' not found", sourceID)
	}
	return source, nil
}

// GetSources returns all enabled sources, optionally filtered by
// strategy type and category. Empty filter values match everything.
func (c *Catalog) GetSources(sourceType Type, category content.Category) []Source {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]Source, 0, len(c.cache))
	for _, s := range c.cache {
		if !s.Enabled {
			continue
		}
		if sourceType != "" && s.Type != sourceType {
			continue
		}
		if category != "" && s.Category != category {
			continue
		}
		result = append(result, *s)
	}
	return result
}

func (c *Catalog) GetSourceCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

// Watch reloads source files when they change on disk, so catalog edits
// take effect without a restart.
func (c *Catalog) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := watcher.Add(c.sourcesDir); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", c.sourcesDir, err)
	}

	go func() {
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				if filepath.Ext(event.Name) != ".yml" {
					continue
				}

				sourceID := strings.TrimSuffix(filepath.Base(event.Name), ".yml")
				if _, err := c.LoadSource(sourceID); err != nil {
					slog.Warn("Failed to reload source", "source", sourceID, "error", err)
					continue
				}
				slog.Info("Source reloaded", "source", sourceID)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Warn("Source watcher error", "error", err)
			}
		}
	}()

	return nil
}

func (c *Catalog) parseSource(sourceFile string) (*Source, error) {
	data, err := os.ReadFile(sourceFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var source Source
	if err := yaml.Unmarshal(data, &source); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if source.Timeout == 0 {
		source.Timeout = 10
	}

	return &source, nil
}

func (c *Catalog) validateSource(source *Source) error {
	if source == nil {
		return fmt.Errorf("source is nil")
	}

	if source.Name == "" {
		return fmt.Errorf("source name is required")
	}

	switch source.Type {
	case TypeFeed, TypeCrawl, TypeAPI:
		if source.Endpoint == "" {
			return fmt.Errorf("endpoint is required for %s sources", source.Type)
		}
	case TypeSocial:
		if source.Endpoint == "" && source.Subreddit == "" {
			return fmt.Errorf("social sources require an endpoint or a subreddit")
		}
	default:
		return fmt.Errorf("invalid source type: %s", source.Type)
	}

	if source.Type == TypeCrawl && source.Selector == "" {
		return fmt.Errorf("selector is required for crawl sources")
	}

	if source.Category != "" {
		if _, ok := content.ParseCategory(string(source.Category)); !ok {
			return fmt.Errorf("invalid category: %s", source.Category)
		}
	}

	if source.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative")
	}

	return nil
}

func (c *Catalog) getSourceFilePath(sourceID string) string {
	return filepath.Join(c.sourcesDir, sourceID+".yml")
}
