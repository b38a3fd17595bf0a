package perfindex

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/etnz/perfindex/date"
)

// DefaultCacheMaxAge is the freshness window of a cached ticker series.
const DefaultCacheMaxAge = 24 * time.Hour

// CacheEntry is the per-ticker cached series blob, as persisted in
// cache/<TICKER>.json.
type CacheEntry struct {
	FetchedAt time.Time          `json:"fetchedAt"`
	Series    map[string]float64 `json:"series"`
}

// NewCacheEntry builds an entry from a fetched price history.
func NewCacheEntry(fetchedAt time.Time, prices *date.History) CacheEntry {
	series := make(map[string]float64, prices.Len())
	for on, price := range prices.Values() {
		series[on.String()] = price
	}
	return CacheEntry{FetchedAt: fetchedAt, Series: series}
}

// Fresh reports whether the entry is younger than maxAge at the given
// instant. It is a pure function of the entry, so the staleness policy is
// the caller's business, not the cache's.
func (e *CacheEntry) Fresh(now time.Time, maxAge time.Duration) bool {
	return now.Sub(e.FetchedAt) < maxAge
}

// History returns the cached series in chronological order, skipping
// entries whose date does not parse. The on-disk map carries no order
// guarantee, consumers must sort, and History does.
func (e *CacheEntry) History() *date.History {
	prices := new(date.History)
	for day, price := range e.Series {
		on, err := date.Parse(day)
		if err != nil {
			log.Printf("warning: skipping malformed cache date %q: %v", day, err)
			continue
		}
		prices.Append(on, price)
	}
	return prices
}

// TickerCache persists one CacheEntry per ticker under a directory.
type TickerCache struct {
	dir string
}

// NewTickerCache returns a cache rooted at dir. The directory is created
// lazily on the first Put.
func NewTickerCache(dir string) *TickerCache { return &TickerCache{dir: dir} }

func (c *TickerCache) path(ticker string) string {
	return filepath.Join(c.dir, ticker+".json")
}

// Get returns the cached entry for a ticker, or false when there is none.
// An unreadable or corrupt blob counts as absent.
func (c *TickerCache) Get(ticker string) (CacheEntry, bool) {
	var entry CacheEntry
	content, err := os.ReadFile(c.path(ticker))
	if err != nil {
		return entry, false
	}
	if err := json.Unmarshal(content, &entry); err != nil {
		log.Printf("warning: corrupt cache entry for %q (ignored): %v", ticker, err)
		return CacheEntry{}, false
	}
	return entry, true
}

// Put creates or overwrites the cached entry for a ticker.
func (c *TickerCache) Put(ticker string, entry CacheEntry) error {
	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return fmt.Errorf("cannot create cache folder %q: %w", c.dir, err)
	}
	content, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot marshal cache entry for %q: %w", ticker, err)
	}
	if err := os.WriteFile(c.path(ticker), append(content, '\n'), 0644); err != nil {
		return fmt.Errorf("cannot write cache entry for %q: %w", ticker, err)
	}
	return nil
}
