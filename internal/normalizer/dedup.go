package normalizer

import (
	"fmt"
	"sync"

	"phishtakedown/internal/models"
)

// DedupKey selects which part of a normalized URL identifies a duplicate.
type DedupKey string

// Dedup key policies.
const (
	DedupByDomain DedupKey = "domain"
	DedupByURL    DedupKey = "url"
)

// ParseDedupKey maps a config value to a DedupKey. Empty means domain.
func ParseDedupKey(s string) (DedupKey, error) {
	switch DedupKey(s) {
	case "", DedupByDomain:
		return DedupByDomain, nil
	case DedupByURL:
		return DedupByURL, nil
	default:
		return "", fmt.Errorf("unknown dedup key %q: want domain or url", s)
	}
}

// Of returns the dedup key value for n.
func (k DedupKey) Of(n models.NormalizedURL) string {
	if k == DedupByURL {
		return n.URL
	}

	return n.Fingerprint
}

// Deduplicator remembers keys seen during one run. First seen wins.
type Deduplicator struct {
	seen map[string]struct{}
	mu   sync.Mutex
}

// NewDeduplicator creates an empty deduplicator.
func NewDeduplicator() *Deduplicator {
	return &Deduplicator{seen: make(map[string]struct{})}
}

// Seen reports whether key has been recorded.
func (d *Deduplicator) Seen(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	_, ok := d.seen[key]

	return ok
}

// Record marks key as seen.
func (d *Deduplicator) Record(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.seen[key] = struct{}{}
}

// Len returns the number of recorded keys.
func (d *Deduplicator) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return len(d.seen)
}
