package export

import (
	"encoding/binary"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/coocood/freecache"

	"github.com/2beens/irontracker/internal/gymstats/entries"
	"github.com/2beens/irontracker/internal/gymstats/stats"
)

// freecache refuses entries above 1/1024 of its size, a report page is a few KB
const minCacheSize = 8 * 1024 * 1024

// ReportCache holds rendered PDFs keyed by a hash of the snapshot they were
// rendered from. Any change to the log or to the report day changes the key.
type ReportCache struct {
	cache *freecache.Cache
	ttl   time.Duration
}

func NewReportCache(sizeBytes int, ttl time.Duration) *ReportCache {
	return &ReportCache{
		cache: freecache.NewCache(max(sizeBytes, minCacheSize)),
		ttl:   ttl,
	}
}

func SnapshotKey(ov *stats.Overview) []byte {
	digest := xxhash.New()
	_, _ = digest.WriteString(ov.Today.Format(entries.DateLayout))
	for _, e := range ov.Entries {
		_, _ = digest.WriteString("\n")
		for _, cell := range e.Record() {
			_, _ = digest.WriteString(cell)
			_, _ = digest.WriteString("\x1f")
		}
	}

	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, digest.Sum64())
	return key
}

func (c *ReportCache) Get(key []byte) ([]byte, bool) {
	pdf, err := c.cache.Get(key)
	if err != nil {
		return nil, false
	}
	return pdf, true
}

func (c *ReportCache) Set(key, pdf []byte) error {
	return c.cache.Set(key, pdf, int(c.ttl.Seconds()))
}

func (c *ReportCache) EntryCount() int64 {
	return c.cache.EntryCount()
}
