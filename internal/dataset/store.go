package dataset

import (
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/yourusername/steady-better/internal/metrics"
	"github.com/yourusername/steady-better/internal/models"
)

// Store caches parsed seasons in-process so policy sweeps re-read each file
// once instead of once per grid cell.
type Store struct {
	reader *Reader
	cache  *cache.Cache
	ttl    time.Duration

	mu        sync.Mutex
	hitCount  uint64
	missCount uint64
}

// NewStore creates a parsed-season cache around reader.
func NewStore(reader *Reader, ttl time.Duration) *Store {
	return &Store{
		reader: reader,
		cache:  cache.New(ttl, ttl*2),
		ttl:    ttl,
	}
}

// Load returns the parsed match records for path, reading the file at most
// once per TTL window. The returned slice is shared; callers must not modify
// it.
func (s *Store) Load(path string) ([]models.MatchRecord, error) {
	if v, found := s.cache.Get(path); found {
		if records, ok := v.([]models.MatchRecord); ok {
			s.recordHit()
			return records, nil
		}
	}
	s.recordMiss()

	records, _, err := s.reader.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s.cache.Set(path, records, s.ttl)
	return records, nil
}

// Stats returns cache statistics
func (s *Store) Stats() (hits, misses uint64, ratio float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	hits = s.hitCount
	misses = s.missCount
	total := hits + misses
	if total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

// Clear flushes the entire cache
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache.Flush()
	s.hitCount = 0
	s.missCount = 0
}

// ItemCount returns the number of cached seasons
func (s *Store) ItemCount() int {
	return s.cache.ItemCount()
}

func (s *Store) recordHit() {
	s.mu.Lock()
	s.hitCount++
	s.mu.Unlock()
	metrics.RecordDatasetCacheHit()
}

func (s *Store) recordMiss() {
	s.mu.Lock()
	s.missCount++
	s.mu.Unlock()
}
