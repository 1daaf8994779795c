package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sahilchouksey/edupath-api/model"
	"github.com/sahilchouksey/edupath-api/utils/cache"
	"github.com/sahilchouksey/edupath-api/utils/logger"
	"golang.org/x/sync/singleflight"
)

// DefaultCacheTTL is how long a search envelope stays cached
const DefaultCacheTTL = 5 * time.Minute

// ResultCache is the subset of utils/cache.RedisCache used for search results
type ResultCache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) error
	SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error
}

// CacheStats counts cache hits and misses since startup
type CacheStats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
}

// CachedSearcher memoises search envelopes in a ResultCache.
// Concurrent misses for the same key share one upstream search.
// Lookups by id pass through untouched.
type CachedSearcher struct {
	Searcher
	cache  ResultCache
	ttl    time.Duration
	group  singleflight.Group
	log    *logger.Logger
	hits   atomic.Int64
	misses atomic.Int64
}

// NewCachedSearcher wraps next with a result cache
func NewCachedSearcher(next Searcher, c ResultCache, ttl time.Duration, log *logger.Logger) *CachedSearcher {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if log == nil {
		log = logger.Nop()
	}
	return &CachedSearcher{Searcher: next, cache: c, ttl: ttl, log: log}
}

// SearchColleges serves from cache when possible
func (s *CachedSearcher) SearchColleges(ctx context.Context, query string, filters CollegeFilters) (SearchResult[model.College], error) {
	key := cacheKey("colleges", query, filters)
	return cachedSearch(ctx, s, key, func(ctx context.Context) (SearchResult[model.College], error) {
		return s.Searcher.SearchColleges(ctx, query, filters)
	})
}

// SearchCourses serves from cache when possible
func (s *CachedSearcher) SearchCourses(ctx context.Context, query string, filters CourseFilters) (SearchResult[model.Course], error) {
	key := cacheKey("courses", query, filters)
	return cachedSearch(ctx, s, key, func(ctx context.Context) (SearchResult[model.Course], error) {
		return s.Searcher.SearchCourses(ctx, query, filters)
	})
}

// Stats reports hit/miss counters
func (s *CachedSearcher) Stats() CacheStats {
	return CacheStats{Hits: s.hits.Load(), Misses: s.misses.Load()}
}

// cachedSearch shares one upstream search per key. The shared search runs
// detached from any single caller; each caller stops waiting on its own ctx.
func cachedSearch[T any](ctx context.Context, s *CachedSearcher, key string, search func(context.Context) (SearchResult[T], error)) (SearchResult[T], error) {
	var cached SearchResult[T]
	err := s.cache.GetJSON(ctx, key, &cached)
	if err == nil {
		s.hits.Add(1)
		return cached, nil
	}
	if !errors.Is(err, cache.ErrNotFound) {
		s.log.Warn("search cache read failed", "key", key, "error", err)
	}
	s.misses.Add(1)

	shared := context.WithoutCancel(ctx)
	ch := s.group.DoChan(key, func() (interface{}, error) {
		res, err := search(shared)
		if err != nil {
			return nil, err
		}
		if err := s.cache.SetJSON(shared, key, res, s.ttl); err != nil {
			s.log.Warn("search cache write failed", "key", key, "error", err)
		}
		return res, nil
	})

	select {
	case <-ctx.Done():
		return SearchResult[T]{}, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return SearchResult[T]{}, r.Err
		}
		return r.Val.(SearchResult[T]), nil
	}
}

func cacheKey(kind, query string, filters interface{}) string {
	f, _ := json.Marshal(filters)
	return fmt.Sprintf("catalog:%s:%s:%s", kind, normalizeQuery(query), f)
}
