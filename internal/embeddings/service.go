package embeddings

import (
	"context"
	"sync"

	"github.com/herald-lol/brainprint/backend/internal/models"
)

// Service wraps any Provider with a bounded LRU cache and single-flight
// deduplication of concurrent misses on the same key, per spec §4.2
// and the shared-mutable-state rules of spec §5. It is the only
// process-wide mutable state in the system besides the game catalog
// (which is read-only after startup).
type Service struct {
	provider Provider
	cache    *lruCache

	inflightMu sync.Mutex
	inflight   map[cacheKey]*inflightLoad
}

type inflightLoad struct {
	done  chan struct{}
	entry cacheEntry
	err   error
}

// NewService wraps provider with an LRU cache of the given capacity
// (<=0 defaults to 10000 entries).
func NewService(provider Provider, capacity int) *Service {
	return &Service{
		provider: provider,
		cache:    newLRUCache(capacity),
		inflight: make(map[cacheKey]*inflightLoad),
	}
}

// Get resolves (word, language), case-folding the word on lookup, per
// spec §4.2. A previous EmbeddingNotFound for the same key is cached
// too, so repeated misses don't re-hit the provider.
func (s *Service) Get(ctx context.Context, word, language string) (models.WordEmbedding, error) {
	key := newCacheKey(word, language)

	if entry, ok := s.cache.get(key); ok {
		if entry.miss {
			return models.WordEmbedding{}, notFound(word, language)
		}
		return entry.value, nil
	}

	load, leader := s.claimInflight(key)
	if leader {
		e, err := s.provider.Get(ctx, word, language)
		entry := cacheEntry{key: key, value: e, miss: err != nil}
		// Cache the negative result too, so a flurry of misses for a
		// known-absent word doesn't keep hammering the provider.
		s.cache.set(entry)
		load.entry = entry
		load.err = err
		s.releaseInflight(key, load)
		return unwrapLoad(load)
	}

	<-load.done
	return unwrapLoad(load)
}

func unwrapLoad(load *inflightLoad) (models.WordEmbedding, error) {
	if load.err != nil {
		return models.WordEmbedding{}, load.err
	}
	return load.entry.value, nil
}

// claimInflight registers the caller as the leader for key if no load
// is already underway, otherwise returns the existing in-flight load
// for the caller to wait on.
func (s *Service) claimInflight(key cacheKey) (*inflightLoad, bool) {
	s.inflightMu.Lock()
	defer s.inflightMu.Unlock()
	if load, ok := s.inflight[key]; ok {
		return load, false
	}
	load := &inflightLoad{done: make(chan struct{})}
	s.inflight[key] = load
	return load, true
}

func (s *Service) releaseInflight(key cacheKey, load *inflightLoad) {
	s.inflightMu.Lock()
	delete(s.inflight, key)
	s.inflightMu.Unlock()
	close(load.done)
}

// Has reports whether an embedding is resolvable for (word, language)
// without surfacing an error for the negative case.
func (s *Service) Has(ctx context.Context, word, language string) bool {
	_, err := s.Get(ctx, word, language)
	return err == nil
}

// StoreMany delegates to the wrapped provider when it supports bulk
// storage (the DB-backed provider); other providers report 0 stored.
func (s *Service) StoreMany(ctx context.Context, embeddings []models.WordEmbedding) (int, error) {
	bs, ok := s.provider.(BulkStorer)
	if !ok {
		return 0, nil
	}
	n, err := bs.StoreMany(ctx, embeddings)
	if err == nil {
		for _, e := range embeddings {
			s.cache.set(cacheEntry{key: newCacheKey(e.Word, e.Language), value: e})
		}
	}
	return n, err
}

// FindSimilar delegates to the wrapped provider when it supports
// server-side similarity search.
func (s *Service) FindSimilar(ctx context.Context, v models.Vector, language string, k int) ([]ScoredWord, error) {
	ss, ok := s.provider.(SimilaritySearcher)
	if !ok {
		return nil, nil
	}
	return ss.FindSimilar(ctx, v, language, k)
}

// CacheLen reports the current number of cached entries; exposed for
// tests and health checks, not used by scoring logic.
func (s *Service) CacheLen() int { return s.cache.len() }
