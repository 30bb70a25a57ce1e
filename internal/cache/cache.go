package cache

import (
	"context"

	gocache "github.com/patrickmn/go-cache"

	"showdeck/internal/domain"
)

// FetchFunc loads and canonically sorts the episodes of one show.
type FetchFunc func(ctx context.Context, showID string) ([]domain.Episode, error)

// EpisodeStore memoizes fetched episode lists per show id for the lifetime of
// the process: entries never expire and are never invalidated.
type EpisodeStore struct {
	store *gocache.Cache
}

// NewEpisodeStore creates an empty episode cache.
func NewEpisodeStore() *EpisodeStore {
	return &EpisodeStore{store: gocache.New(gocache.NoExpiration, 0)}
}

// Episodes returns the cached episode list for showID, invoking fetch on the
// first access for a given key. A failed fetch does not populate the cache;
// the error propagates unchanged. Concurrent misses on the same key may each
// fetch; the first stored value wins.
func (s *EpisodeStore) Episodes(ctx context.Context, showID string, fetch FetchFunc) ([]domain.Episode, error) {
	if cached, ok := s.store.Get(showID); ok {
		return cached.([]domain.Episode), nil
	}

	episodes, err := fetch(ctx, showID)
	if err != nil {
		return nil, err
	}

	// Add rather than Set: if another fetch for the same key finished first,
	// keep its value so repeated reads stay consistent.
	if err := s.store.Add(showID, episodes, gocache.NoExpiration); err != nil {
		if cached, ok := s.store.Get(showID); ok {
			return cached.([]domain.Episode), nil
		}
	}
	return episodes, nil
}

// Len reports the number of cached show entries.
func (s *EpisodeStore) Len() int {
	return s.store.ItemCount()
}
