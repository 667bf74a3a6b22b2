package store

import (
	"context"
	"sync"

	"shopcore/internal/model"

	"github.com/rs/zerolog"
)

// CatalogStore serves a paginated view over the product catalogue. Page 1
// queries the source for the full filtered set and caches it; later pages
// are sliced out of the cache without touching the source. A filter change
// therefore always restarts at page 1.
//
// In-flight page-1 fetches are not cancelled; instead every fetch carries
// the filter token current at dispatch time, and a result arriving for a
// superseded token is discarded.
type CatalogStore struct {
	source   CatalogSource
	pageSize int
	logger   zerolog.Logger

	mu     sync.Mutex
	token  uint64
	filter model.CatalogFilter
	active []model.Product
	loaded bool
	page   model.Page
}

// NewCatalogStore creates a catalogue store with a fixed page size.
func NewCatalogStore(source CatalogSource, pageSize int, logger zerolog.Logger) *CatalogStore {
	if pageSize < 1 {
		pageSize = 1
	}
	return &CatalogStore{
		source:   source,
		pageSize: pageSize,
		logger:   logger.With().Str("store", "catalog").Logger(),
	}
}

// LoadPage loads one page of the filtered catalogue. Page 1 refreshes the
// cached active set from the source; pages beyond 1 slice the cache. A page
// past the end is a no-op returning the current cached tail.
func (s *CatalogStore) LoadPage(ctx context.Context, filter model.CatalogFilter, page int) (model.Page, error) {
	if page < 1 {
		page = 1
	}

	s.mu.Lock()
	if page > 1 && (!s.loaded || filter != s.filter) {
		// The cache belongs to another filter context. Callers are
		// supposed to Reset before switching; recover by restarting
		// at page 1 under the new filter.
		s.logger.Warn().
			Int("requested_page", page).
			Msg("page requested without a matching cached set, restarting at page 1")
		page = 1
	}

	if page == 1 {
		s.token++
		tok := s.token
		s.filter = filter
		s.mu.Unlock()

		items, total, err := s.source.ListProducts(ctx, filter, 0, 0)
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to list products")
			return model.Page{}, model.NewTransportError("list products", err)
		}

		s.mu.Lock()
		if tok != s.token {
			// A Reset or newer page-1 load superseded this fetch.
			current := s.page
			s.mu.Unlock()
			s.logger.Debug().Uint64("token", tok).Msg("discarding stale catalog response")
			return current, nil
		}
		s.active = items
		s.loaded = true
		_ = total // total always equals len(items) for a full-set fetch
		s.page = s.slice(1)
		result := s.page
		s.mu.Unlock()
		return result, nil
	}

	totalPages := s.totalPages()
	if totalPages > 0 && page > totalPages {
		current := s.page
		s.mu.Unlock()
		return current, nil
	}
	s.page = s.slice(page)
	result := s.page
	s.mu.Unlock()
	return result, nil
}

// Reset clears the cached set and pagination state. Required whenever the
// filter context changes or the consuming view goes away.
func (s *CatalogStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token++
	s.filter = model.CatalogFilter{}
	s.active = nil
	s.loaded = false
	s.page = model.Page{}
}

// Current returns the most recently computed page.
func (s *CatalogStore) Current() model.Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

// slice computes the given 1-based page from the cached set. Caller holds
// the lock.
func (s *CatalogStore) slice(page int) model.Page {
	totalPages := s.totalPages()

	start := s.pageSize * (page - 1)
	end := start + s.pageSize
	if start > len(s.active) {
		start = len(s.active)
	}
	if end > len(s.active) {
		end = len(s.active)
	}

	items := make([]model.Product, end-start)
	copy(items, s.active[start:end])

	return model.Page{
		Items:       items,
		CurrentPage: page,
		TotalPages:  totalPages,
		HasMore:     page < totalPages,
	}
}

func (s *CatalogStore) totalPages() int {
	return (len(s.active) + s.pageSize - 1) / s.pageSize
}
