package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/samber/lo"
	"github.com/vendora/taxengine/internal/cache"
	"github.com/vendora/taxengine/internal/domain/taxrate"
	ierr "github.com/vendora/taxengine/internal/errors"
	"github.com/vendora/taxengine/internal/logger"
	"github.com/vendora/taxengine/internal/types"
)

// TaxRateStore implements taxrate.Repository over an in-process snapshot of
// the jurisdiction rate dataset. The dataset is reference data maintained out
// of band; the engine only ever reads it, so a seeded snapshot plus a
// read-through cache for the hot scope lookups is the whole store.
type TaxRateStore struct {
	mu     sync.RWMutex
	rows   map[string]*taxrate.RateRow
	cache  cache.Cache
	logger *logger.Logger
}

// NewTaxRateStore returns a store seeded with the shipped rate dataset
func NewTaxRateStore(log *logger.Logger, c cache.Cache) *TaxRateStore {
	s := NewEmptyTaxRateStore(log, c)
	s.Add(SeedRateRows()...)

	log.Infow("tax rate store seeded",
		"rows", len(s.rows),
	)
	return s
}

// NewEmptyTaxRateStore returns a store with no rows, for tests and tooling
func NewEmptyTaxRateStore(log *logger.Logger, c cache.Cache) *TaxRateStore {
	return &TaxRateStore{
		rows:   make(map[string]*taxrate.RateRow),
		cache:  c,
		logger: log,
	}
}

// Add registers rows, replacing any row with the same ID
func (s *TaxRateStore) Add(rows ...*taxrate.RateRow) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, row := range rows {
		if row == nil {
			continue
		}
		s.rows[row.ID] = row
	}

	if s.cache != nil {
		ctx := context.Background()
		s.cache.DeleteByPrefix(ctx, cache.PrefixRateScope)
		s.cache.DeleteByPrefix(ctx, cache.PrefixRateCountry)
	}
}

// Clear drops every row and flushes the lookup cache
func (s *TaxRateStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rows = make(map[string]*taxrate.RateRow)
	if s.cache != nil {
		s.cache.Flush(context.Background())
	}
}

// ListByScope returns the rows registered at exactly the given scope
func (s *TaxRateStore) ListByScope(ctx context.Context, scope taxrate.Scope) ([]*taxrate.RateRow, error) {
	if scope.Country == "" {
		return nil, ierr.NewError("scope country is required").
			WithHint("Rate lookups must name a country").
			Mark(ierr.ErrValidation)
	}

	cacheKey := cache.GenerateKey(cache.PrefixRateScope, scope.Country, scope.State, scope.ZipCode)
	if s.cache != nil {
		if cached, found := s.cache.Get(ctx, cacheKey); found {
			if rows, ok := cached.([]*taxrate.RateRow); ok {
				return rows, nil
			}
		}
	}

	s.mu.RLock()
	rows := lo.Filter(lo.Values(s.rows), func(row *taxrate.RateRow, _ int) bool {
		return row.Matches(scope)
	})
	s.mu.RUnlock()

	if s.cache != nil {
		s.cache.Set(ctx, cacheKey, rows, cache.DefaultExpiration)
	}
	return rows, nil
}

// ListByCountry returns every row for a country across all scopes
func (s *TaxRateStore) ListByCountry(ctx context.Context, countryCode string) ([]*taxrate.RateRow, error) {
	country := types.NormalizeCountryCode(countryCode)
	if country == "" {
		return nil, ierr.NewError("country is required").
			WithHint("Rate lookups must name a country").
			Mark(ierr.ErrValidation)
	}

	cacheKey := cache.GenerateKey(cache.PrefixRateCountry, country)
	if s.cache != nil {
		if cached, found := s.cache.Get(ctx, cacheKey); found {
			if rows, ok := cached.([]*taxrate.RateRow); ok {
				return rows, nil
			}
		}
	}

	s.mu.RLock()
	rows := lo.Filter(lo.Values(s.rows), func(row *taxrate.RateRow, _ int) bool {
		return row.Country == country
	})
	s.mu.RUnlock()

	if s.cache != nil {
		s.cache.Set(ctx, cacheKey, rows, cache.DefaultExpiration)
	}
	return rows, nil
}

// ListAll returns the full dataset sorted by country for stable output
func (s *TaxRateStore) ListAll(ctx context.Context) ([]*taxrate.RateRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := lo.Values(s.rows)
	sort.Slice(rows, func(i, j int) bool {
		key := func(row *taxrate.RateRow) string {
			return fmt.Sprintf("%s:%s:%s:%t", row.Country, row.State, row.ZipCode, row.IsEpublicationRate)
		}
		return key(rows[i]) < key(rows[j])
	})
	return rows, nil
}
