package memory

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"quote-quiz-service/internal/domain"
)

// QuoteLoader fetches quotes for a keyword from the provider.
type QuoteLoader interface {
	LoadQuotes(ctx context.Context, keyword string) ([]domain.Quote, error)
}

// QuoteRepository collapses concurrent searches for the same keyword and, when ttl > 0,
// caches successful results. With ttl <= 0 every search reaches the loader.
type QuoteRepository struct {
	loader QuoteLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex

	mu    sync.RWMutex
	cache map[string]cachedQuotes
}

type cachedQuotes struct {
	quotes    []domain.Quote
	expiresAt time.Time
}

func NewQuoteRepository(loader QuoteLoader, ttl time.Duration) *QuoteRepository {
	return &QuoteRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedQuotes),
	}
}

func (r *QuoteRepository) SearchQuotes(ctx context.Context, keyword string) ([]domain.Quote, error) {
	key := cacheKey(keyword)
	if quotes, ok := r.lookup(key); ok {
		return quotes, nil
	}

	// The load is shared by every caller waiting on key, so one caller leaving
	// must not cancel it for the rest. The loader's own timeout still bounds it.
	loadCtx := context.WithoutCancel(ctx)
	result, err, _ := r.sf.Do(key, func() (interface{}, error) {
		// Re-check in case another caller filled the entry.
		if quotes, ok := r.lookup(key); ok {
			return quotes, nil
		}

		quotes, err := r.loader.LoadQuotes(loadCtx, keyword)
		if err != nil {
			return nil, err
		}

		if r.ttl > 0 {
			r.mu.Lock()
			r.cache[key] = cachedQuotes{
				quotes:    quotes,
				expiresAt: r.clock().Add(r.ttlWithJitter()),
			}
			r.mu.Unlock()
		}
		return quotes, nil
	})
	if err != nil {
		return nil, err
	}
	return append([]domain.Quote(nil), result.([]domain.Quote)...), nil
}

func (r *QuoteRepository) lookup(key string) ([]domain.Quote, bool) {
	if r.ttl <= 0 {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.cache[key]
	if !ok || !entry.expiresAt.After(r.clock()) {
		return nil, false
	}
	return append([]domain.Quote(nil), entry.quotes...), true
}

func (r *QuoteRepository) ttlWithJitter() time.Duration {
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

func cacheKey(keyword string) string {
	return strings.ToLower(strings.TrimSpace(keyword))
}

// StaticQuoteLoader serves quotes from an in-memory map keyed by lower-cased keyword (useful for tests/demos).
type StaticQuoteLoader struct {
	quotes map[string][]domain.Quote
}

func NewStaticQuoteLoader(quotes map[string][]domain.Quote) *StaticQuoteLoader {
	normalized := make(map[string][]domain.Quote, len(quotes))
	for k, v := range quotes {
		normalized[cacheKey(k)] = v
	}
	return &StaticQuoteLoader{quotes: normalized}
}

func (l *StaticQuoteLoader) LoadQuotes(_ context.Context, keyword string) ([]domain.Quote, error) {
	if quotes, ok := l.quotes[cacheKey(keyword)]; ok && len(quotes) > 0 {
		return append([]domain.Quote(nil), quotes...), nil
	}
	return nil, domain.ErrNoQuotesFound
}
