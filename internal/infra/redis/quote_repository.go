package redis

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"quote-quiz-service/internal/domain"
)

// QuoteLoader fetches quotes for a keyword from the provider.
type QuoteLoader interface {
	LoadQuotes(ctx context.Context, keyword string) ([]domain.Quote, error)
}

// QuoteRepository caches keyword searches in Redis and falls back to the loader on a miss.
// Results are stored as JSON: SET quiz:quotes:{keyword} [{"body":..,"author":..}] EX ttl
type QuoteRepository struct {
	client *redis.Client
	loader QuoteLoader
	ttl    time.Duration
	logger *zap.SugaredLogger
	sf     singleflight.Group

	rndMu sync.Mutex
	rnd   *rand.Rand
}

func NewQuoteRepository(client *redis.Client, loader QuoteLoader, ttl time.Duration, logger *zap.SugaredLogger) *QuoteRepository {
	return &QuoteRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		logger: logger,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *QuoteRepository) SearchQuotes(ctx context.Context, keyword string) ([]domain.Quote, error) {
	key := r.quotesKey(keyword)
	if quotes, ok := r.cached(ctx, key); ok {
		return quotes, nil
	}

	// shared by all callers waiting on key; detached so one cancelled caller does not fail the others
	loadCtx := context.WithoutCancel(ctx)
	result, err, _ := r.sf.Do(key, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if quotes, ok := r.cached(loadCtx, key); ok {
			return quotes, nil
		}

		quotes, err := r.loader.LoadQuotes(loadCtx, keyword)
		if err != nil {
			return nil, err
		}

		if r.ttl > 0 {
			raw, err := json.Marshal(quotes)
			if err == nil {
				err = r.client.Set(loadCtx, key, raw, r.ttlWithJitter()).Err()
			}
			if err != nil {
				// best-effort; the search itself succeeded
				r.logger.Warnw("cache quotes failed", "key", key, "error", err)
			}
		}
		return quotes, nil
	})
	if err != nil {
		return nil, err
	}
	return append([]domain.Quote(nil), result.([]domain.Quote)...), nil
}

func (r *QuoteRepository) cached(ctx context.Context, key string) ([]domain.Quote, bool) {
	if r.ttl <= 0 {
		return nil, false
	}
	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warnw("read cached quotes failed", "key", key, "error", err)
		}
		return nil, false
	}
	var quotes []domain.Quote
	if err := json.Unmarshal(raw, &quotes); err != nil || len(quotes) == 0 {
		return nil, false
	}
	return quotes, true
}

func (r *QuoteRepository) quotesKey(keyword string) string {
	return "quiz:quotes:" + strings.ToLower(strings.TrimSpace(keyword))
}

func (r *QuoteRepository) ttlWithJitter() time.Duration {
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
