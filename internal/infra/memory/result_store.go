package memory

import (
	"context"
	"slices"
	"sync"

	"quote-quiz-service/internal/domain"
)

// ResultStore keeps finished games in process memory.
type ResultStore struct {
	mu      sync.RWMutex
	results []domain.GameResult
}

func NewResultStore() *ResultStore {
	return &ResultStore{}
}

func (s *ResultStore) Record(_ context.Context, result domain.GameResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, result)
	return nil
}

// Top returns up to limit results ordered by score desc, then attempts asc, then earliest finish.
func (s *ResultStore) Top(_ context.Context, limit int) ([]domain.GameResult, error) {
	s.mu.RLock()
	ordered := slices.Clone(s.results)
	s.mu.RUnlock()

	slices.SortStableFunc(ordered, CompareResults)
	if limit > 0 && len(ordered) > limit {
		ordered = ordered[:limit]
	}
	if ordered == nil {
		ordered = []domain.GameResult{}
	}
	return ordered, nil
}

// CompareResults orders results for the board.
func CompareResults(a, b domain.GameResult) int {
	if a.Score != b.Score {
		return b.Score - a.Score
	}
	if a.Attempts != b.Attempts {
		return a.Attempts - b.Attempts
	}
	return a.FinishedAt.Compare(b.FinishedAt)
}
