package app

import (
	"math/rand"
	"sync"
	"time"

	"quote-quiz-service/internal/domain"
)

// maxDistractors is the number of wrong authors offered next to the correct one.
const maxDistractors = 3

// RoundSelector draws random rounds from a quote pool. It is safe for concurrent use.
type RoundSelector struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRoundSelector seeds the selector from the wall clock.
func NewRoundSelector() *RoundSelector {
	return NewRoundSelectorWithSource(rand.NewSource(time.Now().UnixNano()))
}

// NewRoundSelectorWithSource allows deterministic draws in tests.
func NewRoundSelectorWithSource(src rand.Source) *RoundSelector {
	return &RoundSelector{rnd: rand.New(src)}
}

// Draw picks a quote uniformly at random and builds its shuffled answer options:
// up to three distinct other authors sampled without replacement, plus the correct author.
func (s *RoundSelector) Draw(pool []domain.Quote) (domain.Round, error) {
	if len(pool) == 0 {
		return domain.Round{}, domain.ErrEmptyPool
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	quote := pool[s.rnd.Intn(len(pool))]
	others := otherAuthors(pool, quote.Author)

	// partial Fisher-Yates: the first n entries end up a uniform sample
	n := min(maxDistractors, len(others))
	for i := 0; i < n; i++ {
		j := i + s.rnd.Intn(len(others)-i)
		others[i], others[j] = others[j], others[i]
	}

	options := make([]string, 0, n+1)
	options = append(options, others[:n]...)
	options = append(options, quote.Author)
	s.rnd.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	return domain.Round{Quote: quote, Options: options}, nil
}

// otherAuthors returns the distinct authors of pool except correct, in first-seen order.
func otherAuthors(pool []domain.Quote, correct string) []string {
	seen := map[string]struct{}{correct: {}}
	authors := make([]string, 0, len(pool))
	for _, q := range pool {
		if _, ok := seen[q.Author]; ok {
			continue
		}
		seen[q.Author] = struct{}{}
		authors = append(authors, q.Author)
	}
	return authors
}
