package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"quote-quiz-service/internal/domain"
)

// ResultStore persists finished games in the game_results table.
type ResultStore struct {
	pool *pgxpool.Pool
}

func NewResultStore(pool *pgxpool.Pool) *ResultStore {
	return &ResultStore{pool: pool}
}

func (s *ResultStore) Record(ctx context.Context, result domain.GameResult) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO game_results (session_id, keyword, score, attempts, reason, finished_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		result.SessionID, result.Keyword, result.Score, result.Attempts, string(result.Reason), result.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("insert game result: %w", err)
	}
	return nil
}

func (s *ResultStore) Top(ctx context.Context, limit int) ([]domain.GameResult, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT session_id, keyword, score, attempts, reason, finished_at
		   FROM game_results
		  ORDER BY score DESC, attempts ASC, finished_at ASC
		  LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query game results: %w", err)
	}
	defer rows.Close()

	results := []domain.GameResult{}
	for rows.Next() {
		var (
			r      domain.GameResult
			reason string
		)
		if err := rows.Scan(&r.SessionID, &r.Keyword, &r.Score, &r.Attempts, &reason, &r.FinishedAt); err != nil {
			return nil, fmt.Errorf("scan game result: %w", err)
		}
		r.Reason = domain.ResultReason(reason)
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate game results: %w", err)
	}
	return results, nil
}
