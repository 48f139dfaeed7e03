package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"quote-quiz-service/internal/domain"
	"quote-quiz-service/internal/metrics"
)

const (
	defaultResultsLimit = 10
	maxResultsLimit     = 100
)

// SessionRepository abstracts where per-player game state lives (in-memory, Redis, etc).
// Load of an unknown session yields domain.NewGameState().
type SessionRepository interface {
	Load(ctx context.Context, sessionID string) (domain.GameState, error)
	Save(ctx context.Context, sessionID string, state domain.GameState) error
	Delete(ctx context.Context, sessionID string) error
}

// QuoteRepository returns the filtered quotes matching a keyword.
type QuoteRepository interface {
	SearchQuotes(ctx context.Context, keyword string) ([]domain.Quote, error)
}

// ResultRepository keeps finished games for the results board.
type ResultRepository interface {
	Record(ctx context.Context, result domain.GameResult) error
	Top(ctx context.Context, limit int) ([]domain.GameResult, error)
}

// QuizService contains the game use cases. Every call loads the session, applies one
// transition, re-evaluates the timer, saves, and renders.
type QuizService struct {
	logger   *zap.SugaredLogger
	sessions SessionRepository
	quotes   QuoteRepository
	results  ResultRepository
	drawer   Drawer
	metrics  *metrics.Metrics
	now      func() time.Time
}

// Option customises a QuizService.
type Option func(*QuizService)

// WithClock is used by tests to control timer behaviour.
func WithClock(now func() time.Time) Option {
	return func(s *QuizService) { s.now = now }
}

// WithDrawer replaces the default random round selector.
func WithDrawer(d Drawer) Option {
	return func(s *QuizService) { s.drawer = d }
}

// WithMetrics enables prometheus instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *QuizService) { s.metrics = m }
}

// WithResults enables recording finished games.
func WithResults(r ResultRepository) Option {
	return func(s *QuizService) { s.results = r }
}

func NewQuizService(logger *zap.SugaredLogger, sessions SessionRepository, quotes QuoteRepository, opts ...Option) *QuizService {
	s := &QuizService{
		logger:   logger,
		sessions: sessions,
		quotes:   quotes,
		drawer:   NewRoundSelector(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type action func(ctx context.Context, state domain.GameState, now time.Time) (domain.GameState, []domain.Notice)

func (s *QuizService) apply(ctx context.Context, sessionID string, act action) (domain.Update, error) {
	state, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return domain.Update{}, fmt.Errorf("load session %s: %w", sessionID, err)
	}

	now := s.now()
	next, notices := act(ctx, state, now)

	next, status := Tick(next, now)
	if status.Expired {
		s.logger.Infow("timer expired", "session", sessionID, "score", next.Score, "attempts", next.Attempts)
		s.metrics.TimerExpired()
		notices = append(notices, success(CodeTimesUp, "Time's up!"))
		if s.record(ctx, sessionID, next, domain.ReasonTimerExpired, now) {
			next.RecordedAttempts = next.Attempts
		}
	}

	if err := s.sessions.Save(ctx, sessionID, next); err != nil {
		return domain.Update{}, fmt.Errorf("save session %s: %w", sessionID, err)
	}
	if notices == nil {
		notices = []domain.Notice{}
	}
	return domain.Update{View: Render(next, now), Notices: notices}, nil
}

// Refresh re-renders a session and runs the timer check; the transport calls it on every tick.
func (s *QuizService) Refresh(ctx context.Context, sessionID string) (domain.Update, error) {
	return s.apply(ctx, sessionID, func(_ context.Context, state domain.GameState, _ time.Time) (domain.GameState, []domain.Notice) {
		return state, nil
	})
}

// StartTimer begins a countdown of the given minutes.
func (s *QuizService) StartTimer(ctx context.Context, sessionID string, minutes float64) (domain.Update, error) {
	return s.apply(ctx, sessionID, func(_ context.Context, state domain.GameState, now time.Time) (domain.GameState, []domain.Notice) {
		next, err := StartTimer(state, minutes, now)
		if err != nil {
			return state, []domain.Notice{NoticeFor(err)}
		}
		s.logger.Debugw("timer started", "session", sessionID, "minutes", minutes)
		return next, []domain.Notice{{Level: domain.LevelInfo, Code: CodeTimerStarted, Message: "Timer started."}}
	})
}

// Reset records the finished game, if any answers were given, and restores the defaults.
func (s *QuizService) Reset(ctx context.Context, sessionID string) (domain.Update, error) {
	return s.apply(ctx, sessionID, func(ctx context.Context, state domain.GameState, now time.Time) (domain.GameState, []domain.Notice) {
		s.record(ctx, sessionID, state, domain.ReasonReset, now)
		return Reset(), []domain.Notice{success(CodeResetDone, "Reset done.")}
	})
}

// Search fetches the quotes for keyword, replaces the pool and draws the first quote.
// Any failure leaves the state as it was.
func (s *QuizService) Search(ctx context.Context, sessionID, keyword string) (domain.Update, error) {
	return s.apply(ctx, sessionID, func(ctx context.Context, state domain.GameState, _ time.Time) (domain.GameState, []domain.Notice) {
		keyword = strings.TrimSpace(keyword)
		if keyword == "" {
			s.metrics.Search(metrics.OutcomeInvalid)
			return state, []domain.Notice{NoticeFor(domain.ErrEmptyKeyword)}
		}

		quotes, err := s.quotes.SearchQuotes(ctx, keyword)
		if err != nil {
			s.logger.Warnw("search failed", "session", sessionID, "keyword", keyword, "error", err)
			s.metrics.Search(searchOutcome(err))
			return state, []domain.Notice{NoticeFor(err)}
		}

		next, err := ApplySearch(state, keyword, quotes)
		if err != nil {
			s.metrics.Search(searchOutcome(err))
			return state, []domain.Notice{NoticeFor(err)}
		}
		next, err = StartRound(next, s.drawer)
		if err != nil {
			return state, []domain.Notice{NoticeFor(err)}
		}

		s.metrics.Search(metrics.OutcomeFound)
		s.logger.Infow("quotes loaded", "session", sessionID, "keyword", keyword, "count", len(quotes))
		return next, []domain.Notice{success(CodeQuotesFound, fmt.Sprintf("Found %d quotes for '%s'.", len(quotes), keyword))}
	})
}

// StartRound draws a quote when a pool is loaded but nothing is in play yet.
func (s *QuizService) StartRound(ctx context.Context, sessionID string) (domain.Update, error) {
	return s.apply(ctx, sessionID, func(_ context.Context, state domain.GameState, _ time.Time) (domain.GameState, []domain.Notice) {
		next, err := StartRound(state, s.drawer)
		if err != nil {
			return state, []domain.Notice{NoticeFor(err)}
		}
		return next, nil
	})
}

// Submit checks the selected author against the current quote.
func (s *QuizService) Submit(ctx context.Context, sessionID, selection string) (domain.Update, error) {
	return s.apply(ctx, sessionID, func(_ context.Context, state domain.GameState, _ time.Time) (domain.GameState, []domain.Notice) {
		next, correct, err := Submit(state, selection)
		if err != nil {
			return state, []domain.Notice{NoticeFor(err)}
		}
		s.metrics.Answer(correct)
		if correct {
			return next, []domain.Notice{success(CodeCorrect, "Correct! You can now click Next Quote to continue.")}
		}
		return next, []domain.Notice{{
			Level:   domain.LevelError,
			Code:    CodeWrong,
			Message: "Wrong. Correct answer: " + next.CorrectAuthor,
		}}
	})
}

// Advance moves to the next quote after the current one was answered.
func (s *QuizService) Advance(ctx context.Context, sessionID string) (domain.Update, error) {
	return s.apply(ctx, sessionID, func(_ context.Context, state domain.GameState, _ time.Time) (domain.GameState, []domain.Notice) {
		next, err := Advance(state, s.drawer)
		if err != nil {
			return state, []domain.Notice{NoticeFor(err)}
		}
		return next, nil
	})
}

// EndSession drops the stored state of a session.
func (s *QuizService) EndSession(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, sessionID)
}

// TopResults lists the best finished games. A limit outside 1..100 falls back to the default or the max.
func (s *QuizService) TopResults(ctx context.Context, limit int) ([]domain.GameResult, error) {
	if s.results == nil {
		return []domain.GameResult{}, nil
	}
	switch {
	case limit <= 0:
		limit = defaultResultsLimit
	case limit > maxResultsLimit:
		limit = maxResultsLimit
	}
	return s.results.Top(ctx, limit)
}

// record writes the game to the results board unless nothing was answered since the last write.
func (s *QuizService) record(ctx context.Context, sessionID string, state domain.GameState, reason domain.ResultReason, now time.Time) bool {
	if s.results == nil || state.Attempts <= state.RecordedAttempts {
		return false
	}
	result := domain.GameResult{
		SessionID:  sessionID,
		Keyword:    state.Keyword,
		Score:      state.Score,
		Attempts:   state.Attempts,
		Reason:     reason,
		FinishedAt: now.UTC(),
	}
	if err := s.results.Record(ctx, result); err != nil {
		s.logger.Errorw("record result failed", "session", sessionID, "error", err)
		return false
	}
	s.metrics.ResultRecorded()
	return true
}

func searchOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeFound
	case errors.Is(err, domain.ErrNoQuotesFound):
		return metrics.OutcomeEmpty
	case domain.IsUserError(err):
		return metrics.OutcomeInvalid
	default:
		return metrics.OutcomeError
	}
}
