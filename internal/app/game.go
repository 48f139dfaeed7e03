package app

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"quote-quiz-service/internal/domain"
)

// Drawer is satisfied by RoundSelector; tests may supply fixed rounds.
type Drawer interface {
	Draw(pool []domain.Quote) (domain.Round, error)
}

// TimerStatus is the outcome of a Tick.
type TimerStatus struct {
	Active   bool
	Expired  bool
	TimeLeft string
}

// Reset returns the default state, clearing score, pool, round and deadline.
func Reset() domain.GameState {
	return domain.NewGameState()
}

// StartTimer sets the countdown deadline to now plus the given minutes, truncated to whole seconds.
func StartTimer(state domain.GameState, minutes float64, now time.Time) (domain.GameState, error) {
	if math.IsNaN(minutes) || math.IsInf(minutes, 0) || minutes <= 0 {
		return state, domain.ErrNonPositiveDuration
	}
	if state.TimerActive() {
		return state, domain.ErrTimerActive
	}
	seconds := int64(minutes * 60)
	if seconds <= 0 {
		return state, domain.ErrNonPositiveDuration
	}
	deadline := now.Add(time.Duration(seconds) * time.Second)
	state.TimerDeadline = &deadline
	return state, nil
}

// Tick recomputes the remaining time. Once it reaches zero the deadline is cleared
// and Expired is reported exactly once.
func Tick(state domain.GameState, now time.Time) (domain.GameState, TimerStatus) {
	if !state.TimerActive() {
		return state, TimerStatus{}
	}
	remaining := int(state.TimerDeadline.Sub(now) / time.Second)
	if remaining > 0 {
		return state, TimerStatus{Active: true, TimeLeft: formatClock(remaining)}
	}
	state.TimerDeadline = nil
	return state, TimerStatus{Expired: true}
}

// ApplySearch installs a freshly fetched pool and clears the current round.
func ApplySearch(state domain.GameState, keyword string, quotes []domain.Quote) (domain.GameState, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return state, domain.ErrEmptyKeyword
	}
	if len(quotes) == 0 {
		return state, domain.ErrNoQuotesFound
	}
	state.Keyword = keyword
	state.Pool = slices.Clone(quotes)
	state = clearRound(state)
	return state, nil
}

// StartRound draws the first quote of a pool. It is rejected while a round is already drawn.
func StartRound(state domain.GameState, drawer Drawer) (domain.GameState, error) {
	if len(state.Pool) == 0 {
		return state, domain.ErrEmptyPool
	}
	if state.Phase() != domain.PhaseIdle {
		return state, domain.ErrRoundInProgress
	}
	return drawRound(state, drawer)
}

// Submit scores the selected author against the current quote.
func Submit(state domain.GameState, selection string) (domain.GameState, bool, error) {
	switch state.Phase() {
	case domain.PhaseIdle:
		return state, false, domain.ErrNoRound
	case domain.PhaseAnswered:
		return state, false, domain.ErrAlreadyAnswered
	}
	if strings.TrimSpace(selection) == "" {
		return state, false, domain.ErrNoSelection
	}
	if !slices.Contains(state.Options, selection) {
		return state, false, fmt.Errorf("%w: %q", domain.ErrUnknownOption, selection)
	}

	correct := selection == state.CorrectAuthor
	state.Attempts++
	if correct {
		state.Score++
	}
	state.Answered = true
	return state, correct, nil
}

// Advance draws the next quote. Only allowed once the current one has been answered.
func Advance(state domain.GameState, drawer Drawer) (domain.GameState, error) {
	if state.Phase() != domain.PhaseAnswered {
		return state, domain.ErrNotAnswered
	}
	return drawRound(state, drawer)
}

func drawRound(state domain.GameState, drawer Drawer) (domain.GameState, error) {
	round, err := drawer.Draw(state.Pool)
	if err != nil {
		return state, err
	}
	quote := round.Quote
	state.CurrentQuote = &quote
	state.CorrectAuthor = quote.Author
	state.Options = slices.Clone(round.Options)
	state.Answered = false
	return state, nil
}

func clearRound(state domain.GameState) domain.GameState {
	state.CurrentQuote = nil
	state.CorrectAuthor = ""
	state.Options = []string{}
	state.Answered = false
	return state
}

func formatClock(seconds int) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
