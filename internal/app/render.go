package app

import (
	"slices"
	"time"

	"quote-quiz-service/internal/domain"
)

const emptyPoolHint = "Search for quotes to start the quiz!"

// Render builds the client-facing view of a state. It never mutates the state.
func Render(state domain.GameState, now time.Time) domain.View {
	phase := state.Phase()
	view := domain.View{
		Score:       state.Score,
		Attempts:    state.Attempts,
		Keyword:     state.Keyword,
		PoolSize:    len(state.Pool),
		Phase:       phase,
		Options:     slices.Clone(state.Options),
		TimerActive: state.TimerActive(),
		Controls: domain.Controls{
			StartTimer:   domain.Control{Enabled: !state.TimerActive()},
			Reset:        domain.Control{Enabled: true},
			Search:       domain.Control{Enabled: true},
			AnswerSelect: domain.Control{Enabled: phase == domain.PhaseAwaitingAnswer},
			Submit:       domain.Control{Enabled: phase == domain.PhaseAwaitingAnswer},
			NextQuote:    domain.Control{Enabled: phase == domain.PhaseAnswered},
		},
	}
	if view.Options == nil {
		view.Options = []string{}
	}
	if state.CurrentQuote != nil {
		view.Quote = state.CurrentQuote.Body
	}
	if state.TimerActive() {
		if remaining := int(state.TimerDeadline.Sub(now) / time.Second); remaining > 0 {
			view.TimeLeft = formatClock(remaining)
		}
	}
	if len(state.Pool) == 0 {
		view.Hint = emptyPoolHint
	}
	return view
}
