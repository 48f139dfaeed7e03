package domain

import "time"

// Quote is a single quotation fetched from the quote provider.
type Quote struct {
	Body   string `json:"body"`
	Author string `json:"author"`
}

// Phase is the position of a session within the current round.
type Phase string

const (
	PhaseIdle           Phase = "idle"
	PhaseAwaitingAnswer Phase = "awaiting_answer"
	PhaseAnswered       Phase = "answered"
)

// GameState is everything a single player's game needs between actions.
// Values are treated as immutable by the transition functions; slices are replaced, never edited in place.
type GameState struct {
	Score         int        `json:"score"`
	Attempts      int        `json:"attempts"`
	CurrentQuote  *Quote     `json:"currentQuote,omitempty"`
	CorrectAuthor string     `json:"correctAuthor,omitempty"`
	Options       []string   `json:"options"`
	Pool          []Quote    `json:"pool"`
	Keyword       string     `json:"keyword"`
	Answered      bool       `json:"answered"`
	TimerDeadline *time.Time `json:"timerDeadline,omitempty"`
	// RecordedAttempts is Attempts as of the last result written to the board.
	RecordedAttempts int `json:"recordedAttempts,omitempty"`
}

// NewGameState returns the defaults used on first load and after a reset.
func NewGameState() GameState {
	return GameState{
		Options: []string{},
		Pool:    []Quote{},
	}
}

// Phase derives the round phase from the answered flag and the current quote.
func (s GameState) Phase() Phase {
	switch {
	case s.CurrentQuote == nil:
		return PhaseIdle
	case s.Answered:
		return PhaseAnswered
	default:
		return PhaseAwaitingAnswer
	}
}

// TimerActive reports whether a countdown deadline is set.
func (s GameState) TimerActive() bool {
	return s.TimerDeadline != nil
}

// Round is one drawn quote together with the shuffled author choices.
type Round struct {
	Quote   Quote
	Options []string
}

// ResultReason records why a game was finished.
type ResultReason string

const (
	ReasonReset        ResultReason = "reset"
	ReasonTimerExpired ResultReason = "timer_expired"
)

// GameResult is a finished game as kept on the results board.
type GameResult struct {
	SessionID  string       `json:"sessionId"`
	Keyword    string       `json:"keyword"`
	Score      int          `json:"score"`
	Attempts   int          `json:"attempts"`
	Reason     ResultReason `json:"reason"`
	FinishedAt time.Time    `json:"finishedAt"`
}
