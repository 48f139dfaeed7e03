package domain

import "errors"

var (
	// ErrEmptyKeyword is returned when a search is attempted with a blank keyword.
	ErrEmptyKeyword = errors.New("keyword must not be empty")
	// ErrNonPositiveDuration is returned when a timer is started with a non-positive duration.
	ErrNonPositiveDuration = errors.New("timer duration must be positive")
	// ErrTimerActive is returned when a timer is started while another is still running.
	ErrTimerActive = errors.New("timer already running")
	// ErrEmptyPool indicates no quotes are loaded to draw a round from.
	ErrEmptyPool = errors.New("quote pool is empty")
	// ErrRoundInProgress is returned when a round is started while one is already drawn.
	ErrRoundInProgress = errors.New("round already in progress")
	// ErrNoRound is returned when an answer is submitted before any quote is drawn.
	ErrNoRound = errors.New("no round in progress")
	// ErrNoSelection is returned when an answer is submitted without choosing an author.
	ErrNoSelection = errors.New("no answer selected")
	// ErrUnknownOption indicates the selected author is not one of the offered options.
	ErrUnknownOption = errors.New("selected author is not an option")
	// ErrAlreadyAnswered is returned when the current quote was already answered.
	ErrAlreadyAnswered = errors.New("quote already answered")
	// ErrNotAnswered is returned when advancing before the current quote is answered.
	ErrNotAnswered = errors.New("current quote not answered yet")
	// ErrNoQuotesFound indicates the provider returned no quotes with both author and body.
	ErrNoQuotesFound = errors.New("no quotes found with authors")
	// ErrQuoteSourceUnavailable wraps network, status and decoding failures of the quote provider.
	ErrQuoteSourceUnavailable = errors.New("quote source unavailable")
)

// IsUserError reports whether err stems from invalid player input rather than a provider failure.
func IsUserError(err error) bool {
	for _, target := range []error{
		ErrEmptyKeyword, ErrNonPositiveDuration, ErrTimerActive, ErrEmptyPool, ErrRoundInProgress,
		ErrNoRound, ErrNoSelection, ErrUnknownOption, ErrAlreadyAnswered, ErrNotAnswered,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
