package app

import (
	"errors"
	"fmt"

	"quote-quiz-service/internal/domain"
)

// Notice codes let clients react to feedback without parsing messages.
const (
	CodeTimerStarted      = "timer_started"
	CodeTimesUp           = "times_up"
	CodeResetDone         = "reset_done"
	CodeQuotesFound       = "quotes_found"
	CodeCorrect           = "correct"
	CodeWrong             = "wrong"
	CodeInvalidDuration   = "invalid_duration"
	CodeTimerActive       = "timer_active"
	CodeEmptyKeyword      = "empty_keyword"
	CodeNoQuotesFound     = "no_quotes_found"
	CodeSourceUnavailable = "quote_source_unavailable"
	CodeNoSelection       = "no_selection"
	CodeUnknownOption     = "unknown_option"
	CodeAlreadyAnswered   = "already_answered"
	CodeNotAnswered       = "not_answered"
	CodeRoundInProgress   = "round_in_progress"
	CodeNoRound           = "no_round"
	CodeInternal          = "internal_error"
)

func success(code, msg string) domain.Notice {
	return domain.Notice{Level: domain.LevelSuccess, Code: code, Message: msg}
}

func warning(code, msg string) domain.Notice {
	return domain.Notice{Level: domain.LevelWarning, Code: code, Message: msg}
}

// NoticeFor converts an action error into the inline message shown to the player.
func NoticeFor(err error) domain.Notice {
	switch {
	case errors.Is(err, domain.ErrNonPositiveDuration):
		return warning(CodeInvalidDuration, "Enter a positive time.")
	case errors.Is(err, domain.ErrTimerActive):
		return warning(CodeTimerActive, "A timer is already running.")
	case errors.Is(err, domain.ErrEmptyKeyword):
		return warning(CodeEmptyKeyword, "Enter a keyword to search.")
	case errors.Is(err, domain.ErrNoQuotesFound):
		return warning(CodeNoQuotesFound, "No quotes found with authors.")
	case errors.Is(err, domain.ErrQuoteSourceUnavailable):
		return domain.Notice{Level: domain.LevelError, Code: CodeSourceUnavailable, Message: fmt.Sprintf("API error: %v", err)}
	case errors.Is(err, domain.ErrNoSelection):
		return warning(CodeNoSelection, "Select an answer before submitting.")
	case errors.Is(err, domain.ErrUnknownOption):
		return warning(CodeUnknownOption, "Pick one of the offered authors.")
	case errors.Is(err, domain.ErrAlreadyAnswered):
		return warning(CodeAlreadyAnswered, "This quote is already answered. Click Next Quote to continue.")
	case errors.Is(err, domain.ErrNotAnswered):
		return warning(CodeNotAnswered, "Answer the current quote before moving on.")
	case errors.Is(err, domain.ErrRoundInProgress):
		return warning(CodeRoundInProgress, "A quote is already in play.")
	case errors.Is(err, domain.ErrNoRound), errors.Is(err, domain.ErrEmptyPool):
		return warning(CodeNoRound, emptyPoolHint)
	default:
		return domain.Notice{Level: domain.LevelError, Code: CodeInternal, Message: "Something went wrong, try again."}
	}
}
