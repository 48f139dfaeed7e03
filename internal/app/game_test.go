package app

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quote-quiz-service/internal/domain"
)

// fixedDrawer always returns the same round.
type fixedDrawer struct {
	round domain.Round
	calls int
}

func (d *fixedDrawer) Draw(pool []domain.Quote) (domain.Round, error) {
	if len(pool) == 0 {
		return domain.Round{}, domain.ErrEmptyPool
	}
	d.calls++
	return d.round, nil
}

func exampleDrawer() *fixedDrawer {
	return &fixedDrawer{round: domain.Round{
		Quote:   domain.Quote{Author: "B", Body: "q2"},
		Options: []string{"C", "B", "A", "D"},
	}}
}

func awaitingState(t *testing.T) domain.GameState {
	t.Helper()
	state, err := ApplySearch(domain.NewGameState(), "life", examplePool())
	require.NoError(t, err)
	state, err = StartRound(state, exampleDrawer())
	require.NoError(t, err)
	require.Equal(t, domain.PhaseAwaitingAnswer, state.Phase())
	return state
}

func TestApplySearch(t *testing.T) {
	state, err := ApplySearch(domain.NewGameState(), "  life ", examplePool())
	require.NoError(t, err)
	assert.Equal(t, "life", state.Keyword)
	assert.Equal(t, examplePool(), state.Pool)
	assert.Equal(t, domain.PhaseIdle, state.Phase())

	_, err = ApplySearch(state, " ", examplePool())
	assert.ErrorIs(t, err, domain.ErrEmptyKeyword)

	unchanged, err := ApplySearch(state, "nothing", nil)
	assert.ErrorIs(t, err, domain.ErrNoQuotesFound)
	assert.Equal(t, state, unchanged)
}

func TestApplySearchKeepsScoreAndClearsRound(t *testing.T) {
	state := awaitingState(t)
	state, _, err := Submit(state, "B")
	require.NoError(t, err)

	next, err := ApplySearch(state, "love", []domain.Quote{{Author: "Z", Body: "z"}})
	require.NoError(t, err)
	assert.Equal(t, 1, next.Score)
	assert.Equal(t, 1, next.Attempts)
	assert.Nil(t, next.CurrentQuote)
	assert.Empty(t, next.Options)
	assert.False(t, next.Answered)
}

func TestStartRound(t *testing.T) {
	_, err := StartRound(domain.NewGameState(), exampleDrawer())
	assert.ErrorIs(t, err, domain.ErrEmptyPool)

	state := awaitingState(t)
	assert.Equal(t, "q2", state.CurrentQuote.Body)
	assert.Equal(t, "B", state.CorrectAuthor)

	_, err = StartRound(state, exampleDrawer())
	assert.ErrorIs(t, err, domain.ErrRoundInProgress)
}

func TestSubmitExampleRound(t *testing.T) {
	state := awaitingState(t)

	next, correct, err := Submit(state, "B")
	require.NoError(t, err)
	assert.True(t, correct)
	assert.Equal(t, 1, next.Score)
	assert.Equal(t, 1, next.Attempts)
	assert.Equal(t, domain.PhaseAnswered, next.Phase())
	assert.Equal(t, 0, state.Score, "input state is not modified")
}

func TestSubmitWrongOption(t *testing.T) {
	next, correct, err := Submit(awaitingState(t), "A")
	require.NoError(t, err)
	assert.False(t, correct)
	assert.Equal(t, 0, next.Score)
	assert.Equal(t, 1, next.Attempts)
	assert.True(t, next.Answered)
}

func TestSubmitRejected(t *testing.T) {
	state := awaitingState(t)

	for _, sel := range []string{"", "   "} {
		next, _, err := Submit(state, sel)
		assert.ErrorIs(t, err, domain.ErrNoSelection)
		assert.Equal(t, state, next)
		assert.Equal(t, domain.PhaseAwaitingAnswer, next.Phase())
	}

	next, _, err := Submit(state, "Nobody")
	assert.ErrorIs(t, err, domain.ErrUnknownOption)
	assert.Equal(t, state, next)

	_, _, err = Submit(domain.NewGameState(), "B")
	assert.ErrorIs(t, err, domain.ErrNoRound)

	answered, _, err := Submit(state, "B")
	require.NoError(t, err)
	again, _, err := Submit(answered, "B")
	assert.ErrorIs(t, err, domain.ErrAlreadyAnswered)
	assert.Equal(t, 1, again.Score)
	assert.Equal(t, 1, again.Attempts)
}

func TestAdvanceOnlyAfterAnswer(t *testing.T) {
	state := awaitingState(t)
	drawer := exampleDrawer()

	for range 3 {
		next, err := Advance(state, drawer)
		assert.ErrorIs(t, err, domain.ErrNotAnswered)
		assert.Equal(t, state, next)
	}
	assert.Zero(t, drawer.calls)

	answered, _, err := Submit(state, "B")
	require.NoError(t, err)
	next, err := Advance(answered, drawer)
	require.NoError(t, err)
	assert.Equal(t, 1, drawer.calls)
	assert.Equal(t, domain.PhaseAwaitingAnswer, next.Phase())
	assert.Equal(t, 1, next.Score)
}

func TestStartTimer(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	state, err := StartTimer(domain.NewGameState(), 1.5, now)
	require.NoError(t, err)
	require.NotNil(t, state.TimerDeadline)
	assert.Equal(t, now.Add(90*time.Second), *state.TimerDeadline)

	_, err = StartTimer(state, 1, now)
	assert.ErrorIs(t, err, domain.ErrTimerActive)

	for _, minutes := range []float64{0, -1, math.NaN(), math.Inf(1), 0.001} {
		_, err := StartTimer(domain.NewGameState(), minutes, now)
		assert.ErrorIs(t, err, domain.ErrNonPositiveDuration, "minutes=%v", minutes)
	}
}

func TestTimerExpiresAfterSixtyOneSeconds(t *testing.T) {
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	state, err := StartTimer(domain.NewGameState(), 1.0, start)
	require.NoError(t, err)

	state, status := Tick(state, start.Add(30*time.Second))
	assert.True(t, status.Active)
	assert.Equal(t, "00:30", status.TimeLeft)
	require.NotNil(t, state.TimerDeadline)

	state, status = Tick(state, start.Add(61*time.Second))
	assert.True(t, status.Expired)
	assert.Nil(t, state.TimerDeadline)

	_, status = Tick(state, start.Add(62*time.Second))
	assert.Equal(t, TimerStatus{}, status, "expiry is reported once")
}

func TestResetRestoresDefaults(t *testing.T) {
	state := awaitingState(t)
	state, _, _ = Submit(state, "B")
	state, _ = StartTimer(state, 1, time.Now())

	assert.Equal(t, domain.NewGameState(), Reset())
	assert.NotEqual(t, domain.NewGameState(), state)
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "00:05", formatClock(5))
	assert.Equal(t, "01:00", formatClock(60))
	assert.Equal(t, "12:34", formatClock(754))
}
