package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quote-quiz-service/internal/domain"
)

func TestRenderControls(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	empty := Render(domain.NewGameState(), now)
	assert.Equal(t, emptyPoolHint, empty.Hint)
	assert.Equal(t, domain.PhaseIdle, empty.Phase)
	assert.NotNil(t, empty.Options)
	assert.Equal(t, domain.Controls{
		StartTimer: domain.Control{Enabled: true},
		Reset:      domain.Control{Enabled: true},
		Search:     domain.Control{Enabled: true},
	}, empty.Controls)

	awaiting := awaitingState(t)
	view := Render(awaiting, now)
	assert.Empty(t, view.Hint)
	assert.Equal(t, "q2", view.Quote)
	assert.Equal(t, []string{"C", "B", "A", "D"}, view.Options)
	assert.Equal(t, 5, view.PoolSize)
	assert.True(t, view.Controls.AnswerSelect.Enabled)
	assert.True(t, view.Controls.Submit.Enabled)
	assert.False(t, view.Controls.NextQuote.Enabled)

	answered, _, err := Submit(awaiting, "B")
	require.NoError(t, err)
	view = Render(answered, now)
	assert.False(t, view.Controls.AnswerSelect.Enabled)
	assert.False(t, view.Controls.Submit.Enabled)
	assert.True(t, view.Controls.NextQuote.Enabled)
	assert.Equal(t, 1, view.Score)
}

func TestRenderTimer(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	state, err := StartTimer(domain.NewGameState(), 2, now)
	require.NoError(t, err)

	view := Render(state, now.Add(15*time.Second))
	assert.True(t, view.TimerActive)
	assert.Equal(t, "01:45", view.TimeLeft)
	assert.False(t, view.Controls.StartTimer.Enabled)
	assert.True(t, view.Controls.Reset.Enabled)

	late := Render(state, now.Add(3*time.Minute))
	assert.Empty(t, late.TimeLeft)
}

func TestRenderDoesNotShareOptions(t *testing.T) {
	state := awaitingState(t)
	view := Render(state, time.Now())
	view.Options[0] = "changed"
	assert.Equal(t, "C", state.Options[0])
}
