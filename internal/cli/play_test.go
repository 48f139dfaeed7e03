package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"quote-quiz-service/internal/app"
	"quote-quiz-service/internal/domain"
	"quote-quiz-service/internal/infra/memory"
)

func TestRunPlay(t *testing.T) {
	loader := memory.NewStaticQuoteLoader(map[string][]domain.Quote{
		"life": {{Body: "q1", Author: "A"}, {Body: "q2", Author: "A"}},
	})
	results := memory.NewResultStore()
	service := app.NewQuizService(zaptest.NewLogger(t).Sugar(), memory.NewSessionStore(time.Hour),
		memory.NewQuoteRepository(loader, 0), app.WithResults(results))

	in := strings.NewReader(strings.Join([]string{
		"search life",
		"answer 1",
		"next",
		"answer",
		"bogus",
		"timer x",
		"search nothing",
		"reset",
		"quit",
		"state",
	}, "\n"))
	var out bytes.Buffer

	require.NoError(t, runPlay(t.Context(), service, "term-1", in, &out))

	got := out.String()
	assert.Contains(t, got, "session term-1")
	assert.Contains(t, got, "Search for quotes to start the quiz!")
	assert.Contains(t, got, "[success] Found 2 quotes for 'life'.")
	assert.Contains(t, got, "[success] Correct! You can now click Next Quote to continue.")
	assert.Contains(t, got, "Score: 1/1  Keyword: life (2 quotes)")
	assert.Contains(t, got, "  1) A")
	assert.Contains(t, got, "[warning] Select an answer before submitting.")
	assert.Contains(t, got, `unknown command "bogus"`)
	assert.Contains(t, got, "[warning] Enter a positive time.")
	assert.Contains(t, got, "[warning] No quotes found with authors.")
	assert.Contains(t, got, "[success] Reset done.")

	board, err := results.Top(t.Context(), 10)
	require.NoError(t, err)
	require.Len(t, board, 1)
	assert.Equal(t, domain.ReasonReset, board[0].Reason)
	assert.Equal(t, 1, board[0].Score)
}

func TestRunPlayStopsAtEOF(t *testing.T) {
	service := app.NewQuizService(zaptest.NewLogger(t).Sugar(), memory.NewSessionStore(time.Hour),
		memory.NewQuoteRepository(memory.NewStaticQuoteLoader(nil), 0))

	var out bytes.Buffer
	require.NoError(t, runPlay(t.Context(), service, "term-2", strings.NewReader(""), &out))
	assert.Contains(t, out.String(), "Score: 0/0")
}

func TestResolveOption(t *testing.T) {
	options := []string{"A", "B"}
	assert.Equal(t, "B", resolveOption(options, "2"))
	assert.Equal(t, "3", resolveOption(options, "3"))
	assert.Equal(t, "Mark Twain", resolveOption(options, "Mark Twain"))
	assert.Equal(t, "", resolveOption(options, ""))
}
