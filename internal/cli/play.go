package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"quote-quiz-service/internal/app"
	"quote-quiz-service/internal/config"
	"quote-quiz-service/internal/domain"
	"quote-quiz-service/internal/logger"
)

const playHelp = `commands:
  search <keyword>   load quotes and draw the first one
  answer [n|author]  submit option n (1-based) or an author name
  next               draw the next quote
  start              draw a quote from the loaded pool
  timer <minutes>    start the countdown
  state              show the board again
  reset              start over
  quit               leave the game`

// NewPlayCmd runs a game in the terminal against the configured stores.
func NewPlayCmd(configPath *string) *cobra.Command {
	var sessionID string
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play the quiz in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			log, err := logger.NewWithWriter(cfg.Log, os.Stderr)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			service, cleanup, err := buildService(cmd.Context(), cfg, log, nil)
			if err != nil {
				return err
			}
			defer cleanup()

			if sessionID == "" {
				sessionID = uuid.NewString()
			}
			return runPlay(cmd.Context(), service, sessionID, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&sessionID, "session", "", "resume an existing session id")
	return cmd
}

// runPlay reads one command per line until quit or EOF and prints the board after each.
// The countdown is checked whenever a command is entered.
func runPlay(ctx context.Context, service *app.QuizService, sessionID string, in io.Reader, out io.Writer) error {
	update, err := service.Refresh(ctx, sessionID)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "session %s\n%s\n", sessionID, playHelp)
	printUpdate(out, update)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		cmd, arg, _ := strings.Cut(strings.TrimSpace(scanner.Text()), " ")
		arg = strings.TrimSpace(arg)

		switch strings.ToLower(cmd) {
		case "":
			continue
		case "quit", "exit":
			return nil
		case "help":
			fmt.Fprintln(out, playHelp)
			continue
		case "state":
			update, err = service.Refresh(ctx, sessionID)
		case "search":
			update, err = service.Search(ctx, sessionID, arg)
		case "answer":
			update, err = service.Submit(ctx, sessionID, resolveOption(update.View.Options, arg))
		case "next":
			update, err = service.Advance(ctx, sessionID)
		case "start":
			update, err = service.StartRound(ctx, sessionID)
		case "timer":
			// an unparsable value is reported like any other non-positive duration
			minutes, _ := strconv.ParseFloat(arg, 64)
			update, err = service.StartTimer(ctx, sessionID, minutes)
		case "reset":
			update, err = service.Reset(ctx, sessionID)
		default:
			fmt.Fprintf(out, "unknown command %q, type help\n", cmd)
			continue
		}
		if err != nil {
			return err
		}
		printUpdate(out, update)
	}
}

// resolveOption maps a 1-based option number to its author; anything else is passed through.
func resolveOption(options []string, arg string) string {
	if n, err := strconv.Atoi(arg); err == nil && n >= 1 && n <= len(options) {
		return options[n-1]
	}
	return arg
}

func printUpdate(out io.Writer, update domain.Update) {
	for _, n := range update.Notices {
		fmt.Fprintf(out, "[%s] %s\n", n.Level, n.Message)
	}

	v := update.View
	fmt.Fprintf(out, "Score: %d/%d", v.Score, v.Attempts)
	if v.Keyword != "" {
		fmt.Fprintf(out, "  Keyword: %s (%d quotes)", v.Keyword, v.PoolSize)
	}
	if v.TimeLeft != "" {
		fmt.Fprintf(out, "  Time left: %s", v.TimeLeft)
	}
	fmt.Fprintln(out)

	if v.Quote != "" {
		fmt.Fprintf(out, "%q\n", v.Quote)
		for i, opt := range v.Options {
			fmt.Fprintf(out, "  %d) %s\n", i+1, opt)
		}
		if v.Phase == domain.PhaseAnswered {
			fmt.Fprintln(out, "  (next for another quote)")
		}
	}
	if v.Hint != "" {
		fmt.Fprintln(out, v.Hint)
	}
}
