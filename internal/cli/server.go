package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"quote-quiz-service/internal/app"
	"quote-quiz-service/internal/config"
	"quote-quiz-service/internal/infra/favqs"
	"quote-quiz-service/internal/infra/memory"
	"quote-quiz-service/internal/infra/postgres"
	redisstore "quote-quiz-service/internal/infra/redis"
	"quote-quiz-service/internal/logger"
	"quote-quiz-service/internal/metrics"
	transport "quote-quiz-service/internal/transport/http"
)

const defaultSessionTTL = 2 * time.Hour

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	service, cleanup, err := buildService(ctx, cfg, log, metrics.New(reg))
	if err != nil {
		return err
	}
	defer cleanup()

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", transport.Healthz)
	mux.HandleFunc("/ws", transport.NewWSHandler(service, log.Named("ws")).ServeWS)
	mux.Handle("/results", transport.NewResultsHandler(service, log.Named("results")))
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	// no read/write timeouts: websocket connections are long-lived and set their own write deadlines
	server := &http.Server{
		Addr:              ":" + finalPort,
		Handler:           mux,
		ReadHeaderTimeout: 15 * time.Second,
	}

	go func() {
		log.Infow("starting quiz service", "port", finalPort, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorw("failed to start server", "error", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Infow("shutting down server")
	case <-ctx.Done():
		log.Infow("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// buildService wires the quote client, the stores and the results board chosen by cfg.
// Redis replaces the in-memory session store and quote cache when configured; Postgres
// replaces the in-memory results board.
func buildService(ctx context.Context, cfg config.Config, log *zap.SugaredLogger, m *metrics.Metrics) (*app.QuizService, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if cfg.Quotes.APIKey == "" {
		log.Warnw("API_KEY is not set, quote searches will be rejected by the provider")
	}
	client := favqs.NewClient(favqs.Config{
		BaseURL: cfg.Quotes.BaseURL,
		APIKey:  cfg.Quotes.APIKey,
		Timeout: config.TTLDuration(cfg.Quotes.Timeout, favqs.DefaultTimeout),
		Logger:  log.Named("favqs"),
		Metrics: m,
	})

	cacheTTL := config.TTLDuration(cfg.Quotes.CacheTTL, 0)
	sessionTTL := config.TTLDuration(cfg.Session.TTL, defaultSessionTTL)

	var quotes app.QuoteRepository = memory.NewQuoteRepository(client, cacheTTL)
	var sessions app.SessionRepository = memory.NewSessionStore(sessionTTL)
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("connect redis %s: %w", cfg.Redis.Addr, err)
		}
		closers = append(closers, func() { _ = rdb.Close() })
		quotes = redisstore.NewQuoteRepository(rdb, client, cacheTTL, log.Named("redis"))
		sessions = redisstore.NewSessionStore(rdb, config.TTLDuration(cfg.Redis.TTL, sessionTTL))
	}

	var results app.ResultRepository = memory.NewResultStore()
	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg, log); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		closers = append(closers, pool.Close)
		results = postgres.NewResultStore(pool)
	}

	service := app.NewQuizService(log.Named("quiz"), sessions, quotes,
		app.WithResults(results),
		app.WithMetrics(m),
	)
	return service, cleanup, nil
}
