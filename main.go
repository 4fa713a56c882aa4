package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
	"github.com/rs/cors"

	"fitness-buddy/internal/coach"
	"fitness-buddy/internal/config"
	"fitness-buddy/internal/handlers"
	"fitness-buddy/internal/llm"
	"fitness-buddy/internal/logging"
	"fitness-buddy/internal/session"
	"fitness-buddy/internal/store"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load(os.Args[1:])
	if errors.Is(err, config.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		log.Fatal("Invalid configuration", "error", err)
	}

	logger := logging.New(os.Stdout, cfg.LogLevel)
	if cfg.UsingDevSecret() {
		logger.Warn("SESSION_SECRET is not set, using the development secret")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("Server stopped", "error", err)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *log.Logger) error {
	st, err := store.Open(ctx, cfg.DBDriver, cfg.DBDSN, logging.ForComponent(logger, "store"))
	if err != nil {
		return errors.Wrap(err, "open store")
	}
	defer func() { _ = st.Close() }()

	completer, err := llm.New(logging.ForComponent(logger, "llm"), llm.Options{
		Backend:  cfg.LLMBackend,
		APIURL:   cfg.CompletionsURL,
		APIKey:   cfg.CompletionsKey,
		Model:    cfg.CompletionsModel,
		LocalURL: cfg.LocalGenerateURL,
		Timeout:  cfg.LLMTimeout,
	})
	if err != nil {
		return errors.Wrap(err, "build llm client")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newHandler(cfg, logger, st, completer),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.LLMTimeout + 30*time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", "port", cfg.Port, "db", cfg.DBDriver, "llm", cfg.LLMBackend)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newHandler wires the API on top of an open store and a model client.
func newHandler(cfg *config.Config, logger *log.Logger, st *store.Store, completer coach.Completer) http.Handler {
	svc := coach.NewService(st, completer, logging.ForComponent(logger, "coach"))
	h := handlers.New(st, svc, logging.ForComponent(logger, "http"))
	sessions := session.NewManager(cfg.SessionSecret, cfg.SessionCookie, cfg.Production())

	r := newRouter(h, sessions, st.UserExists, logger)

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{requestIDHeader},
		AllowCredentials: true,
	})

	return c.Handler(loggingMiddleware(logger)(r))
}
