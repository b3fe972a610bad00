// Command api runs the reference notes service the notesin client talks to.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"example.com/notesin/internal/auth"
	"example.com/notesin/internal/config"
	"example.com/notesin/internal/db"
	"example.com/notesin/internal/logging"
	"example.com/notesin/internal/notes"
	"example.com/notesin/internal/server"
)

func main() {
	cfg := config.Load()

	log, _, err := logging.New(logging.Options{Level: cfg.LogLevel, Out: os.Stdout})
	if err != nil {
		log = zerolog.New(os.Stdout).With().Timestamp().Logger()
		log.Warn().Err(err).Msg("falling back to info level")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, cleanup, err := buildDeps(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init storage")
	}
	defer cleanup()

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.New(deps),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("notes api listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("serve")
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown")
		}
	}
}

// buildDeps picks the in-memory stores when no database is configured.
func buildDeps(ctx context.Context, cfg config.Config, log zerolog.Logger) (server.Deps, func(), error) {
	if cfg.DatabaseURL == "" {
		log.Warn().Msg("DATABASE_URL not set, using in-memory stores")
		return server.Deps{
			Users: auth.NewMemoryUsers(),
			Notes: notes.NewMemoryStore(),
			Log:   log,
		}, func() {}, nil
	}

	conn, err := db.Open(ctx, cfg.DatabaseURL, db.Pool{
		MaxOpen:     cfg.MaxOpenConns,
		MaxIdle:     cfg.MaxIdleConns,
		MaxLifetime: cfg.ConnMaxLifetime,
		MaxIdleTime: cfg.ConnMaxIdleTime,
	})
	if err != nil {
		return server.Deps{}, nil, err
	}

	if cfg.Migrate {
		if err := conn.Migrate(log); err != nil {
			_ = conn.Close()
			return server.Deps{}, nil, err
		}
	}

	repo, err := notes.NewRepository(ctx, conn.SQL)
	if err != nil {
		_ = conn.Close()
		return server.Deps{}, nil, err
	}

	cleanup := func() {
		_ = repo.Close()
		_ = conn.Close()
	}
	return server.Deps{
		Users: auth.NewRepository(conn.SQL),
		Notes: repo,
		Log:   log,
	}, cleanup, nil
}
