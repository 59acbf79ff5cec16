package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"survey-service/internal/config"
	"survey-service/internal/store"
	"survey-service/internal/survey/importer"
	serverhttp "survey-service/server/http"
)

func main() {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	cfg := config.Load()
	logger := config.SetupLogger(cfg)
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("store")
	}
	defer st.Close()

	im := importer.New(st, logger,
		importer.WithConcurrency(cfg.ImportConcurrency),
		importer.WithDefaultCollection(cfg.DefaultCollection),
	)
	r := serverhttp.NewRouter(cfg, st, im, logger)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.Info().Str("addr", cfg.Addr()).Str("store", cfg.Store).Msg("server starting")

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("listen")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	logger.Info().Msg("bye")
}

func openStore(ctx context.Context, cfg config.Config, logger zerolog.Logger) (store.Store, error) {
	if cfg.Store == config.StorePostgres {
		connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		defer cancel()
		return store.NewPostgres(connectCtx, cfg.DatabaseURL)
	}
	logger.Warn().Msg("using in-memory store; data is lost on restart")
	return store.NewMemory(), nil
}
