// main.go
//
// Entry point for the Word Hunt server.
// Loads .env and configuration, the word pools and the attempt log, then
// serves HTTP until SIGINT/SIGTERM. Idle sessions are swept in the
// background and their logged attempts purged with them.

package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordhunt/internal/config"
	"github.com/robalobadob/wordhunt/internal/definition"
	"github.com/robalobadob/wordhunt/internal/httpserver"
	"github.com/robalobadob/wordhunt/internal/results"
	"github.com/robalobadob/wordhunt/internal/store"
	"github.com/robalobadob/wordhunt/internal/words"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	if lvl, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if cfg.Logging.Format == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}

	if err := words.Init(cfg.Game.PrimaryFile, cfg.Game.SecondaryFile); err != nil {
		log.Fatal().Err(err).Msg("failed to load word lists")
	}
	primary, secondary := words.Stats()
	log.Info().Int("primary", primary).Int("secondary", secondary).Msg("word pools loaded")

	if cfg.Store.DBPath != results.MemoryDSN {
		if err := os.MkdirAll(filepath.Dir(cfg.Store.DBPath), 0o755); err != nil {
			log.Fatal().Err(err).Msg("create data dir")
		}
	}
	res, err := results.Open(cfg.Store.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Store.DBPath).Msg("open attempt log")
	}
	defer res.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	definer, err := definition.New(ctx, definition.Config{
		ProjectID: cfg.Definition.ProjectID,
		Region:    cfg.Definition.Region,
		APIKey:    cfg.Definition.APIKey,
		Model:     cfg.Definition.Model,
	})
	if err != nil {
		log.Warn().Err(err).Msg("definition backend unavailable")
		definer = definition.Unavailable{}
	}

	sessions := store.NewMemoryStore(res.Purge)
	go store.RunSweeper(ctx, sessions, cfg.Game.SessionTTL, time.Minute)

	srv := httpserver.New(httpserver.Deps{
		Config:   cfg,
		Store:    sessions,
		Words:    words.Pools{Primary: words.Primary(), Secondary: words.Secondary()},
		Recorder: res,
		History:  res,
		Definer:  definer,
	})

	log.Info().Str("addr", cfg.Addr()).Str("env", cfg.Server.Env).Msg("starting wordhunt server")
	if err := srv.Start(ctx, cfg.Addr()); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("server stopped")
}
