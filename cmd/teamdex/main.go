package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/time/rate"

	"github.com/teamdex/teamdex/pkg/config"
	"github.com/teamdex/teamdex/pkg/pokeapi"
	"github.com/teamdex/teamdex/pkg/server"
	"github.com/teamdex/teamdex/pkg/storage"
	"github.com/teamdex/teamdex/pkg/team"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Read()
	if err != nil {
		log.Fatal(err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	var provider team.Provider
	var catalog server.Catalog
	if cfg.DB.Path != "" {
		local, err := storage.Open(ctx, cfg.DB.Path)
		if err != nil {
			log.Fatal(err)
		}
		defer local.Close()
		provider, catalog = local, local
		logger.Info("serving from local catalog", "path", cfg.DB.Path)
	} else {
		options := pokeapi.DefaultOptions()
		options.BaseURL = cfg.PokeAPI.BaseURL
		if cfg.PokeAPI.RequestsPerSecond > 0 {
			options.RateLimit = rate.Limit(cfg.PokeAPI.RequestsPerSecond)
		}
		client := pokeapi.NewClient(options)
		provider, catalog = client, client
		logger.Info("serving from PokeAPI", "base_url", options.BaseURL)
	}

	svc := team.NewService(provider, logger)
	srv := server.New(svc, catalog, logger)

	err = srv.Run(ctx, cfg.Server.Addr)
	if err != nil {
		log.Fatal(err)
	}
}
