// Package main is the entry point for the Scriptlab API server.
package main

import (
	"context"
	"net/http"

	"github.com/roguepikachu/scriptlab/internal/config"
	"github.com/roguepikachu/scriptlab/internal/data"
	"github.com/roguepikachu/scriptlab/internal/domain"
	"github.com/roguepikachu/scriptlab/internal/http/handler"
	"github.com/roguepikachu/scriptlab/internal/http/router"
	"github.com/roguepikachu/scriptlab/internal/playlist"
	"github.com/roguepikachu/scriptlab/internal/prompt"
	"github.com/roguepikachu/scriptlab/internal/service"
	"github.com/roguepikachu/scriptlab/pkg/logger"
)

func main() {
	ctx := context.Background()
	logger.InitLogging()
	config.InitConf()
	cfg := config.Conf

	backend, err := data.OpenBackend(ctx, cfg)
	if err != nil {
		logger.Fatal(ctx, "failed to open snippet storage: %v", err)
	}
	defer backend.Close()

	fetcher := playlist.NewHTTPFetcher(cfg.PlaylistBaseURL,
		playlist.WithHTTPClient(&http.Client{Timeout: cfg.PlaylistTimeout()}))
	mgr, err := service.Initialize(ctx, backend.Opener, domain.LookupHost(cfg.Host),
		service.WithPrompt(prompt.Context{}),
		service.WithPlaylistFetcher(fetcher),
	)
	if err != nil {
		logger.Fatal(ctx, "failed to initialize snippet manager: %v", err)
	}

	r := router.NewRouter(handler.NewHandler(mgr), handler.NewHealthHandler(backend.Postgres, backend.Redis))

	port := cfg.Port
	if port == "" {
		logger.Info(ctx, "no port configured, falling back to default: 8080")
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		logger.Fatal(ctx, "failed to start server: %v", err)
	}
}
