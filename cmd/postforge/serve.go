package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/postforge/postforge/internal/config"
	"github.com/postforge/postforge/internal/scraper"
	"github.com/postforge/postforge/internal/server"
	"github.com/postforge/postforge/internal/state"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the post-generation HTTP service",
	Long: `Start the HTTP service exposing the generation pipeline.

Endpoints:
  POST /generate-post        Generate a post for an optional topic
  POST /fetch-linkedin-data  Scrape and analyze a user's recent posts
  GET  /healthz              Liveness check

The scraper endpoint is enabled only when an Apify token is configured.
Completed runs are recorded in the local run history database.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	orch, store, _, err := buildOrchestrator(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	handlersCfg := server.HandlersConfig{Runner: orch}

	if token, err := config.GetScraperToken(cfg); err == nil {
		fetcher, err := scraper.NewClient(scraper.ClientConfig{
			APIToken:          token,
			ActorID:           cfg.Scraper.ActorID,
			RequestsPerMinute: cfg.Scraper.RequestsPerMinute,
		})
		if err != nil {
			return err
		}
		handlersCfg.Fetcher = fetcher
	} else {
		log.Printf("[serve] scraper disabled: %v", err)
	}

	if runDB, err := state.OpenDefault(); err != nil {
		log.Printf("[serve] run history disabled: %v", err)
	} else {
		defer runDB.Close()
		handlersCfg.Recorder = runDB
	}

	srvCfg := server.DefaultConfig()
	srvCfg.Addr = cfg.Server.Addr
	srv := server.New(srvCfg, server.NewHandlers(handlersCfg))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		log.Printf("[serve] received %s, draining", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}
