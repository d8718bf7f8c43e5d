/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"log"

	"github.com/SvenDH/go-card-prototype/config"
	"github.com/SvenDH/go-card-prototype/server"
)

// startTelemetry opens the telemetry database and serves the HTTP and
// websocket routes until ctx is done. ctrl may be nil when no game runs in
// this process. The returned recorder is already running.
func startTelemetry(ctx context.Context, cfg config.ServerConfig, ctrl server.Controller) (*server.Recorder, func(), error) {
	repo, err := server.OpenDB(cfg.DB)
	if err != nil {
		return nil, nil, err
	}
	broker := server.NewMemoryBroker()
	ws := server.NewWebsocketServer(broker, ctrl)
	router := server.NewRouter(cfg.Addr, repo, server.NewAuth(cfg.Secret), ws, cfg.Static)

	rec := server.NewRecorder(repo, broker)
	go rec.Run(ctx)
	go func() {
		if err := router.Run(ctx); err != nil {
			log.Printf("telemetry: %v", err)
		}
	}()
	closer := func() {
		broker.Close()
		repo.Close()
	}
	return rec, closer, nil
}
