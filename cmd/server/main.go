package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/JaimeStill/tally/internal/api"
	"github.com/JaimeStill/tally/internal/config"
	"github.com/JaimeStill/tally/pkg/openapi"
)

func main() {
	specPath := flag.String("openapi", "", "Write the OpenAPI document to this path and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config load failed:", err)
	}

	if *specPath != "" {
		if err := openapi.WriteJSON(api.NewSpec(cfg), *specPath); err != nil {
			log.Fatal("write openapi failed:", err)
		}
		fmt.Println("wrote", *specPath)
		return
	}

	srv, err := NewServer(cfg)
	if err != nil {
		log.Fatal("server init failed:", err)
	}

	logger := srv.infra.Logger
	logger.Info(
		"tally starting",
		"version", cfg.Version,
		"addr", cfg.Server.Addr(),
		"env", cfg.Env(),
	)

	if err := srv.Start(); err != nil {
		log.Fatal("server start failed:", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	if err := srv.Shutdown(cfg.ShutdownTimeoutDuration()); err != nil {
		logger.Error("shutdown failed", "error", err)
		os.Exit(1)
	}

	logger.Info("tally stopped")
}
