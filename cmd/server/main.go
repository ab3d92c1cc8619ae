package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dsbench/pkg/api"
	"dsbench/pkg/config"
	"dsbench/pkg/engine"
)

// main 是 dsbench 服务器的入口
func main() {
	configPath := flag.String("config", "", "Path to config file")
	addr := flag.String("addr", "", "HTTP listen address (overrides config)")
	intStr := flag.String("int-str", "", "Comma-separated integers to load (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *intStr != "" {
		cfg.SetValues(*intStr)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	e, err := engine.Load(cfg)
	if err != nil {
		log.Fatalf("Failed to load dataset: %v", err)
	}

	s := api.NewServer(e)
	errCh := make(chan error, 1)
	go func() { errCh <- s.Start(cfg.Server.Addr) }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		log.Println("Shutting down...")
	case err := <-errCh:
		if err != nil {
			log.Printf("[API] Server error: %v", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		log.Printf("[API] Shutdown: %v", err)
	}
	if err := e.Close(); err != nil {
		log.Fatalf("Teardown failed: %v", err)
	}
	log.Println("Bye")
}
