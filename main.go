package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"procrastination-tracker/internal/app"
	"procrastination-tracker/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Config error: %v", err)
	}

	application, err := app.New(cfg)
	if err != nil {
		log.Fatalf("❌ Init error: %v", err)
	}

	if err := application.Start(); err != nil {
		log.Fatalf("❌ Start error: %v", err)
	}
	defer application.Stop()

	waitForShutdown()
	log.Println("👋 Shutting down")
}

func waitForShutdown() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
}
