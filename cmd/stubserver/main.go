// Command stubserver runs the in-memory backend stub for local development.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"firstlog/internal/config"
	"firstlog/internal/observability"
	"firstlog/internal/stubserver"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	observability.SetLevel(cfg.LogLevel)

	_, app := stubserver.New(cfg)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down stub server...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(ctx); err != nil {
			log.Printf("Stub server shutdown error: %v", err)
		}
	}()

	log.Printf("Stub server starting on port %s (demo login %s / %s)...",
		cfg.StubPort, stubserver.DemoEmail, stubserver.DemoPassword)
	log.Fatal(app.Listen(":" + cfg.StubPort))
}
