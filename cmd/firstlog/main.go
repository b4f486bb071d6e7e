// Command firstlog is a small demo client. It signs in against the
// configured backend, pulls the trend and experience feeds through the
// shared session coordinator, and prints what a fresh app launch would see.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"firstlog/internal/api"
	"firstlog/internal/config"
	"firstlog/internal/observability"
	"firstlog/internal/session"
	"firstlog/internal/storage"
	"firstlog/internal/tokens"
	"firstlog/internal/transport"
)

func openStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.StorageDriver {
	case "redis":
		return storage.NewRedisStore(cfg.RedisURL)
	case "sqlite":
		return storage.NewSQLiteStore(cfg.SQLitePath)
	default:
		return storage.NewMemoryStore(), nil
	}
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	observability.SetLevel(cfg.LogLevel)

	shutdownTracing, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:    "firstlog-client",
		ServiceVersion: "1.0.0",
		Environment:    cfg.Env,
		Enabled:        cfg.TracingEnabled,
		Exporter:       cfg.TraceExporter,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		SamplerRatio:   cfg.TraceSamplerRatio,
	})
	if err != nil {
		log.Fatalf("Failed to initialize tracing: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(ctx)
	}()

	ctx := context.Background()

	store, err := openStore(cfg)
	if err != nil {
		log.Fatalf("Failed to open token store (%s): %v", cfg.StorageDriver, err)
	}

	tm := tokens.NewManager(ctx, store)
	client, err := transport.New(cfg.APIBaseURL, cfg.HTTPTimeout(), tm)
	if err != nil {
		log.Fatalf("Failed to create API client: %v", err)
	}

	coord := session.New(
		api.NewAuth(client, tm),
		api.NewTrends(client),
		api.NewPosts(client),
	)
	client.SetUnauthorizedHook(coord.HandleUnauthorized)

	// resume a persisted session if one survives in the store
	coord.Initialize(ctx)

	if coord.User() == nil {
		if err := coord.Login(ctx, "demo@firstlog.app", "password123!"); err != nil {
			log.Fatalf("Login failed: %v", err)
		}
	}
	fmt.Printf("Signed in as %s\n", coord.User().Name)

	if err := coord.RefreshTrends(ctx); err != nil {
		log.Printf("Trend refresh failed: %v", err)
	}
	if err := coord.RefreshExperiences(ctx, api.ListQuery{Size: 5}); err != nil {
		log.Printf("Experience refresh failed: %v", err)
	}

	fmt.Printf("\nTrends (%d):\n", len(coord.Trends()))
	for _, t := range coord.Trends() {
		fmt.Printf("  #%d %s [%s]\n", t.ID, t.DisplayName(), t.Category)
	}

	fmt.Printf("\nRecent experiences (%d):\n", len(coord.Experiences()))
	for _, e := range coord.Experiences() {
		fmt.Printf("  #%d %s (%s, %s)\n", e.ID, e.Title, e.Emotion, e.Date)
	}
}
