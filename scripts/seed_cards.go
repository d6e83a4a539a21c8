package main

import (
	"context"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/pocketduel/duel-server-go/internal/cards"
	"github.com/pocketduel/duel-server-go/internal/config"
	"github.com/pocketduel/duel-server-go/internal/repository"
)

// Seeds the sets and cards tables with the built-in starter set.
// Usage: DATABASE_URL=postgres://... go run scripts/seed_cards.go
func main() {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	db, err := repository.NewDB(ctx, config.DatabaseConfig{
		URL:            url,
		MaxConns:       2,
		MinConns:       1,
		ConnectTimeout: 5 * time.Second,
	}, logger)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer db.Close()

	repo := repository.NewCardRepository(db)

	for _, set := range cards.StarterSets() {
		if err := repo.UpsertSet(ctx, set); err != nil {
			log.Fatalf("upsert set %s: %v", set.ID, err)
		}
	}

	defs := cards.StarterSet()
	for _, def := range defs {
		if err := repo.UpsertCard(ctx, def); err != nil {
			log.Fatalf("upsert card %s: %v", def.ID, err)
		}
	}

	log.Printf("seeded %d cards across %d sets", len(defs), len(cards.StarterSets()))
}
