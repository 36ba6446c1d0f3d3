package main

import (
	"context"
	"log"
	"os"
	"time"

	"catalog-migrate/pkg/bigcommerce"
	"catalog-migrate/pkg/config"
	"catalog-migrate/pkg/logging"
	"catalog-migrate/pkg/migration"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	client := bigcommerce.NewClient(cfg.APIOrigin, cfg.StoreHash, cfg.AccessToken)
	svc := migration.NewService(client, logging.New(os.Stdout), cfg)

	if err := svc.Run(ctx); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
}
