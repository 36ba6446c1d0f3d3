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

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate catalog data to the target channel",
	Long:  "Create a category tree on the target channel and migrate categories, product-category assignments and product-channel assignments onto it.",
	Run:   runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) {
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
