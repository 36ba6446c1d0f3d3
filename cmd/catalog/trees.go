package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"catalog-migrate/pkg/bigcommerce"
	"catalog-migrate/pkg/config"

	"github.com/spf13/cobra"
)

var treesCmd = &cobra.Command{
	Use:   "trees",
	Short: "List the store's category trees",
	Long:  "List every category tree in the store with its channels, useful for verifying a migration run.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			log.Fatalf("Configuration error: %v", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		client := bigcommerce.NewClient(cfg.APIOrigin, cfg.StoreHash, cfg.AccessToken)
		runTrees(ctx, client)
	},
}

func init() {
	rootCmd.AddCommand(treesCmd)
}

func runTrees(ctx context.Context, client *bigcommerce.Client) {
	fmt.Println("Fetching category trees...")
	trees, err := client.ListCategoryTrees(ctx)
	if err != nil {
		log.Fatalf("Error listing trees: %v", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tName\tChannels")
	fmt.Fprintln(w, "--\t----\t--------")
	for _, t := range trees {
		channels := make([]string, len(t.Channels))
		for i, c := range t.Channels {
			channels[i] = strconv.Itoa(c)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\n", t.ID, t.Name, strings.Join(channels, ", "))
	}
	w.Flush()
}
