// Command catalog runs the product catalog API and its maintenance tasks.
//
//	catalog serve              # HTTP API (+ gRPC health when GRPC_PORT is set)
//	catalog migrate            # run pending migrations
//	catalog migrate:rollback
//	catalog migrate:status
//	catalog seed               # demo brands, categories and products
//	catalog route:list
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import migrations and seeders so their init() funcs register them.
	_ "github.com/shashiranjanraj/catalog/database/migrations"
	_ "github.com/shashiranjanraj/catalog/database/seeders"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "catalog",
	Short:         "Product catalog service",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(migrateRollbackCmd)
	rootCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(seedCmd)
}
