package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/catalog/config"
	"github.com/shashiranjanraj/catalog/pkg/database"
	"github.com/shashiranjanraj/catalog/pkg/grpc"
	"github.com/shashiranjanraj/catalog/pkg/logger"
)

// catalog serve
var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"run", "start"},
	Short:   "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(); err != nil {
			return fmt.Errorf("config: %w", err)
		}

		closeLogs, err := logger.Init(logger.OptionsFromConfig())
		if err != nil {
			return err
		}
		defer closeLogs()

		db, err := database.Open(database.ConfigFromEnv())
		if err != nil {
			return err
		}
		defer database.Close(db) //nolint:errcheck

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if port := config.GRPCPort(); port != "" {
			g := grpc.New(dbProbe(db))
			if _, err := g.Listen(port); err != nil {
				return err
			}
			defer g.Stop()
		}

		logger.Info("catalog starting", "env", config.AppEnv(), "port", config.AppPort(), "driver", config.DatabaseDriver())
		return newApplication(db).Serve(ctx, ":"+config.AppPort())
	},
}

// catalog route:list
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List all registered routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(); err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "METHOD\tPATH\tNAME")
		fmt.Fprintln(w, "------\t----\t----")
		for _, ri := range newApplication(nil).RouteList() {
			fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
		}
		return w.Flush()
	},
}
