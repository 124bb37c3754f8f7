package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"trainyard/internal/clients"
	"trainyard/internal/inventory"
)

func main() {
	if err := newRootCommand(os.Stdout).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand(out io.Writer) *cobra.Command {
	var apiBaseURL string

	cmd := &cobra.Command{
		Use:           "railctl",
		Short:         "Command line access to a trainyard collection",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	defaultAPI := os.Getenv("TRAINYARD_API")
	if defaultAPI == "" {
		defaultAPI = "http://localhost:8080"
	}
	cmd.PersistentFlags().StringVar(&apiBaseURL, "api", defaultAPI, "Base URL of the trainyard server")

	client := func() *clients.InventoryClient { return clients.NewInventoryClient(apiBaseURL, nil) }

	cmd.AddCommand(newSummaryCommand(out, client))
	cmd.AddCommand(newLocomotivesCommand(out, client))
	cmd.AddCommand(newRollingStockCommand(out, client))
	cmd.AddCommand(newStatusCommand(client))
	return cmd
}

type clientFunc func() *clients.InventoryClient

func newSummaryCommand(out io.Writer, client clientFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print the collection summary report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := client().Summary(contextOf(cmd))
			if err != nil {
				return err
			}
			return printJSON(out, s)
		},
	}
}

func newLocomotivesCommand(out io.Writer, client clientFunc) *cobra.Command {
	return &cobra.Command{
		Use:     "locomotives",
		Aliases: []string{"locos"},
		Short:   "List locomotives, or show one by id",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := contextOf(cmd)
			if len(args) == 0 {
				all, err := client().ListLocomotives(ctx)
				if err != nil {
					return err
				}
				return printJSON(out, all)
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			d, err := client().GetLocomotive(ctx, id)
			if err != nil {
				return err
			}
			return printJSON(out, d)
		},
	}
}

func newRollingStockCommand(out io.Writer, client clientFunc) *cobra.Command {
	return &cobra.Command{
		Use:     "rolling-stock",
		Aliases: []string{"cars"},
		Short:   "List rolling stock, or show one car by id",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := contextOf(cmd)
			if len(args) == 0 {
				all, err := client().ListRollingStock(ctx)
				if err != nil {
					return err
				}
				return printJSON(out, all)
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			d, err := client().GetRollingStock(ctx, id)
			if err != nil {
				return err
			}
			return printJSON(out, d)
		},
	}
}

func newStatusCommand(client clientFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "status <item-id> <status>",
		Short: "Set the maintenance status of an item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			status, err := inventory.ParseStatus(args[1])
			if err != nil {
				return err
			}
			return client().SetItemStatus(contextOf(cmd), id, status)
		},
	}
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
