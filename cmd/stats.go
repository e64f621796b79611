package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// StatsCommand creates the stats command
func StatsCommand() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Show corpus and search engine statistics",
		Action: func(ctx context.Context, c *cli.Command) error {
			return showStats(c.String("config"))
		},
	}
}

func showStats(configPath string) error {
	_, _, engine, cleanup, err := openEngine(configPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := cleanup(); err != nil {
			fmt.Printf("Warning: failed to close storage: %v\n", err)
		}
	}()

	stats := engine.Stats()

	fmt.Println("Dataset statistics:")
	fmt.Printf("  Total datasets:   %d\n", stats.TotalDatasets)
	fmt.Printf("  SQL datasets:     %d\n", stats.SQLDatasets)
	fmt.Printf("  JSON datasets:    %d\n", stats.JSONDatasets)
	fmt.Printf("  Target capacity:  %d\n", stats.TargetCapacity)
	fmt.Printf("  Capacity used:    %s\n", stats.CapacityUtilization)
	fmt.Println("Search engine:")
	fmt.Printf("  Unlimited search: %t\n", stats.SearchUnlimited)
	fmt.Printf("  Regex support:    %t\n", stats.SupportsRegex)
	fmt.Printf("  Case sensitivity: %t\n", stats.SupportsCaseSensitive)
	return nil
}
