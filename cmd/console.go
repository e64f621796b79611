package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rubiojr/quarry/pkg/sample"
	"github.com/rubiojr/quarry/pkg/search"
	"github.com/rubiojr/quarry/pkg/storage"
	"github.com/urfave/cli/v3"
)

// consoleTopResults caps how many ranked results the console prints per
// query. The underlying search itself stays unlimited.
const consoleTopResults = 5

// ConsoleCommand creates the console command
func ConsoleCommand() *cli.Command {
	return &cli.Command{
		Name:  "console",
		Usage: "Interactive search console",
		Action: func(ctx context.Context, c *cli.Command) error {
			return runConsole(c.String("config"))
		},
	}
}

func runConsole(configPath string) error {
	_, store, engine, cleanup, err := openEngine(configPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := cleanup(); err != nil {
			fmt.Printf("Warning: failed to close storage: %v\n", err)
		}
	}()

	fmt.Println(titleStyle.Render("Quarry dataset search"))
	fmt.Printf("Datasets loaded: %d\n", store.Count())

	if store.Count() == 0 {
		if err := offerSampleData(store); err != nil {
			return err
		}
	}

	stats := engine.Stats()
	fmt.Printf("SQL datasets: %d, JSON datasets: %d, capacity used: %s\n",
		stats.SQLDatasets, stats.JSONDatasets, stats.CapacityUtilization)

	fmt.Println("\nEnter search queries (or 'quit' to exit):")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("\nSearch query: ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}

		query := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(query) {
		case "quit", "exit", "q":
			return nil
		case "":
			continue
		}

		result, err := engine.Search(query, search.Options{})
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}

		fmt.Printf("Found %d results across %d datasets\n", result.TotalResults, result.DatasetsSearched)
		if len(result.Results) == 0 {
			continue
		}
		fmt.Println("Top results:")
		for i, match := range result.Results {
			if i == consoleTopResults {
				break
			}
			fmt.Printf("  %d. %s (%s)\n", i+1, match.Dataset, match.Type)
		}
	}
}

// offerSampleData asks before populating an empty store with samples.
func offerSampleData(store *storage.Store) error {
	fmt.Print("No datasets found. Create sample datasets? [Y/n] ")

	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return scanner.Err()
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	if answer != "" && answer != "y" && answer != "yes" {
		return nil
	}

	created, err := sample.Generate(store, sample.DefaultCount)
	if err != nil {
		return fmt.Errorf("generating samples: %w", err)
	}
	fmt.Printf("Created %d sample datasets\n", created)
	return nil
}
