package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// InfoCommand creates the info command
func InfoCommand() *cli.Command {
	return &cli.Command{
		Name:      "info",
		Usage:     "Show store information, or one dataset's content",
		ArgsUsage: "[name]",
		Action: func(ctx context.Context, c *cli.Command) error {
			if name := c.Args().First(); name != "" {
				return showDataset(c.String("config"), name)
			}
			return showStoreInfo(c.String("config"))
		},
	}
}

func showStoreInfo(configPath string) error {
	_, store, cleanup, err := openStore(configPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := cleanup(); err != nil {
			fmt.Printf("Warning: failed to close storage: %v\n", err)
		}
	}()

	info := store.Info()
	fmt.Printf("Total datasets:  %d\n", info.TotalDatasets)
	fmt.Printf("Target capacity: %d\n", info.TargetCapacity)
	if info.TargetCapacity > 0 {
		fmt.Printf("Capacity used:   %.1f%%\n", float64(info.TotalDatasets)/float64(info.TargetCapacity)*100)
	}
	if info.TotalDatasets > 0 {
		fmt.Println()
		for _, ds := range info.Datasets {
			fmt.Printf("  %-40s %-5s %6d bytes\n", ds.Name, ds.Type, ds.Size)
		}
	}
	return nil
}

func showDataset(configPath, name string) error {
	_, store, cleanup, err := openStore(configPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := cleanup(); err != nil {
			fmt.Printf("Warning: failed to close storage: %v\n", err)
		}
	}()

	content, ok := store.Get(name)
	if !ok {
		return fmt.Errorf("dataset %q does not exist", name)
	}

	text := content.String()
	fmt.Printf("Name: %s\n", name)
	fmt.Printf("Type: %s\n", content.Kind())
	fmt.Printf("Size: %d bytes\n\n", len(text))
	fmt.Println(text)
	return nil
}
