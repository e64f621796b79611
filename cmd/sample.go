package cmd

import (
	"context"
	"fmt"

	"github.com/rubiojr/quarry/pkg/sample"
	"github.com/urfave/cli/v3"
)

// SampleCommand creates the sample command
func SampleCommand() *cli.Command {
	return &cli.Command{
		Name:  "sample",
		Usage: "Generate sample datasets",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "count",
				Usage: "Number of datasets to generate",
				Value: sample.DefaultCount,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return generateSamples(c.String("config"), c.Int("count"))
		},
	}
}

func generateSamples(configPath string, count int) error {
	_, store, cleanup, err := openStore(configPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := cleanup(); err != nil {
			fmt.Printf("Warning: failed to close storage: %v\n", err)
		}
	}()

	created, err := sample.Generate(store, count)
	if err != nil {
		return fmt.Errorf("generating samples: %w", err)
	}

	fmt.Printf("Created %d sample datasets (%d total)\n", created, store.Count())
	return nil
}
