package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rubiojr/quarry/pkg/core"
	"github.com/urfave/cli/v3"
)

// AddCommand creates the add command
func AddCommand() *cli.Command {
	return &cli.Command{
		Name:  "add",
		Usage: "Add a dataset from a file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "name",
				Usage:    "Dataset name",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "file",
				Usage:    "File holding the dataset content",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "kind",
				Usage: "Dataset kind (sql or json), inferred from the file extension when omitted",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return addDataset(c.String("config"), c.String("name"), c.String("file"), c.String("kind"))
		},
	}
}

func addDataset(configPath, name, file, kindFlag string) error {
	cfg, store, cleanup, err := openStore(configPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := cleanup(); err != nil {
			fmt.Printf("Warning: failed to close storage: %v\n", err)
		}
	}()

	if err := cfg.ValidateDatasetName(name); err != nil {
		return fmt.Errorf("invalid dataset name: %w", err)
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("reading %s: %w", file, err)
	}

	kind, err := resolveKind(kindFlag, file)
	if err != nil {
		return err
	}

	var content core.Content
	switch kind {
	case core.KindSQL:
		content = core.SQLContent{Text: string(data)}
	case core.KindJSON:
		content, err = core.ParseJSONContent(data)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", file, err)
		}
	}

	if err := store.Add(name, content); err != nil {
		return fmt.Errorf("adding dataset: %w", err)
	}

	fmt.Printf("Added %s dataset '%s' (%d datasets total)\n", kind, name, store.Count())
	return nil
}

// resolveKind picks the dataset kind from the flag, falling back to the
// file extension.
func resolveKind(kindFlag, file string) (core.Kind, error) {
	if kindFlag != "" {
		return core.ParseKind(kindFlag)
	}
	switch {
	case strings.HasSuffix(file, ".sql"):
		return core.KindSQL, nil
	case strings.HasSuffix(file, ".json"):
		return core.KindJSON, nil
	}
	return "", fmt.Errorf("cannot infer dataset kind from %q, pass --kind", file)
}
