package cmd

import (
	"context"
	"fmt"

	"github.com/rubiojr/quarry/pkg/core"
	"github.com/urfave/cli/v3"
)

// ListCommand creates the list command
func ListCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List loaded datasets",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "type",
				Usage: "Only list datasets of this type (sql or json)",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return listDatasets(c.String("config"), c.String("type"))
		},
	}
}

func listDatasets(configPath, typeFilter string) error {
	_, store, cleanup, err := openStore(configPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := cleanup(); err != nil {
			fmt.Printf("Warning: failed to close storage: %v\n", err)
		}
	}()

	var filter core.Kind
	if typeFilter != "" {
		filter, err = core.ParseKind(typeFilter)
		if err != nil {
			return err
		}
	}

	info := store.Info()
	shown := 0
	for _, ds := range info.Datasets {
		if filter != "" && ds.Type != filter {
			continue
		}
		fmt.Printf("%-40s %-5s %6d bytes\n", ds.Name, ds.Type, ds.Size)
		shown++
	}

	if shown == 0 {
		fmt.Println("No datasets found")
		return nil
	}
	fmt.Printf("\n%d datasets (target capacity %d)\n", shown, info.TargetCapacity)
	return nil
}
