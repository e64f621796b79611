package main

import (
	"context"
	stdlog "log"
	"os"

	"github.com/rubiojr/quarry/cmd"
	"github.com/rubiojr/quarry/pkg/config"
	"github.com/rubiojr/quarry/pkg/log"
	"github.com/urfave/cli/v3"
)

func main() {
	app := &cli.Command{
		Name:  "quarry",
		Usage: "Search SQL and JSON datasets from a single place",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
				Value: false,
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "Configuration file path",
				Value: getDefaultConfigPathOrExit(),
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			if c.Bool("debug") {
				log.SetGlobalDebug(true)
			}
			return ctx, nil
		},
		Commands: []*cli.Command{
			cmd.InitCommand(),
			cmd.SampleCommand(),
			cmd.AddCommand(),
			cmd.SearchCommand(),
			cmd.ListCommand(),
			cmd.InfoCommand(),
			cmd.StatsCommand(),
			cmd.ConsoleCommand(),
			cmd.ServeCommand(),
			cmd.VersionCommand(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		stdlog.Fatal(err)
	}
}

func getDefaultConfigPathOrExit() string {
	path, err := config.GetDefaultConfigPath()
	if err != nil {
		stdlog.Fatalf("Failed to get default config path: %v", err)
	}
	return path
}
