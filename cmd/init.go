package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/rubiojr/quarry/pkg/config"
	"github.com/urfave/cli/v3"
)

// InitCommand creates the init command
func InitCommand() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Initialize configuration",
		Action: func(ctx context.Context, c *cli.Command) error {
			return initConfig(c.String("config"))
		},
	}
}

// initConfig writes the commented template config and creates the datasets
// directory so the other commands have somewhere to work.
func initConfig(configPath string) error {
	cfg, err := config.GetDefaultConfig()
	if err != nil {
		return fmt.Errorf("building default config: %w", err)
	}
	if err := cfg.SaveTemplateConfig(configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	if err := os.MkdirAll(cfg.DatasetsDir, 0755); err != nil {
		return fmt.Errorf("creating datasets directory: %w", err)
	}
	fmt.Printf("Configuration initialized at %s\n", configPath)
	fmt.Printf("Datasets directory: %s\n", cfg.DatasetsDir)
	return nil
}
