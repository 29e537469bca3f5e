package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pulumi-compose/pulumi-compose/internal/config"
	"github.com/pulumi-compose/pulumi-compose/internal/docker"
	"github.com/pulumi-compose/pulumi-compose/internal/ui"
)

var downConfig string

// stopStack is replaced in tests.
var stopStack = func(ctx context.Context, client *docker.ComposeClient) error {
	return client.Down(ctx)
}

// downCmd stops a stack started from a generated compose file.
var downCmd = &cobra.Command{
	Use:   "down [compose-file]",
	Short: "Stop a stack started with convert --up",
	Long: `Run docker compose down on a generated compose file.

Without an argument the configured output file is used (default
docker-compose.yml).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDown,
}

func init() {
	downCmd.Flags().StringVar(&downConfig, "config", "", "Config file (default: search for "+config.FileName+")")

	rootCmd.AddCommand(downCmd)
}

func runDown(cmd *cobra.Command, args []string) error {
	file := ""
	if len(args) > 0 {
		file = args[0]
	} else {
		cfg, err := config.Load(downConfig)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		file = cfg.Output
	}

	client, err := docker.NewComposeClient(file)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(commandContext(cmd.Context()), composeTimeout)
	defer cancel()

	if err := stopStack(ctx, client); err != nil {
		return err
	}
	ui.Success("Stopped stack from %s", client.File())
	return nil
}
