// Package cmd provides the CLI commands for pulumi-compose.
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pulumi-compose/pulumi-compose/internal/ui"
)

const version = "0.1.0"

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "pulumi-compose",
	Short: "Convert Pulumi container apps to docker compose",
	Long: `pulumi-compose - run Azure Container Apps locally

Converts a Pulumi program declaring azure-native:app:ContainerApp resources
into a docker-compose file. Apps with Dapr configuration get a daprd sidecar
sharing their network namespace, and a Dapr placement service is added.

CONVERT
  convert <program>       Write docker-compose.yml from a Pulumi program
    --output, -o <file>   Output file ("-" for stdout)
    --syntax <name>       Override the syntax derived from the extension
    --skip-invalid        Skip malformed container apps instead of failing
    --validate            Run docker compose config on the output
    --up                  Run docker compose up -d on the output
    --backup              Keep the previous output as <output>.bak

STACK
  down [compose-file]     Stop a stack started with convert --up

INFO
  formats                 List program syntaxes and their status
  doctor [compose-file]   Check docker, compose, and locally pulled images`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		ui.Error("%v", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.SetVersionTemplate("pulumi-compose version {{.Version}}\n")
}
