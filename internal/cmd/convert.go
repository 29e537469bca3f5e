package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pulumi-compose/pulumi-compose/internal/compose"
	"github.com/pulumi-compose/pulumi-compose/internal/config"
	"github.com/pulumi-compose/pulumi-compose/internal/convert"
	"github.com/pulumi-compose/pulumi-compose/internal/docker"
	"github.com/pulumi-compose/pulumi-compose/internal/fileutil"
	"github.com/pulumi-compose/pulumi-compose/internal/pulumi"
	"github.com/pulumi-compose/pulumi-compose/internal/ui"
)

const stdio = "-"

var (
	convertOutput      string
	convertSyntax      string
	convertSkipInvalid bool
	convertConfig      string
	convertValidate    bool
	convertUp          bool
	convertBackup      bool
)

// errNoInput is returned when stdin is requested but nothing is piped.
var errNoInput = errors.New("stdin is a terminal; pipe a program or pass a file")

// convertCmd converts a Pulumi program into a compose file.
var convertCmd = &cobra.Command{
	Use:   "convert <program>",
	Short: "Convert a Pulumi program to docker-compose.yml",
	Long: `Convert a Pulumi program declaring Azure Container Apps to a compose file.

Every container becomes a service. Apps with properties.configuration.dapr get
a <name>_dapr sidecar sharing the app's network namespace, and a Dapr
placement service is always added.

Examples:
  pulumi-compose convert Pulumi.yaml                 # Write docker-compose.yml
  pulumi-compose convert Pulumi.yaml -o -            # Print to stdout
  cat Pulumi.yaml | pulumi-compose convert -         # Read from stdin
  pulumi-compose convert --skip-invalid Pulumi.yaml  # Skip malformed apps
  pulumi-compose convert --up Pulumi.yaml            # Convert and start`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", config.DefaultOutput, "Output file (\"-\" for stdout)")
	convertCmd.Flags().StringVar(&convertSyntax, "syntax", "", "Program syntax (yaml, typescript, json, bicep)")
	convertCmd.Flags().BoolVar(&convertSkipInvalid, "skip-invalid", false, "Skip malformed container apps instead of failing")
	convertCmd.Flags().StringVar(&convertConfig, "config", "", "Config file (default: search for "+config.FileName+")")
	convertCmd.Flags().BoolVar(&convertValidate, "validate", false, "Run docker compose config on the output")
	convertCmd.Flags().BoolVar(&convertUp, "up", false, "Run docker compose up -d on the output")
	convertCmd.Flags().BoolVar(&convertBackup, "backup", false, "Keep the previous output as <output>.bak")

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	input := args[0]

	cfg, err := config.Load(convertConfig)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	syntax, err := resolveSyntax(input, convertSyntax)
	if err != nil {
		return err
	}

	raw, err := readInput(cmd.InOrStdin(), input)
	if err != nil {
		return err
	}

	opts := cfg.Options()
	if convertSkipInvalid {
		opts.Mode = pulumi.ModeSkip
	}

	result, err := convert.Convert(raw, syntax, opts)
	if err != nil {
		return fmt.Errorf("convert %s: %w", input, err)
	}

	output := cfg.Output
	if cmd.Flags().Changed("output") {
		output = convertOutput
	}

	if output == stdio {
		if convertValidate || convertUp {
			return fmt.Errorf("--validate and --up need a file output, not stdout")
		}
		reportSkipped(cmd.ErrOrStderr(), result.Skipped)
		_, err := cmd.OutOrStdout().Write(result.Output)
		return err
	}

	if convertBackup {
		backup, err := fileutil.Backup(output)
		if err != nil {
			return fmt.Errorf("backup %s: %w", output, err)
		}
		if backup != "" {
			ui.Info("Backed up previous output to %s", backup)
		}
	}

	if err := fileutil.WriteFile(output, result.Output, 0644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	ui.Header("Converted %s (%s)", input, syntax)
	printServices(result.File, opts.Dapr.SidecarSuffix)
	reportSkipped(nil, result.Skipped)
	ui.Success("Wrote %d services to %s", len(result.File.Services), output)

	if !convertValidate && !convertUp {
		return nil
	}

	return runCompose(commandContext(cmd.Context()), output)
}

// resolveSyntax picks the program syntax from the --syntax flag or the
// input's extension. Stdin defaults to YAML.
func resolveSyntax(input, override string) (convert.Syntax, error) {
	if override != "" {
		syntax := convert.ParseSyntax(override)
		if syntax == convert.SyntaxUnknown {
			return syntax, fmt.Errorf("%w: unknown syntax %q", convert.ErrUnsupportedFormat, override)
		}
		return syntax, nil
	}
	if input == stdio {
		return convert.SyntaxYAML, nil
	}
	return convert.SyntaxFromPath(input), nil
}

func readInput(stdin io.Reader, input string) ([]byte, error) {
	if input != stdio {
		raw, err := os.ReadFile(input)
		if err != nil {
			return nil, fmt.Errorf("read program: %w", err)
		}
		return raw, nil
	}

	if stdinIsTerminal() {
		return nil, errNoInput
	}
	raw, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return raw, nil
}

func printServices(file *compose.File, sidecarSuffix string) {
	for _, name := range file.Names() {
		entry := file.Services[name]
		switch {
		case entry.NetworkMode != nil:
			ui.Sidecar(name, "network_mode "+entry.NetworkMode.String())
		case sidecarSuffix != "" && strings.HasSuffix(name, sidecarSuffix):
			ui.Sidecar(name, entry.Image)
		default:
			ui.Service(name, entry.Image)
		}
	}
}

// reportSkipped prints skipped resources. A nil writer prints through ui.
func reportSkipped(w io.Writer, skipped []pulumi.SkippedResource) {
	for _, s := range skipped {
		if w == nil {
			ui.Warning("Skipped resource %s: %s", s.ResourceID, s.Reason)
			continue
		}
		ui.Yellow.Fprintf(w, "⚠ Skipped resource %s: %s\n", s.ResourceID, s.Reason)
	}
}

func runCompose(ctx context.Context, output string) error {
	client, err := docker.NewComposeClient(output)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, composeTimeout)
	defer cancel()

	if err := client.Config(ctx); err != nil {
		return err
	}
	ui.Success("docker compose config passed")

	if !convertUp {
		return nil
	}

	if err := client.Up(ctx); err != nil {
		return err
	}
	ui.Success("Stack is up (pulumi-compose down %s to stop)", output)
	return nil
}
