package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pulumi-compose/pulumi-compose/internal/compose"
	"github.com/pulumi-compose/pulumi-compose/internal/config"
	"github.com/pulumi-compose/pulumi-compose/internal/docker"
	"github.com/pulumi-compose/pulumi-compose/internal/preflight"
	"github.com/pulumi-compose/pulumi-compose/internal/ui"
)

// Replaced in tests.
var (
	binaryAvailable        = preflight.IsBinaryAvailable
	composePluginAvailable = preflight.ComposePluginAvailable
)

// doctorCmd runs pre-flight checks.
var doctorCmd = &cobra.Command{
	Use:   "doctor [compose-file]",
	Short: "Check docker, compose, and locally pulled images",
	Long: `Run diagnostic checks for running a converted stack.

Checks that docker and the compose plugin are installed and the daemon
answers. Given a compose file, also reports which of its images are not
pulled yet.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

type doctorTally struct {
	passed, warned, failed int
}

func (t *doctorTally) pass(format string, args ...any) {
	ui.Green.Printf("  * "+format+"\n", args...)
	t.passed++
}

func (t *doctorTally) warn(format string, args ...any) {
	ui.Yellow.Printf("  ! "+format+"\n", args...)
	t.warned++
}

func (t *doctorTally) fail(format string, args ...any) {
	ui.Red.Printf("  x "+format+"\n", args...)
	t.failed++
}

func runDoctor(cmd *cobra.Command, args []string) error {
	ui.Blue.Println("Running pre-flight checks...")
	fmt.Println()

	var tally doctorTally

	report := preflight.Check(binaryAvailable)
	for _, bin := range report.Found {
		tally.pass("%s is installed", bin.Name)
	}
	for _, bin := range report.MissingRequired {
		tally.fail("%s not found (%s)", bin.Name, bin.InstallHint)
	}
	for _, bin := range report.MissingOptional {
		tally.warn("%s not found (%s)", bin.Name, bin.InstallHint)
	}

	if composePluginAvailable() {
		tally.pass("Docker Compose v2 plugin")
	} else {
		tally.fail("Docker Compose v2 not found")
	}

	if path, ok := configPath(); ok {
		tally.pass("Config found: %s", path)
	} else {
		tally.warn("No %s found (using defaults)", config.FileName)
	}

	ctx := commandContext(cmd.Context())
	err := withDockerClient(ctx, func(ctx context.Context, client *docker.Client) error {
		apiVersion, err := client.Ping(ctx)
		if err != nil {
			tally.fail("Docker is not running")
			return nil
		}
		tally.pass("Docker is running (API %s)", apiVersion)

		if len(args) == 0 {
			return nil
		}
		return checkImages(ctx, client, args[0], &tally)
	})
	if err != nil {
		tally.fail("%v", err)
	}

	fmt.Println()
	fmt.Printf("Summary: ")
	ui.Green.Printf("%d passed", tally.passed)
	fmt.Printf(", ")
	ui.Yellow.Printf("%d warnings", tally.warned)
	fmt.Printf(", ")
	ui.Red.Printf("%d failed\n", tally.failed)

	if tally.failed > 0 {
		return fmt.Errorf("%d checks failed", tally.failed)
	}
	return nil
}

// checkImages reports images referenced by a compose file that are not in
// the local image store.
func checkImages(ctx context.Context, client *docker.Client, path string, tally *doctorTally) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read compose file: %w", err)
	}
	file, err := compose.Unmarshal(data)
	if err != nil {
		return fmt.Errorf("parse compose file: %w", err)
	}

	missing, err := client.MissingImages(ctx, file.Images())
	if err != nil {
		return err
	}
	if len(missing) == 0 {
		tally.pass("All %d images pulled", len(file.Images()))
		return nil
	}
	for _, ref := range missing {
		tally.warn("Image not pulled: %s", ref)
	}
	return nil
}

func configPath() (string, bool) {
	if path := os.Getenv(config.EnvVar); path != "" {
		return path, true
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", false
	}
	return config.FindFile(wd)
}
