package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pulumi-compose/pulumi-compose/internal/convert"
	"github.com/pulumi-compose/pulumi-compose/internal/ui"
)

// formatsCmd lists the program syntaxes.
var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List program syntaxes and their status",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		for _, syntax := range convert.Syntaxes {
			status := ui.Green.Sprint("supported")
			if !syntax.Implemented() {
				status = ui.Yellow.Sprint("not implemented")
			}
			fmt.Fprintf(out, "%-12s %-16s %s\n", syntax, strings.Join(syntax.Extensions(), ", "), status)
		}
	},
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}
