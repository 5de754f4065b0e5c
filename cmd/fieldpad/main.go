// Fieldpad edits a record in a full-screen terminal form.
//
// The form layout comes from the config file (or the built-in saved query
// layout). On save the record is posted to an HTTP endpoint, written to a
// file, or printed as YAML once the screen has been restored.
//
// See 'fieldpad --help' for flags.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/JackWReid/fieldpad/internal/version"
)

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "fieldpad: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "fieldpad",
	Short: "Edit a record in a terminal form",
	Long: `Full-screen form editor for the terminal.

Move between fields with the arrow keys (or k/j), press Enter to edit the
selected field, Ctrl-S to save and Esc to quit without saving. Multi-line
fields open a text editor; Ctrl-D accepts, Esc cancels.

Where the record goes on save:
  --endpoint URL   POST it as JSON
  --output FILE    write it as YAML
  (neither)        print it as YAML after the editor exits`,
	Version: version.Version,
	Example: `  # Fill in the built-in saved query form and print the result
  fieldpad

  # Pre-fill a field and post to a service
  fieldpad --set query.owner=$USER --endpoint http://localhost:8080/queries

  # Use a custom layout and write the record to a file
  fieldpad --config ./ticket.yaml --output ticket.yaml`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runEdit,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(layoutCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("fieldpad %s (commit: %s)\n", version.Version, version.Commit)
	},
}
