// Package cli implements the location-status commands.
package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "location-status",
	Short: "Location status indicator for the desktop tray",
	Long: `location-status mirrors the state of the location daemon into a
tray icon that blinks while a fix is being acquired, and opens the
location settings when its menu entry is clicked.

Without a subcommand it behaves like "location-status run".`,
	SilenceUsage: true,
	RunE:         runApplet,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	addRunFlags(rootCmd)

	// Add subcommands (alphabetical)
	rootCmd.AddCommand(activateCmd)
	rootCmd.AddCommand(monitorCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(versionCmd)
}
