package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/location-sb/location-status/internal/config"
	"github.com/location-sb/location-status/internal/tui"
)

var monitorBus string

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Run the indicator in the terminal",
	Long: `Run an indicator instance inside the terminal instead of the tray.

Both render sites are drawn as glyphs and every render is listed in an
event log. Enter opens the location settings, q quits.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := config.LoadSettings()
		if err != nil {
			return fmt.Errorf("failed to load settings: %w", err)
		}
		if err := applyOverrides(settings, runOptions{bus: monitorBus}); err != nil {
			return err
		}

		// The terminal belongs to the monitor, logs go to file only
		closer := setupLogging(settings, true)
		defer closer.Close()

		return tui.Run(settings, nil)
	},
}

func init() {
	monitorCmd.Flags().StringVar(&monitorBus, "bus", "", "Bus to listen on: system or session")
}
