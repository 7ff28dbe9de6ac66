package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/location-sb/location-status/internal/applet/status"
)

var (
	statusJSON  bool
	statusWatch bool
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show what the indicator currently displays",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

var activateCmd = &cobra.Command{
	Use:     "activate",
	Aliases: []string{"open"},
	Short:   "Open the location settings through the running indicator",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, conn, err := connectApplet()
		if err != nil {
			return err
		}
		defer conn.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Activate(ctx); err != nil {
			return fmt.Errorf("failed to activate: %w", err)
		}
		fmt.Println(styleSuccess.Render("Opening location settings."))
		return nil
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running indicator",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, conn, err := connectApplet()
		if err != nil {
			return err
		}
		defer conn.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to send stop request: %w", err)
		}
		fmt.Println("location-status stopping.")
		return nil
	},
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Print the status as JSON")
	statusCmd.Flags().BoolVar(&statusWatch, "watch", false, "Keep printing the status until interrupted")
}

// statusView is the JSON form of a snapshot.
type statusView struct {
	DaemonRunning bool      `json:"daemon_running"`
	FixMode       string    `json:"fix_mode"`
	VisualState   string    `json:"visual_state"`
	BlinkPhase    string    `json:"blink_phase"`
	Blinking      bool      `json:"blinking"`
	BusConnected  bool      `json:"bus_connected"`
	InstanceID    string    `json:"instance_id"`
	MountedAt     time.Time `json:"mounted_at"`
	Events        uint64    `json:"events"`
}

func newStatusView(s status.Snapshot) statusView {
	return statusView{
		DaemonRunning: s.DaemonRunning,
		FixMode:       s.FixMode.String(),
		VisualState:   s.VisualState.String(),
		BlinkPhase:    s.BlinkPhase.String(),
		Blinking:      s.Blinking,
		BusConnected:  s.BusConnected,
		InstanceID:    s.InstanceID,
		MountedAt:     s.MountedAt,
		Events:        s.Events,
	}
}

func runStatus(cmd *cobra.Command, args []string) error {
	client, conn, err := connectApplet()
	if err == errNotRunning && !statusJSON {
		fmt.Println(styleWarning.Render("location-status is not running."))
		return nil
	}
	if err != nil {
		return err
	}
	defer conn.Close()

	out := cmd.OutOrStdout()
	redraw := statusWatch && !statusJSON && term.IsTerminal(int(os.Stdout.Fd()))

	for {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		snap, err := client.GetStatus(ctx)
		cancel()
		if err != nil {
			return fmt.Errorf("failed to get status: %w", err)
		}

		if redraw {
			fmt.Fprint(out, ansi.CursorHomePosition+ansi.EraseEntireScreen)
		}
		if statusJSON {
			if err := json.NewEncoder(out).Encode(newStatusView(snap)); err != nil {
				return err
			}
		} else {
			printStatus(out, snap, time.Now())
		}

		if !statusWatch {
			return nil
		}
		time.Sleep(500 * time.Millisecond)
	}
}

func printStatus(w io.Writer, s status.Snapshot, now time.Time) {
	badge := badgeNotConnected
	switch s.VisualState {
	case status.Searching:
		badge = badgeSearching
	case status.Found:
		badge = badgeFound
	}

	fmt.Fprintf(w, "%s %s\n", styleBrand.Render("Location"), badge.Render(strings.ToUpper(s.VisualState.String())))
	row := func(label, value string) {
		fmt.Fprintf(w, "  %s %s\n", styleLabel.Render(fmt.Sprintf("%-10s", label+":")), styleValue.Render(value))
	}

	daemon := "not running"
	if s.DaemonRunning {
		daemon = "running"
	}
	row("Daemon", daemon)
	row("Fix", s.FixMode.String())
	if s.Blinking {
		row("Blink", "phase "+s.BlinkPhase.String())
	} else {
		row("Blink", "off")
	}
	if s.BusConnected {
		row("Bus", "connected")
	} else {
		row("Bus", styleError.Render("disconnected"))
	}
	if !s.MountedAt.IsZero() {
		row("Uptime", now.Sub(s.MountedAt).Truncate(time.Second).String())
	}
	row("Events", fmt.Sprintf("%d", s.Events))
	row("Instance", s.InstanceID)
}
