package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/location-sb/location-status/internal/applet"
	"github.com/location-sb/location-status/internal/applet/indicator"
	"github.com/location-sb/location-status/internal/applet/server"
	"github.com/location-sb/location-status/internal/applet/status"
	"github.com/location-sb/location-status/internal/applet/tray"
	"github.com/location-sb/location-status/internal/applet/watcher"
	"github.com/location-sb/location-status/internal/config"
	"github.com/location-sb/location-status/internal/models"
)

// runOptions are the flags shared by the root command and "run".
type runOptions struct {
	foreground bool
	bus        string
	verbose    bool
}

var runOpts runOptions

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the location indicator",
	Long: `Start the location indicator in the system tray.

With --foreground no tray is used and every render is logged instead,
which is handy on headless sessions and for debugging.`,
	Args: cobra.NoArgs,
	RunE: runApplet,
}

func init() {
	addRunFlags(runCmd)
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&runOpts.foreground, "foreground", false, "Run without the system tray, logging renders")
	cmd.Flags().StringVar(&runOpts.bus, "bus", "", "Bus to listen on: system or session")
	cmd.Flags().BoolVar(&runOpts.verbose, "verbose", false, "Log every signal and blink tick")
}

// applyOverrides applies command-line flags on top of loaded settings.
func applyOverrides(settings *models.Settings, opts runOptions) error {
	if opts.bus != "" {
		settings.Bus.Kind = opts.bus
	}
	if opts.verbose {
		settings.Log.Verbose = true
	}
	return settings.Validate()
}

func runApplet(cmd *cobra.Command, args []string) error {
	settings, err := config.LoadSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	if err := applyOverrides(settings, runOpts); err != nil {
		return err
	}

	closer := setupLogging(settings, false)
	defer closer.Close()

	if err := config.EnsureGlobalDir(); err != nil {
		return fmt.Errorf("failed to create global directory: %w", err)
	}

	running, info, err := config.IsAppletRunning()
	if err != nil {
		return fmt.Errorf("failed to check applet status: %w", err)
	}
	if running {
		return fmt.Errorf("location-status already running (PID %d)", info.PID)
	}

	loader, err := indicator.NewThemeLoader(settings.Icons.SearchPaths, settings.Icons.CacheSize)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		comp     *applet.Component
		trayHost *tray.Host
		host     applet.Host = applet.LogHost{}
	)
	if !runOpts.foreground {
		trayHost = tray.NewHost(func() { comp.Activate() }, stop)
		host = trayHost
	}

	comp, err = applet.New(applet.Options{
		Settings: settings,
		Host:     host,
		Loader:   loader,
		OnChange: func(s status.Snapshot) {
			if trayHost != nil {
				trayHost.Update(s)
			}
		},
	})
	if err != nil {
		return err
	}

	srv := startStatusServer(settings, comp, stop)
	if srv != nil {
		defer srv.Stop()
	}

	port := 0
	if srv != nil {
		port = srv.Port()
	}
	instance := models.NewInstanceInfo(comp.ID(), "127.0.0.1", port, os.Getpid(), settings.Bus.Kind)
	if err := config.SaveInstanceInfo(instance); err != nil {
		return fmt.Errorf("failed to write instance info: %w", err)
	}
	defer func() {
		if err := config.RemoveInstanceInfo(); err != nil {
			log.Printf("Failed to remove instance info: %v", err)
		}
	}()

	if w := startSettingsWatcher(ctx, settings, comp); w != nil {
		defer w.Stop()
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		// Mount and Run share the loop goroutine
		if err := comp.Mount(); err != nil {
			log.Printf("Bus setup failed, indicator stays not connected: %v", err)
		}
		comp.Run(ctx)
	}()

	log.Printf("Started instance %s (PID %d, status port %d)", comp.ID(), os.Getpid(), port)

	if trayHost == nil {
		<-done
	} else {
		go func() {
			<-ctx.Done()
			tray.Quit()
		}()
		// This blocks the main goroutine until the tray exits.
		trayHost.Run(nil, func() {
			stop()
			<-done
		})
	}

	fmt.Println("location-status stopped")
	return nil
}

func startStatusServer(settings *models.Settings, src server.Source, shutdown func()) *server.Server {
	if !settings.StatusServer.Enabled {
		return nil
	}

	srv, err := server.New(settings.StatusServer.Port, src, shutdown)
	if err != nil {
		log.Printf("Status server disabled: %v", err)
		return nil
	}
	go func() {
		if err := srv.Serve(); err != nil {
			log.Printf("Status server error: %v", err)
		}
	}()
	return srv
}

// startSettingsWatcher reloads settings into comp whenever settings.yaml or
// an icon in the user theme changes.
func startSettingsWatcher(ctx context.Context, settings *models.Settings, comp *applet.Component) *watcher.Watcher {
	path, err := config.GlobalSettingsFile()
	if err != nil {
		log.Printf("Settings reload disabled: %v", err)
		return nil
	}

	w, err := watcher.New(path, settings.Icons.SearchPaths)
	if err != nil {
		log.Printf("Settings reload disabled: %v", err)
		return nil
	}
	if err := w.Start(); err != nil {
		log.Printf("Settings reload disabled: %v", err)
		w.Stop()
		return nil
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-w.Events():
				fresh, err := config.LoadSettingsFrom(path)
				if err != nil {
					log.Printf("Keeping current settings after %s: %v", ev.Type, err)
					continue
				}
				if err := applyOverrides(fresh, runOpts); err != nil {
					log.Printf("Keeping current settings after %s: %v", ev.Type, err)
					continue
				}
				comp.Reload(fresh)
			}
		}
	}()
	return w
}
