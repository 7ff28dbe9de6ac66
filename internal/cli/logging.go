package cli

import (
	"io"
	"log"
	"os"

	"github.com/location-sb/location-status/internal/config"
	"github.com/location-sb/location-status/internal/models"
)

// setupLogging configures the standard logger. When the log goes to a file
// the returned closer must be closed on exit. quiet drops stderr output,
// which the monitor needs because it owns the terminal.
func setupLogging(settings *models.Settings, quiet bool) io.Closer {
	log.SetPrefix("[location-status] ")
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	var out io.Writer = os.Stderr
	if quiet {
		out = io.Discard
	}

	if !settings.Log.ToFile {
		log.SetOutput(out)
		return nopCloser{}
	}

	if removed, err := config.PruneLogs(settings.Log.KeepDays); err != nil {
		log.Printf("Failed to prune logs: %v", err)
	} else if removed > 0 {
		log.Printf("Pruned %d old log files", removed)
	}

	f, err := config.OpenLogFile()
	if err != nil {
		log.SetOutput(out)
		log.Printf("Logging to stderr only: %v", err)
		return nopCloser{}
	}

	if quiet {
		log.SetOutput(f)
	} else {
		log.SetOutput(io.MultiWriter(os.Stderr, f))
	}
	return f
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
