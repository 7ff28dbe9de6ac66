package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const logFilePrefix = "location-status-"

// OpenLogFile opens today's log file in ~/.location-status/logs/ for appending.
func OpenLogFile() (*os.File, error) {
	if err := EnsureGlobalLogsDir(); err != nil {
		return nil, fmt.Errorf("failed to ensure logs dir: %w", err)
	}

	logsDir, err := GlobalLogsDir()
	if err != nil {
		return nil, err
	}

	path := filepath.Join(logsDir, logFilePrefix+time.Now().Format("20060102")+".log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}

// PruneLogs removes log files older than keepDays. keepDays <= 0 keeps everything.
// It returns the number of files removed.
func PruneLogs(keepDays int) (int, error) {
	if keepDays <= 0 {
		return 0, nil
	}

	logsDir, err := GlobalLogsDir()
	if err != nil {
		return 0, err
	}

	entries, err := os.ReadDir(logsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	cutoff := time.Now().AddDate(0, 0, -keepDays)
	removed := 0
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, logFilePrefix) || !strings.HasSuffix(name, ".log") {
			continue
		}

		day, err := time.ParseInLocation("20060102", strings.TrimSuffix(strings.TrimPrefix(name, logFilePrefix), ".log"), time.Local)
		if err != nil {
			continue
		}
		if day.Before(cutoff) {
			if err := os.Remove(filepath.Join(logsDir, name)); err != nil {
				log.Printf("[config] Failed to remove old log %s: %v", name, err)
				continue
			}
			removed++
		}
	}
	return removed, nil
}
