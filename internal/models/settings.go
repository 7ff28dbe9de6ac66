// Package models contains shared data structures used across the application.
package models

import (
	"errors"
	"fmt"
	"time"
)

// Bus kinds accepted in BusConfig.Kind.
const (
	BusSystem  = "system"
	BusSession = "session"
)

// BusConfig selects the message bus the applet listens on.
type BusConfig struct {
	Kind string `yaml:"kind"` // "system" | "session"
}

// BlinkConfig holds the searching animation settings.
type BlinkConfig struct {
	Interval time.Duration `yaml:"interval"`
}

// IconsConfig maps the symbolic indicator icons onto theme assets.
type IconsConfig struct {
	SearchPaths  []string `yaml:"search_paths"`
	SmallSize    int      `yaml:"small_size"`
	LargeSize    int      `yaml:"large_size"`
	NotConnected string   `yaml:"not_connected"`
	Searching    string   `yaml:"searching"`
	Location     string   `yaml:"location"`
	CacheSize    int      `yaml:"cache_size"`
}

// MenuConfig holds the text shown next to the large menu icon.
type MenuConfig struct {
	Label string `yaml:"label"`
}

// LauncherConfig describes the external settings application.
type LauncherConfig struct {
	Command         []string `yaml:"command"`
	NotifyOnFailure bool     `yaml:"notify_on_failure"`
}

// StatusServerConfig controls the local gRPC status endpoint.
type StatusServerConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"` // 0 = dynamic
}

// LogConfig holds logging settings.
type LogConfig struct {
	ToFile   bool `yaml:"to_file"`
	Verbose  bool `yaml:"verbose"`
	KeepDays int  `yaml:"keep_days"`
}

// Settings represents the applet settings.
// This corresponds to ~/.location-status/settings.yaml.
type Settings struct {
	Version      int                `yaml:"version"`
	Bus          BusConfig          `yaml:"bus"`
	Blink        BlinkConfig        `yaml:"blink"`
	Icons        IconsConfig        `yaml:"icons"`
	Menu         MenuConfig         `yaml:"menu"`
	Launcher     LauncherConfig     `yaml:"launcher"`
	StatusServer StatusServerConfig `yaml:"status_server"`
	Log          LogConfig          `yaml:"log"`
}

// NewSettings creates settings with default values.
func NewSettings() *Settings {
	return &Settings{
		Version: 1,
		Bus: BusConfig{
			Kind: BusSystem,
		},
		Blink: BlinkConfig{
			Interval: time.Second,
		},
		Icons: IconsConfig{
			SearchPaths: []string{
				"~/.location-status/icons",
				"/usr/share/icons/hicolor",
				"/usr/share/pixmaps",
			},
			SmallSize:    16,
			LargeSize:    48,
			NotConnected: "gps_not_connected",
			Searching:    "gps_searching",
			Location:     "gps_location",
			CacheSize:    16,
		},
		Menu: MenuConfig{
			Label: "Location",
		},
		Launcher: LauncherConfig{
			Command:         []string{"gnome-control-center", "location"},
			NotifyOnFailure: true,
		},
		StatusServer: StatusServerConfig{
			Enabled: true,
			Port:    0,
		},
		Log: LogConfig{
			ToFile:   false,
			Verbose:  false,
			KeepDays: 7,
		},
	}
}

// Validate reports every invalid field at once.
func (s *Settings) Validate() error {
	var errs []error

	switch s.Bus.Kind {
	case BusSystem, BusSession:
	default:
		errs = append(errs, fmt.Errorf("bus.kind must be %q or %q, got %q", BusSystem, BusSession, s.Bus.Kind))
	}
	if s.Blink.Interval <= 0 {
		errs = append(errs, fmt.Errorf("blink.interval must be positive, got %s", s.Blink.Interval))
	}
	if s.Icons.SmallSize <= 0 || s.Icons.LargeSize <= 0 {
		errs = append(errs, fmt.Errorf("icons.small_size and icons.large_size must be positive"))
	}
	if s.Icons.NotConnected == "" || s.Icons.Searching == "" || s.Icons.Location == "" {
		errs = append(errs, errors.New("icons.not_connected, icons.searching and icons.location must be set"))
	}
	if len(s.Launcher.Command) == 0 || s.Launcher.Command[0] == "" {
		errs = append(errs, errors.New("launcher.command must name an executable"))
	}
	if s.StatusServer.Port < 0 || s.StatusServer.Port > 65535 {
		errs = append(errs, fmt.Errorf("status_server.port out of range: %d", s.StatusServer.Port))
	}

	return errors.Join(errs...)
}
