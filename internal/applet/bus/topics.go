// Package bus subscribes to the location daemon's D-Bus signals and routes
// them, decoded, to typed handlers.
package bus

import "github.com/godbus/dbus/v5"

// Topic identifies one signal by interface and member.
type Topic struct {
	Interface string
	Member    string
}

// Topics published by the location daemon.
var (
	RunningTopic = Topic{
		Interface: "org.maemo.LocationDaemon.Running",
		Member:    "Running",
	}
	FixStatusTopic = Topic{
		Interface: "org.maemo.LocationDaemon.Device",
		Member:    "FixStatusChanged",
	}
)

// SignalName returns the name godbus reports in dbus.Signal.Name.
func (t Topic) SignalName() string {
	return t.Interface + "." + t.Member
}

func (t Topic) String() string {
	return t.SignalName()
}

func (t Topic) matchOptions() []dbus.MatchOption {
	return []dbus.MatchOption{
		dbus.WithMatchInterface(t.Interface),
		dbus.WithMatchMember(t.Member),
	}
}
