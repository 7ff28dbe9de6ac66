package server

import (
	"fmt"
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/location-sb/location-status/internal/applet/status"
)

// EncodeSnapshot converts a snapshot into its wire form.
func EncodeSnapshot(s status.Snapshot) (*structpb.Struct, error) {
	mountedAt := ""
	if !s.MountedAt.IsZero() {
		mountedAt = s.MountedAt.UTC().Format(time.RFC3339Nano)
	}

	st, err := structpb.NewStruct(map[string]any{
		"daemon_running": s.DaemonRunning,
		"fix_mode":       s.FixMode.String(),
		"visual_state":   s.VisualState.String(),
		"blink_phase":    s.BlinkPhase.String(),
		"blinking":       s.Blinking,
		"bus_connected":  s.BusConnected,
		"instance_id":    s.InstanceID,
		"mounted_at":     mountedAt,
		"events":         s.Events,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return st, nil
}

// DecodeSnapshot is the inverse of EncodeSnapshot.
func DecodeSnapshot(st *structpb.Struct) (status.Snapshot, error) {
	var s status.Snapshot
	if st == nil {
		return s, fmt.Errorf("empty status")
	}
	f := st.GetFields()

	s.DaemonRunning = f["daemon_running"].GetBoolValue()
	s.Blinking = f["blinking"].GetBoolValue()
	s.BusConnected = f["bus_connected"].GetBoolValue()
	s.InstanceID = f["instance_id"].GetStringValue()
	s.Events = uint64(f["events"].GetNumberValue())
	s.BlinkPhase = f["blink_phase"].GetStringValue() == status.SearchingB.String()

	var ok bool
	if s.FixMode, ok = lookup(f["fix_mode"].GetStringValue(), status.FixNotSeen, status.FixNone, status.Fix2D, status.Fix3D); !ok {
		return s, fmt.Errorf("unknown fix mode %q", f["fix_mode"].GetStringValue())
	}
	if s.VisualState, ok = lookup(f["visual_state"].GetStringValue(), status.NotConnected, status.Searching, status.Found); !ok {
		return s, fmt.Errorf("unknown visual state %q", f["visual_state"].GetStringValue())
	}

	if v := f["mounted_at"].GetStringValue(); v != "" {
		t, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return s, fmt.Errorf("failed to parse mounted_at: %w", err)
		}
		s.MountedAt = t
	}
	return s, nil
}

func lookup[T fmt.Stringer](name string, values ...T) (T, bool) {
	for _, v := range values {
		if v.String() == name {
			return v, true
		}
	}
	var zero T
	return zero, false
}
