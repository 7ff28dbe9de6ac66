package bus

import (
	"errors"
	"fmt"
	"math"

	"github.com/godbus/dbus/v5"

	"github.com/location-sb/location-status/internal/applet/status"
)

// ErrMalformed is wrapped by every payload decoding error.
var ErrMalformed = errors.New("malformed signal payload")

// Handler consumes the body of a matched signal. A returned error means the
// payload was rejected and nothing was changed.
type Handler func(body []interface{}) error

// OnRunning decodes the daemon lifecycle payload before calling fn.
func OnRunning(fn func(running bool)) Handler {
	return func(body []interface{}) error {
		running, err := DecodeRunning(body)
		if err != nil {
			return err
		}
		fn(running)
		return nil
	}
}

// OnFixStatus decodes the fix quality payload before calling fn.
func OnFixStatus(fn func(mode status.FixMode)) Handler {
	return func(body []interface{}) error {
		mode, err := DecodeFixStatus(body)
		if err != nil {
			return err
		}
		fn(mode)
		return nil
	}
}

// DecodeRunning reads the single boolean-like argument of Running.
// Integers 0 and 1 are accepted as well as D-Bus booleans.
func DecodeRunning(body []interface{}) (bool, error) {
	v, err := single(body)
	if err != nil {
		return false, err
	}
	if b, ok := v.(bool); ok {
		return b, nil
	}
	n, err := asInt(v)
	if err != nil {
		return false, err
	}
	switch n {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	return false, fmt.Errorf("%w: running flag %d is not boolean", ErrMalformed, n)
}

// DecodeFixStatus reads the single small-integer argument of FixStatusChanged.
func DecodeFixStatus(body []interface{}) (status.FixMode, error) {
	v, err := single(body)
	if err != nil {
		return status.FixNotSeen, err
	}
	n, err := asInt(v)
	if err != nil {
		return status.FixNotSeen, err
	}
	mode, err := status.ParseFixMode(n)
	if err != nil {
		return status.FixNotSeen, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return mode, nil
}

func single(body []interface{}) (interface{}, error) {
	if len(body) != 1 {
		return nil, fmt.Errorf("%w: want 1 argument, got %d", ErrMalformed, len(body))
	}
	v := body[0]
	if variant, ok := v.(dbus.Variant); ok {
		v = variant.Value()
	}
	return v, nil
}

func asInt(v interface{}) (int64, error) {
	switch n := v.(type) {
	case byte:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case uint16:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case int64:
		return n, nil
	case uint64:
		if n > math.MaxInt64 {
			return 0, fmt.Errorf("%w: integer %d overflows", ErrMalformed, n)
		}
		return int64(n), nil
	case int:
		return int64(n), nil
	}
	return 0, fmt.Errorf("%w: unexpected argument type %T", ErrMalformed, v)
}
