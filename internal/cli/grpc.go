package cli

import (
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/location-sb/location-status/internal/applet/server"
	"github.com/location-sb/location-status/internal/config"
)

// errNotRunning is returned when no applet instance is found.
var errNotRunning = fmt.Errorf("location-status is not running")

// connectApplet establishes a gRPC connection to the running applet.
func connectApplet() (*server.Client, *grpc.ClientConn, error) {
	running, info, err := config.IsAppletRunning()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to check applet status: %w", err)
	}
	if !running || info == nil {
		return nil, nil, errNotRunning
	}
	if info.Port == 0 {
		return nil, nil, fmt.Errorf("applet (PID %d) has its status server disabled", info.PID)
	}

	addr := fmt.Sprintf("%s:%d", info.Host, info.Port)
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to applet: %w", err)
	}

	return server.NewClient(conn), conn, nil
}
