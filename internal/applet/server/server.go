// Package server exposes the running indicator's state over gRPC so the CLI
// can query it.
package server

import (
	"context"
	"fmt"
	"log"
	"net"

	"google.golang.org/grpc"
)

// Server is the applet's local gRPC status endpoint.
type Server struct {
	grpcServer *grpc.Server
	listener   net.Listener
	port       int
}

// New creates a server on the loopback interface.
// Pass port 0 for dynamic allocation.
func New(port int, src Source, shutdown func()) (*Server, error) {
	listener, err := (&net.ListenConfig{}).Listen(context.TODO(), "tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		return nil, fmt.Errorf("failed to listen: %w", err)
	}

	// Get actual port if dynamically allocated
	actualPort := listener.Addr().(*net.TCPAddr).Port

	grpcServer := grpc.NewServer()
	RegisterStatusServiceServer(grpcServer, &statusService{source: src, shutdown: shutdown})

	return &Server{
		grpcServer: grpcServer,
		listener:   listener,
		port:       actualPort,
	}, nil
}

// Port returns the port the server is listening on.
func (s *Server) Port() int {
	return s.port
}

// Serve starts serving requests. This blocks until Stop is called.
func (s *Server) Serve() error {
	log.Printf("[server] Serving status on 127.0.0.1:%d", s.port)
	return s.grpcServer.Serve(s.listener)
}

// Stop gracefully stops the server.
func (s *Server) Stop() {
	s.grpcServer.GracefulStop()
}
