// Package grpc mirrors the HTTP API as the apiapp.v1.API gRPC service.
package grpc

import (
	"context"
	"database/sql"
	"net"

	"github.com/dmitrijs2005/apiapp/internal/logging"
	"github.com/dmitrijs2005/apiapp/internal/server/services"
	"google.golang.org/grpc"
)

type GRPCServer struct {
	address  string
	db       *sql.DB
	provider *services.Provider
	logger   logging.Logger
}

func NewGRPCServer(a string, l logging.Logger, db *sql.DB, provider *services.Provider) (*GRPCServer, error) {
	return &GRPCServer{
		address:  a,
		logger:   l.With("module", "grpc_server"),
		db:       db,
		provider: provider,
	}, nil
}

// newServer creates the gRPC server with the session interceptor and the
// API service registered.
func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.sessionInterceptor))
	RegisterAPIServer(srv, s)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.serve(ctx, listen)
}

func (s *GRPCServer) serve(ctx context.Context, listen net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil {
		return err
	}
	return nil
}
