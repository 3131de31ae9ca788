package testutil

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	grpc_middleware "github.com/grpc-ecosystem/go-grpc-middleware"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"

	"github.com/code-payments/code-sdk-go/pkg/grpc/protobuf/validation"
	"github.com/code-payments/code-sdk-go/pkg/netutil"
	"github.com/code-payments/code-sdk-go/pkg/retry"
	"github.com/code-payments/code-sdk-go/pkg/retry/backoff"
)

// Server is a local gRPC server for fake services. Both the server and the
// returned client connection validate messages against their proto
// definitions, so fakes see the same constraints as real services.
type Server struct {
	log *logrus.Entry

	stopOnce sync.Once

	mu         sync.Mutex
	serving    bool
	target     string
	listener   net.Listener
	grpcServer *grpc.Server
	clientConn *grpc.ClientConn
}

// NewServer creates a new Server on a free local port, along with a client
// connection to it
func NewServer() (*grpc.ClientConn, *Server, error) {
	port, err := netutil.GetAvailablePortForAddress("localhost")
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to find free port")
	}

	target := fmt.Sprintf("localhost:%d", port)

	listener, err := net.Listen("tcp", target)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to start listener")
	}

	conn, err := grpc.NewClient(
		target,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(grpc_middleware.ChainUnaryClient(validation.UnaryClientInterceptor())),
		grpc.WithStreamInterceptor(grpc_middleware.ChainStreamClient(validation.StreamClientInterceptor())),
	)
	if err != nil {
		listener.Close()
		return nil, nil, errors.Wrap(err, "failed to create grpc.ClientConn")
	}

	grpcServer := grpc.NewServer(
		grpc.UnaryInterceptor(grpc_middleware.ChainUnaryServer(validation.UnaryServerInterceptor())),
		grpc.StreamInterceptor(grpc_middleware.ChainStreamServer(validation.StreamServerInterceptor())),
	)
	grpc_health_v1.RegisterHealthServer(grpcServer, health.NewServer())

	return conn, &Server{
		log:        logrus.StandardLogger().WithField("type", "testutil/server"),
		target:     target,
		listener:   listener,
		grpcServer: grpcServer,
		clientConn: conn,
	}, nil
}

// Target returns the address the server listens on, for callers that dial
// their own connection
func (s *Server) Target() string {
	return s.target
}

// RegisterService registers a gRPC service. Services must be registered
// before Serve.
func (s *Server) RegisterService(registerFunc func(s *grpc.Server)) {
	registerFunc(s.grpcServer)
}

// Serve starts the server in the background and waits until it answers health
// checks. The returned stopFunc releases the server and its client connection.
func (s *Server) Serve() (stopFunc func(), err error) {
	stopFunc = func() {
		s.stopOnce.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()

			s.grpcServer.Stop()
			s.clientConn.Close()
		})
	}

	s.mu.Lock()
	if s.serving {
		s.mu.Unlock()
		return stopFunc, nil
	}
	s.serving = true
	s.mu.Unlock()

	go func() {
		err := s.grpcServer.Serve(s.listener)
		s.log.WithError(err).Debug("stopped")
	}()

	healthClient := grpc_health_v1.NewHealthClient(s.clientConn)
	_, err = retry.Retry(
		context.Background(),
		func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()

			_, err := healthClient.Check(ctx, &grpc_health_v1.HealthCheckRequest{})
			return err
		},
		retry.Limit(10),
		retry.Backoff(backoff.Constant(250*time.Millisecond), 250*time.Millisecond),
	)
	if err != nil {
		stopFunc()
		return nil, errors.Wrap(err, "error executing sanity test rpc call")
	}

	return stopFunc, nil
}
