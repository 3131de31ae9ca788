// Package validation validates gRPC messages against the rules generated from
// their proto definitions.
package validation

import (
	"context"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Validator is implemented by generated messages with validation rules
type Validator interface {
	Validate() error
}

var log = logrus.StandardLogger().WithField("type", "grpc/validation/interceptor")

// validate checks a message, if it has rules. Invalid messages result in a
// status error with the provided code. Failures caused by the local side are
// logged as warnings, since they indicate a bug in this process.
func validate(msg interface{}, code codes.Code, isLocalFault bool, description string) error {
	v, ok := msg.(Validator)
	if !ok {
		return nil
	}

	err := v.Validate()
	if err == nil {
		return nil
	}

	entry := log.WithError(err)
	if isLocalFault {
		entry.Warn(description)
	} else {
		entry.Debug(description)
	}
	return status.Error(code, err.Error())
}

// UnaryClientInterceptor returns a grpc.UnaryClientInterceptor that validates
// requests before they're sent, with codes.InvalidArgument, and responses
// after they're received, with codes.Internal
func UnaryClientInterceptor() grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		if err := validate(req, codes.InvalidArgument, true, "dropping invalid request"); err != nil {
			return err
		}

		if err := invoker(ctx, method, req, reply, cc, opts...); err != nil {
			return err
		}

		return validate(reply, codes.Internal, false, "dropping invalid response")
	}
}

// StreamClientInterceptor returns a grpc.StreamClientInterceptor applying the
// same rules as UnaryClientInterceptor to every streamed message
func StreamClientInterceptor() grpc.StreamClientInterceptor {
	return func(ctx context.Context, desc *grpc.StreamDesc, cc *grpc.ClientConn, method string, streamer grpc.Streamer, opts ...grpc.CallOption) (grpc.ClientStream, error) {
		clientStream, err := streamer(ctx, desc, cc, method, opts...)
		if err != nil {
			return nil, err
		}
		return &clientStreamWrapper{clientStream}, nil
	}
}

type clientStreamWrapper struct {
	grpc.ClientStream
}

func (c *clientStreamWrapper) SendMsg(req interface{}) error {
	if err := validate(req, codes.InvalidArgument, true, "dropping invalid request"); err != nil {
		return err
	}
	return c.ClientStream.SendMsg(req)
}

func (c *clientStreamWrapper) RecvMsg(res interface{}) error {
	if err := c.ClientStream.RecvMsg(res); err != nil {
		return err
	}
	return validate(res, codes.Internal, false, "dropping invalid response")
}

// UnaryServerInterceptor returns a grpc.UnaryServerInterceptor that validates
// requests, with codes.InvalidArgument, and responses, with codes.Internal
func UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, _ *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if err := validate(req, codes.InvalidArgument, false, "dropping invalid request"); err != nil {
			return nil, err
		}

		resp, err := handler(ctx, req)
		if err != nil {
			return nil, err
		}

		if err := validate(resp, codes.Internal, true, "dropping invalid response"); err != nil {
			return nil, err
		}
		return resp, nil
	}
}

// StreamServerInterceptor returns a grpc.StreamServerInterceptor applying the
// same rules as UnaryServerInterceptor to every streamed message
func StreamServerInterceptor() grpc.StreamServerInterceptor {
	return func(srv interface{}, ss grpc.ServerStream, _ *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		return handler(srv, &serverStreamWrapper{ss})
	}
}

type serverStreamWrapper struct {
	grpc.ServerStream
}

func (s *serverStreamWrapper) RecvMsg(req interface{}) error {
	if err := s.ServerStream.RecvMsg(req); err != nil {
		return err
	}
	return validate(req, codes.InvalidArgument, false, "dropping invalid request")
}

func (s *serverStreamWrapper) SendMsg(res interface{}) error {
	if err := validate(res, codes.Internal, true, "dropping invalid response"); err != nil {
		return err
	}
	return s.ServerStream.SendMsg(res)
}
