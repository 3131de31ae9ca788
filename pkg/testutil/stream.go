package testutil

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// BoundedReceive receives a single message on a server stream, failing if none
// arrives within the timeout. Fake servers use it to enforce the same bound on
// the first client request that real servers do.
func BoundedReceive[Req any](ctx context.Context, stream grpc.ServerStream, timeout time.Duration) (*Req, error) {
	type result struct {
		req *Req
		err error
	}

	resultCh := make(chan result, 1)
	go func() {
		req := new(Req)
		err := stream.RecvMsg(req)
		resultCh <- result{req, err}
	}()

	select {
	case res := <-resultCh:
		return res.req, res.err
	case <-ctx.Done():
		return nil, status.Error(codes.Canceled, "")
	case <-time.After(timeout):
		return nil, status.Error(codes.DeadlineExceeded, "timeout receiving message")
	}
}
