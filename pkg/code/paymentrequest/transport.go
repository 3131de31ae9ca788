package paymentrequest

import (
	"context"

	messagingpb "github.com/code-payments/code-protobuf-api/generated/go/messaging/v1"
	micropaymentpb "github.com/code-payments/code-protobuf-api/generated/go/micropayment/v1"
)

// Transport is the set of remote calls a session is built on
type Transport interface {
	// GetStatus probes the micro payment service for an intent
	GetStatus(ctx context.Context, req *micropaymentpb.GetStatusRequest) (*micropaymentpb.GetStatusResponse, error)

	// SendMessage sends a message over the messaging service
	SendMessage(ctx context.Context, req *messagingpb.SendMessageRequest) (*messagingpb.SendMessageResponse, error)

	// OpenMessageStream creates a message stream bound to ctx. Cancelling ctx
	// releases the stream. Failures to establish the stream may be deferred to
	// the first Write.
	OpenMessageStream(ctx context.Context, callbacks StreamCallbacks) (MessageStream, error)
}

// MessageStream is a bidirectional message stream. It cannot be restarted
// once closed.
type MessageStream interface {
	// Write sends the subscribe frame. If the stream cannot be established or
	// the frame cannot be written, StreamCallbacks.OnError is invoked and the
	// error is also returned.
	Write(req *messagingpb.OpenMessageStreamRequest) error

	// Read blocks for the next batch of messages. io.EOF is returned after the
	// far end closes the stream, at which point StreamCallbacks.OnClose has
	// been invoked.
	Read() (*messagingpb.OpenMessageStreamResponse, error)
}

// StreamCallbacks are invoked synchronously from within MessageStream calls.
// Either may be nil.
type StreamCallbacks struct {
	OnClose func()
	OnError func(err error)
}
