package paymentrequest

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	messagingpb "github.com/code-payments/code-protobuf-api/generated/go/messaging/v1"
	micropaymentpb "github.com/code-payments/code-protobuf-api/generated/go/micropayment/v1"

	"github.com/code-payments/code-sdk-go/pkg/kikcode"
	"github.com/code-payments/code-sdk-go/pkg/testutil"
)

type mockTransport struct {
	t *testing.T

	statusFunc func(ctx context.Context, req *micropaymentpb.GetStatusRequest) (*micropaymentpb.GetStatusResponse, error)
	sendFunc   func(ctx context.Context, req *messagingpb.SendMessageRequest) (*messagingpb.SendMessageResponse, error)
	openErr    error
	writeErr   error

	mu           sync.Mutex
	statusCalls  int
	sendRequests []*messagingpb.SendMessageRequest
	streams      []*mockStream
}

func newMockTransport(t *testing.T) *mockTransport {
	return &mockTransport{
		t: t,
		statusFunc: func(_ context.Context, _ *micropaymentpb.GetStatusRequest) (*micropaymentpb.GetStatusResponse, error) {
			return &micropaymentpb.GetStatusResponse{}, nil
		},
		sendFunc: func(_ context.Context, _ *messagingpb.SendMessageRequest) (*messagingpb.SendMessageResponse, error) {
			return &messagingpb.SendMessageResponse{Result: messagingpb.SendMessageResponse_OK}, nil
		},
	}
}

func (m *mockTransport) GetStatus(ctx context.Context, req *micropaymentpb.GetStatusRequest) (*micropaymentpb.GetStatusResponse, error) {
	m.mu.Lock()
	m.statusCalls++
	m.mu.Unlock()

	return m.statusFunc(ctx, req)
}

func (m *mockTransport) SendMessage(ctx context.Context, req *messagingpb.SendMessageRequest) (*messagingpb.SendMessageResponse, error) {
	m.mu.Lock()
	m.sendRequests = append(m.sendRequests, req)
	m.mu.Unlock()

	return m.sendFunc(ctx, req)
}

func (m *mockTransport) OpenMessageStream(ctx context.Context, callbacks StreamCallbacks) (MessageStream, error) {
	if m.openErr != nil {
		return nil, m.openErr
	}

	stream := &mockStream{
		ctx:       ctx,
		callbacks: callbacks,
		writeErr:  m.writeErr,
		items:     make(chan *streamItem, 16),
	}

	m.mu.Lock()
	m.streams = append(m.streams, stream)
	m.mu.Unlock()

	return stream, nil
}

func (m *mockTransport) getStatusCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.statusCalls
}

func (m *mockTransport) getSendRequests() []*messagingpb.SendMessageRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*messagingpb.SendMessageRequest(nil), m.sendRequests...)
}

func (m *mockTransport) getStreams() []*mockStream {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*mockStream(nil), m.streams...)
}

// waitForSubscribedStream waits until the nth opened stream has received its
// subscribe frame
func (m *mockTransport) waitForSubscribedStream(n int) *mockStream {
	var stream *mockStream
	require.NoError(m.t, testutil.WaitFor(time.Second, 5*time.Millisecond, func() bool {
		streams := m.getStreams()
		if len(streams) < n {
			return false
		}
		stream = streams[n-1]
		return len(stream.getWrites()) > 0
	}))
	return stream
}

type streamItem struct {
	resp *messagingpb.OpenMessageStreamResponse
	err  error
}

type mockStream struct {
	ctx       context.Context
	callbacks StreamCallbacks
	writeErr  error
	items     chan *streamItem

	mu     sync.Mutex
	writes []*messagingpb.OpenMessageStreamRequest
}

func (s *mockStream) Write(req *messagingpb.OpenMessageStreamRequest) error {
	s.mu.Lock()
	s.writes = append(s.writes, req)
	s.mu.Unlock()

	if s.writeErr != nil {
		if s.callbacks.OnError != nil {
			s.callbacks.OnError(s.writeErr)
		}
		return s.writeErr
	}
	return nil
}

func (s *mockStream) Read() (*messagingpb.OpenMessageStreamResponse, error) {
	select {
	case item, ok := <-s.items:
		if !ok {
			if s.callbacks.OnClose != nil {
				s.callbacks.OnClose()
			}
			return nil, io.EOF
		}
		return item.resp, item.err
	case <-s.ctx.Done():
		return nil, s.ctx.Err()
	}
}

func (s *mockStream) getWrites() []*messagingpb.OpenMessageStreamRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*messagingpb.OpenMessageStreamRequest(nil), s.writes...)
}

func (s *mockStream) pushMessages(messages ...*messagingpb.Message) {
	s.items <- &streamItem{
		resp: &messagingpb.OpenMessageStreamResponse{
			Messages: messages,
		},
	}
}

func (s *mockStream) pushError(err error) {
	s.items <- &streamItem{err: err}
}

func (s *mockStream) closeFromServer() {
	close(s.items)
}

type recordingSink struct {
	mu     sync.Mutex
	events []*Event
	onEmit func(event *Event)
}

func (s *recordingSink) Emit(event *Event) {
	s.mu.Lock()
	s.events = append(s.events, event)
	onEmit := s.onEmit
	s.mu.Unlock()

	if onEmit != nil {
		onEmit(event)
	}
}

func (s *recordingSink) getEvents() []*Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*Event(nil), s.events...)
}

func (s *recordingSink) getKinds() []EventKind {
	var kinds []EventKind
	for _, event := range s.getEvents() {
		kinds = append(kinds, event.Kind)
	}
	return kinds
}

func (s *recordingSink) waitForEvents(t *testing.T, n int) []*Event {
	require.NoError(t, testutil.WaitFor(time.Second, 5*time.Millisecond, func() bool {
		return len(s.getEvents()) >= n
	}))
	return s.getEvents()
}

type countingEncoder struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (e *countingEncoder) Encode(payload []byte) (kikcode.KikCodePayload, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	return kikcode.NewEncoder().Encode(payload)
}

func (e *countingEncoder) getCalls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}
