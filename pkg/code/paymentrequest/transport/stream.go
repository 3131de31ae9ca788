package transport

import (
	"context"
	"io"
	"sync"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"google.golang.org/protobuf/types/known/timestamppb"

	commonpb "github.com/code-payments/code-protobuf-api/generated/go/common/v1"
	messagingpb "github.com/code-payments/code-protobuf-api/generated/go/messaging/v1"

	"github.com/code-payments/code-sdk-go/pkg/code/paymentrequest"
)

var errStreamNotOpened = errors.New("message stream has not been opened")

type messageStream struct {
	log       *logrus.Entry
	ctx       context.Context
	client    messagingpb.MessagingClient
	callbacks paymentrequest.StreamCallbacks

	closeOnce sync.Once

	// Guards stream creation and sends, which can happen from Write and from
	// pong replies within Read
	sendMu   sync.Mutex
	streamer messagingpb.Messaging_OpenMessageStreamWithKeepAliveClient
}

func newMessageStream(
	ctx context.Context,
	log *logrus.Entry,
	client messagingpb.MessagingClient,
	callbacks paymentrequest.StreamCallbacks,
) *messageStream {
	return &messageStream{
		log:       log,
		ctx:       ctx,
		client:    client,
		callbacks: callbacks,
	}
}

// Write implements paymentrequest.MessageStream.Write
func (s *messageStream) Write(req *messagingpb.OpenMessageStreamRequest) error {
	log := s.log.WithField("method", "Write")
	if req.RendezvousKey != nil {
		log = log.WithField("rendezvous_key", base58.Encode(req.RendezvousKey.Value))
	}

	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	if s.streamer == nil {
		streamer, err := s.client.OpenMessageStreamWithKeepAlive(s.ctx)
		if err != nil {
			log.WithError(err).Debug("failure opening message stream")
			s.onError(err)
			return err
		}
		s.streamer = streamer
	}

	err := s.streamer.Send(&messagingpb.OpenMessageStreamWithKeepAliveRequest{
		RequestOrPong: &messagingpb.OpenMessageStreamWithKeepAliveRequest_Request{
			Request: req,
		},
	})
	if err == io.EOF {
		// The stream was terminated, and the real status is only available
		// from a receive
		if _, recvErr := s.streamer.Recv(); recvErr != nil && recvErr != io.EOF {
			err = recvErr
		}
	}
	if err != nil {
		log.WithError(err).Debug("failure sending open stream request")
		s.onError(err)
		return err
	}

	log.Trace("subscribed to message stream")
	return nil
}

// Read implements paymentrequest.MessageStream.Read
func (s *messageStream) Read() (*messagingpb.OpenMessageStreamResponse, error) {
	log := s.log.WithField("method", "Read")

	s.sendMu.Lock()
	streamer := s.streamer
	s.sendMu.Unlock()

	if streamer == nil {
		return nil, errStreamNotOpened
	}

	for {
		resp, err := streamer.Recv()
		if err == io.EOF {
			s.closeOnce.Do(func() {
				if s.callbacks.OnClose != nil {
					s.callbacks.OnClose()
				}
			})
			return nil, io.EOF
		} else if err != nil {
			return nil, err
		}

		switch typed := resp.ResponseOrPing.(type) {
		case *messagingpb.OpenMessageStreamWithKeepAliveResponse_Response:
			return typed.Response, nil
		case *messagingpb.OpenMessageStreamWithKeepAliveResponse_Ping:
			log.Trace("received ping from server")

			// A failed pong is reported by the next Recv
			if err := s.sendPong(streamer); err != nil {
				log.WithError(err).Debug("failure sending pong")
			}
		default:
			log.Debug("ignoring response without a message batch or ping")
		}
	}
}

func (s *messageStream) sendPong(streamer messagingpb.Messaging_OpenMessageStreamWithKeepAliveClient) error {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	return streamer.Send(&messagingpb.OpenMessageStreamWithKeepAliveRequest{
		RequestOrPong: &messagingpb.OpenMessageStreamWithKeepAliveRequest_Pong{
			Pong: &commonpb.ClientPong{
				Timestamp: timestamppb.Now(),
			},
		},
	})
}

func (s *messageStream) onError(err error) {
	if s.callbacks.OnError != nil {
		s.callbacks.OnError(err)
	}
}
