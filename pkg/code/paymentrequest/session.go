package paymentrequest

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	messagingpb "github.com/code-payments/code-protobuf-api/generated/go/messaging/v1"

	currency_lib "github.com/code-payments/code-sdk-go/pkg/currency"
	"github.com/code-payments/code-sdk-go/pkg/kikcode"
	"github.com/code-payments/code-sdk-go/pkg/metrics"
)

const (
	metricsStructName = "paymentrequest.session"
)

var closedChannel = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

// Session negotiates and observes a single payment request over its
// rendezvous message stream.
//
// A session is attached to at most one EventSink at a time. Open starts an
// orchestration goroutine for the attachment, and every event it produces is
// dropped once the attachment is no longer current.
type Session struct {
	log       *logrus.Entry
	conf      *conf
	intent    *Intent
	transport Transport
	encoder   kikcode.Encoder

	codeMu sync.Mutex
	code   kikcode.KikCodePayload

	attachmentMu sync.Mutex
	generation   uint64
	current      *attachment
	latest       *attachment
}

type attachment struct {
	id         uuid.UUID
	generation uint64
	sink       EventSink
	cancel     context.CancelFunc
	done       chan struct{}
}

// Option configures a Session
type Option func(s *Session)

// WithConfigProvider overrides the environment based configuration
func WithConfigProvider(configProvider ConfigProvider) Option {
	return func(s *Session) {
		s.conf = configProvider()
	}
}

// WithCodeEncoder overrides the encoder used for the presentable code
func WithCodeEncoder(encoder kikcode.Encoder) Option {
	return func(s *Session) {
		s.encoder = encoder
	}
}

// NewSession wraps an existing intent. No remote calls are made until Open.
func NewSession(intent *Intent, transport Transport, opts ...Option) *Session {
	s := &Session{
		log: logrus.StandardLogger().WithFields(logrus.Fields{
			"type":   "paymentrequest/session",
			"intent": intent.GetIntentId(),
		}),
		conf:      WithEnvConfigs()(),
		intent:    intent,
		transport: transport,
		encoder:   kikcode.NewEncoder(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// NewSessionFromEncodedPayload decodes a payload produced by ToEncodedPayload,
// applies the overrides and wraps the resulting intent in a new session. Every
// failure, including decoded options that don't form a valid intent, results
// in a *DecodeError.
func NewSessionFromEncodedPayload(payload string, overrides *Overrides, transport Transport, opts ...Option) (*Session, error) {
	decoded, err := Decode(payload)
	if err != nil {
		return nil, err
	}

	intent, err := NewIntent(decoded.Merge(overrides))
	if err != nil {
		return nil, newDecodeError(errors.Wrap(err, "payload is not a valid payment request"))
	}

	return NewSession(intent, transport, opts...), nil
}

// ToEncodedPayload encodes the intent's options. The client secret is always
// included unless an idempotency key and client secret were both provided, so
// the payload alone can resume the same intent.
func (s *Session) ToEncodedPayload() (string, error) {
	opts := s.intent.GetOptions()
	if len(opts.ClientSecret) == 0 || len(opts.IdempotencyKey) == 0 {
		opts.ClientSecret = s.intent.GetClientSecret()
	}
	return Encode(opts)
}

// GetPresentableCode returns the encoded scan code for the rendezvous payload.
// The result is computed once and cached.
func (s *Session) GetPresentableCode() (kikcode.KikCodePayload, error) {
	s.codeMu.Lock()
	defer s.codeMu.Unlock()

	if s.code != nil {
		return s.code, nil
	}

	code, err := s.encoder.Encode(s.intent.GetKikCodePayload().ToBytes())
	if err != nil {
		return nil, errors.Wrap(err, "error encoding presentable code")
	}

	s.code = code
	return code, nil
}

func (s *Session) GetIntent() *Intent {
	return s.intent
}

func (s *Session) GetAmount() float64 {
	return s.intent.GetAmount()
}

func (s *Session) GetCurrency() currency_lib.Code {
	return s.intent.GetCurrency()
}

func (s *Session) GetDestination() string {
	return s.intent.GetDestination()
}

func (s *Session) GetIntentId() string {
	return s.intent.GetIntentId()
}

func (s *Session) GetClientSecret() string {
	return s.intent.GetClientSecret()
}

// Open attaches the sink and starts the payment request orchestration in the
// background. It never fails. All failures are delivered to the sink as
// EventError events.
//
// Opening an already open session cancels the previous attachment before the
// new one starts.
func (s *Session) Open(ctx context.Context, sink EventSink) {
	ctx, cancel := context.WithCancel(ctx)

	s.attachmentMu.Lock()
	if s.current != nil {
		s.log.WithField("attachment", s.current.id).Debug("replacing open attachment")
		s.current.cancel()
	}
	s.generation++
	a := &attachment{
		id:         uuid.New(),
		generation: s.generation,
		sink:       sink,
		cancel:     cancel,
		done:       make(chan struct{}),
	}
	s.current = a
	s.latest = a
	s.attachmentMu.Unlock()

	go func() {
		defer close(a.done)
		defer cancel()

		s.run(ctx, a)
	}()
}

// Close detaches the current sink and releases the underlying stream. Close is
// idempotent and may be called from within EventSink.Emit.
//
// Delivery is decided under the session lock, so once Close returns no new
// event is handed to the sink. When Close runs on another goroutine, an event
// whose delivery was already decided may still reach the sink, and at most one
// such event does.
func (s *Session) Close() {
	s.attachmentMu.Lock()
	defer s.attachmentMu.Unlock()

	if s.current == nil {
		return
	}

	s.log.WithField("attachment", s.current.id).Debug("closing attachment")

	s.current.cancel()
	s.current = nil
}

// Done returns a channel that's closed when the orchestration goroutine of the
// most recent attachment exits
func (s *Session) Done() <-chan struct{} {
	s.attachmentMu.Lock()
	defer s.attachmentMu.Unlock()

	if s.latest == nil {
		return closedChannel
	}
	return s.latest.done
}

func (s *Session) isCurrent(a *attachment) bool {
	s.attachmentMu.Lock()
	defer s.attachmentMu.Unlock()

	return s.current != nil && s.current.generation == a.generation
}

// emit delivers the event to the attachment's sink, provided it's still the
// current attachment. The sink is invoked without holding the lock, so it may
// call back into the session. Events of one attachment are emitted from its
// orchestration goroutine only, so at most one delivery is in flight.
func (s *Session) emit(a *attachment, event *Event) {
	log := s.log.WithFields(logrus.Fields{
		"attachment": a.id,
		"event":      event.Kind.String(),
	})

	s.attachmentMu.Lock()
	if s.current == nil || s.current.generation != a.generation {
		s.attachmentMu.Unlock()
		log.Trace("dropping event for detached sink")
		return
	}
	sink := a.sink
	s.attachmentMu.Unlock()

	sink.Emit(event)
}

func (s *Session) emitError(a *attachment, err error) {
	s.emit(a, &Event{
		Kind: EventError,
		Err:  err,
	})
}

func (s *Session) run(ctx context.Context, a *attachment) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "Open")
	tracer.AddAttribute("intent", s.intent.GetIntentId())
	defer tracer.End()

	log := s.log.WithFields(logrus.Fields{
		"method":     "run",
		"attachment": a.id,
	})

	_, err := s.GetPresentableCode()
	if err != nil {
		log.WithError(err).Warn("failure generating presentable code")
		tracer.OnError(err)
		s.emitError(a, err)
		return
	}

	stream, err := s.transport.OpenMessageStream(ctx, StreamCallbacks{
		OnClose: func() {
			s.emit(a, &Event{Kind: EventStreamClosed})
		},
		OnError: func(err error) {
			s.emitError(a, err)
		},
	})
	if err != nil {
		log.WithError(err).Warn("failure opening message stream")
		tracer.OnError(err)
		s.emitError(a, err)
		return
	}

	if !s.isCurrent(a) {
		return
	}

	err = s.createPaymentRequest(ctx, a)
	if err != nil {
		log.WithError(err).Warn("failure creating payment request")
		tracer.OnError(err)
		s.emitError(a, err)
		return
	}

	if !s.isCurrent(a) {
		return
	}

	subscribeReq, err := s.intent.ToOpenMessageStreamRequest()
	if err != nil {
		log.WithError(err).Warn("failure building subscribe request")
		tracer.OnError(err)
		s.emitError(a, err)
		return
	}

	// The stream's OnError callback has already reported the failure
	if err := stream.Write(subscribeReq); err != nil {
		log.WithError(err).Debug("failure writing subscribe request")
		tracer.OnError(err)
		return
	}

	s.relay(a, stream, log)
}

// createPaymentRequest sends the initial request message, unless the status
// probe reports the intent already exists
func (s *Session) createPaymentRequest(ctx context.Context, a *attachment) error {
	if !s.conf.disableStatusCheck.Get(ctx) {
		statusCtx, cancel := withOptionalTimeout(ctx, s.conf.statusTimeout.Get(ctx))
		statusResp, err := s.transport.GetStatus(statusCtx, s.intent.ToGetStatusRequest())
		cancel()
		if err != nil {
			return errors.Wrap(err, "error getting intent status")
		} else if statusResp.Exists {
			s.log.WithField("attachment", a.id).Debug("payment request already exists")
			return nil
		}
	}

	if !s.isCurrent(a) {
		return nil
	}

	sendReq, err := s.intent.ToSendMessageRequest()
	if err != nil {
		return err
	}

	sendCtx, cancel := withOptionalTimeout(ctx, s.conf.sendTimeout.Get(ctx))
	defer cancel()

	sendResp, err := s.transport.SendMessage(sendCtx, sendReq)
	if err != nil {
		return errors.Wrap(err, "error sending payment request")
	} else if sendResp.Result != messagingpb.SendMessageResponse_OK {
		return &RejectionError{Result: sendResp.Result}
	}
	return nil
}

func (s *Session) relay(a *attachment, stream MessageStream, log *logrus.Entry) {
	for {
		if !s.isCurrent(a) {
			return
		}

		resp, err := stream.Read()

		if !s.isCurrent(a) {
			return
		}

		if err == io.EOF {
			log.Debug("message stream closed by server")
			return
		} else if err != nil {
			log.WithError(err).Debug("failure reading message stream")
			s.emitError(a, err)
			return
		}

		for _, msg := range resp.Messages {
			if !s.isCurrent(a) {
				return
			}

			kind, ok := GetEventKindForMessage(msg)
			if !ok {
				log.Debug("skipping message with unknown kind")
				continue
			}

			s.emit(a, &Event{
				Kind:    kind,
				Message: msg,
			})
		}
	}
}

func withOptionalTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
