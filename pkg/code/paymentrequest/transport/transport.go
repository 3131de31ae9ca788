package transport

import (
	"context"

	grpc_middleware "github.com/grpc-ecosystem/go-grpc-middleware"
	"github.com/mr-tron/base58"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/proto"

	messagingpb "github.com/code-payments/code-protobuf-api/generated/go/messaging/v1"
	micropaymentpb "github.com/code-payments/code-protobuf-api/generated/go/micropayment/v1"

	"github.com/code-payments/code-sdk-go/pkg/cache"
	"github.com/code-payments/code-sdk-go/pkg/code/paymentrequest"
	"github.com/code-payments/code-sdk-go/pkg/grpc/protobuf/validation"
	"github.com/code-payments/code-sdk-go/pkg/metrics"
	rate_limit "github.com/code-payments/code-sdk-go/pkg/rate"
	"github.com/code-payments/code-sdk-go/pkg/retry"
	"github.com/code-payments/code-sdk-go/pkg/retry/backoff"
)

const (
	metricsStructName = "paymentrequest.transport"

	maxTrackedRendezvousKeys = 1000
)

type grpcTransport struct {
	log  *logrus.Entry
	conf *conf

	messagingClient    messagingpb.MessagingClient
	microPaymentClient micropaymentpb.MicroPaymentClient

	sendLimiter rate_limit.Limiter

	// Statuses of submitted intents, which are final
	statusCache cache.Cache[*micropaymentpb.GetStatusResponse]
}

// Dial creates a client connection that validates requests and responses
// against their proto definitions
func Dial(target string, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	opts = append(
		opts,
		grpc.WithUnaryInterceptor(grpc_middleware.ChainUnaryClient(
			validation.UnaryClientInterceptor(),
		)),
		grpc.WithStreamInterceptor(grpc_middleware.ChainStreamClient(
			validation.StreamClientInterceptor(),
		)),
	)
	return grpc.NewClient(target, opts...)
}

// NewTransport returns a paymentrequest.Transport backed by the Messaging and
// MicroPayment gRPC services
func NewTransport(cc grpc.ClientConnInterface, configProvider ConfigProvider) paymentrequest.Transport {
	t := &grpcTransport{
		log:                logrus.StandardLogger().WithField("type", "paymentrequest/transport"),
		conf:               configProvider(),
		messagingClient:    messagingpb.NewMessagingClient(cc),
		microPaymentClient: micropaymentpb.NewMicroPaymentClient(cc),
		sendLimiter:        &rate_limit.NoLimiter{},
	}

	ctx := context.Background()

	maxSendsPerSecond := t.conf.maxSendsPerSecond.Get(ctx)
	if maxSendsPerSecond > 0 {
		t.sendLimiter = rate_limit.NewLocalRateLimiter(rate.Limit(maxSendsPerSecond), int(maxSendsPerSecond), maxTrackedRendezvousKeys)
	}

	statusCacheSize := t.conf.statusCacheSize.Get(ctx)
	if statusCacheSize > 0 {
		t.statusCache = cache.NewCache[*micropaymentpb.GetStatusResponse](int(statusCacheSize))
	}

	return t
}

// GetStatus implements paymentrequest.Transport.GetStatus
func (t *grpcTransport) GetStatus(ctx context.Context, req *micropaymentpb.GetStatusRequest) (*micropaymentpb.GetStatusResponse, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "GetStatus")
	defer tracer.End()

	var cacheKey string
	if t.statusCache != nil && req.IntentId != nil {
		cacheKey = base58.Encode(req.IntentId.Value)
		if cached, ok := t.statusCache.Retrieve(cacheKey); ok {
			tracer.AddAttribute("cached", true)
			return proto.Clone(cached).(*micropaymentpb.GetStatusResponse), nil
		}
	}

	var resp *micropaymentpb.GetStatusResponse
	_, err := t.newUnaryRetrier(ctx).Retry(ctx, func() error {
		var err error
		resp, err = t.microPaymentClient.GetStatus(ctx, req)
		return err
	})
	if err != nil {
		tracer.OnError(err)
		return nil, err
	}

	if len(cacheKey) > 0 && resp.IntentSubmitted {
		t.statusCache.Insert(cacheKey, proto.Clone(resp).(*micropaymentpb.GetStatusResponse), 1)
	}
	return resp, nil
}

// SendMessage implements paymentrequest.Transport.SendMessage
//
// Retrying is safe since the message is signed and addressed by the
// rendezvous key, which the server deduplicates on.
func (t *grpcTransport) SendMessage(ctx context.Context, req *messagingpb.SendMessageRequest) (*messagingpb.SendMessageResponse, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "SendMessage")
	defer tracer.End()

	if req.RendezvousKey != nil && !t.sendLimiter.Allow(base58.Encode(req.RendezvousKey.Value)) {
		err := status.Error(codes.ResourceExhausted, "send rate exceeded for rendezvous key")
		tracer.OnError(err)
		return nil, err
	}

	var resp *messagingpb.SendMessageResponse
	_, err := t.newUnaryRetrier(ctx).Retry(ctx, func() error {
		var err error
		resp, err = t.messagingClient.SendMessage(ctx, req)
		return err
	})
	if err != nil {
		tracer.OnError(err)
		return nil, err
	}
	return resp, nil
}

// OpenMessageStream implements paymentrequest.Transport.OpenMessageStream
//
// The underlying keep alive stream is only opened on the first Write, since
// the server expects the subscribe request shortly after the stream opens.
func (t *grpcTransport) OpenMessageStream(ctx context.Context, callbacks paymentrequest.StreamCallbacks) (paymentrequest.MessageStream, error) {
	return newMessageStream(ctx, t.log, t.messagingClient, callbacks), nil
}

func (t *grpcTransport) newUnaryRetrier(ctx context.Context) retry.Retrier {
	return retry.NewRetrier(
		retry.RetriableGRPCCodes(codes.Unavailable),
		retry.Limit(uint(t.conf.unaryRetryLimit.Get(ctx))),
		retry.BackoffWithJitter(
			backoff.BinaryExponential(t.conf.unaryRetryBaseBackoff.Get(ctx)),
			t.conf.unaryRetryMaxBackoff.Get(ctx),
			0.1,
		),
	)
}
