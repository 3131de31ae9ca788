package main

import (
	"context"
	"crypto/tls"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/code-payments/code-sdk-go/pkg/code/paymentrequest"
	"github.com/code-payments/code-sdk-go/pkg/code/paymentrequest/transport"
	currency_lib "github.com/code-payments/code-sdk-go/pkg/currency"
	"github.com/code-payments/code-sdk-go/pkg/netutil"
)

const usage = `usage: paymentrequest [-config path] <command> [flags]

commands:
  encode   print the encoded payload, intent id and scan code for a request
  listen   create a payment request and log its events until interrupted
`

var (
	configPath = flag.String("config", "config.yaml", "configuration file path")
)

type requestFlags struct {
	payload        string
	amount         float64
	currency       string
	destination    string
	domain         string
	locale         string
	clientSecret   string
	idempotencyKey string
	successUrl     string
	cancelUrl      string
}

func (f *requestFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.payload, "payload", "", "previously encoded payload to resume")
	fs.Float64Var(&f.amount, "amount", 0, "amount to request")
	fs.StringVar(&f.currency, "currency", "usd", "currency of the amount")
	fs.StringVar(&f.destination, "destination", "", "base58 destination account")
	fs.StringVar(&f.domain, "domain", "", "optional requestor domain")
	fs.StringVar(&f.locale, "locale", "", "optional locale")
	fs.StringVar(&f.clientSecret, "client-secret", "", "optional client secret")
	fs.StringVar(&f.idempotencyKey, "idempotency-key", "", "optional idempotency key")
	fs.StringVar(&f.successUrl, "success-url", "", "optional url visited after a successful payment")
	fs.StringVar(&f.cancelUrl, "cancel-url", "", "optional url visited after a cancelled payment")
}

func (f *requestFlags) newSession(tr paymentrequest.Transport) (*paymentrequest.Session, error) {
	overrides := &paymentrequest.Overrides{
		ClientSecret:   f.clientSecret,
		IdempotencyKey: f.idempotencyKey,
		SuccessUrl:     f.successUrl,
		CancelUrl:      f.cancelUrl,
	}

	if len(f.payload) > 0 {
		return paymentrequest.NewSessionFromEncodedPayload(f.payload, overrides, tr)
	}

	opts := &paymentrequest.Options{
		Amount:      f.amount,
		Currency:    currency_lib.Code(f.currency),
		Destination: f.destination,
		Domain:      f.domain,
		Locale:      f.locale,
	}
	intent, err := paymentrequest.NewIntent(opts.Merge(overrides))
	if err != nil {
		return nil, err
	}
	return paymentrequest.NewSession(intent, tr), nil
}

func main() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	logger := logrus.StandardLogger().WithField("type", "cmd/paymentrequest")

	config, err := loadConfig(*configPath)
	if err != nil {
		logger.WithError(err).Error("failed to load config")
		os.Exit(1)
	}

	metricsProvider := newMetricsProvider(config)
	configureLogger(config, metricsProvider)

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	switch flag.Arg(0) {
	case "encode":
		err = runEncode(config, flag.Args()[1:])
	case "listen":
		err = runListen(config, metricsProvider, flag.Args()[1:])
	default:
		flag.Usage()
		os.Exit(2)
	}

	if metricsProvider != nil {
		metricsProvider.Shutdown(config.ShutdownGracePeriod)
	}

	if err != nil {
		logger.WithError(err).Error("command failed")
		os.Exit(1)
	}
}

func runEncode(config Config, args []string) error {
	var rf requestFlags
	fs := flag.NewFlagSet("encode", flag.ExitOnError)
	rf.register(fs)
	withSvg := fs.Bool("svg", true, "print the scan code as an svg")
	if err := fs.Parse(args); err != nil {
		return err
	}

	// Encoding never touches the transport
	session, err := rf.newSession(nil)
	if err != nil {
		return err
	}

	payload, err := session.ToEncodedPayload()
	if err != nil {
		return errors.Wrap(err, "error encoding payload")
	}

	fmt.Printf("payload:       %s\n", payload)
	fmt.Printf("intent id:     %s\n", session.GetIntentId())
	fmt.Printf("client secret: %s\n", session.GetClientSecret())

	if domain := session.GetIntent().GetOptions().Domain; len(domain) > 0 {
		displayName, err := netutil.GetDomainDisplayName(domain)
		if err != nil {
			return err
		}
		fmt.Printf("requestor:     %s\n", displayName)
	}

	if !*withSvg {
		return nil
	}

	code, err := session.GetPresentableCode()
	if err != nil {
		return err
	}

	description, err := code.ToDescription(config.SvgDimension)
	if err != nil {
		return errors.Wrap(err, "error rendering scan code")
	}

	fmt.Println(description.ToSvg(nil))
	return nil
}

func runListen(config Config, metricsProvider *newrelic.Application, args []string) error {
	var rf requestFlags
	fs := flag.NewFlagSet("listen", flag.ExitOnError)
	rf.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	if len(config.Endpoint) == 0 {
		return errors.New("must specify an endpoint")
	}

	creds := credentials.NewTLS(&tls.Config{})
	if config.Insecure {
		creds = insecure.NewCredentials()
	}

	cc, err := transport.Dial(config.Endpoint, grpc.WithTransportCredentials(creds))
	if err != nil {
		return errors.Wrap(err, "error dialing endpoint")
	}
	defer cc.Close()

	session, err := rf.newSession(transport.NewTransport(cc, transport.WithEnvConfigs()))
	if err != nil {
		return err
	}

	log := logrus.StandardLogger().WithFields(logrus.Fields{
		"type":   "cmd/paymentrequest",
		"intent": session.GetIntentId(),
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if metricsProvider != nil {
		txn := metricsProvider.StartTransaction("paymentrequest listen")
		defer txn.End()
		ctx = newrelic.NewContext(ctx, txn)
	}

	payload, err := session.ToEncodedPayload()
	if err != nil {
		return err
	}
	log.WithField("payload", payload).Info("listening for payment request events")

	var sessionErr error
	session.Open(ctx, paymentrequest.EventSinkFunc(func(event *paymentrequest.Event) {
		entry := log.WithField("event", event.Kind.String())
		if event.Message != nil && event.Message.Id != nil {
			entry = entry.WithField("message_id", fmt.Sprintf("%x", event.Message.Id.Value))
		}

		switch event.Kind {
		case paymentrequest.EventError:
			sessionErr = event.Err
			entry.WithError(event.Err).Warn("payment request error")
		default:
			entry.Info("payment request event")
		}
	}))

	select {
	case <-session.Done():
	case <-ctx.Done():
		log.Info("interrupted")
		session.Close()
		<-session.Done()
		return nil
	}

	return sessionErr
}
