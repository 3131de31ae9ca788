package paymentrequest

import (
	"crypto/sha256"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"

	commonpb "github.com/code-payments/code-protobuf-api/generated/go/common/v1"
	messagingpb "github.com/code-payments/code-protobuf-api/generated/go/messaging/v1"
	micropaymentpb "github.com/code-payments/code-protobuf-api/generated/go/micropayment/v1"
	transactionpb "github.com/code-payments/code-protobuf-api/generated/go/transaction/v2"

	"github.com/code-payments/code-sdk-go/pkg/code/common"
	currency_lib "github.com/code-payments/code-sdk-go/pkg/currency"
	"github.com/code-payments/code-sdk-go/pkg/kikcode"
	"github.com/code-payments/code-sdk-go/pkg/kin"
	"github.com/code-payments/code-sdk-go/pkg/netutil"
)

// Intent is an immutable payment request along with the rendezvous identity
// that addresses its message stream. The rendezvous identity is derived from
// the scan code payload, so it is fixed for the lifetime of the intent.
type Intent struct {
	options     *Options
	destination *common.Account

	nonce             kikcode.IdempotencyKey
	kikCodePayload    *kikcode.Payload
	rendezvousAccount *common.Account
}

// NewIntent validates the options and derives the intent's identity.
//
// The scan code nonce is derived from the idempotency key when provided,
// otherwise from the client secret, otherwise it's random. The client secret
// is always the base58 encoding of the nonce, and a client secret provided
// alongside an idempotency key is replaced with it.
func NewIntent(opts *Options) (*Intent, error) {
	if opts == nil {
		return nil, errors.New("options are nil")
	}
	opts = opts.Clone()

	if opts.Amount <= 0 {
		return nil, errors.New("amount must be positive")
	}

	currency, ok := currency_lib.Parse(string(opts.Currency))
	if !ok {
		return nil, errors.Errorf("%s currency is not supported", opts.Currency)
	}
	opts.Currency = currency

	if !currency_lib.HasValidPrecision(currency, opts.Amount) {
		return nil, errors.Errorf("%s currency supports at most %d decimal places", currency, currency_lib.GetDecimals(currency))
	}

	destination, err := common.NewAccountFromPublicKeyString(opts.Destination)
	if err != nil {
		return nil, errors.Wrap(err, "destination is not a public key")
	}

	if opts.ConfirmParams.Success != nil {
		if err := netutil.ValidateHttpUrl(opts.ConfirmParams.Success.Url, false); err != nil {
			return nil, errors.Wrap(err, "invalid success url")
		}
	}
	if opts.ConfirmParams.Cancel != nil {
		if err := netutil.ValidateHttpUrl(opts.ConfirmParams.Cancel.Url, false); err != nil {
			return nil, errors.Wrap(err, "invalid cancel url")
		}
	}

	if len(opts.Domain) > 0 {
		baseDomain, err := netutil.GetAsciiBaseDomain(opts.Domain)
		if err != nil {
			return nil, errors.Wrap(err, "invalid domain")
		}
		opts.Domain = baseDomain
	}

	var clientSecretNonce *kikcode.IdempotencyKey
	if len(opts.ClientSecret) > 0 {
		decoded, err := base58.Decode(opts.ClientSecret)
		if err != nil {
			return nil, errors.Wrap(err, "client secret is not valid base58")
		}
		nonce, err := kikcode.NewIdempotencyKeyFromBytes(decoded)
		if err != nil {
			return nil, errors.Wrap(err, "invalid client secret")
		}
		clientSecretNonce = &nonce
	}

	var nonce kikcode.IdempotencyKey
	switch {
	case len(opts.IdempotencyKey) > 0:
		nonce = deriveNonceFromIdempotencyKey(opts.IdempotencyKey)
	case clientSecretNonce != nil:
		nonce = *clientSecretNonce
	default:
		nonce = kikcode.GenerateRandomIdempotencyKey()
	}

	// The idempotency key takes precedence over a provided client secret
	if len(opts.ClientSecret) > 0 {
		opts.ClientSecret = base58.Encode(nonce[:])
	}

	kikCodePayload, err := kikcode.NewPayloadFromFiatAmount(kikcode.PaymentRequest, currency, opts.Amount, nonce)
	if err != nil {
		return nil, err
	}

	rendezvousAccount, err := kikCodePayload.ToRendezvousAccount()
	if err != nil {
		return nil, errors.Wrap(err, "error deriving rendezvous key")
	}

	return &Intent{
		options:     opts,
		destination: destination,

		nonce:             nonce,
		kikCodePayload:    kikCodePayload,
		rendezvousAccount: rendezvousAccount,
	}, nil
}

func deriveNonceFromIdempotencyKey(idempotencyKey string) kikcode.IdempotencyKey {
	var nonce kikcode.IdempotencyKey
	hashed := sha256.Sum256([]byte(idempotencyKey))
	copy(nonce[:], hashed[:])
	return nonce
}

// GetOptions returns a copy of the options the intent was created with
func (i *Intent) GetOptions() *Options {
	return i.options.Clone()
}

func (i *Intent) GetAmount() float64 {
	return i.options.Amount
}

func (i *Intent) GetCurrency() currency_lib.Code {
	return i.options.Currency
}

func (i *Intent) GetDestination() string {
	return i.destination.PublicKey().ToBase58()
}

// GetIntentId returns the deterministic identifier of the intent, which is
// the base58 encoded rendezvous public key
func (i *Intent) GetIntentId() string {
	return i.rendezvousAccount.PublicKey().ToBase58()
}

func (i *Intent) GetClientSecret() string {
	return base58.Encode(i.nonce[:])
}

func (i *Intent) GetKikCodePayload() *kikcode.Payload {
	return i.kikCodePayload
}

func (i *Intent) GetRendezvousAccount() *common.Account {
	return i.rendezvousAccount
}

// ToProtoMessage builds the RequestToReceiveBill message for the intent. Kin
// amounts carry exact exchange data, while fiat amounts are left for the
// server to convert.
func (i *Intent) ToProtoMessage() *messagingpb.Message {
	var msg *messagingpb.RequestToReceiveBill
	if i.options.Currency == currency_lib.KIN {
		msg = &messagingpb.RequestToReceiveBill{
			ExchangeData: &messagingpb.RequestToReceiveBill_Exact{
				Exact: &transactionpb.ExchangeData{
					Currency:     string(i.options.Currency),
					ExchangeRate: 1.0,
					NativeAmount: i.options.Amount,
					Quarks:       kin.FloatToQuarks(i.options.Amount),
				},
			},
		}
	} else {
		msg = &messagingpb.RequestToReceiveBill{
			ExchangeData: &messagingpb.RequestToReceiveBill_Partial{
				Partial: &transactionpb.ExchangeDataWithoutRate{
					Currency:     string(i.options.Currency),
					NativeAmount: i.options.Amount,
				},
			},
		}
	}

	msg.RequestorAccount = i.destination.ToProto()

	if len(i.options.Domain) > 0 {
		msg.Domain = &commonpb.Domain{
			Value: i.options.Domain,
		}
	}

	return &messagingpb.Message{
		Kind: &messagingpb.Message_RequestToReceiveBill{
			RequestToReceiveBill: msg,
		},
	}
}

// ToSendMessageRequest builds the initial request message, signed by the
// rendezvous private key
func (i *Intent) ToSendMessageRequest() (*messagingpb.SendMessageRequest, error) {
	req := &messagingpb.SendMessageRequest{
		RendezvousKey: i.rendezvousAccount.ToRendezvousKey(),
		Message:       i.ToProtoMessage(),
	}

	signature, err := i.rendezvousAccount.SignProto(req.Message)
	if err != nil {
		return nil, errors.Wrap(err, "error signing message")
	}
	req.Signature = signature

	return req, nil
}

// ToOpenMessageStreamRequest builds the signed subscribe frame for the
// rendezvous stream
func (i *Intent) ToOpenMessageStreamRequest() (*messagingpb.OpenMessageStreamRequest, error) {
	req := &messagingpb.OpenMessageStreamRequest{
		RendezvousKey: i.rendezvousAccount.ToRendezvousKey(),
	}

	signature, err := i.rendezvousAccount.SignProto(req)
	if err != nil {
		return nil, errors.Wrap(err, "error signing request")
	}
	req.Signature = signature

	return req, nil
}

func (i *Intent) ToGetStatusRequest() *micropaymentpb.GetStatusRequest {
	return &micropaymentpb.GetStatusRequest{
		IntentId: i.rendezvousAccount.ToIntentId(),
	}
}
