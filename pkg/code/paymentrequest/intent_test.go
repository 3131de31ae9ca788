package paymentrequest

import (
	"crypto/sha256"
	"strings"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/code-sdk-go/pkg/kikcode"
	"github.com/code-payments/code-sdk-go/pkg/kin"
	"github.com/code-payments/code-sdk-go/pkg/testutil"
)

func TestNewIntent_Validation(t *testing.T) {
	destination := testutil.NewRandomAccount(t).PublicKey().ToBase58()

	valid := func() *Options {
		return &Options{
			Amount:      1.25,
			Currency:    "USD",
			Destination: destination,
			ConfirmParams: ConfirmParams{
				Success: &ConfirmUrl{Url: "https://example.com/success"},
				Cancel:  &ConfirmUrl{Url: "https://example.com/cancel"},
			},
			Domain: "example.com",
		}
	}

	intent, err := NewIntent(valid())
	require.NoError(t, err)
	assert.EqualValues(t, "usd", intent.GetCurrency())

	for _, tc := range []struct {
		name   string
		mutate func(opts *Options)
	}{
		{"zero amount", func(opts *Options) { opts.Amount = 0 }},
		{"negative amount", func(opts *Options) { opts.Amount = -1 }},
		{"too precise", func(opts *Options) { opts.Amount = 1.001 }},
		{"unknown currency", func(opts *Options) { opts.Currency = "abc" }},
		{"invalid destination", func(opts *Options) { opts.Destination = "not-a-key" }},
		{"empty destination", func(opts *Options) { opts.Destination = "" }},
		{"invalid success url", func(opts *Options) { opts.ConfirmParams.Success.Url = "ftp://example.com" }},
		{"invalid cancel url", func(opts *Options) { opts.ConfirmParams.Cancel.Url = "https://" }},
		{"invalid domain", func(opts *Options) { opts.Domain = strings.Repeat("a", 300) }},
		{"invalid client secret", func(opts *Options) { opts.ClientSecret = "0OIl" }},
		{"wrong size client secret", func(opts *Options) { opts.ClientSecret = base58.Encode([]byte{1, 2, 3}) }},
		{"amount too large", func(opts *Options) { opts.Amount = 1e18 }},
	} {
		opts := valid()
		tc.mutate(opts)
		_, err := NewIntent(opts)
		assert.Error(t, err, tc.name)
	}

	_, err = NewIntent(nil)
	assert.Error(t, err)
}

func TestNewIntent_NonceDerivation(t *testing.T) {
	destination := testutil.NewRandomAccount(t).PublicKey().ToBase58()

	// Random
	intent1, err := NewIntent(&Options{Amount: 1, Currency: "usd", Destination: destination})
	require.NoError(t, err)
	intent2, err := NewIntent(&Options{Amount: 1, Currency: "usd", Destination: destination})
	require.NoError(t, err)
	assert.NotEqual(t, intent1.GetClientSecret(), intent2.GetClientSecret())
	assert.NotEqual(t, intent1.GetIntentId(), intent2.GetIntentId())

	// Client secret
	fromSecret, err := NewIntent(&Options{Amount: 1, Currency: "usd", Destination: destination, ClientSecret: intent1.GetClientSecret()})
	require.NoError(t, err)
	assert.Equal(t, intent1.GetClientSecret(), fromSecret.GetClientSecret())
	assert.Equal(t, intent1.GetIntentId(), fromSecret.GetIntentId())

	// Idempotency key takes precedence over the client secret
	hashed := sha256.Sum256([]byte("order-1234"))
	var expected kikcode.IdempotencyKey
	copy(expected[:], hashed[:])

	fromKey, err := NewIntent(&Options{Amount: 1, Currency: "usd", Destination: destination, IdempotencyKey: "order-1234"})
	require.NoError(t, err)
	assert.Equal(t, expected, fromKey.GetKikCodePayload().GetIdempotencyKey())
	assert.Equal(t, base58.Encode(expected[:]), fromKey.GetClientSecret())

	fromBoth, err := NewIntent(&Options{Amount: 1, Currency: "usd", Destination: destination, IdempotencyKey: "order-1234", ClientSecret: intent1.GetClientSecret()})
	require.NoError(t, err)
	assert.Equal(t, fromKey.GetIntentId(), fromBoth.GetIntentId())
	assert.Equal(t, fromKey.GetClientSecret(), fromBoth.GetClientSecret())
	assert.Equal(t, fromBoth.GetClientSecret(), fromBoth.GetOptions().ClientSecret)

	// The intent id depends on the amount
	otherAmount, err := NewIntent(&Options{Amount: 2, Currency: "usd", Destination: destination, IdempotencyKey: "order-1234"})
	require.NoError(t, err)
	assert.NotEqual(t, fromKey.GetIntentId(), otherAmount.GetIntentId())
}

func TestNewIntent_RendezvousIdentity(t *testing.T) {
	destination := testutil.NewRandomAccount(t).PublicKey().ToBase58()

	intent, err := NewIntent(&Options{Amount: 10, Currency: "cad", Destination: destination})
	require.NoError(t, err)

	expected, err := intent.GetKikCodePayload().ToRendezvousAccount()
	require.NoError(t, err)
	assert.Equal(t, expected.PublicKey().ToBase58(), intent.GetIntentId())
	assert.NotNil(t, intent.GetRendezvousAccount().PrivateKey())
	require.NoError(t, intent.GetRendezvousAccount().Validate())

	currency, amount, ok := intent.GetKikCodePayload().GetFiatAmount()
	require.True(t, ok)
	assert.EqualValues(t, "cad", currency)
	assert.Equal(t, 10.0, amount)
	assert.Equal(t, kikcode.PaymentRequest, intent.GetKikCodePayload().GetKind())
}

func TestIntent_ToProtoMessage(t *testing.T) {
	destinationAccount := testutil.NewRandomAccount(t)
	destination := destinationAccount.PublicKey().ToBase58()

	fiat, err := NewIntent(&Options{Amount: 2.5, Currency: "eur", Destination: destination})
	require.NoError(t, err)

	msg := fiat.ToProtoMessage().GetRequestToReceiveBill()
	require.NotNil(t, msg)
	assert.Equal(t, destinationAccount.PublicKey().ToBytes(), msg.RequestorAccount.Value)
	require.NotNil(t, msg.GetPartial())
	assert.Equal(t, "eur", msg.GetPartial().Currency)
	assert.Equal(t, 2.5, msg.GetPartial().NativeAmount)
	assert.Nil(t, msg.GetExact())
	assert.Nil(t, msg.Domain)

	kinIntent, err := NewIntent(&Options{Amount: 100.5, Currency: "kin", Destination: destination, Domain: "Pay.Example.com"})
	require.NoError(t, err)

	msg = kinIntent.ToProtoMessage().GetRequestToReceiveBill()
	require.NotNil(t, msg.GetExact())
	assert.Equal(t, "kin", msg.GetExact().Currency)
	assert.Equal(t, 1.0, msg.GetExact().ExchangeRate)
	assert.Equal(t, 100.5, msg.GetExact().NativeAmount)
	assert.Equal(t, kin.ToQuarks(101), msg.GetExact().Quarks)
	assert.Equal(t, "example.com", msg.Domain.Value)
	assert.Equal(t, "example.com", kinIntent.GetOptions().Domain)
}

func TestIntent_SignedRequests(t *testing.T) {
	destination := testutil.NewRandomAccount(t).PublicKey().ToBase58()

	intent, err := NewIntent(&Options{Amount: 3, Currency: "usd", Destination: destination})
	require.NoError(t, err)
	rendezvousAccount := intent.GetRendezvousAccount()

	sendReq, err := intent.ToSendMessageRequest()
	require.NoError(t, err)
	assert.Equal(t, rendezvousAccount.PublicKey().ToBytes(), sendReq.RendezvousKey.Value)
	verified, err := rendezvousAccount.VerifyProto(sendReq.Message, sendReq.Signature)
	require.NoError(t, err)
	assert.True(t, verified)

	subscribeReq, err := intent.ToOpenMessageStreamRequest()
	require.NoError(t, err)
	signature := subscribeReq.Signature
	subscribeReq.Signature = nil
	verified, err = rendezvousAccount.VerifyProto(subscribeReq, signature)
	require.NoError(t, err)
	assert.True(t, verified)

	statusReq := intent.ToGetStatusRequest()
	assert.Equal(t, rendezvousAccount.PublicKey().ToBytes(), statusReq.IntentId.Value)
}

func TestIntent_OptionsAreCopied(t *testing.T) {
	destination := testutil.NewRandomAccount(t).PublicKey().ToBase58()

	opts := &Options{
		Amount:      3,
		Currency:    "usd",
		Destination: destination,
		ConfirmParams: ConfirmParams{
			Success: &ConfirmUrl{Url: "https://example.com/success"},
		},
	}
	intent, err := NewIntent(opts)
	require.NoError(t, err)

	opts.Amount = 4
	opts.ConfirmParams.Success.Url = "https://example.com/changed"

	assert.Equal(t, 3.0, intent.GetAmount())
	assert.Equal(t, "https://example.com/success", intent.GetOptions().ConfirmParams.Success.Url)

	intent.GetOptions().ConfirmParams.Success.Url = "https://example.com/changed"
	assert.Equal(t, "https://example.com/success", intent.GetOptions().ConfirmParams.Success.Url)
}
