package paymentrequest

import (
	"encoding/base64"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	currency_lib "github.com/code-payments/code-sdk-go/pkg/currency"
	"github.com/code-payments/code-sdk-go/pkg/testutil"
)

func TestCodec_RoundTrip(t *testing.T) {
	destination := testutil.NewRandomAccount(t).PublicKey().ToBase58()

	for _, opts := range []*Options{
		{
			Amount:      500,
			Currency:    currency_lib.USD,
			Destination: destination,
		},
		{
			Amount:         0.01,
			Currency:       currency_lib.CAD,
			Destination:    destination,
			ClientSecret:   "3FZbgi29cpjq2GjdwV8eyHu",
			IdempotencyKey: "order-1234",
			ConfirmParams: ConfirmParams{
				Success: &ConfirmUrl{Url: "https://example.com/success?order=1234"},
				Cancel:  &ConfirmUrl{Url: "https://example.com/cancel"},
			},
			Domain: "example.com",
			Locale: "fr-CA",
		},
		{
			Amount:      12345.67891,
			Currency:    currency_lib.KIN,
			Destination: destination,
			ConfirmParams: ConfirmParams{
				Cancel: &ConfirmUrl{Url: "https://example.com/cancel"},
			},
		},
	} {
		encoded, err := Encode(opts)
		require.NoError(t, err)

		_, err = base64.RawURLEncoding.DecodeString(encoded)
		require.NoError(t, err)

		decoded, err := Decode(encoded)
		require.NoError(t, err)
		assert.Equal(t, opts, decoded)
	}
}

func TestCodec_DecodeErrors(t *testing.T) {
	for _, payload := range []string{
		"",
		"not base64!",
		base64.RawURLEncoding.EncodeToString([]byte("not json")),
		base64.RawURLEncoding.EncodeToString([]byte(`{"a":"not a number"}`)),
	} {
		_, err := Decode(payload)
		require.Error(t, err, payload)
		assert.True(t, IsDecodeError(err), payload)

		var decodeErr *DecodeError
		assert.True(t, errors.As(err, &decodeErr))
		assert.NotNil(t, errors.Cause(decodeErr))
	}

	assert.False(t, IsDecodeError(errors.New("other")))

	_, err := Encode(nil)
	assert.Error(t, err)
}

func TestEncodedPayload_Scenario(t *testing.T) {
	destination := testutil.NewRandomAccount(t).PublicKey().ToBase58()

	intent, err := NewIntent(&Options{
		Amount:      500,
		Currency:    "usd",
		Destination: destination,
	})
	require.NoError(t, err)

	session := NewSession(intent, newMockTransport(t), WithConfigProvider(withManualTestOverrides(&testOverrides{})))

	encoded, err := session.ToEncodedPayload()
	require.NoError(t, err)

	decoded, err := NewSessionFromEncodedPayload(encoded, nil, newMockTransport(t))
	require.NoError(t, err)

	assert.Equal(t, 500.0, decoded.GetAmount())
	assert.Equal(t, currency_lib.USD, decoded.GetCurrency())
	assert.Equal(t, destination, decoded.GetDestination())
	assert.NotEmpty(t, decoded.GetClientSecret())

	// The client secret is stable across re-decoding, so both sessions
	// address the same intent
	assert.Equal(t, session.GetClientSecret(), decoded.GetClientSecret())
	assert.Equal(t, session.GetIntentId(), decoded.GetIntentId())

	reencoded, err := decoded.ToEncodedPayload()
	require.NoError(t, err)
	assert.Equal(t, encoded, reencoded)
}

func TestEncodedPayload_IdempotencyKey(t *testing.T) {
	destination := testutil.NewRandomAccount(t).PublicKey().ToBase58()

	intent, err := NewIntent(&Options{
		Amount:         10,
		Currency:       "usd",
		Destination:    destination,
		IdempotencyKey: "order-1234",
	})
	require.NoError(t, err)

	encoded, err := NewSession(intent, newMockTransport(t)).ToEncodedPayload()
	require.NoError(t, err)

	decodedOpts, err := Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, "order-1234", decodedOpts.IdempotencyKey)
	assert.Equal(t, intent.GetClientSecret(), decodedOpts.ClientSecret)

	// Both are already present, so the payload is left as is
	intent, err = NewIntent(decodedOpts)
	require.NoError(t, err)
	reencoded, err := NewSession(intent, newMockTransport(t)).ToEncodedPayload()
	require.NoError(t, err)
	assert.Equal(t, encoded, reencoded)
}

func TestEncodedPayload_Overrides(t *testing.T) {
	destination := testutil.NewRandomAccount(t).PublicKey().ToBase58()

	intent, err := NewIntent(&Options{
		Amount:      1,
		Currency:    "usd",
		Destination: destination,
		ConfirmParams: ConfirmParams{
			Success: &ConfirmUrl{Url: "https://example.com/success"},
			Cancel:  &ConfirmUrl{Url: "https://example.com/cancel"},
		},
	})
	require.NoError(t, err)

	encoded, err := NewSession(intent, newMockTransport(t)).ToEncodedPayload()
	require.NoError(t, err)

	otherSecret := testutilClientSecret(t)

	session, err := NewSessionFromEncodedPayload(encoded, &Overrides{
		ClientSecret: otherSecret,
		SuccessUrl:   "https://other.example.com/success",
	}, newMockTransport(t))
	require.NoError(t, err)

	opts := session.GetIntent().GetOptions()
	assert.Equal(t, otherSecret, session.GetClientSecret())
	assert.NotEqual(t, intent.GetIntentId(), session.GetIntentId())
	assert.Equal(t, "https://other.example.com/success", opts.ConfirmParams.Success.Url)
	assert.Equal(t, "https://example.com/cancel", opts.ConfirmParams.Cancel.Url)

	_, err = NewSessionFromEncodedPayload("%%%", nil, newMockTransport(t))
	assert.True(t, IsDecodeError(err))

	negativeAmount, err := Encode(&Options{Amount: -1, Currency: "usd", Destination: destination})
	require.NoError(t, err)

	for _, payload := range []string{
		negativeAmount,
		base64.RawURLEncoding.EncodeToString([]byte("null")),
		base64.RawURLEncoding.EncodeToString([]byte(`{"a":1,"c":"usd","d":"not-a-key"}`)),
	} {
		_, err = NewSessionFromEncodedPayload(payload, nil, newMockTransport(t))
		require.Error(t, err, payload)
		assert.True(t, IsDecodeError(err), payload)
	}

	// Overrides are validated along with the decoded options
	_, err = NewSessionFromEncodedPayload(encoded, &Overrides{SuccessUrl: "ftp://example.com"}, newMockTransport(t))
	assert.True(t, IsDecodeError(err))
}

func testutilClientSecret(t *testing.T) string {
	destination := testutil.NewRandomAccount(t).PublicKey().ToBase58()
	intent, err := NewIntent(&Options{Amount: 1, Currency: "usd", Destination: destination})
	require.NoError(t, err)
	return intent.GetClientSecret()
}
