package paymentrequest

import (
	"encoding/base64"
	"encoding/json"

	"github.com/pkg/errors"

	currency_lib "github.com/code-payments/code-sdk-go/pkg/currency"
)

type encodedConfirmUrl struct {
	Url string `json:"u"`
}

type encodedOptions struct {
	Amount         float64            `json:"a"`
	Currency       string             `json:"c"`
	Destination    string             `json:"d"`
	ClientSecret   string             `json:"s,omitempty"`
	IdempotencyKey string             `json:"i,omitempty"`
	SuccessUrl     *encodedConfirmUrl `json:"cs,omitempty"`
	CancelUrl      *encodedConfirmUrl `json:"cc,omitempty"`
	Domain         string             `json:"dm,omitempty"`
	Locale         string             `json:"l,omitempty"`
}

// Encode serializes options into a compact, URL safe payload
func Encode(opts *Options) (string, error) {
	if opts == nil {
		return "", errors.New("options are nil")
	}

	encoded := &encodedOptions{
		Amount:         opts.Amount,
		Currency:       string(opts.Currency),
		Destination:    opts.Destination,
		ClientSecret:   opts.ClientSecret,
		IdempotencyKey: opts.IdempotencyKey,
		Domain:         opts.Domain,
		Locale:         opts.Locale,
	}
	if opts.ConfirmParams.Success != nil {
		encoded.SuccessUrl = &encodedConfirmUrl{Url: opts.ConfirmParams.Success.Url}
	}
	if opts.ConfirmParams.Cancel != nil {
		encoded.CancelUrl = &encodedConfirmUrl{Url: opts.ConfirmParams.Cancel.Url}
	}

	jsonBytes, err := json.Marshal(encoded)
	if err != nil {
		return "", errors.Wrap(err, "error marshalling options")
	}
	return base64.RawURLEncoding.EncodeToString(jsonBytes), nil
}

// Decode parses a payload produced by Encode. Any failure is returned as a
// *DecodeError.
func Decode(payload string) (*Options, error) {
	if len(payload) == 0 {
		return nil, newDecodeError(errors.New("payload is empty"))
	}

	jsonBytes, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return nil, newDecodeError(errors.Wrap(err, "payload is not valid base64"))
	}

	var encoded encodedOptions
	if err := json.Unmarshal(jsonBytes, &encoded); err != nil {
		return nil, newDecodeError(errors.Wrap(err, "payload is not valid json"))
	}

	opts := &Options{
		Amount:         encoded.Amount,
		Currency:       currency_lib.Code(encoded.Currency),
		Destination:    encoded.Destination,
		ClientSecret:   encoded.ClientSecret,
		IdempotencyKey: encoded.IdempotencyKey,
		Domain:         encoded.Domain,
		Locale:         encoded.Locale,
	}
	if encoded.SuccessUrl != nil {
		opts.ConfirmParams.Success = &ConfirmUrl{Url: encoded.SuccessUrl.Url}
	}
	if encoded.CancelUrl != nil {
		opts.ConfirmParams.Cancel = &ConfirmUrl{Url: encoded.CancelUrl.Url}
	}
	return opts, nil
}
