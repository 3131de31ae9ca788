package paymentrequest

import (
	currency_lib "github.com/code-payments/code-sdk-go/pkg/currency"
)

// ConfirmUrl is a location the requestor is redirected to once the payment
// request is resolved
type ConfirmUrl struct {
	Url string
}

// ConfirmParams routes the requestor after the payment succeeds or is
// cancelled. Either side is optional.
type ConfirmParams struct {
	Success *ConfirmUrl
	Cancel  *ConfirmUrl
}

// Options is the business payload of a payment request
type Options struct {
	Amount      float64
	Currency    currency_lib.Code
	Destination string

	ClientSecret   string
	IdempotencyKey string

	ConfirmParams ConfirmParams

	// Optional
	Domain string
	Locale string
}

// Overrides replaces individual fields of a decoded payload. Empty values
// leave the decoded field as is.
type Overrides struct {
	ClientSecret   string
	IdempotencyKey string
	SuccessUrl     string
	CancelUrl      string
}

// Clone returns a deep copy of the options
func (o *Options) Clone() *Options {
	cloned := *o
	if o.ConfirmParams.Success != nil {
		success := *o.ConfirmParams.Success
		cloned.ConfirmParams.Success = &success
	}
	if o.ConfirmParams.Cancel != nil {
		cancel := *o.ConfirmParams.Cancel
		cloned.ConfirmParams.Cancel = &cancel
	}
	return &cloned
}

// Merge applies overrides to a copy of the options. Each override only
// replaces its own field, so sibling values (eg. a cancel URL next to an
// overridden success URL) are preserved.
func (o *Options) Merge(overrides *Overrides) *Options {
	merged := o.Clone()
	if overrides == nil {
		return merged
	}

	if len(overrides.ClientSecret) > 0 {
		merged.ClientSecret = overrides.ClientSecret
	}
	if len(overrides.IdempotencyKey) > 0 {
		merged.IdempotencyKey = overrides.IdempotencyKey
	}
	if len(overrides.SuccessUrl) > 0 {
		if merged.ConfirmParams.Success == nil {
			merged.ConfirmParams.Success = &ConfirmUrl{}
		}
		merged.ConfirmParams.Success.Url = overrides.SuccessUrl
	}
	if len(overrides.CancelUrl) > 0 {
		if merged.ConfirmParams.Cancel == nil {
			merged.ConfirmParams.Cancel = &ConfirmUrl{}
		}
		merged.ConfirmParams.Cancel.Url = overrides.CancelUrl
	}
	return merged
}
