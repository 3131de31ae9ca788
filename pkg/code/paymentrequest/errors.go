package paymentrequest

import (
	"fmt"

	"github.com/pkg/errors"

	messagingpb "github.com/code-payments/code-protobuf-api/generated/go/messaging/v1"
)

// DecodeError indicates an encoded payload could not be decoded
type DecodeError struct {
	cause error
}

func newDecodeError(cause error) *DecodeError {
	return &DecodeError{
		cause: cause,
	}
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("malformed payment request payload: %s", e.cause.Error())
}

func (e *DecodeError) Unwrap() error {
	return e.cause
}

func (e *DecodeError) Cause() error {
	return e.cause
}

// IsDecodeError returns whether err is, or wraps, a DecodeError
func IsDecodeError(err error) bool {
	var target *DecodeError
	return errors.As(err, &target)
}

// RejectionError indicates the messaging service refused the initial payment
// request message
type RejectionError struct {
	Result messagingpb.SendMessageResponse_Result
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("send message result %s", e.Result)
}
