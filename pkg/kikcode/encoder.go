package kikcode

import (
	"github.com/pkg/errors"
)

// Encoder turns a raw scan code payload into the data rendered in a Kik code
type Encoder interface {
	Encode(payload []byte) (KikCodePayload, error)
}

type finderEncoder struct{}

// NewEncoder returns an Encoder that lays out the payload behind the Kik code
// finder pattern
func NewEncoder() Encoder {
	return &finderEncoder{}
}

// Encode implements Encoder.Encode
func (e *finderEncoder) Encode(payload []byte) (KikCodePayload, error) {
	if len(payload) != payloadSize {
		return nil, errors.Errorf("payload value must be a byte array of size %d", payloadSize)
	}

	return CreateKikCodePayload(payload), nil
}

// ToDescription renders an encoded Kik code payload at the given dimension
func (p KikCodePayload) ToDescription(dimension float64) (*Description, error) {
	return GenerateDescription(dimension, p)
}
