package kikcode

import (
	"crypto/rand"
	"encoding/binary"
	"math"
	"slices"

	"github.com/pkg/errors"

	"github.com/code-payments/code-sdk-go/pkg/currency"
)

// Scan code payloads are 20 bytes: a kind byte, an 8 byte amount and an 11
// byte nonce. The nonce must be regenerated for every new payment.
//
//	Cash, GiftCard:  | kind | quarks (u64 LE)                    | nonce (11) |
//	PaymentRequest:  | kind | currency index | cents (u56 LE)    | nonce (11) |
//
// The currency index refers to currency.All. Fiat amounts are stored as cents.

type Kind uint8

const (
	Cash Kind = iota
	GiftCard
	PaymentRequest
)

func (k Kind) String() string {
	switch k {
	case Cash:
		return "cash"
	case GiftCard:
		return "gift_card"
	case PaymentRequest:
		return "payment_request"
	}
	return "unknown"
}

const (
	typeSize    = 1
	amountSize  = 8
	nonceSize   = 11
	payloadSize = typeSize + amountSize + nonceSize

	// Fiat amounts are stored in 7 bytes of cents
	maxFiatCents = 1<<56 - 1
)

var ErrInvalidPayload = errors.New("invalid scan code payload")

type IdempotencyKey [nonceSize]byte

type Payload struct {
	kind         Kind
	amountBuffer amountBuffer
	nonce        IdempotencyKey
}

func NewPayloadFromKinAmount(kind Kind, quarks uint64, nonce IdempotencyKey) *Payload {
	return &Payload{
		kind:         kind,
		amountBuffer: newKinAmountBuffer(quarks),
		nonce:        nonce,
	}
}

func NewPayloadFromFiatAmount(kind Kind, currency currency.Code, amount float64, nonce IdempotencyKey) (*Payload, error) {
	amountBuffer, err := newFiatAmountBuffer(currency, amount)
	if err != nil {
		return nil, err
	}

	return &Payload{
		kind:         kind,
		amountBuffer: amountBuffer,
		nonce:        nonce,
	}, nil
}

// NewPayloadFromBytes parses the raw 20 byte scan code payload layout
func NewPayloadFromBytes(buffer []byte) (*Payload, error) {
	if len(buffer) != payloadSize {
		return nil, errors.Wrapf(ErrInvalidPayload, "payload must be %d bytes", payloadSize)
	}

	p := &Payload{
		kind: Kind(buffer[0]),
	}
	copy(p.nonce[:], buffer[typeSize+amountSize:])

	amountBytes := buffer[typeSize : typeSize+amountSize]
	switch p.kind {
	case Cash, GiftCard:
		p.amountBuffer = newKinAmountBuffer(binary.LittleEndian.Uint64(amountBytes))
	case PaymentRequest:
		index := int(amountBytes[0])
		if index >= len(currency.All) {
			return nil, errors.Wrapf(ErrInvalidPayload, "currency index %d is not supported", index)
		}

		var centsBytes [8]byte
		copy(centsBytes[:], amountBytes[1:])
		cents := binary.LittleEndian.Uint64(centsBytes[:])

		p.amountBuffer = &fiatAmountBuffer{
			currency: currency.All[index],
			amount:   float64(cents) / 100,
		}
	default:
		return nil, errors.Wrapf(ErrInvalidPayload, "kind %d is not supported", p.kind)
	}

	return p, nil
}

func (p *Payload) ToBytes() []byte {
	var buffer [payloadSize]byte
	buffer[0] = byte(p.kind)

	amountBuffer := p.amountBuffer.ToBytes()
	copy(buffer[typeSize:], amountBuffer[:])
	copy(buffer[typeSize+amountSize:], p.nonce[:])

	return buffer[:]
}

func (p *Payload) GetKind() Kind {
	return p.kind
}

// GetFiatAmount returns the currency and native amount for payloads created
// from a fiat amount
func (p *Payload) GetFiatAmount() (currency.Code, float64, bool) {
	typed, ok := p.amountBuffer.(*fiatAmountBuffer)
	if !ok {
		return "", 0, false
	}
	return typed.currency, typed.amount, true
}

// GetQuarks returns the quark amount for payloads created from a kin amount
func (p *Payload) GetQuarks() (uint64, bool) {
	typed, ok := p.amountBuffer.(*kinAmountBuffer)
	if !ok {
		return 0, false
	}
	return typed.quarks, true
}

func (p *Payload) GetIdempotencyKey() IdempotencyKey {
	return p.nonce
}

func GenerateRandomIdempotencyKey() IdempotencyKey {
	var buffer [nonceSize]byte
	rand.Read(buffer[:])
	return buffer
}

// NewIdempotencyKeyFromBytes copies an exactly nonce-sized byte slice into an
// IdempotencyKey
func NewIdempotencyKeyFromBytes(value []byte) (IdempotencyKey, error) {
	var key IdempotencyKey
	if len(value) != nonceSize {
		return key, errors.Errorf("idempotency key must be %d bytes", nonceSize)
	}
	copy(key[:], value)
	return key, nil
}

type amountBuffer interface {
	ToBytes() [amountSize]byte
}

type kinAmountBuffer struct {
	quarks uint64
}

func newKinAmountBuffer(quarks uint64) amountBuffer {
	return &kinAmountBuffer{
		quarks: quarks,
	}
}

func (b *kinAmountBuffer) ToBytes() [amountSize]byte {
	var buffer [amountSize]byte
	binary.LittleEndian.PutUint64(buffer[:], b.quarks)
	return buffer
}

type fiatAmountBuffer struct {
	currency currency.Code
	amount   float64
}

func newFiatAmountBuffer(code currency.Code, amount float64) (amountBuffer, error) {
	index := slices.Index(currency.All, code)
	if index < 0 || index > math.MaxUint8 {
		return nil, errors.Errorf("%s currency is not supported", code)
	}

	if amount < 0 || math.Round(amount*100) > maxFiatCents {
		return nil, errors.Errorf("%f cannot be represented in a scan code", amount)
	}

	return &fiatAmountBuffer{
		currency: code,
		amount:   amount,
	}, nil
}

func (b *fiatAmountBuffer) ToBytes() [amountSize]byte {
	var buffer [amountSize]byte

	buffer[0] = byte(slices.Index(currency.All, b.currency))

	var centsBuffer [8]byte
	binary.LittleEndian.PutUint64(centsBuffer[:], uint64(math.Round(b.amount*100)))
	copy(buffer[1:], centsBuffer[:amountSize-1])

	return buffer
}
