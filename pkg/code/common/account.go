package common

import (
	"crypto/ed25519"

	"github.com/pkg/errors"
	"google.golang.org/protobuf/proto"

	commonpb "github.com/code-payments/code-protobuf-api/generated/go/common/v1"
	messagingpb "github.com/code-payments/code-protobuf-api/generated/go/messaging/v1"
)

// Account is an ed25519 keypair where the private half is optional. Rendezvous
// identities and requestor destinations are both accounts.
type Account struct {
	publicKey  *Key
	privateKey *Key
}

func NewAccountFromPublicKey(publicKey *Key) (*Account, error) {
	if publicKey == nil || !publicKey.IsPublic() {
		return nil, errors.New("public key isn't public")
	}
	return &Account{publicKey: publicKey}, nil
}

func NewAccountFromPublicKeyBytes(publicKey []byte) (*Account, error) {
	return accountFromPublic(NewKeyFromBytes(publicKey))
}

func NewAccountFromPublicKeyString(publicKey string) (*Account, error) {
	return accountFromPublic(NewKeyFromString(publicKey))
}

func NewAccountFromProto(proto *commonpb.SolanaAccountId) (*Account, error) {
	if proto == nil {
		return nil, errors.New("account id is nil")
	}
	return NewAccountFromPublicKeyBytes(proto.Value)
}

func NewAccountFromPrivateKey(privateKey *Key) (*Account, error) {
	if privateKey == nil || privateKey.IsPublic() {
		return nil, errors.New("private key isn't private")
	}

	publicKey, err := NewKeyFromBytes(ed25519.PrivateKey(privateKey.ToBytes()).Public().(ed25519.PublicKey))
	if err != nil {
		return nil, errors.Wrap(err, "error deriving public key")
	}
	return &Account{publicKey: publicKey, privateKey: privateKey}, nil
}

func NewAccountFromPrivateKeyBytes(privateKey []byte) (*Account, error) {
	return accountFromPrivate(NewKeyFromBytes(privateKey))
}

func NewAccountFromPrivateKeyString(privateKey string) (*Account, error) {
	return accountFromPrivate(NewKeyFromString(privateKey))
}

// NewAccountFromSeed derives an account with a private key from a 32 byte seed
func NewAccountFromSeed(seed []byte) (*Account, error) {
	return accountFromPrivate(NewKeyFromSeed(seed))
}

func NewRandomAccount() (*Account, error) {
	return accountFromPrivate(NewRandomKey())
}

func accountFromPublic(key *Key, err error) (*Account, error) {
	if err != nil {
		return nil, err
	}
	return NewAccountFromPublicKey(key)
}

func accountFromPrivate(key *Key, err error) (*Account, error) {
	if err != nil {
		return nil, err
	}
	return NewAccountFromPrivateKey(key)
}

func (a *Account) PublicKey() *Key {
	return a.publicKey
}

// PrivateKey is nil for accounts built from a public key
func (a *Account) PrivateKey() *Key {
	return a.privateKey
}

func (a *Account) ToProto() *commonpb.SolanaAccountId {
	return &commonpb.SolanaAccountId{Value: a.publicKey.ToBytes()}
}

// ToIntentId returns the account as an intent ID. Payment request intents are
// addressed by their rendezvous public key.
func (a *Account) ToIntentId() *commonpb.IntentId {
	return &commonpb.IntentId{Value: a.publicKey.ToBytes()}
}

func (a *Account) ToRendezvousKey() *messagingpb.RendezvousKey {
	return &messagingpb.RendezvousKey{Value: a.publicKey.ToBytes()}
}

func (a *Account) Sign(message []byte) ([]byte, error) {
	if a.privateKey == nil {
		return nil, errors.New("account has no private key")
	}
	return ed25519.Sign(a.privateKey.ToBytes(), message), nil
}

// SignProto signs the wire encoding of a proto message. Any signature field on
// the message must be unset when signing.
func (a *Account) SignProto(message proto.Message) (*commonpb.Signature, error) {
	encoded, err := proto.Marshal(message)
	if err != nil {
		return nil, errors.Wrap(err, "error marshalling proto message")
	}

	signature, err := a.Sign(encoded)
	if err != nil {
		return nil, err
	}
	return &commonpb.Signature{Value: signature}, nil
}

func (a *Account) VerifyProto(message proto.Message, signature *commonpb.Signature) (bool, error) {
	if signature == nil {
		return false, nil
	}

	encoded, err := proto.Marshal(message)
	if err != nil {
		return false, errors.Wrap(err, "error marshalling proto message")
	}
	return ed25519.Verify(a.publicKey.ToBytes(), encoded, signature.Value), nil
}

func (a *Account) Validate() error {
	if a == nil {
		return errors.New("account is nil")
	}

	if err := a.publicKey.Validate(); err != nil {
		return errors.Wrap(err, "invalid public key")
	}
	if !a.publicKey.IsPublic() {
		return errors.New("public key isn't public")
	}

	if a.privateKey == nil {
		return nil
	}

	derived, err := NewAccountFromPrivateKey(a.privateKey)
	if err != nil {
		return errors.Wrap(err, "invalid private key")
	}
	if !derived.publicKey.Equals(a.publicKey) {
		return errors.New("private key doesn't map to public key")
	}
	return nil
}

func (a *Account) String() string {
	return a.publicKey.ToBase58()
}
