package kikcode

import (
	"crypto/ed25519"
	"crypto/sha256"

	"github.com/code-payments/code-sdk-go/pkg/code/common"
)

// The rendezvous keypair is seeded with the hash of the raw payload, so anyone
// who scans the code derives the same keypair
func rendezvousSeed(payload *Payload) []byte {
	hashed := sha256.Sum256(payload.ToBytes())
	return hashed[:]
}

func DeriveRendezvousPrivateKey(payload *Payload) ed25519.PrivateKey {
	return ed25519.NewKeyFromSeed(rendezvousSeed(payload))
}

// ToRendezvousAccount derives the rendezvous keypair addressed by this payload
func (p *Payload) ToRendezvousAccount() (*common.Account, error) {
	return common.NewAccountFromSeed(rendezvousSeed(p))
}
