// package qcrypto is the key-derivation and signing collaborator. It does
// not reimplement the network's native primitives; it satisfies the contract
// the rest of the system depends on: deterministic seed -> keypair, and
// signatures verifiable by any holder of the public key.
package qcrypto

import (
	"crypto"
	"crypto/ed25519"
	"crypto/rand"
	"fmt"

	"github.com/zeebo/blake3"
)

const SIGNATURE_SIZE = 64
const PUBKEY_SIZE = 32
const PRIVKEY_SIZE = 32 + PUBKEY_SIZE

type Pubkey [PUBKEY_SIZE]byte
type Privkey [PRIVKEY_SIZE]byte
type Signature [SIGNATURE_SIZE]byte

func (p Privkey) Public() Pubkey {
	return Pubkey(p[32:])
}

// KeyFromSeed deterministically derives a keypair from seed bytes.
func KeyFromSeed(seed []byte) Privkey {
	h := blake3.Sum256(seed)
	return Privkey(ed25519.NewKeyFromSeed(h[:]))
}

func Sign(message []byte, key Privkey) (Signature, error) {
	edk := ed25519.PrivateKey(key[:])

	x, err := edk.Sign(nil, message, crypto.Hash(0))

	if err != nil {
		return Signature{}, err
	}

	if len(x) != SIGNATURE_SIZE {
		panic(fmt.Errorf("signature size: %d, expected: %d", len(x), SIGNATURE_SIZE))
	}

	return Signature(x), err
}

// returns true if the signature is valid
func VerifySignature(sender Pubkey, data []byte, signature Signature) bool {
	return ed25519.Verify(ed25519.PublicKey(sender[:]), data, signature[:])
}

// RandRead fills b with cryptographically secure random bytes, panicking if
// the system source fails.
func RandRead(b []byte) {
	_, err := rand.Read(b)
	if err != nil {
		panic(err)
	}
}
