package identity

import (
	"errors"
	"strings"

	"github.com/aigarth-label/qubic-bridge/config"
	"github.com/aigarth-label/qubic-bridge/qcrypto"

	"github.com/tyler-smith/go-bip39"
	"github.com/zeebo/blake3"
)

// Seed is the private secret an identity and signing key derive from:
// 55 lowercase letters.
type Seed string

const SeedSize = config.SEED_LENGTH

// seed entropy in bytes for generated seeds
const SEED_ENTROPY = 16

var ErrSeedFormat = errors.New("seed must be 55 lowercase letters")

func (s Seed) Valid() bool {
	if len(s) != SeedSize {
		return false
	}
	for i := 0; i < SeedSize; i++ {
		if s[i] < 'a' || s[i] > 'z' {
			return false
		}
	}
	return true
}

func (s Seed) Bytes() []byte {
	return []byte(s)
}

// Key derives the signing keypair. Pure and deterministic; callers cache the
// result since derivation is treated as expensive.
func (s Seed) Key() qcrypto.Privkey {
	return qcrypto.KeyFromSeed(s.Bytes())
}

// Identity derives the public identity for this seed.
func (s Seed) Identity() Identity {
	return FromPubKey(s.Key().Public())
}

// NewMnemonic generates a fresh seed along with a mnemonic phrase that can
// recover it (see SeedFromMnemonic).
func NewMnemonic() (string, Seed) {
	entropy := make([]byte, SEED_ENTROPY)
	qcrypto.RandRead(entropy)

	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		panic(err)
	}

	return mnemonic, seedFromEntropy(entropy)
}

// SeedFromMnemonic recovers the seed backed up by a mnemonic phrase.
func SeedFromMnemonic(mnemonic string) (Seed, error) {
	entropy, err := bip39.EntropyFromMnemonic(strings.TrimSpace(mnemonic))
	if err != nil {
		return "", err
	}

	return seedFromEntropy(entropy), nil
}

func seedFromEntropy(entropy []byte) Seed {
	h := blake3.New()
	h.Write(entropy)

	buf := make([]byte, SeedSize)
	h.Digest().Read(buf)

	for i, b := range buf {
		buf[i] = 'a' + b%26
	}
	return Seed(buf)
}
