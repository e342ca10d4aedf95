// package identity implements the textual account identifier: 60 uppercase
// letters encoding the 32-byte public key (56-letter base-26 body, four
// 14-letter groups of little-endian uint64s) plus a 4-letter checksum.
package identity

import (
	ebinary "encoding/binary"
	"errors"

	"github.com/aigarth-label/qubic-bridge/config"
	"github.com/aigarth-label/qubic-bridge/qcrypto"

	"github.com/zeebo/blake3"
)

const SIZE = config.IDENTITY_LENGTH

const bodySize = 56 // 4 groups of 14 letters
const checksumLen = 4 // 18 bits of the pubkey digest

type Identity [SIZE]byte

var ErrFormat = errors.New("identity must be 60 uppercase letters")
var ErrChecksum = errors.New("invalid identity checksum")

func FromPubKey(p qcrypto.Pubkey) Identity {
	var id Identity

	for i := 0; i < 4; i++ {
		n := ebinary.LittleEndian.Uint64(p[i*8:])
		for j := 0; j < 14; j++ {
			id[i*14+j] = 'A' + byte(n%26)
			n /= 26
		}
	}

	cs := checksum(p)
	for j := 0; j < checksumLen; j++ {
		id[bodySize+j] = 'A' + byte(cs%26)
		cs /= 26
	}

	return id
}

func checksum(p qcrypto.Pubkey) uint32 {
	h := blake3.Sum256(p[:])
	return ebinary.LittleEndian.Uint32(h[:4]) & 0x3ffff
}

// FromString parses and validates an identity, including its checksum.
func FromString(s string) (Identity, error) {
	if !Valid(s) {
		return Identity{}, ErrFormat
	}

	var id Identity
	copy(id[:], s)

	if FromPubKey(id.PubKey()) != id {
		return Identity{}, ErrChecksum
	}

	return id, nil
}

// Valid checks the format only: exactly 60 uppercase letters. Input
// validation at API boundaries uses this; FromString additionally verifies
// the checksum.
func Valid(s string) bool {
	if len(s) != SIZE {
		return false
	}
	for i := 0; i < SIZE; i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return true
}

// PubKey reconstructs the public key from the 56-letter body.
func (id Identity) PubKey() qcrypto.Pubkey {
	var p qcrypto.Pubkey

	for i := 0; i < 4; i++ {
		var n uint64
		for j := 13; j >= 0; j-- {
			n = n*26 + uint64(id[i*14+j]-'A')
		}
		ebinary.LittleEndian.PutUint64(p[i*8:], n)
	}

	return p
}

func (id Identity) String() string {
	return string(id[:])
}

func (id Identity) MarshalJSON() ([]byte, error) {
	return []byte(`"` + id.String() + `"`), nil
}

func (id *Identity) UnmarshalJSON(c []byte) error {
	if len(c) < 2 || c[0] != '"' || c[len(c)-1] != '"' {
		return errors.New("identity is not a valid string literal")
	}

	parsed, err := FromString(string(c[1 : len(c)-1]))
	if err != nil {
		return err
	}

	*id = parsed
	return nil
}

// DigestID renders a 32-byte digest in the identity alphabet, lowercase.
// Transaction ids use this form.
func DigestID(d [32]byte) string {
	up := FromPubKey(qcrypto.Pubkey(d))

	out := make([]byte, SIZE)
	for i, c := range up[:] {
		out[i] = c - 'A' + 'a'
	}
	return string(out)
}
