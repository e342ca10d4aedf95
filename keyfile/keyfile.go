// package keyfile stores the treasury seed at rest: argon2id-derived key,
// AES-256-GCM sealed, so deployments don't need a plaintext seed in the
// environment.
package keyfile

import (
	"os"

	"github.com/aigarth-label/qubic-bridge/binary"
	"github.com/aigarth-label/qubic-bridge/identity"
	"github.com/aigarth-label/qubic-bridge/qcrypto"

	"github.com/pkg/errors"
)

var magic = []byte("QBK1")

const kdfTime = 4
const kdfMem = 64 * 1024 // KiB

var ErrExists = errors.New("keyfile already exists")

// Create writes seed to path, sealed with pass.
// Layout: magic | salt (16) | kdf time (u32) | kdf mem (u32) | sealed seed
func Create(path string, seed identity.Seed, pass []byte) error {
	if !seed.Valid() {
		return identity.ErrSeedFormat
	}
	if _, err := os.Lstat(path); err == nil {
		return ErrExists
	}

	salt := make([]byte, 16)
	qcrypto.RandRead(salt)

	s := binary.NewSer(make([]byte, 32))
	s.AddFixedByteArray(magic)
	s.AddFixedByteArray(salt)
	s.AddUint32(kdfTime)
	s.AddUint32(kdfMem)

	key := qcrypto.KDF(pass, salt, kdfTime, kdfMem)
	cip, err := qcrypto.NewCipher(key)
	if err != nil {
		return err
	}

	sealed, err := cip.Encrypt(seed.Bytes())
	if err != nil {
		return errors.Wrap(err, "sealing seed")
	}

	return os.WriteFile(path, append(s.Output(), sealed...), 0o600)
}

func Open(path string, pass []byte) (identity.Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	d := binary.NewDes(data)

	if string(d.ReadFixedByteArray(4)) != string(magic) {
		return "", errors.New("not a seed keyfile")
	}
	salt := d.ReadFixedByteArray(16)
	time := d.ReadUint32()
	mem := d.ReadUint32()
	if d.Error() != nil {
		return "", d.Error()
	}

	key := qcrypto.KDF(pass, salt, time, mem)
	cip, err := qcrypto.NewCipher(key)
	if err != nil {
		return "", err
	}

	raw, err := cip.Decrypt(d.RemainingData())
	if err != nil {
		return "", errors.Wrap(err, "wrong passphrase or corrupt keyfile")
	}

	seed := identity.Seed(raw)
	if !seed.Valid() {
		return "", errors.New("keyfile does not contain a valid seed")
	}

	return seed, nil
}
